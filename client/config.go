// Copyright Repoctl Contributors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	DefaultEnvPrefix = "REPOCTL"

	DefaultBaseURL = "http://localhost:5000"
	DefaultTimeout = 30 * time.Second
)

// DefaultDataModels maps the data-model tags supported out of the box to
// their API prefixes. The set is configuration-driven: deployments add or
// remove models via the data_models config key, nothing else is hard-coded.
var DefaultDataModels = map[string]string{
	"rdm":    "/api/records",
	"marc21": "/api/marc21/records",
	"lom":    "/api/lom/records",
}

// DefaultDataModel is used when a command is invoked without --data-model.
const DefaultDataModel = "rdm"

type Config struct {
	BaseURL    string            `json:"base_url,omitempty"    mapstructure:"base_url"`
	Token      string            `json:"token,omitempty"       mapstructure:"token"`
	Timeout    time.Duration     `json:"timeout,omitempty"     mapstructure:"timeout"`
	DataModels map[string]string `json:"data_models,omitempty" mapstructure:"data_models"`
	NoColor    bool              `json:"no_color,omitempty"    mapstructure:"no_color"`
}

// LoadConfig reads configuration from an optional config file and from
// REPOCTL_* environment variables.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.NewWithOptions(
		viper.KeyDelimiter("."),
		viper.EnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_")),
	)

	v.SetEnvPrefix(DefaultEnvPrefix)
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	_ = v.BindEnv("base_url")
	v.SetDefault("base_url", DefaultBaseURL)

	_ = v.BindEnv("token")
	v.SetDefault("token", "")

	_ = v.BindEnv("timeout")
	v.SetDefault("timeout", DefaultTimeout)

	_ = v.BindEnv("no_color")
	v.SetDefault("no_color", false)

	v.SetDefault("data_models", DefaultDataModels)

	if configFile != "" {
		v.SetConfigFile(configFile)

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	decodeHooks := mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)

	config := &Config{}
	if err := v.Unmarshal(config, viper.DecodeHook(decodeHooks)); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if len(config.DataModels) == 0 {
		config.DataModels = DefaultDataModels
	}

	return config, nil
}

// SupportedDataModels returns the configured tags in no particular order.
func (c *Config) SupportedDataModels() []string {
	tags := make([]string, 0, len(c.DataModels))
	for tag := range c.DataModels {
		tags = append(tags, tag)
	}

	return tags
}
