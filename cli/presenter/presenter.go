// Copyright Repoctl Contributors
// SPDX-License-Identifier: Apache-2.0

// Package presenter renders command results. Formatting configuration is
// passed explicitly, never kept in package globals, and listing output obeys
// the "empty result, no output" rule.
package presenter

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/afero"
)

// Row colors alternate between two foreground colors that stay legible on
// both light and dark terminal backgrounds; backgrounds are never painted.
var alternate = []text.Color{text.FgCyan, text.FgBlue}

// Presenter writes command results to a stream or to a file.
type Presenter struct {
	out     io.Writer
	fs      afero.Fs
	colored bool
	quiet   bool
}

// Option configures a Presenter.
type Option func(*Presenter)

// WithColor toggles colored output.
func WithColor(colored bool) Option {
	return func(p *Presenter) { p.colored = colored }
}

// WithQuiet suppresses summary lines.
func WithQuiet(quiet bool) Option {
	return func(p *Presenter) { p.quiet = quiet }
}

// WithFs sets the filesystem used for --output-file redirection.
func WithFs(fs afero.Fs) Option {
	return func(p *Presenter) { p.fs = fs }
}

// New creates a Presenter writing to out.
func New(out io.Writer, opts ...Option) *Presenter {
	p := &Presenter{
		out:     out,
		fs:      afero.NewOsFs(),
		colored: true,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.colored {
		// the library suppresses ANSI codes when stdout is not a terminal;
		// color is an explicit choice here, redirection is handled by
		// output files instead
		text.EnableColors()
	}

	return p
}

func (p *Presenter) paint(color text.Color, message string) string {
	if !p.colored {
		return message
	}

	return color.Sprint(message)
}

// JSONRows renders items as indented JSON. With outputFile set, the items
// are written there as one JSON array; otherwise each item goes to the
// stream in alternating colors. An empty slice produces no output at all.
func (p *Presenter) JSONRows(items []any, outputFile string) error {
	if len(items) == 0 {
		return nil
	}

	if outputFile != "" {
		raw, err := json.MarshalIndent(items, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}

		if err := afero.WriteFile(p.fs, outputFile, append(raw, '\n'), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}

		return nil
	}

	for index, item := range items {
		raw, err := json.MarshalIndent(item, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}

		fmt.Fprintln(p.out, p.paint(alternate[index%2], string(raw)))
	}

	return nil
}

// Table renders rows under a header with alternating row colors. No rows,
// no output: not even the header is printed.
func (p *Presenter) Table(header []string, rows [][]string, outputFile string) error {
	if len(rows) == 0 {
		return nil
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)

	if p.colored && outputFile == "" {
		t.Style().Color.Row = text.Colors{alternate[0]}
		t.Style().Color.RowAlternate = text.Colors{alternate[1]}
	}

	headerRow := make(table.Row, 0, len(header))
	for _, column := range header {
		headerRow = append(headerRow, column)
	}

	t.AppendHeader(headerRow)

	for _, row := range rows {
		tableRow := make(table.Row, 0, len(row))
		for _, cell := range row {
			tableRow = append(tableRow, cell)
		}

		t.AppendRow(tableRow)
	}

	if outputFile != "" {
		if err := afero.WriteFile(p.fs, outputFile, []byte(t.Render()+"\n"), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}

		return nil
	}

	t.SetOutputMirror(p.out)
	t.Render()

	return nil
}

// Successf prints a success summary line unless quiet is set.
func (p *Presenter) Successf(format string, args ...any) {
	if p.quiet {
		return
	}

	fmt.Fprintln(p.out, p.paint(text.FgGreen, fmt.Sprintf(format, args...)))
}

// Warnf prints a warning line unless quiet is set.
func (p *Presenter) Warnf(format string, args ...any) {
	if p.quiet {
		return
	}

	fmt.Fprintln(p.out, p.paint(text.FgYellow, fmt.Sprintf(format, args...)))
}

// Errorf prints an error line. Errors are never silenced by quiet.
func (p *Presenter) Errorf(format string, args ...any) {
	fmt.Fprintln(p.out, p.paint(text.FgRed, fmt.Sprintf(format, args...)))
}
