// Package render writes a finished audit for people (the dashboard) or for
// machines (JSON and YAML).
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/kevinmichaelchen/repo-audit/internal/pipeline"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var Formats = []Format{FormatText, FormatJSON, FormatYAML}

func ValidFormat(f Format) bool {
	return slices.Contains(Formats, f)
}

const defaultWidth = 80

// Write dispatches on format. width only affects the text dashboard; pass 0
// to detect it from stdout.
func Write(w io.Writer, format Format, outcome pipeline.Outcome, width int) error {
	switch format {
	case FormatJSON:
		return JSON(w, outcome)
	case FormatYAML:
		return YAML(w, outcome)
	case FormatText, "":
		if width <= 0 {
			width = TerminalWidth()
		}
		return Dashboard(w, outcome, width)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func JSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func YAML(w io.Writer, v any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}

// TerminalWidth is the width of stdout, or 80 when stdout is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return defaultWidth
	}
	return width
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
