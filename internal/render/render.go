// Package render writes resolved configuration to an output stream in the
// formats supported by the CLI, and draws the per-key status table used by
// the check command.
package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/envsafe/envsafe"
	"github.com/envsafe/envsafe/internal/cliconfig"
)

// Print writes the resolved configuration to w in the requested format.
func Print(w io.Writer, env map[string]string, format string) error {
	switch format {
	case cliconfig.FormatEnv:
		_, err := io.WriteString(w, envsafe.Marshal(env))
		return err
	case cliconfig.FormatJSON:
		data, err := json.MarshalIndent(env, "", "  ")
		if err != nil {
			return fmt.Errorf("encode JSON: %w", err)
		}
		_, err = w.Write(append(data, '\n'))
		return err
	case cliconfig.FormatYAML:
		data, err := yaml.Marshal(env)
		if err != nil {
			return fmt.Errorf("encode YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	case cliconfig.FormatTOML:
		data, err := toml.Marshal(env)
		if err != nil {
			return fmt.Errorf("encode TOML: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// KeyStatus describes how one required key is satisfied, if at all.
type KeyStatus struct {
	Key    string
	Source string // "environment", "file", or "" when missing
	OK     bool
}

// StatusTable renders check results as a table. Colors are used only when
// requested by the caller, which knows whether stdout is a terminal.
func StatusTable(w io.Writer, statuses []KeyStatus, colored bool) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Key", "Source", "Status"})
	for _, s := range statuses {
		state := "ok"
		source := s.Source
		if !s.OK {
			state = "MISSING"
			source = "-"
		}
		t.AppendRow(table.Row{s.Key, source, state})
	}
	if colored {
		t.SetStyle(table.StyleColoredDark)
	} else {
		t.SetStyle(table.StyleLight)
	}
	t.Render()
}
