package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/envsafe/envsafe/internal/cliconfig"
)

func TestPrint(t *testing.T) {
	t.Parallel()

	env := map[string]string{"B_KEY": "two", "A_KEY": "one"}

	t.Run("env format is sorted", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if err := Print(&buf, env, cliconfig.FormatEnv); err != nil {
			t.Fatalf("Print returned error: %v", err)
		}
		if got, want := buf.String(), "A_KEY=one\nB_KEY=two\n"; got != want {
			t.Fatalf("unexpected output: %q", got)
		}
	})

	t.Run("json round trips", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if err := Print(&buf, env, cliconfig.FormatJSON); err != nil {
			t.Fatalf("Print returned error: %v", err)
		}
		var decoded map[string]string
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if decoded["A_KEY"] != "one" || decoded["B_KEY"] != "two" {
			t.Fatalf("unexpected decoded map: %v", decoded)
		}
	})

	t.Run("yaml and toml contain pairs", func(t *testing.T) {
		t.Parallel()

		for _, format := range []string{cliconfig.FormatYAML, cliconfig.FormatTOML} {
			var buf bytes.Buffer
			if err := Print(&buf, env, format); err != nil {
				t.Fatalf("Print(%s) returned error: %v", format, err)
			}
			if !strings.Contains(buf.String(), "A_KEY") || !strings.Contains(buf.String(), "one") {
				t.Fatalf("Print(%s) missing pair: %q", format, buf.String())
			}
		}
	})

	t.Run("unknown format fails", func(t *testing.T) {
		t.Parallel()

		if err := Print(&bytes.Buffer{}, env, "xml"); err == nil {
			t.Fatalf("expected error for unsupported format")
		}
	})
}

func TestStatusTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	StatusTable(&buf, []KeyStatus{
		{Key: "PRESENT", Source: "file", OK: true},
		{Key: "ABSENT", OK: false},
	}, false)

	out := buf.String()
	for _, want := range []string{"PRESENT", "file", "ABSENT", "MISSING"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table missing %q:\n%s", want, out)
		}
	}
}
