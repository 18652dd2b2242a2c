package envsafe

import (
	"errors"
	"maps"
	"testing"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want map[string]string
	}{
		{
			name: "SimplePairs",
			text: "FOO=bar\nBAZ=qux",
			want: map[string]string{"FOO": "bar", "BAZ": "qux"},
		},
		{
			name: "CommentsAndBlanksSkipped",
			text: "# leading comment\n\nFOO=bar\n   \n# trailing comment",
			want: map[string]string{"FOO": "bar"},
		},
		{
			name: "JunkLineSkipped",
			text: "FOO=bar\nBADLINE\n123=nope",
			want: map[string]string{"FOO": "bar"},
		},
		{
			name: "EmptyValue",
			text: "EMPTY=",
			want: map[string]string{"EMPTY": ""},
		},
		{
			name: "UnquotedTrimmedWithTrailingComment",
			text: "FOO=  bar baz  # a comment",
			want: map[string]string{"FOO": "bar baz"},
		},
		{
			name: "WhitespaceAroundKey",
			text: "  FOO  =bar",
			want: map[string]string{"FOO": "bar"},
		},
		{
			name: "KeyIsRunBeforeEquals",
			text: "FOO BAR=bar",
			want: map[string]string{"BAR": "bar"},
		},
		{
			name: "SingleQuoted",
			text: "FOO='  spaced  '",
			want: map[string]string{"FOO": "  spaced  "},
		},
		{
			name: "DoubleQuotedKeepsHash",
			text: `FOO="value # not a comment"`,
			want: map[string]string{"FOO": "value # not a comment"},
		},
		{
			name: "QuotedEscapedNewlineExpanded",
			text: `FOO="line1\nline2"`,
			want: map[string]string{"FOO": "line1\nline2"},
		},
		{
			name: "QuotedInnerQuotes",
			text: `FOO="say "hello" loudly"`,
			want: map[string]string{"FOO": `say "hello" loudly`},
		},
		{
			name: "MultilineQuoted",
			text: "FOO=\"first\nsecond\"\nBAR=after",
			want: map[string]string{"FOO": "first\nsecond", "BAR": "after"},
		},
		{
			name: "DuplicateKeyLastWins",
			text: "FOO=first\nFOO=second",
			want: map[string]string{"FOO": "second"},
		},
		{
			name: "MixedDocument",
			text: "FOO=bar\nBAZ=\"qux\\nquux\"\n# comment\nBADLINE",
			want: map[string]string{"FOO": "bar", "BAZ": "qux\nquux"},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := Parse(tc.text)
			if err != nil {
				t.Fatalf("Parse returned error: %v", err)
			}
			if !maps.Equal(got, tc.want) {
				t.Fatalf("unexpected result: got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestParseUnterminatedQuote(t *testing.T) {
	t.Parallel()

	_, err := Parse("GOOD=ok\nBAD=\"never closed\nSTILL=inside")
	if err == nil {
		t.Fatalf("expected error for unterminated quote")
	}

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}
	if parseErr.Line != 2 {
		t.Fatalf("expected error on line 2, got %d", parseErr.Line)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		"PLAIN":    "value",
		"EMPTY":    "",
		"SPACED":   "  padded  ",
		"COMMENTY": "contains # hash",
		"QUOTED":   `it said "yes"`,
		"MULTI":    "first\nsecond",
	}

	got, err := Parse(Marshal(env))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if !maps.Equal(got, env) {
		t.Fatalf("round trip mismatch: got %v, want %v", got, env)
	}
}

func TestMarshalDeterministic(t *testing.T) {
	t.Parallel()

	env := map[string]string{"B": "2", "A": "1", "C": "3"}
	want := "A=1\nB=2\nC=3\n"
	if got := Marshal(env); got != want {
		t.Fatalf("unexpected output: got %q, want %q", got, want)
	}
	if Marshal(env) != want {
		t.Fatalf("expected identical output across calls")
	}
}
