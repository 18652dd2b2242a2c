package envsafe

import (
	"regexp"
	"sort"
	"strings"
)

// variableStart matches lines that look like the beginning of a variable
// assignment: optional leading whitespace, an identifier starting with a
// letter or underscore (interior spaces tolerated), optional trailing
// whitespace, then '='. Lines that do not match are skipped without error.
var variableStart = regexp.MustCompile(`^[ \t]*[A-Za-z_][A-Za-z0-9_ ]*[ \t]*=`)

// Parse converts .env-style text into a key/value map. It is pure: no files
// are read and the environment is never touched.
//
// Values may be unquoted (trimmed, a '#' starts a trailing comment) or
// enclosed in single or double quotes. Quoted values may span multiple lines
// and may contain further quote characters; the closing delimiter is the
// outermost matching quote. Literal `\n` sequences inside quoted values are
// expanded to newlines; no other escape processing occurs. When the same key
// appears more than once, the last occurrence wins.
//
// A line that looks like an assignment but cannot be fully parsed (an
// unterminated quote) yields a *ParseError.
func Parse(text string) (map[string]string, error) {
	env := make(map[string]string)
	lines := strings.Split(text, "\n")
	for i := 0; i < len(lines); i++ {
		if !variableStart.MatchString(lines[i]) {
			continue
		}
		key, value, last, err := extractPair(lines, i)
		if err != nil {
			return nil, err
		}
		env[key] = value
		i = last
	}
	return env, nil
}

// extractPair parses the assignment starting at lines[start] and returns the
// key, the value, and the index of the last line consumed.
func extractPair(lines []string, start int) (string, string, int, error) {
	line := lines[start]
	eq := strings.IndexByte(line, '=')

	// The key is the run of non-whitespace immediately before '='. The
	// start pattern guarantees at least one field.
	fields := strings.Fields(line[:eq])
	key := fields[len(fields)-1]

	rest := strings.TrimLeft(line[eq+1:], " \t")
	if rest == "" || (rest[0] != '\'' && rest[0] != '"') {
		if hash := strings.IndexByte(rest, '#'); hash >= 0 {
			rest = rest[:hash]
		}
		return key, strings.TrimSpace(rest), start, nil
	}

	quote := rest[0]
	var value strings.Builder
	seg := rest[1:]
	i := start
	for {
		if end := strings.LastIndexByte(seg, quote); end >= 0 {
			value.WriteString(seg[:end])
			return key, expandNewlines(value.String()), i, nil
		}
		value.WriteString(seg)
		value.WriteByte('\n')
		i++
		if i == len(lines) {
			return "", "", 0, &ParseError{Line: start + 1, Text: line}
		}
		seg = lines[i]
	}
}

func expandNewlines(s string) string {
	return strings.ReplaceAll(s, `\n`, "\n")
}

// Marshal serializes a configuration map into .env text with keys in sorted
// order, so identical maps always produce identical output. Values that
// would not survive a reparse as-is (quotes, '#', newlines, surrounding
// whitespace) are double-quoted with newlines escaped back to `\n`.
func Marshal(env map[string]string) string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(quoteValue(env[k]))
		b.WriteByte('\n')
	}
	return b.String()
}

func quoteValue(v string) string {
	if v == "" || (!strings.ContainsAny(v, "#'\"\n") && strings.TrimSpace(v) == v) {
		return v
	}
	return `"` + strings.ReplaceAll(v, "\n", `\n`) + `"`
}
