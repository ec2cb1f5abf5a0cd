package vobject

import "strings"

// contentLine is one tokenized logical line before value decoding.
type contentLine struct {
	Name     string
	Params   Params
	RawValue string
}

// parseContentLine splits a logical line into name, parameters and raw value.
// Names and parameter keys are normalized to uppercase. Returns ok=false for
// blank lines and lines with no value separator; such lines are skipped and
// the property treated as absent.
func parseContentLine(line string) (contentLine, bool) {
	if strings.TrimSpace(line) == "" {
		return contentLine{}, false
	}
	sep := findValueSep(line)
	if sep < 0 {
		return contentLine{}, false
	}
	head, rawValue := line[:sep], line[sep+1:]

	fields := splitOutsideQuotes(head, ';')
	name := strings.ToUpper(strings.TrimSpace(fields[0]))
	if name == "" {
		return contentLine{}, false
	}

	params := make(Params)
	for _, f := range fields[1:] {
		key, val, found := strings.Cut(f, "=")
		key = strings.ToUpper(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		if !found {
			params[key] = []string{""}
			continue
		}
		if len(val) >= 2 && val[0] == '"' && val[len(val)-1] == '"' {
			// Quoted values are taken verbatim; quoting permits ':' and ','.
			params[key] = []string{val[1 : len(val)-1]}
		} else {
			params[key] = strings.Split(val, ",")
		}
	}

	return contentLine{Name: name, Params: params, RawValue: rawValue}, true
}

// findValueSep locates the first ':' outside double quotes and not preceded
// by a backslash.
func findValueSep(line string) int {
	inQuotes := false
	escaped := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case c == '"':
			inQuotes = !inQuotes
		case c == ':' && !inQuotes:
			return i
		}
	}
	return -1
}

// splitOutsideQuotes splits s on sep, ignoring separators inside double
// quotes or preceded by a backslash.
func splitOutsideQuotes(s string, sep byte) []string {
	var out []string
	start := 0
	inQuotes := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case c == '"':
			inQuotes = !inQuotes
		case c == sep && !inQuotes:
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return append(out, s[start:])
}
