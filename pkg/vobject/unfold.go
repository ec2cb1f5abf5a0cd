package vobject

import "strings"

// UnfoldLines splits raw text into logical content lines, joining folded
// continuations (RFC 5545 §3.1, RFC 6350 §3.2). A continuation is any line
// starting with a single space or tab; exactly one leading whitespace
// character is stripped before appending. A continuation with no preceding
// line starts a new (malformed) logical line instead of failing. Empty lines
// are dropped. Unfolding never returns an error.
func UnfoldLines(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		if line == "" {
			continue
		}
		if (line[0] == ' ' || line[0] == '\t') && len(out) > 0 {
			out[len(out)-1] += line[1:]
			continue
		}
		if line[0] == ' ' || line[0] == '\t' {
			line = line[1:]
			if line == "" {
				continue
			}
		}
		out = append(out, line)
	}
	return out
}
