package compose

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PhilflowIO/dav-mcp-sub001/pkg/vobject"
)

// ErrUnknownField reports an attempt to encode a value for a property this
// layer does not know how to write. Per the encoder contract this is caller
// misuse and fails loudly instead of guessing.
var ErrUnknownField = errors.New("unknown writable field")

// ErrNoTerminator reports raw text with no END line to splice into.
var ErrNoTerminator = errors.New("document has no END line")

// writableProps are the free-text properties a field update may target,
// keyed by uppercase property name. Only text-class properties are writable
// through this path; structured and date-time properties need a full
// re-compose.
var writableProps = map[string]bool{
	"SUMMARY":     true,
	"DESCRIPTION": true,
	"LOCATION":    true,
	"STATUS":      true,
	"FN":          true,
	"NICKNAME":    true,
	"TITLE":       true,
	"NOTE":        true,
	"EMAIL":       true,
	"TEL":         true,
}

// SetRawProperty splices a plain field value into existing raw document
// text: the value is escaped exactly once and folded, the first existing
// logical line for the property is replaced (continuations included), or a
// new line is inserted before the entity terminator when the property is
// absent. Every other byte of the document passes through untouched, so
// vendor extensions and unknown properties survive the round trip.
func SetRawProperty(raw, name, plain string) (string, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if !writableProps[name] {
		return "", fmt.Errorf("%w: %s", ErrUnknownField, name)
	}

	newLine := vobject.ContentLine(name, plain)
	lines := splitPhysical(raw)

	start, end := findLogicalLine(lines, name)
	if start >= 0 {
		out := make([]string, 0, len(lines))
		out = append(out, lines[:start]...)
		out = append(out, newLine)
		out = append(out, lines[end:]...)
		return strings.Join(out, "\r\n") + "\r\n", nil
	}

	insert := insertionPoint(lines)
	if insert < 0 {
		return "", ErrNoTerminator
	}
	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:insert]...)
	out = append(out, newLine)
	out = append(out, lines[insert:]...)
	return strings.Join(out, "\r\n") + "\r\n", nil
}

// splitPhysical splits raw text into physical lines without terminators,
// dropping a trailing empty segment.
func splitPhysical(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	lines := strings.Split(raw, "\n")
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// findLogicalLine locates the first logical line for the property, returning
// the index of its first physical line and the index one past its last
// continuation. Returns -1, -1 when absent.
func findLogicalLine(lines []string, name string) (int, int) {
	for i, line := range lines {
		if line == "" || line[0] == ' ' || line[0] == '\t' {
			continue
		}
		if !matchesProperty(line, name) {
			continue
		}
		end := i + 1
		for end < len(lines) && len(lines[end]) > 0 && (lines[end][0] == ' ' || lines[end][0] == '\t') {
			end++
		}
		return i, end
	}
	return -1, -1
}

func matchesProperty(line, name string) bool {
	if len(line) <= len(name) {
		return false
	}
	head := strings.ToUpper(line[:len(name)])
	if head != name {
		return false
	}
	switch line[len(name)] {
	case ':', ';':
		return true
	}
	return false
}

// insertionPoint picks where a new property line goes: before the first
// entity terminator (END:VEVENT, END:VTODO, END:VCARD), falling back to the
// last END line of the document.
func insertionPoint(lines []string) int {
	for i, line := range lines {
		switch strings.ToUpper(strings.TrimSpace(line)) {
		case "END:VEVENT", "END:VTODO", "END:VJOURNAL", "END:VCARD":
			return i
		}
	}
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.HasPrefix(strings.ToUpper(lines[i]), "END:") {
			return i
		}
	}
	return -1
}
