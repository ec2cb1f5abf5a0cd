package vobject

import "strings"

// Escape encodes a plain application-level string for use as a single
// property value: backslash, semicolon, comma and newline are escaped per
// RFC 5545 §3.3.11 / RFC 6350 §3.4; every other character, carriage return
// included, passes through unchanged, so Unescape(Escape(s)) == s for any s.
// Escape must be applied exactly once — it is deliberately not idempotent,
// so never feed it text that was already read out of an encoded document.
// An empty string encodes to an empty string.
func Escape(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case ';':
			b.WriteString(`\;`)
		case ',':
			b.WriteString(`\,`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

const foldWidth = 75

// FoldLine folds an encoded content line at 75 octets, continuing with
// CRLF + a single space. Folding is always applied on output. Multi-byte
// UTF-8 sequences are never split across a fold.
func FoldLine(line string) string {
	if len(line) <= foldWidth {
		return line
	}
	var b strings.Builder
	width := 0
	limit := foldWidth
	for i := 0; i < len(line); {
		n := runeLen(line[i])
		if i+n > len(line) {
			n = len(line) - i
		}
		if width+n > limit {
			b.WriteString("\r\n ")
			width = 0
			limit = foldWidth - 1 // continuation lines carry the leading space
		}
		b.WriteString(line[i : i+n])
		width += n
		i += n
	}
	return b.String()
}

// ContentLine assembles and folds a complete NAME:VALUE line from a plain
// value, applying Escape exactly once.
func ContentLine(name, plain string) string {
	return FoldLine(strings.ToUpper(name) + ":" + Escape(plain))
}

func runeLen(b byte) int {
	switch {
	case b&0x80 == 0:
		return 1
	case b&0xE0 == 0xC0:
		return 2
	case b&0xF0 == 0xE0:
		return 3
	case b&0xF8 == 0xF0:
		return 4
	default:
		return 1
	}
}
