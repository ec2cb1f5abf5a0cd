package vobject

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// valueClass describes how a property's raw value is decoded.
type valueClass int

const (
	classText valueClass = iota
	classDateTime
	classInteger
	classBoolean
	classList
	classStructured
	classTrigger // signed duration or absolute date-time
)

// structuredArity gives the fixed part count for RFC 6350 structured values.
// N: family, given, additional, prefixes, suffixes.
// ADR: PO box, extended, street, locality, region, postal code, country.
var structuredArity = map[string]int{
	"N":   5,
	"ADR": 7,
	"ORG": 0, // variable: organizational units
	"GEO": 0,
}

var propClasses = map[string]valueClass{
	"DTSTART":          classDateTime,
	"DTEND":            classDateTime,
	"DUE":              classDateTime,
	"COMPLETED":        classDateTime,
	"DTSTAMP":          classDateTime,
	"CREATED":          classDateTime,
	"LAST-MODIFIED":    classDateTime,
	"RECURRENCE-ID":    classDateTime,
	"REV":              classDateTime,
	"BDAY":             classDateTime,
	"TRIGGER":          classTrigger,
	"DURATION":         classTrigger,
	"PRIORITY":         classInteger,
	"PERCENT-COMPLETE": classInteger,
	"SEQUENCE":         classInteger,
	"REPEAT":           classInteger,
	"CATEGORIES":       classList,
	"RESOURCES":        classList,
	"NICKNAME":         classList,
	"N":                classStructured,
	"ADR":              classStructured,
	"ORG":              classStructured,
	"GEO":              classStructured,
}

// Unescape reverses property-value escaping: \\ -> \, \; -> ;, \, -> ,,
// \n and \N -> newline. Any other backslash sequence passes through
// unchanged, trailing backslashes included.
func Unescape(s string) string {
	if !strings.Contains(s, "\\") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		switch s[i+1] {
		case '\\', ';', ',':
			b.WriteByte(s[i+1])
			i++
		case 'n', 'N':
			b.WriteByte('\n')
			i++
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// decodeValue turns a raw property value into a TypedValue using the
// property name's declared class. A value that does not fit its class
// degrades to a text value holding the raw string; tz collects any
// unresolved-TZID diagnostic.
func decodeValue(name string, params Params, raw string, tz *TimezoneTable) TypedValue {
	switch propClasses[name] {
	case classDateTime:
		if v, ok := decodeDateTime(raw, params, tz); ok {
			return v
		}
	case classTrigger:
		if v, ok := decodeDuration(raw); ok {
			return v
		}
		if v, ok := decodeDateTime(raw, params, tz); ok {
			return v
		}
	case classInteger:
		if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
			return TypedValue{Kind: KindInteger, Int: n}
		}
	case classBoolean:
		switch strings.ToUpper(strings.TrimSpace(raw)) {
		case "TRUE":
			return TypedValue{Kind: KindBoolean, Bool: true, Text: "TRUE"}
		case "FALSE":
			return TypedValue{Kind: KindBoolean, Bool: false, Text: "FALSE"}
		}
	case classList:
		items := splitUnescaped(raw, ',')
		vs := make([]TypedValue, 0, len(items))
		for _, it := range items {
			vs = append(vs, TypedValue{Kind: KindText, Text: Unescape(it)})
		}
		return TypedValue{Kind: KindList, List: vs}
	case classStructured:
		parts := splitUnescaped(raw, ';')
		if n := structuredArity[name]; n > 0 {
			for len(parts) < n {
				parts = append(parts, "")
			}
			parts = parts[:n]
		}
		vs := make([]TypedValue, 0, len(parts))
		for _, p := range parts {
			vs = append(vs, TypedValue{Kind: KindText, Text: Unescape(p)})
		}
		return TypedValue{Kind: KindStructured, List: vs}
	default:
		return TypedValue{Kind: KindText, Text: Unescape(raw)}
	}
	// Local decode failure: keep the raw string so nothing is lost.
	return TypedValue{Kind: KindText, Text: raw}
}

// decodeDateTime parses the iCalendar date and date-time layouts. A trailing
// Z yields a UTC instant; otherwise a TZID parameter is resolved against the
// document's timezone table; otherwise the value is a floating local time.
func decodeDateTime(raw string, params Params, tz *TimezoneTable) (TypedValue, bool) {
	s := strings.TrimSpace(raw)

	if len(s) == 8 {
		t, err := time.Parse("20060102", s)
		if err != nil {
			return TypedValue{}, false
		}
		return TypedValue{Kind: KindDateTime, Time: t, DateOnly: true}, true
	}

	if strings.HasSuffix(s, "Z") {
		t, err := time.Parse("20060102T150405Z", s)
		if err != nil {
			return TypedValue{}, false
		}
		return TypedValue{Kind: KindDateTime, Time: t}, true
	}

	tzid := params.Get("TZID")
	loc, resolved := tz.Lookup(tzid)
	if tzid != "" && !resolved {
		tz.noteUnresolved(tzid)
	}
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation("20060102T150405", s, loc)
	if err != nil {
		return TypedValue{}, false
	}
	v := TypedValue{Kind: KindDateTime, Time: t}
	if resolved {
		v.TZID = tzid
	} else {
		v.Floating = true
		v.TZID = tzid
	}
	return v, true
}

// decodeDuration parses an RFC 5545 duration, optionally signed
// (e.g. -PT15M, P1DT2H). Week durations (P2W) are accepted.
func decodeDuration(raw string) (TypedValue, bool) {
	s := strings.TrimSpace(raw)
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	if !strings.HasPrefix(s, "P") {
		return TypedValue{}, false
	}

	var d time.Duration
	var cur strings.Builder
	inTime := false
	for _, r := range s[1:] {
		switch r {
		case 'T':
			inTime = true
			cur.Reset()
		case 'W', 'D', 'H', 'M', 'S':
			n, err := strconv.Atoi(cur.String())
			if err != nil {
				return TypedValue{}, false
			}
			switch {
			case r == 'W':
				d += time.Duration(n) * 7 * 24 * time.Hour
			case r == 'D':
				d += time.Duration(n) * 24 * time.Hour
			case r == 'H' && inTime:
				d += time.Duration(n) * time.Hour
			case r == 'M' && inTime:
				d += time.Duration(n) * time.Minute
			case r == 'S' && inTime:
				d += time.Duration(n) * time.Second
			default:
				return TypedValue{}, false
			}
			cur.Reset()
		default:
			if r < '0' || r > '9' {
				return TypedValue{}, false
			}
			cur.WriteRune(r)
		}
	}
	if neg {
		d = -d
	}
	return TypedValue{Kind: KindDuration, Dur: d}, true
}

// splitUnescaped splits on sep, honoring backslash escapes.
func splitUnescaped(s string, sep byte) []string {
	var out []string
	start := 0
	escaped := false
	for i := 0; i < len(s); i++ {
		switch {
		case escaped:
			escaped = false
		case s[i] == '\\':
			escaped = true
		case s[i] == sep:
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return append(out, s[start:])
}

// FormatDateTime renders a decoded date-time the way reports show it.
func FormatDateTime(v TypedValue) string {
	switch {
	case v.Kind != KindDateTime:
		return v.Text
	case v.DateOnly:
		return v.Time.Format("2006-01-02") + " (all day)"
	case v.Floating && v.TZID != "":
		return fmt.Sprintf("%s (%s, unresolved)", v.Time.Format("2006-01-02 15:04"), v.TZID)
	case v.Floating:
		return v.Time.Format("2006-01-02 15:04") + " (floating)"
	case v.TZID != "":
		return fmt.Sprintf("%s (%s)", v.Time.Format("2006-01-02 15:04"), v.TZID)
	default:
		return v.Time.UTC().Format("2006-01-02 15:04 UTC")
	}
}
