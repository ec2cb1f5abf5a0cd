package vobject

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimezoneTable maps TZID strings to offset rules derived from a document's
// VTIMEZONE blocks. It lives for one decode call only. Only the explicit
// offsets written in the document are honored; TZIDs with no matching
// VTIMEZONE stay unresolved and the referencing values decode as floating.
type TimezoneTable struct {
	zones      map[string]*time.Location
	unresolved []string
}

// Lookup resolves a TZID. A nil location with ok=false means the reference
// could not be matched.
func (t *TimezoneTable) Lookup(tzid string) (*time.Location, bool) {
	if t == nil || tzid == "" {
		return nil, false
	}
	loc, ok := t.zones[tzid]
	return loc, ok
}

func (t *TimezoneTable) noteUnresolved(tzid string) {
	if t == nil {
		return
	}
	for _, u := range t.unresolved {
		if u == tzid {
			return
		}
	}
	t.unresolved = append(t.unresolved, tzid)
}

// buildTimezoneTable scans the logical lines for VTIMEZONE blocks before the
// tree is built, so date-times that precede their VTIMEZONE still resolve.
// The offset is taken from the first TZOFFSETTO of a STANDARD sub-block,
// falling back to any TZOFFSETTO in the VTIMEZONE.
func buildTimezoneTable(lines []string) *TimezoneTable {
	table := &TimezoneTable{zones: make(map[string]*time.Location)}

	depth := 0
	var tzid string
	var standardOffset, anyOffset string
	inStandard := false

	for _, line := range lines {
		cl, ok := parseContentLine(line)
		if !ok {
			continue
		}
		switch cl.Name {
		case "BEGIN":
			name := strings.ToUpper(cl.RawValue)
			if name == "VTIMEZONE" && depth == 0 {
				depth = 1
				tzid, standardOffset, anyOffset = "", "", ""
			} else if depth > 0 {
				depth++
				inStandard = name == "STANDARD"
			}
		case "END":
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				offset := standardOffset
				if offset == "" {
					offset = anyOffset
				}
				if tzid != "" && offset != "" {
					if loc, err := parseUTCOffset(tzid, offset); err == nil {
						table.zones[tzid] = loc
					}
				}
			} else {
				inStandard = false
			}
		case "TZID":
			if depth == 1 {
				tzid = cl.RawValue
			}
		case "TZOFFSETTO":
			if depth > 1 {
				if inStandard && standardOffset == "" {
					standardOffset = cl.RawValue
				}
				if anyOffset == "" {
					anyOffset = cl.RawValue
				}
			}
		}
	}
	return table
}

// parseUTCOffset parses an RFC 5545 utc-offset (+0100, -053000) into a fixed
// location named after the TZID.
func parseUTCOffset(name, s string) (*time.Location, error) {
	s = strings.TrimSpace(s)
	if len(s) != 5 && len(s) != 7 {
		return nil, fmt.Errorf("invalid utc-offset %q", s)
	}
	sign := 1
	switch s[0] {
	case '+':
	case '-':
		sign = -1
	default:
		return nil, fmt.Errorf("invalid utc-offset %q", s)
	}
	hh, err1 := strconv.Atoi(s[1:3])
	mm, err2 := strconv.Atoi(s[3:5])
	ss := 0
	var err3 error
	if len(s) == 7 {
		ss, err3 = strconv.Atoi(s[5:7])
	}
	if err1 != nil || err2 != nil || err3 != nil {
		return nil, fmt.Errorf("invalid utc-offset %q", s)
	}
	return time.FixedZone(name, sign*(hh*3600+mm*60+ss)), nil
}
