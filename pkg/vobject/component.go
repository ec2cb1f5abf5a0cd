package vobject

import (
	"fmt"
	"strings"
)

// Decode parses raw iCalendar or vCard text into a component tree. It never
// returns an error: structural problems are reported through the document's
// Diagnostics and the best-effort tree is returned alongside them. The
// returned tree is not mutated after Decode returns.
func Decode(raw string) *Document {
	doc := &Document{}
	lines := UnfoldLines(raw)
	if len(lines) == 0 {
		doc.Diagnostics = append(doc.Diagnostics, "document contains no content lines")
		return doc
	}

	tz := buildTimezoneTable(lines)

	var stack []*Component
	for _, line := range lines {
		cl, ok := parseContentLine(line)
		if !ok {
			continue
		}

		switch cl.Name {
		case "BEGIN":
			stack = append(stack, &Component{Name: strings.ToUpper(strings.TrimSpace(cl.RawValue))})
			continue
		case "END":
			if len(stack) == 0 {
				doc.Diagnostics = append(doc.Diagnostics,
					fmt.Sprintf("END:%s with no open component", cl.RawValue))
				continue
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if name := strings.ToUpper(strings.TrimSpace(cl.RawValue)); name != top.Name {
				// Pop regardless; the mismatch is recorded, not fatal.
				doc.Diagnostics = append(doc.Diagnostics,
					fmt.Sprintf("END:%s closes component %s", name, top.Name))
			}
			if len(stack) == 0 {
				doc.Components = append(doc.Components, top)
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, top)
			}
			continue
		}

		if len(stack) == 0 {
			doc.Diagnostics = append(doc.Diagnostics,
				fmt.Sprintf("property %s outside any component", cl.Name))
			continue
		}
		top := stack[len(stack)-1]
		top.Properties = append(top.Properties, Property{
			Name:   cl.Name,
			Params: cl.Params,
			Value:  decodeValue(cl.Name, cl.Params, cl.RawValue, tz),
		})
	}

	// Unterminated components are still returned, outermost first.
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		doc.Diagnostics = append(doc.Diagnostics,
			fmt.Sprintf("component %s not terminated before end of input", top.Name))
		if len(stack) == 0 {
			doc.Components = append(doc.Components, top)
		} else {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, top)
		}
	}

	if len(doc.Components) == 0 {
		doc.Diagnostics = append(doc.Diagnostics, "document contains no components")
	}

	for _, tzid := range tz.unresolved {
		doc.Diagnostics = append(doc.Diagnostics,
			fmt.Sprintf("unresolved TZID %q, values treated as floating local time", tzid))
	}

	return doc
}
