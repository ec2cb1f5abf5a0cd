// Package vobject decodes and encodes the text formats shared by iCalendar
// (RFC 5545) and vCard (RFC 6350): folded content lines, parameter lists,
// escaped values and nested BEGIN/END components. The decoder is tolerant by
// design: structural problems become diagnostics on the returned document and
// a malformed property degrades to its raw text instead of failing the decode.
package vobject

import "time"

// Kind tags a TypedValue. The tag is resolved from the property name's
// declared RFC type, never inferred from the value text.
type Kind int

const (
	KindText Kind = iota
	KindDateTime
	KindInteger
	KindBoolean
	KindDuration
	KindList
	KindStructured
)

// TypedValue is the decoded form of a property value. Exactly the fields
// relevant to Kind are populated.
type TypedValue struct {
	Kind Kind

	// Text holds the unescaped value for KindText, the textual form for
	// KindBoolean, and the original raw value when decoding degraded.
	Text string

	// DateTime fields.
	Time     time.Time
	DateOnly bool
	// Floating marks a date-time that carried no Z suffix and no resolvable
	// TZID: the wall-clock digits were kept but the zone is unknown.
	Floating bool
	TZID     string

	Int  int
	Bool bool
	Dur  time.Duration

	// List holds the items of KindList and the fixed-arity parts of
	// KindStructured, each a KindText leaf.
	List []TypedValue
}

// Params holds a property's parameter list. Values are stored as ordered
// sets; duplicate keys are last-wins.
type Params map[string][]string

// Get returns the first value for key, or "".
func (p Params) Get(key string) string {
	if vs := p[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// Values returns all values for key.
func (p Params) Values(key string) []string { return p[key] }

// Property is one decoded content line.
type Property struct {
	Name   string
	Params Params
	Value  TypedValue
}

// Component is a named BEGIN/END block. Properties keep encounter order so
// repeated lines (ATTENDEE, EMAIL, TEL) survive intact.
type Component struct {
	Name       string
	Properties []Property
	Children   []*Component
}

// Prop returns the first property with the given name, or nil.
func (c *Component) Prop(name string) *Property {
	for i := range c.Properties {
		if c.Properties[i].Name == name {
			return &c.Properties[i]
		}
	}
	return nil
}

// Props returns every property with the given name, in encounter order.
func (c *Component) Props(name string) []Property {
	var out []Property
	for _, p := range c.Properties {
		if p.Name == name {
			out = append(out, p)
		}
	}
	return out
}

// ChildrenNamed returns the direct children with the given name.
func (c *Component) ChildrenNamed(name string) []*Component {
	var out []*Component
	for _, ch := range c.Children {
		if ch.Name == name {
			out = append(out, ch)
		}
	}
	return out
}

// Document is the result of one decode call. Diagnostics record structural
// problems (unbalanced BEGIN/END, unresolved TZIDs, orphan properties) that
// did not prevent a best-effort tree from being returned.
type Document struct {
	Components  []*Component
	Diagnostics []string
}

// Component returns the first top-level component with the given name, or nil.
func (d *Document) Component(name string) *Component {
	for _, c := range d.Components {
		if c.Name == name {
			return c
		}
	}
	return nil
}
