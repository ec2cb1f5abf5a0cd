package report

import (
	"fmt"
	"strings"

	"github.com/PhilflowIO/dav-mcp-sub001/internal/davclient"
	"github.com/PhilflowIO/dav-mcp-sub001/pkg/vobject"
)

// Contacts renders the VCARD entities of the given raw objects as one report
// for the named address book.
func Contacts(label string, objs []davclient.Object) string {
	var entities []calendarEntity
	for _, obj := range objs {
		doc := vobject.Decode(obj.Data)
		cards := doc.Components
		found := false
		for _, card := range cards {
			if card.Name != "VCARD" {
				continue
			}
			entities = append(entities, calendarEntity{comp: card, obj: obj, diags: doc.Diagnostics})
			found = true
		}
		if !found {
			entities = append(entities, calendarEntity{comp: nil, obj: obj, diags: doc.Diagnostics})
		}
	}

	if len(entities) == 0 {
		return "No contacts found."
	}

	b := &builder{}
	b.add("Found %s in %q:", countNoun(len(entities), "contact"), label)
	seen := make(map[string]bool)
	var appendix []davclient.Object
	for i, e := range entities {
		b.blank()
		if e.comp == nil {
			b.add("%d. Unnamed Contact", i+1)
		} else {
			renderContact(b, i+1, e.comp)
		}
		diagnosticsSection(b, e.diags)
		if !seen[e.obj.URL] {
			seen[e.obj.URL] = true
			appendix = append(appendix, e.obj)
		}
	}
	b.appendix(appendix)
	return b.String()
}

func renderContact(b *builder, idx int, card *vobject.Component) {
	headline := textOf(card, "FN")
	if headline == "" {
		headline = assembledName(card)
	}
	if headline == "" {
		headline = "Unnamed Contact"
	}
	b.add("%d. %s", idx, headline)

	if name := assembledName(card); name != "" && name != headline {
		b.field("Name", name)
	}
	if org := card.Prop("ORG"); org != nil {
		b.field("Organization", joinParts(org.Value, "; "))
	}
	b.field("Title", textOf(card, "TITLE"))
	renderInstances(b, card.Props("EMAIL"), "Email", "email", taggedLine)
	renderInstances(b, card.Props("TEL"), "Phone", "phone", taggedLine)
	renderInstances(b, card.Props("ADR"), "Address", "address", addressLine)
	if bday := card.Prop("BDAY"); bday != nil {
		b.field("Birthday", vobject.FormatDateTime(bday.Value))
	}
	b.field("Notes", textOf(card, "NOTE"))
}

// assembledName orders the structured N parts for display:
// prefixes, given, additional, family, suffixes.
func assembledName(card *vobject.Component) string {
	n := card.Prop("N")
	if n == nil || n.Value.Kind != vobject.KindStructured || len(n.Value.List) < 5 {
		return ""
	}
	parts := n.Value.List
	ordered := []string{parts[3].Text, parts[1].Text, parts[2].Text, parts[0].Text, parts[4].Text}
	var kept []string
	for _, p := range ordered {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

// renderInstances applies the multiplicity rule: a singular label for exactly
// one instance, a count-qualified list for several.
func renderInstances(b *builder, props []vobject.Property, singular, noun string, line func(vobject.Property) string) {
	switch len(props) {
	case 0:
	case 1:
		b.field(singular, line(props[0]))
	default:
		b.add("   %ss: %s", singular, countNoun(len(props), noun))
		for _, p := range props {
			b.add("     - %s", line(p))
		}
	}
}

// taggedLine shows the value with its type tags when present.
func taggedLine(p vobject.Property) string {
	v := p.Value.Text
	if tags := typeTags(p); tags != "" {
		return fmt.Sprintf("%s (%s)", v, tags)
	}
	return v
}

func addressLine(p vobject.Property) string {
	v := joinParts(p.Value, ", ")
	if v == "" {
		v = p.Value.Text
	}
	if tags := typeTags(p); tags != "" {
		return fmt.Sprintf("%s (%s)", v, tags)
	}
	return v
}

func typeTags(p vobject.Property) string {
	tags := p.Params.Values("TYPE")
	if len(tags) == 0 {
		return ""
	}
	lower := make([]string, 0, len(tags))
	for _, t := range tags {
		if t != "" {
			lower = append(lower, strings.ToLower(t))
		}
	}
	return strings.Join(lower, ", ")
}

func joinParts(v vobject.TypedValue, sep string) string {
	if v.Kind != vobject.KindStructured && v.Kind != vobject.KindList {
		return v.Text
	}
	var kept []string
	for _, part := range v.List {
		if part.Text != "" {
			kept = append(kept, part.Text)
		}
	}
	return strings.Join(kept, sep)
}
