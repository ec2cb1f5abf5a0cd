// Package report renders decoded calendar and contact trees into sectioned
// textual reports: a headline and itemized fields per entity, then a verbatim
// machine-readable appendix carrying the url/etag/raw triples for round-trip
// use by the caller.
package report

import (
	"fmt"
	"strings"

	"github.com/PhilflowIO/dav-mcp-sub001/internal/davclient"
)

// builder accumulates report fragments and joins them once at the end.
type builder struct {
	frags []string
}

func (b *builder) add(format string, args ...any) {
	b.frags = append(b.frags, fmt.Sprintf(format, args...))
}

// addRaw appends a fragment verbatim, with no format expansion.
func (b *builder) addRaw(s string) {
	b.frags = append(b.frags, s)
}

func (b *builder) blank() { b.frags = append(b.frags, "") }

func (b *builder) String() string {
	return strings.Join(b.frags, "\n")
}

// field emits one indented "Label: value" line, skipping empty values.
func (b *builder) field(label, value string) {
	if value == "" {
		return
	}
	if strings.Contains(value, "\n") {
		// Multi-line values keep their line breaks, indented under the label.
		ind := strings.ReplaceAll(value, "\n", "\n     ")
		b.add("   %s: %s", label, ind)
		return
	}
	b.add("   %s: %s", label, value)
}

// appendix writes the verbatim url/etag/raw triples.
func (b *builder) appendix(objs []davclient.Object) {
	b.blank()
	b.add("--- Raw data (for round-trip use) ---")
	for i, o := range objs {
		b.blank()
		b.add("%d. URL: %s", i+1, o.URL)
		b.add("   ETag: %s", o.ETag)
		b.add("   Data:")
		b.addRaw(strings.TrimRight(o.Data, "\r\n"))
	}
}

// countNoun phrases a count the report way: "2 person(s)", "1 email(s)".
func countNoun(n int, noun string) string {
	return fmt.Sprintf("%d %s(s)", n, noun)
}

func diagnosticsSection(b *builder, diags []string) {
	if len(diags) == 0 {
		return
	}
	b.add("   Parsing notes:")
	for _, d := range diags {
		b.add("     - %s", d)
	}
}
