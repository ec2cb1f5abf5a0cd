package vobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const nestedCalendar = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:1@example.com\r\n" +
	"SUMMARY:Outer\r\n" +
	"BEGIN:VALARM\r\n" +
	"ACTION:DISPLAY\r\n" +
	"TRIGGER:-PT10M\r\n" +
	"END:VALARM\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func TestDecodeNestedComponents(t *testing.T) {
	doc := Decode(nestedCalendar)
	require.Empty(t, doc.Diagnostics)
	require.Len(t, doc.Components, 1)

	cal := doc.Components[0]
	assert.Equal(t, "VCALENDAR", cal.Name)
	require.Len(t, cal.Children, 1)

	ev := cal.Children[0]
	assert.Equal(t, "VEVENT", ev.Name)
	assert.Equal(t, "Outer", ev.Prop("SUMMARY").Value.Text)
	require.Len(t, ev.Children, 1)
	assert.Equal(t, "VALARM", ev.Children[0].Name)
}

func TestDecodeRepeatedPropertiesKeepOrder(t *testing.T) {
	raw := "BEGIN:VEVENT\r\n" +
		"ATTENDEE;CN=Bob:mailto:bob@example.com\r\n" +
		"ATTENDEE;CN=Carol:mailto:carol@example.com\r\n" +
		"END:VEVENT\r\n"
	doc := Decode(raw)
	atts := doc.Components[0].Props("ATTENDEE")
	require.Len(t, atts, 2)
	assert.Equal(t, "Bob", atts[0].Params.Get("CN"))
	assert.Equal(t, "Carol", atts[1].Params.Get("CN"))
}

func TestDecodeMismatchedEnd(t *testing.T) {
	raw := "BEGIN:VCALENDAR\r\nBEGIN:VEVENT\r\nSUMMARY:x\r\nEND:VTODO\r\nEND:VCALENDAR\r\n"
	doc := Decode(raw)
	// The component is still closed and attached.
	require.Len(t, doc.Components, 1)
	require.Len(t, doc.Components[0].Children, 1)
	assert.Equal(t, "VEVENT", doc.Components[0].Children[0].Name)
	assert.Contains(t, doc.Diagnostics, "END:VTODO closes component VEVENT")
}

func TestDecodeUnterminatedComponent(t *testing.T) {
	raw := "BEGIN:VCALENDAR\r\nBEGIN:VEVENT\r\nSUMMARY:dangling\r\n"
	doc := Decode(raw)
	require.Len(t, doc.Components, 1)
	cal := doc.Components[0]
	assert.Equal(t, "VCALENDAR", cal.Name)
	require.Len(t, cal.Children, 1)
	assert.Equal(t, "dangling", cal.Children[0].Prop("SUMMARY").Value.Text)
	assert.NotEmpty(t, doc.Diagnostics)
}

func TestDecodeStrayEnd(t *testing.T) {
	doc := Decode("END:VEVENT\r\nBEGIN:VEVENT\r\nSUMMARY:x\r\nEND:VEVENT\r\n")
	require.Len(t, doc.Components, 1)
	assert.Contains(t, doc.Diagnostics, "END:VEVENT with no open component")
}

func TestDecodeEmptyInput(t *testing.T) {
	doc := Decode("")
	assert.Empty(t, doc.Components)
	assert.Contains(t, doc.Diagnostics, "document contains no content lines")
}

func TestDecodePropertyOutsideComponent(t *testing.T) {
	doc := Decode("SUMMARY:orphan\r\nBEGIN:VEVENT\r\nEND:VEVENT\r\n")
	require.Len(t, doc.Components, 1)
	assert.Contains(t, doc.Diagnostics, "property SUMMARY outside any component")
}

func TestMalformedPropertyDoesNotAbortDecode(t *testing.T) {
	raw := "BEGIN:VEVENT\r\n" +
		"GARBAGE LINE WITHOUT SEPARATOR\r\n" +
		"DTSTART:banana\r\n" +
		"SUMMARY:Still here\r\n" +
		"END:VEVENT\r\n"
	doc := Decode(raw)
	require.Len(t, doc.Components, 1)
	ev := doc.Components[0]
	assert.Equal(t, "Still here", ev.Prop("SUMMARY").Value.Text)
	assert.Equal(t, "banana", ev.Prop("DTSTART").Value.Text)
	assert.Nil(t, ev.Prop("GARBAGE"))
}
