package vobject

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeProp(t *testing.T, line string) Property {
	t.Helper()
	doc := Decode("BEGIN:VEVENT\r\n" + line + "\r\nEND:VEVENT\r\n")
	require.Len(t, doc.Components, 1)
	require.Len(t, doc.Components[0].Properties, 1)
	return doc.Components[0].Properties[0]
}

func TestDecodeEscapedText(t *testing.T) {
	// First unescaped colon ends the name; escaped comma unescapes.
	p := decodeProp(t, `SUMMARY:Meeting: Q4 Strategy\, Budget & Planning`)
	assert.Equal(t, KindText, p.Value.Kind)
	assert.Equal(t, "Meeting: Q4 Strategy, Budget & Planning", p.Value.Text)
}

func TestUnescapeRules(t *testing.T) {
	assert.Equal(t, `a\b`, Unescape(`a\\b`))
	assert.Equal(t, "a;b", Unescape(`a\;b`))
	assert.Equal(t, "a,b", Unescape(`a\,b`))
	assert.Equal(t, "a\nb", Unescape(`a\nb`))
	assert.Equal(t, "a\nb", Unescape(`a\Nb`))
	// Unknown escapes pass through literally.
	assert.Equal(t, `a\tb`, Unescape(`a\tb`))
	assert.Equal(t, `trailing\`, Unescape(`trailing\`))
}

func TestDecodeUTCInstant(t *testing.T) {
	p := decodeProp(t, "DTSTART:20251015T100000Z")
	require.Equal(t, KindDateTime, p.Value.Kind)
	assert.False(t, p.Value.Floating)
	assert.Equal(t, time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC), p.Value.Time)
}

func TestDecodeDateOnly(t *testing.T) {
	p := decodeProp(t, "DTSTART;VALUE=DATE:20251015")
	require.Equal(t, KindDateTime, p.Value.Kind)
	assert.True(t, p.Value.DateOnly)
	assert.Equal(t, 2025, p.Value.Time.Year())
}

func TestDecodeUnresolvedTZIDFloats(t *testing.T) {
	doc := Decode("BEGIN:VEVENT\r\nDTSTART;TZID=Europe/Berlin:20251015T100000\r\nEND:VEVENT\r\n")
	p := doc.Components[0].Properties[0]
	require.Equal(t, KindDateTime, p.Value.Kind)
	assert.True(t, p.Value.Floating)
	assert.Equal(t, "Europe/Berlin", p.Value.TZID)
	assert.Equal(t, 10, p.Value.Time.Hour())
	// The fallback is not silent.
	assert.Contains(t, doc.Diagnostics, `unresolved TZID "Europe/Berlin", values treated as floating local time`)
}

func TestDecodeResolvedTZID(t *testing.T) {
	raw := "BEGIN:VCALENDAR\r\n" +
		"BEGIN:VTIMEZONE\r\n" +
		"TZID:Europe/Berlin\r\n" +
		"BEGIN:STANDARD\r\n" +
		"TZOFFSETTO:+0100\r\n" +
		"END:STANDARD\r\n" +
		"END:VTIMEZONE\r\n" +
		"BEGIN:VEVENT\r\n" +
		"DTSTART;TZID=Europe/Berlin:20251015T100000\r\n" +
		"END:VEVENT\r\n" +
		"END:VCALENDAR\r\n"
	doc := Decode(raw)
	require.Empty(t, doc.Diagnostics)
	ev := doc.Components[0].ChildrenNamed("VEVENT")[0]
	v := ev.Prop("DTSTART").Value
	require.Equal(t, KindDateTime, v.Kind)
	assert.False(t, v.Floating)
	assert.Equal(t, "Europe/Berlin", v.TZID)
	assert.Equal(t, time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC), v.Time.UTC())
}

func TestDecodeTriggerDuration(t *testing.T) {
	p := decodeProp(t, "TRIGGER:-PT15M")
	require.Equal(t, KindDuration, p.Value.Kind)
	assert.Equal(t, -15*time.Minute, p.Value.Dur)

	p = decodeProp(t, "TRIGGER:P1DT2H")
	require.Equal(t, KindDuration, p.Value.Kind)
	assert.Equal(t, 26*time.Hour, p.Value.Dur)
}

func TestDecodeTriggerAbsolute(t *testing.T) {
	p := decodeProp(t, "TRIGGER;VALUE=DATE-TIME:20251015T093000Z")
	require.Equal(t, KindDateTime, p.Value.Kind)
	assert.Equal(t, 9, p.Value.Time.Hour())
}

func TestDecodeInteger(t *testing.T) {
	p := decodeProp(t, "PRIORITY:5")
	require.Equal(t, KindInteger, p.Value.Kind)
	assert.Equal(t, 5, p.Value.Int)

	// Out-of-range values are preserved, not clamped.
	p = decodeProp(t, "PRIORITY:42")
	assert.Equal(t, 42, p.Value.Int)
}

func TestDecodeList(t *testing.T) {
	p := decodeProp(t, `CATEGORIES:WORK,PLANNING,Q4\,FINAL`)
	require.Equal(t, KindList, p.Value.Kind)
	require.Len(t, p.Value.List, 3)
	assert.Equal(t, "Q4,FINAL", p.Value.List[2].Text)
}

func TestDecodeStructuredName(t *testing.T) {
	p := decodeProp(t, "N:Doe;Jane;Q.;Dr.")
	require.Equal(t, KindStructured, p.Value.Kind)
	// Missing trailing parts pad to the fixed arity of five.
	require.Len(t, p.Value.List, 5)
	assert.Equal(t, "Doe", p.Value.List[0].Text)
	assert.Equal(t, "Jane", p.Value.List[1].Text)
	assert.Equal(t, "", p.Value.List[4].Text)
}

func TestDecodeStructuredAddress(t *testing.T) {
	p := decodeProp(t, `ADR;TYPE=home:;;123 Main St\, Apt 4;Springfield;IL;62704;USA`)
	require.Equal(t, KindStructured, p.Value.Kind)
	require.Len(t, p.Value.List, 7)
	assert.Equal(t, "123 Main St, Apt 4", p.Value.List[2].Text)
	assert.Equal(t, "USA", p.Value.List[6].Text)
}

func TestDecodeMalformedValueDegradesToText(t *testing.T) {
	p := decodeProp(t, "DTSTART:not-a-date")
	assert.Equal(t, KindText, p.Value.Kind)
	assert.Equal(t, "not-a-date", p.Value.Text)

	p = decodeProp(t, "PRIORITY:high")
	assert.Equal(t, KindText, p.Value.Kind)
	assert.Equal(t, "high", p.Value.Text)
}

func TestFoldedDescriptionDecodesAsOneValue(t *testing.T) {
	raw := "BEGIN:VEVENT\r\n" +
		"DESCRIPTION:Agenda items for the quarterly planning meeting inclu\r\n" +
		" ding budget review\\, headcount\r\n" +
		" \\nand open floor.\r\n" +
		"END:VEVENT\r\n"
	doc := Decode(raw)
	v := doc.Components[0].Prop("DESCRIPTION").Value
	assert.Equal(t,
		"Agenda items for the quarterly planning meeting including budget review, headcount\nand open floor.",
		v.Text)
}

func TestFormatDateTime(t *testing.T) {
	v := TypedValue{Kind: KindDateTime, Time: time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC)}
	assert.Equal(t, "2025-10-15 10:00 UTC", FormatDateTime(v))

	v.DateOnly = true
	assert.Equal(t, "2025-10-15 (all day)", FormatDateTime(v))

	v = TypedValue{Kind: KindDateTime, Time: time.Date(2025, 10, 15, 10, 0, 0, 0, time.Local), Floating: true}
	assert.Equal(t, "2025-10-15 10:00 (floating)", FormatDateTime(v))
}
