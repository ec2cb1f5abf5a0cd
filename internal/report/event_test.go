package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PhilflowIO/dav-mcp-sub001/internal/davclient"
)

func obj(url, etag, data string) davclient.Object {
	return davclient.Object{URL: url, ETag: etag, Data: data}
}

const meetingICS = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:1@example.com\r\n" +
	"SUMMARY:Team Sync\r\n" +
	"DTSTART:20251015T100000Z\r\n" +
	"DTEND:20251015T110000Z\r\n" +
	"LOCATION:Room 4\r\n" +
	"DESCRIPTION:Weekly status round\r\n" +
	"RRULE:FREQ=WEEKLY;BYDAY=WE\r\n" +
	"ORGANIZER;CN=Alice Example:mailto:alice@example.com\r\n" +
	"ATTENDEE;CN=Bob;PARTSTAT=ACCEPTED:mailto:bob@example.com\r\n" +
	"ATTENDEE;PARTSTAT=DECLINED:mailto:carol@example.com\r\n" +
	"BEGIN:VALARM\r\n" +
	"ACTION:DISPLAY\r\n" +
	"TRIGGER:-PT15M\r\n" +
	"END:VALARM\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func TestEventsReport(t *testing.T) {
	out := Events("Work", []davclient.Object{obj("/cal/1.ics", `"e1"`, meetingICS)})

	assert.Contains(t, out, `Found 1 event(s) in "Work":`)
	assert.Contains(t, out, "1. Team Sync")
	assert.Contains(t, out, "When: 2025-10-15 10:00 UTC to 2025-10-15 11:00 UTC")
	assert.Contains(t, out, "Location: Room 4")
	assert.Contains(t, out, "Description: Weekly status round")
	assert.Contains(t, out, "Repeats: every week on Wednesday")
	assert.Contains(t, out, "Organizer: Alice Example")
	assert.Contains(t, out, "Reminder: DISPLAY, 15 minute(s) before start")

	// Two attendees: count line plus one sub-line each, CN falling back to
	// the address, participation status annotated.
	assert.Contains(t, out, "Attendees: 2 person(s)")
	assert.Contains(t, out, "- Bob (accepted)")
	assert.Contains(t, out, "- carol@example.com (declined)")

	// Appendix carries the verbatim triple.
	assert.Contains(t, out, "URL: /cal/1.ics")
	assert.Contains(t, out, `ETag: "e1"`)
	assert.Contains(t, out, "BEGIN:VCALENDAR")
}

func TestEventsReportSingleAttendee(t *testing.T) {
	ics := "BEGIN:VCALENDAR\r\nBEGIN:VEVENT\r\n" +
		"SUMMARY:1:1\r\n" +
		"ATTENDEE;CN=Bob:mailto:bob@example.com\r\n" +
		"END:VEVENT\r\nEND:VCALENDAR\r\n"
	out := Events("Work", []davclient.Object{obj("/cal/2.ics", `"e"`, ics)})
	assert.Contains(t, out, "Attendee: Bob")
	assert.NotContains(t, out, "person(s)")
}

func TestAppendixKeepsRawDataVerbatim(t *testing.T) {
	// Raw payloads can contain percent signs; the appendix must never run
	// them through format expansion.
	ics := "BEGIN:VCALENDAR\r\nBEGIN:VEVENT\r\n" +
		"SUMMARY:50% off %s %d %q\r\n" +
		"END:VEVENT\r\nEND:VCALENDAR\r\n"
	out := Events("Work", []davclient.Object{obj("/cal/3.ics", `"e3"`, ics)})
	assert.Contains(t, out, "SUMMARY:50% off %s %d %q")
	assert.NotContains(t, out, "%!")
}

func TestEventsReportEmpty(t *testing.T) {
	assert.Equal(t, "No events found.", Events("Work", nil))
}

func TestTasksReportEmpty(t *testing.T) {
	assert.Equal(t, "No tasks found.", Tasks("Work", nil))
}

func TestEventsReportUntitledPlaceholder(t *testing.T) {
	ics := "BEGIN:VCALENDAR\r\nBEGIN:VEVENT\r\nUID:x\r\nEND:VEVENT\r\nEND:VCALENDAR\r\n"
	out := Events("Work", []davclient.Object{obj("/cal/3.ics", `"e"`, ics)})
	assert.Contains(t, out, "1. Untitled Event")
}

func TestEventsReportNumberedSequence(t *testing.T) {
	one := "BEGIN:VCALENDAR\r\nBEGIN:VEVENT\r\nSUMMARY:First\r\nEND:VEVENT\r\nEND:VCALENDAR\r\n"
	two := "BEGIN:VCALENDAR\r\nBEGIN:VEVENT\r\nSUMMARY:Second\r\nEND:VEVENT\r\nEND:VCALENDAR\r\n"
	out := Events("Work", []davclient.Object{
		obj("/cal/a.ics", `"a"`, one),
		obj("/cal/b.ics", `"b"`, two),
	})
	require.Contains(t, out, "Found 2 event(s)")
	assert.Less(t, strings.Index(out, "1. First"), strings.Index(out, "2. Second"))
}

func TestTasksReport(t *testing.T) {
	ics := "BEGIN:VCALENDAR\r\nBEGIN:VTODO\r\n" +
		"SUMMARY:File report\r\n" +
		"DUE:20251101T170000Z\r\n" +
		"STATUS:IN-PROCESS\r\n" +
		"PRIORITY:1\r\n" +
		"PERCENT-COMPLETE:60\r\n" +
		"END:VTODO\r\nEND:VCALENDAR\r\n"
	out := Tasks("Chores", []davclient.Object{obj("/cal/t.ics", `"t"`, ics)})
	assert.Contains(t, out, "1. File report")
	assert.Contains(t, out, "Due: 2025-11-01 17:00 UTC")
	assert.Contains(t, out, "Status: IN-PROCESS")
	assert.Contains(t, out, "Priority: 1")
	assert.Contains(t, out, "Progress: 60%")
}

func TestEventsReportFloatingTimeAnnotated(t *testing.T) {
	ics := "BEGIN:VCALENDAR\r\nBEGIN:VEVENT\r\n" +
		"SUMMARY:Local thing\r\n" +
		"DTSTART;TZID=Mars/Olympus:20251015T100000\r\n" +
		"END:VEVENT\r\nEND:VCALENDAR\r\n"
	out := Events("Work", []davclient.Object{obj("/cal/f.ics", `"f"`, ics)})
	assert.Contains(t, out, "(Mars/Olympus, unresolved)")
	assert.Contains(t, out, `unresolved TZID "Mars/Olympus"`)
}

func TestEventsReportUndecodableDocumentStillListed(t *testing.T) {
	out := Events("Work", []davclient.Object{obj("/cal/bad.ics", `"x"`, "complete nonsense")})
	assert.Contains(t, out, "1. Untitled Event")
	assert.Contains(t, out, "Parsing notes:")
}

func TestDescribeRecurrence(t *testing.T) {
	assert.Equal(t, "every day", describeRecurrence("FREQ=DAILY"))
	assert.Equal(t, "every 2 weeks on Monday, Friday", describeRecurrence("FREQ=WEEKLY;INTERVAL=2;BYDAY=MO,FR"))
	assert.Equal(t, "every month, 10 times", describeRecurrence("FREQ=MONTHLY;COUNT=10"))
	assert.Equal(t, "every year, until 2030-01-01", describeRecurrence("FREQ=YEARLY;UNTIL=20300101T000000Z"))
	// Unparseable rules are shown verbatim.
	assert.Equal(t, "FREQ=SOMETIMES", describeRecurrence("FREQ=SOMETIMES"))
}
