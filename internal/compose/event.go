// Package compose builds outgoing iCalendar/vCard documents and splices
// single-field updates into existing raw text. Free-text values pass through
// the vobject field encoder exactly once on their way in; documents read from
// the store are never re-escaped.
package compose

import (
	"bytes"
	"fmt"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
)

const prodID = "-//dav-mcp//EN"

// EventInput is the validated input for a new calendar event.
type EventInput struct {
	UID         string // generated when empty
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	AllDay      bool
}

// NewEventDocument builds a complete VCALENDAR/VEVENT document. Returns the
// UID actually used and the encoded text.
func NewEventDocument(in EventInput) (string, string, error) {
	if in.Start.IsZero() {
		return "", "", fmt.Errorf("event start time is required")
	}
	uid := in.UID
	if uid == "" {
		uid = uuid.NewString()
	}

	cal := &ical.Calendar{
		Component: &ical.Component{
			Name:  ical.CompCalendar,
			Props: ical.Props{},
		},
	}
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, prodID)

	event := &ical.Component{
		Name:  ical.CompEvent,
		Props: make(ical.Props),
	}
	event.Props.SetText(ical.PropUID, uid)
	event.Props.Set(&ical.Prop{
		Name:  ical.PropDateTimeStamp,
		Value: time.Now().UTC().Format("20060102T150405Z"),
	})

	if in.AllDay {
		event.Props.Set(&ical.Prop{Name: ical.PropDateTimeStart, Value: in.Start.Format("20060102")})
		if !in.End.IsZero() {
			event.Props.Set(&ical.Prop{Name: ical.PropDateTimeEnd, Value: in.End.Format("20060102")})
		}
	} else {
		event.Props.Set(&ical.Prop{Name: ical.PropDateTimeStart, Value: in.Start.UTC().Format("20060102T150405Z")})
		if !in.End.IsZero() {
			event.Props.Set(&ical.Prop{Name: ical.PropDateTimeEnd, Value: in.End.UTC().Format("20060102T150405Z")})
		}
	}

	if in.Summary != "" {
		event.Props.SetText(ical.PropSummary, in.Summary)
	}
	if in.Description != "" {
		event.Props.SetText(ical.PropDescription, in.Description)
	}
	if in.Location != "" {
		event.Props.SetText(ical.PropLocation, in.Location)
	}

	cal.Children = []*ical.Component{event}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return "", "", fmt.Errorf("encode event document: %w", err)
	}
	return uid, buf.String(), nil
}
