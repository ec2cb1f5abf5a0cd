package report

import (
	"fmt"
	"strings"

	"github.com/PhilflowIO/dav-mcp-sub001/internal/davclient"
	"github.com/PhilflowIO/dav-mcp-sub001/pkg/vobject"
)

// Events renders the VEVENT entities of the given raw objects as one report
// for the named calendar.
func Events(label string, objs []davclient.Object) string {
	return calendarReport(label, objs, "VEVENT", "event", "Untitled Event")
}

// Tasks renders VTODO entities.
func Tasks(label string, objs []davclient.Object) string {
	return calendarReport(label, objs, "VTODO", "task", "Untitled Task")
}

type calendarEntity struct {
	comp  *vobject.Component
	obj   davclient.Object
	diags []string
}

func calendarReport(label string, objs []davclient.Object, compName, noun, placeholder string) string {
	var entities []calendarEntity
	for _, obj := range objs {
		doc := vobject.Decode(obj.Data)
		found := false
		for _, root := range doc.Components {
			for _, comp := range componentsNamed(root, compName) {
				entities = append(entities, calendarEntity{comp: comp, obj: obj, diags: doc.Diagnostics})
				found = true
			}
		}
		if !found {
			// A document that yields no usable entity still appears in the
			// report, clearly labeled, rather than being dropped.
			entities = append(entities, calendarEntity{comp: nil, obj: obj, diags: doc.Diagnostics})
		}
	}

	if len(entities) == 0 {
		return fmt.Sprintf("No %ss found.", noun)
	}

	b := &builder{}
	b.add("Found %s in %q:", countNoun(len(entities), noun), label)
	seen := make(map[string]bool)
	var appendix []davclient.Object
	for i, e := range entities {
		b.blank()
		if e.comp == nil {
			b.add("%d. %s", i+1, placeholder)
			diagnosticsSection(b, e.diags)
		} else {
			renderCalendarComponent(b, i+1, e.comp, placeholder)
			diagnosticsSection(b, e.diags)
		}
		if !seen[e.obj.URL] {
			seen[e.obj.URL] = true
			appendix = append(appendix, e.obj)
		}
	}
	b.appendix(appendix)
	return b.String()
}

// componentsNamed walks the tree collecting components with the given name.
func componentsNamed(root *vobject.Component, name string) []*vobject.Component {
	var out []*vobject.Component
	if root.Name == name {
		out = append(out, root)
	}
	for _, ch := range root.Children {
		out = append(out, componentsNamed(ch, name)...)
	}
	return out
}

func renderCalendarComponent(b *builder, idx int, comp *vobject.Component, placeholder string) {
	title := textOf(comp, "SUMMARY")
	if title == "" {
		title = placeholder
	}
	b.add("%d. %s", idx, title)

	b.field("When", timingWindow(comp))
	if due := comp.Prop("DUE"); due != nil {
		b.field("Due", vobject.FormatDateTime(due.Value))
	}
	if comp.Name == "VTODO" {
		b.field("Status", textOf(comp, "STATUS"))
		if p := comp.Prop("PRIORITY"); p != nil {
			b.field("Priority", intOrRaw(p.Value))
		}
		if p := comp.Prop("PERCENT-COMPLETE"); p != nil {
			b.field("Progress", intOrRaw(p.Value)+"%")
		}
		if p := comp.Prop("COMPLETED"); p != nil {
			b.field("Completed", vobject.FormatDateTime(p.Value))
		}
	}
	b.field("Location", textOf(comp, "LOCATION"))
	b.field("Description", textOf(comp, "DESCRIPTION"))
	if cats := comp.Prop("CATEGORIES"); cats != nil && cats.Value.Kind == vobject.KindList {
		var items []string
		for _, it := range cats.Value.List {
			items = append(items, it.Text)
		}
		b.field("Categories", strings.Join(items, ", "))
	}
	if rr := comp.Prop("RRULE"); rr != nil {
		b.field("Repeats", describeRecurrence(rr.Value.Text))
	}
	renderOrganizer(b, comp)
	renderAttendees(b, comp)
	renderAlarms(b, comp)
}

func timingWindow(comp *vobject.Component) string {
	start := comp.Prop("DTSTART")
	if start == nil {
		return ""
	}
	s := vobject.FormatDateTime(start.Value)
	end := comp.Prop("DTEND")
	if end == nil {
		return s
	}
	return s + " to " + vobject.FormatDateTime(end.Value)
}

func renderOrganizer(b *builder, comp *vobject.Component) {
	org := comp.Prop("ORGANIZER")
	if org == nil {
		return
	}
	b.field("Organizer", participantLine(*org))
}

func renderAttendees(b *builder, comp *vobject.Component) {
	atts := comp.Props("ATTENDEE")
	switch len(atts) {
	case 0:
	case 1:
		b.field("Attendee", participantLine(atts[0]))
	default:
		b.add("   Attendees: %s", countNoun(len(atts), "person"))
		for _, a := range atts {
			b.add("     - %s", participantLine(a))
		}
	}
}

// participantLine shows the display name, falling back to the address, with
// an optional participation-status annotation.
func participantLine(p vobject.Property) string {
	who := p.Params.Get("CN")
	if who == "" {
		who = strings.TrimPrefix(p.Value.Text, "mailto:")
	}
	if status := p.Params.Get("PARTSTAT"); status != "" {
		return fmt.Sprintf("%s (%s)", who, strings.ToLower(status))
	}
	return who
}

func renderAlarms(b *builder, comp *vobject.Component) {
	alarms := comp.ChildrenNamed("VALARM")
	if len(alarms) == 0 {
		return
	}
	if len(alarms) == 1 {
		b.field("Reminder", alarmLine(alarms[0]))
		return
	}
	b.add("   Reminders: %s", countNoun(len(alarms), "reminder"))
	for _, a := range alarms {
		b.add("     - %s", alarmLine(a))
	}
}

func alarmLine(alarm *vobject.Component) string {
	action := textOf(alarm, "ACTION")
	if action == "" {
		action = "UNSPECIFIED"
	}
	trigger := alarm.Prop("TRIGGER")
	if trigger == nil {
		return action
	}
	switch trigger.Value.Kind {
	case vobject.KindDuration:
		return fmt.Sprintf("%s, %s", action, describeTriggerDuration(trigger.Value.Dur))
	case vobject.KindDateTime:
		return fmt.Sprintf("%s, at %s", action, vobject.FormatDateTime(trigger.Value))
	default:
		return fmt.Sprintf("%s, %s", action, trigger.Value.Text)
	}
}

func textOf(comp *vobject.Component, name string) string {
	p := comp.Prop(name)
	if p == nil {
		return ""
	}
	return p.Value.Text
}

func intOrRaw(v vobject.TypedValue) string {
	if v.Kind == vobject.KindInteger {
		return fmt.Sprintf("%d", v.Int)
	}
	return v.Text
}
