package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/PhilflowIO/dav-mcp-sub001/internal/compose"
	"github.com/PhilflowIO/dav-mcp-sub001/internal/davclient"
	"github.com/PhilflowIO/dav-mcp-sub001/internal/report"
)

const calendarContentType = "text/calendar; charset=utf-8"

func (s *Service) registerCalendarTools(srv *server.MCPServer) {
	calArg := func() mcp.ToolOption {
		return mcp.WithString("calendar", mcp.Required(),
			mcp.Description("Calendar name or URL, as shown by list_calendars."))
	}

	srv.AddTool(mcp.NewTool("list_events",
		mcp.WithDescription("List the events of a calendar as a readable report."),
		calArg(),
	), s.wrap(func(ctx context.Context, req mcp.CallToolRequest) (string, error) {
		name, err := req.RequireString("calendar")
		if err != nil {
			return "", err
		}
		return s.ListEvents(ctx, name)
	}))

	srv.AddTool(mcp.NewTool("list_tasks",
		mcp.WithDescription("List the tasks (VTODO) of a calendar as a readable report."),
		calArg(),
	), s.wrap(func(ctx context.Context, req mcp.CallToolRequest) (string, error) {
		name, err := req.RequireString("calendar")
		if err != nil {
			return "", err
		}
		return s.ListTasks(ctx, name)
	}))

	srv.AddTool(mcp.NewTool("get_event",
		mcp.WithDescription("Show one event by UID."),
		calArg(),
		mcp.WithString("uid", mcp.Required(), mcp.Description("The event's UID property.")),
	), s.wrap(func(ctx context.Context, req mcp.CallToolRequest) (string, error) {
		name, err := req.RequireString("calendar")
		if err != nil {
			return "", err
		}
		uid, err := req.RequireString("uid")
		if err != nil {
			return "", err
		}
		return s.GetEvent(ctx, name, uid)
	}))

	srv.AddTool(mcp.NewTool("create_event",
		mcp.WithDescription("Create a new event. Times are RFC 3339; all-day events use the date part only."),
		calArg(),
		mcp.WithString("summary", mcp.Required(), mcp.Description("Event title.")),
		mcp.WithString("start", mcp.Required(), mcp.Description("Start time, RFC 3339.")),
		mcp.WithString("end", mcp.Description("End time, RFC 3339.")),
		mcp.WithString("description", mcp.Description("Free-text description.")),
		mcp.WithString("location", mcp.Description("Free-text location.")),
		mcp.WithBoolean("all_day", mcp.Description("Treat start/end as dates.")),
	), s.wrap(func(ctx context.Context, req mcp.CallToolRequest) (string, error) {
		name, err := req.RequireString("calendar")
		if err != nil {
			return "", err
		}
		summary, err := req.RequireString("summary")
		if err != nil {
			return "", err
		}
		startStr, err := req.RequireString("start")
		if err != nil {
			return "", err
		}
		start, err := time.Parse(time.RFC3339, startStr)
		if err != nil {
			return "", fmt.Errorf("parse start: %w", err)
		}
		var end time.Time
		if endStr := req.GetString("end", ""); endStr != "" {
			end, err = time.Parse(time.RFC3339, endStr)
			if err != nil {
				return "", fmt.Errorf("parse end: %w", err)
			}
		}
		return s.CreateEvent(ctx, name, compose.EventInput{
			Summary:     summary,
			Description: req.GetString("description", ""),
			Location:    req.GetString("location", ""),
			Start:       start,
			End:         end,
			AllDay:      req.GetBool("all_day", false),
		})
	}))

	srv.AddTool(mcp.NewTool("update_event_field",
		mcp.WithDescription("Update one free-text field of an event (summary, description, location, status)."),
		calArg(),
		mcp.WithString("uid", mcp.Required(), mcp.Description("The event's UID property.")),
		mcp.WithString("field", mcp.Required(), mcp.Description("Property to set, e.g. SUMMARY.")),
		mcp.WithString("value", mcp.Required(), mcp.Description("Plain text value; escaping is applied automatically.")),
	), s.wrap(func(ctx context.Context, req mcp.CallToolRequest) (string, error) {
		args, err := requireStrings(req, "calendar", "uid", "field", "value")
		if err != nil {
			return "", err
		}
		return s.UpdateEventField(ctx, args[0], args[1], args[2], args[3])
	}))

	srv.AddTool(mcp.NewTool("delete_event",
		mcp.WithDescription("Delete one event by UID."),
		calArg(),
		mcp.WithString("uid", mcp.Required(), mcp.Description("The event's UID property.")),
	), s.wrap(func(ctx context.Context, req mcp.CallToolRequest) (string, error) {
		args, err := requireStrings(req, "calendar", "uid")
		if err != nil {
			return "", err
		}
		return s.DeleteEvent(ctx, args[0], args[1])
	}))
}

func requireStrings(req mcp.CallToolRequest, names ...string) ([]string, error) {
	out := make([]string, 0, len(names))
	for _, n := range names {
		v, err := req.RequireString(n)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// ListEvents renders the VEVENT report for one calendar.
func (s *Service) ListEvents(ctx context.Context, calendar string) (string, error) {
	col, objs, err := s.calendarObjects(ctx, calendar, "VEVENT")
	if err != nil {
		return "", err
	}
	return report.Events(col.Label(), objs), nil
}

// ListTasks renders the VTODO report for one calendar.
func (s *Service) ListTasks(ctx context.Context, calendar string) (string, error) {
	col, objs, err := s.calendarObjects(ctx, calendar, "VTODO")
	if err != nil {
		return "", err
	}
	return report.Tasks(col.Label(), objs), nil
}

// GetEvent renders a single event located by UID.
func (s *Service) GetEvent(ctx context.Context, calendar, uid string) (string, error) {
	col, objs, err := s.calendarObjects(ctx, calendar, "VEVENT")
	if err != nil {
		return "", err
	}
	obj, ok := findObjectByUID(objs, "VEVENT", uid)
	if !ok {
		return "", fmt.Errorf("no event with UID %q in %s", uid, col.Label())
	}
	return report.Events(col.Label(), []davclient.Object{obj}), nil
}

// CreateEvent composes a new event document and uploads it.
func (s *Service) CreateEvent(ctx context.Context, calendar string, in compose.EventInput) (string, error) {
	col, err := s.findCollection(ctx, s.calRoot, calendar, true)
	if err != nil {
		return "", err
	}
	uid, ics, err := compose.NewEventDocument(in)
	if err != nil {
		return "", err
	}
	objURL := col.URL + uid + ".ics"
	if _, err := s.client.PutObject(ctx, objURL, ics, "", calendarContentType); err != nil {
		return "", err
	}
	s.invalidateCalendar(col)
	s.log.Info().Str("uid", uid).Str("calendar", col.Label()).Msg("event created")
	return fmt.Sprintf("Created event %q with UID %s in %q.", in.Summary, uid, col.Label()), nil
}

// UpdateEventField splices one escaped field value into the stored document
// and uploads it under its etag guard.
func (s *Service) UpdateEventField(ctx context.Context, calendar, uid, field, value string) (string, error) {
	col, objs, err := s.calendarObjects(ctx, calendar, "VEVENT")
	if err != nil {
		return "", err
	}
	obj, ok := findObjectByUID(objs, "VEVENT", uid)
	if !ok {
		return "", fmt.Errorf("no event with UID %q in %s", uid, col.Label())
	}
	updated, err := compose.SetRawProperty(obj.Data, field, value)
	if err != nil {
		return "", err
	}
	if _, err := s.client.PutObject(ctx, obj.URL, updated, obj.ETag, calendarContentType); err != nil {
		return "", err
	}
	s.invalidateCalendar(col)
	s.log.Info().Str("uid", uid).Str("field", field).Msg("event field updated")
	return fmt.Sprintf("Updated %s of event %s.", field, uid), nil
}

// DeleteEvent removes an event by UID, guarded by its etag.
func (s *Service) DeleteEvent(ctx context.Context, calendar, uid string) (string, error) {
	col, objs, err := s.calendarObjects(ctx, calendar, "VEVENT")
	if err != nil {
		return "", err
	}
	obj, ok := findObjectByUID(objs, "VEVENT", uid)
	if !ok {
		return "", fmt.Errorf("no event with UID %q in %s", uid, col.Label())
	}
	if err := s.client.DeleteObject(ctx, obj.URL, obj.ETag); err != nil {
		return "", err
	}
	s.invalidateCalendar(col)
	return fmt.Sprintf("Deleted event %s.", uid), nil
}

func (s *Service) calendarObjects(ctx context.Context, calendar, component string) (davclient.Collection, []davclient.Object, error) {
	col, err := s.findCollection(ctx, s.calRoot, calendar, true)
	if err != nil {
		return davclient.Collection{}, nil, err
	}
	objs, err := s.fetchObjects(ctx, col.URL+"#"+component, func() ([]davclient.Object, error) {
		return s.client.CalendarObjects(ctx, col.URL, component)
	})
	if err != nil {
		return davclient.Collection{}, nil, err
	}
	return col, objs, nil
}

func (s *Service) invalidateCalendar(col davclient.Collection) {
	s.listings.Invalidate(col.URL + "#VEVENT")
	s.listings.Invalidate(col.URL + "#VTODO")
}
