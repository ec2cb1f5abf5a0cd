// Package tools exposes the calendar/contact operations as MCP tools. It is
// the dispatch layer around the engine: argument validation happens here,
// then raw documents flow through pkg/vobject and internal/report on reads,
// and through internal/compose on writes. Every tool returns a single text
// content block.
package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/PhilflowIO/dav-mcp-sub001/internal/cache"
	"github.com/PhilflowIO/dav-mcp-sub001/internal/davclient"
	"github.com/PhilflowIO/dav-mcp-sub001/pkg/vobject"
)

// Service carries the collaborators every tool handler needs.
type Service struct {
	client   *davclient.Client
	calRoot  string
	abRoot   string
	listings *cache.Cache[string, []davclient.Object]
	log      zerolog.Logger
}

type Options struct {
	Client          *davclient.Client
	CalendarPath    string
	AddressBookPath string
	Listings        *cache.Cache[string, []davclient.Object]
	Log             zerolog.Logger
}

func New(opts Options) *Service {
	return &Service{
		client:   opts.Client,
		calRoot:  opts.CalendarPath,
		abRoot:   opts.AddressBookPath,
		listings: opts.Listings,
		log:      opts.Log,
	}
}

// Register wires every tool onto the MCP server.
func (s *Service) Register(srv *server.MCPServer) {
	srv.AddTool(mcp.NewTool("list_calendars",
		mcp.WithDescription("List the calendars available on the server."),
	), s.wrap(func(ctx context.Context, req mcp.CallToolRequest) (string, error) {
		return s.listCollections(ctx, s.calRoot, "calendar")
	}))

	srv.AddTool(mcp.NewTool("list_addressbooks",
		mcp.WithDescription("List the address books available on the server."),
	), s.wrap(func(ctx context.Context, req mcp.CallToolRequest) (string, error) {
		return s.listCollections(ctx, s.abRoot, "address book")
	}))

	s.registerCalendarTools(srv)
	s.registerContactTools(srv)
}

type textHandler func(ctx context.Context, req mcp.CallToolRequest) (string, error)

// wrap adapts a text-producing handler to the MCP result envelope. Handler
// errors become error results rather than protocol failures.
func (s *Service) wrap(h textHandler) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := h(ctx, req)
		if err != nil {
			s.log.Warn().Err(err).Str("tool", req.Params.Name).Msg("tool call failed")
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(text), nil
	}
}

func (s *Service) listCollections(ctx context.Context, root, kind string) (string, error) {
	cols, err := s.client.FindCollections(ctx, root)
	if err != nil {
		return "", err
	}
	var matched []davclient.Collection
	for _, c := range cols {
		if (kind == "calendar" && c.IsCalendar) || (kind == "address book" && c.IsAddressBook) {
			matched = append(matched, c)
		}
	}
	if len(matched) == 0 {
		return fmt.Sprintf("No %ss found.", kind), nil
	}
	frags := []string{fmt.Sprintf("Found %d %s(s):", len(matched), kind)}
	for i, c := range matched {
		line := fmt.Sprintf("%d. %s (%s)", i+1, c.Label(), c.URL)
		if desc, ok := c.Description.Get(); ok && desc != "" {
			line += " — " + desc
		}
		frags = append(frags, line)
	}
	return strings.Join(frags, "\n"), nil
}

// findCollection resolves a user-supplied collection name against the
// discovered collections, matching the display label or the URL.
func (s *Service) findCollection(ctx context.Context, root, name string, wantCalendar bool) (davclient.Collection, error) {
	cols, err := s.client.FindCollections(ctx, root)
	if err != nil {
		return davclient.Collection{}, err
	}
	for _, c := range cols {
		if wantCalendar && !c.IsCalendar {
			continue
		}
		if !wantCalendar && !c.IsAddressBook {
			continue
		}
		if strings.EqualFold(c.Label(), name) || c.URL == name {
			return c, nil
		}
	}
	kind := "calendar"
	if !wantCalendar {
		kind = "address book"
	}
	return davclient.Collection{}, fmt.Errorf("no %s named %q", kind, name)
}

// fetchObjects serves collection listings through the TTL cache.
func (s *Service) fetchObjects(ctx context.Context, key string, fetch func() ([]davclient.Object, error)) ([]davclient.Object, error) {
	if objs, ok := s.listings.Get(key); ok {
		return objs, nil
	}
	objs, err := fetch()
	if err != nil {
		return nil, err
	}
	s.listings.Set(key, objs)
	return objs, nil
}

// findObjectByUID decodes each raw object just far enough to match the UID
// of the named component type.
func findObjectByUID(objs []davclient.Object, compName, uid string) (davclient.Object, bool) {
	for _, obj := range objs {
		doc := vobject.Decode(obj.Data)
		for _, root := range doc.Components {
			if matchUID(root, compName, uid) {
				return obj, true
			}
		}
	}
	return davclient.Object{}, false
}

func matchUID(comp *vobject.Component, compName, uid string) bool {
	if comp.Name == compName {
		if p := comp.Prop("UID"); p != nil && p.Value.Text == uid {
			return true
		}
	}
	for _, ch := range comp.Children {
		if matchUID(ch, compName, uid) {
			return true
		}
	}
	return false
}
