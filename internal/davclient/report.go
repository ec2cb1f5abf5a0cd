package davclient

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/beevik/etree"
)

// calendarQueryBody builds a calendar-query REPORT for one component type
// (VEVENT, VTODO), asking for etag and raw calendar data.
func calendarQueryBody(component string) string {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("c:calendar-query")
	root.CreateAttr("xmlns:d", nsDAV)
	root.CreateAttr("xmlns:c", nsCalDAV)
	prop := root.CreateElement("d:prop")
	prop.CreateElement("d:getetag")
	prop.CreateElement("c:calendar-data")
	filter := root.CreateElement("c:filter")
	calFilter := filter.CreateElement("c:comp-filter")
	calFilter.CreateAttr("name", "VCALENDAR")
	compFilter := calFilter.CreateElement("c:comp-filter")
	compFilter.CreateAttr("name", component)
	out, _ := doc.WriteToString()
	return out
}

// addressbookQueryBody builds an addressbook-query REPORT for etag plus raw
// vCard data.
func addressbookQueryBody() string {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("card:addressbook-query")
	root.CreateAttr("xmlns:d", nsDAV)
	root.CreateAttr("xmlns:card", nsCardDAV)
	prop := root.CreateElement("d:prop")
	prop.CreateElement("d:getetag")
	prop.CreateElement("card:address-data")
	out, _ := doc.WriteToString()
	return out
}

func (c *Client) report(ctx context.Context, path, body, dataKind string) ([]Object, error) {
	resp, err := c.do(ctx, "REPORT", path, "1", body, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMultiStatus {
		return nil, fmt.Errorf("REPORT %s: unexpected status %s", path, resp.Status)
	}

	raw, err := readBody(resp)
	if err != nil {
		return nil, err
	}
	ms, err := parseMultistatus(raw)
	if err != nil {
		return nil, err
	}

	var out []Object
	for _, r := range ms.Responses {
		for _, ps := range r.Propstats {
			if !ps.ok() {
				continue
			}
			data := ps.Prop.CalendarData
			if dataKind == "address" {
				data = ps.Prop.AddressData
			}
			if data == "" {
				continue
			}
			out = append(out, Object{URL: r.Href, ETag: ps.Prop.GetETag, Data: data})
		}
	}
	c.log.Debug().Int("count", len(out)).Str("path", path).Msg("report fetched objects")
	return out, nil
}

// CalendarObjects fetches the raw objects of one calendar holding the given
// component type (VEVENT, VTODO).
func (c *Client) CalendarObjects(ctx context.Context, calendarPath, component string) ([]Object, error) {
	return c.report(ctx, calendarPath, calendarQueryBody(component), "calendar")
}

// AddressObjects fetches the raw vCards of one address book.
func (c *Client) AddressObjects(ctx context.Context, addressbookPath string) ([]Object, error) {
	return c.report(ctx, addressbookPath, addressbookQueryBody(), "address")
}

func readBody(resp *http.Response) ([]byte, error) {
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return b, nil
}
