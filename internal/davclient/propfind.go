package davclient

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"

	"github.com/beevik/etree"
	"github.com/samber/mo"
)

const (
	nsDAV     = "DAV:"
	nsCalDAV  = "urn:ietf:params:xml:ns:caldav"
	nsCardDAV = "urn:ietf:params:xml:ns:carddav"
)

// multistatus is the subset of RFC 4918 multi-status responses this client
// consumes.
type multistatus struct {
	XMLName   xml.Name     `xml:"DAV: multistatus"`
	Responses []msResponse `xml:"response"`
}

type msResponse struct {
	Href      string       `xml:"href"`
	Propstats []msPropstat `xml:"propstat"`
}

type msPropstat struct {
	Status string `xml:"status"`
	Prop   msProp `xml:"prop"`
}

type msProp struct {
	DisplayName  *string        `xml:"displayname"`
	Description  *string        `xml:"urn:ietf:params:xml:ns:caldav calendar-description"`
	ABDesc       *string        `xml:"urn:ietf:params:xml:ns:carddav addressbook-description"`
	GetETag      string         `xml:"getetag"`
	CalendarData string         `xml:"urn:ietf:params:xml:ns:caldav calendar-data"`
	AddressData  string         `xml:"urn:ietf:params:xml:ns:carddav address-data"`
	ResourceType msResourceType `xml:"resourcetype"`
}

type msResourceType struct {
	Calendar    *struct{} `xml:"urn:ietf:params:xml:ns:caldav calendar"`
	AddressBook *struct{} `xml:"urn:ietf:params:xml:ns:carddav addressbook"`
}

func (p msPropstat) ok() bool { return strings.Contains(p.Status, "200") }

func parseMultistatus(body []byte) (*multistatus, error) {
	var ms multistatus
	if err := xml.Unmarshal(body, &ms); err != nil {
		return nil, fmt.Errorf("parse multistatus: %w", err)
	}
	return &ms, nil
}

// propfindBody builds the PROPFIND request asking for collection metadata.
func propfindBody() string {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("d:propfind")
	root.CreateAttr("xmlns:d", nsDAV)
	root.CreateAttr("xmlns:c", nsCalDAV)
	root.CreateAttr("xmlns:card", nsCardDAV)
	prop := root.CreateElement("d:prop")
	prop.CreateElement("d:resourcetype")
	prop.CreateElement("d:displayname")
	prop.CreateElement("c:calendar-description")
	prop.CreateElement("card:addressbook-description")
	out, _ := doc.WriteToString()
	return out
}

// FindCollections lists the calendars and address books below path
// (PROPFIND, depth 1). Resources that are neither are skipped.
func (c *Client) FindCollections(ctx context.Context, path string) ([]Collection, error) {
	resp, err := c.do(ctx, "PROPFIND", path, "1", propfindBody(), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMultiStatus {
		return nil, fmt.Errorf("PROPFIND %s: unexpected status %s", path, resp.Status)
	}

	body, err := readBody(resp)
	if err != nil {
		return nil, err
	}
	ms, err := parseMultistatus(body)
	if err != nil {
		return nil, err
	}

	var out []Collection
	for _, r := range ms.Responses {
		for _, ps := range r.Propstats {
			if !ps.ok() {
				continue
			}
			col := Collection{
				URL:           r.Href,
				IsCalendar:    ps.Prop.ResourceType.Calendar != nil,
				IsAddressBook: ps.Prop.ResourceType.AddressBook != nil,
			}
			if !col.IsCalendar && !col.IsAddressBook {
				continue
			}
			if ps.Prop.DisplayName != nil {
				col.DisplayName = mo.Some(*ps.Prop.DisplayName)
			}
			if ps.Prop.Description != nil {
				col.Description = mo.Some(*ps.Prop.Description)
			} else if ps.Prop.ABDesc != nil {
				col.Description = mo.Some(*ps.Prop.ABDesc)
			}
			out = append(out, col)
		}
	}
	c.log.Debug().Int("count", len(out)).Str("path", path).Msg("collections discovered")
	return out, nil
}
