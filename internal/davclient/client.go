// Package davclient is a small CalDAV/CardDAV client: collection discovery
// via PROPFIND, object listing via REPORT queries, and etag-guarded
// GET/PUT/DELETE of individual objects. It hands raw iCalendar/vCard text to
// callers untouched; decoding belongs to pkg/vobject.
package davclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/mo"
)

// ErrNotFound reports a 404 from the server.
var ErrNotFound = errors.New("resource not found")

// ErrPreconditionFailed reports a 412, i.e. the etag guard did not match.
var ErrPreconditionFailed = errors.New("precondition failed (etag mismatch)")

// Object is one raw entity record as fetched from the store.
type Object struct {
	URL  string
	ETag string
	Data string
}

// Collection is a discovered calendar or address book.
type Collection struct {
	URL           string
	DisplayName   mo.Option[string]
	Description   mo.Option[string]
	IsCalendar    bool
	IsAddressBook bool
}

// Label returns the human-readable collection name, falling back to the
// last path segment when the server supplied no displayname.
func (c Collection) Label() string {
	if name, ok := c.DisplayName.Get(); ok && name != "" {
		return name
	}
	trimmed := strings.Trim(c.URL, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		trimmed = trimmed[i+1:]
	}
	if trimmed == "" {
		return "unnamed collection"
	}
	return trimmed
}

type Client struct {
	base     *url.URL
	httpc    *http.Client
	username string
	password string
	log      zerolog.Logger
}

// New builds a client for one DAV server. Credentials are sent as Basic auth
// on every request.
func New(baseURL, username, password string, timeout time.Duration, log zerolog.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		base:     u,
		httpc:    &http.Client{Timeout: timeout},
		username: username,
		password: password,
		log:      log,
	}, nil
}

func (c *Client) resolve(path string) string {
	ref, err := url.Parse(path)
	if err != nil {
		return c.base.String()
	}
	return c.base.ResolveReference(ref).String()
}

func (c *Client) do(ctx context.Context, method, path string, depth string, body string, header http.Header) (*http.Response, error) {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path), rd)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", method, err)
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}
	if depth != "" {
		req.Header.Set("Depth", depth)
	}
	if body != "" {
		req.Header.Set("Content-Type", `application/xml; charset="utf-8"`)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Set(k, v)
		}
	}

	c.log.Debug().Str("method", method).Str("path", path).Msg("dav request")
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	switch resp.StatusCode {
	case http.StatusNotFound:
		resp.Body.Close()
		return nil, fmt.Errorf("%s %s: %w", method, path, ErrNotFound)
	case http.StatusPreconditionFailed:
		resp.Body.Close()
		return nil, fmt.Errorf("%s %s: %w", method, path, ErrPreconditionFailed)
	}
	if resp.StatusCode >= 400 {
		resp.Body.Close()
		return nil, fmt.Errorf("%s %s: unexpected status %s", method, path, resp.Status)
	}
	return resp, nil
}

// GetObject fetches one raw object with its etag.
func (c *Client) GetObject(ctx context.Context, path string) (Object, error) {
	resp, err := c.do(ctx, http.MethodGet, path, "", "", nil)
	if err != nil {
		return Object{}, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Object{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Object{URL: path, ETag: resp.Header.Get("ETag"), Data: string(data)}, nil
}

// PutObject uploads raw document text. A non-empty etag makes the write
// conditional (If-Match); an empty etag requires the object to be new
// (If-None-Match: *). Returns the new etag when the server reports one.
func (c *Client) PutObject(ctx context.Context, path, data, etag, contentType string) (string, error) {
	h := http.Header{}
	h.Set("Content-Type", contentType)
	if etag != "" {
		h.Set("If-Match", etag)
	} else {
		h.Set("If-None-Match", "*")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.resolve(path), strings.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("create PUT request: %w", err)
	}
	req.Header = h
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	c.log.Debug().Str("path", path).Bool("update", etag != "").Msg("dav put")
	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("PUT %s: %w", path, err)
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusPreconditionFailed:
		return "", fmt.Errorf("PUT %s: %w", path, ErrPreconditionFailed)
	case resp.StatusCode == http.StatusNotFound:
		return "", fmt.Errorf("PUT %s: %w", path, ErrNotFound)
	case resp.StatusCode >= 400:
		return "", fmt.Errorf("PUT %s: unexpected status %s", path, resp.Status)
	}
	return resp.Header.Get("ETag"), nil
}

// DeleteObject removes an object, guarded by etag when provided.
func (c *Client) DeleteObject(ctx context.Context, path, etag string) error {
	h := http.Header{}
	if etag != "" {
		h.Set("If-Match", etag)
	}
	resp, err := c.do(ctx, http.MethodDelete, path, "", "", h)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}
