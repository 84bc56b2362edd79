package protocol

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var ErrInvalidScheme = errors.New("invalid protocol scheme")

// Request is a parsed custom-scheme invocation, e.g.
// wordaddin://open?documentName=report.docx&documentUrl=https://...
type Request struct {
	Scheme       string
	Action       string
	Path         string
	DocumentName string
	DocumentURL  string
}

// ParseURI parses raw and requires its scheme to equal scheme (case-insensitive).
func ParseURI(raw, scheme string) (*Request, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("parse uri: %w", err)
	}
	if !strings.EqualFold(u.Scheme, scheme) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidScheme, u.Scheme+":")
	}
	q := u.Query()
	if u.Opaque != "" {
		// wordaddin:open?documentName=... has no authority part
		action, rawQuery, _ := strings.Cut(u.Opaque, "?")
		u.Host = action
		if rawQuery != "" {
			q, _ = url.ParseQuery(rawQuery)
		}
	}
	return &Request{
		Scheme:       strings.ToLower(u.Scheme),
		Action:       strings.ToLower(u.Host),
		Path:         u.Path,
		DocumentName: strings.TrimSpace(q.Get("documentName")),
		DocumentURL:  strings.TrimSpace(q.Get("documentUrl")),
	}, nil
}

// SetupRequested reports whether the invocation asks for document setup
// rather than a detection probe.
func (r *Request) SetupRequested() bool {
	return r.DocumentName != ""
}
