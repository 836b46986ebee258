// Package page exposes a read-only view of a rendered page: its URL, its
// title and selector lookups over its DOM. Extraction code only ever talks to
// these interfaces, so it can run against fixtures as easily as live pages.
package page

import (
	"context"
	"errors"
)

// ErrInvalidSelector is returned when a selector cannot be evaluated.
var ErrInvalidSelector = errors.New("invalid selector")

// Element is a single matched DOM node.
type Element interface {
	// Attr returns the attribute value and whether it is present.
	Attr(name string) (string, bool)
	// Text returns the concatenated text content of the node.
	Text() string
}

// Page is a snapshot of one loaded page.
type Page interface {
	URL() string
	// Title returns the document title with whitespace collapsed.
	Title() string
	// First returns the first element matching selector, or nil when none does.
	First(selector string) (Element, error)
	// All returns every element matching selector in document order.
	All(selector string) ([]Element, error)
}

// Source yields the current state of a page. Load is called once per query so
// every caller sees fresh DOM state.
type Source interface {
	URL() string
	Load(ctx context.Context) (Page, error)
}

// Static is a Source that always returns the same snapshot.
type Static struct {
	Page Page
}

func (s Static) URL() string { return s.Page.URL() }

func (s Static) Load(context.Context) (Page, error) { return s.Page, nil }
