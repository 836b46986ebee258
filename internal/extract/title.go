package extract

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"meetctx/internal/page"
)

const (
	googleMeetTitleSuffix = " - Google Meet"
	zoomTitlePrefix       = "Zoom - "
)

// ResolveTitle walks the title rules and returns the first acceptable
// candidate, falling back to the page title with platform markers stripped.
// An error means a rule could not be evaluated at all.
func (e *Extractor) ResolveTitle(p page.Page) (string, error) {
	for _, r := range e.titleRules {
		el, err := p.First(r.Selector)
		if err != nil {
			return "", fmt.Errorf("resolve title: %w", err)
		}
		if el == nil {
			continue
		}
		text := strings.TrimSpace(r.Extract(el))
		if text != "" && utf8.RuneCountInString(text) < e.bounds.MaxTitleLength {
			return text, nil
		}
	}
	return StripTitle(p.Title()), nil
}

// StripTitle removes the " - Google Meet" suffix and "Zoom - " prefix that
// the platforms add to document titles. A title that is nothing but a marker
// is kept as is.
func StripTitle(raw string) string {
	t := strings.TrimSuffix(raw, googleMeetTitleSuffix)
	t = strings.TrimPrefix(t, zoomTitlePrefix)
	if t = strings.TrimSpace(t); t == "" {
		return strings.TrimSpace(raw)
	}
	return t
}
