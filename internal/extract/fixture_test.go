package extract

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"meetctx/internal/page"
	"meetctx/internal/parser"
)

func parse(t *testing.T, url, html string) page.Page {
	t.Helper()
	doc, err := parser.New().ParseString(html, url)
	require.NoError(t, err)
	return doc
}

// brokenPage fails every lookup for the listed selectors and delegates the
// rest to the wrapped page.
type brokenPage struct {
	page.Page
	broken map[string]bool
}

var errLookup = errors.New("lookup exploded")

func (b brokenPage) First(selector string) (page.Element, error) {
	if b.broken[selector] {
		return nil, fmt.Errorf("first %q: %w", selector, errLookup)
	}
	return b.Page.First(selector)
}

func (b brokenPage) All(selector string) ([]page.Element, error) {
	if b.broken[selector] {
		return nil, fmt.Errorf("all %q: %w", selector, errLookup)
	}
	return b.Page.All(selector)
}
