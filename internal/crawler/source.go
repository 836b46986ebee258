package crawler

import (
	"context"
	"fmt"

	"meetctx/internal/page"
	"meetctx/internal/parser"
)

// Source is a page.Source that fetches the page again on every Load, so each
// query sees the page as it is now.
type Source struct {
	client *HTTPClient
	parser *parser.Parser
	url    string
}

func NewSource(client *HTTPClient, p *parser.Parser, url string) *Source {
	return &Source{client: client, parser: p, url: url}
}

func (s *Source) URL() string { return s.url }

func (s *Source) Load(ctx context.Context) (page.Page, error) {
	resp, err := s.client.Fetch(ctx, s.url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", s.url, err)
	}
	defer resp.Close()

	// the page lives wherever redirects ended up
	doc, err := s.parser.Parse(resp.Body, resp.ContentType, resp.FinalURL)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.url, err)
	}
	return doc, nil
}
