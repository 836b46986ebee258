package parser

import (
	"bytes"
	"io"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"meetctx/internal/page"
)

type Parser struct{}

func New() *Parser { return &Parser{} }

// Parse decodes an HTML snapshot of pageURL into a queryable document.
func (p *Parser) Parse(r io.Reader, contentType, pageURL string) (*page.Document, error) {
	// Decode to UTF-8 if needed
	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, r); err != nil {
		return nil, err
	}
	data := buf.Bytes()

	enc, _, _ := charset.DetermineEncoding(data, contentType)
	utf8data, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		// fallback: if already utf-8, continue
		if !utf8.Valid(data) {
			return nil, err
		}
		utf8data = data
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(utf8data))
	if err != nil {
		return nil, err
	}

	// script and style bodies would otherwise leak into text content
	doc.Find("script,noscript,style").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	return page.NewDocument(pageURL, doc), nil
}

// ParseString is a convenience for fixtures and request bodies already in UTF-8.
func (p *Parser) ParseString(html, pageURL string) (*page.Document, error) {
	return p.Parse(bytes.NewReader([]byte(html)), "text/html; charset=utf-8", pageURL)
}
