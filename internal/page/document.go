package page

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Document is a Page backed by a parsed goquery document.
type Document struct {
	url string
	doc *goquery.Document
}

func NewDocument(url string, doc *goquery.Document) *Document {
	return &Document{url: url, doc: doc}
}

func (d *Document) URL() string { return d.url }

func (d *Document) Title() string {
	raw := d.doc.Find("title").First().Text()
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(raw, " "))
}

func (d *Document) First(selector string) (Element, error) {
	m, err := compile(selector)
	if err != nil {
		return nil, err
	}
	s := d.doc.FindMatcher(m).First()
	if s.Length() == 0 {
		return nil, nil
	}
	return node{s}, nil
}

func (d *Document) All(selector string) ([]Element, error) {
	m, err := compile(selector)
	if err != nil {
		return nil, err
	}
	var out []Element
	d.doc.FindMatcher(m).Each(func(i int, s *goquery.Selection) {
		out = append(out, node{s})
	})
	return out, nil
}

// compile uses cascadia directly because goquery's Find swallows parse
// errors and silently matches nothing.
func compile(selector string) (goquery.Matcher, error) {
	m, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidSelector, selector, err)
	}
	return m, nil
}

type node struct {
	s *goquery.Selection
}

func (n node) Attr(name string) (string, bool) { return n.s.Attr(name) }

func (n node) Text() string { return n.s.Text() }
