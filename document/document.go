// Package document wraps a fetched HTML page in a read-only query API:
// CSS selectors, XPath text-node lookups, regular expressions over element
// text, and resolution of relative links against the page URL.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

var ErrNotAbsolute = errors.New("not an absolute http(s) url")

// Document is one parsed page. It exposes no way to modify the tree, so a
// single Document may be queried from several goroutines.
type Document struct {
	doc  *goquery.Document
	base *url.URL
}

func New(body []byte, pageURL string) (*Document, error) {
	return NewFromReader(bytes.NewReader(body), pageURL)
}

func NewFromReader(r io.Reader, pageURL string) (*Document, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse page url: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	doc.Url = base
	return &Document{doc: doc, base: base}, nil
}

func (d *Document) URL() string {
	return d.base.String()
}

// OwnText returns the first text node that is a direct child of an element
// matching selector. Text of nested elements is not considered.
func (d *Document) OwnText(selector string) (string, bool) {
	var (
		text  string
		found bool
	)
	d.doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		for c := s.Nodes[0].FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				text, found = c.Data, true
				return false
			}
		}
		return true
	})
	return text, found
}

// Text returns the combined text of the first element matching selector.
func (d *Document) Text(selector string) (string, bool) {
	s := d.doc.Find(selector).First()
	if s.Length() == 0 {
		return "", false
	}
	return s.Text(), true
}

// Attr returns the attribute of the first matching element that carries it.
func (d *Document) Attr(selector, attr string) (string, bool) {
	var (
		val   string
		found bool
	)
	d.doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		val, found = s.Attr(attr)
		return !found
	})
	return val, found
}

// Attrs returns the attribute of every matching element that carries it,
// in document order.
func (d *Document) Attrs(selector, attr string) []string {
	var vals []string
	d.doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if v, ok := s.Attr(attr); ok {
			vals = append(vals, v)
		}
	})
	return vals
}

// FindSubmatch applies re to the text of each element matching selector, in
// document order, and returns the submatches of the first hit.
func (d *Document) FindSubmatch(selector string, re *regexp.Regexp) ([]string, bool) {
	var (
		match []string
		found bool
	)
	d.doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		match = re.FindStringSubmatch(s.Text())
		found = match != nil
		return !found
	})
	return match, found
}

// TextNodeContaining returns the first text node of the first tag element
// whose first text node contains substr, the XPath
// //tag[contains(text(), 'substr')]/text().
func (d *Document) TextNodeContaining(tag, substr string) (string, bool) {
	if strings.Contains(substr, "'") {
		return "", false
	}
	expr := fmt.Sprintf("//%s[contains(text(), '%s')]/text()", tag, substr)
	n, err := htmlquery.Query(d.doc.Nodes[0], expr)
	if err != nil || n == nil {
		return "", false
	}
	return n.Data, true
}

// AbsoluteURL resolves ref against the page URL.
func (d *Document) AbsoluteURL(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	u, err := d.base.Parse(ref)
	if err != nil {
		return "", err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%q: %w", u.String(), ErrNotAbsolute)
	}
	u.Fragment = ""
	return u.String(), nil
}
