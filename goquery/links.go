// Package goquery collects links and image URLs from scraped pages.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/harvest"
)

// Ensure LinkExtractor implements harvest.LinkExtractor at compile time.
var _ harvest.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor parses HTML with goquery and returns absolute link and
// image URLs.
type LinkExtractor struct{}

// NewLinkExtractor creates a new LinkExtractor.
func NewLinkExtractor() *LinkExtractor {
	return &LinkExtractor{}
}

// ExtractLinks parses HTML and returns absolute link and image URLs.
// Relative references resolve against baseURL. Duplicates are removed,
// preserving document order.
func (e *LinkExtractor) ExtractLinks(html string, baseURL string) (*harvest.PageLinks, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, harvest.Errorf(harvest.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, harvest.Errorf(harvest.EINVALID, "failed to parse HTML: %v", err)
	}

	links := &harvest.PageLinks{}
	seenLinks := make(map[string]bool)
	seenImages := make(map[string]bool)

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if href == "" || isNonHTTPLink(href) {
			return
		}
		resolved := resolveURL(base, href)
		if resolved == "" || seenLinks[resolved] {
			return
		}
		seenLinks[resolved] = true
		links.Links = append(links.Links, resolved)
	})

	doc.Find("img[src]").Each(func(_ int, sel *goquery.Selection) {
		src, _ := sel.Attr("src")
		if src == "" || strings.HasPrefix(src, "data:") {
			return
		}
		resolved := resolveURL(base, src)
		if resolved == "" || seenImages[resolved] {
			return
		}
		seenImages[resolved] = true
		links.Images = append(links.Images, resolved)
	})

	return links, nil
}

// isNonHTTPLink reports whether href points outside the http(s) space,
// e.g. javascript:, mailto:, tel:, or a bare fragment.
func isNonHTTPLink(href string) bool {
	if strings.HasPrefix(href, "#") {
		return true
	}
	lower := strings.ToLower(href)
	for _, prefix := range []string{"javascript:", "mailto:", "tel:", "ftp:", "data:"} {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// resolveURL resolves href against base and strips the fragment.
// Returns "" for unparseable or non-http(s) results.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	resolved.Fragment = ""
	return resolved.String()
}
