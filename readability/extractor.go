// Package readability implements content extraction using go-readability.
// It is a lighter alternative to the trafilatura extractor for article-like
// pages; trafilatura remains the default.
package readability

import (
	"strings"

	"github.com/fwojciec/harvest"
	"github.com/go-shiori/go-readability"
)

var _ harvest.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*harvest.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, harvest.Errorf(harvest.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}

	return &harvest.ExtractResult{
		Title:       article.Title,
		ContentText: article.TextContent,
		ContentHTML: article.Content,
	}, nil
}
