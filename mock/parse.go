package mock

import (
	"context"

	"github.com/fwojciec/harvest"
)

var _ harvest.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of harvest.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*harvest.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*harvest.ExtractResult, error) {
	return e.ExtractFn(html)
}

var _ harvest.Converter = (*Converter)(nil)

// Converter is a mock implementation of harvest.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

var _ harvest.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of harvest.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html string, baseURL string) (*harvest.PageLinks, error)
}

func (l *LinkExtractor) ExtractLinks(html string, baseURL string) (*harvest.PageLinks, error) {
	return l.ExtractLinksFn(html, baseURL)
}

var _ harvest.Asker = (*Asker)(nil)

// Asker is a mock implementation of harvest.Asker.
type Asker struct {
	AskFn func(ctx context.Context, query string, pages []*harvest.PageContent, schema map[string]string) (string, error)
}

func (a *Asker) Ask(ctx context.Context, query string, pages []*harvest.PageContent, schema map[string]string) (string, error) {
	return a.AskFn(ctx, query, pages, schema)
}

var _ harvest.Renderer = (*Renderer)(nil)

// Renderer is a mock implementation of harvest.Renderer.
type Renderer struct {
	RenderFn func(ctx context.Context, url string) (string, error)
	CloseFn  func() error
}

func (r *Renderer) Render(ctx context.Context, url string) (string, error) {
	return r.RenderFn(ctx, url)
}

func (r *Renderer) Close() error {
	return r.CloseFn()
}

var _ harvest.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of harvest.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *harvest.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *harvest.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}
