// Package sitemap discovers site URLs from robots.txt and sitemap XML.
// It gives crawl jobs a cheap preview of what a site exposes before any
// remote collection is triggered.
package sitemap

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/harvest"
	"github.com/go-resty/resty/v2"
)

// Ensure Service implements harvest.SitemapService.
var _ harvest.SitemapService = (*Service)(nil)

// Service discovers URLs from website sitemaps over HTTP.
type Service struct {
	http *resty.Client
}

// NewService creates a Service. A nil client gets a default resty client.
func NewService(client *resty.Client) *Service {
	if client == nil {
		client = resty.New()
	}
	return &Service{http: client}
}

// DiscoverURLs finds all URLs a site's sitemaps expose. Sitemaps come
// from the Sitemap: directives of robots.txt, falling back to
// /sitemap.xml; sitemap indexes recurse. Returns an empty slice (not
// nil) when the site has no sitemap. When baseURL has a non-root path,
// only URLs under that path are returned.
func (s *Service) DiscoverURLs(ctx context.Context, baseURL string, filter *harvest.URLFilter) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, harvest.Errorf(harvest.EINVALID, "invalid base URL: %v", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, harvest.Errorf(harvest.EINVALID, "base URL must be absolute")
	}

	pathPrefix := base.Path
	if pathPrefix == "/" {
		pathPrefix = ""
	}

	root := *base
	root.Path = ""

	sitemapURLs, err := s.findSitemapURLs(ctx, &root)
	if err != nil {
		return nil, err
	}
	if len(sitemapURLs) == 0 {
		return []string{}, nil
	}

	seenSitemaps := make(map[string]bool)
	seenURLs := make(map[string]bool)
	var all []string

	for _, su := range sitemapURLs {
		urls, err := s.walkSitemap(ctx, su, seenSitemaps)
		if err != nil {
			return nil, err
		}
		for _, u := range urls {
			if !seenURLs[u] {
				seenURLs[u] = true
				all = append(all, u)
			}
		}
	}

	out := make([]string, 0, len(all))
	for _, u := range all {
		if pathPrefix != "" && !underPath(u, pathPrefix) {
			continue
		}
		if filter != nil && !filter.Match(u) {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

// underPath reports whether the URL's path lives under prefix, respecting
// path boundaries: /docs matches /docs/intro but not /documentation.
func underPath(rawURL, prefix string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return strings.HasPrefix(parsed.Path, prefix)
}

// findSitemapURLs reads Sitemap: directives from robots.txt, falling
// back to /sitemap.xml when robots.txt names none.
func (s *Service) findSitemapURLs(ctx context.Context, base *url.URL) ([]string, error) {
	robotsURL := base.ResolveReference(&url.URL{Path: "/robots.txt"}).String()
	if body, err := s.get(ctx, robotsURL); err == nil {
		if sitemaps := parseRobots(body); len(sitemaps) > 0 {
			return sitemaps, nil
		}
	} else if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	fallback := base.ResolveReference(&url.URL{Path: "/sitemap.xml"}).String()
	r, err := s.http.R().SetContext(ctx).Head(fallback)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, nil
	}
	if r.IsSuccess() {
		return []string{fallback}, nil
	}
	return nil, nil
}

// parseRobots extracts Sitemap: directives, case-insensitively.
func parseRobots(body []byte) []string {
	var sitemaps []string
	scanner := bufio.NewScanner(bytes.NewReader(body))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(strings.ToLower(line), "sitemap:") {
			if u := strings.TrimSpace(line[len("sitemap:"):]); u != "" {
				sitemaps = append(sitemaps, u)
			}
		}
	}
	return sitemaps
}

// walkSitemap parses one sitemap document, recursing into sitemap
// indexes. Each sitemap URL is visited at most once.
func (s *Service) walkSitemap(ctx context.Context, sitemapURL string, seen map[string]bool) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if seen[sitemapURL] {
		return nil, nil
	}
	seen[sitemapURL] = true

	body, err := s.get(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return nil, fmt.Errorf("parsing sitemap XML: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("empty sitemap XML")
	}

	if root.Tag == "sitemapindex" {
		var all []string
		for _, sm := range root.SelectElements("sitemap") {
			loc := sm.SelectElement("loc")
			if loc == nil {
				continue
			}
			child := strings.TrimSpace(loc.Text())
			if child == "" {
				continue
			}
			urls, err := s.walkSitemap(ctx, child, seen)
			if err != nil {
				return nil, err
			}
			all = append(all, urls...)
		}
		return all, nil
	}

	var urls []string
	for _, u := range root.SelectElements("url") {
		loc := u.SelectElement("loc")
		if loc == nil {
			continue
		}
		if text := strings.TrimSpace(loc.Text()); text != "" {
			urls = append(urls, text)
		}
	}
	return urls, nil
}

func (s *Service) get(ctx context.Context, rawURL string) ([]byte, error) {
	r, err := s.http.R().SetContext(ctx).Get(rawURL)
	if err != nil {
		return nil, err
	}
	if r.IsError() {
		return nil, fmt.Errorf("GET %s: HTTP %d", rawURL, r.StatusCode())
	}
	return r.Body(), nil
}
