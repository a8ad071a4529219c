package main

import (
	"fmt"
	"regexp"

	"github.com/fwojciec/harvest"
)

// Run executes the preview command.
func (c *PreviewCmd) Run(deps *Dependencies) error {
	filter, err := compileFilter(c.Filter, c.Exclude)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", harvest.ErrorMessage(err))
		return err
	}

	urls, err := deps.Sitemaps.DiscoverURLs(deps.Ctx, c.URL, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", harvest.ErrorMessage(err))
		return err
	}

	if len(urls) == 0 {
		fmt.Fprintln(deps.Stdout, "No URLs found in sitemap.")
		return nil
	}

	for _, u := range urls {
		fmt.Fprintln(deps.Stdout, u)
	}
	fmt.Fprintf(deps.Stdout, "%d URLs\n", len(urls))
	return nil
}

// compileFilter validates regex patterns early so bad patterns fail before
// any network traffic.
func compileFilter(include, exclude []string) (*harvest.URLFilter, error) {
	if len(include) == 0 && len(exclude) == 0 {
		return nil, nil
	}

	filter := &harvest.URLFilter{}
	for _, pattern := range include {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, harvest.Errorf(harvest.EINVALID, "invalid filter pattern %q: %v", pattern, err)
		}
		filter.Include = append(filter.Include, re)
	}
	for _, pattern := range exclude {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, harvest.Errorf(harvest.EINVALID, "invalid exclude pattern %q: %v", pattern, err)
		}
		filter.Exclude = append(filter.Exclude, re)
	}
	return filter, nil
}
