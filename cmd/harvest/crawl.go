package main

import (
	"fmt"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/scrape"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	opts := scrape.CrawlOptions{
		Depth:         c.Depth,
		IncludeFilter: c.Filter,
		ExcludeFilter: c.Exclude,
		IgnoreSitemap: c.IgnoreSitemap,
		OutputFields:  c.Fields,
	}

	h, err := deps.Client.Crawl(deps.Ctx, c.URLs, opts)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", harvest.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Triggered crawl %s\n", h.ID())

	if !c.Wait {
		fmt.Fprintf(deps.Stdout, "Run 'harvest download %s' to export the results\n", h.ID())
		return nil
	}

	if _, err := waitJob(deps, h); err != nil {
		return err
	}
	fmt.Fprintf(deps.Stdout, "Crawl %s ready\n", h.ID())
	fmt.Fprintf(deps.Stdout, "Run 'harvest download %s' to export the results\n", h.ID())
	return nil
}
