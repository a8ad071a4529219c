package main

import (
	"fmt"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/scrape"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	opts := scrape.SearchOptions{
		Country:    c.Country,
		NumResults: c.Num,
		Parse:      c.Parse,
	}

	body, err := deps.Client.Search(deps.Ctx, c.Query, scrape.SearchEngine(c.Engine), opts)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", harvest.ErrorMessage(err))
		return err
	}

	if _, err := deps.Stdout.Write(body); err != nil {
		return err
	}
	if len(body) > 0 && body[len(body)-1] != '\n' {
		fmt.Fprintln(deps.Stdout)
	}
	return nil
}
