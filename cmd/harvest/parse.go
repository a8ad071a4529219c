package main

import (
	"fmt"
	"os"

	"github.com/fwojciec/harvest"
)

// Run executes the parse command.
func (c *ParseCmd) Run(deps *Dependencies) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: cannot read %s: %v\n", c.File, err)
		return err
	}
	html := string(data)

	if c.Links {
		if c.BaseURL == "" {
			err := harvest.Errorf(harvest.EINVALID, "--base-url is required to resolve links")
			fmt.Fprintf(deps.Stderr, "error: %s\n", harvest.ErrorMessage(err))
			return err
		}

		links, err := deps.Links.ExtractLinks(html, c.BaseURL)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", harvest.ErrorMessage(err))
			return err
		}
		for _, u := range links.Links {
			fmt.Fprintln(deps.Stdout, u)
		}
		for _, u := range links.Images {
			fmt.Fprintf(deps.Stdout, "%s (image)\n", u)
		}
		return nil
	}

	res, err := deps.Extractor.Extract(html)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", harvest.ErrorMessage(err))
		return err
	}

	if c.Markdown {
		md, err := deps.Converter.Convert(res.ContentHTML)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", harvest.ErrorMessage(err))
			return err
		}
		fmt.Fprintln(deps.Stdout, md)
		return nil
	}

	if res.Title != "" {
		fmt.Fprintf(deps.Stdout, "%s\n\n", res.Title)
	}
	fmt.Fprintln(deps.Stdout, res.ContentText)
	return nil
}
