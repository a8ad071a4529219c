package main

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/export"
	"github.com/fwojciec/harvest/scrape"
)

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	opts := scrape.ScrapeOptions{
		Zone:    c.Zone,
		Format:  c.Format,
		Country: c.Country,
	}

	var writer *export.Writer
	if c.Out != "" {
		writer = export.NewWriter(c.Out)
	}

	if c.Browser {
		var failed int
		for _, target := range c.URLs {
			html, err := deps.Renderer.Render(deps.Ctx, target)
			if err != nil {
				failed++
				fmt.Fprintf(deps.Stderr, "%s: %s\n", target, harvest.ErrorMessage(err))
				continue
			}
			if err := c.emit(deps, writer, target, []byte(html)); err != nil {
				return err
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d pages failed", failed, len(c.URLs))
		}
		return nil
	}

	if c.Async {
		results, err := deps.Client.ScrapeAsync(deps.Ctx, c.URLs, opts)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", harvest.ErrorMessage(err))
			return err
		}

		var failed int
		for i, res := range results {
			if !res.Ready() {
				failed++
				fmt.Fprintf(deps.Stderr, "%s: %s: %s\n", c.URLs[i], res.Status, harvest.ErrorMessage(res.Err))
				continue
			}
			if err := c.emit(deps, writer, c.URLs[i], res.Payload); err != nil {
				return err
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d pages failed", failed, len(c.URLs))
		}
		return nil
	}

	if len(c.URLs) == 1 {
		body, err := deps.Client.Scrape(deps.Ctx, c.URLs[0], opts)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", harvest.ErrorMessage(err))
			return err
		}
		return c.emit(deps, writer, c.URLs[0], body)
	}

	results, err := deps.Client.ScrapeAll(deps.Ctx, c.URLs, opts)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", harvest.ErrorMessage(err))
		return err
	}

	var failed int
	for i, res := range results {
		if res.Err != nil {
			failed++
			fmt.Fprintf(deps.Stderr, "%s: %s\n", c.URLs[i], harvest.ErrorMessage(res.Err))
			continue
		}
		if err := c.emit(deps, writer, c.URLs[i], res.Body); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d pages failed", failed, len(c.URLs))
	}
	return nil
}

// emit writes one unlocked body to the output directory or to stdout.
func (c *ScrapeCmd) emit(deps *Dependencies, writer *export.Writer, target string, body []byte) error {
	if writer == nil {
		if _, err := deps.Stdout.Write(body); err != nil {
			return err
		}
		if len(body) > 0 && body[len(body)-1] != '\n' {
			fmt.Fprintln(deps.Stdout)
		}
		return nil
	}

	path, err := writer.WriteRaw(pageFileName(target, c.Format), body)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", harvest.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Saved %s\n", path)
	return nil
}

// pageFileName derives a stable file name from a target URL.
func pageFileName(target, format string) string {
	ext := ".html"
	if format == "json" {
		ext = ".json"
	}

	u, err := url.Parse(target)
	if err != nil || u.Host == "" {
		return "page" + ext
	}

	name := u.Host + strings.TrimSuffix(u.Path, "/")
	name = strings.Trim(strings.ReplaceAll(name, "/", "_"), "_")
	if name == "" {
		name = "page"
	}
	return name + ext
}
