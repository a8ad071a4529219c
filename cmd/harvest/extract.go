package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/scrape"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	schema, err := parseSchema(c.Schema)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", harvest.ErrorMessage(err))
		return err
	}

	if len(c.URLs) > 0 {
		answer, err := deps.Client.Extract(deps.Ctx, c.Query, c.URLs, schema, scrape.ScrapeOptions{})
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", harvest.ErrorMessage(err))
			return err
		}
		fmt.Fprintln(deps.Stdout, answer)
		return nil
	}

	if len(c.Files) == 0 {
		err := harvest.Errorf(harvest.EINVALID, "provide page files or --url targets")
		fmt.Fprintf(deps.Stderr, "error: %s\n", harvest.ErrorMessage(err))
		return err
	}

	pages := make([]*harvest.PageContent, 0, len(c.Files))
	for _, file := range c.Files {
		data, err := os.ReadFile(file)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: cannot read %s: %v\n", file, err)
			return err
		}
		pages = append(pages, &harvest.PageContent{URL: file, Text: string(data)})
	}

	answer, err := deps.Asker.Ask(deps.Ctx, c.Query, pages, schema)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", harvest.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, answer)
	return nil
}

// parseSchema turns name=description flags into a schema map. A nil map
// means free-form text output.
func parseSchema(fields []string) (map[string]string, error) {
	if len(fields) == 0 {
		return nil, nil
	}

	schema := make(map[string]string, len(fields))
	for _, field := range fields {
		name, desc, ok := strings.Cut(field, "=")
		if !ok || name == "" {
			return nil, harvest.Errorf(harvest.EINVALID, "schema field %q must be name=description", field)
		}
		schema[name] = desc
	}
	return schema, nil
}
