package main

import (
	"fmt"
	"os"

	"github.com/fwojciec/harvest"
)

// Run executes the render command.
func (c *RenderCmd) Run(deps *Dependencies) error {
	html, err := deps.Renderer.Render(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", harvest.ErrorMessage(err))
		return err
	}

	if c.Out == "" {
		fmt.Fprintln(deps.Stdout, html)
		return nil
	}

	if err := os.WriteFile(c.Out, []byte(html), 0o644); err != nil {
		fmt.Fprintf(deps.Stderr, "error: cannot write %s: %v\n", c.Out, err)
		return err
	}
	fmt.Fprintf(deps.Stdout, "Saved %s\n", c.Out)
	return nil
}
