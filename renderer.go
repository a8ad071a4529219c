package harvest

import "context"

// Renderer retrieves rendered HTML through the remote scraping browser.
// Use it for pages that need JavaScript execution or interactive
// bot-detection handling beyond what the unlocker provides.
type Renderer interface {
	// Render navigates to the URL, waits for JavaScript to settle,
	// and returns the rendered HTML.
	Render(ctx context.Context, url string) (html string, err error)

	// Close releases the browser connection.
	Close() error
}
