package harvest

import "context"

// PageContent is one scraped page handed to an Asker.
type PageContent struct {
	URL  string
	Text string
}

// Asker answers natural language queries over scraped page content.
type Asker interface {
	// Ask extracts the information described by query from the pages.
	// When schema is non-nil the answer is JSON shaped by the schema's
	// field names and type hints.
	Ask(ctx context.Context, query string, pages []*PageContent, schema map[string]string) (string, error)
}
