package harvest

// ExtractResult holds the main content extracted from an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentText is the main content as clean plain text.
	ContentText string

	// ContentHTML is the main content as clean HTML with boilerplate
	// (nav, footer, sidebar, ads) removed.
	ContentHTML string
}

// Extractor extracts main content from HTML pages, removing boilerplate.
type Extractor interface {
	Extract(html string) (*ExtractResult, error)
}

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms HTML content into Markdown. The input should be
	// clean HTML (e.g., from an Extractor).
	Convert(html string) (string, error)
}

// PageLinks holds hyperlinks and image URLs found on a page.
type PageLinks struct {
	Links  []string
	Images []string
}

// LinkExtractor collects links and image URLs from HTML.
type LinkExtractor interface {
	// ExtractLinks parses HTML and returns absolute link and image URLs.
	// The baseURL is used to resolve relative references. Duplicates are
	// removed, preserving document order.
	ExtractLinks(html string, baseURL string) (*PageLinks, error)
}
