package scrape

import (
	"net/url"
	"strconv"

	"github.com/fwojciec/harvest"
)

// SearchEngine identifies a supported SERP engine.
type SearchEngine string

// Supported search engines.
const (
	EngineGoogle SearchEngine = "google"
	EngineBing   SearchEngine = "bing"
	EngineYandex SearchEngine = "yandex"
)

// SearchOptions tune a SERP query.
type SearchOptions struct {
	// Country is a two-letter proxy location code.
	Country string

	// Language is the result language code (engine-dependent).
	Language string

	// NumResults is the requested result count. Zero uses the engine
	// default page size.
	NumResults int

	// Parse requests structured JSON instead of raw HTML.
	Parse bool
}

// SearchURL builds the search-engine URL submitted through the unlocker
// for a SERP query.
func SearchURL(engine SearchEngine, query string, opts SearchOptions) (string, error) {
	if query == "" {
		return "", harvest.Errorf(harvest.EINVALID, "search query cannot be empty")
	}

	q := url.Values{}
	var base string

	switch engine {
	case EngineGoogle:
		base = "https://www.google.com/search"
		q.Set("q", query)
		if opts.Country != "" {
			q.Set("gl", opts.Country)
		}
		if opts.Language != "" {
			q.Set("hl", opts.Language)
		}
		if opts.NumResults > 0 {
			q.Set("num", strconv.Itoa(opts.NumResults))
		}
	case EngineBing:
		base = "https://www.bing.com/search"
		q.Set("q", query)
		if opts.Country != "" {
			q.Set("cc", opts.Country)
		}
		if opts.NumResults > 0 {
			q.Set("count", strconv.Itoa(opts.NumResults))
		}
	case EngineYandex:
		base = "https://yandex.com/search/"
		q.Set("text", query)
		if opts.Language != "" {
			q.Set("lang", opts.Language)
		}
	default:
		return "", harvest.Errorf(harvest.EINVALID, "unsupported search engine %q", engine)
	}

	if opts.Parse {
		// Asks the unlocker to return parsed SERP JSON instead of HTML.
		q.Set("brd_json", "1")
	}

	return base + "?" + q.Encode(), nil
}
