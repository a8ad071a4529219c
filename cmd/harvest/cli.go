package main

import (
	"context"
	"io"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/config"
	"github.com/fwojciec/harvest/scrape"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer

	Config  *config.Config
	Client  *scrape.Client
	Journal harvest.JournalService

	Sitemaps  harvest.SitemapService
	Extractor harvest.Extractor
	Converter harvest.Converter
	Links     harvest.LinkExtractor
	Asker     harvest.Asker
	Renderer  harvest.Renderer
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging"`

	Scrape   ScrapeCmd   `cmd:"" help:"Unlock one or more pages and print or save their bodies"`
	Search   SearchCmd   `cmd:"" help:"Run a search engine query through the unlocker"`
	Trigger  TriggerCmd  `cmd:"" help:"Trigger a dataset collection job"`
	Download DownloadCmd `cmd:"" help:"Wait for a job and export its results"`
	Jobs     JobsCmd     `cmd:"" help:"List journaled jobs"`
	Crawl    CrawlCmd    `cmd:"" help:"Trigger a site discovery crawl"`
	Preview  PreviewCmd  `cmd:"" help:"Preview a site's URLs from its sitemap"`
	Parse    ParseCmd    `cmd:"" help:"Extract main content from a saved HTML file"`
	Extract  ExtractCmd  `cmd:"" help:"Ask the AI extractor about saved pages"`
	Render   RenderCmd   `cmd:"" help:"Render a JavaScript-heavy page in a browser"`
}

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct {
	URLs    []string `arg:"" help:"Target URLs"`
	Format  string   `short:"f" default:"raw" enum:"raw,json" help:"Response format"`
	Country string   `short:"c" help:"Two-letter proxy country"`
	Zone    string   `help:"Override the unlocker zone"`
	Async   bool     `help:"Use async jobs instead of synchronous unlocking"`
	Browser bool     `help:"Render pages in the scraping browser instead of the unlocker"`
	Out     string   `short:"o" help:"Directory to save bodies into (prints to stdout when empty)"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query   string `arg:"" help:"Search query"`
	Engine  string `short:"e" default:"google" enum:"google,bing,yandex" help:"Search engine"`
	Country string `short:"c" help:"Two-letter proxy country"`
	Num     int    `short:"n" help:"Requested result count"`
	Parse   bool   `short:"p" help:"Return structured JSON instead of HTML"`
}

// TriggerCmd is the "trigger" subcommand.
type TriggerCmd struct {
	Platform string   `arg:"" help:"Platform name, e.g. linkedin"`
	Method   string   `arg:"" help:"Collection method, e.g. profiles"`
	URLs     []string `arg:"" optional:"" help:"Input URLs"`
	Input    string   `short:"i" help:"JSON file with input records (overrides URLs)"`
	Wait     bool     `short:"w" help:"Block until the job completes"`
}

// DownloadCmd is the "download" subcommand.
type DownloadCmd struct {
	JobID  string `arg:"" help:"Job id, e.g. a snapshot id"`
	Format string `short:"f" default:"json" enum:"json,ndjson,csv" help:"Export format"`
	Out    string `short:"o" default:"." help:"Output directory"`
	Dedupe bool   `help:"Drop duplicate records from the export"`
}

// JobsCmd is the "jobs" subcommand.
type JobsCmd struct {
	State string `short:"s" help:"Filter by state (triggered, polling, ready, failed, timed_out)"`
	Limit int    `short:"n" default:"20" help:"Maximum rows"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	URLs          []string `arg:"" help:"Seed URLs"`
	Depth         int      `short:"d" help:"Maximum crawl depth"`
	Filter        string   `help:"Glob of paths to include, e.g. /product/*"`
	Exclude       string   `help:"Glob of paths to exclude"`
	IgnoreSitemap bool     `help:"Skip sitemap-based discovery"`
	Fields        []string `short:"F" help:"Extra output fields (markdown, text)"`
	Wait          bool     `short:"w" help:"Block until the crawl completes"`
}

// PreviewCmd is the "preview" subcommand.
type PreviewCmd struct {
	URL     string   `arg:"" help:"Site URL"`
	Filter  []string `short:"F" help:"Keep URLs matching regex (repeatable)"`
	Exclude []string `short:"X" help:"Drop URLs matching regex (repeatable)"`
}

// ParseCmd is the "parse" subcommand.
type ParseCmd struct {
	File     string `arg:"" help:"HTML file to parse"`
	Engine   string `default:"trafilatura" enum:"trafilatura,readability" help:"Extraction engine"`
	Markdown bool   `short:"m" help:"Convert extracted content to Markdown"`
	Links    bool   `short:"l" help:"List links instead of content"`
	BaseURL  string `help:"Base URL for resolving relative links"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	Query  string   `arg:"" help:"Extraction query"`
	Files  []string `arg:"" optional:"" help:"Page files (text or HTML) to extract from"`
	URLs   []string `short:"u" name:"url" help:"Scrape these URLs instead of reading files (repeatable)"`
	Schema []string `short:"s" help:"Schema field as name=description (repeatable)"`
}

// RenderCmd is the "render" subcommand.
type RenderCmd struct {
	URL string `arg:"" help:"Page URL"`
	Out string `short:"o" help:"File to save rendered HTML into (prints to stdout when empty)"`
}
