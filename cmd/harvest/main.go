package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/config"
	"github.com/fwojciec/harvest/datasets"
	"github.com/fwojciec/harvest/gemini"
	"github.com/fwojciec/harvest/goquery"
	"github.com/fwojciec/harvest/htmltomarkdown"
	"github.com/fwojciec/harvest/readability"
	"github.com/fwojciec/harvest/resty"
	"github.com/fwojciec/harvest/rod"
	"github.com/fwojciec/harvest/scrape"
	"github.com/fwojciec/harvest/sitemap"
	hslog "github.com/fwojciec/harvest/slog"
	"github.com/fwojciec/harvest/sqlite"
	"github.com/fwojciec/harvest/trafilatura"
	"google.golang.org/genai"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database backing the job journal.
	DB *sqlite.DB

	// Services for end-to-end testing.
	Journal harvest.JournalService
	Client  *scrape.Client
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// apiCommands are the commands that talk to the remote collection API
// and therefore need a validated configuration with an API token.
var apiCommands = map[string]bool{
	"scrape":   true,
	"search":   true,
	"trigger":  true,
	"download": true,
	"crawl":    true,
}

// journalCommands are the commands that read or write the local job
// journal.
var journalCommands = map[string]bool{
	"trigger":  true,
	"download": true,
	"crawl":    true,
	"jobs":     true,
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Initialize dependencies struct for Kong binding
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	// Create Kong parser with dependency binding
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("harvest"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags using Kong
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'harvest --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	// Parse arguments first to know which command and its flags
	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logger := newLogger(stderr, cli.Verbose)

	// Local page processing needs no configuration or network.
	deps.Sitemaps = sitemap.NewService(nil)
	deps.Extractor = trafilatura.NewExtractor()
	deps.Converter = htmltomarkdown.NewConverter()
	deps.Links = goquery.NewLinkExtractor()
	if cmd == "parse" && cli.Parse.Engine == "readability" {
		deps.Extractor = readability.NewExtractor()
	}

	if journalCommands[cmd] {
		dbPath := defaultDBPath()
		m.DB = sqlite.NewDB(dbPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set %s to use a different database path\n", config.EnvDB)
			return fmt.Errorf("failed to open job journal at %q: %w", dbPath, err)
		}
		defer m.Close()

		m.Journal = sqlite.NewJournalService(m.DB)
		deps.Journal = m.Journal
	}

	needsAPI := apiCommands[cmd]
	if cmd == "scrape" && cli.Scrape.Browser {
		// Browser scraping goes through the rendering endpoint, not the
		// collection API.
		needsAPI = false
	}
	if cmd == "extract" && len(cli.Extract.URLs) > 0 {
		needsAPI = true
	}

	if needsAPI {
		cfg, err := config.Load(config.DefaultPath())
		if err != nil {
			fmt.Fprintf(stderr, "Hint: Set %s or create %s\n", config.EnvAPIToken, config.DefaultPath())
			return err
		}
		deps.Config = cfg

		opts := []resty.Option{resty.WithTimeout(cfg.RequestTimeout.Duration())}
		if cfg.BaseURL != "" {
			opts = append(opts, resty.WithBaseURL(cfg.BaseURL))
		}
		api := resty.NewClient(cfg.APIToken, opts...)

		m.Client = &scrape.Client{
			Transport:    hslog.NewLoggingTransport(api, logger),
			Unlocker:     hslog.NewLoggingUnlocker(api, logger),
			Registry:     datasets.DefaultRegistry(),
			Journal:      m.Journal,
			Poll:         cfg.PollConfig(),
			UnlockerZone: cfg.UnlockerZone,
			SerpZone:     cfg.SerpZone,
			Concurrency:  cfg.Concurrency,
		}
		deps.Client = m.Client
	}

	if cmd == "extract" {
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
			return fmt.Errorf("GEMINI_API_KEY not set")
		}

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return fmt.Errorf("failed to connect to Gemini API: %w", err)
		}

		deps.Asker = gemini.NewAsker(client)
		if m.Client != nil {
			m.Client.Extractor = deps.Extractor
			m.Client.Asker = deps.Asker
		}
	}

	if cmd == "render" || (cmd == "scrape" && cli.Scrape.Browser) {
		renderer, err := newRenderer(stderr)
		if err != nil {
			return err
		}
		defer renderer.Close()
		deps.Renderer = renderer
	}

	return kongCtx.Run(deps)
}

// newRenderer connects to the remote scraping browser when credentials
// are configured and falls back to a local headless browser otherwise.
func newRenderer(stderr io.Writer) (harvest.Renderer, error) {
	user := os.Getenv(config.EnvBrowserUser)
	pass := os.Getenv(config.EnvBrowserPass)
	if user != "" && pass != "" {
		r, err := rod.NewRemoteRenderer(user, pass)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to remote browser: %w", err)
		}
		return r, nil
	}

	r, err := rod.NewLocalRenderer()
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	return r, nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func defaultDBPath() string {
	if path := os.Getenv(config.EnvDB); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "jobs.db"
	}
	dir := filepath.Join(home, ".harvest")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "jobs.db")
}
