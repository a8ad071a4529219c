package scrape

import (
	"context"
	"net/url"
	"strings"

	"github.com/fwojciec/harvest"
	"golang.org/x/sync/errgroup"
)

// Client composes the transport, the poller, and the spec registry behind
// per-domain convenience methods. Zero-value fields fall back to sensible
// defaults; only Transport (for async calls) and Unlocker (for sync calls)
// are required by the methods that use them.
type Client struct {
	Transport harvest.Transport
	Unlocker  harvest.Unlocker
	Registry  harvest.SpecRegistry

	// Journal, when set, records triggered jobs for later resumption.
	Journal harvest.JournalService

	// Extractor and Asker power the Extract flow. Both must be set for
	// Extract to work; nothing else uses them.
	Extractor harvest.Extractor
	Asker     harvest.Asker

	// Limiter, when set, throttles outbound requests per zone.
	Limiter *ZoneLimiter

	// Poll is the default polling configuration. Zero means
	// DefaultPollConfig.
	Poll harvest.PollConfig

	UnlockerZone string
	SerpZone     string

	// Concurrency bounds batch operations. Zero means
	// DefaultBatchConcurrency.
	Concurrency int
}

// ScrapeOptions tune a single unlock request.
type ScrapeOptions struct {
	Zone    string // override the client's unlocker zone
	Format  string // "raw" (default) or "json"
	Method  string // default GET
	Country string // two-letter proxy location
}

// UnlockResult is the outcome of one synchronous unlock request.
type UnlockResult struct {
	Body []byte
	Err  error
}

func (c *Client) pollConfig() harvest.PollConfig {
	if c.Poll == (harvest.PollConfig{}) {
		return DefaultPollConfig()
	}
	return c.Poll
}

func (c *Client) wait(ctx context.Context, zone string) error {
	if c.Limiter == nil {
		return nil
	}
	return c.Limiter.Wait(ctx, zone)
}

func (c *Client) unlockZone(opts ScrapeOptions) string {
	if opts.Zone != "" {
		return opts.Zone
	}
	return c.UnlockerZone
}

// Scrape unlocks a single page synchronously and returns its body.
func (c *Client) Scrape(ctx context.Context, target string, opts ScrapeOptions) ([]byte, error) {
	if strings.TrimSpace(target) == "" {
		return nil, harvest.Errorf(harvest.EINVALID, "url cannot be empty")
	}

	zone := c.unlockZone(opts)
	if err := c.wait(ctx, zone); err != nil {
		return nil, err
	}

	return c.Unlocker.Unlock(ctx, harvest.UnlockRequest{
		Zone:    zone,
		URL:     target,
		Format:  opts.Format,
		Method:  opts.Method,
		Country: opts.Country,
	})
}

// ScrapeAll unlocks multiple pages concurrently. Results match the input
// order; each slot carries its own body or error.
func (c *Client) ScrapeAll(ctx context.Context, targets []string, opts ScrapeOptions) ([]UnlockResult, error) {
	if len(targets) == 0 {
		return nil, harvest.Errorf(harvest.EINVALID, "url list cannot be empty")
	}

	results := make([]UnlockResult, len(targets))

	var g errgroup.Group
	g.SetLimit(c.batchLimit())
	for i, target := range targets {
		i, target := i, target
		g.Go(func() error {
			body, err := c.Scrape(ctx, target, opts)
			results[i] = UnlockResult{Body: body, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results, nil
}

// ScrapeAsync triggers asynchronous unlock jobs for every target and polls
// them to completion, returning one PollResult per target in input order.
func (c *Client) ScrapeAsync(ctx context.Context, targets []string, opts ScrapeOptions) (harvest.BatchResult, error) {
	if len(targets) == 0 {
		return nil, harvest.Errorf(harvest.EINVALID, "url list cannot be empty")
	}

	specs := make([]harvest.TriggerSpec, len(targets))
	for i, target := range targets {
		specs[i] = harvest.TriggerSpec{
			Kind: harvest.KindUnlock,
			Zone: c.unlockZone(opts),
			URL:  target,
			Params: url.Values{
				"format": []string{defaultString(opts.Format, "raw")},
			},
		}
	}

	return Batch(ctx, c.Transport, specs, c.pollConfig(), BatchOptions{Concurrency: c.Concurrency})
}

// Search runs a synchronous SERP query through the unlocker.
func (c *Client) Search(ctx context.Context, query string, engine SearchEngine, opts SearchOptions) ([]byte, error) {
	serpURL, err := SearchURL(engine, query, opts)
	if err != nil {
		return nil, err
	}

	if err := c.wait(ctx, c.SerpZone); err != nil {
		return nil, err
	}

	format := "raw"
	if opts.Parse {
		format = "json"
	}

	return c.Unlocker.Unlock(ctx, harvest.UnlockRequest{
		Zone:    c.SerpZone,
		URL:     serpURL,
		Format:  format,
		Country: opts.Country,
	})
}

// SearchAll runs multiple synchronous SERP queries concurrently, one
// result slot per query in input order.
func (c *Client) SearchAll(ctx context.Context, queries []string, engine SearchEngine, opts SearchOptions) ([]UnlockResult, error) {
	if len(queries) == 0 {
		return nil, harvest.Errorf(harvest.EINVALID, "query list cannot be empty")
	}

	results := make([]UnlockResult, len(queries))

	var g errgroup.Group
	g.SetLimit(c.batchLimit())
	for i, query := range queries {
		i, query := i, query
		g.Go(func() error {
			body, err := c.Search(ctx, query, engine, opts)
			results[i] = UnlockResult{Body: body, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results, nil
}

// SearchAsync triggers asynchronous SERP jobs for every query and polls
// them to completion.
func (c *Client) SearchAsync(ctx context.Context, queries []string, engine SearchEngine, opts SearchOptions) (harvest.BatchResult, error) {
	if len(queries) == 0 {
		return nil, harvest.Errorf(harvest.EINVALID, "query list cannot be empty")
	}

	specs := make([]harvest.TriggerSpec, len(queries))
	for i, query := range queries {
		serpURL, err := SearchURL(engine, query, opts)
		if err != nil {
			return nil, err
		}
		specs[i] = harvest.TriggerSpec{
			Kind: harvest.KindUnlock,
			Zone: c.SerpZone,
			URL:  serpURL,
		}
	}

	return Batch(ctx, c.Transport, specs, c.pollConfig(), BatchOptions{Concurrency: c.Concurrency})
}

// Trigger starts a dataset collection job through the spec registry and
// returns a handle for it. Returns ENOTFOUND when no builder is
// registered for the platform+method key.
func (c *Client) Trigger(ctx context.Context, platform, method string, inputs []harvest.Input) (*Handle, error) {
	if c.Registry == nil {
		return nil, harvest.Errorf(harvest.EINTERNAL, "no spec registry configured")
	}

	builder, ok := c.Registry.Get(platform, method)
	if !ok {
		return nil, harvest.Errorf(harvest.ENOTFOUND, "no builder registered for %s/%s", platform, method)
	}

	spec, err := builder.Build(inputs)
	if err != nil {
		return nil, err
	}

	if err := c.wait(ctx, string(spec.Kind)); err != nil {
		return nil, err
	}

	h, err := TriggerJob(ctx, c.Transport, spec, c.pollConfig())
	if err != nil {
		return nil, err
	}

	c.journal(ctx, h, spec, platform, method)
	return h, nil
}

// CrawlOptions tune a site discovery crawl.
type CrawlOptions struct {
	Depth         int
	IncludeFilter string
	ExcludeFilter string
	IgnoreSitemap bool
	OutputFields  []string // extra record fields, e.g. "markdown", "text"
}

// crawlDatasetID is the remote dataset backing site discovery crawls.
const crawlDatasetID = "gd_m6gjtfmeh43we6cqc"

// Crawl triggers a site discovery crawl starting from the given URLs and
// returns a handle for the crawl snapshot.
func (c *Client) Crawl(ctx context.Context, targets []string, opts CrawlOptions) (*Handle, error) {
	if len(targets) == 0 {
		return nil, harvest.Errorf(harvest.EINVALID, "url list cannot be empty")
	}
	if opts.Depth < 0 {
		return nil, harvest.Errorf(harvest.EINVALID, "crawl depth cannot be negative")
	}

	inputs := make([]harvest.Input, len(targets))
	for i, target := range targets {
		in := harvest.Input{"url": target}
		if opts.Depth > 0 {
			in["depth"] = opts.Depth
		}
		if opts.IncludeFilter != "" {
			in["filter"] = opts.IncludeFilter
		}
		if opts.ExcludeFilter != "" {
			in["exclude_filter"] = opts.ExcludeFilter
		}
		if opts.IgnoreSitemap {
			in["ignore_sitemap"] = true
		}
		inputs[i] = in
	}

	params := url.Values{"include_errors": []string{"true"}}
	if len(opts.OutputFields) > 0 {
		params.Set("custom_output_fields", strings.Join(opts.OutputFields, "|"))
	}

	spec := harvest.TriggerSpec{
		Kind:      harvest.KindCrawl,
		DatasetID: crawlDatasetID,
		Payload:   inputs,
		Params:    params,
	}

	if err := c.wait(ctx, string(spec.Kind)); err != nil {
		return nil, err
	}

	h, err := TriggerJob(ctx, c.Transport, spec, c.pollConfig())
	if err != nil {
		return nil, err
	}

	c.journal(ctx, h, spec, "crawl", "discover")
	return h, nil
}

// Resume returns a handle for a previously triggered job id, e.g. one
// read back from the journal.
func (c *Client) Resume(jobID string) *Handle {
	return Resume(c.Transport, jobID, c.pollConfig())
}

// Download waits for a previously triggered job and returns its payload.
// Readiness and retrieval are separate transport calls; the poll result
// itself never carries the body.
func (c *Client) Download(ctx context.Context, jobID string) ([]byte, error) {
	h := c.Resume(jobID)

	res := h.Wait(ctx)
	if !res.Ready() {
		if res.Err != nil {
			return nil, res.Err
		}
		return nil, harvest.Errorf(harvest.EUNAVAILABLE, "job %s is %s", jobID, res.Status)
	}
	return h.Fetch(ctx)
}

// Extract unlocks the targets, reduces each page to clean text, and asks
// the query over the combined content. Pages that fail to unlock or parse
// are skipped; it is an error when no page survives.
func (c *Client) Extract(ctx context.Context, query string, targets []string, schema map[string]string, opts ScrapeOptions) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", harvest.Errorf(harvest.EINVALID, "query cannot be empty")
	}
	if c.Extractor == nil || c.Asker == nil {
		return "", harvest.Errorf(harvest.EINTERNAL, "extract requires an extractor and an asker")
	}

	results, err := c.ScrapeAll(ctx, targets, opts)
	if err != nil {
		return "", err
	}

	pages := make([]*harvest.PageContent, 0, len(results))
	var lastErr error
	for i, res := range results {
		if res.Err != nil {
			lastErr = res.Err
			continue
		}
		extracted, err := c.Extractor.Extract(string(res.Body))
		if err != nil {
			lastErr = err
			continue
		}
		pages = append(pages, &harvest.PageContent{URL: targets[i], Text: extracted.ContentText})
	}
	if len(pages) == 0 {
		if lastErr != nil {
			return "", lastErr
		}
		return "", harvest.Errorf(harvest.EINVALID, "no usable page content")
	}

	return c.Asker.Ask(ctx, query, pages, schema)
}

func (c *Client) batchLimit() int {
	if c.Concurrency > 0 {
		return c.Concurrency
	}
	return DefaultBatchConcurrency
}

// journal records a triggered job. Journaling is best-effort convenience
// for the CLI; a journal failure never fails a successfully triggered job.
func (c *Client) journal(ctx context.Context, h *Handle, spec harvest.TriggerSpec, platform, method string) {
	if c.Journal == nil {
		return
	}

	target := spec.URL
	if target == "" {
		if inputs, ok := spec.Payload.([]harvest.Input); ok && len(inputs) > 0 {
			if u, ok := inputs[0]["url"].(string); ok {
				target = u
			}
		}
	}

	job := h.Job()
	_ = c.Journal.CreateJobRecord(ctx, &harvest.JobRecord{
		JobID:     job.ID,
		Kind:      string(spec.Kind),
		Platform:  platform,
		Method:    method,
		Target:    target,
		State:     job.State,
		CreatedAt: job.CreatedAt,
		UpdatedAt: job.CreatedAt,
	})
}

func defaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
