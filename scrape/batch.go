package scrape

import (
	"context"

	"github.com/fwojciec/harvest"
	"golang.org/x/sync/errgroup"
)

// DefaultBatchConcurrency caps in-flight jobs when BatchOptions does not.
const DefaultBatchConcurrency = 10

// BatchOptions configures a batch run.
type BatchOptions struct {
	// Concurrency is the maximum number of in-flight jobs. Excess specs
	// queue in input order and start as capacity frees up. Zero means
	// DefaultBatchConcurrency; negative means unbounded.
	Concurrency int
}

func (o BatchOptions) limit() int {
	switch {
	case o.Concurrency == 0:
		return DefaultBatchConcurrency
	case o.Concurrency < 0:
		return -1
	default:
		return o.Concurrency
	}
}

// Batch triggers every spec, polls all jobs concurrently, and fetches the
// ready ones. The returned slice matches the input order slot for slot,
// regardless of completion order; each slot is populated independently, so
// one job's failure or timeout never cancels or delays its siblings.
//
// The only returned error is a configuration or validation problem caught
// before any job is triggered. Per-job failures live in their slots.
func Batch(ctx context.Context, t harvest.Transport, specs []harvest.TriggerSpec, cfg harvest.PollConfig, opts BatchOptions) (harvest.BatchResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	for _, spec := range specs {
		if err := spec.Validate(); err != nil {
			return nil, err
		}
	}

	results := make(harvest.BatchResult, len(specs))

	// A plain errgroup (no WithContext) keeps members isolated: workers
	// always return nil, so no member can cancel the group.
	var g errgroup.Group
	g.SetLimit(opts.limit())

	for i, spec := range specs {
		i, spec := i, spec
		g.Go(func() error {
			results[i] = runOne(ctx, t, spec, cfg)
			return nil
		})
	}
	_ = g.Wait()

	return results, nil
}

// runOne executes the full trigger/wait/fetch lifecycle for one spec.
func runOne(ctx context.Context, t harvest.Transport, spec harvest.TriggerSpec, cfg harvest.PollConfig) harvest.PollResult {
	h, err := TriggerJob(ctx, t, spec, cfg)
	if err != nil {
		if ctx.Err() != nil {
			return harvest.PollResult{Status: harvest.StatusCancelled, Err: ctx.Err()}
		}
		return harvest.PollResult{Status: harvest.StatusFailed, Err: err}
	}

	res := h.Wait(ctx)
	if !res.Ready() {
		return res
	}

	payload, err := h.Fetch(ctx)
	if err != nil {
		return harvest.PollResult{Status: harvest.StatusFailed, Err: err}
	}
	res.Payload = payload
	return res
}
