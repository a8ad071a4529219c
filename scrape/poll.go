// Package scrape provides the client-side orchestration for remote
// collection jobs: the fixed-interval poller, per-job handles, the batch
// coordinator, and the client facade composing them.
package scrape

import (
	"context"
	"time"

	"github.com/fwojciec/harvest"
)

// Default polling configuration used when the caller provides none.
const (
	DefaultPollInterval = 10 * time.Second
	DefaultPollTimeout  = 600 * time.Second
)

// DefaultPollConfig returns the default interval/timeout pair.
func DefaultPollConfig() harvest.PollConfig {
	return harvest.PollConfig{
		Interval: DefaultPollInterval,
		Timeout:  DefaultPollTimeout,
	}
}

// ProbeFunc performs a single readiness check.
type ProbeFunc func(ctx context.Context) (*harvest.ProbeOutcome, error)

// Poll drives probe at cfg.Interval until the job is ready, permanently
// failed, or cfg.Timeout of wall-clock time has elapsed.
//
// Transient probe errors (code EUNAVAILABLE) are swallowed and retried on
// the next interval, like a not-ready response; any other error returns
// StatusFailed immediately. Context cancellation returns StatusCancelled
// and is not terminal: the caller may poll the same job again.
//
// The timeout is wall-clock based and measured from the start of the loop,
// so slow probes count against the budget. An invalid configuration fails
// fast with StatusFailed before the first probe.
func Poll(ctx context.Context, cfg harvest.PollConfig, probe ProbeFunc) harvest.PollResult {
	if err := cfg.Validate(); err != nil {
		return harvest.PollResult{Status: harvest.StatusFailed, Err: err}
	}

	start := time.Now()
	timer := time.NewTimer(cfg.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return harvest.PollResult{Status: harvest.StatusCancelled, Err: ctx.Err()}
		case <-timer.C:
		}

		out, err := probe(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return harvest.PollResult{Status: harvest.StatusCancelled, Err: ctx.Err()}
			}
			if !harvest.IsTransient(err) {
				return harvest.PollResult{Status: harvest.StatusFailed, Err: err}
			}
			// Transient: fall through to the timeout check below.
		} else {
			switch out.State {
			case harvest.ProbeReady:
				return harvest.PollResult{Status: harvest.StatusReady, Payload: out.Payload}
			case harvest.ProbeFailed:
				msg := out.Message
				if msg == "" {
					msg = "remote job failed"
				}
				return harvest.PollResult{
					Status: harvest.StatusFailed,
					Err:    harvest.Errorf(harvest.EINTERNAL, "%s", msg),
				}
			}
			// ProbeNotReady: fall through.
		}

		if time.Since(start) >= cfg.Timeout {
			return harvest.PollResult{Status: harvest.StatusTimedOut}
		}

		timer.Reset(cfg.Interval)
	}
}
