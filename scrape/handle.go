package scrape

import (
	"context"
	"sync"
	"time"

	"github.com/fwojciec/harvest"
)

// Handle binds a triggered remote job to wait/fetch operations. A Handle
// is safe for concurrent use, though a job is typically owned by the
// caller that triggered it.
type Handle struct {
	transport harvest.Transport
	cfg       harvest.PollConfig

	mu     sync.Mutex
	job    harvest.Job
	result *harvest.PollResult // cached terminal result
}

// TriggerJob starts a remote job and returns a handle for it. The spec and
// poll configuration are validated before anything is sent, so an invalid
// configuration never reaches the remote API.
func TriggerJob(ctx context.Context, t harvest.Transport, spec harvest.TriggerSpec, cfg harvest.PollConfig) (*Handle, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	id, err := t.Trigger(ctx, spec)
	if err != nil {
		return nil, err
	}

	return &Handle{
		transport: t,
		cfg:       cfg,
		job: harvest.Job{
			ID:        id,
			CreatedAt: time.Now().UTC(),
			State:     harvest.JobTriggered,
		},
	}, nil
}

// Resume reconstructs a handle for a job triggered earlier, identified by
// its opaque id. The handle starts in the Triggered state; Wait will poll
// the remote job as usual.
func Resume(t harvest.Transport, jobID string, cfg harvest.PollConfig) *Handle {
	return &Handle{
		transport: t,
		cfg:       cfg,
		job: harvest.Job{
			ID:        jobID,
			CreatedAt: time.Now().UTC(),
			State:     harvest.JobTriggered,
		},
	}
}

// ID returns the job's opaque remote identifier.
func (h *Handle) ID() string {
	return h.job.ID
}

// State returns the job's current lifecycle state.
func (h *Handle) State() harvest.JobState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.job.State
}

// Job returns a copy of the underlying job.
func (h *Handle) Job() harvest.Job {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.job
}

// Wait polls the job with the handle's configured timeout.
func (h *Handle) Wait(ctx context.Context) harvest.PollResult {
	return h.WaitFor(ctx, h.cfg.Timeout)
}

// WaitFor polls the job with an overridden timeout. Once a terminal
// result (Ready, Failed, or TimedOut) is reached it is cached: repeated
// calls return the same result without touching the transport. A
// cancelled wait is not terminal; the job stays in Polling and a later
// Wait resumes probing with a fresh timeout budget.
func (h *Handle) WaitFor(ctx context.Context, timeout time.Duration) harvest.PollResult {
	h.mu.Lock()
	if h.result != nil {
		res := *h.result
		h.mu.Unlock()
		return res
	}
	jobID := h.job.ID
	cfg := h.cfg
	cfg.Timeout = timeout
	if err := cfg.Validate(); err != nil {
		// A caller argument error, not a job outcome: leave the state and
		// the terminal cache alone so the handle stays waitable.
		h.mu.Unlock()
		return harvest.PollResult{Status: harvest.StatusFailed, Err: err}
	}
	h.job.State = harvest.JobPolling
	h.mu.Unlock()

	res := Poll(ctx, cfg, func(ctx context.Context) (*harvest.ProbeOutcome, error) {
		return h.transport.Probe(ctx, jobID)
	})

	h.mu.Lock()
	defer h.mu.Unlock()

	switch res.Status {
	case harvest.StatusReady:
		h.job.State = harvest.JobReady
		h.result = &res
	case harvest.StatusFailed:
		h.job.State = harvest.JobFailed
		h.result = &res
	case harvest.StatusTimedOut:
		h.job.State = harvest.JobTimedOut
		h.result = &res
	case harvest.StatusCancelled:
		// Resumable: state stays Polling, nothing is cached.
	}

	return res
}

// Fetch downloads the job's final payload. It is valid only after Wait
// has reached the Ready state; otherwise it fails with ENOTREADY without
// performing any transport call. Polling may already have carried the
// payload inline; Fetch still performs its own single transport call
// because the remote API separates readiness from retrieval.
func (h *Handle) Fetch(ctx context.Context) ([]byte, error) {
	h.mu.Lock()
	state := h.job.State
	jobID := h.job.ID
	h.mu.Unlock()

	if state != harvest.JobReady {
		return nil, harvest.Errorf(harvest.ENOTREADY, "job %s is %s, not ready", jobID, state)
	}

	return h.transport.Fetch(ctx, jobID)
}
