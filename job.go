package harvest

import "time"

// JobState describes where a collection job is in its lifecycle.
type JobState string

// Job lifecycle states. Ready, Failed, and TimedOut are terminal.
const (
	JobTriggered JobState = "triggered"
	JobPolling   JobState = "polling"
	JobReady     JobState = "ready"
	JobFailed    JobState = "failed"
	JobTimedOut  JobState = "timed_out"
)

// Terminal reports whether the state is final. Terminal jobs are never
// polled again; their results are cached by the handle that owns them.
func (s JobState) Terminal() bool {
	return s == JobReady || s == JobFailed || s == JobTimedOut
}

// Job represents one triggered remote collection job. The ID is the opaque
// snapshot or response identifier returned by the remote API and never
// changes after creation. State transitions happen only through polling.
type Job struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	State     JobState  `json:"state"`
}

// PollConfig controls the fixed-interval polling loop.
type PollConfig struct {
	// Interval is the pause between readiness probes.
	Interval time.Duration `json:"interval"`

	// Timeout is the wall-clock budget for the whole poll. When Timeout
	// is smaller than Interval at most one probe occurs.
	Timeout time.Duration `json:"timeout"`
}

// Validate returns EINVALID if the configuration cannot drive a poll loop.
func (c PollConfig) Validate() error {
	if c.Interval <= 0 {
		return Errorf(EINVALID, "poll interval must be positive, got %s", c.Interval)
	}
	if c.Timeout <= 0 {
		return Errorf(EINVALID, "poll timeout must be positive, got %s", c.Timeout)
	}
	return nil
}

// PollStatus identifies the variant of a PollResult.
type PollStatus string

// Poll outcomes. TimedOut is a normal terminal outcome, not an error.
// Cancelled is caller-initiated and resumable.
const (
	StatusReady     PollStatus = "ready"
	StatusFailed    PollStatus = "failed"
	StatusTimedOut  PollStatus = "timed_out"
	StatusCancelled PollStatus = "cancelled"
)

// PollResult is the outcome of waiting on a job. Exactly one variant is
// meaningful: Payload when Ready, Err when Failed or Cancelled, neither
// when TimedOut.
type PollResult struct {
	Status  PollStatus
	Payload []byte
	Err     error
}

// BatchResult holds one PollResult per batch input, in input order,
// regardless of completion order.
type BatchResult []PollResult

// Ready reports whether the result carries a payload.
func (r PollResult) Ready() bool {
	return r.Status == StatusReady
}
