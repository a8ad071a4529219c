package harvest

import (
	"context"
	"net/url"
)

// TriggerKind selects which remote job family a TriggerSpec starts.
type TriggerKind string

// Job families exposed by the remote API.
const (
	KindUnlock  TriggerKind = "unlock"  // asynchronous single-page unlock
	KindDataset TriggerKind = "dataset" // dataset collection snapshot
	KindCrawl   TriggerKind = "crawl"   // site discovery crawl snapshot
)

// TriggerSpec describes one remote job to start.
type TriggerSpec struct {
	Kind TriggerKind

	// Zone is the proxy zone for unlock jobs.
	Zone string

	// URL is the target page (or SERP URL) for unlock jobs.
	URL string

	// DatasetID identifies the dataset for dataset and crawl jobs.
	DatasetID string

	// Payload is the request body for dataset and crawl jobs,
	// typically a slice of input records.
	Payload any

	// Params carries extra query parameters (format, include_errors, ...).
	Params url.Values
}

// Validate returns EINVALID if the spec cannot be sent to the remote API.
func (s TriggerSpec) Validate() error {
	switch s.Kind {
	case KindUnlock:
		if s.URL == "" {
			return Errorf(EINVALID, "unlock trigger requires a URL")
		}
		if s.Zone == "" {
			return Errorf(EINVALID, "unlock trigger requires a zone")
		}
	case KindDataset, KindCrawl:
		if s.DatasetID == "" {
			return Errorf(EINVALID, "%s trigger requires a dataset ID", s.Kind)
		}
		if s.Payload == nil {
			return Errorf(EINVALID, "%s trigger requires a payload", s.Kind)
		}
	default:
		return Errorf(EINVALID, "unknown trigger kind %q", s.Kind)
	}
	return nil
}

// ProbeState classifies a single readiness check.
type ProbeState string

// Probe states reported by the remote API.
const (
	ProbeNotReady ProbeState = "not_ready"
	ProbeReady    ProbeState = "ready"
	ProbeFailed   ProbeState = "failed"
)

// ProbeOutcome is the result of one readiness probe. Payload is set only
// when the remote API returns the result inline with the status; most
// protocols split "is it ready" from "get the data", so callers must not
// rely on it and should fetch explicitly.
type ProbeOutcome struct {
	State   ProbeState
	Payload []byte

	// Message carries the remote failure description when State is
	// ProbeFailed.
	Message string
}

// Transport executes asynchronous collection jobs against the remote API.
// Implementations classify failures through error codes: EUNAVAILABLE for
// transient network or server conditions, EUNAUTHORIZED / EINVALID /
// EINTERNAL for permanent ones. Implementations must be safe for use by
// multiple concurrent pollers; any connection pooling or session reuse is
// the implementation's own concern.
type Transport interface {
	// Trigger starts a remote job and returns its opaque identifier.
	Trigger(ctx context.Context, spec TriggerSpec) (string, error)

	// Probe performs a single readiness check for a triggered job.
	Probe(ctx context.Context, jobID string) (*ProbeOutcome, error)

	// Fetch downloads the final payload of a ready job.
	Fetch(ctx context.Context, jobID string) ([]byte, error)
}

// UnlockRequest describes a synchronous unlock request.
type UnlockRequest struct {
	Zone    string `json:"zone"`
	URL     string `json:"url"`
	Format  string `json:"format,omitempty"`  // "raw" (default) or "json"
	Method  string `json:"method,omitempty"`  // default GET
	Country string `json:"country,omitempty"` // two-letter proxy location
}

// Unlocker performs synchronous page unlocking, blocking until the page
// body is available. SERP queries also go through this path with a
// search-engine URL.
type Unlocker interface {
	Unlock(ctx context.Context, req UnlockRequest) ([]byte, error)
}
