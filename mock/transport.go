// Package mock provides mock implementations of harvest interfaces for testing.
package mock

import (
	"context"

	"github.com/fwojciec/harvest"
)

var _ harvest.Transport = (*Transport)(nil)

// Transport is a mock implementation of harvest.Transport.
type Transport struct {
	TriggerFn func(ctx context.Context, spec harvest.TriggerSpec) (string, error)
	ProbeFn   func(ctx context.Context, jobID string) (*harvest.ProbeOutcome, error)
	FetchFn   func(ctx context.Context, jobID string) ([]byte, error)
}

func (t *Transport) Trigger(ctx context.Context, spec harvest.TriggerSpec) (string, error) {
	return t.TriggerFn(ctx, spec)
}

func (t *Transport) Probe(ctx context.Context, jobID string) (*harvest.ProbeOutcome, error) {
	return t.ProbeFn(ctx, jobID)
}

func (t *Transport) Fetch(ctx context.Context, jobID string) ([]byte, error) {
	return t.FetchFn(ctx, jobID)
}

var _ harvest.Unlocker = (*Unlocker)(nil)

// Unlocker is a mock implementation of harvest.Unlocker.
type Unlocker struct {
	UnlockFn func(ctx context.Context, req harvest.UnlockRequest) ([]byte, error)
}

func (u *Unlocker) Unlock(ctx context.Context, req harvest.UnlockRequest) ([]byte, error) {
	return u.UnlockFn(ctx, req)
}
