// Package slog provides logging decorators for the domain interfaces.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/harvest"
	"github.com/google/uuid"
)

// Ensure LoggingTransport implements harvest.Transport.
var _ harvest.Transport = (*LoggingTransport)(nil)

// LoggingTransport wraps a Transport with structured logging. Each
// triggered job gets a correlation id so its probes and fetch can be
// grepped out of interleaved batch output.
type LoggingTransport struct {
	next   harvest.Transport
	logger *slog.Logger
}

// NewLoggingTransport creates a new LoggingTransport.
func NewLoggingTransport(next harvest.Transport, logger *slog.Logger) *LoggingTransport {
	return &LoggingTransport{next: next, logger: logger}
}

// Trigger starts a remote job and logs the outcome.
func (t *LoggingTransport) Trigger(ctx context.Context, spec harvest.TriggerSpec) (string, error) {
	begin := time.Now()
	corr := uuid.NewString()

	jobID, err := t.next.Trigger(ctx, spec)
	if err != nil {
		t.logger.Error("trigger",
			"corr", corr,
			"kind", string(spec.Kind),
			"duration", time.Since(begin),
			"err", err,
		)
		return "", err
	}

	t.logger.Info("trigger",
		"corr", corr,
		"kind", string(spec.Kind),
		"job_id", jobID,
		"duration", time.Since(begin),
	)
	return jobID, nil
}

// Probe checks job readiness and logs the observed state at debug level;
// a long poll produces many probes, so anything louder drowns the log.
func (t *LoggingTransport) Probe(ctx context.Context, jobID string) (*harvest.ProbeOutcome, error) {
	begin := time.Now()

	outcome, err := t.next.Probe(ctx, jobID)
	if err != nil {
		level := slog.LevelError
		if harvest.IsTransient(err) {
			level = slog.LevelDebug
		}
		t.logger.Log(ctx, level, "probe",
			"job_id", jobID,
			"duration", time.Since(begin),
			"err", err,
		)
		return nil, err
	}

	t.logger.Debug("probe",
		"job_id", jobID,
		"state", string(outcome.State),
		"duration", time.Since(begin),
	)
	return outcome, nil
}

// Fetch downloads the job payload and logs its size.
func (t *LoggingTransport) Fetch(ctx context.Context, jobID string) ([]byte, error) {
	begin := time.Now()

	data, err := t.next.Fetch(ctx, jobID)
	if err != nil {
		t.logger.Error("fetch",
			"job_id", jobID,
			"duration", time.Since(begin),
			"err", err,
		)
		return nil, err
	}

	t.logger.Info("fetch",
		"job_id", jobID,
		"bytes", len(data),
		"duration", time.Since(begin),
	)
	return data, nil
}

// Ensure LoggingUnlocker implements harvest.Unlocker.
var _ harvest.Unlocker = (*LoggingUnlocker)(nil)

// LoggingUnlocker wraps an Unlocker with structured logging.
type LoggingUnlocker struct {
	next   harvest.Unlocker
	logger *slog.Logger
}

// NewLoggingUnlocker creates a new LoggingUnlocker.
func NewLoggingUnlocker(next harvest.Unlocker, logger *slog.Logger) *LoggingUnlocker {
	return &LoggingUnlocker{next: next, logger: logger}
}

// Unlock performs a synchronous unlock and logs the outcome.
func (u *LoggingUnlocker) Unlock(ctx context.Context, req harvest.UnlockRequest) ([]byte, error) {
	begin := time.Now()

	body, err := u.next.Unlock(ctx, req)
	if err != nil {
		u.logger.Error("unlock",
			"url", req.URL,
			"zone", req.Zone,
			"duration", time.Since(begin),
			"err", err,
		)
		return nil, err
	}

	u.logger.Info("unlock",
		"url", req.URL,
		"zone", req.Zone,
		"bytes", len(body),
		"duration", time.Since(begin),
	)
	return body, nil
}
