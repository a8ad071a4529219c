package scrape_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/mock"
	"github.com/fwojciec/harvest/scrape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPoll() harvest.PollConfig {
	return harvest.PollConfig{Interval: 5 * time.Millisecond, Timeout: 200 * time.Millisecond}
}

func unlockSpec() harvest.TriggerSpec {
	return harvest.TriggerSpec{Kind: harvest.KindUnlock, Zone: "unlocker", URL: "https://example.com"}
}

func TestTriggerJob(t *testing.T) {
	t.Parallel()

	t.Run("OK", func(t *testing.T) {
		t.Parallel()

		var triggers atomic.Int64
		transport := &mock.Transport{
			TriggerFn: func(_ context.Context, spec harvest.TriggerSpec) (string, error) {
				triggers.Add(1)
				assert.Equal(t, "https://example.com", spec.URL)
				return "j_abc123", nil
			},
		}

		h, err := scrape.TriggerJob(context.Background(), transport, unlockSpec(), fastPoll())
		require.NoError(t, err)
		assert.Equal(t, "j_abc123", h.ID())
		assert.Equal(t, harvest.JobTriggered, h.State())
		assert.Equal(t, int64(1), triggers.Load())
	})

	t.Run("InvalidSpec", func(t *testing.T) {
		t.Parallel()

		transport := &mock.Transport{
			TriggerFn: func(context.Context, harvest.TriggerSpec) (string, error) {
				t.Fatal("trigger must not be called for an invalid spec")
				return "", nil
			},
		}

		_, err := scrape.TriggerJob(context.Background(), transport, harvest.TriggerSpec{Kind: harvest.KindUnlock, Zone: "z"}, fastPoll())
		assert.Equal(t, harvest.EINVALID, harvest.ErrorCode(err))
	})

	t.Run("InvalidPollConfig", func(t *testing.T) {
		t.Parallel()

		transport := &mock.Transport{
			TriggerFn: func(context.Context, harvest.TriggerSpec) (string, error) {
				t.Fatal("trigger must not be called for an invalid poll config")
				return "", nil
			},
		}

		_, err := scrape.TriggerJob(context.Background(), transport, unlockSpec(), harvest.PollConfig{Interval: -1, Timeout: time.Second})
		assert.Equal(t, harvest.EINVALID, harvest.ErrorCode(err))
	})
}

func TestHandle_WaitCachesTerminalResult(t *testing.T) {
	t.Parallel()

	var probes atomic.Int64
	transport := &mock.Transport{
		TriggerFn: func(context.Context, harvest.TriggerSpec) (string, error) { return "j_1", nil },
		ProbeFn: func(_ context.Context, jobID string) (*harvest.ProbeOutcome, error) {
			assert.Equal(t, "j_1", jobID)
			if probes.Add(1) >= 2 {
				return &harvest.ProbeOutcome{State: harvest.ProbeReady, Payload: []byte("body")}, nil
			}
			return &harvest.ProbeOutcome{State: harvest.ProbeNotReady}, nil
		},
	}

	h, err := scrape.TriggerJob(context.Background(), transport, unlockSpec(), fastPoll())
	require.NoError(t, err)

	res := h.Wait(context.Background())
	require.Equal(t, harvest.StatusReady, res.Status)
	assert.Equal(t, []byte("body"), res.Payload)
	assert.Equal(t, harvest.JobReady, h.State())

	// A second wait returns the cached result without touching the transport.
	before := probes.Load()
	res2 := h.Wait(context.Background())
	assert.Equal(t, res, res2)
	assert.Equal(t, before, probes.Load(), "wait on a terminal handle must not probe again")
}

func TestHandle_WaitAfterCancelResumes(t *testing.T) {
	t.Parallel()

	var probes atomic.Int64
	transport := &mock.Transport{
		TriggerFn: func(context.Context, harvest.TriggerSpec) (string, error) { return "j_1", nil },
		ProbeFn: func(context.Context, string) (*harvest.ProbeOutcome, error) {
			if probes.Add(1) >= 3 {
				return &harvest.ProbeOutcome{State: harvest.ProbeReady, Payload: []byte("late")}, nil
			}
			return &harvest.ProbeOutcome{State: harvest.ProbeNotReady}, nil
		},
	}

	h, err := scrape.TriggerJob(context.Background(), transport, unlockSpec(), fastPoll())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 12*time.Millisecond)
	defer cancel()
	res := h.Wait(ctx)
	assert.Equal(t, harvest.StatusCancelled, res.Status)
	assert.Equal(t, harvest.JobPolling, h.State(), "cancellation is not terminal")

	res = h.Wait(context.Background())
	require.Equal(t, harvest.StatusReady, res.Status)
	assert.Equal(t, []byte("late"), res.Payload)
}

func TestHandle_WaitForRejectsInvalidTimeout(t *testing.T) {
	t.Parallel()

	var probes atomic.Int64
	transport := &mock.Transport{
		TriggerFn: func(context.Context, harvest.TriggerSpec) (string, error) { return "j_1", nil },
		ProbeFn: func(context.Context, string) (*harvest.ProbeOutcome, error) {
			probes.Add(1)
			return &harvest.ProbeOutcome{State: harvest.ProbeReady, Payload: []byte("body")}, nil
		},
	}

	h, err := scrape.TriggerJob(context.Background(), transport, unlockSpec(), fastPoll())
	require.NoError(t, err)

	res := h.WaitFor(context.Background(), 0)
	assert.Equal(t, harvest.StatusFailed, res.Status)
	assert.Equal(t, harvest.EINVALID, harvest.ErrorCode(res.Err))
	assert.Zero(t, probes.Load(), "a rejected timeout must not probe")
	assert.False(t, h.State().Terminal(), "a caller argument error must not finish the job")

	// The handle is still usable with a valid timeout.
	res = h.Wait(context.Background())
	require.Equal(t, harvest.StatusReady, res.Status)
	assert.Equal(t, []byte("body"), res.Payload)
}

func TestHandle_TimedOutIsTerminal(t *testing.T) {
	t.Parallel()

	var probes atomic.Int64
	transport := &mock.Transport{
		TriggerFn: func(context.Context, harvest.TriggerSpec) (string, error) { return "j_1", nil },
		ProbeFn: func(context.Context, string) (*harvest.ProbeOutcome, error) {
			probes.Add(1)
			return &harvest.ProbeOutcome{State: harvest.ProbeNotReady}, nil
		},
	}

	h, err := scrape.TriggerJob(context.Background(), transport, unlockSpec(), harvest.PollConfig{
		Interval: 5 * time.Millisecond,
		Timeout:  20 * time.Millisecond,
	})
	require.NoError(t, err)

	res := h.Wait(context.Background())
	require.Equal(t, harvest.StatusTimedOut, res.Status)
	assert.Equal(t, harvest.JobTimedOut, h.State())

	before := probes.Load()
	res2 := h.Wait(context.Background())
	assert.Equal(t, harvest.StatusTimedOut, res2.Status)
	assert.Equal(t, before, probes.Load())
}

func TestHandle_FetchBeforeReady(t *testing.T) {
	t.Parallel()

	var fetches atomic.Int64
	transport := &mock.Transport{
		TriggerFn: func(context.Context, harvest.TriggerSpec) (string, error) { return "j_1", nil },
		FetchFn: func(context.Context, string) ([]byte, error) {
			fetches.Add(1)
			return nil, nil
		},
	}

	h, err := scrape.TriggerJob(context.Background(), transport, unlockSpec(), fastPoll())
	require.NoError(t, err)

	_, err = h.Fetch(context.Background())
	assert.Equal(t, harvest.ENOTREADY, harvest.ErrorCode(err))
	assert.Zero(t, fetches.Load(), "fetch before ready must not hit the transport")
}

func TestHandle_FetchAfterReady(t *testing.T) {
	t.Parallel()

	var fetches atomic.Int64
	transport := &mock.Transport{
		TriggerFn: func(context.Context, harvest.TriggerSpec) (string, error) { return "s_snap1", nil },
		ProbeFn: func(context.Context, string) (*harvest.ProbeOutcome, error) {
			return &harvest.ProbeOutcome{State: harvest.ProbeReady}, nil
		},
		FetchFn: func(_ context.Context, jobID string) ([]byte, error) {
			fetches.Add(1)
			assert.Equal(t, "s_snap1", jobID)
			return []byte(`{"rows":2}`), nil
		},
	}

	h, err := scrape.TriggerJob(context.Background(), transport, unlockSpec(), fastPoll())
	require.NoError(t, err)
	require.Equal(t, harvest.StatusReady, h.Wait(context.Background()).Status)

	data, err := h.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"rows":2}`), data)
	assert.Equal(t, int64(1), fetches.Load())
}

func TestResume(t *testing.T) {
	t.Parallel()

	transport := &mock.Transport{
		ProbeFn: func(_ context.Context, jobID string) (*harvest.ProbeOutcome, error) {
			assert.Equal(t, "s_existing", jobID)
			return &harvest.ProbeOutcome{State: harvest.ProbeReady, Payload: []byte("resumed")}, nil
		},
	}

	h := scrape.Resume(transport, "s_existing", fastPoll())
	assert.Equal(t, "s_existing", h.ID())

	res := h.Wait(context.Background())
	require.Equal(t, harvest.StatusReady, res.Status)
	assert.Equal(t, []byte("resumed"), res.Payload)
}
