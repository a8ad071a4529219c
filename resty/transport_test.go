package resty_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/resty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, handler http.Handler) *resty.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return resty.NewClient("test-token-0123456789", resty.WithBaseURL(srv.URL), resty.WithRetryCount(0))
}

func TestClient_TriggerUnlock(t *testing.T) {
	t.Parallel()

	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/unlock/trigger", r.URL.Path)
		assert.Equal(t, "Bearer test-token-0123456789", r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "sdk_unlocker", body["zone"])
		assert.Equal(t, "https://example.com", body["url"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"response_id": "r_abc"})
	}))

	id, err := c.Trigger(context.Background(), harvest.TriggerSpec{
		Kind: harvest.KindUnlock,
		Zone: "sdk_unlocker",
		URL:  "https://example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "r_abc", id)
}

func TestClient_TriggerCollect(t *testing.T) {
	t.Parallel()

	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/collect/trigger", r.URL.Path)
		assert.Equal(t, "gd_l1viktl72bvl7bjuj0", r.URL.Query().Get("dataset_id"))
		assert.Equal(t, "true", r.URL.Query().Get("include_errors"))

		var inputs []map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&inputs))
		require.Len(t, inputs, 2)
		assert.Equal(t, "https://linkedin.com/in/a", inputs[0]["url"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"snapshot_id": "s_123"})
	}))

	spec := harvest.TriggerSpec{
		Kind:      harvest.KindDataset,
		DatasetID: "gd_l1viktl72bvl7bjuj0",
		Payload: []harvest.Input{
			{"url": "https://linkedin.com/in/a"},
			{"url": "https://linkedin.com/in/b"},
		},
	}
	spec.Params = map[string][]string{"include_errors": {"true"}}

	id, err := c.Trigger(context.Background(), spec)
	require.NoError(t, err)
	assert.Equal(t, "s_123", id)
}

func TestClient_TriggerValidatesSpec(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))

	_, err := c.Trigger(context.Background(), harvest.TriggerSpec{Kind: harvest.KindUnlock, Zone: "z"})
	assert.Equal(t, harvest.EINVALID, harvest.ErrorCode(err))
	assert.Zero(t, hits.Load())
}

func TestClient_Probe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		jobID     string
		wantPath  string
		status    string
		remoteErr string
		want      harvest.ProbeState
	}{
		{name: "SnapshotRunning", jobID: "s_123", wantPath: "/collect/progress/s_123", status: "running", want: harvest.ProbeNotReady},
		{name: "SnapshotBuilding", jobID: "s_123", wantPath: "/collect/progress/s_123", status: "building", want: harvest.ProbeNotReady},
		{name: "SnapshotReady", jobID: "s_123", wantPath: "/collect/progress/s_123", status: "ready", want: harvest.ProbeReady},
		{name: "SnapshotFailed", jobID: "s_123", wantPath: "/collect/progress/s_123", status: "failed", remoteErr: "crawl blocked", want: harvest.ProbeFailed},
		{name: "UnlockPending", jobID: "r_abc", wantPath: "/unlock/progress/r_abc", status: "pending", want: harvest.ProbeNotReady},
		{name: "UnlockReady", jobID: "r_abc", wantPath: "/unlock/progress/r_abc", status: "ready", want: harvest.ProbeReady},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, tt.wantPath, r.URL.Path)
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(map[string]string{"status": tt.status, "error": tt.remoteErr})
			}))

			outcome, err := c.Probe(context.Background(), tt.jobID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, outcome.State)
			if tt.remoteErr != "" {
				assert.Equal(t, tt.remoteErr, outcome.Message)
			}
		})
	}
}

func TestClient_ProbeUnknownStatus(t *testing.T) {
	t.Parallel()

	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "confused"})
	}))

	_, err := c.Probe(context.Background(), "s_123")
	assert.Equal(t, harvest.EINTERNAL, harvest.ErrorCode(err))
}

func TestClient_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("Snapshot", func(t *testing.T) {
		t.Parallel()

		c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/collect/snapshot/s_123", r.URL.Path)
			assert.Equal(t, "json", r.URL.Query().Get("format"))
			_, _ = w.Write([]byte(`[{"name":"a"}]`))
		}))

		data, err := c.Fetch(context.Background(), "s_123")
		require.NoError(t, err)
		assert.JSONEq(t, `[{"name":"a"}]`, string(data))
	})

	t.Run("UnlockResult", func(t *testing.T) {
		t.Parallel()

		c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/unlock/result/r_abc", r.URL.Path)
			_, _ = w.Write([]byte("<html>page</html>"))
		}))

		data, err := c.Fetch(context.Background(), "r_abc")
		require.NoError(t, err)
		assert.Equal(t, "<html>page</html>", string(data))
	})
}

func TestClient_Unlock(t *testing.T) {
	t.Parallel()

	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/unlock/request", r.URL.Path)

		var req harvest.UnlockRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "sdk_unlocker", req.Zone)
		assert.Equal(t, "us", req.Country)

		_, _ = w.Write([]byte("<html>unlocked</html>"))
	}))

	body, err := c.Unlock(context.Background(), harvest.UnlockRequest{
		Zone:    "sdk_unlocker",
		URL:     "https://example.com",
		Country: "us",
	})
	require.NoError(t, err)
	assert.Equal(t, "<html>unlocked</html>", string(body))
}

func TestClient_ErrorClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status int
		want   string
	}{
		{status: http.StatusTooManyRequests, want: harvest.EUNAVAILABLE},
		{status: http.StatusServiceUnavailable, want: harvest.EUNAVAILABLE},
		{status: http.StatusBadGateway, want: harvest.EUNAVAILABLE},
		{status: http.StatusUnauthorized, want: harvest.EUNAUTHORIZED},
		{status: http.StatusForbidden, want: harvest.EUNAUTHORIZED},
		{status: http.StatusBadRequest, want: harvest.EINVALID},
		{status: http.StatusNotFound, want: harvest.EINVALID},
		{status: http.StatusUnprocessableEntity, want: harvest.EINVALID},
		{status: http.StatusTeapot, want: harvest.EINTERNAL},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			t.Parallel()

			c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "nope"})
			}))

			_, err := c.Probe(context.Background(), "s_123")
			assert.Equal(t, tt.want, harvest.ErrorCode(err))
			assert.Contains(t, harvest.ErrorMessage(err), "nope")
		})
	}
}

func TestClient_RetriesTransientStatuses(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
	}))
	t.Cleanup(srv.Close)

	c := resty.NewClient("test-token-0123456789", resty.WithBaseURL(srv.URL))

	outcome, err := c.Probe(context.Background(), "s_123")
	require.NoError(t, err)
	assert.Equal(t, harvest.ProbeReady, outcome.State)
	assert.Equal(t, int64(3), hits.Load())
}
