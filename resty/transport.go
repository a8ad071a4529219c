package resty

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/fwojciec/harvest"
	"github.com/go-resty/resty/v2"
)

// Ensure Client implements the domain transports at compile time.
var (
	_ harvest.Transport = (*Client)(nil)
	_ harvest.Unlocker  = (*Client)(nil)
)

// snapshotPrefix marks dataset snapshot ids; everything else is an async
// unlock response id. The two job families live on different endpoints
// but share the Transport contract, so routing happens on the id.
const snapshotPrefix = "s_"

// Trigger starts a remote job and returns its opaque id.
func (c *Client) Trigger(ctx context.Context, spec harvest.TriggerSpec) (string, error) {
	if err := spec.Validate(); err != nil {
		return "", err
	}

	switch spec.Kind {
	case harvest.KindUnlock:
		return c.triggerUnlock(ctx, spec)
	default:
		return c.triggerCollect(ctx, spec)
	}
}

func (c *Client) triggerUnlock(ctx context.Context, spec harvest.TriggerSpec) (string, error) {
	body := map[string]string{
		"zone": spec.Zone,
		"url":  spec.URL,
	}
	for k := range spec.Params {
		body[k] = spec.Params.Get(k)
	}

	var out struct {
		ResponseID string `json:"response_id"`
	}

	r, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		Post("/unlock/trigger")
	if err != nil {
		return "", harvest.Errorf(harvest.EUNAVAILABLE, "unlock trigger: %v", err)
	}
	if r.IsError() {
		return "", classify(r, "unlock trigger")
	}
	if out.ResponseID == "" {
		return "", harvest.Errorf(harvest.EINTERNAL, "unlock trigger: missing response_id")
	}
	return out.ResponseID, nil
}

func (c *Client) triggerCollect(ctx context.Context, spec harvest.TriggerSpec) (string, error) {
	req := c.http.R().
		SetContext(ctx).
		SetQueryParam("dataset_id", spec.DatasetID).
		SetBody(spec.Payload)
	for k := range spec.Params {
		req.SetQueryParam(k, spec.Params.Get(k))
	}

	var out struct {
		SnapshotID string `json:"snapshot_id"`
	}
	req.SetResult(&out)

	r, err := req.Post("/collect/trigger")
	if err != nil {
		return "", harvest.Errorf(harvest.EUNAVAILABLE, "collect trigger: %v", err)
	}
	if r.IsError() {
		return "", classify(r, "collect trigger")
	}
	if out.SnapshotID == "" {
		return "", harvest.Errorf(harvest.EINTERNAL, "collect trigger: missing snapshot_id")
	}
	return out.SnapshotID, nil
}

// Probe performs one readiness check for a triggered job.
func (c *Client) Probe(ctx context.Context, jobID string) (*harvest.ProbeOutcome, error) {
	path := "/unlock/progress/" + jobID
	if strings.HasPrefix(jobID, snapshotPrefix) {
		path = "/collect/progress/" + jobID
	}

	var out struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	}

	r, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get(path)
	if err != nil {
		return nil, harvest.Errorf(harvest.EUNAVAILABLE, "probe %s: %v", jobID, err)
	}
	if r.IsError() {
		return nil, classify(r, "probe "+jobID)
	}

	switch out.Status {
	case "ready":
		return &harvest.ProbeOutcome{State: harvest.ProbeReady}, nil
	case "failed", "error":
		return &harvest.ProbeOutcome{State: harvest.ProbeFailed, Message: out.Error}, nil
	case "scheduled", "building", "running", "pending":
		return &harvest.ProbeOutcome{State: harvest.ProbeNotReady}, nil
	default:
		return nil, harvest.Errorf(harvest.EINTERNAL, "probe %s: unknown status %q", jobID, out.Status)
	}
}

// Fetch downloads the final payload of a ready job.
func (c *Client) Fetch(ctx context.Context, jobID string) ([]byte, error) {
	req := c.http.R().SetContext(ctx)

	var path string
	if strings.HasPrefix(jobID, snapshotPrefix) {
		path = "/collect/snapshot/" + jobID
		req.SetQueryParam("format", "json")
	} else {
		path = "/unlock/result/" + jobID
	}

	r, err := req.Get(path)
	if err != nil {
		return nil, harvest.Errorf(harvest.EUNAVAILABLE, "fetch %s: %v", jobID, err)
	}
	if r.IsError() {
		return nil, classify(r, "fetch "+jobID)
	}
	return r.Body(), nil
}

// Unlock performs a synchronous unlock and returns the page body.
func (c *Client) Unlock(ctx context.Context, ur harvest.UnlockRequest) ([]byte, error) {
	if ur.URL == "" {
		return nil, harvest.Errorf(harvest.EINVALID, "unlock requires a URL")
	}
	if ur.Zone == "" {
		return nil, harvest.Errorf(harvest.EINVALID, "unlock requires a zone")
	}

	r, err := c.http.R().
		SetContext(ctx).
		SetBody(ur).
		Post("/unlock/request")
	if err != nil {
		return nil, harvest.Errorf(harvest.EUNAVAILABLE, "unlock %s: %v", ur.URL, err)
	}
	if r.IsError() {
		return nil, classify(r, "unlock "+ur.URL)
	}
	return r.Body(), nil
}

// classify maps a non-2xx response to a domain error code. 429 and 5xx
// are transient (EUNAVAILABLE) so the poller keeps going; auth and
// validation failures are permanent and abort immediately.
func classify(r *resty.Response, op string) error {
	msg := statusSummary(r)

	switch code := r.StatusCode(); {
	case code == 429 || code >= 500:
		return harvest.Errorf(harvest.EUNAVAILABLE, "%s: %s", op, msg)
	case code == 401 || code == 403:
		return harvest.Errorf(harvest.EUNAUTHORIZED, "%s: %s", op, msg)
	case code == 400 || code == 404 || code == 422:
		return harvest.Errorf(harvest.EINVALID, "%s: %s", op, msg)
	default:
		return harvest.Errorf(harvest.EINTERNAL, "%s: %s", op, msg)
	}
}

// unmarshalLoose decodes JSON without failing the caller on garbage
// bodies; error pages are not always JSON.
func unmarshalLoose(data []byte, v any) error {
	if len(data) == 0 {
		return json.Unmarshal([]byte("{}"), v)
	}
	return json.Unmarshal(data, v)
}
