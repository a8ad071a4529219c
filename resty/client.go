// Package resty implements the remote HTTP API transports using the
// go-resty client.
package resty

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultBaseURL is the production API endpoint.
const DefaultBaseURL = "https://api.harvestdata.io"

const (
	userAgent      = "harvest-go-client/1.0"
	requestTimeout = 30 * time.Second
	retryCount     = 3
	retryWait      = 500 * time.Millisecond
	retryMaxWait   = 5 * time.Second
)

// retryStatuses are the HTTP statuses worth retrying at the request
// level. Everything else either succeeded or will fail the same way again.
var retryStatuses = map[int]bool{
	429: true,
	500: true,
	502: true,
	503: true,
	504: true,
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint, e.g. for a regional gateway or
// a test server.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.http.SetBaseURL(u) }
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.SetTimeout(d) }
}

// WithRetryCount overrides the request retry count. Zero disables
// request-level retries; the poller still rides out transient errors.
func WithRetryCount(n int) Option {
	return func(c *Client) { c.http.SetRetryCount(n) }
}

// Client talks to the remote collection API. It implements both
// harvest.Transport (asynchronous jobs) and harvest.Unlocker (synchronous
// unlocking) and is safe for concurrent use.
type Client struct {
	http *resty.Client
}

// NewClient creates a Client authenticated with the given API token.
func NewClient(token string, opts ...Option) *Client {
	http := resty.New().
		SetBaseURL(DefaultBaseURL).
		SetAuthToken(token).
		SetHeader("User-Agent", userAgent).
		SetTimeout(requestTimeout).
		SetRetryCount(retryCount).
		SetRetryWaitTime(retryWait).
		SetRetryMaxWaitTime(retryMaxWait).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return retryStatuses[r.StatusCode()]
		})

	c := &Client{http: http}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// apiError is the error envelope the API wraps non-2xx responses in.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (e apiError) text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

func statusSummary(r *resty.Response) string {
	var env apiError
	if err := unmarshalLoose(r.Body(), &env); err == nil && env.text() != "" {
		return env.text()
	}
	return fmt.Sprintf("HTTP %d", r.StatusCode())
}
