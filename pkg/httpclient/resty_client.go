package httpclient

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	// DefaultBaseURL is the origin of the transactions backend.
	DefaultBaseURL = "http://localhost:8080"
	// DefaultTimeout bounds every request issued through the shared client.
	DefaultTimeout = 5 * time.Second
)

// Options configures the shared client. Zero values fall back to the defaults.
type Options struct {
	BaseURL string
	Timeout time.Duration
}

// RestyClient adapts resty.Client to the httpclient.Client interface.
type RestyClient struct {
	client  *resty.Client
	baseURL string
	timeout time.Duration
}

// New creates a RestyClient bound to a base URL and a request timeout.
func New(opts Options) *RestyClient {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := newRestyBaseClient(timeout)
	c.SetBaseURL(baseURL)
	return &RestyClient{client: c, baseURL: baseURL, timeout: timeout}
}

// NewRestyHTTPClient exposes a configured resty.Client for callers needing custom verbs.
func NewRestyHTTPClient(timeout time.Duration) *resty.Client {
	return newRestyBaseClient(timeout)
}

// newRestyBaseClient creates a new resty.Client with the specified timeout and no retries.
func newRestyBaseClient(timeout time.Duration) *resty.Client {
	c := resty.New()
	c.SetTimeout(timeout)
	c.SetRetryCount(0)
	return c
}

// BaseURL returns the origin every relative path is resolved against.
func (r *RestyClient) BaseURL() string { return r.baseURL }

// Timeout returns the per-request timeout.
func (r *RestyClient) Timeout() time.Duration { return r.timeout }

// Do performs a single HTTP request. Transport errors are returned as resty reports them.
func (r *RestyClient) Do(ctx context.Context, req Request) (Response, error) {
	rr := r.client.R().SetContext(ctx)
	if len(req.Query) > 0 {
		rr.SetQueryParams(req.Query)
	}
	if len(req.Headers) > 0 {
		rr.SetHeaders(req.Headers)
	}
	if req.Body != nil {
		rr.SetHeader("Content-Type", "application/json")
		rr.SetBody(req.Body)
	}

	resp, err := rr.Execute(req.Method, req.Path)
	if err != nil {
		return nil, err
	}
	return &restyResponseAdapter{resp: resp}, nil
}

// IsTimeout reports whether err was caused by the request deadline passing.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// restyResponseAdapter adapts resty.Response to the httpclient.Response interface.
type restyResponseAdapter struct {
	resp *resty.Response
}

func (r *restyResponseAdapter) Body() []byte    { return r.resp.Body() }
func (r *restyResponseAdapter) StatusCode() int { return r.resp.StatusCode() }
