// Package transactions is a REST client for the backend /transactions resource.
package transactions

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/bankdesk/bank-console/pkg/httpclient"
)

const (
	collectionPath = "/transactions"

	DefaultPage = 1
	DefaultSize = 10
)

// Client maps the four CRUD verbs onto the shared HTTP client.
// It adds no retries, caching or validation; errors reach the caller unchanged.
type Client struct {
	http httpclient.Client
}

// NewClient wraps an already configured HTTP client.
func NewClient(hc httpclient.Client) *Client {
	return &Client{http: hc}
}

type envelope[T any] struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data T      `json:"data"`
}

// List fetches one page of transactions. page and size are sent as given.
func (c *Client) List(ctx context.Context, page, size int) ([]Transaction, error) {
	return call[[]Transaction](ctx, c.http, httpclient.Request{
		Method: http.MethodGet,
		Path:   collectionPath,
		Query: map[string]string{
			"page": strconv.Itoa(page),
			"size": strconv.Itoa(size),
		},
	})
}

// ListDefault is List with page 1 and size 10.
func (c *Client) ListDefault(ctx context.Context) ([]Transaction, error) {
	return c.List(ctx, DefaultPage, DefaultSize)
}

// Create posts tx to the collection and returns the stored record.
func (c *Client) Create(ctx context.Context, tx *Transaction) (*Transaction, error) {
	return call[*Transaction](ctx, c.http, withBody(httpclient.Request{
		Method: http.MethodPost,
		Path:   collectionPath,
	}, tx))
}

// Update replaces the record identified by id. id is placed in the path verbatim.
func (c *Client) Update(ctx context.Context, id string, tx *Transaction) (*Transaction, error) {
	return call[*Transaction](ctx, c.http, withBody(httpclient.Request{
		Method: http.MethodPut,
		Path:   itemPath(id),
	}, tx))
}

// Delete removes the record identified by id.
func (c *Client) Delete(ctx context.Context, id string) (bool, error) {
	return call[bool](ctx, c.http, httpclient.Request{
		Method: http.MethodDelete,
		Path:   itemPath(id),
	})
}

func itemPath(id string) string {
	return collectionPath + "/" + id
}

// withBody attaches tx unless the caller passed nothing, in which case no body is sent.
func withBody(req httpclient.Request, tx *Transaction) httpclient.Request {
	if tx != nil {
		req.Body = tx
	}
	return req
}

func call[T any](ctx context.Context, client httpclient.Client, req httpclient.Request) (T, error) {
	var zero T

	resp, err := client.Do(ctx, req)
	if err != nil {
		return zero, err
	}

	body := resp.Body()
	if code := resp.StatusCode(); code < http.StatusOK || code >= http.StatusMultipleChoices {
		return zero, &StatusError{
			Method:     req.Method,
			Path:       req.Path,
			StatusCode: code,
			Body:       string(body),
		}
	}
	if len(body) == 0 {
		return zero, nil
	}

	var env envelope[T]
	if err := json.Unmarshal(body, &env); err != nil {
		return zero, &DecodeError{Method: req.Method, Path: req.Path, Err: err}
	}
	if env.Code != CodeSuccess {
		return zero, &APIError{Code: env.Code, Msg: env.Msg}
	}
	return env.Data, nil
}
