// internal/common/http/client.go
package http

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client is the shared outbound JSON client for third-party providers.
// It never retries; callers see exactly one attempt per request.
type Client struct {
	rc *resty.Client
}

// Response is the subset of the provider response callers inspect.
type Response struct {
	StatusCode int
	Body       []byte
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	rc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout).
		SetRetryCount(0)

	return &Client{rc: rc}
}

// Get issues a GET with query parameters.
func (c *Client) Get(ctx context.Context, path string, params map[string]string) (*Response, error) {
	resp, err := c.rc.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(path)
	if err != nil {
		return nil, err
	}
	return &Response{StatusCode: resp.StatusCode(), Body: resp.Body()}, nil
}

// PostJSON issues a POST with a JSON body and query parameters.
func (c *Client) PostJSON(ctx context.Context, path string, params map[string]string, body interface{}) (*Response, error) {
	resp, err := c.rc.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetQueryParams(params).
		SetBody(body).
		Post(path)
	if err != nil {
		return nil, err
	}
	return &Response{StatusCode: resp.StatusCode(), Body: resp.Body()}, nil
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= http.StatusOK && r.StatusCode < http.StatusMultipleChoices
}

// IsTimeout reports whether err came from a deadline or client timeout.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if stderrors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var urlErr *url.Error
	return stderrors.As(err, &urlErr) && urlErr.Timeout()
}
