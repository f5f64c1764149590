// Package fetch retrieves page documents over HTTP the way the router needs
// them: same-origin only, without credentials, at high priority.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/BrandonKowalski/birdhouse/pkg/birdhouse/constants"
)

// ErrRedirectOrigin is returned when a response redirects outside the
// origin of the original request.
var ErrRedirectOrigin = errors.New("fetch: redirect leaves origin")

// Fetcher retrieves a URL. *Client is the production implementation.
type Fetcher interface {
	Fetch(ctx context.Context, u *url.URL) (*Response, error)
}

// Response is a fully read document response.
type Response struct {
	Status int
	Header http.Header
	URL    *url.URL
	Body   []byte
}

// Text returns the body as a string.
func (r *Response) Text() string {
	return string(r.Body)
}

// Client fetches documents. The zero value is not usable; use New.
type Client struct {
	http *http.Client
}

// Options configures a Client.
type Options struct {
	Timeout   time.Duration     // Whole-request timeout (default: constants.DefaultFetchTimeout)
	Transport http.RoundTripper // Optional transport override, mainly for tests
}

// New creates a Client with no cookie jar and a redirect policy that refuses
// to leave the request's origin.
func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = constants.DefaultFetchTimeout
	}

	return &Client{
		http: &http.Client{
			Timeout:   timeout,
			Transport: opts.Transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return errors.New("fetch: too many redirects")
				}
				if !SameOrigin(req.URL, via[0].URL) {
					return ErrRedirectOrigin
				}
				return nil
			},
		},
	}
}

// Fetch performs a GET for u. Cancelling ctx aborts the request. Any status
// code is returned as a Response; only transport failures are errors.
func (c *Client) Fetch(ctx context.Context, u *url.URL) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	req.Header.Set("Accept", "text/html")
	req.Header.Set("Priority", "u=0")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", u, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: read body: %w", u, err)
	}

	return &Response{
		Status: resp.StatusCode,
		Header: resp.Header,
		URL:    resp.Request.URL,
		Body:   body,
	}, nil
}

// Origin returns the scheme://host[:port] part of u.
func Origin(u *url.URL) string {
	return u.Scheme + "://" + u.Host
}

// SameOrigin reports whether a and b share scheme and host.
func SameOrigin(a, b *url.URL) bool {
	return Origin(a) == Origin(b)
}
