// Package linkcheck verifies that a set of URLs respond, with bounded concurrency
// and a client-side rate limit.
package linkcheck

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Result is the outcome of checking one URL. Status is 0 when the request failed.
type Result struct {
	URL    string
	Status int
	Err    error
}

// OK reports whether the URL answered with a non-error status.
func (r Result) OK() bool {
	return r.Err == nil && r.Status > 0 && r.Status < 400
}

// Checker checks URLs.
type Checker struct {
	hc      *http.Client
	rl      *rate.Limiter
	workers int
	observe func(status int)
}

// Option configures a Checker.
type Option func(*Checker)

// WithHTTPClient replaces the default client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Checker) { c.hc = hc }
}

// WithWorkers bounds the number of in-flight requests.
func WithWorkers(n int) Option {
	return func(c *Checker) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithObserver is called with the status of every finished check.
func WithObserver(fn func(status int)) Option {
	return func(c *Checker) { c.observe = fn }
}

// New returns a Checker allowing rps requests per second.
func New(rps int, opts ...Option) *Checker {
	if rps <= 0 {
		rps = 5
	}
	c := &Checker{
		hc:      &http.Client{Timeout: 20 * time.Second},
		rl:      rate.NewLimiter(rate.Limit(rps), rps),
		workers: 4,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check requests every URL and returns results in input order. Per-URL failures are
// reported in Result.Err; the returned error is non-nil only if ctx ends first.
func (c *Checker) Check(ctx context.Context, urls []string) ([]Result, error) {
	results := make([]Result, len(urls))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	for i, u := range urls {
		i, u := i, u
		g.Go(func() error {
			if err := c.rl.Wait(ctx); err != nil {
				return err
			}
			status, err := c.check(ctx, u)
			results[i] = Result{URL: u, Status: status, Err: err}
			if c.observe != nil {
				c.observe(status)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func (c *Checker) check(ctx context.Context, url string) (int, error) {
	status, err := c.do(ctx, http.MethodHead, url)
	if err != nil {
		return 0, err
	}
	// Some servers refuse HEAD.
	if status == http.StatusMethodNotAllowed || status == http.StatusNotImplemented {
		return c.do(ctx, http.MethodGet, url)
	}
	return status, nil
}

func (c *Checker) do(ctx context.Context, method, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "ecohotels-e2e/1.0 linkcheck")

	resp, err := c.hc.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	return resp.StatusCode, nil
}
