// Package upstream fetches and normalizes race results from the provider.
package upstream

import "net/http"

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithBaseURL sets the root of the Ergast-compatible API.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithHTTPClient sets the HTTP client used for provider requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithConcurrency caps the number of parallel per-round requests.
func WithConcurrency(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.concurrency = n
		}
	}
}
