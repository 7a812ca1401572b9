// Package ksefapi is a client for the KSeF authentication API. It covers the
// encrypted challenge handshake, asynchronous authorization polling and the
// access/refresh token exchange. Session caching and renewal policy live in
// the caller; this package only speaks the wire protocol.
package ksefapi

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultPollInterval is the baseline sleep between authorization
	// status queries.
	DefaultPollInterval = time.Second

	// DefaultTimeout bounds a single HTTP round-trip, not the whole
	// handshake; the handshake is bounded by the caller's context.
	DefaultTimeout = 30 * time.Second
)

// Client is a client for the KSeF authentication service.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// PollInterval is the sleep between authorization status polls.
	PollInterval time.Duration

	// Limiter paces outbound calls so a batch refresh over many principals
	// does not hammer the remote service. Nil disables pacing.
	Limiter *rate.Limiter
}

// NewClient creates a client with default timeout, poll interval and a
// conservative outbound rate limit.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		PollInterval: DefaultPollInterval,
		Limiter:      rate.NewLimiter(rate.Limit(10), 10),
	}
}
