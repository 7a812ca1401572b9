package ksefapi

import (
	"context"
	"net/http"
	"time"
)

// AuthorizationStatus performs a single status query for a pending handshake.
func (c *Client) AuthorizationStatus(ctx context.Context, grant Grant) (AuthorizationStatus, error) {
	resp, err := c.doJSON(
		ctx,
		http.MethodGet,
		"/auth/"+grant.ReferenceNumber,
		nil,
		grant.AuthenticationToken,
	)
	if err != nil {
		return AuthorizationStatus{}, err
	}

	var decoded statusResponse
	if err := decodeJSON(resp, &decoded, http.StatusOK, "authorization status"); err != nil {
		return AuthorizationStatus{}, err
	}

	return statusFromCode(decoded), nil
}

// WaitForAuthorization polls until the pending authorization reaches a
// terminal state. Pending (100) sleeps PollInterval and polls again with no
// attempt ceiling; the caller bounds the wait through ctx. Authorized (200)
// returns nil; any other code returns an AuthorizationError and is never
// retried.
func (c *Client) WaitForAuthorization(ctx context.Context, grant Grant) error {
	interval := c.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	for {
		status, err := c.AuthorizationStatus(ctx, grant)
		if err != nil {
			return err
		}

		switch status.State {
		case StateAuthorized:
			return nil
		case StateRejected:
			return &AuthorizationError{
				Code:        status.Code,
				Description: status.Description,
				Details:     status.Details,
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}
