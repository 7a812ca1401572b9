package ksefapi

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// RedeemToken exchanges a completed authentication grant for an access/refresh
// token pair. Only call this after WaitForAuthorization reported success.
func (c *Client) RedeemToken(ctx context.Context, grant Grant) (TokenBundle, error) {
	return c.exchange(ctx, "/auth/token/redeem", grant.AuthenticationToken, "redeem")
}

// RefreshToken exchanges a refresh token for a new token pair without
// repeating the full handshake. The capability is part of the service API;
// whether renewal should use it instead of a fresh handshake is a policy
// decision left to the caller.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (TokenBundle, error) {
	return c.exchange(ctx, "/auth/token/refresh", refreshToken, "refresh")
}

func (c *Client) exchange(ctx context.Context, path, bearer, operation string) (TokenBundle, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, path, nil, bearer)
	if err != nil {
		return TokenBundle{}, err
	}

	var decoded tokenResponse
	if err := decodeJSON(resp, &decoded, http.StatusOK, operation); err != nil {
		return TokenBundle{}, err
	}

	validUntil, err := time.Parse(time.RFC3339, decoded.AccessToken.ValidUntil)
	if err != nil {
		return TokenBundle{}, fmt.Errorf("failed to parse validUntil %q: %w", decoded.AccessToken.ValidUntil, err)
	}

	return TokenBundle{
		AccessToken:  decoded.AccessToken.Token,
		RefreshToken: decoded.RefreshToken.Token,
		ValidUntil:   validUntil,
	}, nil
}
