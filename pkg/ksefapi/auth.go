package ksefapi

import (
	"context"
	"net/http"
)

// NewChallenge requests a fresh handshake challenge from the service.
func (c *Client) NewChallenge(ctx context.Context) (Challenge, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/auth/challenge", nil, "")
	if err != nil {
		return Challenge{}, err
	}

	var challenge Challenge
	if err := decodeJSON(resp, &challenge, http.StatusOK, "challenge"); err != nil {
		return Challenge{}, err
	}
	return challenge, nil
}

// SubmitEncryptedToken submits the encrypted challenge answer for the given
// NIP. The handshake endpoint signals acceptance only with 202; any other
// status is a protocol rejection and fatal for this attempt.
func (c *Client) SubmitEncryptedToken(
	ctx context.Context,
	challenge, nip, encryptedToken string,
) (Grant, error) {
	body := authRequest{
		Challenge: challenge,
		ContextIdentifier: ContextIdentifier{
			Type:  "Nip",
			Value: nip,
		},
		EncryptedToken: encryptedToken,
	}

	resp, err := c.doJSON(ctx, http.MethodPost, "/auth/ksef-token", body, "")
	if err != nil {
		return Grant{}, err
	}

	var decoded authResponse
	if err := decodeJSON(resp, &decoded, http.StatusAccepted, "ksef-token"); err != nil {
		return Grant{}, err
	}

	return Grant{
		ReferenceNumber:     decoded.ReferenceNumber,
		AuthenticationToken: decoded.AuthenticationToken.Token,
	}, nil
}
