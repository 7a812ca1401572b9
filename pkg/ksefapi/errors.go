package ksefapi

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCertificateNotFound is returned when the published certificate list has
// no entry tagged for token encryption. This is a remote-data problem, not a
// transient failure, so the attempt is not retried.
var ErrCertificateNotFound = errors.New("ksefapi: no certificate tagged " + UsageTokenEncryption)

// APIError is a non-success response from a handshake endpoint. The remote
// diagnostic body is carried verbatim.
type APIError struct {
	Operation  string // e.g. "challenge", "ksef-token", "redeem"
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("ksefapi: %s request failed with status %d", e.Operation, e.StatusCode)
	}
	return fmt.Sprintf("ksefapi: %s request failed with status %d: %s", e.Operation, e.StatusCode, body)
}

// AuthorizationError is a terminal negative authorization status. It is never
// retried; the remote description and details are surfaced to the caller.
type AuthorizationError struct {
	Code        int
	Description string
	Details     []string
}

func (e *AuthorizationError) Error() string {
	msg := fmt.Sprintf("ksefapi: authorization rejected with status %d", e.Code)
	if e.Description != "" {
		msg += ": " + e.Description
	}
	if len(e.Details) > 0 {
		msg += " (" + strings.Join(e.Details, "; ") + ")"
	}
	return msg
}
