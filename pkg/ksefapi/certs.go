package ksefapi

import (
	"context"
	"net/http"
	"slices"

	"github.com/ksef-tools/ksefauth/pkg/cryptox"
)

// Certificates fetches the currently published public-key certificate list.
func (c *Client) Certificates(ctx context.Context) ([]Certificate, error) {
	resp, err := c.doJSON(ctx, http.MethodGet, "/security/public-key-certificates", nil, "")
	if err != nil {
		return nil, err
	}

	var certs []Certificate
	if err := decodeJSON(resp, &certs, http.StatusOK, "certificates"); err != nil {
		return nil, err
	}
	return certs, nil
}

// ResolveEncryptionCertificate fetches the certificate list and returns the
// first entry tagged for token encryption, normalized to PEM armor. The
// published key set is assumed stable within one handshake, so a miss is
// ErrCertificateNotFound rather than a retry.
func (c *Client) ResolveEncryptionCertificate(ctx context.Context) (Certificate, error) {
	certs, err := c.Certificates(ctx)
	if err != nil {
		return Certificate{}, err
	}

	for _, cert := range certs {
		if slices.Contains(cert.Usage, UsageTokenEncryption) {
			cert.Certificate = cryptox.NormalizeCertificatePEM(cert.Certificate)
			return cert, nil
		}
	}

	return Certificate{}, ErrCertificateNotFound
}
