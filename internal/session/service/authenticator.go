package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/ksef-tools/ksefauth/internal/session/domain"
	"github.com/ksef-tools/ksefauth/pkg/cryptox"
	"github.com/ksef-tools/ksefauth/pkg/idx"
	"github.com/ksef-tools/ksefauth/pkg/ksefapi"
)

// API is the slice of the KSeF client the authentication pipeline consumes.
// *ksefapi.Client satisfies it; tests substitute fakes.
type API interface {
	NewChallenge(ctx context.Context) (ksefapi.Challenge, error)
	ResolveEncryptionCertificate(ctx context.Context) (ksefapi.Certificate, error)
	SubmitEncryptedToken(ctx context.Context, challenge, nip, encryptedToken string) (ksefapi.Grant, error)
	WaitForAuthorization(ctx context.Context, grant ksefapi.Grant) error
	RedeemToken(ctx context.Context, grant ksefapi.Grant) (ksefapi.TokenBundle, error)
	RefreshToken(ctx context.Context, refreshToken string) (ksefapi.TokenBundle, error)
}

// Authenticator runs the full challenge handshake for one principal:
// challenge, certificate resolution, encrypted submission, authorization
// wait, token redemption. Every stage fails fast; nothing is persisted here.
type Authenticator struct {
	API    API
	Logger *slog.Logger
}

// Authenticate performs one complete handshake and returns a freshly issued
// session. The principal's secret only exists in plaintext for the lifetime
// of this call and is never logged.
func (a *Authenticator) Authenticate(ctx context.Context, principal domain.Principal) (domain.Session, error) {
	attempt := idx.New()
	log := a.logger().With("principal", principal.ID, "attempt_id", attempt.String())

	challenge, err := a.API.NewChallenge(ctx)
	if err != nil {
		return domain.Session{}, fmt.Errorf("challenge request failed: %w", err)
	}
	log.Debug("challenge issued", "challenge", challenge.Challenge)

	cert, err := a.API.ResolveEncryptionCertificate(ctx)
	if err != nil {
		return domain.Session{}, err
	}

	encrypted, err := encryptChallengeToken(principal.Secret, challenge.TimestampMs, cert.Certificate)
	if err != nil {
		return domain.Session{}, err
	}

	grant, err := a.API.SubmitEncryptedToken(ctx, challenge.Challenge, principal.NIP, encrypted)
	if err != nil {
		return domain.Session{}, err
	}
	log.Debug("handshake accepted", "reference", grant.ReferenceNumber)

	if err := a.API.WaitForAuthorization(ctx, grant); err != nil {
		return domain.Session{}, err
	}

	bundle, err := a.API.RedeemToken(ctx, grant)
	if err != nil {
		return domain.Session{}, err
	}
	log.Info("session issued", "reference", grant.ReferenceNumber, "valid_until", bundle.ValidUntil)

	return domain.Session{
		AccessToken:  bundle.AccessToken,
		RefreshToken: bundle.RefreshToken,
		ValidUntil:   bundle.ValidUntil,
	}, nil
}

// encryptChallengeToken builds the handshake plaintext and encrypts it with
// the service's published key. The plaintext is exactly
// "<secret>|<timestampMs>" with a decimal timestamp; field order and the pipe
// delimiter are a wire contract with the service.
func encryptChallengeToken(secret string, timestampMs int64, certMaterial string) (string, error) {
	pub, err := cryptox.ParseEncryptionKey(certMaterial)
	if err != nil {
		return "", err
	}

	plaintext := secret + "|" + strconv.FormatInt(timestampMs, 10)
	return cryptox.EncryptOAEP(pub, []byte(plaintext))
}

func (a *Authenticator) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}
