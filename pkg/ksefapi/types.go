package ksefapi

import "time"

// UsageTokenEncryption tags the published certificate that must be used to
// encrypt the KSeF token during the handshake.
const UsageTokenEncryption = "KsefTokenEncryption"

// Challenge is the server-issued handshake challenge. It lives for a single
// handshake; the timestamp comes from the server clock and is echoed back
// inside the encrypted token (wire contract).
type Challenge struct {
	Challenge   string `json:"challenge"`
	TimestampMs int64  `json:"timestampMs"`
}

// Certificate is one entry of the published certificate list. Certificates
// are fetched fresh for every handshake; the service may rotate them at any
// time.
type Certificate struct {
	Usage       []string `json:"usage"`
	Certificate string   `json:"certificate"`
}

// ContextIdentifier names the principal the handshake authenticates.
type ContextIdentifier struct {
	Type  string `json:"type"` // always "Nip"
	Value string `json:"value"`
}

// authRequest is the body of the handshake submission.
type authRequest struct {
	Challenge         string            `json:"challenge"`
	ContextIdentifier ContextIdentifier `json:"contextIdentifier"`
	EncryptedToken    string            `json:"encryptedToken"`
}

// Grant is the provisional result of an accepted handshake: a correlation
// reference plus a short-lived bearer used only to poll authorization status
// and redeem the final tokens. Grants are never persisted.
type Grant struct {
	ReferenceNumber     string
	AuthenticationToken string
}

type authResponse struct {
	AuthenticationToken struct {
		Token string `json:"token"`
	} `json:"authenticationToken"`
	ReferenceNumber string `json:"referenceNumber"`
}

// TokenBundle is the redeemed access/refresh token pair.
type TokenBundle struct {
	AccessToken  string
	RefreshToken string
	ValidUntil   time.Time
}

type tokenResponse struct {
	AccessToken struct {
		Token      string `json:"token"`
		ValidUntil string `json:"validUntil"`
	} `json:"accessToken"`
	RefreshToken struct {
		Token string `json:"token"`
	} `json:"refreshToken"`
}

type statusResponse struct {
	Status struct {
		Code        int      `json:"code"`
		Description string   `json:"description"`
		Details     []string `json:"details"`
	} `json:"status"`
}

// AuthorizationState is the closed set of states the authorization poll can
// observe.
type AuthorizationState int

const (
	StatePending AuthorizationState = iota
	StateAuthorized
	StateRejected
)

func (s AuthorizationState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateAuthorized:
		return "authorized"
	default:
		return "rejected"
	}
}

// AuthorizationStatus is one observation of the pending authorization.
type AuthorizationStatus struct {
	State       AuthorizationState
	Code        int
	Description string
	Details     []string
}

// statusFromCode maps the remote status code onto the closed state set:
// 100 is pending, 200 is authorized, everything else is a terminal rejection.
func statusFromCode(resp statusResponse) AuthorizationStatus {
	st := AuthorizationStatus{
		Code:        resp.Status.Code,
		Description: resp.Status.Description,
		Details:     resp.Status.Details,
	}
	switch resp.Status.Code {
	case 100:
		st.State = StatePending
	case 200:
		st.State = StateAuthorized
	default:
		st.State = StateRejected
	}
	return st
}
