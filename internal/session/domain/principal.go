package domain

// Principal is one authenticable KSeF identity. Principals are loaded from the
// secrets file at startup and are read-only afterwards; the ID doubles as the
// session-store key.
type Principal struct {
	ID     string
	Secret string // pre-shared KSeF token used to answer the challenge
	NIP    string // tax identifier sent as the handshake context
}
