package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ksef-tools/ksefauth/internal/session/domain"
	"github.com/ksef-tools/ksefauth/internal/session/store"
)

const (
	// DefaultExpiryLeeway renews sessions slightly before ValidUntil so a
	// caller never receives a token that expires mid-request.
	DefaultExpiryLeeway = 30 * time.Second

	// DefaultMaxConcurrent bounds how many principals refresh in parallel.
	DefaultMaxConcurrent = 3
)

// Result is the per-principal outcome of a batch refresh.
type Result struct {
	Session domain.Session
	Err     error
}

// Manager serves valid sessions for a set of principals, re-authenticating
// through the handshake pipeline when the cached session is missing or
// expired. Renewal always re-runs the full handshake; the refresh-token
// exchange stays available on the API surface but is not used here.
type Manager struct {
	Store         store.Store
	Authenticator *Authenticator
	Logger        *slog.Logger

	// ExpiryLeeway widens the expiry check; zero uses DefaultExpiryLeeway.
	ExpiryLeeway time.Duration

	// MaxConcurrent bounds RefreshAll parallelism; zero uses DefaultMaxConcurrent.
	MaxConcurrent int

	// Now is the clock used for expiry checks; nil means time.Now.
	Now func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// GetSession returns a usable session for the principal. A cached session
// that is still valid is returned unchanged with no network traffic;
// otherwise the full handshake runs and the fresh session is persisted only
// after the whole pipeline succeeded.
func (m *Manager) GetSession(ctx context.Context, principal domain.Principal) (domain.Session, error) {
	lock := m.lockFor(principal.ID)
	lock.Lock()
	defer lock.Unlock()

	return m.getSessionLocked(ctx, principal)
}

func (m *Manager) getSessionLocked(ctx context.Context, principal domain.Principal) (domain.Session, error) {
	cached, err := m.Store.Sessions().Get(ctx, principal.ID)
	switch {
	case err == nil:
		if cached.Usable(m.now().Add(m.leeway())) {
			m.logger().Debug("cached session still valid",
				"principal", principal.ID, "valid_until", cached.ValidUntil)
			return cached, nil
		}
		m.logger().Info("cached session expired, re-authenticating",
			"principal", principal.ID, "valid_until", cached.ValidUntil)
	case errors.Is(err, store.ErrNotFound):
		m.logger().Info("no cached session, authenticating", "principal", principal.ID)
	default:
		return domain.Session{}, err
	}

	session, err := m.Authenticator.Authenticate(ctx, principal)
	if err != nil {
		// The old (possibly expired) record stays untouched so a later
		// retry starts from a consistent state.
		return domain.Session{}, err
	}

	if err := m.Store.Sessions().Put(ctx, principal.ID, session); err != nil {
		return domain.Session{}, err
	}

	return session, nil
}

// RefreshAll ensures every principal holds a valid session. Principals are
// refreshed independently with bounded concurrency; one principal's failure
// is recorded in its Result and never aborts the siblings.
func (m *Manager) RefreshAll(ctx context.Context, principals []domain.Principal) map[string]Result {
	results := make(map[string]Result, len(principals))
	var resultsMu sync.Mutex

	g := new(errgroup.Group)
	g.SetLimit(m.maxConcurrent())

	for _, principal := range principals {
		g.Go(func() error {
			session, err := m.GetSession(ctx, principal)
			if err != nil {
				m.logger().Error("principal refresh failed",
					"principal", principal.ID, "error", err)
			}

			resultsMu.Lock()
			results[principal.ID] = Result{Session: session, Err: err}
			resultsMu.Unlock()
			return nil
		})
	}

	_ = g.Wait() // goroutines never return errors; failures live in results

	return results
}

// lockFor serializes refreshes of the same principal so two concurrent
// attempts cannot interleave their store writes. Distinct principals do not
// contend.
func (m *Manager) lockFor(principalID string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.locks == nil {
		m.locks = make(map[string]*sync.Mutex)
	}
	lock, ok := m.locks[principalID]
	if !ok {
		lock = new(sync.Mutex)
		m.locks[principalID] = lock
	}
	return lock
}

func (m *Manager) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

func (m *Manager) leeway() time.Duration {
	if m.ExpiryLeeway > 0 {
		return m.ExpiryLeeway
	}
	return DefaultExpiryLeeway
}

func (m *Manager) maxConcurrent() int {
	if m.MaxConcurrent > 0 {
		return m.MaxConcurrent
	}
	return DefaultMaxConcurrent
}

func (m *Manager) logger() *slog.Logger {
	if m.Logger != nil {
		return m.Logger
	}
	return slog.Default()
}
