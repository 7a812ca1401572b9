package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/ksef-tools/ksefauth/internal/session/domain"
	"github.com/ksef-tools/ksefauth/internal/session/store"
	"github.com/ksef-tools/ksefauth/internal/session/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func TestSessionsRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	session := domain.Session{
		AccessToken:  "access-token-value",
		RefreshToken: "refresh-token-value",
		ValidUntil:   time.Date(2026, 6, 1, 12, 30, 45, 123456789, time.UTC),
	}
	require.NoError(t, s.Sessions().Put(ctx, "firma-a", session))

	loaded, err := s.Sessions().Get(ctx, "firma-a")
	require.NoError(t, err)
	require.Equal(t, session.AccessToken, loaded.AccessToken)
	require.Equal(t, session.RefreshToken, loaded.RefreshToken)
	require.Equal(t,
		session.ValidUntil.Format(time.RFC3339Nano),
		loaded.ValidUntil.Format(time.RFC3339Nano))
}

func TestSessionsGetMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Sessions().Get(context.Background(), "nobody")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestSessionsPutReplaces(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	old := domain.Session{AccessToken: "old", RefreshToken: "old-r", ValidUntil: time.Now().UTC()}
	require.NoError(t, s.Sessions().Put(ctx, "firma-a", old))

	fresh := domain.Session{
		AccessToken:  "new",
		RefreshToken: "new-r",
		ValidUntil:   time.Now().Add(2 * time.Hour).UTC(),
	}
	require.NoError(t, s.Sessions().Put(ctx, "firma-a", fresh))

	loaded, err := s.Sessions().Get(ctx, "firma-a")
	require.NoError(t, err)
	require.Equal(t, "new", loaded.AccessToken)
	require.Equal(t, "new-r", loaded.RefreshToken)
}

func TestSessionsAllAndDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Sessions().Put(ctx, "a", domain.Session{AccessToken: "ta", ValidUntil: time.Now().UTC()}))
	require.NoError(t, s.Sessions().Put(ctx, "b", domain.Session{AccessToken: "tb", ValidUntil: time.Now().UTC()}))

	all, err := s.Sessions().All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "ta", all["a"].AccessToken)

	require.NoError(t, s.Sessions().Delete(ctx, "a"))
	require.NoError(t, s.Sessions().Delete(ctx, "a")) // absent delete is fine

	all, err = s.Sessions().All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}
