package file_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ksef-tools/ksefauth/internal/session/domain"
	"github.com/ksef-tools/ksefauth/internal/session/store"
	"github.com/ksef-tools/ksefauth/internal/session/store/drivers/file"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*file.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.json")
	return file.NewStore(path), path
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _ := newTestStore(t)

	session := domain.Session{
		AccessToken:  "access-token-value",
		RefreshToken: "refresh-token-value",
		ValidUntil:   time.Date(2026, 6, 1, 12, 30, 45, 123456789, time.UTC),
	}
	require.NoError(t, s.Put(ctx, "firma-a", session))

	loaded, err := s.Get(ctx, "firma-a")
	require.NoError(t, err)
	require.Equal(t, session.AccessToken, loaded.AccessToken)
	require.Equal(t, session.RefreshToken, loaded.RefreshToken)
	require.Equal(t,
		session.ValidUntil.Format(time.RFC3339Nano),
		loaded.ValidUntil.Format(time.RFC3339Nano))
}

func TestMissingFileIsEmptyState(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore(t)

	_, err := s.Get(context.Background(), "anyone")
	require.ErrorIs(t, err, store.ErrNotFound)

	all, err := s.All(context.Background())
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestDocumentLayoutMatchesSessionJSON(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, path := newTestStore(t)

	require.NoError(t, s.Put(ctx, "firma-a", domain.Session{
		AccessToken:  "at",
		RefreshToken: "rt",
		ValidUntil:   time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC),
	}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &doc))
	require.Equal(t, "at", doc["firma-a"]["accessToken"])
	require.Equal(t, "rt", doc["firma-a"]["refreshToken"])
	require.Equal(t, "2026-06-01T12:00:00Z", doc["firma-a"]["validUntil"])
}

func TestDeleteAndReplace(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _ := newTestStore(t)

	require.NoError(t, s.Put(ctx, "a", domain.Session{AccessToken: "old", ValidUntil: time.Now().UTC()}))
	require.NoError(t, s.Put(ctx, "a", domain.Session{AccessToken: "new", ValidUntil: time.Now().UTC()}))

	loaded, err := s.Get(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, "new", loaded.AccessToken)

	require.NoError(t, s.Delete(ctx, "a"))
	require.NoError(t, s.Delete(ctx, "a"))
	_, err = s.Get(ctx, "a")
	require.ErrorIs(t, err, store.ErrNotFound)
}
