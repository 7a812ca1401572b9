package app_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ksef-tools/ksefauth/internal/session/app"
	"github.com/stretchr/testify/require"
)

func writeSecrets(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "secret.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadPrincipals(t *testing.T) {
	t.Parallel()

	path := writeSecrets(t, `{
		"firma-b": {"token": "tb", "nip": "2222222222"},
		"firma-a": {"token": "ta", "nip": "1111111111"}
	}`)

	principals, err := app.LoadPrincipals(path)
	require.NoError(t, err)
	require.Len(t, principals, 2)

	// Stable sorted order by id.
	require.Equal(t, "firma-a", principals[0].ID)
	require.Equal(t, "ta", principals[0].Secret)
	require.Equal(t, "1111111111", principals[0].NIP)
	require.Equal(t, "firma-b", principals[1].ID)
}

func TestLoadPrincipalsValidation(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		_, err := app.LoadPrincipals(filepath.Join(t.TempDir(), "nope.json"))
		require.Error(t, err)
	})

	t.Run("empty document", func(t *testing.T) {
		_, err := app.LoadPrincipals(writeSecrets(t, `{}`))
		require.ErrorContains(t, err, "no principals")
	})

	t.Run("missing token", func(t *testing.T) {
		_, err := app.LoadPrincipals(writeSecrets(t, `{"x": {"nip": "1111111111"}}`))
		require.ErrorContains(t, err, "missing a token")
	})

	t.Run("missing nip", func(t *testing.T) {
		_, err := app.LoadPrincipals(writeSecrets(t, `{"x": {"token": "t"}}`))
		require.ErrorContains(t, err, "missing a nip")
	})
}
