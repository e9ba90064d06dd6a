package cryptox_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/stockbook/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestSealOpen(t *testing.T) {
	t.Parallel()

	s, err := cryptox.NewSealer([]byte("test-master-key-for-encryption-12345"))
	require.NoError(t, err)

	sealed1, err := s.SealString("R1")
	require.NoError(t, err)
	sealed2, err := s.SealString("R1")
	require.NoError(t, err)

	require.NotEqual(t, sealed1, sealed2, "random nonce should give distinct ciphertexts")
	require.NotContains(t, string(sealed1), "R1")

	for _, sealed := range [][]byte{sealed1, sealed2} {
		plain, err := s.OpenString(sealed)
		require.NoError(t, err)
		require.Equal(t, "R1", plain)
	}
}

func TestOpenRejectsBadInput(t *testing.T) {
	t.Parallel()

	s, err := cryptox.NewSealer([]byte("key-a"))
	require.NoError(t, err)
	other, err := cryptox.NewSealer([]byte("key-b"))
	require.NoError(t, err)

	t.Run("too short", func(t *testing.T) {
		_, err := s.Open([]byte("abc"))
		require.ErrorIs(t, err, cryptox.ErrCiphertextTooShort)
	})

	t.Run("tampered", func(t *testing.T) {
		sealed, err := s.SealString("A1")
		require.NoError(t, err)
		sealed[len(sealed)-1] ^= 0xff
		_, err = s.Open(sealed)
		require.Error(t, err)
	})

	t.Run("wrong key", func(t *testing.T) {
		sealed, err := s.SealString("A1")
		require.NoError(t, err)
		_, err = other.Open(sealed)
		require.Error(t, err)
	})

	t.Run("empty material", func(t *testing.T) {
		_, err := cryptox.NewSealer(nil)
		require.Error(t, err)
	})
}

func TestLoadOrCreateKey(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "master.key")

	first, err := cryptox.LoadOrCreateKey(path)
	require.NoError(t, err)
	require.Len(t, first, cryptox.KeySize)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	second, err := cryptox.LoadOrCreateKey(path)
	require.NoError(t, err)
	require.Equal(t, first, second)

	empty := filepath.Join(t.TempDir(), "empty.key")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	_, err = cryptox.LoadOrCreateKey(empty)
	require.Error(t, err)
}
