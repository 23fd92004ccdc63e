package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "playfair.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadSettingsDefaults(t *testing.T) {
	s, err := LoadSettings("", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)

	opts, err := s.Options()
	require.NoError(t, err)
	assert.Equal(t, DefaultOptions(), opts)
	assert.Equal(t, DefaultKeyPolicy(), s.KeyPolicy())
}

func TestLoadSettingsPrecedence(t *testing.T) {
	path := writeConfig(t, `
omit: Q
map_to: none
nonce: Z
group: 5
kdf: none
`)

	s, err := LoadSettings(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "Q", s.Omit)
	assert.Equal(t, "Z", s.Nonce)
	assert.Equal(t, 5, s.Group)
	assert.Equal(t, "none", s.KDF)
	assert.Equal(t, "encode", s.Direction)

	opts, err := s.Options()
	require.NoError(t, err)
	assert.Equal(t, Options{Alphabet: Alphabet{Omit: 'Q'}, Nonce: 'Z'}, opts)

	t.Setenv("PLAYFAIR_NONCE", "W")
	t.Setenv("PLAYFAIR_DIRECTION", "decode")
	t.Setenv("PLAYFAIR_KDF_MEM_MB", "8")
	s, err = LoadSettings(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "W", s.Nonce)
	assert.Equal(t, "decode", s.Direction)
	assert.Equal(t, uint32(8), s.KDFMemMB)

	s, err = LoadSettings(path, map[string]any{"nonce": "v", "group": "0"})
	require.NoError(t, err)
	assert.Equal(t, "v", s.Nonce)
	assert.Equal(t, 0, s.Group)

	opts, err = s.Options()
	require.NoError(t, err)
	assert.Equal(t, byte('V'), opts.Nonce)
}

func TestLoadSettingsMissingFile(t *testing.T) {
	_, err := LoadSettings(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	assert.Error(t, err)
}

func TestSettingsOptionsErrors(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Settings)
		want error
	}{
		{"two letters", func(s *Settings) { s.Omit = "JQ" }, ErrInvalidOption},
		{"digit nonce", func(s *Settings) { s.Nonce = "7" }, ErrInvalidOption},
		{"empty omit", func(s *Settings) { s.Omit = "" }, ErrInvalidOption},
		{"bad map-to", func(s *Settings) { s.MapTo = "ii" }, ErrInvalidOption},
		{"nonce omitted", func(s *Settings) { s.Nonce = "j" }, ErrInvalidOption},
		{"omit is map-to", func(s *Settings) { s.MapTo = "J" }, ErrKeySquareSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mod(&s)
			_, err := s.Options()
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSettingsMapToDelete(t *testing.T) {
	for _, v := range []string{"", "none", " NONE "} {
		s := DefaultSettings()
		s.MapTo = v
		opts, err := s.Options()
		require.NoError(t, err, v)
		assert.Zero(t, opts.MapTo, v)
	}
}
