package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"playfair/internal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	a := &app{stdin: strings.NewReader(stdin), stdout: &out, stderr: &errOut}
	cmd := a.rootCmd()
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestEncodeCommand(t *testing.T) {
	out, _, err := runCLI(t, "", "encode", "-k", "playfair example", "hide", "the", "gold", "in", "the", "tree", "stump")
	require.NoError(t, err)
	assert.Equal(t, "BM OD ZB XD NA BE KU DM UI XM MO UV IF\n", out)

	out, _, err = runCLI(t, "", "encode", "-k", "monarchy", "--group", "0", "--verify", "instruments")
	require.NoError(t, err)
	assert.Equal(t, "GATLMZCLRQXA\n", out)
}

func TestDecodeCommand(t *testing.T) {
	out, _, err := runCLI(t, "", "decode", "-k", "playfair example", "--group", "0", "--strip-nonces", "BMODZBXDNABEKUDMUIXMMOUVIF")
	require.NoError(t, err)
	assert.Equal(t, "HIDETHEGOLDINTHETREESTUMP\n", out)

	out, _, err = runCLI(t, "bmo\n", "decode", "-k", "playfair example")
	require.NoError(t, err)
	assert.Equal(t, "HI QE\n", out)
}

func TestRootUsesConfiguredDirection(t *testing.T) {
	out, _, err := runCLI(t, "", "-k", "playfair example", "--group", "0", "hide the gold")
	require.NoError(t, err)
	assert.Equal(t, "BMODZBXDNAGE\n", out)

	out, _, err = runCLI(t, "", "--direction", "decode", "-k", "playfair example", "--group", "0", "BMODZBXDNAGE")
	require.NoError(t, err)
	assert.Equal(t, "HIDETHEGOLDX\n", out)

	t.Setenv("PLAYFAIR_DIRECTION", "decode")
	out, _, err = runCLI(t, "", "-k", "playfair example", "--group", "0", "BMODZBXDNAGE")
	require.NoError(t, err)
	assert.Equal(t, "HIDETHEGOLDX\n", out)
}

func TestBatchAndConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "playfair.yaml")
	require.NoError(t, os.WriteFile(path, []byte("omit: Q\nmap_to: none\ngroup: 0\n"), 0o600))

	out, _, err := runCLI(t, "", "--config", path, "encode", "-k", "keyword", "--batch", "quiz", "hello world")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)

	c, err := internal.New("keyword", internal.Options{Alphabet: internal.Alphabet{Omit: 'Q'}, Nonce: 'X'})
	require.NoError(t, err)
	for i, msg := range []string{"quiz", "hello world"} {
		want, err := c.Encode(msg)
		require.NoError(t, err)
		assert.Equal(t, want, lines[i])
	}
}

func TestSquareCommand(t *testing.T) {
	out, _, err := runCLI(t, "", "square", "-k", "monarchy")
	require.NoError(t, err)
	assert.Contains(t, out, "Key square:")
	assert.Contains(t, out, "  M O N A R\n")
	assert.Contains(t, out, "  U V W X Z\n")
}

func TestKeygenCommand(t *testing.T) {
	args := []string{"keygen", "--kdf", "none", "--allow-weak-key", "seed"}
	out1, _, err := runCLI(t, "", args...)
	require.NoError(t, err)
	out2, _, err := runCLI(t, "", args...)
	require.NoError(t, err)
	assert.Equal(t, out1, out2)
	assert.Len(t, strings.TrimSpace(out1), internal.Cells)

	_, _, err = runCLI(t, "", "keygen", "--kdf", "none", "seed")
	assert.ErrorIs(t, err, internal.ErrWeakKey)
}

func TestSelfTestCommand(t *testing.T) {
	out, _, err := runCLI(t, "", "selftest", "--rounds", "3", "--seed", "42")
	require.NoError(t, err)
	assert.Contains(t, out, "Failed: 0")
}

func TestQROutput(t *testing.T) {
	out, _, err := runCLI(t, "", "encode", "-k", "monarchy", "--qr", "instruments")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "GA TL MZ CL RQ XA\n"))
	assert.Contains(t, out, "█")
}

func TestCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
		code int
	}{
		{"no passphrase", []string{"encode", "abc"}, internal.ErrEmptyInput, exitUser},
		{"empty message", []string{"encode", "-k", "key", "123"}, internal.ErrEmptyInput, exitUser},
		{"nonce omitted", []string{"--nonce", "J", "encode", "-k", "key", "abc"}, internal.ErrInvalidOption, exitUser},
		{"omit is map-to", []string{"--omit", "Q", "--map-to", "Q", "encode", "-k", "key", "abc"}, internal.ErrKeySquareSize, exitUser},
		{"doubled nonce", []string{"encode", "-k", "key", "taxxi"}, internal.ErrBadNonce, exitUser},
		{"bad direction", []string{"--direction", "up", "-k", "key", "abc"}, internal.ErrInvalidOption, exitUser},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, "", tt.args...)
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.code, exitCode(err))
		})
	}
	assert.Equal(t, exitDefect, exitCode(internal.ErrLookupFailure))
}
