package internal

import (
	"bytes"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestEncodeVerified(t *testing.T) {
	c, err := New("playfair example", DefaultOptions())
	require.NoError(t, err)

	ct, err := EncodeVerified(c, "hide the gold in the tree stump")
	require.NoError(t, err)
	assert.Equal(t, "BMODZBXDNABEKUDMUIXMMOUVIF", ct)

	assert.NoError(t, VerifyRoundTrip(c, "balloon"))
	assert.ErrorIs(t, VerifyRoundTrip(c, "xx"), ErrBadNonce)
	assert.ErrorIs(t, VerifyRoundTrip(c, "..."), ErrEmptyInput)
}

func TestRunSelfTest(t *testing.T) {
	defer SetColorEnabled(ColorEnabled())
	SetColorEnabled(false)

	for _, opts := range []Options{
		DefaultOptions(),
		{Alphabet: Alphabet{Omit: 'Q'}, Nonce: 'Z'},
		{Alphabet: Alphabet{Omit: 'J', MapTo: 'X'}, Nonce: 'X'},
	} {
		var buf bytes.Buffer
		failed := RunSelfTest(&buf, opts, 5, rand.New(rand.NewSource(1)))
		assert.Zero(t, failed, buf.String())
		assert.Equal(t, 5, strings.Count(buf.String(), "Result: PASSED"))
		assert.Contains(t, buf.String(), "Total rounds: 5, Failed: 0")
	}

	var buf bytes.Buffer
	assert.Equal(t, 3, RunSelfTest(&buf, Options{Alphabet: DefaultAlphabet(), Nonce: 'J'}, 3, rand.New(rand.NewSource(1))))
}

func TestIsDefect(t *testing.T) {
	assert.True(t, IsDefect(fmt.Errorf("wrapped: %w", ErrLookupFailure)))
	assert.True(t, IsDefect(ErrRoundTrip))
	for _, err := range []error{ErrBadNonce, ErrEmptyInput, ErrKeySquareSize, ErrInvalidOption, errors.New("other")} {
		assert.False(t, IsDefect(err), err.Error())
	}
}

func TestLogError(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := zap.New(core)

	LogError(l, "run failed", fmt.Errorf("digraph 0: %w", ErrLookupFailure))
	LogError(l, "run failed", ErrBadNonce)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, true, entries[0].ContextMap()["defect"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
}

func TestTraceLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	c, err := New("monarchy", DefaultOptions())
	require.NoError(t, err)

	_, err = c.WithTrace(TraceLogger(zap.New(core))).Encode("instruments")
	require.NoError(t, err)

	entries := logs.FilterMessage("digraph").All()
	require.Len(t, entries, 6)
	fields := entries[0].ContextMap()
	assert.Equal(t, "IN", fields["in"])
	assert.Equal(t, "GA", fields["out"])
	assert.Equal(t, "rectangle", fields["rule"])
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, false).Debug("hidden")
	assert.Empty(t, buf.String())

	NewLogger(&buf, true).Debug("shown", zap.String("k", "v"))
	assert.Contains(t, buf.String(), "shown")
}
