package internal

import (
	"fmt"
	"io"
	"math/rand"
	"strings"
)

// RunSelfTest builds `rounds` random key squares, round-trips a random
// message through each, prints every round and returns the number of
// failed rounds.
//
// Parameters:
// - w:      destination for the report
// - opts:   cipher options used for every round
// - rounds: number of key/message pairs to try
// - r:      randomness source (seed it for reproducible runs)
func RunSelfTest(w io.Writer, opts Options, rounds int, r *rand.Rand) int {
	if err := opts.Validate(); err != nil {
		fmt.Fprintf(w, "self-test: %v\n", err)
		return rounds
	}

	// Messages avoid the nonce so encoding never hits ErrBadNonce.
	pool := RemoveWhere(opts.Letters(), func(c byte) bool { return c == opts.Nonce })
	if opts.MapTo != 0 && opts.MapTo != opts.Nonce {
		// The omitted letter is a valid plaintext input when it is folded.
		pool += string(opts.Omit)
	}
	randomText := func(minLen, maxLen int) string {
		n := minLen + r.Intn(maxLen-minLen+1)
		b := make([]byte, n)
		for i := range b {
			b[i] = pool[r.Intn(len(pool))]
		}
		return string(b)
	}

	failed := 0
	for i := 0; i < rounds; i++ {
		key := randomText(4, 16)
		msg := randomText(8, 48)

		result := "PASSED"
		c, err := New(key, opts)
		if err == nil {
			err = VerifyRoundTrip(c, msg)
		}
		if err != nil {
			result = "FAILED"
			failed++
		}

		// Only print "Round N:" when multiple rounds are requested
		if rounds > 1 {
			fmt.Fprintln(w, Style(fmt.Sprintf("Round %d:", i+1), Bold, Purple))
		}
		fmt.Fprintf(w, "  Key:     %s\n", key)
		fmt.Fprintf(w, "  Message: %s\n", GroupLetters(msg, 2, " "))
		if c != nil {
			fmt.Fprintf(w, "  Square:  %s\n", strings.Join(c.Grid().Rows(), " "))
		}
		label := "Result: " + result
		if err != nil {
			label += " (" + err.Error() + ")"
		}
		fmt.Fprintln(w, Style("  "+label, Bold))
	}

	if rounds > 1 {
		fmt.Fprintf(w, "%s %d, %s %d\n",
			Style("Total rounds:", Bold), rounds,
			Style("Failed:", Bold), failed)
	}
	return failed
}
