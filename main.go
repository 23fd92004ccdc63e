// Playfair — classical digraph substitution cipher
//
// Scheme:
// - Key square: passphrase letters (deduplicated, first occurrence wins)
//   followed by the rest of the 25-letter alphabet, read row-major into 5×5
// - Alphabet: A..Z without one omitted letter (default J, folded into I)
// - Nonce: filler letter (default X) that separates doubled letters inside a
//   digraph and pads odd-length plaintext
//
// Digraph rules (encode; decode shifts the other way):
// - Same column → letter below each
// - Same row    → letter to the right of each
// - Otherwise   → swap columns across the rectangle
//
// Notes:
// - Settings come from flags, PLAYFAIR_* environment, or a YAML --config file
// - Decode tolerates doubled letters and odd length, encode does not

package main

import (
	"fmt"
	"os"
	"syscall"

	"playfair/internal"

	"golang.org/x/term"
)

var version = "dev"

// Exit codes.
const (
	exitUser   = 2 // bad input or configuration
	exitDefect = 3 // internal invariant violated
)

func exitCode(err error) int {
	if internal.IsDefect(err) {
		return exitDefect
	}
	return exitUser
}

func main() {
	// Color enablement: default on for TTY unless --no-color
	internal.SetColorEnabled(term.IsTerminal(int(syscall.Stdout)))

	a := &app{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	if err := a.rootCmd().Execute(); err != nil {
		if a.log != nil && (a.verbose || internal.IsDefect(err)) {
			internal.LogError(a.log, "playfair failed", err)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitCode(err))
	}
}
