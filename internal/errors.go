package internal

import "errors"

// Sentinel errors. Every error returned by this package wraps exactly one of
// these, so callers can branch with errors.Is.
var (
	// ErrKeySquareSize means the passphrase did not yield 25 unique working letters.
	ErrKeySquareSize = errors.New("key square size")
	// ErrLookupFailure means a message letter is missing from the key square.
	// Normalization guarantees this never happens, so it marks a defect.
	ErrLookupFailure = errors.New("lookup failure")
	// ErrBadNonce means the message collides with the nonce convention.
	ErrBadNonce = errors.New("bad nonce")
	// ErrEmptyInput means a passphrase or message had no letters left after filtering.
	ErrEmptyInput = errors.New("empty input")
	// ErrRoundTrip means decrypting fresh ciphertext did not give back the
	// plaintext. Like ErrLookupFailure it marks a defect.
	ErrRoundTrip = errors.New("round-trip mismatch")
	// ErrInvalidOption means an omit, map-to or nonce setting is not usable.
	ErrInvalidOption = errors.New("invalid option")
)

// IsDefect reports whether err signals a broken internal invariant rather
// than bad user input.
func IsDefect(err error) bool {
	return errors.Is(err, ErrLookupFailure) || errors.Is(err, ErrRoundTrip)
}
