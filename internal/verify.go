package internal

import (
	"fmt"
)

// EncodeVerified encrypts raw and then immediately decrypts the result with
// the same key square. The decryption must reproduce the prepared plaintext
// (normalized, nonces inserted) exactly; otherwise an error is returned and
// no ciphertext is produced.
func EncodeVerified(c *Cipher, raw string) (string, error) {
	m, err := c.Prepare(raw, Encode)
	if err != nil {
		return "", err
	}
	nonce := c.opts.Nonce

	ct, err := Transform(c.grid, m, Encode, nonce, c.trace)
	if err != nil {
		return "", fmt.Errorf("encode failed: %w", err)
	}
	pt, err := Transform(c.grid, Message{Text: ct}, Decode, nonce, nil)
	if err != nil {
		return "", fmt.Errorf("decode failed: %w", err)
	}
	if len(pt) != len(m.Text) {
		return "", fmt.Errorf("%w: length %d != %d", ErrRoundTrip, len(pt), len(m.Text))
	}
	for i := range pt {
		if pt[i] != m.Text[i] {
			return "", fmt.Errorf("%w: position %d: have %q, want %q", ErrRoundTrip, i, pt[i], m.Text[i])
		}
	}
	return ct, nil
}

// VerifyRoundTrip reports whether raw survives an encode/decode cycle under c.
//
// This is equivalent to calling EncodeVerified and discarding the ciphertext.
func VerifyRoundTrip(c *Cipher, raw string) error {
	_, err := EncodeVerified(c, raw)
	return err
}
