package internal

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Options is the full configuration a cipher run needs.
type Options struct {
	Alphabet
	Nonce byte
}

// DefaultOptions returns the classic setup: omit J, fold it into I, pad with X.
func DefaultOptions() Options {
	return Options{Alphabet: DefaultAlphabet(), Nonce: 'X'}
}

// Validate checks that the letters form a usable configuration.
func (o Options) Validate() error {
	if err := o.Alphabet.validate(); err != nil {
		return err
	}
	if !o.Alphabet.Contains(o.Nonce) {
		return fmt.Errorf("%w: nonce %q must be a working-alphabet letter other than %q", ErrInvalidOption, o.Nonce, o.Omit)
	}
	return nil
}

// Cipher binds a key square to its options. It is immutable after New and
// safe for concurrent use.
type Cipher struct {
	opts  Options
	grid  *Grid
	trace TraceFunc
}

// New validates opts and builds the key square for passphrase.
func New(passphrase string, opts Options) (*Cipher, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	g, err := BuildKeySquare(passphrase, opts.Alphabet)
	if err != nil {
		return nil, err
	}
	return &Cipher{opts: opts, grid: g}, nil
}

// WithTrace returns a copy of c that reports every digraph to fn.
func (c *Cipher) WithTrace(fn TraceFunc) *Cipher {
	cp := *c
	cp.trace = fn
	return &cp
}

// Grid returns the key square.
func (c *Cipher) Grid() *Grid { return c.grid }

// Options returns the options the cipher was built with.
func (c *Cipher) Options() Options { return c.opts }

// Prepare normalizes raw for direction d.
func (c *Cipher) Prepare(raw string, d Direction) (Message, error) {
	return PrepareMessage(raw, c.opts.Alphabet, c.opts.Nonce, d == Encode)
}

// Run prepares raw and transforms it in direction d.
func (c *Cipher) Run(raw string, d Direction) (string, error) {
	m, err := c.Prepare(raw, d)
	if err != nil {
		return "", err
	}
	return Transform(c.grid, m, d, c.opts.Nonce, c.trace)
}

// Encode encrypts raw plaintext.
func (c *Cipher) Encode(raw string) (string, error) { return c.Run(raw, Encode) }

// Decode decrypts raw ciphertext.
func (c *Cipher) Decode(raw string) (string, error) { return c.Run(raw, Decode) }

// TransformAll runs every message concurrently and returns the results in
// input order. The first failure cancels the remaining work.
func (c *Cipher) TransformAll(ctx context.Context, msgs []string, d Direction) ([]string, error) {
	out := make([]string, len(msgs))
	g, ctx := errgroup.WithContext(ctx)
	for i, msg := range msgs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := c.Run(msg, d)
			if err != nil {
				return fmt.Errorf("message %d: %w", i+1, err)
			}
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// StripNonces removes nonces that were most likely inserted by encoding: one
// sitting between two identical letters at a digraph boundary, and a final
// pad. The result is a best-effort reading aid; a genuine nonce letter in
// those positions is removed as well.
func StripNonces(plain string, nonce byte) string {
	var b strings.Builder
	b.Grow(len(plain))
	for i := 0; i < len(plain); i++ {
		c := plain[i]
		if c == nonce && i%2 == 1 {
			if i == len(plain)-1 {
				break
			}
			if plain[i-1] == plain[i+1] {
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}
