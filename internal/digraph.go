package internal

import (
	"fmt"
	"strings"
)

// Direction selects encryption or decryption for a whole run.
type Direction int

const (
	Encode Direction = iota
	Decode
)

func (d Direction) String() string {
	if d == Decode {
		return "decode"
	}
	return "encode"
}

// ParseDirection accepts "encode"/"encrypt" and "decode"/"decrypt"; empty means Encode.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "encode", "encrypt", "enc":
		return Encode, nil
	case "decode", "decrypt", "dec":
		return Decode, nil
	default:
		return Encode, fmt.Errorf("%w: unknown direction %q (supported: encode, decode)", ErrInvalidOption, s)
	}
}

func (d Direction) shift() int {
	if d == Decode {
		return -1
	}
	return 1
}

// Rule names the geometric case a digraph fell into.
type Rule int

const (
	SameColumn Rule = iota
	SameRow
	Rectangle
	Doublet // identical letters, passed through when decoding
)

func (r Rule) String() string {
	switch r {
	case SameColumn:
		return "column"
	case SameRow:
		return "row"
	case Rectangle:
		return "rectangle"
	default:
		return "doublet"
	}
}

// Step describes one transformed digraph. It is handed to a TraceFunc.
type Step struct {
	Index int    // digraph number, from 0
	In    string // two input letters (the pad shows as the nonce)
	Out   string
	Rule  Rule
}

// TraceFunc observes each digraph as it is transformed. It may be nil.
type TraceFunc func(Step)

// Message is normalized text ready for Transform.
type Message struct {
	Text      string
	ForEncode bool // nonces were inserted
}

// InsertNonces splits identical letters that would share a digraph and pads
// odd-length input, e.g. "BALLOON" -> "BALXLOON". A doubled nonce, or a
// trailing nonce that would need a nonce pad, cannot be separated and yields
// ErrBadNonce.
func InsertNonces(s string, nonce byte) (string, error) {
	var b strings.Builder
	b.Grow(len(s) + len(s)/2 + 1)
	for i := 0; i < len(s); {
		a := s[i]
		switch {
		case i+1 < len(s) && s[i+1] == a:
			if a == nonce {
				return "", fmt.Errorf("%w: doubled nonce %q at position %d", ErrBadNonce, nonce, i)
			}
			b.WriteByte(a)
			b.WriteByte(nonce)
			i++
		case i+1 < len(s):
			b.WriteByte(a)
			b.WriteByte(s[i+1])
			i += 2
		default:
			if a == nonce {
				return "", fmt.Errorf("%w: message ends in nonce %q and needs a nonce pad", ErrBadNonce, nonce)
			}
			b.WriteByte(a)
			b.WriteByte(nonce)
			i++
		}
	}
	return b.String(), nil
}

// PrepareMessage normalizes raw for the given alphabet. Encoding also runs
// nonce insertion; decoding keeps the letters exactly as they are.
func PrepareMessage(raw string, a Alphabet, nonce byte, forEncode bool) (Message, error) {
	if err := a.validate(); err != nil {
		return Message{}, err
	}
	s := Normalize(raw, a)
	if s == "" {
		return Message{}, fmt.Errorf("%w: message has no letters", ErrEmptyInput)
	}
	if !forEncode {
		return Message{Text: s}, nil
	}
	s, err := InsertNonces(s, nonce)
	if err != nil {
		return Message{}, err
	}
	return Message{Text: s, ForEncode: true}, nil
}

// Transform runs the digraph substitution over m. A missing final letter
// (odd-length decode input) is looked up as the nonce; m itself is not
// changed.
func Transform(g *Grid, m Message, d Direction, nonce byte, trace TraceFunc) (string, error) {
	s := m.Text
	out := make([]byte, 0, len(s)+1)
	for i, k := 0, 0; i < len(s); i, k = i+2, k+1 {
		a, b := s[i], byte(0)
		if i+1 < len(s) {
			b = s[i+1]
		}
		x, y, rule, err := transformPair(g, a, b, d, nonce)
		if err != nil {
			return "", fmt.Errorf("digraph %d: %w", k, err)
		}
		out = append(out, x, y)
		if trace != nil {
			if b == 0 {
				b = nonce
			}
			trace(Step{Index: k, In: string([]byte{a, b}), Out: string([]byte{x, y}), Rule: rule})
		}
	}
	return string(out), nil
}

func transformPair(g *Grid, a, b byte, d Direction, nonce byte) (byte, byte, Rule, error) {
	c0, r0, err := g.Locate(a, nonce)
	if err != nil {
		return 0, 0, 0, err
	}
	c1, r1, err := g.Locate(b, nonce)
	if err != nil {
		return 0, 0, 0, err
	}
	if c0 == c1 && r0 == r1 {
		if d == Encode {
			return 0, 0, Doublet, fmt.Errorf("%w: digraph %c%c is not separated", ErrBadNonce, a, g.At(c1, r1))
		}
		x := g.At(c0, r0)
		return x, x, Doublet, nil
	}
	n := d.shift()
	switch {
	case c0 == c1:
		return g.At(c0, r0+n), g.At(c1, r1+n), SameColumn, nil
	case r0 == r1:
		return g.At(c0+n, r0), g.At(c1+n, r1), SameRow, nil
	default:
		return g.At(c1, r0), g.At(c0, r1), Rectangle, nil
	}
}
