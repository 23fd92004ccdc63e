package internal

import (
	"fmt"
	"strings"
)

// Key square geometry.
const (
	// Side is the width and height of the key square.
	Side = 5
	// Cells is the number of letters in the key square.
	Cells = Side * Side
)

// Alphabet describes the 25-letter working alphabet: A..Z without Omit.
// When MapTo is non-zero, occurrences of Omit are folded into MapTo during
// normalization; when it is 0 they are deleted.
type Alphabet struct {
	Omit  byte
	MapTo byte
}

// DefaultAlphabet omits J and folds it into I.
func DefaultAlphabet() Alphabet {
	return Alphabet{Omit: 'J', MapTo: 'I'}
}

// Letters returns the working alphabet in A..Z order.
func (a Alphabet) Letters() string {
	var b strings.Builder
	for c := byte('A'); c <= 'Z'; c++ {
		if c != a.Omit {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Contains reports whether c belongs to the working alphabet.
func (a Alphabet) Contains(c byte) bool {
	return c >= 'A' && c <= 'Z' && c != a.Omit
}

func (a Alphabet) validate() error {
	if a.Omit < 'A' || a.Omit > 'Z' {
		return fmt.Errorf("%w: omit letter %q must be A-Z", ErrInvalidOption, a.Omit)
	}
	if a.MapTo == a.Omit {
		// The omitted letter would come back through the mapping.
		return fmt.Errorf("%w: omit and map-to are both %q", ErrKeySquareSize, a.Omit)
	}
	if a.MapTo != 0 && (a.MapTo < 'A' || a.MapTo > 'Z') {
		return fmt.Errorf("%w: map-to letter %q must be A-Z", ErrInvalidOption, a.MapTo)
	}
	return nil
}

// Grid is an immutable 5x5 key square addressed by (col, row).
type Grid struct {
	cells [Side][Side]byte // [col][row]
	pos   [26]int8         // letter-'A' -> row*Side+col, -1 when absent
}

// BuildKeySquare derives the key square for passphrase over alphabet a.
func BuildKeySquare(passphrase string, a Alphabet) (*Grid, error) {
	if err := a.validate(); err != nil {
		return nil, err
	}
	key := DedupeFirstOccurrence(Normalize(passphrase, a))
	if key == "" {
		return nil, fmt.Errorf("%w: passphrase has no letters", ErrEmptyInput)
	}
	return gridFromKey(padKey(key, a), a)
}

// padKey appends unused working letters in alphabetical order until the key
// holds Cells letters.
func padKey(key string, a Alphabet) string {
	var used [26]bool
	for i := 0; i < len(key); i++ {
		used[key[i]-'A'] = true
	}
	var b strings.Builder
	b.WriteString(key)
	for c := byte('A'); c <= 'Z' && b.Len() < Cells; c++ {
		if c != a.Omit && !used[c-'A'] {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// gridFromKey checks that key is a permutation of the working alphabet and
// lays it out row-major.
func gridFromKey(key string, a Alphabet) (*Grid, error) {
	if len(key) != Cells {
		return nil, fmt.Errorf("%w: got %d letters, want %d", ErrKeySquareSize, len(key), Cells)
	}
	g := &Grid{}
	for i := range g.pos {
		g.pos[i] = -1
	}
	for i := 0; i < Cells; i++ {
		c := key[i]
		if !a.Contains(c) {
			return nil, fmt.Errorf("%w: %q is not in the working alphabet", ErrKeySquareSize, c)
		}
		if g.pos[c-'A'] >= 0 {
			return nil, fmt.Errorf("%w: %q appears twice", ErrKeySquareSize, c)
		}
		g.pos[c-'A'] = int8(i)
		g.cells[i%Side][i/Side] = c
	}
	return g, nil
}

// At returns the letter at (col, row). Both coordinates are reduced mod Side.
func (g *Grid) At(col, row int) byte {
	return g.cells[mod(col)][mod(row)]
}

// Locate returns the coordinates of letter. A zero letter is the sentinel
// for a missing final pad and resolves to nonce.
func (g *Grid) Locate(letter, nonce byte) (col, row int, err error) {
	if letter == 0 {
		letter = nonce
	}
	if letter >= 'A' && letter <= 'Z' {
		if p := g.pos[letter-'A']; p >= 0 {
			return int(p) % Side, int(p) / Side, nil
		}
	}
	return 0, 0, fmt.Errorf("%w: %q is not in the key square", ErrLookupFailure, letter)
}

// Rows returns the square as five row strings.
func (g *Grid) Rows() []string {
	rows := make([]string, Side)
	for r := 0; r < Side; r++ {
		b := make([]byte, Side)
		for c := 0; c < Side; c++ {
			b[c] = g.cells[c][r]
		}
		rows[r] = string(b)
	}
	return rows
}

// String returns the 25 letters in row-major order.
func (g *Grid) String() string {
	return strings.Join(g.Rows(), "")
}

// mod reduces n into [0, Side) without going negative.
func mod(n int) int {
	n %= Side
	if n < 0 {
		n += Side
	}
	return n
}
