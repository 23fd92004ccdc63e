package internal

import "strings"

// Text normalization helpers shared by key square construction and message
// preparation. All functions are pure and operate on ASCII only.

// RemoveWhere returns s without every byte for which drop reports true.
// Relative order of the remaining bytes is preserved.
func RemoveWhere(s string, drop func(byte) bool) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if !drop(s[i]) {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// KeepAlphabetic drops everything that is not an ASCII letter.
func KeepAlphabetic(s string) string {
	return RemoveWhere(s, func(c byte) bool { return !isLetter(c) })
}

// ToUppercase folds ASCII letters to upper case. Other bytes pass through.
func ToUppercase(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}

// SubstituteOmitted replaces omit with mapTo, or deletes omit when mapTo is 0.
func SubstituteOmitted(s string, omit, mapTo byte) string {
	if mapTo == 0 {
		return RemoveWhere(s, func(c byte) bool { return c == omit })
	}
	return strings.ReplaceAll(s, string(omit), string(mapTo))
}

// DedupeFirstOccurrence keeps the first occurrence of each byte and drops
// later repeats, e.g. "BALLOON" -> "BALON".
func DedupeFirstOccurrence(s string) string {
	var seen [256]bool
	return RemoveWhere(s, func(c byte) bool {
		if seen[c] {
			return true
		}
		seen[c] = true
		return false
	})
}

// Normalize runs the fixed pipeline: letters only, upper case, omitted letter
// handled according to a.
func Normalize(s string, a Alphabet) string {
	return SubstituteOmitted(ToUppercase(KeepAlphabetic(s)), a.Omit, a.MapTo)
}
