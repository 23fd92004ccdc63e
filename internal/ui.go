package internal

import (
	"strings"
)

// Package internal: UI helpers (exported)
//
// This file provides small, self-contained UI helpers for:
// - ANSI styling (Tokyo Night–inspired colors)
// - Output formatting (letter groups, key square layout)
//
// Color usage
// - Enable or disable color globally via SetColorEnabled(true/false).
// - Wrap text with Style("text", Bold, Blue) to apply codes when enabled.
// - When disabled, Style returns the input unchanged.

// --- ANSI color/style (Tokyo Night–inspired) ---

// Default: colors enabled. Override via SetColorEnabled.
var colorEnabled = true

// ANSI escape codes (exported)
const (
	Reset  = "\x1b[0m"
	Bold   = "\x1b[1m"
	Blue   = "\x1b[38;2;122;162;247m" // Tokyo Night blue
	Cyan   = "\x1b[38;2;42;195;222m"  // Tokyo Night cyan
	Purple = "\x1b[38;2;187;154;247m" // Tokyo Night purple
	Gray   = "\x1b[38;2;136;146;176m" // Dimmed foreground
	Red    = "\x1b[38;2;247;118;142m" // Tokyo Night red
	Green  = "\x1b[38;2;158;206;106m" // Tokyo Night green
)

// SetColorEnabled toggles ANSI styling on or off.
func SetColorEnabled(on bool) {
	colorEnabled = on
}

// ColorEnabled reports whether ANSI styling is currently enabled.
func ColorEnabled() bool {
	return colorEnabled
}

// Style wraps s with the provided ANSI codes when color is enabled.
// When disabled, returns s unchanged.
//
// Example:
//
//	Style("Hello", Bold, Blue)
func Style(s string, codes ...string) string {
	if !colorEnabled {
		return s
	}
	var b strings.Builder
	for _, c := range codes {
		b.WriteString(c)
	}
	b.WriteString(s)
	b.WriteString(Reset)
	return b.String()
}

// Banner returns the styled CLI header.
func Banner(version string) string {
	return Style("Playfair — digraph cipher - "+version, Bold, Purple)
}

// --- Output formatting helpers ---

// GroupLetters splits s into chunks of n letters joined by sep, the usual
// way to print Playfair text ("BM OD ZB"). n <= 0 returns s unchanged.
func GroupLetters(s string, n int, sep string) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + len(s)/n*len(sep))
	for i := 0; i < len(s); i += n {
		if i > 0 {
			b.WriteString(sep)
		}
		end := i + n
		if end > len(s) {
			end = len(s)
		}
		b.WriteString(s[i:end])
	}
	return b.String()
}

// FormatSquare renders the key square as five lines of spaced letters.
func FormatSquare(g *Grid) []string {
	rows := g.Rows()
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = "  " + GroupLetters(r, 1, " ")
	}
	return out
}
