package internal

import (
	"fmt"
	"io"
	"strings"

	"rsc.io/qr"
)

// qrQuiet is the blank margin, in modules, around the symbol.
const qrQuiet = 2

// RenderQR writes text as a QR code drawn with half-block characters, two
// module rows per output line. With invert, light modules are drawn filled,
// which scans better on dark terminals.
func RenderQR(w io.Writer, text string, invert bool) error {
	code, err := qr.Encode(text, qr.M)
	if err != nil {
		return fmt.Errorf("qr encode: %w", err)
	}
	for _, line := range qrLines(code, invert) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func qrLines(code *qr.Code, invert bool) []string {
	n := code.Size + 2*qrQuiet
	dark := func(x, y int) bool {
		x -= qrQuiet
		y -= qrQuiet
		on := x >= 0 && y >= 0 && x < code.Size && y < code.Size && code.Black(x, y)
		return on != invert
	}
	lines := make([]string, 0, (n+1)/2)
	for y := 0; y < n; y += 2 {
		var b strings.Builder
		for x := 0; x < n; x++ {
			top, bottom := dark(x, y), y+1 < n && dark(x, y+1)
			switch {
			case top && bottom:
				b.WriteRune('█')
			case top:
				b.WriteRune('▀')
			case bottom:
				b.WriteRune('▄')
			default:
				b.WriteRune(' ')
			}
		}
		lines = append(lines, b.String())
	}
	return lines
}
