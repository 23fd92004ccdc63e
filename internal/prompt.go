package internal

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"
)

// PromptForPassphrase reads the passphrase from the terminal without echoing
// it. With mask, input is read in raw mode and echoed as '*'. With confirm,
// the passphrase is asked twice and must match.
// Errors are concise and never echo the passphrase.
func PromptForPassphrase(mask, confirm bool) (string, error) {
	fd := int(syscall.Stdin)
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("prompt requires an interactive terminal")
	}

	read := func(prompt string) (string, error) {
		if !mask {
			fmt.Fprint(os.Stderr, "\r"+prompt)
			b, err := term.ReadPassword(fd)
			fmt.Fprintln(os.Stderr)
			if err != nil {
				return "", fmt.Errorf("failed to read passphrase")
			}
			return string(b), nil
		}
		return readMaskedTerminal(fd, prompt)
	}

	p1, err := read("Enter passphrase: ")
	if err != nil {
		return "", err
	}
	if !confirm {
		return p1, nil
	}
	p2, err := read("Re-enter passphrase: ")
	if err != nil {
		return "", err
	}
	if p1 != p2 {
		return "", fmt.Errorf("passphrases do not match")
	}
	return p1, nil
}

// readMaskedTerminal switches fd to raw mode for the duration of one entry
// and restores it on return or on SIGINT/SIGTERM.
func readMaskedTerminal(fd int, prompt string) (string, error) {
	fmt.Fprint(os.Stderr, "\r"+prompt)

	oldState, err := term.GetState(fd)
	if err != nil {
		return "", fmt.Errorf("terminal not ready")
	}
	restore := func() { _ = term.Restore(fd, oldState) }

	done := make(chan struct{})
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigc:
			restore()
			os.Exit(130)
		case <-done:
		}
	}()

	if _, err := term.MakeRaw(fd); err != nil {
		signal.Stop(sigc)
		close(done)
		return "", fmt.Errorf("terminal not ready")
	}
	defer func() { restore(); signal.Stop(sigc); close(done) }()

	return readMasked(os.Stdin, os.Stderr)
}

// readMasked reads one line from r byte by byte, echoing '*' to w for each
// printable character and handling backspace.
func readMasked(r io.Reader, w io.Writer) (string, error) {
	var buf []rune
	for {
		var b [1]byte
		n, er := r.Read(b[:])
		if er != nil || n == 0 {
			break
		}
		ch := rune(b[0])
		if ch == '\r' || ch == '\n' {
			fmt.Fprintln(w)
			break
		}
		if ch == 0x7f || ch == '\b' { // backspace/delete
			if len(buf) > 0 {
				buf = buf[:len(buf)-1]
				// Erase last '*'
				fmt.Fprint(w, "\b \b")
			}
			continue
		}
		// Ignore non-printable control characters
		if ch < 0x20 {
			continue
		}
		buf = append(buf, ch)
		fmt.Fprint(w, "*")
	}
	return string(buf), nil
}
