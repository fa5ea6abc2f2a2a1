package ui

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"
)

const (
	keyBackspace = 8
	keyNewline   = 10
	keyEnter     = 13
	keyEscape    = 27
	keyDelete    = 127

	// MaskChar is echoed in place of every accepted keystroke.
	MaskChar = "*"
)

// WithRawMode puts fd into raw mode for the duration of fn and restores it
// on every exit path, panics included. Non-terminals run fn unchanged.
func WithRawMode(fd int, fn func() error) (err error) {
	if !term.IsTerminal(fd) {
		return fn()
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to set terminal mode: %w", err)
	}
	defer func() {
		if rerr := term.Restore(fd, oldState); rerr != nil && err == nil {
			err = fmt.Errorf("failed to restore terminal: %w", rerr)
		}
	}()

	return fn()
}

// Escape sequence states. Arrow and function keys arrive as ESC [ ... or
// ESC O x and must not end up in the code.
const (
	seqNone = iota
	seqEscape
	seqCSI
	seqSS3
)

// ReadMasked reads keystrokes one byte at a time until Enter, echoing
// MaskChar for printable input and erasing on backspace.
func ReadMasked(r io.Reader, w io.Writer) (string, error) {
	var code []byte
	buf := make([]byte, 1)
	seq := seqNone

	for {
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		c := buf[0]

		switch seq {
		case seqEscape:
			seq = seqNone
			if c == '[' {
				seq = seqCSI
				continue
			}
			if c == 'O' {
				seq = seqSS3
				continue
			}
		case seqCSI:
			// Parameter bytes until the final byte 0x40-0x7E.
			if c >= 0x40 && c <= 0x7e {
				seq = seqNone
			}
			continue
		case seqSS3:
			seq = seqNone
			continue
		}

		switch {
		case c == keyEnter || c == keyNewline:
			fmt.Fprint(w, "\r\n")
			return strings.TrimSpace(string(code)), nil
		case c == keyBackspace || c == keyDelete:
			if len(code) > 0 {
				code = code[:len(code)-1]
				fmt.Fprint(w, "\b \b")
			}
		case c == keyEscape:
			seq = seqEscape
		case c >= 32 && c <= 126:
			code = append(code, c)
			fmt.Fprint(w, MaskChar)
		}
	}
}

// ReadKey waits for a single keystroke. End of input counts as a key.
func ReadKey(r io.Reader) error {
	buf := make([]byte, 1)
	if _, err := r.Read(buf); err != nil && err != io.EOF {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}
