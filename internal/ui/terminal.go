package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Terminal is the interactive console: line input, masked input and a
// single keypress, all read from the same input.
type Terminal struct {
	in     *os.File
	out    io.Writer
	reader *bufio.Reader
}

// NewTerminal reads from in and echoes to out.
func NewTerminal(in *os.File, out io.Writer) *Terminal {
	return &Terminal{
		in:     in,
		out:    out,
		reader: bufio.NewReader(in),
	}
}

func (t *Terminal) fd() int {
	return int(t.in.Fd())
}

// IsInteractive reports whether input comes from a terminal.
func (t *Terminal) IsInteractive() bool {
	return term.IsTerminal(t.fd())
}

// ReadLine prompts for one line of text.
func (t *Terminal) ReadLine(prompt string) (string, error) {
	if t.IsInteractive() {
		return ReadProfile(prompt)
	}

	fmt.Fprintln(t.out, prompt)
	line, err := t.reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// ReadMasked prompts once and reads a masked code; see ReadMasked.
func (t *Terminal) ReadMasked(prompt string) (string, error) {
	fmt.Fprint(t.out, prompt)

	var code string
	err := WithRawMode(t.fd(), func() error {
		var err error
		code, err = ReadMasked(t.reader, t.out)
		return err
	})
	return code, err
}

// WaitKey prints prompt and blocks until any key is pressed.
func (t *Terminal) WaitKey(prompt string) error {
	fmt.Fprint(t.out, prompt)
	defer fmt.Fprint(t.out, "\r\n")

	return WithRawMode(t.fd(), func() error {
		return ReadKey(t.reader)
	})
}
