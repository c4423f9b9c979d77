// Package prompt asks the user yes/no questions before destructive steps.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrNotInteractive is returned when a confirmation is needed but stdin is not a terminal.
var ErrNotInteractive = errors.New("confirmation required but stdin is not a terminal (use --force)")

// Confirmer answers a yes/no question.
type Confirmer interface {
	Confirm(question string) (bool, error)
}

// AlwaysYes confirms everything. Used for --force and in tests.
type AlwaysYes struct{}

func (AlwaysYes) Confirm(string) (bool, error) { return true, nil }

// TerminalConfirmer prints the question and reads a y/N answer.
type TerminalConfirmer struct {
	in         io.Reader
	out        io.Writer
	isTerminal func() bool
}

// NewTerminalConfirmer reads from stdin and writes the question to stdout.
func NewTerminalConfirmer() *TerminalConfirmer {
	return &TerminalConfirmer{
		in:         os.Stdin,
		out:        os.Stdout,
		isTerminal: func() bool { return term.IsTerminal(int(os.Stdin.Fd())) },
	}
}

// NewConfirmer builds a confirmer over arbitrary streams.
// The input is treated as interactive.
func NewConfirmer(in io.Reader, out io.Writer) *TerminalConfirmer {
	return &TerminalConfirmer{in: in, out: out, isTerminal: func() bool { return true }}
}

// Confirm returns true only for an answer of "y" or "yes", case-insensitive.
// End of input counts as "no".
func (c *TerminalConfirmer) Confirm(question string) (bool, error) {
	if !c.isTerminal() {
		return false, ErrNotInteractive
	}

	fmt.Fprintf(c.out, "%s [y/N] ", question)

	line, err := bufio.NewReader(c.in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
