package gate

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// DefaultAttempts is how many wrong passphrases Prompt accepts.
const DefaultAttempts = 3

// ErrTooManyAttempts is returned when every attempt was wrong.
var ErrTooManyAttempts = errors.New("too many incorrect attempts")

// Prompter reads passphrases, without echo when in is a terminal.
type Prompter struct {
	in       *os.File
	out      io.Writer
	reader   *bufio.Reader
	attempts int
}

// NewPrompter creates a prompter reading from in and writing prompts to out.
func NewPrompter(in *os.File, out io.Writer) *Prompter {
	return &Prompter{in: in, out: out, attempts: DefaultAttempts}
}

// ReadPassphrase prints label and reads one line.
func (p *Prompter) ReadPassphrase(label string) (string, error) {
	fmt.Fprint(p.out, label)

	if term.IsTerminal(int(p.in.Fd())) {
		pw, err := term.ReadPassword(int(p.in.Fd()))
		fmt.Fprintln(p.out)
		if err != nil {
			return "", fmt.Errorf("failed to read passphrase: %w", err)
		}
		return string(pw), nil
	}

	if p.reader == nil {
		p.reader = bufio.NewReader(p.in)
	}
	line, err := p.reader.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", fmt.Errorf("failed to read passphrase: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Unlock returns immediately when the gate is already open, otherwise asks
// for the passphrase until it is correct or the attempts run out.
func (p *Prompter) Unlock(g *Gate) error {
	ok, err := g.Unlocked()
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	for range p.attempts {
		pw, err := p.ReadPassphrase("Passphrase: ")
		if err != nil {
			return err
		}
		err = g.Unlock(pw)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, ErrIncorrect), errors.Is(err, ErrEmpty):
			fmt.Fprintln(p.out, "Incorrect passphrase. Please try again.")
		default:
			return err
		}
	}
	return ErrTooManyAttempts
}

// ReadNewPassphrase asks twice and returns the passphrase if both match.
func (p *Prompter) ReadNewPassphrase() (string, error) {
	pw, err := p.ReadPassphrase("New passphrase: ")
	if err != nil {
		return "", err
	}
	if pw == "" {
		return "", ErrEmpty
	}
	confirm, err := p.ReadPassphrase("Confirm passphrase: ")
	if err != nil {
		return "", err
	}
	if pw != confirm {
		return "", errors.New("passphrases do not match")
	}
	return pw, nil
}
