package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

type prompter struct {
	in  *bufio.Reader
	out io.Writer
	// fd is the terminal behind in, or -1 when in is not a terminal
	fd int
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	fd := -1
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd = int(f.Fd())
	}
	return &prompter{in: bufio.NewReader(in), out: out, fd: fd}
}

// text prints prompt and reads one trimmed line.
func (p *prompter) text(prompt string) (string, error) {
	line, err := p.line(prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// line prints prompt and reads one line without its line ending. A final
// line without a newline is accepted.
func (p *prompter) line(prompt string) (string, error) {
	if _, err := fmt.Fprintf(p.out, "%s: ", prompt); err != nil {
		return "", err
	}
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// password reads without echo when stdin is a terminal and falls back to a
// plain line otherwise, so the CLI can be scripted.
func (p *prompter) password() (string, error) {
	if p.fd < 0 {
		return p.line("Password")
	}

	fmt.Fprint(p.out, "Password: ")
	pw, err := term.ReadPassword(p.fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}
