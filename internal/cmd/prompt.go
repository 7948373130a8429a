package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"ghtool/pkg/fuzzy"
)

// prompter reads answers from one shared buffered reader so that prompts,
// selections and the interactive loop never lose each other's input.
type prompter struct {
	in  *bufio.Reader
	raw io.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), raw: in, out: out}
}

// Line prints prompt and returns the trimmed answer. io.EOF is returned when
// the input ended before anything was typed.
func (p *prompter) Line(prompt string) (string, error) {
	_, _ = fmt.Fprint(p.out, prompt)

	input, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && input != "" {
			return strings.TrimSpace(input), nil
		}
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// Confirm asks a yes/no question; anything but y or yes is a no
func (p *prompter) Confirm(prompt string) (bool, error) {
	answer, err := p.Line(prompt + " (y/n): ")
	if err != nil {
		return false, err
	}
	if fuzzy.IsQuit(answer) {
		return false, nil
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Secret reads a value without echo when input is a terminal
func (p *prompter) Secret(prompt string) (string, error) {
	if file, ok := p.raw.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		_, _ = fmt.Fprint(p.out, prompt)
		value, err := term.ReadPassword(int(file.Fd()))
		_, _ = fmt.Fprintln(p.out)
		if err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return strings.TrimSpace(string(value)), nil
	}
	return p.Line(prompt)
}
