package session

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoInput indicates the input stream ended before an answer was given.
var ErrNoInput = errors.New("no input")

// Prompter asks a question and returns the raw line typed in response.
type Prompter interface {
	Prompt(message string) (string, error)
}

// LinePrompter prints prompts to an io.Writer and reads one line per answer.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLinePrompter wraps in and out. A nil out suppresses prompt text.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

func (p *LinePrompter) Prompt(message string) (string, error) {
	if p.out != nil {
		fmt.Fprintln(p.out, message)
	}
	line, err := p.in.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read answer: %w", err)
		}
		if line == "" {
			return "", ErrNoInput
		}
	}
	return strings.TrimRight(line, "\r\n"), nil
}
