package tui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// ErrCancelled is returned when the operator leaves the prompt.
var ErrCancelled = errors.New("prompt cancelled")

// Prompter asks questions on a terminal with a bubbletea text input, or line
// by line when the streams are not a terminal.
type Prompter struct {
	in          io.Reader
	out         io.Writer
	interactive bool
	lines       *bufio.Reader
}

func NewPrompter(in io.Reader, out io.Writer, interactive bool) *Prompter {
	return &Prompter{in: in, out: out, interactive: interactive}
}

func (p *Prompter) Ask(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !p.interactive {
		return p.askLine(prompt)
	}
	program := tea.NewProgram(NewPromptModel(prompt),
		tea.WithInput(p.in),
		tea.WithOutput(p.out),
		tea.WithContext(ctx),
	)
	final, err := program.Run()
	if err != nil {
		return "", err
	}
	m, ok := final.(PromptModel)
	if !ok || m.Phase != PhaseSubmitted {
		return "", ErrCancelled
	}
	return m.Value, nil
}

func (p *Prompter) askLine(prompt string) (string, error) {
	if p.lines == nil {
		p.lines = bufio.NewReader(p.in)
	}
	fmt.Fprintf(p.out, "%s ", prompt)
	line, err := p.lines.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", ErrCancelled
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
