package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Phase represents the state of the prompt.
type Phase int

const (
	PhaseInput Phase = iota
	PhaseSubmitted
	PhaseCancelled
)

// PromptModel asks for one line of free text. The typed text is echoed so
// the operator sees exactly what is compared.
type PromptModel struct {
	prompt string
	input  textinput.Model
	Phase  Phase
	Value  string
}

func NewPromptModel(prompt string) PromptModel {
	in := textinput.New()
	in.Prompt = "> "
	in.CharLimit = 64
	in.Width = 32
	in.Focus()
	return PromptModel{prompt: prompt, input: in}
}

func (m PromptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m PromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.Phase = PhaseCancelled
			return m, tea.Quit
		case tea.KeyEnter:
			m.Phase = PhaseSubmitted
			m.Value = m.input.Value()
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m PromptModel) View() string {
	var b strings.Builder
	header := lipgloss.JoinHorizontal(lipgloss.Left,
		titleStyle.Render("camsync"),
		" ",
		warningBoxStyle.Render(fmt.Sprintf("%s destructive operation", iconWarning)),
	)
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(promptStyle.Render(m.prompt))
	b.WriteString("\n")

	switch m.Phase {
	case PhaseCancelled:
		b.WriteString(cancelledStyle.Render(fmt.Sprintf("%s cancelled", iconError)))
		b.WriteString("\n")
		return b.String()
	case PhaseSubmitted:
		b.WriteString("> " + m.Value)
		b.WriteString("\n")
		return b.String()
	}
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("Enter to confirm • Esc to cancel"))
	b.WriteString("\n")
	return b.String()
}
