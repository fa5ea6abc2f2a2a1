package ui

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrCancelled is returned when the operator backs out of a prompt.
var ErrCancelled = errors.New("cancelled")

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	quitTextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// ReadProfile asks for an AWS profile name on the terminal. Enter on an
// empty line keeps the prompt open; Esc or Ctrl+C cancels.
func ReadProfile(prompt string) (string, error) {
	p := tea.NewProgram(newProfileModel(prompt), tea.WithOutput(os.Stderr))
	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	if m, ok := finalModel.(profileModel); ok && m.complete {
		return m.value(), nil
	}
	return "", ErrCancelled
}

type profileModel struct {
	textInput textinput.Model
	prompt    string
	hint      string
	complete  bool
	quitting  bool
}

func newProfileModel(prompt string) profileModel {
	ti := textinput.New()
	ti.Placeholder = "profile name from ~/.aws/config"
	ti.Prompt = "› "
	ti.CharLimit = 128
	ti.Width = 40
	ti.Focus()

	return profileModel{textInput: ti, prompt: prompt}
}

func (m profileModel) value() string {
	return strings.TrimSpace(m.textInput.Value())
}

func (m profileModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m profileModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEnter:
			if m.value() == "" {
				m.hint = "A profile name is required."
				return m, nil
			}
			m.complete = true
			return m, tea.Quit
		}
		m.hint = ""
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m profileModel) View() string {
	if m.complete {
		return ""
	}
	if m.quitting {
		return quitTextStyle.Render("Cancelled.") + "\n"
	}
	hint := ""
	if m.hint != "" {
		hint = hintStyle.Render(m.hint) + "\n"
	}
	return fmt.Sprintf("\n%s\n\n%s\n%s\n", titleStyle.Render(m.prompt), m.textInput.View(), hint)
}
