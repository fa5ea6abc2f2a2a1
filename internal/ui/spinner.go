package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	textStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

type taskResultMsg[T any] struct {
	data T
	err  error
}

type spinnerModel[T any] struct {
	spinner  spinner.Model
	text     string
	task     func() (T, error)
	result   T
	err      error
	done     bool
	quitting bool
}

func (m spinnerModel[T]) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		func() tea.Msg {
			res, err := m.task()
			return taskResultMsg[T]{data: res, err: err}
		},
	)
}

func (m spinnerModel[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// The task keeps running; there is nothing to cancel it with.
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case taskResultMsg[T]:
		m.result = msg.data
		m.err = msg.err
		m.done = true
		m.quitting = true
		return m, tea.Quit

	default:
		return m, nil
	}
}

func (m spinnerModel[T]) View() string {
	if m.quitting {
		return ""
	}
	return fmt.Sprintf("%s %s", m.spinner.View(), textStyle.Render(m.text))
}

// Spin runs a blocking task with a spinner on stderr and returns its result.
func Spin[T any](text string, task func() (T, error)) (T, error) {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	m := spinnerModel[T]{
		spinner: s,
		text:    text,
		task:    task,
	}

	var zero T
	// Use stderr to avoid polluting stdout
	p := tea.NewProgram(m, tea.WithOutput(os.Stderr))
	finalModel, err := p.Run()
	if err != nil {
		return zero, err
	}

	fm, ok := finalModel.(spinnerModel[T])
	if !ok || !fm.done {
		return zero, fmt.Errorf("internal error: spinner exited before task finished")
	}

	return fm.result, fm.err
}
