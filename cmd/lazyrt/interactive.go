package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/wippyai/lazy-runtime/config"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	demoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	summaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type interactiveModel struct {
	err      error
	cfg      *config.Config
	result   string
	names    []string
	input    textinput.Model
	selected int
	state    modelState
}

type modelState int

const (
	stateSelectDemo modelState = iota
	stateInputArg
	stateShowResult
)

type runResultMsg struct {
	err    error
	result string
}

func newInteractiveModel(cfg *config.Config) *interactiveModel {
	return &interactiveModel{
		cfg:   cfg,
		names: demoNames(),
		state: stateSelectDemo,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state != stateInputArg {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectDemo && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectDemo && m.selected < len(m.names)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectDemo:
				m.prepareInput()
				m.state = stateInputArg
				return m, textinput.Blink

			case stateInputArg:
				return m, m.runSelected

			case stateShowResult:
				m.reset()
			}

		case "esc":
			if m.state != stateSelectDemo {
				m.reset()
			}
		}

	case runResultMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
	}

	if m.state == stateInputArg {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *interactiveModel) reset() {
	m.state = stateSelectDemo
	m.result = ""
	m.err = nil
}

func (m *interactiveModel) prepareInput() {
	d := demos[m.names[m.selected]]
	ti := textinput.New()
	ti.Placeholder = strconv.Itoa(d.def)
	ti.Prompt = "n: "
	ti.Width = 20
	ti.Focus()
	m.input = ti
}

func (m *interactiveModel) runSelected() tea.Msg {
	n := -1
	if v := strings.TrimSpace(m.input.Value()); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return runResultMsg{err: fmt.Errorf("invalid argument %q", v)}
		}
		n = parsed
	}
	// Logging would draw over the alternate screen.
	out, err := runDemo(context.Background(), m.cfg, zap.NewNop(), m.names[m.selected], n)
	return runResultMsg{result: out, err: err}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Lazy Runtime"))
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectDemo:
		b.WriteString("Select a demo to run:\n\n")
		for i, name := range m.names {
			line := m.formatDemo(name)
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter choose • q quit"))

	case stateInputArg:
		name := m.names[m.selected]
		b.WriteString(fmt.Sprintf("Running %s\n\n", demoStyle.Render(name)))
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter run • esc back"))

	case stateShowResult:
		name := m.names[m.selected]
		b.WriteString(fmt.Sprintf("Result of %s:\n\n", demoStyle.Render(name)))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func (m *interactiveModel) formatDemo(name string) string {
	return demoStyle.Render(fmt.Sprintf("%-10s", name)) + " " + summaryStyle.Render(demos[name].summary)
}

func runInteractive(cfg *config.Config) error {
	p := tea.NewProgram(newInteractiveModel(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
