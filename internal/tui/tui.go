// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package tui runs a circuit interactively in a terminal.
//
// Keys: up/down (or k/j) select a circuit input, space or enter toggles it,
// p pauses or resumes the clock, s advances a single tick while paused, and q
// quits.
//
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/db47h/logicsim"
	"go.uber.org/zap"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cursorStyle = lipgloss.NewStyle().Bold(true)
	onStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(logicsim.WireOnColor))
	offStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(logicsim.WireOffColor))
	helpStyle   = lipgloss.NewStyle().Faint(true)
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// tickMsg carries the clock generation it was scheduled for. Pausing or
// resuming starts a new generation, so ticks in flight from an earlier one are
// dropped and only one tick chain runs at a time.
type tickMsg struct {
	gen  uint
	time time.Time
}

// Model is the bubbletea model of a running circuit.
//
type Model struct {
	c      *logicsim.Circuit
	rate   time.Duration
	cursor int
	paused bool
	gen    uint
}

// New returns a model ticking c every rate.
//
func New(c *logicsim.Circuit, rate time.Duration) Model {
	return Model{c: c, rate: rate}
}

// Circuit returns the simulated circuit.
//
func (m Model) Circuit() *logicsim.Circuit { return m.c }

// Paused reports whether the clock is stopped.
//
func (m Model) Paused() bool { return m.paused }

// Cursor returns the index of the selected circuit input.
//
func (m Model) Cursor() int { return m.cursor }

func (m Model) tick() tea.Cmd {
	gen := m.gen
	return tea.Tick(m.rate, func(t time.Time) tea.Msg { return tickMsg{gen: gen, time: t} })
}

// Init starts the clock.
//
func (m Model) Init() tea.Cmd { return m.tick() }

// Update handles key presses and clock ticks.
//
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if m.paused || msg.gen != m.gen {
			return m, nil
		}
		m.c.Update()
		return m, m.tick()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.c.Inputs())-1 {
				m.cursor++
			}
		case " ", "space", "enter":
			if err := m.c.ToggleInput(m.cursor); err != nil {
				logicsim.Logger().Debug("toggle", zap.Error(err))
			}
		case "s":
			if m.paused {
				m.c.Update()
			}
		case "p":
			m.paused = !m.paused
			m.gen++
			if !m.paused {
				return m, m.tick()
			}
		}
	}
	return m, nil
}

func level(s bool) string {
	if s {
		return onStyle.Render("1")
	}
	return offStyle.Render("0")
}

// View renders the circuit ports.
//
func (m Model) View() string {
	var in, out strings.Builder
	in.WriteString("inputs\n")
	for i, s := range m.c.InputStates() {
		mark := "  "
		if i == m.cursor {
			mark = cursorStyle.Render("> ")
		}
		fmt.Fprintf(&in, "%s%2d %s\n", mark, i, level(s))
	}
	out.WriteString("outputs\n")
	for i, s := range m.c.OutputStates() {
		fmt.Fprintf(&out, "%2d %s\n", i, level(s))
	}
	state := "running"
	if m.paused {
		state = "paused"
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(fmt.Sprintf("%s  tick %d  %s", m.c.Name, m.c.Steps(), state)),
		lipgloss.JoinHorizontal(lipgloss.Top,
			panelStyle.Render(strings.TrimSuffix(in.String(), "\n")),
			panelStyle.Render(strings.TrimSuffix(out.String(), "\n"))),
		helpStyle.Render("↑/↓ select  space toggle  p pause  s step  q quit"),
	)
}

// Run runs the model until the user quits.
//
func Run(c *logicsim.Circuit, rate time.Duration) error {
	_, err := tea.NewProgram(New(c, rate), tea.WithAltScreen()).Run()
	return err
}
