// Package tui shows a transmitted Kitty image inside a Bubble Tea program
// using Unicode placeholders, so the image moves with the text around it.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	kittyimg "github.com/blacktop/go-kittyimg"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F87"))
)

type keyMap struct {
	Quit key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q/esc", "quit"),
	),
}

// Model renders a caption, the placeholder grid of an already placed image
// and a key legend. The image must be transmitted and placed before the
// program starts; the model only prints placeholder text.
type Model struct {
	grid    kittyimg.Grid
	title   string
	lines   []string
	err     error
	width   int
	quitted bool
	help    help.Model
}

// New returns a model for grid. The placeholder rows are rendered once.
func New(grid kittyimg.Grid, title string) Model {
	lines, err := kittyimg.RenderGrid(grid)
	return Model{
		grid:  grid,
		title: title,
		lines: lines,
		err:   err,
		help:  help.New(),
	}
}

// Err returns the error from rendering the grid, if any
func (m Model) Err() error {
	return m.err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			m.quitted = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitted {
		return ""
	}

	var b strings.Builder
	title := m.title
	if m.width > 0 {
		title = ansi.Truncate(title, m.width, "…")
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	} else if m.width > 0 && m.grid.Columns > m.width {
		// A wrapped placeholder row would address the wrong cells
		b.WriteString(errorStyle.Render("window too narrow for image"))
		b.WriteString("\n")
	} else {
		for _, line := range m.lines {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(keys))
	return b.String()
}
