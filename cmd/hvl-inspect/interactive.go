package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/h5bridge/varlen/alloc/tracked"
)

const chromeHeight = 4 // title, blank line, summary, help

type inspectModel struct {
	tracker  *tracked.Tracker
	viewport viewport.Model
	scenario string
	ready    bool
}

func runInteractive(scenario string, tr *tracked.Tracker) error {
	m := inspectModel{scenario: scenario, tracker: tr}
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (m inspectModel) Init() tea.Cmd {
	return nil
}

func (m inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-chromeHeight)
			m.viewport.SetContent(strings.Join(ledgerLines(m.tracker), "\n"))
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - chromeHeight
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m inspectModel) View() string {
	if !m.ready {
		return "loading..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("hvl-inspect: %s (%d events)",
		m.scenario, len(m.tracker.Events()))))
	b.WriteString("\n\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(summaryLine(m.tracker))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ scroll · q quit"))
	return b.String()
}
