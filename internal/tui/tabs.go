package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Dashboard tab indices, in display order.
const (
	tabOverview = iota
	tabMCP
	tabSkills
	tabCommands
	tabInfra
	tabFixLog
	tabCount
)

// tabActiveMsg is emitted after the active tab changes.
type tabActiveMsg int

// tabsModel is the horizontal tab bar across the top of the dashboard.
//
// Visual style:
//
//	Overview  │  MCP (4)  │  Skills (12)
//	────────
type tabsModel struct {
	labels    []string // labels including counts, e.g. "MCP (4)"
	activeTab int
}

func newTabsModel() tabsModel {
	return tabsModel{
		labels: []string{"Overview", "MCP", "Skills", "Commands", "Infra", "Fix Log"},
	}
}

// setLabels replaces the label set, keeping the active index in range.
func (m tabsModel) setLabels(labels []string) tabsModel {
	m.labels = labels
	if m.activeTab >= len(labels) {
		m.activeTab = 0
	}
	return m
}

// update handles tab/shift+tab and h/l to cycle through tabs. Returns the
// updated model, an optional command, and whether the key was consumed.
func (m tabsModel) update(msg tea.Msg) (tabsModel, tea.Cmd, bool) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil, false
	}

	n := len(m.labels)
	if n == 0 {
		return m, nil, false
	}

	switch {
	case key.Matches(kmsg, keys.Tab), key.Matches(kmsg, keys.Right):
		m.activeTab = (m.activeTab + 1) % n
		return m, func() tea.Msg { return tabActiveMsg(m.activeTab) }, true

	case key.Matches(kmsg, keys.ShiftTab), key.Matches(kmsg, keys.Left):
		m.activeTab = (m.activeTab - 1 + n) % n
		return m, func() tea.Msg { return tabActiveMsg(m.activeTab) }, true
	}

	return m, nil, false
}

// view renders the tab bar as a label line plus an underline below the
// active tab.
func (m tabsModel) view() string {
	if len(m.labels) == 0 {
		return ""
	}

	sep := tabSeparatorStyle.Render("│")

	var parts []string
	for i, label := range m.labels {
		if i == m.activeTab {
			parts = append(parts, tabActiveStyle.Render(label))
		} else {
			parts = append(parts, tabInactiveStyle.Render(label))
		}
	}

	tabLine := "  " + strings.Join(parts, sep)

	activeW := lipgloss.Width(m.labels[m.activeTab])

	offset := 2 // leading indent "  "
	for i := 0; i < m.activeTab; i++ {
		offset += lipgloss.Width(m.labels[i])
		offset += lipgloss.Width(sep)
	}

	underline := strings.Repeat(" ", offset) +
		tabUnderlineStyle.Render(strings.Repeat("─", activeW))

	return tabLine + "\n" + underline
}
