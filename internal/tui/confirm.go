package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// confirmModel gates fix application behind a modal prompt. While active
// it swallows every key so nothing reaches the tabs or global bindings.
// The cursor starts on Cancel: applying rewrites tool config files, so
// bailing out must be the zero-effort path.
type confirmModel struct {
	active  bool
	prompt  string
	action  tea.Cmd // Runs when the user picks Apply.
	choice  int     // Index into confirmChoices.
	width   int
	height  int
}

// Button order mirrors the render order, left to right.
const (
	choiceApply = iota
	choiceCancel
)

var confirmChoices = [...]string{"Apply", "Cancel"}

// confirmResultMsg reports the user's decision back to the app.
type confirmResultMsg struct {
	confirmed bool
}

type confirmKeyMap struct {
	apply  key.Binding
	cancel key.Binding
	move   key.Binding
}

var confirmKeys = confirmKeyMap{
	apply: key.NewBinding(
		key.WithKeys("y", "Y"),
		key.WithHelp("y", "apply"),
	),
	cancel: key.NewBinding(
		key.WithKeys("n", "N", "esc"),
		key.WithHelp("n", "cancel"),
	),
	move: key.NewBinding(
		key.WithKeys("left", "right", "h", "l", "tab", "shift+tab"),
	),
}

func newConfirmModel() confirmModel {
	return confirmModel{choice: choiceCancel}
}

// show arms the dialog with a prompt and the command to run on Apply.
func (m confirmModel) show(prompt string, action tea.Cmd) confirmModel {
	m.active = true
	m.prompt = prompt
	m.action = action
	m.choice = choiceCancel
	return m
}

// setSize updates the area the dialog centers itself in.
func (m confirmModel) setSize(width, height int) confirmModel {
	m.width = width
	m.height = height
	return m
}

// resolve closes the dialog and emits the decision. The stored action
// only runs on a confirmed resolve.
func (m confirmModel) resolve(confirmed bool) (confirmModel, tea.Cmd) {
	action := m.action
	m.active = false
	m.prompt = ""
	m.action = nil
	m.choice = choiceCancel

	result := func() tea.Msg { return confirmResultMsg{confirmed: confirmed} }
	if confirmed && action != nil {
		return m, tea.Batch(action, result)
	}
	return m, result
}

// update handles key input while the dialog is active. The third return
// reports whether the message was consumed.
func (m confirmModel) update(msg tea.Msg) (confirmModel, tea.Cmd, bool) {
	if !m.active {
		return m, nil, false
	}
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil, false
	}

	switch {
	case key.Matches(keyMsg, confirmKeys.apply):
		m, cmd := m.resolve(true)
		return m, cmd, true

	case key.Matches(keyMsg, confirmKeys.cancel), key.Matches(keyMsg, keys.Back):
		m, cmd := m.resolve(false)
		return m, cmd, true

	case key.Matches(keyMsg, keys.Enter):
		m, cmd := m.resolve(m.choice == choiceApply)
		return m, cmd, true

	case key.Matches(keyMsg, confirmKeys.move):
		// Two buttons, so every movement key is a toggle.
		m.choice = 1 - m.choice
		return m, nil, true
	}

	// Swallow everything else while armed.
	return m, nil, true
}

// view renders the centered dialog: prompt, button row, key hint.
func (m confirmModel) view() string {
	if !m.active {
		return ""
	}

	prompt := lipgloss.NewStyle().
		Width(44).
		Align(lipgloss.Center).
		Render(m.prompt)

	row := make([]string, 0, 2*len(confirmChoices)-1)
	for i, label := range confirmChoices {
		style := dialogButtonStyle
		if i == m.choice {
			style = dialogActiveButtonStyle
		}
		if i > 0 {
			row = append(row, "  ")
		}
		row = append(row, style.Render(label))
	}
	buttons := lipgloss.JoinHorizontal(lipgloss.Top, row...)

	hint := helpStyle.Render("y apply · n cancel · enter select")

	dialog := dialogBoxStyle.Render(
		lipgloss.JoinVertical(lipgloss.Center, prompt, "", buttons, "", hint),
	)
	if m.width <= 0 || m.height <= 0 {
		return dialog
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, dialog)
}
