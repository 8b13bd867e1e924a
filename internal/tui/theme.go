package tui

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	colorPrimary   = lipgloss.Color("#2563EB") // Blue
	colorSecondary = lipgloss.Color("#60A5FA") // Light blue
	colorSuccess   = lipgloss.Color("#10B981") // Green (synced)
	colorDanger    = lipgloss.Color("#EF4444") // Red (missing, errors)
	colorMuted     = lipgloss.Color("#6B7280") // Gray
	colorBorder    = lipgloss.Color("#374151") // Dark gray
	colorWarning   = lipgloss.Color("#F59E0B") // Amber (drift)
)

// Shared styles used across dashboard views.
var (
	// Header bar: "AgentSync  ~/.agents"
	logoStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(colorPrimary).
			Padding(0, 1)

	headerPathStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F3F4F6")).
			Padding(0, 1)

	headerStatusStyle = lipgloss.NewStyle().
				Foreground(colorMuted)

	// Main content area.
	contentStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(1, 2)

	// Section header within a tab (e.g. "MCP SERVERS").
	sectionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorMuted)

	// Section header rule (the ─── line around the label).
	sectionRuleStyle = lipgloss.NewStyle().
				Foreground(colorBorder)

	// Selected row in a scrollable list.
	selectedItemStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorPrimary)

	// Muted text (details, secondary info).
	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	// Per-status text styles.
	syncedStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	driftStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	missingStyle = lipgloss.NewStyle().
			Foreground(colorDanger)

	extraStyle = lipgloss.NewStyle().
			Foreground(colorSecondary)

	// Error text.
	errorStyle = lipgloss.NewStyle().
			Foreground(colorDanger)

	// Help text at the bottom.
	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	// Tab bar.
	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorSecondary)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(colorMuted)

	tabSeparatorStyle = lipgloss.NewStyle().
				Foreground(colorBorder)

	tabUnderlineStyle = lipgloss.NewStyle().
				Foreground(colorSecondary)

	// Status bar transient messages.
	statusSuccessStyle = lipgloss.NewStyle().
				Foreground(colorSuccess)

	statusErrorStyle = lipgloss.NewStyle().
				Foreground(colorDanger)

	statusWarningStyle = lipgloss.NewStyle().
				Foreground(colorWarning)

	statusTaskStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	// Viewport overlay (command body preview).
	viewportTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#D1D5DB")).
				Background(colorBorder).
				Padding(0, 1)

	// Preview scroll percentage badge.
	previewPctStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D1D5DB")).
			Background(colorBorder)

	// Spinner style.
	spinnerStyle = lipgloss.NewStyle().
			Foreground(colorSecondary)

	// Confirmation dialog.
	dialogBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(1, 2)

	dialogButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFF7DB")).
				Background(colorMuted).
				Padding(0, 2)

	dialogActiveButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFF7DB")).
				Background(colorDanger).
				Padding(0, 2).
				Bold(true)
)

// renderSectionHeader renders a section label with short rules on both sides:
// "  ── MCP SERVERS ──"
func renderSectionHeader(label string) string {
	rule := sectionRuleStyle.Render("──")
	text := sectionHeaderStyle.Render(" " + label + " ")
	return "  " + rule + text + rule
}
