package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/agentsync-dev/agentsync/internal/tui"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Open the interactive sync dashboard",
	Long: `Open a terminal dashboard showing sync state across all tools, with
tabs for MCP servers, skills, commands, and infrastructure. Fixes can
be previewed and applied without leaving the dashboard.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard()
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

// runDashboard starts the TUI. The bare root command also lands here.
func runDashboard() error {
	d, err := newDeps()
	if err != nil {
		return err
	}

	app := tui.NewApp(tui.Config{
		Paths:   d.paths,
		Enabled: d.enabled,
		Opts:    d.opts,
	})

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running dashboard: %w", err)
	}
	return nil
}
