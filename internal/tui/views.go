package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/agentsync-dev/agentsync/internal/core/state"
)

// detailWidth caps item detail text so rows stay on one line on narrow
// terminals.
const detailWidth = 72

// statusGlyph returns a styled one-character marker for a sync status.
func statusGlyph(s state.SyncStatus) string {
	switch s {
	case state.StatusSynced:
		return syncedStyle.Render("✓")
	case state.StatusDrift:
		return driftStyle.Render("≠")
	case state.StatusMissing:
		return missingStyle.Render("✗")
	case state.StatusExtra:
		return extraStyle.Render("+")
	case state.StatusNotApplicable:
		return mutedStyle.Render("–")
	}
	return " "
}

// itemsOfType filters report items to the given content types.
func itemsOfType(report *state.SyncReport, types ...string) []state.SyncItem {
	want := map[string]bool{}
	for _, t := range types {
		want[t] = true
	}
	var out []state.SyncItem
	for _, item := range report.Items {
		if want[item.ContentType] {
			out = append(out, item)
		}
	}
	return out
}

// renderItemRows renders one line per sync item: glyph, name, tool, detail.
func renderItemRows(items []state.SyncItem) string {
	if len(items) == 0 {
		return mutedStyle.Render("  Nothing to show.")
	}

	nameW := 0
	for _, item := range items {
		if w := len(item.ItemName); w > nameW {
			nameW = w
		}
	}

	var b strings.Builder
	for _, item := range items {
		fmt.Fprintf(&b, "  %s %-*s  %-8s  %s\n",
			statusGlyph(item.Status),
			nameW, item.ItemName,
			item.Tool,
			mutedStyle.Render(ansi.Truncate(item.Detail, detailWidth, "…")),
		)
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderOverview renders the Overview tab: overall verdict, status counts,
// and a per-tool configuration summary.
func renderOverview(report *state.SyncReport) string {
	var b strings.Builder

	b.WriteString(renderSectionHeader("STATUS"))
	b.WriteString("\n\n")

	overall := report.OverallStatus()
	if overall == state.StatusSynced {
		b.WriteString("  " + syncedStyle.Render("✓ Everything is in sync") + "\n")
	} else {
		b.WriteString("  " + driftStyle.Render("≠ Drift detected") + "\n")
	}
	fmt.Fprintf(&b, "\n  %s synced    %s drift    %s missing    %s extra\n",
		syncedStyle.Render(fmt.Sprintf("%d", report.SyncedCount())),
		driftStyle.Render(fmt.Sprintf("%d", report.DriftCount())),
		missingStyle.Render(fmt.Sprintf("%d", report.MissingCount())),
		extraStyle.Render(fmt.Sprintf("%d", report.ExtraCount())),
	)

	if n := report.FixableCount(); n > 0 {
		fmt.Fprintf(&b, "\n  %s\n", driftStyle.Render(fmt.Sprintf("%d fix(es) available — press f to apply", n)))
	}

	b.WriteString("\n")
	b.WriteString(renderSectionHeader("TOOLS"))
	b.WriteString("\n\n")

	for _, t := range state.AllTools() {
		tc, ok := report.ToolConfigs[t]
		if !ok {
			fmt.Fprintf(&b, "  %-20s %s\n", t.DisplayName(), mutedStyle.Render("disabled"))
			continue
		}
		parts := []string{
			fmt.Sprintf("%d MCP", len(tc.MCPServers)),
			fmt.Sprintf("%d skills", len(tc.Skills)),
			fmt.Sprintf("%d commands", len(tc.Commands)),
		}
		if tc.Model != "" {
			parts = append(parts, "model "+tc.Model)
		}
		fmt.Fprintf(&b, "  %-20s %s\n", t.DisplayName(), mutedStyle.Render(strings.Join(parts, " · ")))
	}

	if report.Canonical != nil {
		b.WriteString("\n")
		b.WriteString(renderSectionHeader("CANONICAL"))
		b.WriteString("\n\n")
		c := report.Canonical
		fmt.Fprintf(&b, "  %s\n", c.AgentsDir)
		fmt.Fprintf(&b, "  %s\n", mutedStyle.Render(fmt.Sprintf(
			"%d MCP servers · %d skills · %d commands · %d workflows",
			len(c.MCPServers), len(c.Skills), len(c.Commands), len(c.ProductWorkflows))))
	}

	return b.String()
}

// renderMCPTab renders the MCP tab: one row per (server, tool) comparison.
func renderMCPTab(report *state.SyncReport) string {
	var b strings.Builder
	b.WriteString(renderSectionHeader("MCP SERVERS"))
	b.WriteString("\n\n")
	b.WriteString(renderItemRows(itemsOfType(report, state.ContentMCP)))
	return b.String()
}

// renderSkillsTab renders the Skills tab, including plugin rows since both
// travel through the skills-hub.
func renderSkillsTab(report *state.SyncReport) string {
	var b strings.Builder
	b.WriteString(renderSectionHeader("SKILLS"))
	b.WriteString("\n\n")
	b.WriteString(renderItemRows(itemsOfType(report, state.ContentSkill)))

	if plugins := itemsOfType(report, state.ContentPlugin); len(plugins) > 0 {
		b.WriteString("\n\n")
		b.WriteString(renderSectionHeader("COPILOT PLUGINS"))
		b.WriteString("\n\n")
		b.WriteString(renderItemRows(plugins))
	}
	return b.String()
}

// renderCommandsTab renders the Commands tab with a selectable list of
// canonical commands followed by the per-tool comparison rows.
func renderCommandsTab(report *state.SyncReport, cursor int) string {
	var b strings.Builder
	b.WriteString(renderSectionHeader("CANONICAL COMMANDS"))
	b.WriteString("\n\n")

	cmds := previewableCommands(report)
	if len(cmds) == 0 {
		b.WriteString(mutedStyle.Render("  No canonical commands found."))
	} else {
		for i, c := range cmds {
			name := c.DisplayName()
			if i == cursor {
				fmt.Fprintf(&b, "  %s %s\n", selectedItemStyle.Render("▸ "+name), mutedStyle.Render(c.Description))
			} else {
				fmt.Fprintf(&b, "    %s %s\n", name, mutedStyle.Render(c.Description))
			}
		}
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("  enter: preview body"))
	}

	b.WriteString("\n\n")
	b.WriteString(renderSectionHeader("SYNC STATE"))
	b.WriteString("\n\n")
	b.WriteString(renderItemRows(itemsOfType(report, state.ContentCommand)))
	return b.String()
}

// previewableCommands returns the canonical commands in report order.
func previewableCommands(report *state.SyncReport) []state.Command {
	if report == nil || report.Canonical == nil {
		return nil
	}
	return report.Canonical.Commands
}

// renderInfraTab renders the Infra tab: symlink and config-grant checks.
func renderInfraTab(report *state.SyncReport) string {
	var b strings.Builder
	b.WriteString(renderSectionHeader("INFRASTRUCTURE"))
	b.WriteString("\n\n")
	b.WriteString(renderItemRows(itemsOfType(report, state.ContentSymlink, state.ContentConfig)))
	return b.String()
}

// renderFixLog renders the Fix Log tab from accumulated action lines.
func renderFixLog(log []string) string {
	var b strings.Builder
	b.WriteString(renderSectionHeader("FIX LOG"))
	b.WriteString("\n\n")
	if len(log) == 0 {
		b.WriteString(mutedStyle.Render("  No fix actions yet. Press d for a dry-run preview or f to apply."))
		return b.String()
	}
	for _, line := range log {
		b.WriteString("  " + line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
