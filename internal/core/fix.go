package core

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/agentsync-dev/agentsync/internal/core/state"
	"github.com/agentsync-dev/agentsync/internal/core/tool"
)

// FixApplier applies the automated remediations from a sync report.
// Writes are batched per tool and idempotent; dry runs produce the
// identical action list without touching any file.
type FixApplier struct {
	paths tool.Paths
}

func NewFixApplier(p tool.Paths) *FixApplier {
	return &FixApplier{paths: p}
}

// Apply runs the fixable items of the report in fixed step order:
// MCP config merges, infrastructure repairs, then command fan-out.
// Each step is independent of earlier failures; every outcome (including
// write errors and skips) lands as one string in the returned list.
func (a *FixApplier) Apply(report *state.SyncReport, dryRun bool) []string {
	var actions []string
	actions = append(actions, a.applyMCPFixes(report, dryRun)...)
	actions = append(actions, a.applyInfraFixes(report, dryRun)...)
	actions = append(actions, a.applyCommandFixes(report, dryRun)...)
	return actions
}

// applyMCPFixes groups add-mcp/update-mcp items per tool and issues one
// batched writer call per group, so a run with ten missing servers still
// rewrites each config file exactly once.
func (a *FixApplier) applyMCPFixes(report *state.SyncReport, dryRun bool) []string {
	byName := make(map[string]*state.McpServer)
	for i := range report.Canonical.MCPServers {
		byName[report.Canonical.MCPServers[i].Name] = &report.Canonical.MCPServers[i]
	}

	groups := make(map[state.ToolName][]state.McpServer)
	for _, item := range report.Items {
		if item.ContentType != state.ContentMCP || item.FixAction == nil {
			continue
		}
		verb := item.FixAction.Action
		if verb != state.ActionAddMCP && verb != state.ActionUpdateMCP {
			continue
		}
		srv, ok := byName[item.ItemName]
		if !ok {
			log.Debug().Str("server", item.ItemName).Msg("fix item has no canonical server, skipping")
			continue
		}
		groups[item.Tool] = append(groups[item.Tool], *srv)
	}

	var actions []string
	for _, t := range state.AllTools() {
		servers, ok := groups[t]
		if !ok {
			continue
		}
		switch t {
		case state.ToolCopilot:
			actions = append(actions, "MCP/copilot: "+tool.WriteCopilotMCP(a.paths, servers, dryRun))
		case state.ToolCodex:
			actions = append(actions, "MCP/codex: "+tool.WriteCodexMCP(a.paths, servers, dryRun))
		case state.ToolClaude:
			actions = append(actions, fmt.Sprintf("MCP/claude: Skipped %d servers (manual configuration required via Claude Desktop)", len(servers)))
		}
	}
	return actions
}

func (a *FixApplier) applyInfraFixes(report *state.SyncReport, dryRun bool) []string {
	var actions []string
	if needsInfraFix(report, "claude-additional-dirs") {
		actions = append(actions, tool.FixClaudeAdditionalDirs(a.paths, dryRun))
	}
	if needsInfraFix(report, "copilot-additional-dirs") {
		actions = append(actions, tool.FixCopilotAdditionalDirs(a.paths, dryRun))
	}
	if needsInfraFix(report, "claude-skills-symlink") {
		actions = append(actions, tool.FixClaudeSkillsLink(a.paths, dryRun))
	}
	return actions
}

func needsInfraFix(report *state.SyncReport, itemName string) bool {
	for _, item := range report.Items {
		if item.ItemName == itemName {
			return item.Status != state.StatusSynced
		}
	}
	return false
}

// applyCommandFixes writes every canonical command to its target tools
// when any command item needs attention. Writing the full set keeps the
// operation convergent regardless of which subset drifted.
func (a *FixApplier) applyCommandFixes(report *state.SyncReport, dryRun bool) []string {
	if len(report.Canonical.Commands) == 0 {
		return nil
	}
	needed := false
	for _, item := range report.Items {
		if item.ContentType == state.ContentCommand &&
			(item.Status == state.StatusMissing || item.Status == state.StatusDrift) {
			needed = true
			break
		}
	}
	if !needed {
		return nil
	}

	var actions []string
	for i := range report.Canonical.Commands {
		cmd := report.Canonical.Commands[i]
		targets := cmd.SyncTo
		if len(targets) == 0 {
			targets = []state.ToolName{state.ToolClaude, state.ToolCodex}
		}
		for _, t := range targets {
			switch t {
			case state.ToolClaude:
				actions = append(actions, "Command/claude: "+tool.WriteClaudeCommand(a.paths, cmd, dryRun))
			case state.ToolCodex:
				actions = append(actions, "Command/codex: "+tool.WriteCodexPrompt(a.paths, cmd, dryRun))
			}
		}
	}
	return actions
}
