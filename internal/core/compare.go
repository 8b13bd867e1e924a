package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agentsync-dev/agentsync/internal/core/state"
)

// CompareOptions tunes the MCP comparator. Passed explicitly so the
// comparators stay pure functions of their inputs.
type CompareOptions struct {
	IgnoreServers      []string
	IgnoreExtraServers bool
}

// BuildSyncReport runs every comparator in fixed order and wraps the
// results into a report. Comparators perform no I/O; infrastructure
// check results arrive precomputed in infra.
func BuildSyncReport(canonical *state.CanonicalState, toolConfigs map[state.ToolName]*state.ToolConfig, infra state.InfraState, opts CompareOptions) *state.SyncReport {
	var items []state.SyncItem
	items = append(items, compareMCP(canonical, toolConfigs, opts)...)
	items = append(items, compareSkills(canonical, toolConfigs, infra)...)
	items = append(items, compareCommands(canonical, toolConfigs)...)
	items = append(items, comparePlugins(canonical, toolConfigs)...)
	return &state.SyncReport{
		Canonical:   canonical,
		ToolConfigs: toolConfigs,
		Items:       items,
	}
}

// presentTools returns the fixed-order subset of tools that were scanned.
func presentTools(toolConfigs map[state.ToolName]*state.ToolConfig) []state.ToolName {
	var tools []state.ToolName
	for _, t := range state.AllTools() {
		if _, ok := toolConfigs[t]; ok {
			tools = append(tools, t)
		}
	}
	return tools
}

func compareMCP(canonical *state.CanonicalState, toolConfigs map[state.ToolName]*state.ToolConfig, opts CompareOptions) []state.SyncItem {
	ignored := make(map[string]bool, len(opts.IgnoreServers))
	for _, name := range opts.IgnoreServers {
		ignored[NormalizeMCPName(name)] = true
	}

	canonicalNames := make(map[string]bool)
	var items []state.SyncItem

	for _, srv := range canonical.MCPServers {
		norm := NormalizeMCPName(srv.Name)
		if ignored[norm] {
			continue
		}
		canonicalNames[norm] = true

		for _, tool := range presentTools(toolConfigs) {
			cfg := toolConfigs[tool]

			if !srv.EnabledForTool(tool) {
				items = append(items, state.SyncItem{
					ContentType: state.ContentMCP,
					ItemName:    srv.Name,
					Tool:        tool,
					Status:      state.StatusNotApplicable,
					Detail:      "Not enabled for this tool",
				})
				continue
			}

			match := findServer(cfg.MCPServers, norm)
			if match == nil {
				items = append(items, state.SyncItem{
					ContentType: state.ContentMCP,
					ItemName:    srv.Name,
					Tool:        tool,
					Status:      state.StatusMissing,
					Detail:      fmt.Sprintf("Canonical server not found in %s config", tool),
					FixAction: &state.FixAction{
						Action:      state.ActionAddMCP,
						Tool:        tool,
						ContentType: state.ContentMCP,
						Target:      srv.Name,
						Detail:      fmt.Sprintf("Add %s to %s MCP config", srv.Name, tool),
					},
				})
				continue
			}

			var reasons []string
			if srv.URL != "" && match.URL != "" && srv.URL != match.URL {
				reasons = append(reasons, "URL mismatch: "+match.URL)
			}
			if srv.Command != "" && match.Command != "" && srv.Command != match.Command {
				reasons = append(reasons, "Command mismatch: "+match.Command)
			}
			if len(srv.Args) > 0 && len(match.Args) > 0 && !equalStrings(srv.Args, match.Args) {
				reasons = append(reasons, "Args mismatch")
			}

			if len(reasons) > 0 {
				items = append(items, state.SyncItem{
					ContentType: state.ContentMCP,
					ItemName:    srv.Name,
					Tool:        tool,
					Status:      state.StatusDrift,
					Detail:      strings.Join(reasons, "; "),
					FixAction: &state.FixAction{
						Action:      state.ActionUpdateMCP,
						Tool:        tool,
						ContentType: state.ContentMCP,
						Target:      srv.Name,
						Detail:      fmt.Sprintf("Update %s in %s", srv.Name, tool),
					},
				})
			} else {
				items = append(items, state.SyncItem{
					ContentType: state.ContentMCP,
					ItemName:    srv.Name,
					Tool:        tool,
					Status:      state.StatusSynced,
				})
			}
		}
	}

	// Servers configured in a tool but absent from canonical mcp.json.
	// Removal stays a manual decision, so these items never carry a fix.
	if !opts.IgnoreExtraServers {
		for _, tool := range presentTools(toolConfigs) {
			for _, srv := range toolConfigs[tool].MCPServers {
				norm := NormalizeMCPName(srv.Name)
				if canonicalNames[norm] || ignored[norm] {
					continue
				}
				items = append(items, state.SyncItem{
					ContentType: state.ContentMCP,
					ItemName:    srv.Name,
					Tool:        tool,
					Status:      state.StatusExtra,
					Detail:      fmt.Sprintf("Server in %s not in canonical mcp.json", tool),
				})
			}
		}
	}

	return items
}

func findServer(servers []state.McpServer, normName string) *state.McpServer {
	for i := range servers {
		if NormalizeMCPName(servers[i].Name) == normName {
			return &servers[i]
		}
	}
	return nil
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func compareSkills(canonical *state.CanonicalState, toolConfigs map[state.ToolName]*state.ToolConfig, infra state.InfraState) []state.SyncItem {
	items := []state.SyncItem{
		infraItem(state.ContentSymlink, "claude-skills-symlink", state.ToolClaude, infra.ClaudeSkillsLink,
			&state.FixAction{
				Action:      state.ActionCreateSymlink,
				Tool:        state.ToolClaude,
				ContentType: state.ContentSymlink,
				Target:      "claude-skills-symlink",
				Detail:      "Create junction .agents/.claude/skills/ → .agents/skills/",
			}),
		infraItem(state.ContentConfig, "claude-additional-dirs", state.ToolClaude, infra.ClaudeAdditionalDirs,
			&state.FixAction{
				Action:      state.ActionAddConfig,
				Tool:        state.ToolClaude,
				ContentType: state.ContentConfig,
				Target:      "claude-additional-dirs",
				Detail:      "Add .agents/skills to Claude additionalDirectories",
			}),
		infraItem(state.ContentConfig, "copilot-additional-dirs", state.ToolCopilot, infra.CopilotAdditionalDirs,
			&state.FixAction{
				Action:      state.ActionAddConfig,
				Tool:        state.ToolCopilot,
				ContentType: state.ContentConfig,
				Target:      "copilot-additional-dirs",
				Detail:      "Add .agents/skills to Copilot additionalDirectories",
			}),
	}

	dirsOK := map[state.ToolName]bool{
		state.ToolCopilot: infra.CopilotAdditionalDirs.OK,
		state.ToolClaude:  infra.ClaudeAdditionalDirs.OK,
		state.ToolCodex:   true,
	}

	for _, skill := range canonical.Skills {
		for _, tool := range presentTools(toolConfigs) {
			cfg := toolConfigs[tool]
			item := state.SyncItem{
				ContentType: state.ContentSkill,
				ItemName:    skill.Name,
				Tool:        tool,
			}
			switch {
			case cfg.HasSkill(skill.Name):
				item.Status = state.StatusSynced
				item.Detail = "Accessible"
			case tool == state.ToolCodex:
				item.Status = state.StatusNotApplicable
				item.Detail = "Codex uses built-in skills only"
			default:
				item.Status = state.StatusMissing
				item.Detail = fmt.Sprintf("Not accessible in %s", tool)
				if !dirsOK[tool] {
					item.Detail = "Configure additionalDirectories to access"
				}
			}
			items = append(items, item)
		}
	}

	return items
}

// infraItem converts a precomputed infrastructure check into a sync
// item, attaching the given fix only when the check failed.
func infraItem(contentType, name string, tool state.ToolName, check state.InfraCheck, fix *state.FixAction) state.SyncItem {
	item := state.SyncItem{
		ContentType: contentType,
		ItemName:    name,
		Tool:        tool,
		Status:      state.StatusSynced,
		Detail:      check.Detail,
	}
	if !check.OK {
		item.Status = state.StatusMissing
		item.FixAction = fix
	}
	return item
}

type commandKey struct {
	Namespace string
	Slug      string
}

func (k commandKey) display() string {
	if k.Namespace != "" {
		return k.Namespace + "/" + k.Slug
	}
	return k.Slug
}

func commandIndex(commands []state.Command) map[commandKey]*state.Command {
	idx := make(map[commandKey]*state.Command, len(commands))
	for i := range commands {
		idx[commandKey{commands[i].Namespace, commands[i].Slug}] = &commands[i]
	}
	return idx
}

func compareCommands(canonical *state.CanonicalState, toolConfigs map[state.ToolName]*state.ToolConfig) []state.SyncItem {
	if len(canonical.Commands) == 0 {
		return compareCommandsPairwise(toolConfigs)
	}

	var items []state.SyncItem
	indexes := make(map[state.ToolName]map[commandKey]*state.Command)
	for _, tool := range presentTools(toolConfigs) {
		indexes[tool] = commandIndex(toolConfigs[tool].Commands)
	}

	for i := range canonical.Commands {
		cmd := &canonical.Commands[i]
		key := commandKey{cmd.Namespace, cmd.Slug}

		targets := cmd.SyncTo
		if len(targets) == 0 {
			targets = []state.ToolName{state.ToolClaude, state.ToolCodex}
		}
		for _, tool := range targets {
			idx, ok := indexes[tool]
			if !ok {
				continue
			}
			match, found := idx[key]
			switch {
			case !found:
				items = append(items, state.SyncItem{
					ContentType: state.ContentCommand,
					ItemName:    cmd.DisplayName(),
					Tool:        tool,
					Status:      state.StatusMissing,
					Detail:      fmt.Sprintf("Canonical command not found in %s", tool),
					FixAction: &state.FixAction{
						Action:      state.ActionWriteCommand,
						Tool:        tool,
						ContentType: state.ContentCommand,
						Target:      cmd.DisplayName(),
						Detail:      fmt.Sprintf("Write %s to %s", cmd.DisplayName(), tool),
					},
				})
			case match.BodyHash == cmd.BodyHash:
				items = append(items, state.SyncItem{
					ContentType: state.ContentCommand,
					ItemName:    cmd.DisplayName(),
					Tool:        tool,
					Status:      state.StatusSynced,
				})
			default:
				items = append(items, state.SyncItem{
					ContentType: state.ContentCommand,
					ItemName:    cmd.DisplayName(),
					Tool:        tool,
					Status:      state.StatusDrift,
					Detail:      fmt.Sprintf("Body hash: canonical=%s %s=%s", hash8(cmd.BodyHash), tool, hash8(match.BodyHash)),
					FixAction: &state.FixAction{
						Action:      state.ActionOverwriteCommand,
						Tool:        tool,
						ContentType: state.ContentCommand,
						Target:      cmd.DisplayName(),
						Detail:      fmt.Sprintf("Overwrite %s %s from canonical", tool, cmd.DisplayName()),
					},
				})
			}
		}
	}

	return items
}

// compareCommandsPairwise reconciles Claude against Codex directly when
// no canonical commands exist to act as the source of truth.
func compareCommandsPairwise(toolConfigs map[state.ToolName]*state.ToolConfig) []state.SyncItem {
	claude, okClaude := toolConfigs[state.ToolClaude]
	codex, okCodex := toolConfigs[state.ToolCodex]
	if !okClaude || !okCodex {
		return nil
	}

	claudeIdx := commandIndex(claude.Commands)
	codexIdx := commandIndex(codex.Commands)

	keySet := make(map[commandKey]bool)
	for k := range claudeIdx {
		keySet[k] = true
	}
	for k := range codexIdx {
		keySet[k] = true
	}
	keys := make([]commandKey, 0, len(keySet))
	for k := range keySet {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Namespace != keys[j].Namespace {
			return keys[i].Namespace < keys[j].Namespace
		}
		return keys[i].Slug < keys[j].Slug
	})

	var items []state.SyncItem
	for _, key := range keys {
		inClaude, fromClaude := claudeIdx[key]
		inCodex, fromCodex := codexIdx[key]
		name := key.display()

		switch {
		case fromClaude && fromCodex && inClaude.BodyHash == inCodex.BodyHash:
			items = append(items, state.SyncItem{
				ContentType: state.ContentCommand,
				ItemName:    name,
				Tool:        state.ToolClaude,
				Status:      state.StatusSynced,
				Detail:      "Body matches Codex",
			})
		case fromClaude && fromCodex:
			items = append(items, state.SyncItem{
				ContentType: state.ContentCommand,
				ItemName:    name,
				Tool:        state.ToolClaude,
				Status:      state.StatusDrift,
				Detail:      fmt.Sprintf("Body hash mismatch: Claude=%s Codex=%s", hash8(inClaude.BodyHash), hash8(inCodex.BodyHash)),
				FixAction: &state.FixAction{
					Action:      state.ActionReconcileCommand,
					Tool:        state.ToolClaude,
					ContentType: state.ContentCommand,
					Target:      name,
					Detail:      "Reconcile command body between Claude and Codex",
				},
			})
		case fromClaude:
			items = append(items, state.SyncItem{
				ContentType: state.ContentCommand,
				ItemName:    name,
				Tool:        state.ToolCodex,
				Status:      state.StatusMissing,
				Detail:      "Exists in Claude but not Codex",
				FixAction: &state.FixAction{
					Action:      state.ActionCopyCommand,
					Tool:        state.ToolCodex,
					ContentType: state.ContentCommand,
					Target:      name,
					Detail:      fmt.Sprintf("Copy %s to Codex prompts", name),
				},
			})
		default:
			items = append(items, state.SyncItem{
				ContentType: state.ContentCommand,
				ItemName:    name,
				Tool:        state.ToolClaude,
				Status:      state.StatusMissing,
				Detail:      "Exists in Codex but not Claude",
				FixAction: &state.FixAction{
					Action:      state.ActionCopyCommand,
					Tool:        state.ToolClaude,
					ContentType: state.ContentCommand,
					Target:      name,
					Detail:      fmt.Sprintf("Copy %s to Claude commands", name),
				},
			})
		}
	}

	return items
}

func hash8(h string) string {
	if len(h) > 8 {
		return h[:8]
	}
	return h
}

func comparePlugins(canonical *state.CanonicalState, toolConfigs map[state.ToolName]*state.ToolConfig) []state.SyncItem {
	if _, ok := toolConfigs[state.ToolCopilot]; !ok {
		return nil
	}

	var items []state.SyncItem
	for _, wf := range canonical.ProductWorkflows {
		plugin := matchPlugin(wf.Name, canonical.AvailablePlugins)
		if plugin == nil {
			continue
		}
		if wf.CopilotPluginInstalled {
			items = append(items, state.SyncItem{
				ContentType: state.ContentPlugin,
				ItemName:    plugin.Name,
				Tool:        state.ToolCopilot,
				Status:      state.StatusSynced,
				Detail:      "v" + wf.CopilotPluginVersion,
			})
		} else {
			items = append(items, state.SyncItem{
				ContentType: state.ContentPlugin,
				ItemName:    plugin.Name,
				Tool:        state.ToolCopilot,
				Status:      state.StatusMissing,
				Detail:      fmt.Sprintf("%s workflow plugin not installed", wf.Name),
				FixAction: &state.FixAction{
					Action:      state.ActionInstallPlugin,
					Tool:        state.ToolCopilot,
					ContentType: state.ContentPlugin,
					Target:      plugin.Name,
					Detail:      fmt.Sprintf("Install via: gh copilot plugin install integralanalytics/ia-skills-hub/%s", plugin.Name),
				},
			})
		}
	}
	return items
}

// matchPlugin maps a product workflow name onto an available plugin by
// token overlap. Deliberately fuzzy: workflow dirs and plugin names
// share vocabulary but not exact spellings, and the first candidate
// containing a meaningful token wins.
func matchPlugin(workflow string, available []state.Plugin) *state.Plugin {
	name := strings.ToLower(workflow)
	name = strings.ReplaceAll(name, "next", "-next")
	name = strings.ReplaceAll(name, "studio", "-studio")
	tokens := strings.Split(name, "-")

	for i := range available {
		pluginName := strings.ToLower(available[i].Name)
		for _, token := range tokens {
			if len(token) > 3 && strings.Contains(pluginName, token) {
				return &available[i]
			}
		}
	}
	return nil
}
