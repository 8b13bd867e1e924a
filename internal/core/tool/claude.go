package tool

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/agentsync-dev/agentsync/internal/core/state"
)

// Claude implements the Tool interface for Claude Code.
type Claude struct {
	BaseTool
}

// NewClaude creates a configured Claude tool.
func NewClaude(p Paths) *Claude {
	return &Claude{BaseTool{name: state.ToolClaude, displayName: "Claude Code", paths: p}}
}

func (c *Claude) ConfigPath() string { return c.paths.ClaudeSettingsJSON() }

// Scan reads Claude's settings.json, inferring MCP servers from the
// permission allowlist, and collects skills and commands. Claude has no
// MCP config of its own in the CLI settings, so `mcp__X__*` permission
// entries are the only server evidence available.
func (c *Claude) Scan() *state.ToolConfig {
	cfg := &state.ToolConfig{
		Tool:       state.ToolClaude,
		ConfigPath: c.ConfigPath(),
		ExtraInfo:  make(map[string]string),
	}

	doc := ReadJSONDoc(c.paths.ClaudeSettingsJSON())
	cfg.Model = gjson.Get(doc, "model").String()
	if v := gjson.Get(doc, "alwaysThinkingEnabled"); v.Exists() {
		cfg.ExtraInfo["thinking"] = v.String()
	}
	if v := gjson.Get(doc, "env.CLAUDE_CODE_ENABLE_AGENT_TEAMS"); v.Exists() {
		cfg.ExtraInfo["agent_teams"] = v.String()
	}

	// MCP servers inferred from permissions.allow: "mcp__github__*" → github.
	seen := make(map[string]bool)
	for _, entry := range gjson.Get(doc, "permissions.allow").Array() {
		name, ok := mcpNameFromPermission(entry.String())
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cfg.MCPServers = append(cfg.MCPServers, state.McpServer{
			Name:       name,
			ServerType: state.ServerLocal,
			Enabled:    true,
		})
	}

	if dirs := gjson.Get(doc, "permissions.additionalDirectories"); dirs.IsArray() {
		var list []string
		for _, d := range dirs.Array() {
			list = append(list, d.String())
		}
		if len(list) > 0 {
			cfg.ExtraInfo["additional_dirs"] = strings.Join(list, ", ")
		}
	}

	// Skills: the agents-side junction first, then ~/.claude/skills.
	// Deduplicated by name; the junction is the canonical source.
	skillSeen := make(map[string]bool)
	for _, dir := range []string{c.paths.ClaudeSkillsLink(), c.paths.ClaudeSkillsDir()} {
		for _, skill := range ScanSkillDirs(dir) {
			if skillSeen[skill.Name] {
				continue
			}
			skillSeen[skill.Name] = true
			cfg.Skills = append(cfg.Skills, skill)
		}
	}

	cfg.Commands = ScanCommandsDir(c.paths.ClaudeCommandsDir(), true)
	return cfg
}

// mcpNameFromPermission extracts the server name from a permission
// pattern like "mcp__github__*" or "mcp__linear".
func mcpNameFromPermission(pattern string) (string, bool) {
	rest, found := strings.CutPrefix(pattern, "mcp__")
	if !found || rest == "" {
		return "", false
	}
	if name, _, found := strings.Cut(rest, "__"); found {
		return name, name != ""
	}
	return rest, true
}

// CheckClaudeSkillsLink verifies that the agents-side skills junction
// exists and resolves to the canonical skills directory.
func CheckClaudeSkillsLink(p Paths) state.InfraCheck {
	link := p.ClaudeSkillsLink()
	target := p.CanonicalSkillsDir()

	info, err := os.Lstat(link)
	if err != nil {
		return state.InfraCheck{OK: false, Detail: fmt.Sprintf("Missing: %s → %s", link, target)}
	}
	if info.Mode()&os.ModeSymlink == 0 {
		return state.InfraCheck{OK: false, Detail: fmt.Sprintf("Not a symlink: %s is a regular directory", link)}
	}
	actual, err := os.Readlink(link)
	if err == nil && !sameDir(actual, target) {
		return state.InfraCheck{OK: false, Detail: fmt.Sprintf("Wrong target: %s → %s (expected %s)", link, actual, target)}
	}
	return state.InfraCheck{OK: true, Detail: fmt.Sprintf("OK: %s → %s", link, target)}
}

func sameDir(a, b string) bool {
	ra, errA := os.Stat(a)
	rb, errB := os.Stat(b)
	if errA == nil && errB == nil && os.SameFile(ra, rb) {
		return true
	}
	return a == b
}

// FixClaudeSkillsLink creates (or repairs) the skills junction. A real
// directory at the link path is never overwritten.
func FixClaudeSkillsLink(p Paths, dryRun bool) string {
	link := p.ClaudeSkillsLink()
	target := p.CanonicalSkillsDir()

	check := CheckClaudeSkillsLink(p)
	if check.OK {
		return "Already valid: " + check.Detail
	}
	if dryRun {
		return fmt.Sprintf("Would create junction %s → %s", link, target)
	}

	if info, err := os.Lstat(link); err == nil {
		if info.Mode()&os.ModeSymlink == 0 {
			return fmt.Sprintf("Skipped: %s is a real directory, won't overwrite", link)
		}
		if err := os.Remove(link); err != nil {
			return fmt.Sprintf("Error removing stale link %s: %v", link, err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(link), 0o755); err != nil {
		return fmt.Sprintf("Error creating %s: %v", link, err)
	}
	if err := os.Symlink(target, link); err != nil {
		return fmt.Sprintf("Error creating junction %s: %v", link, err)
	}
	return fmt.Sprintf("Created junction %s → %s", link, target)
}

// CheckClaudeAdditionalDirs verifies skills access via settings.json.
func CheckClaudeAdditionalDirs(p Paths) state.InfraCheck {
	return checkAdditionalDirs(p, p.ClaudeSettingsJSON(), "Claude")
}

// FixClaudeAdditionalDirs appends the canonical skills directory to
// Claude's additionalDirectories.
func FixClaudeAdditionalDirs(p Paths, dryRun bool) string {
	return fixAdditionalDirs(p, p.ClaudeSettingsJSON(), "claude", dryRun)
}

// WriteClaudeCommand renders a canonical command into Claude's layout
// (commands/ns/slug.md) with its metadata frontmatter.
func WriteClaudeCommand(p Paths, cmd state.Command, dryRun bool) string {
	path := filepath.Join(p.ClaudeCommandsDir(), cmd.Namespace, cmd.Slug+".md")

	if dryRun {
		return "Would write " + path
	}

	var b strings.Builder
	b.WriteString("---\n")
	if cmd.Name != "" {
		fmt.Fprintf(&b, "name: %s\n", cmd.Name)
	}
	if cmd.Description != "" {
		fmt.Fprintf(&b, "description: %s\n", cmd.Description)
	}
	if cmd.Category != "" {
		fmt.Fprintf(&b, "category: %s\n", cmd.Category)
	}
	if len(cmd.Tags) > 0 {
		fmt.Fprintf(&b, "tags: [%s]\n", strings.Join(cmd.Tags, ", "))
	}
	b.WriteString("---\n\n")
	b.WriteString(cmd.Body)
	b.WriteString("\n")

	if err := writeConfigFile(path, b.String()); err != nil {
		return fmt.Sprintf("Error writing %s: %v", path, err)
	}
	return "Wrote " + path
}
