// Package tool defines the per-tool integration layer: path resolution,
// configuration scanners, and the format-specific writers used by the
// fix applier. All filesystem I/O for tool configuration lives here.
package tool

import (
	"os"
	"path/filepath"
	"strings"
)

// Paths holds the resolved root directories for the canonical agents
// tree and each tool. Resolved once at startup from defaults plus user
// config overrides; everything downstream receives it explicitly.
type Paths struct {
	Home         string
	AgentsDir    string
	CopilotDir   string
	ClaudeDir    string
	CodexDir     string
	SkillsHubDir string // skills-hub plugin repository; empty when not found
}

// DefaultPaths resolves the standard home-relative layout.
func DefaultPaths() (Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Paths{}, err
	}
	p := Paths{
		Home:       home,
		AgentsDir:  filepath.Join(home, ".agents"),
		CopilotDir: filepath.Join(home, ".copilot"),
		ClaudeDir:  filepath.Join(home, ".claude"),
		CodexDir:   filepath.Join(home, ".codex"),
	}
	p.SkillsHubDir = discoverSkillsHub(home)
	return p, nil
}

// discoverSkillsHub probes common checkout locations for the skills-hub
// plugin repository. Returns "" when none is found.
func discoverSkillsHub(home string) string {
	candidates := []string{
		filepath.Join(home, "repos", "github.com", "integralanalytics", "ia-skills-hub"),
	}
	for _, c := range candidates {
		if dirExists(filepath.Join(c, "plugins")) {
			return c
		}
	}
	return ""
}

// Canonical files inside the agents directory.

func (p Paths) MCPJSON() string             { return filepath.Join(p.AgentsDir, "mcp.json") }
func (p Paths) SkillLockJSON() string       { return filepath.Join(p.AgentsDir, ".skill-lock.json") }
func (p Paths) CanonicalCommandsDir() string { return filepath.Join(p.AgentsDir, "commands") }
func (p Paths) CanonicalSkillsDir() string  { return filepath.Join(p.AgentsDir, "skills") }

// ClaudeSkillsLink is the junction inside the agents tree that exposes
// the canonical skills directory to Claude.
func (p Paths) ClaudeSkillsLink() string {
	return filepath.Join(p.AgentsDir, ".claude", "skills")
}

// Claude Code paths.

func (p Paths) ClaudeSettingsJSON() string { return filepath.Join(p.ClaudeDir, "settings.json") }
func (p Paths) ClaudeCommandsDir() string  { return filepath.Join(p.ClaudeDir, "commands") }
func (p Paths) ClaudeSkillsDir() string    { return filepath.Join(p.ClaudeDir, "skills") }

// Copilot CLI paths.

func (p Paths) CopilotConfigJSON() string    { return filepath.Join(p.CopilotDir, "config.json") }
func (p Paths) CopilotMCPConfigJSON() string { return filepath.Join(p.CopilotDir, "mcp-config.json") }
func (p Paths) CopilotInstalledPlugins() string {
	return filepath.Join(p.CopilotDir, "installed-plugins")
}
func (p Paths) CopilotLogsDir() string { return filepath.Join(p.CopilotDir, "logs") }

// Codex CLI paths.

func (p Paths) CodexConfigTOML() string { return filepath.Join(p.CodexDir, "config.toml") }
func (p Paths) CodexPromptsDir() string { return filepath.Join(p.CodexDir, "prompts") }
func (p Paths) CodexSkillsDir() string  { return filepath.Join(p.CodexDir, "skills") }
func (p Paths) CodexLogFile() string    { return filepath.Join(p.CodexDir, "log", "codex-tui.log") }

// ExpandPath expands ~ and $VAR references in a user-supplied path.
func ExpandPath(p string) string {
	if strings.Contains(p, "$") {
		p = os.Expand(p, os.Getenv)
	}
	if strings.HasPrefix(p, "~/") {
		home, _ := os.UserHomeDir()
		p = filepath.Join(home, p[2:])
	} else if p == "~" {
		home, _ := os.UserHomeDir()
		p = home
	}
	return p
}
