package core

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/agentsync-dev/agentsync/internal/core/state"
	"github.com/agentsync-dev/agentsync/internal/core/tool"
)

// UserConfigName is the optional per-user config file in $HOME.
const UserConfigName = ".agent-sync.toml"

// UserConfig holds the optional ~/.agent-sync.toml preferences. Zero
// value = defaults; loaded once at startup and passed down explicitly.
type UserConfig struct {
	Paths  PathsConfig  `toml:"paths"`
	Tools  ToolsConfig  `toml:"tools"`
	MCP    MCPConfig    `toml:"mcp"`
	Scan   ScanConfig   `toml:"scan"`
	Output OutputConfig `toml:"output"`
}

// PathsConfig overrides tool directories. Empty fields keep defaults.
type PathsConfig struct {
	AgentsDir   string `toml:"agents_dir,omitempty"`
	CopilotDir  string `toml:"copilot_dir,omitempty"`
	ClaudeDir   string `toml:"claude_dir,omitempty"`
	CodexDir    string `toml:"codex_dir,omitempty"`
	IASkillsHub string `toml:"ia_skills_hub,omitempty"`
}

// ToolsConfig selects which tools participate in sync.
type ToolsConfig struct {
	Enabled            []string `toml:"enabled,omitempty"`
	IgnoreExtraServers bool     `toml:"ignore_extra_servers,omitempty"`
}

// MCPConfig tunes MCP server comparison.
type MCPConfig struct {
	IgnoreServers  []string `toml:"ignore_servers,omitempty"`
	ForceUserScope bool     `toml:"force_user_scope,omitempty"`
}

// ScanConfig tunes scan behavior.
type ScanConfig struct {
	ProductDirs    []string `toml:"product_dirs,omitempty"`
	SkipValidation bool     `toml:"skip_validation,omitempty"`
}

// OutputConfig holds output preferences.
type OutputConfig struct {
	Format    string `toml:"format,omitempty"`    // auto, json, table, dashboard
	Verbosity string `toml:"verbosity,omitempty"` // quiet, normal, verbose
	Color     string `toml:"color,omitempty"`     // auto, always, never
}

// DefaultUserConfig returns the built-in defaults.
func DefaultUserConfig() UserConfig {
	return UserConfig{
		Tools:  ToolsConfig{Enabled: []string{"copilot", "claude", "codex"}},
		Output: OutputConfig{Format: "auto", Verbosity: "normal", Color: "auto"},
	}
}

// DefaultUserConfigPath is ~/.agent-sync.toml.
func DefaultUserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return UserConfigName
	}
	return filepath.Join(home, UserConfigName)
}

// LoadUserConfig reads the config file at path. A missing file yields
// defaults; a file that exists but fails to parse is an error (silent
// fallback would hide typos in a file the user wrote deliberately).
func LoadUserConfig(path string) (UserConfig, error) {
	cfg := DefaultUserConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return DefaultUserConfig(), fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if len(cfg.Tools.Enabled) == 0 {
		cfg.Tools.Enabled = []string{"copilot", "claude", "codex"}
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = "auto"
	}
	if cfg.Output.Verbosity == "" {
		cfg.Output.Verbosity = "normal"
	}
	if cfg.Output.Color == "" {
		cfg.Output.Color = "auto"
	}
	return cfg, nil
}

// Validate returns human-readable warnings for questionable settings.
// Warnings never block execution.
func (c UserConfig) Validate() []string {
	var warnings []string

	dirOverrides := []struct{ key, value string }{
		{"agents_dir", c.Paths.AgentsDir},
		{"copilot_dir", c.Paths.CopilotDir},
		{"claude_dir", c.Paths.ClaudeDir},
		{"codex_dir", c.Paths.CodexDir},
		{"ia_skills_hub", c.Paths.IASkillsHub},
	}
	for _, d := range dirOverrides {
		if d.value == "" {
			continue
		}
		if _, err := os.Stat(tool.ExpandPath(d.value)); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s does not exist: %s", d.key, d.value))
		}
	}

	for _, name := range c.Tools.Enabled {
		if _, err := state.ParseToolName(name); err != nil {
			warnings = append(warnings, fmt.Sprintf("Unknown tool in tools.enabled: %s (valid: copilot, claude, codex)", name))
		}
	}

	if !oneOf(c.Output.Format, "auto", "json", "table", "dashboard") {
		warnings = append(warnings, fmt.Sprintf("Invalid output.format: %s (valid: auto, json, table, dashboard)", c.Output.Format))
	}
	if !oneOf(c.Output.Verbosity, "quiet", "normal", "verbose") {
		warnings = append(warnings, fmt.Sprintf("Invalid output.verbosity: %s (valid: quiet, normal, verbose)", c.Output.Verbosity))
	}
	if !oneOf(c.Output.Color, "auto", "always", "never") {
		warnings = append(warnings, fmt.Sprintf("Invalid output.color: %s (valid: auto, always, never)", c.Output.Color))
	}

	return warnings
}

func oneOf(value string, valid ...string) bool {
	for _, v := range valid {
		if value == v {
			return true
		}
	}
	return false
}

// ResolvePaths applies the path overrides to the default layout.
func (c UserConfig) ResolvePaths() (tool.Paths, error) {
	p, err := tool.DefaultPaths()
	if err != nil {
		return tool.Paths{}, err
	}
	if c.Paths.AgentsDir != "" {
		p.AgentsDir = tool.ExpandPath(c.Paths.AgentsDir)
	}
	if c.Paths.CopilotDir != "" {
		p.CopilotDir = tool.ExpandPath(c.Paths.CopilotDir)
	}
	if c.Paths.ClaudeDir != "" {
		p.ClaudeDir = tool.ExpandPath(c.Paths.ClaudeDir)
	}
	if c.Paths.CodexDir != "" {
		p.CodexDir = tool.ExpandPath(c.Paths.CodexDir)
	}
	if c.Paths.IASkillsHub != "" {
		p.SkillsHubDir = tool.ExpandPath(c.Paths.IASkillsHub)
	}
	return p, nil
}

// EnabledTools resolves tools.enabled to validated names, silently
// dropping unknown entries (Validate reports them as warnings).
func (c UserConfig) EnabledTools() []state.ToolName {
	var tools []state.ToolName
	for _, name := range c.Tools.Enabled {
		if t, err := state.ParseToolName(name); err == nil {
			tools = append(tools, t)
		}
	}
	return tools
}

// CompareOptions derives the comparator options from config.
func (c UserConfig) CompareOptions() CompareOptions {
	return CompareOptions{
		IgnoreServers:      c.MCP.IgnoreServers,
		IgnoreExtraServers: c.Tools.IgnoreExtraServers,
	}
}
