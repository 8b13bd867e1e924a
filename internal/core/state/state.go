// Package state defines the typed records the sync engine operates on.
//
// Scanners parse raw JSON/TOML/Markdown into these types at the boundary;
// everything downstream (comparators, report builder, fix applier) works
// with already-validated values and never sees raw strings.
package state

import "fmt"

// ToolName identifies one of the supported AI coding tools.
type ToolName string

const (
	ToolCopilot ToolName = "copilot"
	ToolClaude  ToolName = "claude"
	ToolCodex   ToolName = "codex"
)

// AllTools returns the supported tools in their fixed comparison order.
func AllTools() []ToolName {
	return []ToolName{ToolCopilot, ToolClaude, ToolCodex}
}

// ParseToolName validates a raw tool name from config or CLI input.
func ParseToolName(s string) (ToolName, error) {
	switch ToolName(s) {
	case ToolCopilot, ToolClaude, ToolCodex:
		return ToolName(s), nil
	}
	return "", fmt.Errorf("unknown tool %q (valid: copilot, claude, codex)", s)
}

// DisplayName returns the human-readable tool name.
func (t ToolName) DisplayName() string {
	switch t {
	case ToolCopilot:
		return "GitHub Copilot CLI"
	case ToolClaude:
		return "Claude Code"
	case ToolCodex:
		return "OpenAI Codex CLI"
	}
	return string(t)
}

// McpServerType is the transport type for an MCP server connection.
type McpServerType string

const (
	ServerHTTP  McpServerType = "http"
	ServerStdio McpServerType = "stdio"
	ServerLocal McpServerType = "local"
)

// ParseServerType validates a raw server type, defaulting to http for
// empty input (the most common canonical form).
func ParseServerType(s string) (McpServerType, error) {
	if s == "" {
		return ServerHTTP, nil
	}
	switch McpServerType(s) {
	case ServerHTTP, ServerStdio, ServerLocal:
		return McpServerType(s), nil
	}
	return "", fmt.Errorf("unknown MCP server type %q", s)
}

// SyncStatus is the comparison result for a single (item, tool) pair.
type SyncStatus string

const (
	StatusSynced        SyncStatus = "synced"  // canonical == tool-specific
	StatusDrift         SyncStatus = "drift"   // both exist, differ
	StatusMissing       SyncStatus = "missing" // canonical exists, tool lacks it
	StatusExtra         SyncStatus = "extra"   // tool has it, canonical doesn't
	StatusNotApplicable SyncStatus = "n/a"     // tool doesn't support this content type
)

// FixActionType is the machine-parseable verb for an auto-fix action.
// The wire strings are a stable public contract consumed by downstream
// agents; never change them.
type FixActionType string

const (
	ActionAddMCP           FixActionType = "add-mcp"
	ActionUpdateMCP        FixActionType = "update-mcp"
	ActionRemoveMCP        FixActionType = "remove-mcp"
	ActionCreateSymlink    FixActionType = "create-symlink"
	ActionAddConfig        FixActionType = "add-config"
	ActionWriteCommand     FixActionType = "write-command"
	ActionOverwriteCommand FixActionType = "overwrite-command"
	ActionCopyCommand      FixActionType = "copy-command"
	ActionReconcileCommand FixActionType = "reconcile-command"
	ActionInstallPlugin    FixActionType = "install-plugin"
)

// Content type labels used on SyncItem.ContentType.
const (
	ContentMCP     = "mcp"
	ContentSkill   = "skill"
	ContentCommand = "command"
	ContentAgent   = "agent"
	ContentSymlink = "symlink"
	ContentConfig  = "config"
	ContentPlugin  = "plugin"
)

// McpServer is a single MCP server definition, owned by whichever state
// (canonical or per-tool) scanned it.
type McpServer struct {
	Name       string            `json:"name"`
	ServerType McpServerType     `json:"server_type"`
	URL        string            `json:"url,omitempty"`
	Command    string            `json:"command,omitempty"`
	Args       []string          `json:"args,omitempty"`
	Headers    map[string]string `json:"headers,omitempty"`
	Env        map[string]string `json:"env,omitempty"`
	Tools      []string          `json:"tools,omitempty"`
	EnabledFor []ToolName        `json:"enabled_for,omitempty"`
	Enabled    bool              `json:"enabled"`
}

// EnabledForTool reports whether the server is enabled for the given tool.
func (s *McpServer) EnabledForTool(tool ToolName) bool {
	for _, t := range s.EnabledFor {
		if t == tool {
			return true
		}
	}
	return false
}

// Skill is a skill folder reference with provenance from the lock file.
type Skill struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Description string `json:"description,omitempty"`
	Source      string `json:"source,omitempty"`
	SourceType  string `json:"source_type,omitempty"`
	SourceURL   string `json:"source_url,omitempty"`
	SkillPath   string `json:"skill_path,omitempty"`
	FolderHash  string `json:"folder_hash,omitempty"`
	InstalledAt string `json:"installed_at,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

// Command is a command/prompt file. BodyHash is the sole drift signal
// for command content; frontmatter metadata is never compared.
type Command struct {
	Name         string     `json:"name,omitempty"`
	Slug         string     `json:"slug"`
	Namespace    string     `json:"namespace,omitempty"`
	Description  string     `json:"description,omitempty"`
	Category     string     `json:"category,omitempty"`
	Tags         []string   `json:"tags,omitempty"`
	ArgumentHint string     `json:"argument_hint,omitempty"`
	SyncTo       []ToolName `json:"sync_to,omitempty"`
	Body         string     `json:"body,omitempty"`
	BodyHash     string     `json:"body_hash"`
	SourcePath   string     `json:"source_path,omitempty"`
}

// DisplayName is "namespace/slug" when namespaced, else the bare slug.
func (c *Command) DisplayName() string {
	if c.Namespace != "" {
		return c.Namespace + "/" + c.Slug
	}
	return c.Slug
}

// Agent is an agent definition file.
type Agent struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	Format string `json:"format,omitempty"`
}

// Plugin is a Copilot plugin available in the skills-hub marketplace.
type Plugin struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Description string `json:"description,omitempty"`
	Version     string `json:"version,omitempty"`
	Category    string `json:"category,omitempty"`
}

// ProductWorkflow is a product-specific workflow directory under the
// canonical agents root.
type ProductWorkflow struct {
	Name                   string   `json:"name"`
	Path                   string   `json:"path"`
	Agents                 []Agent  `json:"agents,omitempty"`
	Prompts                []string `json:"prompts,omitempty"`
	Instructions           []string `json:"instructions,omitempty"`
	Skills                 []Skill  `json:"skills,omitempty"`
	CopilotPluginInstalled bool     `json:"copilot_plugin_installed"`
	CopilotPluginVersion   string   `json:"copilot_plugin_version,omitempty"`
}

// ToolConfig is the scanned state of a single tool's configuration.
type ToolConfig struct {
	Tool       ToolName          `json:"tool"`
	ConfigPath string            `json:"config_path,omitempty"`
	MCPServers []McpServer       `json:"mcp_servers"`
	Skills     []Skill           `json:"skills"`
	Commands   []Command         `json:"commands"`
	Agents     []Agent           `json:"agents,omitempty"`
	Model      string            `json:"model,omitempty"`
	ExtraInfo  map[string]string `json:"extra_info,omitempty"`
}

// HasSkill reports whether the tool's scanned skill list contains name.
func (tc *ToolConfig) HasSkill(name string) bool {
	for _, s := range tc.Skills {
		if s.Name == name {
			return true
		}
	}
	return false
}

// CanonicalState is the full state read from the canonical agents directory.
type CanonicalState struct {
	AgentsDir        string            `json:"agents_dir"`
	MCPServers       []McpServer       `json:"mcp_servers"`
	Skills           []Skill           `json:"skills"`
	Commands         []Command         `json:"commands"`
	ProductWorkflows []ProductWorkflow `json:"product_workflows"`
	AvailablePlugins []Plugin          `json:"available_plugins"`
	SkillLock        map[string]any    `json:"skill_lock,omitempty"`
}

// FixAction is a structured auto-fix descriptor. Action is the
// machine-parseable verb; Detail is a short human-readable sentence.
type FixAction struct {
	Action      FixActionType `json:"action"`
	Tool        ToolName      `json:"tool"`
	ContentType string        `json:"content_type"`
	Target      string        `json:"target"`
	Detail      string        `json:"detail,omitempty"`
}

// SyncItem is one comparison between canonical and tool-specific content.
// A nil FixAction means no automated remediation is available.
type SyncItem struct {
	ContentType string     `json:"content_type"`
	ItemName    string     `json:"item_name"`
	Tool        ToolName   `json:"tool"`
	Status      SyncStatus `json:"status"`
	Detail      string     `json:"detail,omitempty"`
	FixAction   *FixAction `json:"fix_action"`
}

// InfraCheck is the precomputed result of one infrastructure check.
type InfraCheck struct {
	OK     bool   `json:"ok"`
	Detail string `json:"detail"`
}

// InfraState bundles the infrastructure check results produced by the
// scan layer so the skills comparator stays free of I/O.
type InfraState struct {
	ClaudeSkillsLink      InfraCheck `json:"claude_skills_link"`
	ClaudeAdditionalDirs  InfraCheck `json:"claude_additional_dirs"`
	CopilotAdditionalDirs InfraCheck `json:"copilot_additional_dirs"`
}
