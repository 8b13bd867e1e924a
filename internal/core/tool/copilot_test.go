package tool

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/agentsync-dev/agentsync/internal/core/state"
)

func testPaths(t *testing.T) Paths {
	t.Helper()
	base := t.TempDir()
	return Paths{
		Home:       base,
		AgentsDir:  filepath.Join(base, ".agents"),
		CopilotDir: filepath.Join(base, ".copilot"),
		ClaudeDir:  filepath.Join(base, ".claude"),
		CodexDir:   filepath.Join(base, ".codex"),
	}
}

func TestCopilotScan(t *testing.T) {
	p := testPaths(t)
	writeFile(t, p.CopilotMCPConfigJSON(), `{
  "mcpServers": {
    "github": {"type": "http", "url": "https://api.githubcopilot.com/mcp/", "tools": ["*"]},
    "local-tools": {"type": "stdio", "command": "npx", "args": ["-y", "tools"]}
  }
}`)
	writeFile(t, p.CopilotConfigJSON(), `{
  "marketplaces": {"ia-skills-hub": {}},
  "installed_plugins": {"a": {}, "b": {}}
}`)
	writeFile(t, filepath.Join(p.CopilotInstalledPlugins(), "ia-skills-hub", "ls-next", "plugin.json"),
		`{"name": "ia-ls-next-workflow", "version": "1.0.0"}`)
	writeFile(t, filepath.Join(p.CopilotInstalledPlugins(), "ia-skills-hub", "ls-next", "skills", "triage", "SKILL.md"),
		"---\ndescription: Triage\n---\nbody")
	writeFile(t, filepath.Join(p.CopilotInstalledPlugins(), "ia-skills-hub", "ls-next", "agents", "helper.md"),
		"agent body")

	cfg := NewCopilot(p).Scan()

	if cfg.Tool != state.ToolCopilot {
		t.Errorf("Tool = %q", cfg.Tool)
	}
	if len(cfg.MCPServers) != 2 {
		t.Fatalf("expected 2 MCP servers, got %d", len(cfg.MCPServers))
	}
	github := cfg.MCPServers[0]
	if github.Name != "github" || github.ServerType != state.ServerHTTP {
		t.Errorf("github = %+v", github)
	}
	local := cfg.MCPServers[1]
	if local.ServerType != state.ServerStdio || local.Command != "npx" || len(local.Args) != 2 {
		t.Errorf("local-tools = %+v", local)
	}
	// No tools key defaults to the wildcard.
	if len(local.Tools) != 1 || local.Tools[0] != "*" {
		t.Errorf("Tools = %v, want [*]", local.Tools)
	}

	if cfg.ExtraInfo["marketplaces"] != "1" {
		t.Errorf("marketplaces = %q, want 1", cfg.ExtraInfo["marketplaces"])
	}
	if cfg.ExtraInfo["installed_plugins"] != "2" {
		t.Errorf("installed_plugins = %q, want 2", cfg.ExtraInfo["installed_plugins"])
	}

	if len(cfg.Skills) != 1 || cfg.Skills[0].Name != "triage" {
		t.Errorf("Skills = %v", cfg.Skills)
	}
	if len(cfg.Agents) != 1 || cfg.Agents[0].Name != "helper" {
		t.Errorf("Agents = %v", cfg.Agents)
	}
}

func TestCopilotScanEmpty(t *testing.T) {
	p := testPaths(t)
	cfg := NewCopilot(p).Scan()
	if len(cfg.MCPServers) != 0 || len(cfg.Skills) != 0 {
		t.Errorf("empty store should scan empty, got %+v", cfg)
	}
}

func TestWriteCopilotMCPMerge(t *testing.T) {
	p := testPaths(t)
	writeFile(t, p.CopilotMCPConfigJSON(), `{"mcpServers": {"existing": {"type": "http", "url": "https://old.example"}}}`)

	servers := []state.McpServer{
		{
			Name:       "github",
			ServerType: state.ServerHTTP,
			URL:        "https://api.githubcopilot.com/mcp/",
			Tools:      []string{"*"},
			EnabledFor: []state.ToolName{state.ToolCopilot},
			Enabled:    true,
		},
		// Not enabled for copilot — must be skipped.
		{
			Name:       "claudeonly",
			ServerType: state.ServerHTTP,
			URL:        "https://x.example",
			EnabledFor: []state.ToolName{state.ToolClaude},
		},
	}

	msg := WriteCopilotMCP(p, servers, false)
	want := "Merged 1 servers into " + p.CopilotMCPConfigJSON() + " (total: 2)"
	if msg != want {
		t.Errorf("message = %q, want %q", msg, want)
	}

	data, err := os.ReadFile(p.CopilotMCPConfigJSON())
	if err != nil {
		t.Fatal(err)
	}
	doc := string(data)
	if gjson.Get(doc, "mcpServers.existing.url").String() != "https://old.example" {
		t.Error("existing server must be preserved")
	}
	if gjson.Get(doc, "mcpServers.github.type").String() != "http" {
		t.Error("merged server missing type")
	}
	if gjson.Get(doc, "mcpServers.claudeonly").Exists() {
		t.Error("server not enabled for copilot must not be written")
	}
	if !strings.HasSuffix(doc, "\n") {
		t.Error("output should end with a newline")
	}
}

func TestWriteCopilotMCPDryRun(t *testing.T) {
	p := testPaths(t)
	original := `{"mcpServers": {"existing": {"type": "http", "url": "https://old.example"}}}`
	writeFile(t, p.CopilotMCPConfigJSON(), original)

	servers := []state.McpServer{{
		Name:       "github",
		ServerType: state.ServerHTTP,
		URL:        "https://api.githubcopilot.com/mcp/",
		EnabledFor: []state.ToolName{state.ToolCopilot},
	}}

	msg := WriteCopilotMCP(p, servers, true)
	want := "Would merge 1 servers into " + p.CopilotMCPConfigJSON() + " (preserving 1 existing)"
	if msg != want {
		t.Errorf("message = %q, want %q", msg, want)
	}

	data, err := os.ReadFile(p.CopilotMCPConfigJSON())
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != original {
		t.Error("dry run must not modify the config file")
	}

	// Dry runs are repeatable: a second call reports the same action.
	if again := WriteCopilotMCP(p, servers, true); again != msg {
		t.Errorf("second dry run = %q, want %q", again, msg)
	}
}

func TestWriteCopilotMCPCreatesDocument(t *testing.T) {
	p := testPaths(t)
	servers := []state.McpServer{{
		Name:       "github",
		ServerType: state.ServerHTTP,
		URL:        "https://api.githubcopilot.com/mcp/",
		EnabledFor: []state.ToolName{state.ToolCopilot},
	}}

	msg := WriteCopilotMCP(p, servers, false)
	want := "Merged 1 servers into " + p.CopilotMCPConfigJSON() + " (total: 1)"
	if msg != want {
		t.Errorf("message = %q, want %q", msg, want)
	}

	doc := ReadJSONDoc(p.CopilotMCPConfigJSON())
	if gjson.Get(doc, "mcpServers.github.url").String() != "https://api.githubcopilot.com/mcp/" {
		t.Error("server not written to fresh document")
	}
}

func TestEscapeJSONKey(t *testing.T) {
	if got := escapeJSONKey("plain"); got != "plain" {
		t.Errorf("escapeJSONKey(plain) = %q", got)
	}
	if got := escapeJSONKey("a.b"); got != `a\.b` {
		t.Errorf("escapeJSONKey(a.b) = %q", got)
	}
}

func TestCheckCopilotAdditionalDirs(t *testing.T) {
	p := testPaths(t)

	// No canonical skills directory: nothing to grant, check passes.
	check := CheckCopilotAdditionalDirs(p)
	if !check.OK {
		t.Errorf("check without skills dir should pass: %+v", check)
	}

	if err := os.MkdirAll(p.CanonicalSkillsDir(), 0o755); err != nil {
		t.Fatal(err)
	}

	check = CheckCopilotAdditionalDirs(p)
	if check.OK {
		t.Errorf("check without config should fail: %+v", check)
	}
	if !strings.Contains(check.Detail, "has no additionalDirectories") {
		t.Errorf("Detail = %q", check.Detail)
	}
}

func TestFixCopilotAdditionalDirs(t *testing.T) {
	p := testPaths(t)
	if err := os.MkdirAll(p.CanonicalSkillsDir(), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, p.CopilotConfigJSON(), `{"model": "gpt-5"}`)

	msg := FixCopilotAdditionalDirs(p, true)
	if !strings.HasPrefix(msg, "Would add ") {
		t.Errorf("dry run message = %q", msg)
	}

	msg = FixCopilotAdditionalDirs(p, false)
	want := "Added " + p.CanonicalSkillsDir() + " to copilot additionalDirectories"
	if msg != want {
		t.Errorf("message = %q, want %q", msg, want)
	}

	doc := ReadJSONDoc(p.CopilotConfigJSON())
	if gjson.Get(doc, "model").String() != "gpt-5" {
		t.Error("unrelated settings must be preserved")
	}
	dirs := gjson.Get(doc, "permissions.additionalDirectories").Array()
	if len(dirs) != 1 || dirs[0].String() != p.CanonicalSkillsDir() {
		t.Errorf("additionalDirectories = %v", dirs)
	}

	// Check now passes and a second fix is a no-op.
	if check := CheckCopilotAdditionalDirs(p); !check.OK {
		t.Errorf("check after fix should pass: %+v", check)
	}
	msg = FixCopilotAdditionalDirs(p, false)
	if !strings.HasPrefix(msg, "Already valid: ") {
		t.Errorf("second fix = %q, want Already valid prefix", msg)
	}
}
