package tool

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/agentsync-dev/agentsync/internal/core/state"
)

func TestCodexScan(t *testing.T) {
	p := testPaths(t)
	writeFile(t, p.CodexConfigTOML(), `model = "gpt-5.1-codex"
personality = "pragmatic"
model_reasoning_effort = "high"

[mcp_servers.github]
url = "https://api.githubcopilot.com/mcp/"

[mcp_servers.local-tools]
command = "npx"
args = ["-y", "tools"]
enabled = false
`)
	writeFile(t, filepath.Join(p.CodexPromptsDir(), "opsx-explore.md"),
		"---\ndescription: Explore\n---\n\nExplore body\n")
	writeFile(t, filepath.Join(p.CodexSkillsDir(), "builtin", "SKILL.md"), "---\ndescription: B\n---\nbody")

	cfg := NewCodex(p).Scan()

	if cfg.Model != "gpt-5.1-codex" {
		t.Errorf("Model = %q", cfg.Model)
	}
	if cfg.ExtraInfo["personality"] != "pragmatic" {
		t.Errorf("personality = %q", cfg.ExtraInfo["personality"])
	}
	if cfg.ExtraInfo["reasoning_effort"] != "high" {
		t.Errorf("reasoning_effort = %q", cfg.ExtraInfo["reasoning_effort"])
	}

	if len(cfg.MCPServers) != 2 {
		t.Fatalf("expected 2 MCP servers, got %v", cfg.MCPServers)
	}
	github := cfg.MCPServers[0]
	if github.Name != "github" || github.ServerType != state.ServerHTTP || !github.Enabled {
		t.Errorf("github = %+v", github)
	}
	local := cfg.MCPServers[1]
	if local.ServerType != state.ServerStdio || local.Command != "npx" || local.Enabled {
		t.Errorf("local-tools = %+v", local)
	}

	if len(cfg.Commands) != 1 || cfg.Commands[0].DisplayName() != "opsx/explore" {
		t.Errorf("Commands = %v", cfg.Commands)
	}
	if len(cfg.Skills) != 1 || cfg.Skills[0].Name != "builtin" {
		t.Errorf("Skills = %v", cfg.Skills)
	}
}

func TestCodexScanMalformedTOML(t *testing.T) {
	p := testPaths(t)
	writeFile(t, p.CodexConfigTOML(), "model = [unclosed")

	cfg := NewCodex(p).Scan()
	if cfg.Model != "" || len(cfg.MCPServers) != 0 {
		t.Errorf("malformed TOML should scan empty, got %+v", cfg)
	}
}

func TestWriteCodexMCPMissingFile(t *testing.T) {
	p := testPaths(t)
	servers := []state.McpServer{{
		Name:       "github",
		ServerType: state.ServerHTTP,
		URL:        "https://x.example",
		EnabledFor: []state.ToolName{state.ToolCodex},
	}}

	msg := WriteCodexMCP(p, servers, false)
	want := "Skipped: " + p.CodexConfigTOML() + " does not exist"
	if msg != want {
		t.Errorf("message = %q, want %q", msg, want)
	}
	if pathExists(p.CodexConfigTOML()) {
		t.Error("writer must not create Codex's config file")
	}
}

func TestWriteCodexMCPMerge(t *testing.T) {
	p := testPaths(t)
	writeFile(t, p.CodexConfigTOML(), `model = "gpt-5.1-codex"

[mcp_servers.existing]
command = "old-cmd"
`)

	servers := []state.McpServer{
		{
			Name:       "github",
			ServerType: state.ServerHTTP,
			URL:        "https://api.githubcopilot.com/mcp/",
			EnabledFor: []state.ToolName{state.ToolCodex},
			Enabled:    true,
		},
		{
			Name:       "copilotonly",
			ServerType: state.ServerHTTP,
			URL:        "https://x.example",
			EnabledFor: []state.ToolName{state.ToolCopilot},
		},
	}

	msg := WriteCodexMCP(p, servers, true)
	wantDry := "Would merge 1 servers into " + p.CodexConfigTOML() + " (total: 2)"
	if msg != wantDry {
		t.Errorf("dry run = %q, want %q", msg, wantDry)
	}

	msg = WriteCodexMCP(p, servers, false)
	want := "Wrote 1 MCP servers to " + p.CodexConfigTOML()
	if msg != want {
		t.Errorf("write = %q, want %q", msg, want)
	}

	data, err := os.ReadFile(p.CodexConfigTOML())
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("rewritten config is not valid TOML: %v", err)
	}
	if doc["model"] != "gpt-5.1-codex" {
		t.Error("unrelated settings must be preserved")
	}
	tables := doc["mcp_servers"].(map[string]any)
	if _, ok := tables["existing"]; !ok {
		t.Error("existing server must be preserved")
	}
	github, ok := tables["github"].(map[string]any)
	if !ok {
		t.Fatal("github server not written")
	}
	if github["url"] != "https://api.githubcopilot.com/mcp/" {
		t.Errorf("github url = %v", github["url"])
	}
	if _, ok := tables["copilotonly"]; ok {
		t.Error("server not enabled for codex must not be written")
	}
}

func TestWriteCodexPrompt(t *testing.T) {
	p := testPaths(t)
	cmd := state.Command{
		Slug:         "explore",
		Namespace:    "opsx",
		Description:  "Explore the codebase",
		ArgumentHint: "[path]",
		Body:         "Explore body",
	}

	path := filepath.Join(p.CodexPromptsDir(), "opsx-explore.md")
	if msg := WriteCodexPrompt(p, cmd, true); msg != "Would write "+path {
		t.Errorf("dry run = %q", msg)
	}
	if msg := WriteCodexPrompt(p, cmd, false); msg != "Wrote "+path {
		t.Errorf("write = %q", msg)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if !strings.Contains(content, "description: Explore the codebase") {
		t.Error("frontmatter missing description")
	}
	if !strings.Contains(content, "argument-hint: [path]") {
		t.Error("frontmatter missing argument-hint")
	}

	// Codex scanner reads it back under the same namespace/slug.
	scanned := ScanCommandsDir(p.CodexPromptsDir(), false)
	if len(scanned) != 1 || scanned[0].DisplayName() != "opsx/explore" {
		t.Errorf("scanned = %v", scanned)
	}
}
