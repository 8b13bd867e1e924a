package core

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agentsync-dev/agentsync/internal/core/state"
	"github.com/agentsync-dev/agentsync/internal/core/tool"
)

func fixPaths(t *testing.T) tool.Paths {
	t.Helper()
	base := t.TempDir()
	return tool.Paths{
		Home:       base,
		AgentsDir:  filepath.Join(base, ".agents"),
		CopilotDir: filepath.Join(base, ".copilot"),
		ClaudeDir:  filepath.Join(base, ".claude"),
		CodexDir:   filepath.Join(base, ".codex"),
	}
}

func writeFixture(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// driftReport builds a report with one missing MCP server on every tool,
// a failing skills symlink check, and one missing canonical command.
func driftReport() *state.SyncReport {
	server := state.McpServer{
		Name:       "github",
		ServerType: state.ServerHTTP,
		URL:        "https://api.githubcopilot.com/mcp/",
		EnabledFor: state.AllTools(),
		Enabled:    true,
	}
	command := state.Command{
		Namespace: "ops",
		Slug:      "deploy",
		Body:      "Run the deploy.",
		BodyHash:  tool.BodyHash("Run the deploy."),
	}

	var items []state.SyncItem
	for _, tn := range state.AllTools() {
		items = append(items, state.SyncItem{
			ContentType: state.ContentMCP,
			ItemName:    "github",
			Tool:        tn,
			Status:      state.StatusMissing,
			FixAction: &state.FixAction{
				Action: state.ActionAddMCP,
				Tool:   tn,
				Target: "github",
			},
		})
	}
	items = append(items, state.SyncItem{
		ContentType: state.ContentSymlink,
		ItemName:    "claude-skills-symlink",
		Tool:        state.ToolClaude,
		Status:      state.StatusMissing,
		FixAction:   &state.FixAction{Action: state.ActionCreateSymlink, Tool: state.ToolClaude},
	})
	items = append(items, state.SyncItem{
		ContentType: state.ContentCommand,
		ItemName:    "ops/deploy",
		Tool:        state.ToolClaude,
		Status:      state.StatusMissing,
		FixAction:   &state.FixAction{Action: state.ActionWriteCommand, Tool: state.ToolClaude},
	})

	return &state.SyncReport{
		Canonical: &state.CanonicalState{
			MCPServers: []state.McpServer{server},
			Commands:   []state.Command{command},
		},
		Items: items,
	}
}

func TestApplyDryRunTouchesNothing(t *testing.T) {
	p := fixPaths(t)
	if err := os.MkdirAll(p.CanonicalSkillsDir(), 0o755); err != nil {
		t.Fatal(err)
	}
	copilotDoc := `{"mcpServers": {}}`
	codexDoc := "model = \"gpt-5.1-codex\"\n"
	writeFixture(t, p.CopilotMCPConfigJSON(), copilotDoc)
	writeFixture(t, p.CodexConfigTOML(), codexDoc)

	applier := NewFixApplier(p)
	report := driftReport()

	first := applier.Apply(report, true)
	second := applier.Apply(report, true)
	if len(first) != len(second) {
		t.Fatalf("dry runs diverge: %v vs %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("dry run action %d changed: %q vs %q", i, first[i], second[i])
		}
	}

	for _, action := range first {
		if !strings.Contains(action, "Would") && !strings.Contains(action, "Skipped") {
			t.Errorf("dry run action should announce, not act: %q", action)
		}
	}

	if data, _ := os.ReadFile(p.CopilotMCPConfigJSON()); string(data) != copilotDoc {
		t.Error("dry run modified Copilot config")
	}
	if data, _ := os.ReadFile(p.CodexConfigTOML()); string(data) != codexDoc {
		t.Error("dry run modified Codex config")
	}
	if _, err := os.Lstat(p.ClaudeSkillsLink()); !os.IsNotExist(err) {
		t.Error("dry run created the skills link")
	}
	if _, err := os.Stat(filepath.Join(p.ClaudeCommandsDir(), "ops", "deploy.md")); !os.IsNotExist(err) {
		t.Error("dry run wrote a command file")
	}
}

func TestApplyConvergesAndIsIdempotent(t *testing.T) {
	p := fixPaths(t)
	if err := os.MkdirAll(p.CanonicalSkillsDir(), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFixture(t, p.CopilotMCPConfigJSON(), `{"mcpServers": {}}`)
	writeFixture(t, p.CodexConfigTOML(), "model = \"gpt-5.1-codex\"\n")

	applier := NewFixApplier(p)
	report := driftReport()

	actions := applier.Apply(report, false)

	var claudeMCP string
	for _, a := range actions {
		if strings.HasPrefix(a, "MCP/claude: ") {
			claudeMCP = a
		}
	}
	want := "MCP/claude: Skipped 1 servers (manual configuration required via Claude Desktop)"
	if claudeMCP != want {
		t.Errorf("claude MCP action = %q, want %q", claudeMCP, want)
	}

	if cfg := tool.NewCopilot(p).Scan(); len(cfg.MCPServers) != 1 || cfg.MCPServers[0].Name != "github" {
		t.Errorf("copilot servers after fix = %v", cfg.MCPServers)
	}
	if cfg := tool.NewCodex(p).Scan(); len(cfg.MCPServers) != 1 || cfg.MCPServers[0].Name != "github" {
		t.Errorf("codex servers after fix = %v", cfg.MCPServers)
	}
	if check := tool.CheckClaudeSkillsLink(p); !check.OK {
		t.Errorf("skills link still failing after fix: %+v", check)
	}

	// Missing command fans out to both default targets.
	claudeCmds := tool.ScanCommandsDir(p.ClaudeCommandsDir(), true)
	if len(claudeCmds) != 1 || claudeCmds[0].DisplayName() != "ops/deploy" {
		t.Errorf("claude commands = %v", claudeCmds)
	}
	codexCmds := tool.ScanCommandsDir(p.CodexPromptsDir(), false)
	if len(codexCmds) != 1 || codexCmds[0].DisplayName() != "ops/deploy" {
		t.Errorf("codex commands = %v", codexCmds)
	}

	// A second full apply converges: the link reports valid, configs are
	// rewritten to the same state.
	again := applier.Apply(report, false)
	var linkMsg string
	for _, a := range again {
		if strings.Contains(a, "junction") || strings.HasPrefix(a, "Already valid: ") {
			linkMsg = a
		}
	}
	if !strings.HasPrefix(linkMsg, "Already valid: ") {
		t.Errorf("second apply link action = %q", linkMsg)
	}
	if cfg := tool.NewCopilot(p).Scan(); len(cfg.MCPServers) != 1 {
		t.Errorf("copilot servers after second fix = %v", cfg.MCPServers)
	}
}

func TestApplyCommandFanOutWritesAllCanonicalCommands(t *testing.T) {
	p := fixPaths(t)

	report := &state.SyncReport{
		Canonical: &state.CanonicalState{
			Commands: []state.Command{
				{Namespace: "ops", Slug: "deploy", Body: "a", BodyHash: tool.BodyHash("a")},
				{Namespace: "ops", Slug: "review", Body: "b", BodyHash: tool.BodyHash("b"), SyncTo: []state.ToolName{state.ToolClaude}},
			},
		},
		Items: []state.SyncItem{
			// Only one command drifted, but the whole set is rewritten.
			{
				ContentType: state.ContentCommand,
				ItemName:    "ops/deploy",
				Tool:        state.ToolCodex,
				Status:      state.StatusDrift,
				FixAction:   &state.FixAction{Action: state.ActionOverwriteCommand, Tool: state.ToolCodex},
			},
		},
	}

	actions := NewFixApplier(p).Apply(report, false)
	if len(actions) != 3 {
		t.Fatalf("expected 3 command actions (deploy×2 + review×1), got %v", actions)
	}

	if got := tool.ScanCommandsDir(p.ClaudeCommandsDir(), true); len(got) != 2 {
		t.Errorf("claude commands = %v", got)
	}
	if got := tool.ScanCommandsDir(p.CodexPromptsDir(), false); len(got) != 1 || got[0].DisplayName() != "ops/deploy" {
		t.Errorf("codex commands = %v", got)
	}
}

func TestApplyNothingToFix(t *testing.T) {
	p := fixPaths(t)
	report := &state.SyncReport{
		Canonical: &state.CanonicalState{
			Commands: []state.Command{{Slug: "deploy", BodyHash: "abc"}},
		},
		Items: []state.SyncItem{
			{ContentType: state.ContentCommand, ItemName: "deploy", Tool: state.ToolClaude, Status: state.StatusSynced},
		},
	}

	if actions := NewFixApplier(p).Apply(report, false); len(actions) != 0 {
		t.Errorf("synced report should produce no actions, got %v", actions)
	}
	if _, err := os.Stat(p.ClaudeCommandsDir()); !os.IsNotExist(err) {
		t.Error("no-op apply must not create directories")
	}
}
