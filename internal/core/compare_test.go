package core

import (
	"strings"
	"testing"

	"github.com/agentsync-dev/agentsync/internal/core/state"
	"github.com/agentsync-dev/agentsync/internal/core/tool"
)

var allTools = []state.ToolName{state.ToolCopilot, state.ToolClaude, state.ToolCodex}

func emptyConfigs(tools ...state.ToolName) map[state.ToolName]*state.ToolConfig {
	configs := make(map[state.ToolName]*state.ToolConfig)
	for _, t := range tools {
		configs[t] = &state.ToolConfig{Tool: t}
	}
	return configs
}

func okInfra() state.InfraState {
	return state.InfraState{
		ClaudeSkillsLink:      state.InfraCheck{OK: true, Detail: "OK"},
		ClaudeAdditionalDirs:  state.InfraCheck{OK: true, Detail: "OK"},
		CopilotAdditionalDirs: state.InfraCheck{OK: true, Detail: "OK"},
	}
}

func findItem(t *testing.T, items []state.SyncItem, contentType, name string, toolName state.ToolName) state.SyncItem {
	t.Helper()
	for _, item := range items {
		if item.ContentType == contentType && item.ItemName == name && item.Tool == toolName {
			return item
		}
	}
	t.Fatalf("no %s item %q for %s in %v", contentType, name, toolName, items)
	return state.SyncItem{}
}

func TestCompareMCPStates(t *testing.T) {
	canonical := &state.CanonicalState{
		MCPServers: []state.McpServer{
			{Name: "GitHub", ServerType: state.ServerHTTP, URL: "https://mcp.example/", EnabledFor: allTools},
			{Name: "claude-only", ServerType: state.ServerHTTP, URL: "https://x.example/", EnabledFor: []state.ToolName{state.ToolClaude}},
		},
	}
	configs := emptyConfigs(allTools...)
	// Copilot has the server under a differently-cased name: still a match.
	configs[state.ToolCopilot].MCPServers = []state.McpServer{
		{Name: "github", ServerType: state.ServerHTTP, URL: "https://mcp.example/"},
		{Name: "rogue", ServerType: state.ServerHTTP, URL: "https://rogue.example/"},
	}
	// Claude infers servers from permissions: no URL to compare.
	configs[state.ToolClaude].MCPServers = []state.McpServer{
		{Name: "github", ServerType: state.ServerLocal},
		{Name: "claudeonly", ServerType: state.ServerLocal},
	}

	items := compareMCP(canonical, configs, CompareOptions{})

	if item := findItem(t, items, state.ContentMCP, "GitHub", state.ToolCopilot); item.Status != state.StatusSynced {
		t.Errorf("copilot GitHub = %+v, want synced", item)
	}
	if item := findItem(t, items, state.ContentMCP, "GitHub", state.ToolClaude); item.Status != state.StatusSynced {
		t.Errorf("claude GitHub = %+v, want synced (no URL evidence)", item)
	}

	codexItem := findItem(t, items, state.ContentMCP, "GitHub", state.ToolCodex)
	if codexItem.Status != state.StatusMissing {
		t.Errorf("codex GitHub = %+v, want missing", codexItem)
	}
	if codexItem.FixAction == nil || codexItem.FixAction.Action != state.ActionAddMCP {
		t.Errorf("codex GitHub fix = %+v, want add-mcp", codexItem.FixAction)
	}
	if codexItem.Detail != "Canonical server not found in codex config" {
		t.Errorf("codex GitHub detail = %q", codexItem.Detail)
	}

	// claude-only is n/a for the other tools and matched for claude.
	if item := findItem(t, items, state.ContentMCP, "claude-only", state.ToolCopilot); item.Status != state.StatusNotApplicable {
		t.Errorf("copilot claude-only = %+v, want n/a", item)
	}
	if item := findItem(t, items, state.ContentMCP, "claude-only", state.ToolClaude); item.Status != state.StatusSynced {
		t.Errorf("claude claude-only = %+v, want synced (normalized name match)", item)
	}

	// Extra servers never carry a fix: removal stays manual.
	rogue := findItem(t, items, state.ContentMCP, "rogue", state.ToolCopilot)
	if rogue.Status != state.StatusExtra || rogue.FixAction != nil {
		t.Errorf("rogue = %+v, want extra with nil fix", rogue)
	}
}

func TestCompareMCPDrift(t *testing.T) {
	canonical := &state.CanonicalState{
		MCPServers: []state.McpServer{
			{Name: "github", ServerType: state.ServerHTTP, URL: "https://a.example/", EnabledFor: allTools},
		},
	}
	configs := emptyConfigs(state.ToolCopilot)
	configs[state.ToolCopilot].MCPServers = []state.McpServer{
		{Name: "github", ServerType: state.ServerHTTP, URL: "https://b.example/"},
	}

	items := compareMCP(canonical, configs, CompareOptions{})
	item := findItem(t, items, state.ContentMCP, "github", state.ToolCopilot)
	if item.Status != state.StatusDrift {
		t.Fatalf("status = %q, want drift", item.Status)
	}
	if item.Detail != "URL mismatch: https://b.example/" {
		t.Errorf("detail = %q", item.Detail)
	}
	if item.FixAction == nil || item.FixAction.Action != state.ActionUpdateMCP {
		t.Errorf("fix = %+v, want update-mcp", item.FixAction)
	}
}

func TestCompareMCPIgnoreOptions(t *testing.T) {
	canonical := &state.CanonicalState{
		MCPServers: []state.McpServer{
			{Name: "Ignored-Server", ServerType: state.ServerHTTP, URL: "https://i.example/", EnabledFor: allTools},
		},
	}
	configs := emptyConfigs(state.ToolCopilot)
	configs[state.ToolCopilot].MCPServers = []state.McpServer{
		{Name: "extra", ServerType: state.ServerHTTP, URL: "https://e.example/"},
	}

	// Ignore list is name-normalized; extra suppression is independent.
	items := compareMCP(canonical, configs, CompareOptions{
		IgnoreServers:      []string{"ignoredserver"},
		IgnoreExtraServers: true,
	})
	if len(items) != 0 {
		t.Errorf("expected no items, got %v", items)
	}
}

func TestCompareSkillsAndInfra(t *testing.T) {
	canonical := &state.CanonicalState{
		Skills: []state.Skill{{Name: "code-review"}},
	}
	configs := emptyConfigs(allTools...)
	configs[state.ToolCopilot].Skills = []state.Skill{{Name: "code-review"}}

	infra := okInfra()
	infra.ClaudeSkillsLink = state.InfraCheck{OK: false, Detail: "Missing: link"}
	infra.ClaudeAdditionalDirs = state.InfraCheck{OK: false, Detail: "Claude has no additionalDirectories"}

	items := compareSkills(canonical, configs, infra)

	link := findItem(t, items, state.ContentSymlink, "claude-skills-symlink", state.ToolClaude)
	if link.Status != state.StatusMissing || link.FixAction == nil || link.FixAction.Action != state.ActionCreateSymlink {
		t.Errorf("symlink item = %+v", link)
	}

	dirs := findItem(t, items, state.ContentConfig, "claude-additional-dirs", state.ToolClaude)
	if dirs.Status != state.StatusMissing || dirs.FixAction == nil || dirs.FixAction.Action != state.ActionAddConfig {
		t.Errorf("claude dirs item = %+v", dirs)
	}

	copilotDirs := findItem(t, items, state.ContentConfig, "copilot-additional-dirs", state.ToolCopilot)
	if copilotDirs.Status != state.StatusSynced || copilotDirs.FixAction != nil {
		t.Errorf("copilot dirs item = %+v", copilotDirs)
	}

	if item := findItem(t, items, state.ContentSkill, "code-review", state.ToolCopilot); item.Status != state.StatusSynced || item.Detail != "Accessible" {
		t.Errorf("copilot skill = %+v", item)
	}
	claudeSkill := findItem(t, items, state.ContentSkill, "code-review", state.ToolClaude)
	if claudeSkill.Status != state.StatusMissing {
		t.Errorf("claude skill = %+v", claudeSkill)
	}
	if claudeSkill.Detail != "Configure additionalDirectories to access" {
		t.Errorf("claude skill detail = %q", claudeSkill.Detail)
	}
	if item := findItem(t, items, state.ContentSkill, "code-review", state.ToolCodex); item.Status != state.StatusNotApplicable {
		t.Errorf("codex skill = %+v, want n/a", item)
	}
}

func TestCompareCommandsCanonical(t *testing.T) {
	body := "Deploy body"
	hash := tool.BodyHash(body)
	canonical := &state.CanonicalState{
		Commands: []state.Command{
			{Namespace: "ops", Slug: "deploy", Body: body, BodyHash: hash},
		},
	}
	configs := emptyConfigs(state.ToolClaude, state.ToolCodex)
	configs[state.ToolClaude].Commands = []state.Command{
		{Namespace: "ops", Slug: "deploy", BodyHash: hash},
	}
	configs[state.ToolCodex].Commands = []state.Command{
		{Namespace: "ops", Slug: "deploy", BodyHash: tool.BodyHash("edited body")},
	}

	items := compareCommands(canonical, configs)

	if item := findItem(t, items, state.ContentCommand, "ops/deploy", state.ToolClaude); item.Status != state.StatusSynced {
		t.Errorf("claude = %+v, want synced", item)
	}

	codexItem := findItem(t, items, state.ContentCommand, "ops/deploy", state.ToolCodex)
	if codexItem.Status != state.StatusDrift {
		t.Fatalf("codex = %+v, want drift", codexItem)
	}
	if !strings.HasPrefix(codexItem.Detail, "Body hash: canonical=") {
		t.Errorf("codex detail = %q", codexItem.Detail)
	}
	if codexItem.FixAction == nil || codexItem.FixAction.Action != state.ActionOverwriteCommand {
		t.Errorf("codex fix = %+v", codexItem.FixAction)
	}
}

func TestCompareCommandsMissing(t *testing.T) {
	canonical := &state.CanonicalState{
		Commands: []state.Command{
			{Namespace: "ops", Slug: "deploy", BodyHash: "abc", SyncTo: []state.ToolName{state.ToolClaude}},
		},
	}
	configs := emptyConfigs(state.ToolClaude, state.ToolCodex)

	items := compareCommands(canonical, configs)
	if len(items) != 1 {
		t.Fatalf("sync_to should limit targets; got %v", items)
	}
	item := items[0]
	if item.Tool != state.ToolClaude || item.Status != state.StatusMissing {
		t.Errorf("item = %+v", item)
	}
	if item.FixAction == nil || item.FixAction.Action != state.ActionWriteCommand {
		t.Errorf("fix = %+v", item.FixAction)
	}
}

func TestCompareCommandsPairwise(t *testing.T) {
	// No canonical commands: Claude and Codex reconcile directly.
	canonical := &state.CanonicalState{}
	configs := emptyConfigs(state.ToolClaude, state.ToolCodex)
	configs[state.ToolClaude].Commands = []state.Command{
		{Namespace: "ops", Slug: "deploy", BodyHash: "aaaa"},
		{Namespace: "ops", Slug: "shared", BodyHash: "cccc"},
	}
	configs[state.ToolCodex].Commands = []state.Command{
		{Namespace: "ops", Slug: "review", BodyHash: "bbbb"},
		{Namespace: "ops", Slug: "shared", BodyHash: "cccc"},
	}

	items := compareCommands(canonical, configs)

	deploy := findItem(t, items, state.ContentCommand, "ops/deploy", state.ToolCodex)
	if deploy.Status != state.StatusMissing || deploy.Detail != "Exists in Claude but not Codex" {
		t.Errorf("deploy = %+v", deploy)
	}
	if deploy.FixAction == nil || deploy.FixAction.Action != state.ActionCopyCommand {
		t.Errorf("deploy fix = %+v", deploy.FixAction)
	}

	review := findItem(t, items, state.ContentCommand, "ops/review", state.ToolClaude)
	if review.Status != state.StatusMissing || review.Detail != "Exists in Codex but not Claude" {
		t.Errorf("review = %+v", review)
	}

	shared := findItem(t, items, state.ContentCommand, "ops/shared", state.ToolClaude)
	if shared.Status != state.StatusSynced || shared.Detail != "Body matches Codex" {
		t.Errorf("shared = %+v", shared)
	}
}

func TestCompareCommandsPairwiseDrift(t *testing.T) {
	canonical := &state.CanonicalState{}
	configs := emptyConfigs(state.ToolClaude, state.ToolCodex)
	configs[state.ToolClaude].Commands = []state.Command{{Slug: "x", BodyHash: "1111111111111111"}}
	configs[state.ToolCodex].Commands = []state.Command{{Slug: "x", BodyHash: "2222222222222222"}}

	items := compareCommands(canonical, configs)
	if len(items) != 1 {
		t.Fatalf("items = %v", items)
	}
	item := items[0]
	if item.Status != state.StatusDrift {
		t.Errorf("status = %q", item.Status)
	}
	if item.Detail != "Body hash mismatch: Claude=11111111 Codex=22222222" {
		t.Errorf("detail = %q", item.Detail)
	}
	if item.FixAction == nil || item.FixAction.Action != state.ActionReconcileCommand {
		t.Errorf("fix = %+v", item.FixAction)
	}
}

func TestComparePlugins(t *testing.T) {
	canonical := &state.CanonicalState{
		ProductWorkflows: []state.ProductWorkflow{
			{Name: "lsnext", CopilotPluginInstalled: false},
			{Name: "salesforce", CopilotPluginInstalled: true, CopilotPluginVersion: "1.2.0"},
			{Name: "unrelated"},
		},
		AvailablePlugins: []state.Plugin{
			{Name: "ia-ls-next-workflow"},
			{Name: "ia-salesforce-workflow"},
		},
	}
	configs := emptyConfigs(state.ToolCopilot)

	items := comparePlugins(canonical, configs)
	if len(items) != 2 {
		t.Fatalf("expected 2 items (no plugin matches 'unrelated'), got %v", items)
	}

	missing := findItem(t, items, state.ContentPlugin, "ia-ls-next-workflow", state.ToolCopilot)
	if missing.Status != state.StatusMissing {
		t.Errorf("lsnext = %+v", missing)
	}
	if missing.Detail != "lsnext workflow plugin not installed" {
		t.Errorf("detail = %q", missing.Detail)
	}
	if missing.FixAction == nil || missing.FixAction.Action != state.ActionInstallPlugin {
		t.Fatalf("fix = %+v", missing.FixAction)
	}
	if missing.FixAction.Detail != "Install via: gh copilot plugin install integralanalytics/ia-skills-hub/ia-ls-next-workflow" {
		t.Errorf("fix detail = %q", missing.FixAction.Detail)
	}

	installed := findItem(t, items, state.ContentPlugin, "ia-salesforce-workflow", state.ToolCopilot)
	if installed.Status != state.StatusSynced || installed.Detail != "v1.2.0" {
		t.Errorf("salesforce = %+v", installed)
	}
}

func TestComparePluginsRequiresCopilot(t *testing.T) {
	canonical := &state.CanonicalState{
		ProductWorkflows: []state.ProductWorkflow{{Name: "lsnext"}},
		AvailablePlugins: []state.Plugin{{Name: "ia-ls-next-workflow"}},
	}
	if items := comparePlugins(canonical, emptyConfigs(state.ToolClaude)); len(items) != 0 {
		t.Errorf("plugins need copilot scanned, got %v", items)
	}
}

func TestBuildSyncReportFixActionInvariant(t *testing.T) {
	canonical := &state.CanonicalState{
		MCPServers: []state.McpServer{
			{Name: "github", ServerType: state.ServerHTTP, URL: "https://a.example/", EnabledFor: allTools},
		},
		Skills:   []state.Skill{{Name: "code-review"}},
		Commands: []state.Command{{Slug: "deploy", BodyHash: "abc"}},
	}
	configs := emptyConfigs(allTools...)
	configs[state.ToolCopilot].MCPServers = []state.McpServer{
		{Name: "rogue", ServerType: state.ServerHTTP, URL: "https://r.example/"},
	}

	report := BuildSyncReport(canonical, configs, okInfra(), CompareOptions{})

	// Synced and extra items never carry a fix action.
	for _, item := range report.Items {
		switch item.Status {
		case state.StatusSynced, state.StatusExtra, state.StatusNotApplicable:
			if item.FixAction != nil {
				t.Errorf("%s/%s (%s) has status %s but carries a fix action", item.ContentType, item.ItemName, item.Tool, item.Status)
			}
		}
	}

	if report.OverallStatus() != state.StatusDrift {
		t.Errorf("OverallStatus = %q, want drift", report.OverallStatus())
	}
}

func TestMatchPlugin(t *testing.T) {
	available := []state.Plugin{{Name: "ia-ls-next-workflow"}, {Name: "ia-studio-tools"}}

	if got := matchPlugin("lsnext", available); got == nil || got.Name != "ia-ls-next-workflow" {
		t.Errorf("matchPlugin(lsnext) = %v", got)
	}
	if got := matchPlugin("mystudio", available); got == nil || got.Name != "ia-studio-tools" {
		t.Errorf("matchPlugin(mystudio) = %v", got)
	}
	if got := matchPlugin("abc", available); got != nil {
		t.Errorf("matchPlugin(abc) = %v, want nil (tokens too short)", got)
	}
}
