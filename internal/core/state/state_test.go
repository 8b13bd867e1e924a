package state

import "testing"

func TestParseToolName(t *testing.T) {
	for _, name := range []string{"copilot", "claude", "codex"} {
		got, err := ParseToolName(name)
		if err != nil {
			t.Errorf("ParseToolName(%q) error: %v", name, err)
		}
		if string(got) != name {
			t.Errorf("ParseToolName(%q) = %q", name, got)
		}
	}
	if _, err := ParseToolName("cursor"); err == nil {
		t.Error("ParseToolName(cursor) should fail")
	}
	if _, err := ParseToolName(""); err == nil {
		t.Error("ParseToolName(\"\") should fail")
	}
}

func TestParseServerType(t *testing.T) {
	got, err := ParseServerType("")
	if err != nil || got != ServerHTTP {
		t.Errorf("ParseServerType(\"\") = %q, %v; want http", got, err)
	}
	for _, st := range []string{"http", "stdio", "local"} {
		if _, err := ParseServerType(st); err != nil {
			t.Errorf("ParseServerType(%q) error: %v", st, err)
		}
	}
	if _, err := ParseServerType("websocket"); err == nil {
		t.Error("ParseServerType(websocket) should fail")
	}
}

func TestMcpServerEnabledForTool(t *testing.T) {
	srv := McpServer{Name: "github", EnabledFor: []ToolName{ToolCopilot, ToolCodex}}
	if !srv.EnabledForTool(ToolCopilot) {
		t.Error("expected enabled for copilot")
	}
	if srv.EnabledForTool(ToolClaude) {
		t.Error("expected not enabled for claude")
	}
}

func TestCommandDisplayName(t *testing.T) {
	c := Command{Namespace: "ops", Slug: "deploy"}
	if got := c.DisplayName(); got != "ops/deploy" {
		t.Errorf("DisplayName() = %q, want ops/deploy", got)
	}
	c.Namespace = ""
	if got := c.DisplayName(); got != "deploy" {
		t.Errorf("DisplayName() = %q, want deploy", got)
	}
}

func TestSyncReportCounts(t *testing.T) {
	report := &SyncReport{
		Items: []SyncItem{
			{Status: StatusSynced},
			{Status: StatusSynced},
			{Status: StatusDrift, FixAction: &FixAction{Action: ActionUpdateMCP}},
			{Status: StatusMissing, FixAction: &FixAction{Action: ActionAddMCP}},
			{Status: StatusExtra},
			{Status: StatusNotApplicable},
		},
	}

	if got := report.SyncedCount(); got != 2 {
		t.Errorf("SyncedCount() = %d, want 2", got)
	}
	if got := report.DriftCount(); got != 1 {
		t.Errorf("DriftCount() = %d, want 1", got)
	}
	if got := report.MissingCount(); got != 1 {
		t.Errorf("MissingCount() = %d, want 1", got)
	}
	if got := report.ExtraCount(); got != 1 {
		t.Errorf("ExtraCount() = %d, want 1", got)
	}
	if got := report.FixableCount(); got != 2 {
		t.Errorf("FixableCount() = %d, want 2", got)
	}
	if got := report.OverallStatus(); got != StatusDrift {
		t.Errorf("OverallStatus() = %q, want drift", got)
	}
}

func TestSyncReportOverallStatus(t *testing.T) {
	tests := []struct {
		name  string
		items []SyncItem
		want  SyncStatus
	}{
		{"empty", nil, StatusSynced},
		{"all synced", []SyncItem{{Status: StatusSynced}, {Status: StatusNotApplicable}}, StatusSynced},
		{"one extra", []SyncItem{{Status: StatusSynced}, {Status: StatusExtra}}, StatusDrift},
		{"one missing", []SyncItem{{Status: StatusMissing}}, StatusDrift},
	}
	for _, tt := range tests {
		report := &SyncReport{Items: tt.items}
		if got := report.OverallStatus(); got != tt.want {
			t.Errorf("%s: OverallStatus() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestPluginValidationStatus(t *testing.T) {
	v := PluginValidation{HasPluginJSON: true, PluginJSONValid: true}
	if got := v.Status(); got != ProbeOK {
		t.Errorf("Status() = %q, want ok", got)
	}
	v.Errors = []string{"Missing required key: name"}
	if got := v.Status(); got != ProbeError {
		t.Errorf("Status() = %q, want error", got)
	}
	v = PluginValidation{}
	if got := v.Status(); got != ProbeUnavailable {
		t.Errorf("Status() = %q, want unavailable", got)
	}
}

func TestProbeReportOverallStatus(t *testing.T) {
	report := &ProbeReport{Results: []ProbeResult{
		{Status: ProbeOK},
		{Status: ProbeUnavailable},
	}}
	if got := report.OverallStatus(); got != ProbeOK {
		t.Errorf("OverallStatus() = %q, want ok", got)
	}
	report.Results = append(report.Results, ProbeResult{Status: ProbeError})
	if got := report.OverallStatus(); got != ProbeError {
		t.Errorf("OverallStatus() = %q, want error", got)
	}
}

func TestLogReportDerivedLists(t *testing.T) {
	report := &LogReport{
		MCPEvents: []McpLogEvent{
			{ServerName: "github", EventType: "connected"},
			{ServerName: "github", EventType: "connected"},
			{ServerName: "linear", EventType: "errored"},
			{ServerName: "azure", EventType: "connected"},
		},
		Errors: []LogError{
			{Source: "codex", Category: "auth", Message: "token expired"},
			{Source: "codex", Category: "general", Message: "stream closed"},
		},
	}

	connected := report.ConnectedServers()
	if len(connected) != 2 || connected[0] != "azure" || connected[1] != "github" {
		t.Errorf("ConnectedServers() = %v, want [azure github]", connected)
	}
	errored := report.ErroredServers()
	if len(errored) != 1 || errored[0] != "linear" {
		t.Errorf("ErroredServers() = %v, want [linear]", errored)
	}
	auth := report.AuthErrors()
	if len(auth) != 1 || auth[0].Message != "token expired" {
		t.Errorf("AuthErrors() = %v", auth)
	}
}
