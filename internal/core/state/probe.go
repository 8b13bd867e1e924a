package state

import "sort"

// ProbeStatus is the result of validating a single target.
type ProbeStatus string

const (
	ProbeOK          ProbeStatus = "ok"
	ProbeError       ProbeStatus = "error"
	ProbeTimeout     ProbeStatus = "timeout"
	ProbeSkipped     ProbeStatus = "skipped"
	ProbeUnavailable ProbeStatus = "unavailable"
)

// ProbeTargetType classifies what kind of entity was probed.
type ProbeTargetType string

const (
	TargetCopilotSDK ProbeTargetType = "copilot-sdk"
	TargetMCPHTTP    ProbeTargetType = "mcp-http"
	TargetMCPStdio   ProbeTargetType = "mcp-stdio"
	TargetMCPLocal   ProbeTargetType = "mcp-local"
	TargetPlugin     ProbeTargetType = "plugin"
	TargetLogCheck   ProbeTargetType = "log-check"
	TargetCLIVersion ProbeTargetType = "cli-version"
)

// ProbeResult is the outcome of validating one target (MCP server, CLI
// binary, config file). ErrorMessage carries either the failure text or
// an AGENT GUIDANCE block describing how to verify the target manually.
type ProbeResult struct {
	Target           string          `json:"target"`
	TargetType       ProbeTargetType `json:"target_type"`
	Tool             *ToolName       `json:"tool"`
	Status           ProbeStatus     `json:"status"`
	LatencyMs        float64         `json:"latency_ms,omitempty"`
	ToolsDiscovered  []string        `json:"tools_discovered,omitempty"`
	ModelsDiscovered []string        `json:"models_discovered,omitempty"`
	ErrorMessage     string          `json:"error_message,omitempty"`
	Detail           string          `json:"detail,omitempty"`
}

// PluginValidation is the manifest validation result for one Copilot
// plugin directory.
type PluginValidation struct {
	Name            string   `json:"name"`
	Path            string   `json:"path"`
	HasPluginJSON   bool     `json:"has_plugin_json"`
	PluginJSONValid bool     `json:"plugin_json_valid"`
	HasMCPJSON      bool     `json:"has_mcp_json"`
	MCPJSONValid    bool     `json:"mcp_json_valid"`
	Errors          []string `json:"errors"`
}

// Status derives the overall validation state for the plugin.
func (p *PluginValidation) Status() ProbeStatus {
	if len(p.Errors) > 0 {
		return ProbeError
	}
	if !p.HasPluginJSON {
		return ProbeUnavailable
	}
	return ProbeOK
}

// ProbeReport aggregates probe results. Counts are derived on each call.
type ProbeReport struct {
	Results           []ProbeResult      `json:"results"`
	PluginValidations []PluginValidation `json:"plugin_validations,omitempty"`
	Timestamp         string             `json:"timestamp"`
}

func (r *ProbeReport) countStatus(s ProbeStatus) int {
	n := 0
	for _, p := range r.Results {
		if p.Status == s {
			n++
		}
	}
	return n
}

// OkCount is the number of results with status ok.
func (r *ProbeReport) OkCount() int { return r.countStatus(ProbeOK) }

// ErrorCount is the number of results with status error.
func (r *ProbeReport) ErrorCount() int { return r.countStatus(ProbeError) }

// TimeoutCount is the number of results with status timeout.
func (r *ProbeReport) TimeoutCount() int { return r.countStatus(ProbeTimeout) }

// SkippedCount is the number of results with status skipped.
func (r *ProbeReport) SkippedCount() int { return r.countStatus(ProbeSkipped) }

// OverallStatus is error if anything errored, then timeout, then ok if
// at least one probe succeeded, else skipped.
func (r *ProbeReport) OverallStatus() ProbeStatus {
	if r.ErrorCount() > 0 {
		return ProbeError
	}
	if r.TimeoutCount() > 0 {
		return ProbeTimeout
	}
	if r.OkCount() > 0 {
		return ProbeOK
	}
	return ProbeSkipped
}

// McpLogEvent is a single MCP-related event extracted from a log file.
type McpLogEvent struct {
	Timestamp  string  `json:"timestamp"`
	ServerName string  `json:"server_name"`
	EventType  string  `json:"event_type"` // connected, errored, starting, connecting
	Detail     string  `json:"detail,omitempty"`
	LatencyMs  float64 `json:"latency_ms,omitempty"`
}

// LogError is a general error extracted from a tool log file.
type LogError struct {
	Timestamp string `json:"timestamp"`
	Source    string `json:"source"`   // copilot or codex
	Category  string `json:"category"` // auth, mcp, general
	Message   string `json:"message"`
}

// LogReport aggregates log analysis results.
type LogReport struct {
	MCPEvents       []McpLogEvent `json:"mcp_events"`
	Errors          []LogError    `json:"errors"`
	LogFilesScanned int           `json:"log_files_scanned"`
}

func (r *LogReport) serversWithEvent(eventType string) []string {
	seen := make(map[string]bool)
	for _, e := range r.MCPEvents {
		if e.EventType == eventType {
			seen[e.ServerName] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ConnectedServers lists server names with at least one connected event.
func (r *LogReport) ConnectedServers() []string { return r.serversWithEvent("connected") }

// ErroredServers lists server names with at least one errored event.
func (r *LogReport) ErroredServers() []string { return r.serversWithEvent("errored") }

// AuthErrors lists errors in the auth category.
func (r *LogReport) AuthErrors() []LogError {
	var out []LogError
	for _, e := range r.Errors {
		if e.Category == "auth" {
			out = append(out, e)
		}
	}
	return out
}
