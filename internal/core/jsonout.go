package core

import (
	"encoding/json"

	"github.com/agentsync-dev/agentsync/internal/core/state"
)

// The --json payload shapes below are a stable contract consumed by
// downstream agents. Derived counts are injected under "summary" keys so
// consumers never recompute them.

type reportSummary struct {
	SyncedCount   int              `json:"synced_count"`
	DriftCount    int              `json:"drift_count"`
	MissingCount  int              `json:"missing_count"`
	ExtraCount    int              `json:"extra_count"`
	FixableCount  int              `json:"fixable_count"`
	OverallStatus state.SyncStatus `json:"overall_status"`
}

type checkPayload struct {
	Canonical   *state.CanonicalState                `json:"canonical"`
	ToolConfigs map[state.ToolName]*state.ToolConfig `json:"tool_configs"`
	Items       []state.SyncItem                     `json:"items"`
	Summary     reportSummary                        `json:"summary"`
}

func summarize(report *state.SyncReport) reportSummary {
	return reportSummary{
		SyncedCount:   report.SyncedCount(),
		DriftCount:    report.DriftCount(),
		MissingCount:  report.MissingCount(),
		ExtraCount:    report.ExtraCount(),
		FixableCount:  report.FixableCount(),
		OverallStatus: report.OverallStatus(),
	}
}

// MarshalCheckReport serializes a sync report for `check --json`. The
// items slice may be a filtered view; the summary always reflects the
// full report.
func MarshalCheckReport(report *state.SyncReport, items []state.SyncItem) ([]byte, error) {
	return json.MarshalIndent(checkPayload{
		Canonical:   report.Canonical,
		ToolConfigs: report.ToolConfigs,
		Items:       items,
		Summary:     summarize(report),
	}, "", "  ")
}

type fixPayload struct {
	DryRun       bool          `json:"dry_run"`
	ActionsTaken []string      `json:"actions_taken"`
	ReportBefore *checkPayload `json:"report_before"`
	ReportAfter  *checkPayload `json:"report_after,omitempty"`
}

// MarshalFixReport serializes a fix run for `fix --json`. after is nil
// on dry runs (nothing changed, so there is no post-state to report).
// The item slices may be filtered views of their reports; summaries
// always reflect the full reports.
func MarshalFixReport(before, after *state.SyncReport, beforeItems, afterItems []state.SyncItem, actions []string, dryRun bool) ([]byte, error) {
	payload := fixPayload{
		DryRun:       dryRun,
		ActionsTaken: actions,
		ReportBefore: &checkPayload{
			Canonical:   before.Canonical,
			ToolConfigs: before.ToolConfigs,
			Items:       beforeItems,
			Summary:     summarize(before),
		},
	}
	if after != nil {
		payload.ReportAfter = &checkPayload{
			Canonical:   after.Canonical,
			ToolConfigs: after.ToolConfigs,
			Items:       afterItems,
			Summary:     summarize(after),
		}
	}
	return json.MarshalIndent(payload, "", "  ")
}

type probeSummary struct {
	OkCount       int               `json:"ok_count"`
	ErrorCount    int               `json:"error_count"`
	TimeoutCount  int               `json:"timeout_count"`
	SkippedCount  int               `json:"skipped_count"`
	OverallStatus state.ProbeStatus `json:"overall_status"`
}

type probeSection struct {
	Results           []state.ProbeResult      `json:"results"`
	PluginValidations []state.PluginValidation `json:"plugin_validations,omitempty"`
	Timestamp         string                   `json:"timestamp"`
	Summary           probeSummary             `json:"summary"`
}

type logSummary struct {
	ConnectedServers []string         `json:"connected_servers"`
	ErroredServers   []string         `json:"errored_servers"`
	AuthErrors       []state.LogError `json:"auth_errors"`
}

type logSection struct {
	MCPEvents       []state.McpLogEvent `json:"mcp_events"`
	Errors          []state.LogError    `json:"errors"`
	LogFilesScanned int                 `json:"log_files_scanned"`
	Summary         logSummary          `json:"summary"`
}

type pluginEntry struct {
	state.PluginValidation
	Status state.ProbeStatus `json:"status"`
}

type probePayload struct {
	Probe   probeSection  `json:"probe"`
	Logs    *logSection   `json:"logs,omitempty"`
	Plugins []pluginEntry `json:"plugins,omitempty"`
}

// MarshalProbeReport serializes probe results for `probe --json`.
// results may be a filtered view of report.Results; the summary always
// reflects the full report. logs and plugins are optional sections.
func MarshalProbeReport(report *state.ProbeReport, results []state.ProbeResult, logs *state.LogReport, plugins []state.PluginValidation) ([]byte, error) {
	payload := probePayload{
		Probe: probeSection{
			Results:           results,
			PluginValidations: report.PluginValidations,
			Timestamp:         report.Timestamp,
			Summary: probeSummary{
				OkCount:       report.OkCount(),
				ErrorCount:    report.ErrorCount(),
				TimeoutCount:  report.TimeoutCount(),
				SkippedCount:  report.SkippedCount(),
				OverallStatus: report.OverallStatus(),
			},
		},
	}
	if logs != nil {
		payload.Logs = &logSection{
			MCPEvents:       logs.MCPEvents,
			Errors:          logs.Errors,
			LogFilesScanned: logs.LogFilesScanned,
			Summary: logSummary{
				ConnectedServers: logs.ConnectedServers(),
				ErroredServers:   logs.ErroredServers(),
				AuthErrors:       logs.AuthErrors(),
			},
		}
	}
	for i := range plugins {
		payload.Plugins = append(payload.Plugins, pluginEntry{
			PluginValidation: plugins[i],
			Status:           plugins[i].Status(),
		})
	}
	return json.MarshalIndent(payload, "", "  ")
}
