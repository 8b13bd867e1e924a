package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/agentsync-dev/agentsync/internal/core/state"
)

// Status glyphs for plain-text tables.
func statusGlyph(s state.SyncStatus) string {
	switch s {
	case state.StatusSynced:
		return "[OK]"
	case state.StatusDrift:
		return "[!!]"
	case state.StatusMissing:
		return "[XX]"
	case state.StatusExtra:
		return "[++]"
	}
	return "--"
}

func probeGlyph(s state.ProbeStatus) string {
	switch s {
	case state.ProbeOK:
		return "[OK]"
	case state.ProbeError:
		return "[ERR]"
	case state.ProbeTimeout:
		return "[T/O]"
	case state.ProbeSkipped:
		return "[SKIP]"
	}
	return "[N/A]"
}

func fixDetail(item state.SyncItem) string {
	if item.FixAction == nil {
		return ""
	}
	return item.FixAction.Detail
}

// renderReport prints the full sync report. items may be a filtered
// view; the header summary always reflects the full report so filter
// narrowing is obvious.
func renderReport(w io.Writer, report *state.SyncReport, items []state.SyncItem) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Agent Sync Report")
	fmt.Fprintf(w, "%s Overall: %s\n", statusGlyph(report.OverallStatus()), strings.ToUpper(string(report.OverallStatus())))
	fmt.Fprintf(w, "Synced: %d  Drift: %d  Missing: %d  Extra: %d  Fixable: %d\n",
		report.SyncedCount(), report.DriftCount(), report.MissingCount(),
		report.ExtraCount(), report.FixableCount())

	renderItemTable(w, "MCP Servers", byType(items, state.ContentMCP), true)
	renderInfraTable(w, byTypes(items, state.ContentSymlink, state.ContentConfig))
	renderItemTable(w, "GitHub Copilot Plugins", byType(items, state.ContentPlugin), false)
	renderItemTable(w, "Commands / Prompts", byType(items, state.ContentCommand), true)
	renderSkillsMatrix(w, byType(items, state.ContentSkill))
	renderWorkflows(w, report.Canonical.ProductWorkflows)
	renderToolConfigs(w, report.ToolConfigs)

	issues := report.DriftCount() + report.MissingCount() + report.ExtraCount()
	if issues > 0 && report.FixableCount() == 0 {
		fmt.Fprintln(w, "\nIssues found, but none can be fixed automatically.")
	} else if report.FixableCount() > 0 {
		fmt.Fprintf(w, "\nRun 'agentsync fix' to apply %d fix(es).\n", report.FixableCount())
	}
	fmt.Fprintln(w)
}

func byType(items []state.SyncItem, contentType string) []state.SyncItem {
	var out []state.SyncItem
	for _, item := range items {
		if item.ContentType == contentType {
			out = append(out, item)
		}
	}
	return out
}

func byTypes(items []state.SyncItem, contentTypes ...string) []state.SyncItem {
	var out []state.SyncItem
	for _, item := range items {
		for _, ct := range contentTypes {
			if item.ContentType == ct {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

func renderItemTable(w io.Writer, title string, items []state.SyncItem, withTool bool) {
	if len(items) == 0 {
		return
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].ItemName != items[j].ItemName {
			return items[i].ItemName < items[j].ItemName
		}
		return items[i].Tool < items[j].Tool
	})

	fmt.Fprintf(w, "\n%s\n", title)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if withTool {
		fmt.Fprintln(tw, "  NAME\tTOOL\tSTATUS\tDETAIL\tFIX")
		for _, item := range items {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\n",
				item.ItemName, item.Tool, statusGlyph(item.Status), item.Detail, fixDetail(item))
		}
	} else {
		fmt.Fprintln(tw, "  NAME\tSTATUS\tDETAIL\tFIX")
		for _, item := range items {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n",
				item.ItemName, statusGlyph(item.Status), item.Detail, fixDetail(item))
		}
	}
	tw.Flush()
}

func renderInfraTable(w io.Writer, items []state.SyncItem) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintln(w, "\nInfrastructure")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  CHECK\tSTATUS\tDETAIL\tFIX")
	for _, item := range items {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n",
			item.ItemName, statusGlyph(item.Status), item.Detail, fixDetail(item))
	}
	tw.Flush()
}

// renderSkillsMatrix prints one row per skill with a per-tool glyph.
func renderSkillsMatrix(w io.Writer, items []state.SyncItem) {
	if len(items) == 0 {
		return
	}
	byName := make(map[string]map[state.ToolName]state.SyncStatus)
	for _, item := range items {
		if byName[item.ItemName] == nil {
			byName[item.ItemName] = make(map[state.ToolName]state.SyncStatus)
		}
		byName[item.ItemName][item.Tool] = item.Status
	}
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintf(w, "\nSkills (%d shared)\n", len(names))
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  SKILL\tCOPILOT\tCLAUDE\tCODEX")
	for _, name := range names {
		statuses := byName[name]
		row := make([]string, 0, 3)
		for _, t := range state.AllTools() {
			status, ok := statuses[t]
			if !ok {
				status = state.StatusNotApplicable
			}
			row = append(row, statusGlyph(status))
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", name, row[0], row[1], row[2])
	}
	tw.Flush()
}

func renderWorkflows(w io.Writer, workflows []state.ProductWorkflow) {
	if len(workflows) == 0 {
		return
	}
	fmt.Fprintln(w, "\nProduct Workflows")
	for _, wf := range workflows {
		pluginStatus := "--"
		if wf.CopilotPluginInstalled {
			pluginStatus = "[OK] v" + wf.CopilotPluginVersion
		}
		fmt.Fprintf(w, "  %s: agents=%d prompts=%d instructions=%d skills=%d plugin=%s\n",
			wf.Name, len(wf.Agents), len(wf.Prompts), len(wf.Instructions), len(wf.Skills), pluginStatus)
	}
}

func renderToolConfigs(w io.Writer, configs map[state.ToolName]*state.ToolConfig) {
	if len(configs) == 0 {
		return
	}
	fmt.Fprintln(w, "\nTool Configurations")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  TOOL\tMODEL\tMCP\tSKILLS\tCOMMANDS")
	for _, t := range state.AllTools() {
		tc, ok := configs[t]
		if !ok {
			continue
		}
		model := tc.Model
		if model == "" {
			model = "--"
		}
		fmt.Fprintf(tw, "  %s\t%s\t%d\t%d\t%d\n",
			t.DisplayName(), model, len(tc.MCPServers), len(tc.Skills), len(tc.Commands))
	}
	tw.Flush()
}

func fmtLatency(ms float64) string {
	if ms == 0 {
		return "--"
	}
	if ms < 1000 {
		return fmt.Sprintf("%.0fms", ms)
	}
	return fmt.Sprintf("%.1fs", ms/1000)
}

// renderProbeReport prints validation results grouped by target type.
// results may be a filtered view; the header reflects the full report.
func renderProbeReport(w io.Writer, report *state.ProbeReport, results []state.ProbeResult) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Configuration Probe Report")
	fmt.Fprintf(w, "%s Probe: %s\n", probeGlyph(report.OverallStatus()), strings.ToUpper(string(report.OverallStatus())))
	fmt.Fprintf(w, "OK: %d  Error: %d  Timeout: %d  Skipped: %d\n",
		report.OkCount(), report.ErrorCount(), report.TimeoutCount(), report.SkippedCount())

	var cli, mcp, other []state.ProbeResult
	for _, r := range results {
		switch r.TargetType {
		case state.TargetCLIVersion:
			cli = append(cli, r)
		case state.TargetMCPHTTP, state.TargetMCPStdio, state.TargetMCPLocal:
			mcp = append(mcp, r)
		default:
			other = append(other, r)
		}
	}

	renderProbeTable(w, "CLI Tools & Config Files", cli, false)
	renderProbeTable(w, "MCP Servers", mcp, true)
	renderProbeTable(w, "Other Targets", other, false)

	// Guidance blocks under the tables, one per non-ok result.
	for _, r := range results {
		if r.Status != state.ProbeOK && r.ErrorMessage != "" {
			fmt.Fprintf(w, "\n%s %s:\n", probeGlyph(r.Status), r.Target)
			for _, line := range strings.Split(r.ErrorMessage, "\n") {
				fmt.Fprintf(w, "  %s\n", line)
			}
		}
	}
	fmt.Fprintln(w)
}

func renderProbeTable(w io.Writer, title string, results []state.ProbeResult, withType bool) {
	if len(results) == 0 {
		return
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Target < results[j].Target })

	fmt.Fprintf(w, "\n%s\n", title)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if withType {
		fmt.Fprintln(tw, "  TARGET\tTYPE\tSTATUS\tDETAIL\tLATENCY")
		for _, r := range results {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\n",
				r.Target, strings.TrimPrefix(string(r.TargetType), "mcp-"),
				probeGlyph(r.Status), probeDetail(r), fmtLatency(r.LatencyMs))
		}
	} else {
		fmt.Fprintln(tw, "  TARGET\tSTATUS\tDETAIL\tLATENCY")
		for _, r := range results {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n",
				r.Target, probeGlyph(r.Status), probeDetail(r), fmtLatency(r.LatencyMs))
		}
	}
	tw.Flush()
}

func probeDetail(r state.ProbeResult) string {
	if r.Detail != "" {
		return r.Detail
	}
	// Only the first line; full guidance renders separately.
	first, _, _ := strings.Cut(r.ErrorMessage, "\n")
	return first
}

func renderLogReport(w io.Writer, report *state.LogReport) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Log History")
	fmt.Fprintf(w, "Scanned %d log file(s)\n", report.LogFilesScanned)
	fmt.Fprintf(w, "Connected: %d  Errored: %d  Auth errors: %d\n",
		len(report.ConnectedServers()), len(report.ErroredServers()), len(report.AuthErrors()))

	if len(report.MCPEvents) > 0 {
		// Latest event per (server, event type).
		latest := make(map[string]state.McpLogEvent)
		for _, evt := range report.MCPEvents {
			latest[evt.ServerName+":"+evt.EventType] = evt
		}
		keys := make([]string, 0, len(latest))
		for k := range latest {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fmt.Fprintln(w, "\nMCP Log Events (recent)")
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "  SERVER\tEVENT\tLATENCY\tDETAIL")
		for _, k := range keys {
			evt := latest[k]
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n",
				evt.ServerName, evt.EventType, fmtLatency(evt.LatencyMs), clip(evt.Detail, 80))
		}
		tw.Flush()
	}

	if len(report.Errors) > 0 {
		fmt.Fprintln(w, "\nErrors from Logs")
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "  SOURCE\tCATEGORY\tTIMESTAMP\tMESSAGE")
		errs := report.Errors
		if len(errs) > 20 {
			errs = errs[:20]
		}
		for _, e := range errs {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", e.Source, e.Category, clip(e.Timestamp, 19), clip(e.Message, 100))
		}
		tw.Flush()
	}
	fmt.Fprintln(w)
}

func renderPluginValidations(w io.Writer, results []state.PluginValidation) {
	fmt.Fprintln(w)
	if len(results) == 0 {
		fmt.Fprintln(w, "No plugins found in installed-plugins/")
		return
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Name < results[j].Name })

	fmt.Fprintln(w, "Plugin Validation")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  PLUGIN\tSTATUS\tPLUGIN.JSON\t.MCP.JSON\tERRORS")
	for i := range results {
		v := &results[i]
		errs := v.Errors
		if len(errs) > 3 {
			errs = errs[:3]
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\n",
			v.Name, probeGlyph(v.Status()),
			manifestGlyph(v.HasPluginJSON, v.PluginJSONValid),
			manifestGlyph(v.HasMCPJSON, v.MCPJSONValid),
			strings.Join(errs, "; "))
	}
	tw.Flush()
	fmt.Fprintln(w)
}

func manifestGlyph(present, valid bool) string {
	switch {
	case !present:
		return "--"
	case valid:
		return "[OK]"
	}
	return "[ERR]"
}

func clip(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
