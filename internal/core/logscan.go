package core

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/agentsync-dev/agentsync/internal/core/state"
	"github.com/agentsync-dev/agentsync/internal/core/tool"
)

// Copilot writes MCP lifecycle lines at [ERROR] level regardless of
// severity, so the patterns match on content rather than level.
var (
	reMCPConnected = regexp.MustCompile(
		`^([\dT:.Z-]+)\s+\[ERROR\]\s+MCP client for (\S+) connected,\s+took (\d+)ms$`)
	reMCPErrored = regexp.MustCompile(
		`^([\dT:.Z-]+)\s+\[ERROR\]\s+MCP client for (\S+) errored\s+(.+)$`)
	reMCPStarting = regexp.MustCompile(
		`^([\dT:.Z-]+)\s+\[ERROR\]\s+Starting (?:remote )?MCP client for (\S+)`)
	reMCPConnecting = regexp.MustCompile(
		`^([\dT:.Z-]+)\s+\[ERROR\]\s+Connecting MCP client for (\S+)`)

	reCodexAuthError = regexp.MustCompile(
		`^([\dT:.Z-]+)\s+ERROR\s+codex_core::auth:\s+(.+)$`)
	reCodexError = regexp.MustCompile(
		`^([\dT:.Z-]+)\s+ERROR\s+codex_core::([^:]+).*?:\s+(.+)$`)
)

// ParseLogs scans recent tool log files for MCP lifecycle events and
// errors. maxCopilotLogs caps how many Copilot process logs are read,
// newest first by modification time.
func ParseLogs(p tool.Paths, maxCopilotLogs int) *state.LogReport {
	report := &state.LogReport{}

	for _, path := range recentCopilotLogs(p.CopilotLogsDir(), maxCopilotLogs) {
		parseCopilotLog(path, report)
		report.LogFilesScanned++
	}

	codexLog := p.CodexLogFile()
	if info, err := os.Stat(codexLog); err == nil && !info.IsDir() {
		parseCodexLog(codexLog, report)
		report.LogFilesScanned++
	}

	return report
}

// recentCopilotLogs lists process-*.log files newest first, capped at max.
func recentCopilotLogs(dir string, max int) []string {
	matches, err := filepath.Glob(filepath.Join(dir, "process-*.log"))
	if err != nil || len(matches) == 0 {
		return nil
	}
	sort.Slice(matches, func(i, j int) bool {
		return logMtime(matches[i]).After(logMtime(matches[j]))
	})
	if len(matches) > max {
		matches = matches[:max]
	}
	return matches
}

func logMtime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

func parseCopilotLog(path string, report *state.LogReport) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	for _, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if m := reMCPConnected.FindStringSubmatch(line); m != nil {
			latency, _ := strconv.ParseFloat(m[3], 64)
			report.MCPEvents = append(report.MCPEvents, state.McpLogEvent{
				Timestamp:  m[1],
				ServerName: m[2],
				EventType:  "connected",
				LatencyMs:  latency,
			})
			continue
		}
		if m := reMCPErrored.FindStringSubmatch(line); m != nil {
			report.MCPEvents = append(report.MCPEvents, state.McpLogEvent{
				Timestamp:  m[1],
				ServerName: m[2],
				EventType:  "errored",
				Detail:     m[3],
			})
			continue
		}
		if m := reMCPStarting.FindStringSubmatch(line); m != nil {
			report.MCPEvents = append(report.MCPEvents, state.McpLogEvent{
				Timestamp:  m[1],
				ServerName: m[2],
				EventType:  "starting",
			})
			continue
		}
		if m := reMCPConnecting.FindStringSubmatch(line); m != nil {
			report.MCPEvents = append(report.MCPEvents, state.McpLogEvent{
				Timestamp:  m[1],
				ServerName: strings.TrimRight(m[2], "."),
				EventType:  "connecting",
			})
		}
	}
}

func parseCodexLog(path string, report *state.LogReport) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	for _, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if m := reCodexAuthError.FindStringSubmatch(line); m != nil {
			report.Errors = append(report.Errors, state.LogError{
				Timestamp: m[1],
				Source:    "codex",
				Category:  "auth",
				Message:   truncateMessage(m[2]),
			})
			continue
		}
		if m := reCodexError.FindStringSubmatch(line); m != nil && !strings.Contains(m[2], "auth") {
			report.Errors = append(report.Errors, state.LogError{
				Timestamp: m[1],
				Source:    "codex",
				Category:  "general",
				Message:   truncateMessage(m[3]),
			})
		}
	}
}

func truncateMessage(msg string) string {
	if len(msg) > 200 {
		return msg[:200]
	}
	return msg
}
