package core

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/agentsync-dev/agentsync/internal/core/state"
	"github.com/agentsync-dev/agentsync/internal/core/tool"
)

// RunValidation validates configurations without connecting to anything:
// CLI binaries on PATH, canonical MCP server definitions, and key config
// files. Results carry AGENT GUIDANCE text so an external agent (or a
// human) can run the actual connectivity checks; this tool never spawns
// servers or issues network requests itself.
func RunValidation(canonical *state.CanonicalState, p tool.Paths) *state.ProbeReport {
	report := &state.ProbeReport{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	for _, t := range state.AllTools() {
		report.Results = append(report.Results, validateCLIAvailability(t))
	}

	for i := range canonical.MCPServers {
		report.Results = append(report.Results, validateMCPServer(&canonical.MCPServers[i]))
	}

	configPaths := []struct {
		tool state.ToolName
		path string
	}{
		{state.ToolCopilot, p.CopilotConfigJSON()},
		{state.ToolClaude, filepath.Join(p.ClaudeDir, "config.json")},
	}
	for _, cp := range configPaths {
		if _, err := os.Stat(filepath.Dir(cp.path)); err != nil {
			continue
		}
		report.Results = append(report.Results, validateConfigFile(cp.path, cp.tool))
	}

	return report
}

// validateCLIAvailability checks whether the tool's CLI binary is on
// PATH, without executing it.
func validateCLIAvailability(t state.ToolName) state.ProbeResult {
	cmd := string(t)
	result := state.ProbeResult{
		Target:     cmd + "-cli",
		TargetType: state.TargetCLIVersion,
		Tool:       &t,
	}

	if path, err := exec.LookPath(cmd); err == nil {
		result.Status = state.ProbeOK
		result.Detail = "CLI found on PATH: " + path
		result.ErrorMessage = fmt.Sprintf("AGENT GUIDANCE: Run `%s --version` to verify installation", cmd)
	} else {
		result.Status = state.ProbeUnavailable
		result.ErrorMessage = fmt.Sprintf(
			"CLI not found on PATH: %s\nAGENT GUIDANCE: Install the tool or check PATH environment variable", cmd)
	}
	return result
}

// validateMCPServer checks one canonical server definition for internal
// consistency: HTTP servers need a URL, stdio/local servers need a
// resolvable command.
func validateMCPServer(srv *state.McpServer) state.ProbeResult {
	targetType := state.TargetMCPHTTP
	switch srv.ServerType {
	case state.ServerStdio:
		targetType = state.TargetMCPStdio
	case state.ServerLocal:
		targetType = state.TargetMCPLocal
	}
	result := state.ProbeResult{Target: srv.Name, TargetType: targetType}

	if srv.ServerType == state.ServerHTTP {
		if srv.URL == "" {
			result.Status = state.ProbeError
			result.ErrorMessage = "No URL configured for HTTP server"
			return result
		}
		result.Status = state.ProbeOK
		result.Detail = "URL configured: " + srv.URL
		result.ErrorMessage = fmt.Sprintf(
			"AGENT GUIDANCE: Test connectivity with:\n"+
				"  curl -X POST %s/initialize -H 'Content-Type: application/json'\n"+
				"  or use an HTTP client to verify the endpoint is accessible", srv.URL)
		return result
	}

	if srv.Command == "" {
		result.Status = state.ProbeError
		result.ErrorMessage = "No command configured for stdio/local server"
		return result
	}

	if path, err := exec.LookPath(srv.Command); err == nil {
		result.Status = state.ProbeOK
		result.Detail = "Command found: " + path
		result.ErrorMessage = fmt.Sprintf(
			"AGENT GUIDANCE: Test the server with:\n"+
				"  %s %s\n"+
				"  Verify it starts without errors and responds to MCP protocol",
			srv.Command, strings.Join(srv.Args, " "))
	} else {
		args := "none"
		if len(srv.Args) > 0 {
			args = strings.Join(srv.Args, " ")
		}
		result.Status = state.ProbeUnavailable
		result.ErrorMessage = fmt.Sprintf(
			"Command not found: %s\n"+
				"AGENT GUIDANCE: Install the required binary or check PATH.\n"+
				"  Expected command: %s\n"+
				"  Args: %s", srv.Command, srv.Command, args)
	}
	return result
}

// validateConfigFile checks that a config file exists and is readable.
func validateConfigFile(path string, t state.ToolName) state.ProbeResult {
	result := state.ProbeResult{
		Target:     path,
		TargetType: state.TargetCLIVersion,
		Tool:       &t,
	}

	info, err := os.Stat(path)
	if err != nil {
		result.Status = state.ProbeUnavailable
		result.ErrorMessage = fmt.Sprintf(
			"Configuration file not found: %s\nAGENT GUIDANCE: Create the file with proper %s configuration", path, t)
		return result
	}
	if info.IsDir() {
		result.Status = state.ProbeError
		result.ErrorMessage = "Path exists but is not a file: " + path
		return result
	}
	if _, err := os.ReadFile(path); err != nil {
		result.Status = state.ProbeError
		if os.IsPermission(err) {
			result.ErrorMessage = "Permission denied reading: " + path
		} else {
			result.ErrorMessage = fmt.Sprintf("Error reading file: %v", err)
		}
		return result
	}

	result.Status = state.ProbeOK
	result.Detail = fmt.Sprintf("Configuration file exists (%d bytes)", info.Size())
	result.ErrorMessage = fmt.Sprintf(
		"AGENT GUIDANCE: Validate configuration syntax:\n"+
			"  - Check JSON/TOML/YAML syntax is valid\n"+
			"  - Verify all required fields are present\n"+
			"  - Test with: %s --config %s --validate", t, path)
	return result
}
