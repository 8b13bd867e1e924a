package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentsync-dev/agentsync/internal/core"
	"github.com/agentsync-dev/agentsync/internal/core/state"
)

var (
	probeLogHistory bool
	probePlugins    bool
	probeJSON       bool
	probeQuiet      bool
	probeTool       string
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Validate configuration health without connecting to anything",
	Long: `Validate that CLI binaries are on PATH, MCP server definitions are
internally consistent, and config files are readable. Each result
includes guidance for running the actual connectivity check manually.

--log-history additionally scans recent tool logs for MCP connection
events and errors; --plugins validates installed Copilot plugin
manifests.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}

		canonical := core.ScanCanonical(d.paths)
		report := core.RunValidation(canonical, d.paths)

		results := report.Results
		if probeTool != "" {
			t, err := state.ParseToolName(probeTool)
			if err != nil {
				return err
			}
			results = nil
			for _, r := range report.Results {
				if r.Tool != nil && *r.Tool == t {
					results = append(results, r)
				}
			}
		}

		var logs *state.LogReport
		if probeLogHistory {
			logs = core.ParseLogs(d.paths, 5)
		}
		var plugins []state.PluginValidation
		if probePlugins {
			plugins = core.ValidatePlugins(d.paths.CopilotInstalledPlugins())
		}

		if probeJSON {
			out, err := core.MarshalProbeReport(report, results, logs, plugins)
			if err != nil {
				return fmt.Errorf("serializing probe report: %w", err)
			}
			fmt.Fprintln(os.Stdout, string(out))
		} else if !probeQuiet {
			renderProbeReport(os.Stdout, report, results)
			if logs != nil {
				renderLogReport(os.Stdout, logs)
			}
			if plugins != nil {
				renderPluginValidations(os.Stdout, plugins)
			}
		}

		for _, r := range results {
			if r.Status == state.ProbeError {
				return ErrIssuesFound
			}
		}
		return nil
	},
}

func init() {
	probeCmd.Flags().BoolVar(&probeLogHistory, "log-history", false, "scan recent tool logs for MCP events and errors")
	probeCmd.Flags().BoolVar(&probePlugins, "plugins", false, "validate installed Copilot plugin manifests")
	probeCmd.Flags().BoolVar(&probeJSON, "json", false, "output as JSON")
	probeCmd.Flags().BoolVarP(&probeQuiet, "quiet", "q", false, "suppress output, only set the exit code")
	probeCmd.Flags().StringVar(&probeTool, "tool", "", "only probe one tool (copilot, claude, codex)")
	rootCmd.AddCommand(probeCmd)
}
