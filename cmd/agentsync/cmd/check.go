package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentsync-dev/agentsync/internal/core"
	"github.com/agentsync-dev/agentsync/internal/core/state"
)

var (
	checkJSON  bool
	checkQuiet bool
	checkTool  string
	checkType  string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Scan all configurations and report drift",
	Long: `Scan the canonical agents directory and every enabled tool, compare
them, and render a sync report. Exits 1 when any reported item has
drifted or is missing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}

		report := d.scanAndCompare()
		items, err := filterItems(report.Items, checkTool, checkType)
		if err != nil {
			return err
		}

		if checkJSON {
			out, err := core.MarshalCheckReport(report, items)
			if err != nil {
				return fmt.Errorf("serializing report: %w", err)
			}
			fmt.Fprintln(os.Stdout, string(out))
		} else if !checkQuiet {
			renderReport(os.Stdout, report, items)
		}

		for _, item := range items {
			if item.Status == state.StatusDrift || item.Status == state.StatusMissing {
				return ErrIssuesFound
			}
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "output as JSON")
	checkCmd.Flags().BoolVarP(&checkQuiet, "quiet", "q", false, "suppress report output, only set the exit code")
	checkCmd.Flags().StringVar(&checkTool, "tool", "", "only report items for one tool (copilot, claude, codex)")
	checkCmd.Flags().StringVar(&checkType, "type", "", "only report one content type (mcp, skill, command, plugin, infrastructure)")
	rootCmd.AddCommand(checkCmd)
}

// filterItems narrows a report's items by tool and content type. The
// "infrastructure" pseudo-type covers symlink and config items.
func filterItems(items []state.SyncItem, toolFilter, typeFilter string) ([]state.SyncItem, error) {
	var wantTool state.ToolName
	if toolFilter != "" {
		t, err := state.ParseToolName(toolFilter)
		if err != nil {
			return nil, err
		}
		wantTool = t
	}

	wantTypes := map[string]bool{}
	switch typeFilter {
	case "":
	case "infrastructure":
		wantTypes[state.ContentSymlink] = true
		wantTypes[state.ContentConfig] = true
	case state.ContentMCP, state.ContentSkill, state.ContentCommand, state.ContentPlugin:
		wantTypes[typeFilter] = true
	default:
		return nil, fmt.Errorf("unknown content type %q (valid: mcp, skill, command, plugin, infrastructure)", typeFilter)
	}

	var out []state.SyncItem
	for _, item := range items {
		if wantTool != "" && item.Tool != wantTool {
			continue
		}
		if len(wantTypes) > 0 && !wantTypes[item.ContentType] {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}
