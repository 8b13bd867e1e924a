package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentsync-dev/agentsync/internal/core"
)

var (
	fixDryRun bool
	fixJSON   bool
	fixQuiet  bool
	fixTool   string
	fixType   string
)

var fixCmd = &cobra.Command{
	Use:   "fix",
	Short: "Apply automated fixes for detected drift",
	Long: `Scan, compare, and apply every available automated fix: merge missing
MCP servers into tool configs, repair the skills junction and
additionalDirectories, and write canonical commands to their targets.

Fixes are batched per config file and idempotent; --dry-run previews the
exact actions without touching anything.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}

		before := d.scanAndCompare()
		applier := core.NewFixApplier(d.paths)
		actions := applier.Apply(before, fixDryRun)

		// Filters narrow the report output; fixes always apply in full.
		beforeItems, err := filterItems(before.Items, fixTool, fixType)
		if err != nil {
			return err
		}

		if fixDryRun {
			if fixJSON {
				out, err := core.MarshalFixReport(before, nil, beforeItems, nil, actions, true)
				if err != nil {
					return fmt.Errorf("serializing fix report: %w", err)
				}
				fmt.Fprintln(os.Stdout, string(out))
				return nil
			}
			if !fixQuiet {
				renderActions(os.Stdout, actions, true)
			}
			return nil
		}

		after := d.scanAndCompare()
		afterItems, err := filterItems(after.Items, fixTool, fixType)
		if err != nil {
			return err
		}

		if fixJSON {
			out, err := core.MarshalFixReport(before, after, beforeItems, afterItems, actions, false)
			if err != nil {
				return fmt.Errorf("serializing fix report: %w", err)
			}
			fmt.Fprintln(os.Stdout, string(out))
			return nil
		}
		if fixQuiet {
			return nil
		}

		renderActions(os.Stdout, actions, false)
		if len(actions) > 0 {
			drift := after.DriftCount()
			missing := after.MissingCount()
			if drift == 0 && missing == 0 {
				fmt.Fprintln(os.Stdout, "All checks pass after fix.")
			} else {
				fmt.Fprintf(os.Stdout, "Still %d drift / %d missing after fix.\n", drift, missing)
			}
		}
		return nil
	},
}

func init() {
	fixCmd.Flags().BoolVar(&fixDryRun, "dry-run", false, "show what would be fixed without changing anything")
	fixCmd.Flags().BoolVar(&fixJSON, "json", false, "output as JSON")
	fixCmd.Flags().BoolVarP(&fixQuiet, "quiet", "q", false, "suppress output")
	fixCmd.Flags().StringVar(&fixTool, "tool", "", "only report items for one tool (copilot, claude, codex)")
	fixCmd.Flags().StringVar(&fixType, "type", "", "only report one content type (mcp, skill, command, plugin, infrastructure)")
	rootCmd.AddCommand(fixCmd)
}

// renderActions prints one bullet per action plus a closing summary.
func renderActions(w *os.File, actions []string, dryRun bool) {
	if len(actions) == 0 {
		fmt.Fprintln(w, "Everything is in sync!")
		return
	}
	prefix := "Done: "
	if dryRun {
		prefix = "Would: "
	}
	for _, action := range actions {
		fmt.Fprintf(w, "  - %s%s\n", prefix, action)
	}
	if !dryRun {
		fmt.Fprintf(w, "Applied %d fix(es).\n", len(actions))
	}
}
