package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentsync-dev/agentsync/internal/core"
	"github.com/agentsync-dev/agentsync/internal/core/state"
	"github.com/agentsync-dev/agentsync/internal/core/tool"
	"github.com/agentsync-dev/agentsync/internal/logging"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// ErrIssuesFound signals a clean run that detected drift; main exits 1
// without printing an error.
var ErrIssuesFound = errors.New("issues found")

var (
	flagAgentsDir string
	flagVerbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "agentsync",
	Short: "Keep AI agent configuration in sync across Copilot, Claude, and Codex",
	Long: `AgentSync reconciles the canonical ~/.agents/ directory (MCP servers,
skills, commands, product workflows) against the GitHub Copilot CLI,
Claude Code, and OpenAI Codex CLI configuration stores.

It reports drift, applies batched idempotent fixes, and validates
configuration health. Running the bare command opens the dashboard.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(flagVerbose)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("agentsync %s (commit: %s, built: %s)\n", Version, Commit, Date)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagAgentsDir, "agents-dir", "", "override the canonical agents directory")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// deps bundles the resolved configuration every subcommand needs.
type deps struct {
	userConfig core.UserConfig
	paths      tool.Paths
	enabled    []state.ToolName
	opts       core.CompareOptions
}

// newDeps loads the optional user config and resolves paths, applying
// the --agents-dir override last so flags win over config.
func newDeps() (*deps, error) {
	cfg, err := core.LoadUserConfig(core.DefaultUserConfigPath())
	if err != nil {
		return nil, err
	}
	paths, err := cfg.ResolvePaths()
	if err != nil {
		return nil, fmt.Errorf("resolving paths: %w", err)
	}
	if flagAgentsDir != "" {
		paths.AgentsDir = tool.ExpandPath(flagAgentsDir)
	}
	return &deps{
		userConfig: cfg,
		paths:      paths,
		enabled:    cfg.EnabledTools(),
		opts:       cfg.CompareOptions(),
	}, nil
}

// scanAndCompare runs the full scan + compare pipeline.
func (d *deps) scanAndCompare() *state.SyncReport {
	canonical := core.ScanCanonical(d.paths)
	toolConfigs := core.ScanTools(d.paths, d.enabled)
	infra := core.CheckInfra(d.paths)
	return core.BuildSyncReport(canonical, toolConfigs, infra, d.opts)
}
