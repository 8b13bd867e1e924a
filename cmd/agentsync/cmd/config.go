package cmd

import (
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/agentsync-dev/agentsync/internal/core"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the resolved user configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved configuration as TOML",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := core.LoadUserConfig(core.DefaultUserConfigPath())
		if err != nil {
			return err
		}
		out, err := toml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("encoding config: %w", err)
		}
		fmt.Fprint(os.Stdout, string(out))
		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the user configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := core.LoadUserConfig(core.DefaultUserConfigPath())
		if err != nil {
			return err
		}
		warnings := cfg.Validate()
		if len(warnings) == 0 {
			fmt.Fprintln(os.Stdout, "Configuration is valid.")
			return nil
		}
		for _, w := range warnings {
			fmt.Fprintf(os.Stdout, "  - %s\n", w)
		}
		return ErrIssuesFound
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
	rootCmd.AddCommand(configCmd)
}
