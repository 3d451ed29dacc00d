package config

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	appconfig "leetstats/pkg/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long:  "Create a configuration file with default values at the XDG config location or --path",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("path")
		force, _ := cmd.Flags().GetBool("force")
		if path == "" {
			path = appconfig.DefaultConfigPath()
		}

		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
		}

		if err := appconfig.Default().Save(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote default configuration to %s\n", path)
		return nil
	},
}

func init() {
	initCmd.Flags().String("path", "", "where to write the file (default $XDG_CONFIG_HOME/leetstats/config.yaml)")
	initCmd.Flags().Bool("force", false, "overwrite an existing file")
	ConfigCmd.AddCommand(initCmd)
}
