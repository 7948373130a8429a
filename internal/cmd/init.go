package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ghtool/pkg/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize ghtool configuration",
	Long:  "Create a default configuration file for ghtool",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, _ []string) error {
	configPath := cfgFile
	if configPath == "" {
		var err error
		configPath, err = config.GetConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	prompt := newPrompter(cmd.InOrStdin(), out)

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		_, _ = fmt.Fprintf(out, "⚠️  Configuration file already exists at: %s\n", configPath)
		overwrite, err := prompt.Confirm("Do you want to overwrite it?")
		if err != nil || !overwrite {
			_, _ = fmt.Fprintln(out, "Configuration initialization cancelled.")
			return nil
		}
	}

	if err := config.DefaultConfig().SaveConfigToPath(configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	_, _ = fmt.Fprintf(out, "✅ Configuration file created at: %s\n", configPath)
	_, _ = fmt.Fprintln(out, "📝 Edit it to point at GitHub Enterprise or to switch selection.mode to fzf.")

	return nil
}
