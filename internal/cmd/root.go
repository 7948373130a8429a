package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var (
	cfgFile     string
	accountName string
	tokenValue  string
	logLevel    string
	logFormat   string
)

var rootCmd = &cobra.Command{
	Use:   "ghtool",
	Short: "List, delete and change the visibility of your GitHub repositories",
	Long: `ghtool is a command-line tool for managing the repositories of one or more
GitHub accounts. It lists the repositories you own or collaborate on, deletes
them or changes their visibility in bulk, and keeps a personal access token per
account in the operating system's credential store.

Run without a subcommand to start the interactive mode.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runInteractive,
}

// Execute runs the root command; interrupts cancel in-flight GitHub calls
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ~/.ghtool/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&accountName, "account", "", "GitHub account to act as (default: the active account)")
	rootCmd.PersistentFlags().StringVar(&tokenValue, "token", "", "Personal access token, overriding the stored one")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Diagnostic log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Diagnostic log format: console, structured")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(interactiveCmd)
}
