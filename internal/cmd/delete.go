package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"ghtool/pkg/github"
)

type deleteOptions struct {
	dryRun bool
	yes    bool
}

func (o *deleteOptions) bind(flags *pflag.FlagSet) {
	flags.BoolVar(&o.dryRun, "dry-run", false, "Show what would be deleted without deleting")
	flags.BoolVarP(&o.yes, "yes", "y", false, "Do not ask for confirmation")
}

var deleteOpts deleteOptions

var deleteRepoCmd = &cobra.Command{
	Use:   "delete-repo [name...]",
	Short: "Delete one or more repositories",
	Long: `Delete repositories. Name them as arguments (name or owner/name), or pick them
interactively by number or keyword when no names are given.

Every selected repository is deleted concurrently; a failure on one does not stop
the others and nothing is rolled back.

Examples:
  ghtool delete-repo
  ghtool delete-repo old-experiment octocat/scratch --dry-run
  ghtool delete-repo old-experiment --yes`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnvironment(cmd)
		if err != nil {
			return err
		}
		defer env.close()

		return runDeleteRepo(cmd.Context(), env, args, deleteOpts)
	},
}

func init() {
	deleteOpts.bind(deleteRepoCmd.Flags())
	rootCmd.AddCommand(deleteRepoCmd)
}

func runDeleteRepo(ctx context.Context, env *environment, names []string, opts deleteOptions) error {
	_, err := env.runBulk(ctx, bulkRequest{
		action: github.ActionDelete,
		names:  names,
		dryRun: opts.dryRun,
		yes:    opts.yes,
	})
	return env.cancelled(err)
}
