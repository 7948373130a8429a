package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"ghtool/pkg/github"
)

type visibilityOptions struct {
	private bool
	public  bool
	dryRun  bool
	yes     bool
}

func (o *visibilityOptions) bind(flags *pflag.FlagSet) {
	flags.BoolVar(&o.private, "private", false, "Make the repositories private")
	flags.BoolVar(&o.public, "public", false, "Make the repositories public")
	flags.BoolVar(&o.dryRun, "dry-run", false, "Show what would change without changing it")
	flags.BoolVarP(&o.yes, "yes", "y", false, "Do not ask for confirmation")
}

var visibilityOpts visibilityOptions

var changeVisibilityCmd = &cobra.Command{
	Use:   "change-visibility [name...]",
	Short: "Make repositories private or public",
	Long: `Change the visibility of repositories. Name them as arguments, or pick them
interactively when no names are given. Without --private or --public you are asked
which visibility to apply.

Forks are skipped because GitHub does not allow changing their visibility.

Examples:
  ghtool change-visibility --private
  ghtool change-visibility website --public --dry-run`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnvironment(cmd)
		if err != nil {
			return err
		}
		defer env.close()

		return runChangeVisibility(cmd.Context(), env, args, visibilityOpts)
	},
}

func init() {
	visibilityOpts.bind(changeVisibilityCmd.Flags())
	changeVisibilityCmd.MarkFlagsMutuallyExclusive("private", "public")
	rootCmd.AddCommand(changeVisibilityCmd)
}

func runChangeVisibility(ctx context.Context, env *environment, names []string, opts visibilityOptions) error {
	if opts.private && opts.public {
		return errMutuallyExclusive("--private", "--public")
	}

	private := opts.private
	if !opts.private && !opts.public {
		answer, err := env.askVisibility()
		if err != nil {
			return env.cancelled(err)
		}
		private = answer
	}

	_, err := env.runBulk(ctx, bulkRequest{
		action:  github.ActionVisibility,
		names:   names,
		private: private,
		dryRun:  opts.dryRun,
		yes:     opts.yes,
	})
	return env.cancelled(err)
}
