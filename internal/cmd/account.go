package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"ghtool/internal/account"
	"ghtool/pkg/fuzzy"
)

type addAccountOptions struct {
	verify bool
}

func (o *addAccountOptions) bind(flags *pflag.FlagSet) {
	flags.BoolVar(&o.verify, "verify", false, "Check the token against GitHub before saving it")
}

var addAccountOpts addAccountOptions

var addAccountCmd = &cobra.Command{
	Use:   "add-account [username [token]]",
	Short: "Store a personal access token for an account",
	Long: `Store a GitHub personal access token in the system credential store and make
the account active. Values not given as arguments are prompted for; the token is
read without echo when running in a terminal.`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnvironment(cmd)
		if err != nil {
			return err
		}
		defer env.close()

		return runAddAccount(cmd.Context(), env, args, addAccountOpts)
	},
}

var removeAccountCmd = &cobra.Command{
	Use:   "remove-account [username]",
	Short: "Forget an account and delete its stored token",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnvironment(cmd)
		if err != nil {
			return err
		}
		defer env.close()

		return runRemoveAccount(env, args)
	},
}

var switchAccountCmd = &cobra.Command{
	Use:   "switch-account [username]",
	Short: "Make another stored account the active one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnvironment(cmd)
		if err != nil {
			return err
		}
		defer env.close()

		return runSwitchAccount(env, args)
	},
}

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "List stored accounts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := newEnvironment(cmd)
		if err != nil {
			return err
		}
		defer env.close()

		return runAccounts(env)
	},
}

func init() {
	addAccountOpts.bind(addAccountCmd.Flags())

	rootCmd.AddCommand(addAccountCmd)
	rootCmd.AddCommand(removeAccountCmd)
	rootCmd.AddCommand(switchAccountCmd)
	rootCmd.AddCommand(accountsCmd)
}

func runAddAccount(ctx context.Context, env *environment, args []string, opts addAccountOptions) error {
	var username, token string
	if len(args) > 0 {
		username = args[0]
	}
	if len(args) > 1 {
		token = args[1]
	}

	var err error
	if username == "" {
		if username, err = env.prompter.Line("GitHub username: "); err != nil {
			return err
		}
	}
	if fuzzy.IsQuit(username) {
		env.printer.Println("Operation cancelled.")
		return nil
	}
	if token == "" {
		if token, err = env.prompter.Secret("Personal access token: "); err != nil {
			return err
		}
	}
	if strings.TrimSpace(token) == "" {
		return errors.New("token cannot be empty")
	}

	if opts.verify {
		api, err := newAPIClient(token, env.cfg, env.logger.Named("github"))
		if err != nil {
			return fmt.Errorf("failed to create GitHub client: %w", err)
		}
		info, err := env.auth.ValidateToken(ctx, api, username)
		if err != nil {
			return err
		}
		env.printer.Printf("✅ Token verified for %s\n", info.User)
	}

	if err := env.accounts.Add(username, token); err != nil {
		return err
	}
	env.resetClient()

	env.printer.Printf("✅ Account %s added and set as the active account.\n", username)
	return nil
}

func runRemoveAccount(env *environment, args []string) error {
	username := env.accounts.Current()
	if len(args) > 0 {
		username = args[0]
	}
	if username == "" {
		return fmt.Errorf("no account given to remove: %w", account.ErrNoActiveAccount)
	}

	if err := env.accounts.Remove(username); err != nil {
		return err
	}
	env.resetClient()

	env.printer.Printf("🗑️  Account %s removed.\n", username)
	return nil
}

func runSwitchAccount(env *environment, args []string) error {
	var username string
	if len(args) > 0 {
		username = args[0]
	} else {
		known := env.accounts.Known()
		if len(known) == 0 {
			env.printer.Println("No accounts added. Run 'ghtool add-account' to add one.")
			return nil
		}

		current := env.accounts.Current()
		options := make([]fuzzy.Option, len(known))
		for i, name := range known {
			options[i] = fuzzy.Option{Value: name}
			if name == current {
				options[i].Description = "active"
			}
		}

		selected, err := env.selectOne("Switch to account:", options)
		if err != nil {
			return env.cancelled(err)
		}
		username = selected
	}

	if err := env.accounts.Switch(username); err != nil {
		return err
	}
	env.account = ""
	env.resetClient()

	env.printer.Printf("🔄 Switched to account %s.\n", username)
	return nil
}

func runAccounts(env *environment) error {
	env.printer.Accounts(env.accounts.Known(), env.accounts.Current())
	return nil
}
