package cmd

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"ghtool/pkg/fuzzy"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Start the interactive mode",
	Long: `Read commands line by line until ':wq' (or quit/exit) is entered.
The same commands and flags as on the command line are available, for example:

  ghtool> list-repos --owned
  ghtool> delete-repo --dry-run
  ghtool> switch-account work`,
	Args: cobra.NoArgs,
	RunE: runInteractive,
}

// replCommand is one entry of the interactive dispatch table
type replCommand struct {
	summary string
	run     func(ctx context.Context, env *environment, args []string) error
}

func newReplFlagSet(env *environment, name string) *pflag.FlagSet {
	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flags.SetOutput(env.printer.Writer())
	return flags
}

func replCommands() map[string]replCommand {
	commands := map[string]replCommand{
		"list-repos": {
			summary: listReposCmd.Short,
			run: func(ctx context.Context, env *environment, args []string) error {
				var opts listOptions
				flags := newReplFlagSet(env, "list-repos")
				opts.bind(flags)
				if err := flags.Parse(args); err != nil {
					return err
				}
				return runListRepos(ctx, env, opts)
			},
		},
		"delete-repo": {
			summary: deleteRepoCmd.Short,
			run: func(ctx context.Context, env *environment, args []string) error {
				var opts deleteOptions
				flags := newReplFlagSet(env, "delete-repo")
				opts.bind(flags)
				if err := flags.Parse(args); err != nil {
					return err
				}
				return runDeleteRepo(ctx, env, flags.Args(), opts)
			},
		},
		"change-visibility": {
			summary: changeVisibilityCmd.Short,
			run: func(ctx context.Context, env *environment, args []string) error {
				var opts visibilityOptions
				flags := newReplFlagSet(env, "change-visibility")
				opts.bind(flags)
				if err := flags.Parse(args); err != nil {
					return err
				}
				return runChangeVisibility(ctx, env, flags.Args(), opts)
			},
		},
		"add-account": {
			summary: addAccountCmd.Short,
			run: func(ctx context.Context, env *environment, args []string) error {
				var opts addAccountOptions
				flags := newReplFlagSet(env, "add-account")
				opts.bind(flags)
				if err := flags.Parse(args); err != nil {
					return err
				}
				return runAddAccount(ctx, env, flags.Args(), opts)
			},
		},
		"remove-account": {
			summary: removeAccountCmd.Short,
			run: func(_ context.Context, env *environment, args []string) error {
				flags := newReplFlagSet(env, "remove-account")
				if err := flags.Parse(args); err != nil {
					return err
				}
				return runRemoveAccount(env, flags.Args())
			},
		},
		"switch-account": {
			summary: switchAccountCmd.Short,
			run: func(_ context.Context, env *environment, args []string) error {
				flags := newReplFlagSet(env, "switch-account")
				if err := flags.Parse(args); err != nil {
					return err
				}
				return runSwitchAccount(env, flags.Args())
			},
		},
		"accounts": {
			summary: accountsCmd.Short,
			run: func(_ context.Context, env *environment, _ []string) error {
				return runAccounts(env)
			},
		},
	}

	// short forms
	commands["list"] = commands["list-repos"]
	commands["delete"] = commands["delete-repo"]
	commands["visibility"] = commands["change-visibility"]
	commands["switch"] = commands["switch-account"]

	return commands
}

var replAliases = map[string]bool{"list": true, "delete": true, "visibility": true, "switch": true}

func isQuitCommand(input string) bool {
	switch strings.ToLower(input) {
	case "wq", fuzzy.QuitSentinel, "quit", "exit":
		return true
	}
	return false
}

func runInteractive(cmd *cobra.Command, _ []string) error {
	env, err := newEnvironment(cmd)
	if err != nil {
		return err
	}
	defer env.close()

	return interactiveLoop(cmd.Context(), env)
}

// interactiveLoop reads and runs commands until the quit sentinel or end of input.
// A failing command is reported and the loop goes on.
func interactiveLoop(ctx context.Context, env *environment) error {
	commands := replCommands()

	env.printer.Printf("ghtool interactive mode. Type 'help' for commands, '%s' to quit.\n", fuzzy.QuitSentinel)
	if current := env.username(); current != "" {
		env.printer.Printf("Active account: %s\n", current)
	}

	for {
		if ctx.Err() != nil {
			return nil
		}

		line, err := env.prompter.Line("\nghtool> ")
		if errors.Is(err, io.EOF) {
			env.printer.Println()
			return nil
		}
		if err != nil {
			return err
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		name := fields[0]
		if isQuitCommand(name) {
			env.printer.Println("Goodbye!")
			return nil
		}
		if name == "help" || name == "?" {
			printReplHelp(env, commands)
			continue
		}

		command, ok := commands[name]
		if !ok {
			env.printer.Printf("Unknown command: %s. Type 'help' to see the available commands.\n", name)
			continue
		}

		if err := command.run(ctx, env, fields[1:]); err != nil {
			switch {
			case errors.Is(err, pflag.ErrHelp):
			case errors.Is(err, fuzzy.ErrQuit):
				env.printer.Println("Operation cancelled.")
			default:
				env.printer.Printf("❌ %v\n", err)
			}
		}
	}
}

func printReplHelp(env *environment, commands map[string]replCommand) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		if !replAliases[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	env.printer.Println("Available commands:")
	for _, name := range names {
		env.printer.Printf("  %-18s %s\n", name, commands[name].summary)
	}
	env.printer.Printf("  %-18s %s\n", "help", "Show this help")
	env.printer.Printf("  %-18s %s\n", fuzzy.QuitSentinel, "Quit (also quit, exit)")
	env.printer.Println("Add --help after a command to see its flags.")
}
