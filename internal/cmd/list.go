package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"ghtool/pkg/github"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

type listOptions struct {
	owned           bool
	collaborator    bool
	includeArchived bool
	includeForks    bool
	format          string
}

func (o *listOptions) bind(flags *pflag.FlagSet) {
	flags.BoolVar(&o.owned, "owned", false, "Only list repositories you own")
	flags.BoolVar(&o.collaborator, "collaborator", false, "Only list repositories you collaborate on")
	flags.BoolVar(&o.includeArchived, "include-archived", true, "Include archived repositories")
	flags.BoolVar(&o.includeForks, "include-forks", true, "Include forks")
	flags.StringVarP(&o.format, "format", "o", formatText, "Output format: text, json, yaml")
}

var listOpts listOptions

var listReposCmd = &cobra.Command{
	Use:   "list-repos",
	Short: "List your owned and collaborator repositories",
	Long: `List every repository the account can access, split into repositories it owns
and repositories it collaborates on.

Examples:
  ghtool list-repos
  ghtool list-repos --owned --include-archived=false
  ghtool list-repos --format json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := newEnvironment(cmd)
		if err != nil {
			return err
		}
		defer env.close()

		return runListRepos(cmd.Context(), env, listOpts)
	},
}

func init() {
	listOpts.bind(listReposCmd.Flags())
	listReposCmd.MarkFlagsMutuallyExclusive("owned", "collaborator")
	rootCmd.AddCommand(listReposCmd)
}

// repositoryListing is the machine-readable form of list-repos
type repositoryListing struct {
	Account      string              `json:"account" yaml:"account"`
	Owned        []github.Repository `json:"owned" yaml:"owned"`
	Collaborator []github.Repository `json:"collaborator" yaml:"collaborator"`
}

func runListRepos(ctx context.Context, env *environment, opts listOptions) error {
	switch opts.format {
	case formatText, formatJSON, formatYAML:
	default:
		return fmt.Errorf("unsupported output format: %s", opts.format)
	}
	if opts.owned && opts.collaborator {
		return errMutuallyExclusive("--owned", "--collaborator")
	}

	owned, collaborator, err := env.fetchRepositories(ctx)
	if err != nil {
		return err
	}

	filter := github.FilterOptions{IncludeArchived: opts.includeArchived, IncludeForks: opts.includeForks}
	owned = github.FilterRepositories(owned, filter)
	collaborator = github.FilterRepositories(collaborator, filter)
	if opts.owned {
		collaborator = nil
	}
	if opts.collaborator {
		owned = nil
	}

	listing := repositoryListing{Account: env.login, Owned: owned, Collaborator: collaborator}

	switch opts.format {
	case formatJSON:
		encoder := json.NewEncoder(env.printer.Writer())
		encoder.SetIndent("", "  ")
		return encoder.Encode(listing)
	case formatYAML:
		encoder := yaml.NewEncoder(env.printer.Writer())
		encoder.SetIndent(2)
		if err := encoder.Encode(listing); err != nil {
			return err
		}
		return encoder.Close()
	}

	if !opts.collaborator {
		env.printer.Repositories("My Repositories:", owned)
	}
	if !opts.owned {
		if !opts.collaborator {
			env.printer.Println()
		}
		env.printer.Repositories("Collaborator Repositories:", collaborator)
	}
	return nil
}
