package cmd

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"ghtool/pkg/fuzzy"
	"ghtool/pkg/github"
)

// fetchRepositories lists every repository the current account can see and
// splits it into owned and collaborator repositories. A listing that failed
// part way is reported and the repositories fetched so far are kept.
func (e *environment) fetchRepositories(ctx context.Context) (owned, collaborator []github.Repository, err error) {
	api, login, err := e.client(ctx)
	if err != nil {
		return nil, nil, err
	}

	repos, err := github.ListAllRepositories(ctx, api, e.pageOptions())
	if err != nil {
		if len(repos) == 0 {
			return nil, nil, fmt.Errorf("failed to fetch repositories: %w", err)
		}
		e.logger.Warn("repository listing incomplete", zap.Int("fetched", len(repos)), zap.Error(err))
		e.printer.Printf("⚠️  Failed to fetch all repositories, continuing with the %d fetched: %v\n", len(repos), err)
	}

	owned, collaborator = github.Partition(repos, login)
	return owned, collaborator, nil
}

// bulkRequest describes one delete or visibility run
type bulkRequest struct {
	action  github.Action
	names   []string
	private bool
	dryRun  bool
	yes     bool
}

func (r bulkRequest) verb() string {
	if r.action == github.ActionDelete {
		return "delete"
	}
	return "make " + github.VisibilityName(r.private)
}

// runBulk resolves the target repositories, either by name or interactively,
// confirms, and applies the operation to all of them at once.
func (e *environment) runBulk(ctx context.Context, req bulkRequest) (*github.BatchResult, error) {
	owned, collaborator, err := e.fetchRepositories(ctx)
	if err != nil {
		return nil, err
	}

	var targets []github.Repository
	if len(req.names) > 0 {
		found, missing := github.FindByName(append(owned, collaborator...), req.names)
		for _, name := range missing {
			e.printer.Printf("⚠️  Repository not found: %s\n", name)
		}
		targets = found
	} else {
		targets, err = e.pickTargets(req, owned, collaborator)
		if err != nil {
			return nil, err
		}
	}

	if len(targets) == 0 {
		e.printer.Println("No repositories selected.")
		return nil, nil
	}

	if !req.yes && !req.dryRun {
		e.printer.Repositories("Selected repositories:", targets)
		ok, err := e.prompter.Confirm(fmt.Sprintf("Are you sure you want to %s %d repositories?", req.verb(), len(targets)))
		if err != nil {
			return nil, err
		}
		if !ok {
			e.printer.Println("Operation cancelled.")
			return nil, nil
		}
	}

	api, _, err := e.client(ctx)
	if err != nil {
		return nil, err
	}

	runner := github.NewBatchRunner(api,
		github.WithDryRun(req.dryRun),
		github.WithLogger(e.logger.Named("batch")),
		github.WithReporter(e.printer),
	)

	var result *github.BatchResult
	if req.action == github.ActionDelete {
		result = runner.Delete(ctx, targets)
	} else {
		result = runner.SetVisibility(ctx, targets, req.private)
	}

	e.printer.Summary(result)
	return result, nil
}

func (e *environment) pickTargets(req bulkRequest, owned, collaborator []github.Repository) ([]github.Repository, error) {
	repos, err := e.chooseGroup(owned, collaborator)
	if err != nil {
		return nil, err
	}
	if len(repos) == 0 {
		e.printer.Println("No repositories found.")
		return nil, nil
	}

	prompt := "Select repositories to delete:"
	if req.action == github.ActionVisibility {
		prompt = fmt.Sprintf("Select repositories to make %s:", github.VisibilityName(req.private))
	}
	return e.selectRepositories(prompt, repos)
}

// askVisibility asks for the target visibility when no flag chose one
func (e *environment) askVisibility() (bool, error) {
	value, err := e.selectOne("Change visibility to:", []fuzzy.Option{
		{Value: "private", Description: "Only you and collaborators can see it"},
		{Value: "public", Description: "Anyone on the internet can see it"},
	})
	if err != nil {
		return false, err
	}
	return value == "private", nil
}

// cancelled reports a user cancellation and swallows it
func (e *environment) cancelled(err error) error {
	if errors.Is(err, fuzzy.ErrQuit) {
		e.printer.Println("Operation cancelled.")
		return nil
	}
	return err
}

func errMutuallyExclusive(a, b string) error {
	return fmt.Errorf("%s and %s cannot be used together", a, b)
}
