package cmd

import (
	"ghtool/internal/ui"
	"ghtool/pkg/config"
	"ghtool/pkg/fuzzy"
	"ghtool/pkg/github"
)

const (
	groupOwned        = "owned"
	groupCollaborator = "collaborator"
)

func (e *environment) useFzf() bool {
	return e.cfg.Selection.Mode == config.SelectionModeFzf
}

// selectRepositories lets the user pick repositories by number, keyword or fzf.
// fuzzy.ErrQuit is returned when the user cancels.
func (e *environment) selectRepositories(prompt string, repos []github.Repository) ([]github.Repository, error) {
	options := make([]fuzzy.Option, len(repos))
	for i, repo := range repos {
		options[i] = fuzzy.Option{Value: repo.Name, Description: ui.RepositoryDescription(repo)}
	}

	var (
		indices []int
		err     error
	)
	if e.useFzf() {
		finder := fuzzy.NewFzfWithRunner(prompt, newFzfRunner())
		finder.SetFallbackIO(e.prompter.in, e.prompter.out)
		if err := finder.SetOptions(options); err != nil {
			return nil, err
		}
		indices, err = finder.SelectMany()
	} else {
		finder := fuzzy.NewWithIO(prompt, e.prompter.in, e.prompter.out)
		if err := finder.SetOptions(options); err != nil {
			return nil, err
		}
		indices, err = finder.SelectMany()
	}
	if err != nil {
		return nil, err
	}

	selected := make([]github.Repository, 0, len(indices))
	for _, index := range indices {
		selected = append(selected, repos[index])
	}
	return selected, nil
}

// selectOne picks a single option, returning its value
func (e *environment) selectOne(prompt string, options []fuzzy.Option) (string, error) {
	if e.useFzf() {
		finder := fuzzy.NewFzfWithRunner(prompt, newFzfRunner())
		finder.SetFallbackIO(e.prompter.in, e.prompter.out)
		if err := finder.SetOptions(options); err != nil {
			return "", err
		}
		return finder.Select()
	}

	finder := fuzzy.NewWithIO(prompt, e.prompter.in, e.prompter.out)
	if err := finder.SetOptions(options); err != nil {
		return "", err
	}
	return finder.SelectWithFilter()
}

// chooseGroup asks whether to work on owned or collaborator repositories.
// When only one group has repositories it is used without asking.
func (e *environment) chooseGroup(owned, collaborator []github.Repository) ([]github.Repository, error) {
	switch {
	case len(owned) == 0 && len(collaborator) == 0:
		return nil, nil
	case len(collaborator) == 0:
		return owned, nil
	case len(owned) == 0:
		return collaborator, nil
	}

	group, err := e.selectOne("Which repositories do you want to work with?", []fuzzy.Option{
		{Value: groupOwned, Description: "My Repositories"},
		{Value: groupCollaborator, Description: "Collaborator Repositories"},
	})
	if err != nil {
		return nil, err
	}
	if group == groupCollaborator {
		return collaborator, nil
	}
	return owned, nil
}
