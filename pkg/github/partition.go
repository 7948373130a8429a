package github

import "strings"

// Partition splits repositories into those owned by login and those the
// account only collaborates on. GitHub logins are case-insensitive.
func Partition(repos []Repository, login string) (owned, collaborator []Repository) {
	for _, repo := range repos {
		if strings.EqualFold(repo.Owner.Login, login) {
			owned = append(owned, repo)
		} else {
			collaborator = append(collaborator, repo)
		}
	}
	return owned, collaborator
}

// FilterOptions selects which repositories a listing keeps
type FilterOptions struct {
	IncludeArchived bool
	IncludeForks    bool
}

// FilterRepositories drops archived repositories and forks unless asked to keep them
func FilterRepositories(repos []Repository, opts FilterOptions) []Repository {
	filtered := make([]Repository, 0, len(repos))
	for _, repo := range repos {
		if repo.Archived && !opts.IncludeArchived {
			continue
		}
		if repo.Fork && !opts.IncludeForks {
			continue
		}
		filtered = append(filtered, repo)
	}
	return filtered
}

// FindByName returns the repositories whose name or full name matches one of
// names exactly, in the order of repos, and the names that matched nothing.
func FindByName(repos []Repository, names []string) (found []Repository, missing []string) {
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = false
	}

	for _, repo := range repos {
		matched := false
		for _, key := range []string{repo.Name, repo.FullName} {
			if _, ok := wanted[key]; ok {
				wanted[key] = true
				matched = true
			}
		}
		if matched {
			found = append(found, repo)
		}
	}

	for _, name := range names {
		if !wanted[name] {
			missing = append(missing, name)
			// report each missing name once
			wanted[name] = true
		}
	}
	return found, missing
}
