package github

import (
	"context"
)

const (
	// DefaultPerPage is the largest page size GitHub accepts for /user/repos
	DefaultPerPage = 100

	// MaxPages is the hard cap on pages requested for one listing
	MaxPages = 100
)

// PageOptions controls ListAllRepositories
type PageOptions struct {
	PerPage  int
	MaxPages int
}

// DefaultPageOptions returns the listing defaults
func DefaultPageOptions() PageOptions {
	return PageOptions{PerPage: DefaultPerPage, MaxPages: MaxPages}
}

func (o PageOptions) normalized() PageOptions {
	if o.PerPage < 1 || o.PerPage > DefaultPerPage {
		o.PerPage = DefaultPerPage
	}
	if o.MaxPages < 1 || o.MaxPages > MaxPages {
		o.MaxPages = MaxPages
	}
	return o
}

// ListAllRepositories walks GET /user/repos page by page until a page comes back
// empty or the page cap is reached. Pages are requested strictly one after another.
// On failure the repositories gathered from earlier pages are returned with the error.
func ListAllRepositories(ctx context.Context, api APIClient, opts PageOptions) ([]Repository, error) {
	opts = opts.normalized()

	var all []Repository
	for page := 1; page <= opts.MaxPages; page++ {
		repos, err := api.ListRepositoriesPage(ctx, page, opts.PerPage)
		if err != nil {
			return all, err
		}
		if len(repos) == 0 {
			break
		}
		all = append(all, repos...)
	}

	return all, nil
}
