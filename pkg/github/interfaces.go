package github

import "context"

// APIClient defines the GitHub REST operations used by ghtool
type APIClient interface {
	// AuthenticatedUser returns the login the token belongs to (GET /user)
	AuthenticatedUser(ctx context.Context) (string, error)

	// ListRepositoriesPage fetches one page of GET /user/repos
	ListRepositoriesPage(ctx context.Context, page, perPage int) ([]Repository, error)

	// SetRepositoryVisibility sends PATCH /repos/{owner}/{repo} with {"private": bool}
	SetRepositoryVisibility(ctx context.Context, owner, name string, private bool) error

	// DeleteRepository sends DELETE /repos/{owner}/{repo}
	DeleteRepository(ctx context.Context, owner, name string) error
}

// Action identifies the bulk operation applied to a batch of repositories
type Action string

const (
	ActionDelete     Action = "delete"
	ActionVisibility Action = "visibility"
)

// Outcome is the resolution of a single repository within a batch
type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeSimulated Outcome = "simulated"
)

// Reporter receives every per-repository result as soon as it resolves.
// Implementations must be safe for concurrent use.
type Reporter interface {
	Report(item ItemResult)
}
