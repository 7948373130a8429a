// Package github provides the GitHub repository operations used by ghtool.
// It lists the repositories of the authenticated user and applies bulk
// visibility changes and deletions to a selected subset.
//
// The package includes:
// - APIClient interface for the GitHub REST calls ghtool issues
// - Client, the go-github backed implementation
// - ListAllRepositories and Partition for paginated listing and ownership split
// - BatchRunner for concurrent per-repository operations with dry-run support
// - GitHubError, the categorized error type for failed calls
package github
