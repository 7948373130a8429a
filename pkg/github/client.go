package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"
)

const (
	// DefaultTimeout bounds every HTTP request made by the client
	DefaultTimeout = 30 * time.Second

	// tokenScheme is the Authorization scheme GitHub documents for personal access tokens
	tokenScheme = "token"
)

// Client implements the APIClient interface using the GitHub REST API
type Client struct {
	client *github.Client
	token  string
}

// ClientOption customizes a Client created by NewClient
type ClientOption func(*clientSettings)

type clientSettings struct {
	baseURL   *url.URL
	transport func(http.RoundTripper) http.RoundTripper
	timeout   time.Duration
}

// WithBaseURL points the client at a GitHub Enterprise or test server.
// The URL must end with a slash.
func WithBaseURL(baseURL *url.URL) ClientOption {
	return func(s *clientSettings) {
		s.baseURL = baseURL
	}
}

// WithTransport wraps the base transport, e.g. to log requests
func WithTransport(wrap func(http.RoundTripper) http.RoundTripper) ClientOption {
	return func(s *clientSettings) {
		s.transport = wrap
	}
}

// WithTimeout overrides DefaultTimeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(s *clientSettings) {
		s.timeout = timeout
	}
}

// NewClient creates a new GitHub API client with the provided token
func NewClient(token string, options ...ClientOption) *Client {
	settings := clientSettings{timeout: DefaultTimeout}
	for _, option := range options {
		option(&settings)
	}

	var base http.RoundTripper = http.DefaultTransport
	if settings.transport != nil {
		base = settings.transport(base)
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Transport: base})
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token, TokenType: tokenScheme},
	)
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = settings.timeout

	client := github.NewClient(tc)
	if settings.baseURL != nil {
		client.BaseURL = settings.baseURL
	}

	return &Client{client: client, token: strings.TrimSpace(token)}
}

// ParseBaseURL validates a configured API base URL and adds the trailing slash go-github needs
func ParseBaseURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}

	baseURL, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid GitHub API URL %q: %w", raw, err)
	}
	if baseURL.Scheme != "http" && baseURL.Scheme != "https" {
		return nil, fmt.Errorf("invalid GitHub API URL %q: scheme must be http or https", raw)
	}
	if baseURL.Host == "" {
		return nil, fmt.Errorf("invalid GitHub API URL %q: missing host", raw)
	}

	return baseURL, nil
}

// AuthenticatedUser returns the login of the token owner
func (c *Client) AuthenticatedUser(ctx context.Context) (string, error) {
	if err := c.requireToken("authenticated user"); err != nil {
		return "", err
	}

	user, _, err := c.client.Users.Get(ctx, "")
	if err != nil {
		return "", WrapGitHubError(err, "authenticated user")
	}
	return user.GetLogin(), nil
}

// ListRepositoriesPage fetches a single page of the authenticated user's repositories
func (c *Client) ListRepositoriesPage(ctx context.Context, page, perPage int) ([]Repository, error) {
	if page < 1 || perPage < 1 {
		return nil, NewGitHubError(ErrorTypeInvalidRequest,
			fmt.Sprintf("invalid page request: page=%d per_page=%d", page, perPage), nil)
	}
	if err := c.requireToken(fmt.Sprintf("repository page %d", page)); err != nil {
		return nil, err
	}

	opts := &github.RepositoryListByAuthenticatedUserOptions{
		ListOptions: github.ListOptions{Page: page, PerPage: perPage},
	}

	repos, _, err := c.client.Repositories.ListByAuthenticatedUser(ctx, opts)
	if err != nil {
		return nil, WrapGitHubError(err, fmt.Sprintf("repository page %d", page))
	}

	converted := make([]Repository, 0, len(repos))
	for _, repo := range repos {
		converted = append(converted, convertGitHubRepository(repo))
	}
	return converted, nil
}

// SetRepositoryVisibility changes a repository between private and public
func (c *Client) SetRepositoryVisibility(ctx context.Context, owner, name string, private bool) error {
	resource := fmt.Sprintf("repository %s/%s", owner, name)
	if err := validateRepositoryPath(owner, name, resource); err != nil {
		return err
	}
	if err := c.requireToken(resource); err != nil {
		return err
	}

	_, resp, err := c.client.Repositories.Edit(ctx, owner, name, &github.Repository{
		Private: github.Bool(private),
	})
	if err != nil {
		return WrapGitHubError(err, resource)
	}
	if resp.StatusCode != http.StatusOK {
		return StatusError(resp.StatusCode, resource)
	}
	return nil
}

// DeleteRepository deletes a repository
func (c *Client) DeleteRepository(ctx context.Context, owner, name string) error {
	resource := fmt.Sprintf("repository %s/%s", owner, name)
	if err := validateRepositoryPath(owner, name, resource); err != nil {
		return err
	}
	if err := c.requireToken(resource); err != nil {
		return err
	}

	resp, err := c.client.Repositories.Delete(ctx, owner, name)
	if err != nil {
		return WrapGitHubError(err, resource)
	}
	if resp.StatusCode != http.StatusNoContent {
		return StatusError(resp.StatusCode, resource)
	}
	return nil
}

// requireToken fails before any request is sent when the client has no token
func (c *Client) requireToken(resource string) error {
	if c.token == "" {
		err := NewGitHubError(ErrorTypeInvalidRequest, "GitHub token cannot be empty", nil)
		err.Resource = resource
		return err
	}
	return nil
}

func validateRepositoryPath(owner, name, resource string) error {
	if strings.TrimSpace(owner) == "" || strings.TrimSpace(name) == "" {
		err := NewGitHubError(ErrorTypeInvalidRequest, "owner and repository name are required", nil)
		err.Resource = resource
		return err
	}
	return nil
}

// convertGitHubRepository converts a GitHub API repository to our internal type
func convertGitHubRepository(repo *github.Repository) Repository {
	owner := repo.GetOwner()
	return Repository{
		ID:          repo.GetID(),
		Name:        repo.GetName(),
		FullName:    repo.GetFullName(),
		Private:     repo.GetPrivate(),
		Description: repo.GetDescription(),
		HTMLURL:     repo.GetHTMLURL(),
		URL:         repo.GetURL(),
		Forks:       repo.GetForksCount(),
		OpenIssues:  repo.GetOpenIssuesCount(),
		Watchers:    repo.GetWatchersCount(),
		Language:    repo.GetLanguage(),
		Visibility:  repo.GetVisibility(),
		Archived:    repo.GetArchived(),
		Fork:        repo.GetFork(),
		Owner: Owner{
			Login:     owner.GetLogin(),
			ID:        owner.GetID(),
			AvatarURL: owner.GetAvatarURL(),
			HTMLURL:   owner.GetHTMLURL(),
			Type:      owner.GetType(),
		},
	}
}

// Ensure Client implements the interface
var _ APIClient = (*Client)(nil)
