package github

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// TokenEnvVar is consulted when no token was given and none is stored
const TokenEnvVar = "GITHUB_TOKEN"

// TokenOrigin records where a resolved token came from
type TokenOrigin string

const (
	TokenOriginFlag        TokenOrigin = "flag"
	TokenOriginStore       TokenOrigin = "credential store"
	TokenOriginEnvironment TokenOrigin = "environment"
)

// ErrNoToken is returned when no token source produced a token
var ErrNoToken = errors.New("no GitHub token found")

// TokenLookup returns the stored token of an account, or an error when there is none
type TokenLookup func(username string) (string, error)

// AuthManager resolves which token a command uses
type AuthManager struct {
	lookupEnv func(key string) (string, bool)
}

// NewAuthManager creates a new authentication manager
func NewAuthManager() *AuthManager {
	return &AuthManager{lookupEnv: os.LookupEnv}
}

// GetToken picks the token in order: explicit flag value, the account's stored
// token, then the GITHUB_TOKEN environment variable.
func (am *AuthManager) GetToken(explicit, username string, stored TokenLookup) (string, TokenOrigin, error) {
	if token := strings.TrimSpace(explicit); token != "" {
		return token, TokenOriginFlag, nil
	}

	if username != "" && stored != nil {
		if token, err := stored(username); err == nil && strings.TrimSpace(token) != "" {
			return strings.TrimSpace(token), TokenOriginStore, nil
		}
	}

	if am.lookupEnv != nil {
		if token, ok := am.lookupEnv(TokenEnvVar); ok && strings.TrimSpace(token) != "" {
			return strings.TrimSpace(token), TokenOriginEnvironment, nil
		}
	}

	if username != "" {
		return "", "", fmt.Errorf("%w for %s: add the account or pass --token", ErrNoToken, username)
	}
	return "", "", fmt.Errorf("%w: add an account or pass --token", ErrNoToken)
}

// TokenInfo contains information about the authenticated token
type TokenInfo struct {
	User string `json:"user"`
}

// ValidateToken checks the token against GET /user and, when expectedUser is
// set, that it belongs to that account.
func (am *AuthManager) ValidateToken(ctx context.Context, api APIClient, expectedUser string) (*TokenInfo, error) {
	login, err := api.AuthenticatedUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to validate GitHub token: %w", err)
	}

	info := &TokenInfo{User: login}
	if expectedUser != "" && !strings.EqualFold(login, expectedUser) {
		return info, fmt.Errorf("token belongs to %s, not %s", login, expectedUser)
	}
	return info, nil
}

// GetAuthInstructions returns instructions for setting up GitHub authentication
func GetAuthInstructions() string {
	return `GitHub authentication is required. Add an account with:

   ghtool add-account <username>

and paste a personal access token when prompted, or pass --token / set GITHUB_TOKEN.

To create a personal access token:
1. Go to GitHub Settings > Developer settings > Personal access tokens
2. Click "Generate new token (classic)"
3. Select the following scopes:
   - repo (Full control of private repositories)
   - delete_repo (needed to delete repositories)

Note: changing visibility and deleting require admin rights on the repository.`
}
