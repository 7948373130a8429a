package github

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestClient creates a GitHub client configured to use the test server
func createTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()

	serverURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)

	return NewClient("test-token", WithBaseURL(serverURL))
}

func repoJSON(id int64, name, owner string, private bool) map[string]interface{} {
	visibility := "public"
	if private {
		visibility = "private"
	}
	return map[string]interface{}{
		"id":                id,
		"name":              name,
		"full_name":         owner + "/" + name,
		"private":           private,
		"description":       "repo " + name,
		"html_url":          "https://github.com/" + owner + "/" + name,
		"url":               "https://api.github.com/repos/" + owner + "/" + name,
		"forks_count":       3,
		"open_issues_count": 2,
		"watchers_count":    7,
		"language":          "Go",
		"visibility":        visibility,
		"archived":          false,
		"fork":              false,
		"owner": map[string]interface{}{
			"login":      owner,
			"id":         42,
			"avatar_url": "https://avatars.example/" + owner,
			"html_url":   "https://github.com/" + owner,
			"type":       "User",
		},
	}
}

func TestNewClient(t *testing.T) {
	client := NewClient("test-token")

	require.NotNil(t, client)
	require.NotNil(t, client.client)
	assert.Equal(t, "https://api.github.com/", client.client.BaseURL.String())
}

func TestParseBaseURL(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		expected    string
		expectError bool
	}{
		{name: "adds trailing slash", raw: "https://ghe.example.com/api/v3", expected: "https://ghe.example.com/api/v3/"},
		{name: "keeps trailing slash", raw: "https://api.github.com/", expected: "https://api.github.com/"},
		{name: "rejects scheme", raw: "ftp://example.com", expectError: true},
		{name: "rejects missing host", raw: "https://", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			baseURL, err := ParseBaseURL(tt.raw)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, baseURL.String())
		})
	}
}

func TestListRepositoriesPage(t *testing.T) {
	var gotAuth, gotPage, gotPerPage string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/user/repos", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotPage = r.URL.Query().Get("page")
		gotPerPage = r.URL.Query().Get("per_page")

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]interface{}{
			repoJSON(1, "alpha", "octocat", false),
			repoJSON(2, "beta", "hubber", true),
		})
	}))
	defer server.Close()

	client := createTestClient(t, server)
	repos, err := client.ListRepositoriesPage(context.Background(), 2, 100)
	require.NoError(t, err)

	assert.Equal(t, "token test-token", gotAuth)
	assert.Equal(t, "2", gotPage)
	assert.Equal(t, "100", gotPerPage)

	require.Len(t, repos, 2)
	assert.Equal(t, Repository{
		ID:          1,
		Name:        "alpha",
		FullName:    "octocat/alpha",
		Private:     false,
		Description: "repo alpha",
		HTMLURL:     "https://github.com/octocat/alpha",
		URL:         "https://api.github.com/repos/octocat/alpha",
		Forks:       3,
		OpenIssues:  2,
		Watchers:    7,
		Language:    "Go",
		Visibility:  "public",
		Owner: Owner{
			Login:     "octocat",
			ID:        42,
			AvatarURL: "https://avatars.example/octocat",
			HTMLURL:   "https://github.com/octocat",
			Type:      "User",
		},
	}, repos[0])
	assert.True(t, repos[1].Private)
	assert.Equal(t, "hubber", repos[1].Owner.Login)
}

func TestListRepositoriesPage_InvalidRequest(t *testing.T) {
	client := NewClient("test-token")

	_, err := client.ListRepositoriesPage(context.Background(), 0, 100)

	var ghErr *GitHubError
	require.ErrorAs(t, err, &ghErr)
	assert.Equal(t, ErrorTypeInvalidRequest, ghErr.Type)
}

func TestListRepositoriesPage_DecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"id": "not-a-number"}]`)
	}))
	defer server.Close()

	client := createTestClient(t, server)
	_, err := client.ListRepositoriesPage(context.Background(), 1, 100)

	var ghErr *GitHubError
	require.ErrorAs(t, err, &ghErr)
	assert.Equal(t, ErrorTypeDecode, ghErr.Type)
}

func TestListRepositoriesPage_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	client := createTestClient(t, server)
	server.Close()

	_, err := client.ListRepositoriesPage(context.Background(), 1, 100)

	var ghErr *GitHubError
	require.ErrorAs(t, err, &ghErr)
	assert.Equal(t, ErrorTypeNetwork, ghErr.Type)
}

func TestSetRepositoryVisibility(t *testing.T) {
	tests := []struct {
		name         string
		private      bool
		status       int
		expectedType ErrorType
	}{
		{name: "make private", private: true, status: http.StatusOK},
		{name: "make public", private: false, status: http.StatusOK},
		{name: "forbidden", private: true, status: http.StatusForbidden, expectedType: ErrorTypePermission},
		{name: "validation failure", private: false, status: http.StatusUnprocessableEntity, expectedType: ErrorTypeStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body map[string]interface{}

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPatch, r.Method)
				assert.Equal(t, "/repos/octocat/alpha", r.URL.Path)
				assert.Equal(t, "token test-token", r.Header.Get("Authorization"))
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				if tt.status == http.StatusOK {
					_ = json.NewEncoder(w).Encode(repoJSON(1, "alpha", "octocat", tt.private))
					return
				}
				_ = json.NewEncoder(w).Encode(map[string]string{"message": "nope"})
			}))
			defer server.Close()

			client := createTestClient(t, server)
			err := client.SetRepositoryVisibility(context.Background(), "octocat", "alpha", tt.private)

			assert.Equal(t, map[string]interface{}{"private": tt.private}, body)
			if tt.expectedType == "" {
				assert.NoError(t, err)
				return
			}

			var ghErr *GitHubError
			require.ErrorAs(t, err, &ghErr)
			assert.Equal(t, tt.expectedType, ghErr.Type)
			assert.Equal(t, tt.status, ghErr.StatusCode)
			assert.Equal(t, "repository octocat/alpha", ghErr.Resource)
		})
	}
}

func TestDeleteRepository(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		expectedType ErrorType
	}{
		{name: "deleted", status: http.StatusNoContent},
		{name: "forbidden", status: http.StatusForbidden, expectedType: ErrorTypePermission},
		{name: "not found", status: http.StatusNotFound, expectedType: ErrorTypeStatus},
		{name: "server error", status: http.StatusInternalServerError, expectedType: ErrorTypeStatus},
		{name: "unexpected success code", status: http.StatusOK, expectedType: ErrorTypeStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodDelete, r.Method)
				assert.Equal(t, "/repos/octocat/alpha", r.URL.Path)

				if tt.status >= 400 {
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(tt.status)
					_ = json.NewEncoder(w).Encode(map[string]string{"message": "Must have admin rights to Repository."})
					return
				}
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := createTestClient(t, server)
			err := client.DeleteRepository(context.Background(), "octocat", "alpha")

			if tt.expectedType == "" {
				assert.NoError(t, err)
				return
			}

			var ghErr *GitHubError
			require.ErrorAs(t, err, &ghErr)
			assert.Equal(t, tt.expectedType, ghErr.Type)
			assert.Equal(t, tt.status, ghErr.StatusCode)
		})
	}
}

func TestDeleteRepository_MissingOwner(t *testing.T) {
	client := NewClient("test-token")

	err := client.DeleteRepository(context.Background(), "", "alpha")

	var ghErr *GitHubError
	require.ErrorAs(t, err, &ghErr)
	assert.Equal(t, ErrorTypeInvalidRequest, ghErr.Type)
}

func TestAuthenticatedUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"login": "octocat", "id": 1})
	}))
	defer server.Close()

	client := createTestClient(t, server)
	login, err := client.AuthenticatedUser(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "octocat", login)
}

func TestWithTransport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	serverURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)

	var seenAuth string
	client := NewClient("test-token", WithBaseURL(serverURL), WithTransport(func(next http.RoundTripper) http.RoundTripper {
		return roundTripFunc(func(r *http.Request) (*http.Response, error) {
			seenAuth = r.Header.Get("Authorization")
			return next.RoundTrip(r)
		})
	}))

	require.NoError(t, client.DeleteRepository(context.Background(), "octocat", "alpha"))
	assert.Equal(t, "token test-token", seenAuth)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func TestClient_EmptyToken(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	serverURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)

	for _, token := range []string{"", "   "} {
		client := NewClient(token, WithBaseURL(serverURL))
		ctx := context.Background()

		_, userErr := client.AuthenticatedUser(ctx)
		_, listErr := client.ListRepositoriesPage(ctx, 1, 100)
		visibilityErr := client.SetRepositoryVisibility(ctx, "octocat", "alpha", true)
		deleteErr := client.DeleteRepository(ctx, "octocat", "alpha")

		for _, err := range []error{userErr, listErr, visibilityErr, deleteErr} {
			var ghErr *GitHubError
			require.ErrorAs(t, err, &ghErr)
			assert.Equal(t, ErrorTypeInvalidRequest, ghErr.Type)
			assert.Contains(t, ghErr.Message, "token cannot be empty")
		}
	}

	assert.Zero(t, calls, "no request is sent without a token")
}
