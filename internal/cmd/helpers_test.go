package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
	"go.uber.org/zap"

	"ghtool/pkg/config"
	"ghtool/pkg/github"
)

type fakeRepo struct {
	owner    string
	name     string
	private  bool
	archived bool
	fork     bool
}

// fakeGitHub serves the handful of REST endpoints ghtool calls and records mutations
type fakeGitHub struct {
	t      *testing.T
	server *httptest.Server

	mu        sync.Mutex
	login     string
	repos     []fakeRepo
	forbidden map[string]bool
	failPage  int

	pages      []int
	userCalls  int
	tokens     []string
	deleted    []string
	visibility map[string]bool
}

func defaultFakeRepos() []fakeRepo {
	return []fakeRepo{
		{owner: "octocat", name: "alpha"},
		{owner: "octocat", name: "beta", private: true, archived: true},
		{owner: "hubber", name: "gamma"},
		{owner: "hubber", name: "delta", fork: true},
	}
}

func newFakeGitHub(t *testing.T) *fakeGitHub {
	t.Helper()

	fake := &fakeGitHub{
		t:          t,
		login:      "octocat",
		repos:      defaultFakeRepos(),
		forbidden:  make(map[string]bool),
		visibility: make(map[string]bool),
	}
	fake.server = httptest.NewServer(http.HandlerFunc(fake.handle))
	t.Cleanup(fake.server.Close)

	original := newAPIClient
	newAPIClient = func(token string, _ *config.Config, _ *zap.Logger) (github.APIClient, error) {
		fake.mu.Lock()
		fake.tokens = append(fake.tokens, token)
		fake.mu.Unlock()

		baseURL, err := url.Parse(fake.server.URL + "/")
		require.NoError(t, err)
		return github.NewClient(token, github.WithBaseURL(baseURL)), nil
	}
	t.Cleanup(func() { newAPIClient = original })

	return fake
}

func (f *fakeGitHub) repoJSON(repo fakeRepo) map[string]interface{} {
	return map[string]interface{}{
		"id":         len(repo.owner) + len(repo.name),
		"name":       repo.name,
		"full_name":  repo.owner + "/" + repo.name,
		"private":    repo.private,
		"visibility": github.VisibilityName(repo.private),
		"archived":   repo.archived,
		"fork":       repo.fork,
		"html_url":   "https://github.com/" + repo.owner + "/" + repo.name,
		"owner":      map[string]interface{}{"login": repo.owner, "type": "User"},
	}
}

func (f *fakeGitHub) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (f *fakeGitHub) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/user":
		f.userCalls++
		f.writeJSON(w, http.StatusOK, map[string]interface{}{"login": f.login, "id": 1})

	case r.Method == http.MethodGet && r.URL.Path == "/user/repos":
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
		f.pages = append(f.pages, page)

		if page == f.failPage {
			f.writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Server Error"})
			return
		}

		body := []interface{}{}
		start := (page - 1) * perPage
		for i := start; i >= 0 && i < len(f.repos) && i < start+perPage; i++ {
			body = append(body, f.repoJSON(f.repos[i]))
		}
		f.writeJSON(w, http.StatusOK, body)

	case strings.HasPrefix(r.URL.Path, "/repos/"):
		fullName := strings.TrimPrefix(r.URL.Path, "/repos/")
		if f.forbidden[fullName] {
			f.writeJSON(w, http.StatusForbidden, map[string]string{"message": "Must have admin rights to Repository."})
			return
		}

		switch r.Method {
		case http.MethodDelete:
			f.deleted = append(f.deleted, fullName)
			w.WriteHeader(http.StatusNoContent)
		case http.MethodPatch:
			var body struct {
				Private bool `json:"private"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				f.writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Problems parsing JSON"})
				return
			}
			f.visibility[fullName] = body.Private
			parts := strings.SplitN(fullName, "/", 2)
			f.writeJSON(w, http.StatusOK, f.repoJSON(fakeRepo{owner: parts[0], name: parts[1], private: body.Private}))
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}

	default:
		f.writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
	}
}

func (f *fakeGitHub) deletedRepos() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

func (f *fakeGitHub) visibilityChanges() map[string]bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	changes := make(map[string]bool, len(f.visibility))
	for name, private := range f.visibility {
		changes[name] = private
	}
	return changes
}

// setupCommandTest isolates HOME, the keyring and the GitHub token environment
func setupCommandTest(t *testing.T) {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	t.Setenv(github.TokenEnvVar, "")
	t.Setenv("GHTOOL_SELECTION_MODE", "")
	keyring.MockInit()
	resetCommandFlags(t)
}

// resetCommandFlags restores every flag of the command tree to its default
func resetCommandFlags(t *testing.T) {
	t.Helper()

	var reset func(cmd *cobra.Command)
	reset = func(cmd *cobra.Command) {
		for _, flags := range []*pflag.FlagSet{cmd.Flags(), cmd.PersistentFlags()} {
			flags.VisitAll(func(flag *pflag.Flag) {
				require.NoError(t, flag.Value.Set(flag.DefValue))
				flag.Changed = false
			})
		}
		for _, child := range cmd.Commands() {
			reset(child)
		}
	}
	reset(rootCmd)
}

// executeCommand runs ghtool with args, feeding input to stdin, and returns its output
func executeCommand(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()

	resetCommandFlags(t)

	out := new(bytes.Buffer)
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	if args == nil {
		// nil would make cobra fall back to os.Args
		args = []string{}
	}
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}
