//go:build integration
// +build integration

package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func getProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return "../.."
	}
	// Walk up until we find go.mod
	for dir != "/" {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		dir = filepath.Dir(dir)
	}
	return "../.."
}

func getBinaryPath(t *testing.T) string {
	// Use pre-built binary from CI or build locally
	binaryPath := os.Getenv("GHTOOL_BINARY")
	if binaryPath == "" {
		buildCmd := exec.Command("go", "build", "-o", "ghtool-test", "./cmd/ghtool")
		buildCmd.Dir = getProjectRoot()
		var buildOut bytes.Buffer
		buildCmd.Stdout = &buildOut
		buildCmd.Stderr = &buildOut
		if err := buildCmd.Run(); err != nil {
			t.Fatalf("Failed to build binary: %v\nOutput: %s", err, buildOut.String())
		}
		binaryPath = filepath.Join(getProjectRoot(), "ghtool-test")

		t.Cleanup(func() {
			if err := os.Remove(binaryPath); err != nil {
				t.Logf("Failed to remove test binary: %v", err)
			}
		})
	} else if !filepath.IsAbs(binaryPath) {
		binaryPath = filepath.Join(getProjectRoot(), binaryPath)
	}

	return binaryPath
}

// runCLI runs the binary with an isolated HOME and the given extra environment
func runCLI(t *testing.T, binaryPath, stdin string, env []string, args ...string) (string, error) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append([]string{
		"HOME=" + t.TempDir(),
		"PATH=" + os.Getenv("PATH"),
	}, env...)
	cmd.Stdin = strings.NewReader(stdin)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	return out.String(), err
}

func TestCLIHelp(t *testing.T) {
	binaryPath := getBinaryPath(t)

	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "help command",
			args:     []string{"--help"},
			expected: []string{"ghtool", "list-repos", "delete-repo", "change-visibility", "add-account"},
		},
		{
			name:     "list-repos help",
			args:     []string{"list-repos", "--help"},
			expected: []string{"--owned", "--collaborator", "--format"},
		},
		{
			name:     "delete-repo help",
			args:     []string{"delete-repo", "--help"},
			expected: []string{"--dry-run", "--yes", "nothing is rolled back"},
		},
		{
			name:     "change-visibility help",
			args:     []string{"change-visibility", "--help"},
			expected: []string{"--private", "--public", "Forks are skipped"},
		},
		{
			name:     "init help",
			args:     []string{"init", "--help"},
			expected: []string{"init"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := runCLI(t, binaryPath, "", nil, tt.args...)
			if err != nil {
				t.Fatalf("Command failed: %v\nOutput: %s", err, output)
			}

			for _, expected := range tt.expected {
				if !strings.Contains(output, expected) {
					t.Errorf("Expected output to contain '%s', got: %s", expected, output)
				}
			}
		})
	}
}

// fakeGitHubAPI is a minimal stand-in for api.github.com
type fakeGitHubAPI struct {
	mu      sync.Mutex
	deleted []string
	patched map[string]bool
}

func (f *fakeGitHubAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	repo := func(owner, name string, private bool) map[string]interface{} {
		return map[string]interface{}{
			"name":      name,
			"full_name": owner + "/" + name,
			"private":   private,
			"owner":     map[string]interface{}{"login": owner},
		}
	}

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.URL.Path == "/user":
		_ = json.NewEncoder(w).Encode(map[string]string{"login": "octocat"})
	case r.URL.Path == "/user/repos":
		if r.URL.Query().Get("page") != "1" {
			_, _ = w.Write([]byte("[]"))
			return
		}
		_ = json.NewEncoder(w).Encode([]interface{}{
			repo("octocat", "alpha", false),
			repo("octocat", "beta", true),
			repo("hubber", "gamma", false),
		})
	case strings.HasPrefix(r.URL.Path, "/repos/") && r.Method == http.MethodDelete:
		f.deleted = append(f.deleted, strings.TrimPrefix(r.URL.Path, "/repos/"))
		w.WriteHeader(http.StatusNoContent)
	case strings.HasPrefix(r.URL.Path, "/repos/") && r.Method == http.MethodPatch:
		var body map[string]bool
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.patched[strings.TrimPrefix(r.URL.Path, "/repos/")] = body["private"]
		_ = json.NewEncoder(w).Encode(repo("octocat", "alpha", body["private"]))
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Not Found"}`))
	}
}

func TestCLIAgainstFakeGitHub(t *testing.T) {
	binaryPath := getBinaryPath(t)

	api := &fakeGitHubAPI{patched: make(map[string]bool)}
	server := httptest.NewServer(api)
	defer server.Close()

	env := []string{
		"GITHUB_TOKEN=integration-token",
		"GHTOOL_GITHUB_BASE_URL=" + server.URL + "/",
	}

	t.Run("list-repos as json", func(t *testing.T) {
		output, err := runCLI(t, binaryPath, "", env, "list-repos", "--format", "json")
		if err != nil {
			t.Fatalf("list-repos failed: %v\nOutput: %s", err, output)
		}

		var listing struct {
			Account      string `json:"account"`
			Owned        []struct{ Name string } `json:"owned"`
			Collaborator []struct{ Name string } `json:"collaborator"`
		}
		if err := json.Unmarshal([]byte(output), &listing); err != nil {
			t.Fatalf("output is not JSON: %v\n%s", err, output)
		}
		if listing.Account != "octocat" || len(listing.Owned) != 2 || len(listing.Collaborator) != 1 {
			t.Errorf("unexpected listing: %+v", listing)
		}
	})

	t.Run("delete-repo dry run", func(t *testing.T) {
		output, err := runCLI(t, binaryPath, "", env, "delete-repo", "alpha", "--dry-run")
		if err != nil {
			t.Fatalf("delete-repo failed: %v\nOutput: %s", err, output)
		}
		if !strings.Contains(output, "[DRY RUN] Would delete repository: alpha") {
			t.Errorf("expected dry run message, got: %s", output)
		}
	})

	t.Run("change-visibility", func(t *testing.T) {
		output, err := runCLI(t, binaryPath, "", env, "change-visibility", "alpha", "--private", "--yes")
		if err != nil {
			t.Fatalf("change-visibility failed: %v\nOutput: %s", err, output)
		}
		if !strings.Contains(output, "Successfully updated alpha to private") {
			t.Errorf("expected success message, got: %s", output)
		}
	})

	t.Run("interactive session", func(t *testing.T) {
		output, err := runCLI(t, binaryPath, "list --collaborator\n:wq\n", env)
		if err != nil {
			t.Fatalf("interactive mode failed: %v\nOutput: %s", err, output)
		}
		for _, expected := range []string{"Collaborator Repositories:", "1. gamma", "Goodbye!"} {
			if !strings.Contains(output, expected) {
				t.Errorf("Expected output to contain '%s', got: %s", expected, output)
			}
		}
	})

	api.mu.Lock()
	defer api.mu.Unlock()
	if len(api.deleted) != 0 {
		t.Errorf("dry run deleted repositories: %v", api.deleted)
	}
	if private, ok := api.patched["octocat/alpha"]; !ok || !private {
		t.Errorf("expected octocat/alpha to be made private, got %v", api.patched)
	}
}

func TestCLIWithoutToken(t *testing.T) {
	binaryPath := getBinaryPath(t)

	output, err := runCLI(t, binaryPath, "", nil, "list-repos")
	if err == nil {
		t.Fatalf("expected list-repos to fail without a token, got: %s", output)
	}
	if !strings.Contains(output, "GitHub authentication is required") {
		t.Errorf("expected authentication instructions, got: %s", output)
	}
}
