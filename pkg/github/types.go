package github

import "strings"

// Repository represents a GitHub repository as returned by the listing endpoint
type Repository struct {
	ID          int64  `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	FullName    string `json:"full_name" yaml:"full_name"`
	Private     bool   `json:"private" yaml:"private"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	HTMLURL     string `json:"html_url" yaml:"html_url"`
	URL         string `json:"url" yaml:"url"`
	Forks       int    `json:"forks" yaml:"forks"`
	OpenIssues  int    `json:"open_issues" yaml:"open_issues"`
	Watchers    int    `json:"watchers" yaml:"watchers"`
	Language    string `json:"language,omitempty" yaml:"language,omitempty"`
	Visibility  string `json:"visibility" yaml:"visibility"`
	Archived    bool   `json:"archived" yaml:"archived"`
	Fork        bool   `json:"fork" yaml:"fork"`
	Owner       Owner  `json:"owner" yaml:"owner"`
}

// Owner represents the account that owns a repository
type Owner struct {
	Login     string `json:"login" yaml:"login"`
	ID        int64  `json:"id" yaml:"id"`
	AvatarURL string `json:"avatar_url" yaml:"avatar_url"`
	HTMLURL   string `json:"html_url" yaml:"html_url"`
	Type      string `json:"type" yaml:"type"`
}

// VisibilityLabel returns the visibility with its first letter upper-cased.
// Falls back to the private flag when the API did not send a visibility string.
func (r Repository) VisibilityLabel() string {
	visibility := r.Visibility
	if visibility == "" {
		visibility = VisibilityName(r.Private)
	}
	return strings.ToUpper(visibility[:1]) + strings.ToLower(visibility[1:])
}

// VisibilityName maps the private flag to GitHub's visibility names
func VisibilityName(private bool) string {
	if private {
		return "private"
	}
	return "public"
}
