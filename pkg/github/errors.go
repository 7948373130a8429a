package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v66/github"
)

// ErrorType represents the categories of failed GitHub calls
type ErrorType string

const (
	ErrorTypeInvalidRequest ErrorType = "invalid_request"
	ErrorTypeNetwork        ErrorType = "network"
	ErrorTypeStatus         ErrorType = "status"
	ErrorTypePermission     ErrorType = "permission"
	ErrorTypeDecode         ErrorType = "decode"
)

// GitHubError represents a categorized error from a GitHub call
type GitHubError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	StatusCode int       `json:"status_code,omitempty"`
	Resource   string    `json:"resource,omitempty"`
	Cause      error     `json:"-"`
}

// Error implements the error interface
func (e *GitHubError) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("%s error for %s: %s", e.Type, e.Resource, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *GitHubError) Unwrap() error {
	return e.Cause
}

// NewGitHubError creates a new GitHubError with the specified type and message
func NewGitHubError(errorType ErrorType, message string, cause error) *GitHubError {
	return &GitHubError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

// IsPermissionError reports whether err is a 403 permission failure
func IsPermissionError(err error) bool {
	var ghErr *GitHubError
	return errors.As(err, &ghErr) && ghErr.Type == ErrorTypePermission
}

// WrapGitHubError classifies an error returned by go-github
func WrapGitHubError(err error, resource string) *GitHubError {
	if err == nil {
		return nil
	}

	var ghErr *GitHubError
	if errors.As(err, &ghErr) {
		if ghErr.Resource == "" {
			ghErr.Resource = resource
		}
		return ghErr
	}

	// Rate limit errors are 403s but not permission problems
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return &GitHubError{
			Type:       ErrorTypeStatus,
			Message:    fmt.Sprintf("rate limit exceeded, resets at %v", rateErr.Rate.Reset.Time),
			StatusCode: statusCodeOf(rateErr.Response),
			Resource:   resource,
			Cause:      err,
		}
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return &GitHubError{
			Type:       ErrorTypeStatus,
			Message:    "secondary rate limit exceeded",
			StatusCode: statusCodeOf(abuseErr.Response),
			Resource:   resource,
			Cause:      err,
		}
	}

	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) {
		return parseGitHubAPIError(respErr, resource)
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return &GitHubError{
			Type:     ErrorTypeDecode,
			Message:  fmt.Sprintf("failed to decode response: %v", err),
			Resource: resource,
			Cause:    err,
		}
	}

	if isNetworkError(err) {
		return &GitHubError{
			Type:     ErrorTypeNetwork,
			Message:  fmt.Sprintf("request failed: %v", err),
			Resource: resource,
			Cause:    err,
		}
	}

	// go-github reports malformed URLs and request bodies from NewRequest
	return &GitHubError{
		Type:     ErrorTypeInvalidRequest,
		Message:  err.Error(),
		Resource: resource,
		Cause:    err,
	}
}

// parseGitHubAPIError maps a non-success HTTP response to a categorized error
func parseGitHubAPIError(respErr *github.ErrorResponse, resource string) *GitHubError {
	statusCode := statusCodeOf(respErr.Response)
	baseErr := &GitHubError{
		Type:       ErrorTypeStatus,
		StatusCode: statusCode,
		Resource:   resource,
		Cause:      respErr,
	}

	switch statusCode {
	case http.StatusForbidden:
		baseErr.Type = ErrorTypePermission
		baseErr.Message = "insufficient permissions: must have admin rights to the repository"
	case http.StatusUnauthorized:
		baseErr.Message = "authentication failed: check the personal access token"
	case http.StatusNotFound:
		baseErr.Message = "not found or not accessible with this token"
	default:
		baseErr.Message = fmt.Sprintf("unexpected status %d", statusCode)
	}

	if respErr.Message != "" {
		baseErr.Message = fmt.Sprintf("%s (%s)", baseErr.Message, respErr.Message)
	}

	return baseErr
}

// StatusError builds a status error for responses go-github accepted but the
// operation did not expect, e.g. a 200 where 204 is the success code.
func StatusError(statusCode int, resource string) *GitHubError {
	errorType := ErrorTypeStatus
	if statusCode == http.StatusForbidden {
		errorType = ErrorTypePermission
	}
	return &GitHubError{
		Type:       errorType,
		Message:    fmt.Sprintf("unexpected status %d", statusCode),
		StatusCode: statusCode,
		Resource:   resource,
	}
}

func statusCodeOf(resp *http.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}

// isNetworkError checks if an error is a transport level failure
func isNetworkError(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		// url.Parse failures are malformed requests, not transport errors
		return urlErr.Op != "parse"
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	networkKeywords := []string{
		"connection refused",
		"connection reset",
		"network is unreachable",
		"no such host",
		"i/o timeout",
		"dial tcp",
	}

	for _, keyword := range networkKeywords {
		if strings.Contains(errStr, keyword) {
			return true
		}
	}
	return false
}
