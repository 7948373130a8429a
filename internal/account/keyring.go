package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/zalando/go-keyring"
)

const (
	// KeyringService is the service name used for keyring entries
	KeyringService = "ghtool"

	// keyringTimeout is the timeout for keyring operations
	keyringTimeout = 5 * time.Second
)

// ErrTokenNotFound is returned when the credential store has no token for an account
var ErrTokenNotFound = errors.New("no token stored for account")

// Store keeps one personal access token per GitHub username
type Store interface {
	Set(username, token string) error
	Get(username string) (string, error)
	Delete(username string) error
}

// KeyringError represents an error during keyring operations
type KeyringError struct {
	Operation string
	Username  string
	Err       error
}

func (e *KeyringError) Error() string {
	return fmt.Sprintf("keyring %s for %s failed: %v", e.Operation, e.Username, e.Err)
}

func (e *KeyringError) Unwrap() error {
	return e.Err
}

// KeyringStore stores tokens in the operating system's secret store
// (macOS Keychain, Secret Service, Windows Credential Manager).
type KeyringStore struct {
	service string
	timeout time.Duration
}

// NewKeyringStore creates a store under the ghtool service name
func NewKeyringStore() *KeyringStore {
	return &KeyringStore{service: KeyringService, timeout: keyringTimeout}
}

// Set stores a token in the system keyring with timeout
func (s *KeyringStore) Set(username, token string) error {
	return s.withTimeout("set", username, func() error {
		return keyring.Set(s.service, username, token)
	})
}

// Get retrieves a token from the system keyring with timeout
func (s *KeyringStore) Get(username string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	type result struct {
		token string
		err   error
	}

	resultCh := make(chan result, 1)
	go func() {
		token, err := keyring.Get(s.service, username)
		resultCh <- result{token: token, err: err}
	}()

	select {
	case r := <-resultCh:
		if errors.Is(r.err, keyring.ErrNotFound) {
			return "", fmt.Errorf("%w: %s", ErrTokenNotFound, username)
		}
		if r.err != nil {
			return "", &KeyringError{Operation: "get", Username: username, Err: r.err}
		}
		return strings.TrimSpace(r.token), nil
	case <-ctx.Done():
		return "", &KeyringError{Operation: "get", Username: username, Err: ctx.Err()}
	}
}

// Delete removes a token from the system keyring with timeout.
// Deleting an entry that does not exist is not an error.
func (s *KeyringStore) Delete(username string) error {
	err := s.withTimeout("delete", username, func() error {
		return keyring.Delete(s.service, username)
	})
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// withTimeout runs a keyring call in its own goroutine; some backends block
// indefinitely when no secret service is reachable.
func (s *KeyringStore) withTimeout(operation, username string, fn func() error) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- fn()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return &KeyringError{Operation: operation, Username: username, Err: err}
		}
		return nil
	case <-ctx.Done():
		return &KeyringError{Operation: operation, Username: username, Err: ctx.Err()}
	}
}

var _ Store = (*KeyringStore)(nil)
