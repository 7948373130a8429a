package account

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

var (
	// ErrNoActiveAccount is returned when an operation needs the active account and none is set
	ErrNoActiveAccount = errors.New("no active account")
	// ErrUnknownAccount is returned when switching to an account without a stored token
	ErrUnknownAccount = errors.New("no token stored for this account; add it first")
)

// Manager owns the stored tokens and the active account
type Manager struct {
	store  Store
	prefs  *Preferences
	logger *zap.Logger
}

// NewManager creates an account manager
func NewManager(store Store, prefs *Preferences, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{store: store, prefs: prefs, logger: logger}
}

// Current returns the active account, or "" when none is set
func (m *Manager) Current() string {
	return m.prefs.Active()
}

// Token returns the stored token of username
func (m *Manager) Token(username string) (string, error) {
	token, err := m.store.Get(username)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", fmt.Errorf("%w: %s", ErrTokenNotFound, username)
	}
	return token, nil
}

// Add stores the token of username, remembers the account and makes it active
func (m *Manager) Add(username, token string) error {
	username = strings.TrimSpace(username)
	token = strings.TrimSpace(token)
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}

	if err := m.store.Set(username, token); err != nil {
		return fmt.Errorf("failed to store token for %s: %w", username, err)
	}
	if err := m.prefs.AddKnown(username); err != nil {
		return err
	}
	if err := m.prefs.SetActive(username); err != nil {
		return err
	}

	m.logger.Debug("account added", zap.String("account", username))
	return nil
}

// Remove deletes the stored token of username and forgets the account.
// The active account is cleared when it is the one removed.
func (m *Manager) Remove(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}

	if err := m.store.Delete(username); err != nil {
		return fmt.Errorf("failed to delete token for %s: %w", username, err)
	}
	if err := m.prefs.RemoveKnown(username); err != nil {
		return err
	}

	if strings.EqualFold(m.prefs.Active(), username) {
		if err := m.prefs.ClearActive(); err != nil {
			return err
		}
		m.logger.Debug("active account cleared", zap.String("account", username))
	}

	m.logger.Debug("account removed", zap.String("account", username))
	return nil
}

// Switch makes username the active account. The account must have a stored token.
func (m *Manager) Switch(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}

	if _, err := m.Token(username); err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return fmt.Errorf("cannot switch to %s: %w", username, ErrUnknownAccount)
		}
		return err
	}

	if err := m.prefs.AddKnown(username); err != nil {
		return err
	}
	if err := m.prefs.SetActive(username); err != nil {
		return err
	}

	m.logger.Debug("switched account", zap.String("account", username))
	return nil
}

// Known returns the accounts added on this machine
func (m *Manager) Known() []string {
	return m.prefs.Known()
}
