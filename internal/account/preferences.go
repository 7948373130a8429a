package account

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
)

const (
	preferencesDir  = ".ghtool"
	preferencesFile = "preferences.ini"

	sectionAccounts = "accounts"
	keyActive       = "active"
	keyKnown        = "known"
)

// Preferences holds the active account and the accounts added on this machine.
// Tokens are never written here.
type Preferences struct {
	path string
	cfg  *ini.File
}

// DefaultPreferencesPath returns ~/.ghtool/preferences.ini
func DefaultPreferencesPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, preferencesDir, preferencesFile), nil
}

// LoadPreferences reads the preferences file, starting empty when it does not exist yet
func LoadPreferences(path string) (*Preferences, error) {
	var cfg *ini.File
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg = ini.Empty()
	} else {
		cfg, err = ini.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load preferences: %w", err)
		}
	}

	return &Preferences{path: path, cfg: cfg}, nil
}

// Path returns the file the preferences are saved to
func (p *Preferences) Path() string {
	return p.path
}

func (p *Preferences) section() *ini.Section {
	return p.cfg.Section(sectionAccounts)
}

// Active returns the active account, or "" when none is set
func (p *Preferences) Active() string {
	return strings.TrimSpace(p.section().Key(keyActive).String())
}

// SetActive marks username as the active account
func (p *Preferences) SetActive(username string) error {
	p.section().Key(keyActive).SetValue(username)
	return p.save()
}

// ClearActive removes the active account
func (p *Preferences) ClearActive() error {
	p.section().DeleteKey(keyActive)
	return p.save()
}

// Known returns the remembered accounts in the order they were added
func (p *Preferences) Known() []string {
	var known []string
	for _, name := range p.section().Key(keyKnown).Strings(",") {
		if name != "" {
			known = append(known, name)
		}
	}
	return known
}

// AddKnown remembers username; adding an account twice is a no-op
func (p *Preferences) AddKnown(username string) error {
	known := p.Known()
	for _, name := range known {
		if strings.EqualFold(name, username) {
			return nil
		}
	}
	p.section().Key(keyKnown).SetValue(strings.Join(append(known, username), ","))
	return p.save()
}

// RemoveKnown forgets username
func (p *Preferences) RemoveKnown(username string) error {
	var remaining []string
	for _, name := range p.Known() {
		if !strings.EqualFold(name, username) {
			remaining = append(remaining, name)
		}
	}

	if len(remaining) == 0 {
		p.section().DeleteKey(keyKnown)
	} else {
		p.section().Key(keyKnown).SetValue(strings.Join(remaining, ","))
	}
	return p.save()
}

func (p *Preferences) save() error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0700); err != nil {
		return fmt.Errorf("failed to create preferences directory: %w", err)
	}
	if err := p.cfg.SaveTo(p.path); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}
