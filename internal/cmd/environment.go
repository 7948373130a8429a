package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ghtool/internal/account"
	"ghtool/internal/logging"
	"ghtool/internal/ui"
	"ghtool/pkg/config"
	"ghtool/pkg/fuzzy"
	"ghtool/pkg/github"
)

// Seams replaced in tests
var (
	newAPIClient    = defaultAPIClient
	newAccountStore = func() account.Store { return account.NewKeyringStore() }
	newFzfRunner    = func() fuzzy.FzfRunner { return &fuzzy.DefaultFzfRunner{} }
)

func defaultAPIClient(token string, cfg *config.Config, logger *zap.Logger) (github.APIClient, error) {
	baseURL, err := github.ParseBaseURL(cfg.GitHub.BaseURL)
	if err != nil {
		return nil, err
	}

	return github.NewClient(token,
		github.WithBaseURL(baseURL),
		github.WithTimeout(cfg.GitHub.Timeout),
		github.WithTransport(logging.Wrap(logger)),
	), nil
}

// environment is everything a command needs: configuration, logger, accounts,
// console and, once resolved, the GitHub client of the current account.
type environment struct {
	cfg      *config.Config
	logger   *zap.Logger
	accounts *account.Manager
	auth     *github.AuthManager
	printer  *ui.Printer
	prompter *prompter

	// explicit overrides from --account and --token
	account string
	token   string

	api   github.APIClient
	login string
}

func newEnvironment(cmd *cobra.Command) (*environment, error) {
	var (
		cfg *config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.LoadConfigFromPath(cfgFile)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewLoggerFactory().CreateLogger(level, format)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	prefsPath, err := account.DefaultPreferencesPath()
	if err != nil {
		return nil, err
	}
	prefs, err := account.LoadPreferences(prefsPath)
	if err != nil {
		return nil, err
	}

	return &environment{
		cfg:      cfg,
		logger:   logger,
		accounts: account.NewManager(newAccountStore(), prefs, logger.Named("account")),
		auth:     github.NewAuthManager(),
		printer:  ui.NewPrinter(cmd.OutOrStdout()),
		prompter: newPrompter(cmd.InOrStdin(), cmd.OutOrStdout()),
		account:  accountName,
		token:    tokenValue,
	}, nil
}

// username is the account commands act as: --account, else the active account
func (e *environment) username() string {
	if e.account != "" {
		return e.account
	}
	return e.accounts.Current()
}

// client returns the GitHub client for the current account and the login it
// authenticates as. The login is fetched from GET /user when no account is known.
func (e *environment) client(ctx context.Context) (github.APIClient, string, error) {
	if e.api != nil {
		return e.api, e.login, nil
	}

	username := e.username()
	token, origin, err := e.auth.GetToken(e.token, username, e.accounts.Token)
	if err != nil {
		e.printer.Println(github.GetAuthInstructions())
		return nil, "", err
	}

	api, err := newAPIClient(token, e.cfg, e.logger.Named("github"))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create GitHub client: %w", err)
	}

	login := username
	if login == "" {
		login, err = api.AuthenticatedUser(ctx)
		if err != nil {
			return nil, "", fmt.Errorf("failed to identify the token's account: %w", err)
		}
	}

	e.logger.Debug("resolved GitHub credentials",
		zap.String("account", login),
		zap.String("token_origin", string(origin)),
	)

	e.api = api
	e.login = login
	return api, login, nil
}

// resetClient forgets the resolved client after the active account changed
func (e *environment) resetClient() {
	e.api = nil
	e.login = ""
}

func (e *environment) pageOptions() github.PageOptions {
	return github.PageOptions{PerPage: e.cfg.GitHub.PerPage, MaxPages: e.cfg.GitHub.MaxPages}
}

func (e *environment) close() {
	_ = e.logger.Sync()
}
