// Package app provides the application context and dependency management
// for the fecrecon CLI. It centralizes configuration, logging, and the
// lazily constructed upstream clients behind one struct that commands
// receive their dependencies from.
package app

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/electionwatch/fecrecon/internal/sources/fec"
	"github.com/electionwatch/fecrecon/internal/sources/store"
	"github.com/electionwatch/fecrecon/pkg/reconcile"
	"github.com/electionwatch/fecrecon/pkg/senate"
)

// App represents the fecrecon application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger

	// Lazily initialized clients, guarded by mu
	mu         sync.Mutex
	fecClient  *fec.Client
	storeCli   *store.Client
	reconciler *reconcile.Reconciler
	classifier *senate.Classifier
}

// New creates a new App instance with the given version information.
func New(version, commit, date string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version string.
func (a *App) Version() string {
	return a.version
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// FEC returns the FEC API client, creating it lazily. Construction fails
// fast when credentials are missing from the configuration.
func (a *App) FEC() (*fec.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.fecClient != nil {
		return a.fecClient, nil
	}
	if err := a.config.ValidateFEC(); err != nil {
		return nil, err
	}

	client, err := fec.New(a.config.FECAPIKey,
		fec.WithHTTPOptions(a.config.httpOptions()...))
	if err != nil {
		return nil, err
	}
	a.fecClient = client
	return client, nil
}

// Store returns the hosted store client, creating it lazily.
func (a *App) Store() (*store.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.storeCli != nil {
		return a.storeCli, nil
	}
	if err := a.config.ValidateStore(); err != nil {
		return nil, err
	}

	client, err := store.New(a.config.StoreURL, a.config.StoreAPIKey, a.config.StoreToken,
		store.WithHTTPOptions(a.config.httpOptions()...))
	if err != nil {
		return nil, err
	}
	a.storeCli = client
	return client, nil
}

// Reconciler returns the reconciliation engine wired to both upstreams.
func (a *App) Reconciler() (*reconcile.Reconciler, error) {
	fecClient, err := a.FEC()
	if err != nil {
		return nil, err
	}
	storeClient, err := a.Store()
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.reconciler != nil {
		return a.reconciler, nil
	}

	r, err := reconcile.New(fecClient, storeClient, reconcile.WithTolerance(a.config.Tolerance))
	if err != nil {
		return nil, err
	}
	a.reconciler = r
	return r, nil
}

// Classifier returns the sitting-senator classifier, backed by the
// configured roster file or the embedded roster.
func (a *App) Classifier() (*senate.Classifier, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.classifier != nil {
		return a.classifier, nil
	}

	var err error
	var classifier *senate.Classifier
	if a.config.RosterPath != "" {
		roster, loadErr := senate.LoadRosterFile(a.config.RosterPath)
		if loadErr != nil {
			return nil, loadErr
		}
		classifier = senate.NewClassifier(roster)
	} else {
		classifier, err = senate.Default()
		if err != nil {
			return nil, err
		}
	}
	a.classifier = classifier
	return classifier, nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}
