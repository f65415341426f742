package cmd

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	filestore "github.com/manikadiri/healthnav/internal/adapters/store/file"
	sqlitestore "github.com/manikadiri/healthnav/internal/adapters/store/sqlite"
	tomlstore "github.com/manikadiri/healthnav/internal/adapters/store/toml"
	"github.com/manikadiri/healthnav/internal/adapters/tokenapi"
	"github.com/manikadiri/healthnav/internal/application"
	"github.com/manikadiri/healthnav/internal/logging"
	"github.com/manikadiri/healthnav/internal/ports"
	"github.com/manikadiri/healthnav/internal/version"
	"github.com/spf13/viper"
)

type app struct {
	config       *viper.Viper
	logger       *log.Logger
	store        ports.KeyValueStore
	lifecycle    *application.TokenLifecycle
	sessions     *application.SessionService
	history      *application.HistoryService
	pollInterval time.Duration
	closers      []func() error
}

func wireApp(opts rootOptions, logOutput io.Writer) (*app, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(logOutput, cfg.GetString(keyLogLevel))
	if err != nil {
		return nil, err
	}

	a := &app{config: cfg, logger: logger, pollInterval: cfg.GetDuration(keyPollInterval)}

	store, err := a.wireStore()
	if err != nil {
		return nil, err
	}
	a.store = store

	client := tokenapi.Client{
		BaseURL:        cfg.GetString(keyAPIBaseURL),
		HTTPClient:     http.DefaultClient,
		RequestTimeout: cfg.GetDuration(keyAPITimeout),
		UserAgent:      version.UserAgent(),
	}
	clock := ports.SystemClock{}

	a.lifecycle = application.NewTokenLifecycle(store, client, clock, application.LifecycleOptions{
		PollInterval: a.pollInterval,
		Logger:       logger,
	})
	a.sessions = application.NewSessionService(store, clock)
	a.history = application.NewHistoryService(store, logger)
	a.closers = append(a.closers, func() error {
		a.lifecycle.Close()
		return nil
	})

	logger.Debug("wired app", "api", client.BaseURL, "backend", cfg.GetString(keyStoreBackend))

	return a, nil
}

func (a *app) wireStore() (ports.KeyValueStore, error) {
	backend := strings.ToLower(strings.TrimSpace(a.config.GetString(keyStoreBackend)))

	path := a.config.GetString(keyStorePath)
	if path == "" && backend != backendTOML {
		defaultPath, err := defaultStorePath(backend)
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}

	switch backend {
	case backendTOML:
		store, err := tomlstore.NewStore(a.config)
		if err != nil {
			return nil, fmt.Errorf("wire toml store: %w", err)
		}
		return store, nil
	case backendFile:
		return filestore.NewStore(path), nil
	case backendSQLite:
		store, err := sqlitestore.Open(path)
		if err != nil {
			return nil, fmt.Errorf("wire sqlite store: %w", err)
		}
		a.closers = append(a.closers, store.Close)
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported %s %q (want %s, %s or %s)", keyStoreBackend, backend, backendTOML, backendFile, backendSQLite)
	}
}

// close releases resources in reverse wiring order.
func (a *app) close() error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}
