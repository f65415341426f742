package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/manikadiri/healthnav/internal/adapters/tokenapi"
	"github.com/manikadiri/healthnav/internal/application"
	"github.com/manikadiri/healthnav/internal/logging"
	"github.com/spf13/viper"
)

const (
	configDirName  = ".healthnav"
	configFileName = "config"
	envPrefix      = "HEALTHNAV"

	keyAPIBaseURL   = "api.base_url"
	keyAPITimeout   = "api.timeout"
	keyPollInterval = "poll.interval"
	keyStoreBackend = "store.backend"
	keyStorePath    = "store.path"
	keyLogLevel     = "log.level"

	backendTOML   = "toml"
	backendFile   = "file"
	backendSQLite = "sqlite"
)

type rootOptions struct {
	configFile string
	logLevel   string
	apiURL     string
}

func loadConfig(opts rootOptions) (*viper.Viper, error) {
	cfg := viper.New()
	cfg.SetDefault(keyAPIBaseURL, tokenapi.DefaultBaseURL)
	cfg.SetDefault(keyAPITimeout, tokenapi.DefaultRequestTimeout)
	cfg.SetDefault(keyPollInterval, application.DefaultPollInterval)
	cfg.SetDefault(keyStoreBackend, backendTOML)
	cfg.SetDefault(keyLogLevel, logging.DefaultLevel)

	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	cfg.SetConfigType("toml")
	if opts.configFile != "" {
		cfg.SetConfigFile(opts.configFile)
		if err := cfg.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", opts.configFile, err)
		}
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		cfg.SetConfigName(configFileName)
		cfg.AddConfigPath(filepath.Join(homeDir, configDirName))
		if err := cfg.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	if opts.apiURL != "" {
		cfg.Set(keyAPIBaseURL, opts.apiURL)
	}
	if opts.logLevel != "" {
		cfg.Set(keyLogLevel, opts.logLevel)
	}

	if interval := cfg.GetDuration(keyPollInterval); interval <= 0 {
		return nil, fmt.Errorf("%s must be positive, got %q", keyPollInterval, cfg.GetString(keyPollInterval))
	}
	if timeout := cfg.GetDuration(keyAPITimeout); timeout < 0 {
		return nil, fmt.Errorf("%s must not be negative, got %s", keyAPITimeout, timeout)
	}

	return cfg, nil
}

func defaultStorePath(backend string) (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}

	switch backend {
	case backendFile:
		return filepath.Join(homeDir, configDirName, "slots"), nil
	case backendSQLite:
		return filepath.Join(homeDir, configDirName, "healthnav.db"), nil
	default:
		return filepath.Join(homeDir, configDirName, "state.toml"), nil
	}
}
