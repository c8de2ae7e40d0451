package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultLogLevel = "info"
	DefaultTimeout  = 30 * time.Second
)

// Config represents the application configuration
type Config struct {
	URL         string
	SessionFile string
	LogLevel    string
	LogFile     string
	Timeout     time.Duration
}

// Load loads configuration from file and environment variables.
// Environment variables take precedence over config file values.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		configDir, err := configDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(configDir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("timeout", DefaultTimeout)

	v.SetEnvPrefix("BIDCTL")
	_ = v.BindEnv("url")
	_ = v.BindEnv("session_file")
	_ = v.BindEnv("log_level")
	_ = v.BindEnv("log_file")
	_ = v.BindEnv("timeout")

	// A missing file is fine; required fields are validated below
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	cfg := &Config{
		URL:         v.GetString("url"),
		SessionFile: v.GetString("session_file"),
		LogLevel:    v.GetString("log_level"),
		LogFile:     v.GetString("log_file"),
		Timeout:     v.GetDuration("timeout"),
	}

	if cfg.URL == "" {
		return nil, fmt.Errorf("no configuration found. Run 'bidctl config init' to set up")
	}

	if cfg.SessionFile == "" {
		path, err := DefaultSessionPath()
		if err != nil {
			return nil, err
		}
		cfg.SessionFile = path
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return cfg, nil
}

func configDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "bidctl"), nil
}

// DefaultConfigPath returns the default configuration file path
func DefaultConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// DefaultSessionPath returns the default location of the persisted login session
func DefaultSessionPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "session.yaml"), nil
}

// Save writes configuration to the specified path
func Save(cfg *Config, configPath string) error {
	// Owner-only: the session file usually lives next to it
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.Set("url", cfg.URL)
	if cfg.SessionFile != "" {
		v.Set("session_file", cfg.SessionFile)
	}
	if cfg.LogLevel != "" {
		v.Set("log_level", cfg.LogLevel)
	}
	if cfg.LogFile != "" {
		v.Set("log_file", cfg.LogFile)
	}
	if cfg.Timeout > 0 {
		v.Set("timeout", cfg.Timeout.String())
	}

	if err := v.WriteConfig(); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	if err := os.Chmod(configPath, 0600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	return nil
}
