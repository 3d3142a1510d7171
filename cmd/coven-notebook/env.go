// ABOUTME: Lazily built dependencies shared by the CLI commands
// ABOUTME: Loads config, sets up logging, and opens the client and store on first use

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/2389/coven-notebook/internal/client"
	"github.com/2389/coven-notebook/internal/config"
	"github.com/2389/coven-notebook/internal/store"
)

// env holds what commands need. Fields already set are used as is, which is
// how tests inject a mock store and an httptest client.
type env struct {
	configPath string

	cfg    *config.Config
	logger *slog.Logger
	api    *client.Client
	store  store.Store

	// opened is the store this env opened itself and must close
	opened store.Store
}

// getConfigPath returns the path to the notebook config file.
// Priority: COVEN_NOTEBOOK_CONFIG env var > XDG_CONFIG_HOME/coven/notebook.yaml > ~/.config/coven/notebook.yaml
func getConfigPath() string {
	if envPath := os.Getenv("COVEN_NOTEBOOK_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "notebook.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "coven", "notebook.yaml")
}

// loadConfig reads path. A missing file is only an error when the path was
// asked for explicitly; otherwise defaults are used.
func loadConfig(path string, explicit bool) (*config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return config.Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// loadDotEnv reads a .env file from the working directory, if present, so
// ${VAR} references in the config can be kept out of the config file.
// Variables already set in the environment win.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func (e *env) setup() error {
	if e.cfg == nil {
		if err := loadDotEnv(".env"); err != nil {
			return err
		}
		path, explicit := e.configPath, e.configPath != ""
		if !explicit {
			path = getConfigPath()
			explicit = os.Getenv("COVEN_NOTEBOOK_CONFIG") != ""
		}
		cfg, err := loadConfig(path, explicit)
		if err != nil {
			return err
		}
		e.cfg = cfg
	}

	if e.logger == nil {
		e.logger = setupLogger(e.cfg.Logging, os.Stderr)
		slog.SetDefault(e.logger)
	}
	return nil
}

// client returns the platform API client
func (e *env) client() *client.Client {
	if e.api == nil {
		e.api = client.New(e.cfg.API.BaseURL,
			client.WithToken(e.cfg.API.Token),
			client.WithTimeout(e.cfg.API.Timeout),
			client.WithLogger(e.logger),
		)
	}
	return e.api
}

// openStore returns the local state store, opening it on first use
func (e *env) openStore() (store.Store, error) {
	if e.store == nil {
		s, err := store.NewSQLiteStore(e.cfg.Database.Path)
		if err != nil {
			return nil, fmt.Errorf("opening state database: %w", err)
		}
		e.store, e.opened = s, s
	}
	return e.store, nil
}

func (e *env) close() error {
	if e.opened == nil {
		return nil
	}
	err := e.opened.Close()
	e.store, e.opened = nil, nil
	return err
}
