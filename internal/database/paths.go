package database

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

const (
	AppDirName       = ".city-group-router"
	SQLiteDBFileName = "runs.db"
	ConfigFileName   = "config.json"
	CasesDirName     = "cases"
)

// GetAppDir returns ~/.city-group-router, creating it if needed
func GetAppDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	appDir := filepath.Join(homeDir, AppDirName)
	if err := os.MkdirAll(appDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create app directory: %w", err)
	}

	return appDir, nil
}

// GetCasesDir returns ~/.city-group-router/cases, creating it if needed
func GetCasesDir() (string, error) {
	appDir, err := GetAppDir()
	if err != nil {
		return "", err
	}

	casesDir := filepath.Join(appDir, CasesDirName)
	if err := os.MkdirAll(casesDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create cases directory: %w", err)
	}

	return casesDir, nil
}

// GetDefaultDBPath returns the default SQLite database path: ~/.city-group-router/runs.db
func GetDefaultDBPath() (string, error) {
	appDir, err := GetAppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(appDir, SQLiteDBFileName), nil
}

// GetConfigFilePath returns ~/.city-group-router/config.json
func GetConfigFilePath() (string, error) {
	appDir, err := GetAppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(appDir, ConfigFileName), nil
}

// AppConfig stores application configuration
type AppConfig struct {
	DatabasePath string `json:"database_path"`
	// SolverCommand is the default solver the tester runs when none is given.
	SolverCommand []string `json:"solver_command,omitempty"`
	LedgerAddr    string   `json:"ledger_addr,omitempty"`
}

// LoadConfig loads the application config, returning defaults if not found
func LoadConfig() (*AppConfig, error) {
	configPath, err := GetConfigFilePath()
	if err != nil {
		return nil, err
	}
	return loadConfigFrom(configPath)
}

func loadConfigFrom(configPath string) (*AppConfig, error) {
	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		defaultDBPath, err := GetDefaultDBPath()
		if err != nil {
			return nil, err
		}
		return &AppConfig{DatabasePath: defaultDBPath}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config AppConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// If database path is empty, use default
	if config.DatabasePath == "" {
		config.DatabasePath, err = GetDefaultDBPath()
		if err != nil {
			return nil, err
		}
	}

	return &config, nil
}

// SaveConfig saves the application config
func SaveConfig(config *AppConfig) error {
	configPath, err := GetConfigFilePath()
	if err != nil {
		return err
	}
	return saveConfigTo(configPath, config)
}

func saveConfigTo(configPath string, config *AppConfig) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Atomic write
	tmpPath := configPath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	if err := os.Rename(tmpPath, configPath); err != nil {
		return fmt.Errorf("failed to rename config file: %w", err)
	}

	log.Printf("Config saved: database_path=%s", config.DatabasePath)
	return nil
}
