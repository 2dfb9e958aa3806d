package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// ConfigFileName is looked up in the directory being processed.
const ConfigFileName = "epubseries.yaml"

// Environment variables read by the CLI.
const (
	EnvBackupDir      = "EPUBSERIES_BACKUP_DIR"
	EnvBackupBase     = "EPUBSERIES_BACKUP_BASE"
	EnvNonInteractive = "EPUBSERIES_NON_INTERACTIVE"
)

type BackupConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	Dir     string `yaml:"dir,omitempty"`
	Base    string `yaml:"base,omitempty"`
	Suffix  string `yaml:"suffix,omitempty"`
}

type ProjectConfig struct {
	// Vocabularies lists the series vocabularies to write: structured, legacy.
	Vocabularies []string     `yaml:"vocabularies,omitempty"`
	Recursive    bool         `yaml:"recursive,omitempty"`
	OnExisting   string       `yaml:"on_existing,omitempty"`
	Backup       BackupConfig `yaml:"backup,omitempty"`
}

// BackupEnabled reports the backup setting, defaulting to true.
func (c *ProjectConfig) BackupEnabled() bool {
	if c == nil || c.Backup.Enabled == nil {
		return true
	}
	return *c.Backup.Enabled
}

// Default returns the configuration written by `epubseries config init`.
func Default() *ProjectConfig {
	enabled := true
	return &ProjectConfig{
		Vocabularies: []string{"structured"},
		OnExisting:   "ask",
		Backup: BackupConfig{
			Enabled: &enabled,
			Suffix:  ".bak",
		},
	}
}

// Load reads ConfigFileName from dir.
func Load(dir string) (*ProjectConfig, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", configPath, err)
	}
	return &cfg, nil
}

// Save writes cfg to dir/ConfigFileName. An existing file is only replaced
// when overwrite is set.
func Save(dir string, cfg *ProjectConfig, overwrite bool) (string, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	if !overwrite {
		if _, err := os.Stat(configPath); err == nil {
			return "", fmt.Errorf("%s already exists", configPath)
		}
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", configPath, err)
	}
	return configPath, nil
}
