package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// UserConfig holds per-user settings shared by every repository
type UserConfig struct {
	Reviewer   string `yaml:"reviewer,omitempty"`
	LogToFile  bool   `yaml:"log_to_file,omitempty"`
	GitHubHost string `yaml:"github_host,omitempty"`
}

// UserConfigPath returns $XDG_CONFIG_HOME/stack-pr/config.yaml, falling back to ~/.config
func UserConfigPath() (string, error) {
	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		xdg = filepath.Join(home, ".config")
	}
	return filepath.Join(xdg, "stack-pr", "config.yaml"), nil
}

// LoadUserConfig reads the user configuration; a missing file yields defaults
func LoadUserConfig() (*UserConfig, error) {
	path, err := UserConfigPath()
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &UserConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read user config: %w", err)
	}

	var config UserConfig
	if err := yaml.Unmarshal(content, &config); err != nil {
		return nil, fmt.Errorf("failed to parse user config %s: %w", path, err)
	}
	return &config, nil
}

// SaveUserConfig writes the user configuration, creating its directory
func SaveUserConfig(config *UserConfig) error {
	path, err := UserConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	out, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal user config: %w", err)
	}
	return os.WriteFile(path, out, 0600)
}
