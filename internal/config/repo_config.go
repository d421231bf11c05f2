package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

const repoConfigFile = ".stack_pr_config"

// RepoConfig represents the repository configuration
type RepoConfig struct {
	Remote   *string `json:"remote,omitempty"`
	Target   *string `json:"target,omitempty"`
	Reviewer *string `json:"reviewer,omitempty"`
	KeepBody *bool   `json:"keepBody,omitempty"`
}

func repoConfigPath(repoRoot string) string {
	return filepath.Join(repoRoot, ".git", repoConfigFile)
}

// GetRepoConfig reads the repository configuration
func GetRepoConfig(repoRoot string) (*RepoConfig, error) {
	data, err := os.ReadFile(repoConfigPath(repoRoot))
	if errors.Is(err, os.ErrNotExist) {
		// Config doesn't exist - return default
		return &RepoConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read repo config: %w", err)
	}

	var config RepoConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse repo config: %w", err)
	}

	return &config, nil
}

// SaveRepoConfig writes the repository configuration
func SaveRepoConfig(repoRoot string, config *RepoConfig) error {
	configJSON, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(repoConfigPath(repoRoot), configJSON, 0600)
}

// RepoConfigKeys lists the keys SetRepoValue accepts
var RepoConfigKeys = []string{"remote", "target", "reviewer", "keepBody"}

// SetRepoValue updates one key of the repository configuration
func SetRepoValue(repoRoot, key, value string) error {
	config, err := GetRepoConfig(repoRoot)
	if err != nil {
		return err
	}

	switch key {
	case "remote":
		config.Remote = &value
	case "target":
		config.Target = &value
	case "reviewer":
		config.Reviewer = &value
	case "keepBody":
		keepBody, err := parseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for keepBody: %w", err)
		}
		config.KeepBody = &keepBody
	default:
		return fmt.Errorf("unknown config key %q (valid keys: %v)", key, RepoConfigKeys)
	}

	return SaveRepoConfig(repoRoot, config)
}

// GetRepoValue returns one key of the repository configuration; ok is false
// when the key is unset
func GetRepoValue(repoRoot, key string) (value string, ok bool, err error) {
	config, err := GetRepoConfig(repoRoot)
	if err != nil {
		return "", false, err
	}

	var p *string
	switch key {
	case "remote":
		p = config.Remote
	case "target":
		p = config.Target
	case "reviewer":
		p = config.Reviewer
	case "keepBody":
		if config.KeepBody == nil {
			return "", false, nil
		}
		return strconv.FormatBool(*config.KeepBody), true, nil
	default:
		return "", false, fmt.Errorf("unknown config key %q (valid keys: %v)", key, RepoConfigKeys)
	}
	if p == nil {
		return "", false, nil
	}
	return *p, true, nil
}

func parseBool(value string) (bool, error) {
	switch value {
	case "true", "1", "yes":
		return true, nil
	case "false", "0", "no":
		return false, nil
	}
	return false, fmt.Errorf("%q is not a boolean", value)
}
