// Package config provides stack-pr configuration: per-repository settings in
// .git/.stack_pr_config, per-user settings in the XDG config directory and
// the environment overrides on top of both.
package config
