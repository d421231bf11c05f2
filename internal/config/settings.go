package config

import "os"

// Default values used when nothing else is configured
const (
	DefaultRemote = "origin"
	DefaultTarget = "main"
)

// Settings is the effective configuration of one invocation.
// Flags are applied on top by the CLI.
type Settings struct {
	Remote     string
	Target     string
	Reviewer   string
	KeepBody   bool
	LogToFile  bool
	GitHubHost string
}

// Load resolves settings: environment over repo config over user config over defaults
func Load(repoRoot string) (*Settings, error) {
	settings := &Settings{
		Remote: DefaultRemote,
		Target: DefaultTarget,
	}

	user, err := LoadUserConfig()
	if err != nil {
		return nil, err
	}
	settings.Reviewer = user.Reviewer
	settings.LogToFile = user.LogToFile
	settings.GitHubHost = user.GitHubHost

	repo, err := GetRepoConfig(repoRoot)
	if err != nil {
		return nil, err
	}
	if repo.Remote != nil && *repo.Remote != "" {
		settings.Remote = *repo.Remote
	}
	if repo.Target != nil && *repo.Target != "" {
		settings.Target = *repo.Target
	}
	if repo.Reviewer != nil {
		settings.Reviewer = *repo.Reviewer
	}
	if repo.KeepBody != nil {
		settings.KeepBody = *repo.KeepBody
	}

	if reviewer := os.Getenv("STACK_PR_DEFAULT_REVIEWER"); reviewer != "" {
		settings.Reviewer = reviewer
	}

	return settings, nil
}
