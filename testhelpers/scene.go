package testhelpers

import (
	"path/filepath"
	"testing"
)

// Scene represents a test scene: a working repository with a bare origin
// remote whose main branch holds one initial commit.
type Scene struct {
	Dir       string
	Repo      *GitRepo
	RemoteDir string
}

// SceneSetup is a function type for setting up a scene.
type SceneSetup func(*Scene) error

// NewScene creates a new test scene in a temporary directory.
func NewScene(t *testing.T, setup SceneSetup) *Scene {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "repo")

	repo, err := NewGitRepo(dir)
	if err != nil {
		t.Fatalf("Failed to create Git repo: %v", err)
	}
	if err := repo.CreateChangeAndCommit("initial", "initial"); err != nil {
		t.Fatalf("Failed to create initial commit: %v", err)
	}
	remoteDir, err := repo.CreateBareRemote("origin")
	if err != nil {
		t.Fatalf("Failed to create remote: %v", err)
	}
	if err := repo.PushBranch("origin", "main"); err != nil {
		t.Fatalf("Failed to push main: %v", err)
	}

	scene := &Scene{
		Dir:       dir,
		Repo:      repo,
		RemoteDir: remoteDir,
	}

	if setup != nil {
		if err := setup(scene); err != nil {
			t.Fatalf("Setup failed: %v", err)
		}
	}

	return scene
}

// StackSceneSetup returns a setup that creates a feature branch with one
// commit per title on top of main.
func StackSceneSetup(titles ...string) SceneSetup {
	return func(scene *Scene) error {
		if err := scene.Repo.CreateAndCheckoutBranch("feature"); err != nil {
			return err
		}
		for _, title := range titles {
			if err := scene.Repo.CreateChangeAndCommit(title, title); err != nil {
				return err
			}
		}
		return nil
	}
}
