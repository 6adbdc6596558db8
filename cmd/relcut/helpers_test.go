package main

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/raphi011/relcut/internal/config"
	"github.com/raphi011/relcut/internal/log"
	"github.com/raphi011/relcut/internal/output"
)

// Commands share the package-level cfg, so tests in this package do not run
// in parallel.

type testEnv struct {
	ctx       context.Context
	stdout    *bytes.Buffer
	stderr    *bytes.Buffer
	workspace string
}

// setupEnv installs a config with the given roster and a temp workspace,
// and isolates history and config files from the user's home.
func setupEnv(t *testing.T, projects ...string) *testEnv {
	t.Helper()

	home := t.TempDir()
	t.Setenv("RELCUT_HOME", filepath.Join(home, "data"))
	t.Setenv("RELCUT_CONFIG", filepath.Join(home, "config.toml"))
	t.Setenv("RELCUT_WORKSPACE", "")

	ws, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("resolve workspace: %v", err)
	}

	c := config.Default()
	c.Workspace = ws
	c.Projects = projects
	c.RemoteURL = "git@example.com:team/{project}.git"
	prev := cfg
	cfg = &c
	t.Cleanup(func() { cfg = prev })

	env := &testEnv{
		stdout:    &bytes.Buffer{},
		stderr:    &bytes.Buffer{},
		workspace: ws,
	}
	ctx := log.WithLogger(context.Background(), log.New(env.stderr, false, false))
	env.ctx = output.WithPrinter(ctx, output.New(env.stdout))
	return env
}

// run executes cmd with args in the test context.
func (e *testEnv) run(cmd *cobra.Command, args ...string) error {
	cmd.SetContext(e.ctx)
	cmd.SetArgs(args)
	cmd.SetOut(e.stdout)
	cmd.SetErr(e.stderr)
	return cmd.Execute()
}

// initProject creates a git repository for project in the workspace and
// tags its only commit with each of tags.
func (e *testEnv) initProject(t *testing.T, project string, tags ...string) string {
	t.Helper()

	dir := filepath.Join(e.workspace, project)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	gitRun(t, dir, "init", "-q", "-b", "master")
	gitRun(t, dir, "config", "user.email", "test@test.com")
	gitRun(t, dir, "config", "user.name", "Test User")
	gitRun(t, dir, "config", "commit.gpgsign", "false")
	gitRun(t, dir, "config", "tag.gpgsign", "false")
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("# "+project+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	gitRun(t, dir, "add", "README.md")
	gitRun(t, dir, "commit", "-q", "-m", "Initial commit")
	for _, tag := range tags {
		gitRun(t, dir, "tag", tag)
	}
	return dir
}

func gitRun(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %v failed: %v\n%s", args, err, out)
	}
}
