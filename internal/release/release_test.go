package release

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/raphi011/relcut/internal/config"
	"github.com/raphi011/relcut/internal/git"
	"github.com/raphi011/relcut/internal/hooks"
	"github.com/raphi011/relcut/internal/log"
	"github.com/raphi011/relcut/internal/version"
)

// fakeVCS records every call as a short command line and fails the
// call matching failOn.
type fakeVCS struct {
	calls    []string
	tags     map[string][]string // dir -> tags
	branches map[string]bool     // "dir branch" -> exists
	failOn   string
	flow     git.FlowSettings
	cancel   context.CancelFunc // called when failOn matches, if set
}

func newFakeVCS() *fakeVCS {
	return &fakeVCS{tags: map[string][]string{}, branches: map[string]bool{}}
}

func (f *fakeVCS) record(dir, call string) error {
	f.calls = append(f.calls, filepath.Base(dir)+": "+call)
	if f.failOn != "" && call == f.failOn {
		if f.cancel != nil {
			f.cancel()
		}
		return fmt.Errorf("fake failure: %s", call)
	}
	return nil
}

func (f *fakeVCS) Clone(_ context.Context, url, dir string) error {
	if err := f.record(dir, "clone "+url); err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

func (f *fakeVCS) Checkout(_ context.Context, dir, branch string) error {
	return f.record(dir, "checkout "+branch)
}

func (f *fakeVCS) DeleteBranch(_ context.Context, dir, branch string) error {
	return f.record(dir, "branch -d "+branch)
}

func (f *fakeVCS) Pull(_ context.Context, dir, remote, ref string) error {
	return f.record(dir, strings.TrimSpace("pull "+remote+" "+ref))
}

func (f *fakeVCS) FetchTags(_ context.Context, dir, remote string) error {
	return f.record(dir, "fetch "+remote+" --tags")
}

func (f *fakeVCS) Tags(_ context.Context, dir string) ([]string, error) {
	if err := f.record(dir, "tag"); err != nil {
		return nil, err
	}
	return f.tags[filepath.Base(dir)], nil
}

func (f *fakeVCS) BranchExists(_ context.Context, dir, remote, branch string) (bool, error) {
	if err := f.record(dir, "branch -a"); err != nil {
		return false, err
	}
	return f.branches[filepath.Base(dir)+" "+branch], nil
}

func (f *fakeVCS) Push(_ context.Context, dir, remote, branch string) error {
	return f.record(dir, "push "+remote+" "+branch)
}

func (f *fakeVCS) FlowInit(_ context.Context, dir string, settings git.FlowSettings) error {
	f.flow = settings
	return f.record(dir, "flow init -f")
}

func (f *fakeVCS) FlowReleaseStart(_ context.Context, dir, version string) error {
	return f.record(dir, "flow release start "+version)
}

type fakePrompter struct {
	answers []string
	asked   []string // "project suggestion"
	err     error
}

func (p *fakePrompter) Version(_ context.Context, project, suggestion string) (string, error) {
	p.asked = append(p.asked, project+" "+suggestion)
	if p.err != nil {
		return "", p.err
	}
	if len(p.answers) == 0 {
		return "", nil
	}
	a := p.answers[0]
	p.answers = p.answers[1:]
	return a, nil
}

type fakeRecorder struct {
	recorded []Selection
}

func (r *fakeRecorder) Record(_ context.Context, sel Selection) error {
	r.recorded = append(r.recorded, sel)
	return nil
}

// testConfig returns a default config with a temp workspace in which the
// given projects are already cloned.
func testConfig(t *testing.T, cloned ...string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Workspace = t.TempDir()
	cfg.RemoteURL = "git@example.com:acme/{project}.git"
	for _, p := range cloned {
		if err := os.MkdirAll(filepath.Join(cfg.Workspace, p), 0o755); err != nil {
			t.Fatal(err)
		}
		cfg.Projects = append(cfg.Projects, p)
	}
	return &cfg
}

func syncCalls(p string) []string {
	return []string{
		p + ": checkout master",
		p + ": checkout develop",
		p + ": branch -d master",
		p + ": checkout master",
		p + ": branch -d develop",
		p + ": checkout develop",
		p + ": pull origin",
		p + ": fetch origin --tags",
		p + ": checkout develop",
		p + ": pull origin master",
		p + ": flow init -f",
	}
}

func releaseCalls(p, v string) []string {
	b := "release-" + v
	calls := syncCalls(p)
	return append(calls,
		p+": tag",
		p+": branch -a",
		p+": flow release start "+v,
		p+": checkout "+b,
		p+": push origin "+b,
		p+": checkout develop",
		p+": pull origin "+b,
		p+": push origin develop",
		p+": checkout "+b,
	)
}

func TestRelease_StepOrder(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t, "billing")
	vcs := newFakeVCS()
	vcs.tags["billing"] = []string{"v1.2.0", "v1.3.5", "v1.1.9"}
	prompter := &fakePrompter{}
	recorder := &fakeRecorder{}

	sel, err := New(cfg, vcs, prompter, recorder, Options{}).Release(context.Background(), "billing")
	if err != nil {
		t.Fatalf("Release() error = %v", err)
	}

	if want := releaseCalls("billing", "1.4.0"); !slices.Equal(vcs.calls, want) {
		t.Errorf("calls =\n%s\nwant\n%s", strings.Join(vcs.calls, "\n"), strings.Join(want, "\n"))
	}
	want := Selection{
		Project:   "billing",
		Version:   "1.4.0",
		Branch:    "release-1.4.0",
		Suggested: "1.4.0",
		Dir:       filepath.Join(cfg.Workspace, "billing"),
	}
	if sel != want {
		t.Errorf("Release() = %+v, want %+v", sel, want)
	}
	if !slices.Equal(prompter.asked, []string{"billing 1.4.0"}) {
		t.Errorf("prompter asked %v", prompter.asked)
	}
	if len(recorder.recorded) != 1 || recorder.recorded[0] != want {
		t.Errorf("recorded %+v", recorder.recorded)
	}
	wantFlow := git.FlowSettings{
		Master: "master", Develop: "develop", Feature: "f-", Release: "release-",
		Hotfix: "hotfix-", Support: "support-", VersionTag: "v",
	}
	if vcs.flow != wantFlow {
		t.Errorf("flow settings = %+v, want %+v", vcs.flow, wantFlow)
	}
}

func TestRelease_ClonesMissingProject(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t)
	vcs := newFakeVCS()

	if _, err := New(cfg, vcs, nil, nil, Options{AssumeYes: true}).Release(context.Background(), "billing"); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if vcs.calls[0] != "billing: clone git@example.com:acme/billing.git" {
		t.Errorf("first call = %q, want clone", vcs.calls[0])
	}
	if want := releaseCalls("billing", "1.0.0"); !slices.Equal(vcs.calls[1:], want) {
		t.Errorf("calls after clone =\n%s", strings.Join(vcs.calls[1:], "\n"))
	}
}

func TestRelease_MissingCloneWithoutRemoteURL(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t)
	cfg.RemoteURL = ""
	vcs := newFakeVCS()

	_, err := New(cfg, vcs, nil, nil, Options{AssumeYes: true}).Release(context.Background(), "billing")
	var stepErr *StepError
	if !errors.As(err, &stepErr) || stepErr.Step != StepClone {
		t.Fatalf("error = %v, want clone StepError", err)
	}
	if len(vcs.calls) != 0 {
		t.Errorf("unexpected calls %v", vcs.calls)
	}
}

func TestRelease_ChooseVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		opts           Options
		answer         string
		wantVersion    string
		wantOverridden bool
		wantPrompt     bool
		wantErr        error
	}{
		{name: "empty answer accepts", answer: "", wantVersion: "2.1.0", wantPrompt: true},
		{name: "whitespace accepts", answer: "  \t", wantVersion: "2.1.0", wantPrompt: true},
		{name: "override", answer: " 3.0.0 ", wantVersion: "3.0.0", wantOverridden: true, wantPrompt: true},
		{name: "override equal to suggestion", answer: "2.1.0", wantVersion: "2.1.0", wantPrompt: true},
		{name: "invalid override", answer: "next", wantPrompt: true, wantErr: version.ErrInvalidOverride},
		{name: "v prefix rejected", answer: "v3.0.0", wantPrompt: true, wantErr: version.ErrInvalidOverride},
		{name: "assume yes", opts: Options{AssumeYes: true}, wantVersion: "2.1.0"},
		{name: "version flag", opts: Options{Version: "2.5.0"}, wantVersion: "2.5.0", wantOverridden: true},
		{name: "version flag wins over yes", opts: Options{Version: "2.5.0", AssumeYes: true}, wantVersion: "2.5.0", wantOverridden: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := testConfig(t, "api")
			vcs := newFakeVCS()
			vcs.tags["api"] = []string{"2.0.0", "2.0.0"}
			prompter := &fakePrompter{answers: []string{tt.answer}}

			sel, err := New(cfg, vcs, prompter, nil, tt.opts).Release(context.Background(), "api")
			if (len(prompter.asked) > 0) != tt.wantPrompt {
				t.Errorf("prompted = %v, want %v", prompter.asked, tt.wantPrompt)
			}
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				if slices.ContainsFunc(vcs.calls, func(c string) bool { return strings.Contains(c, "flow release start") }) {
					t.Error("release branch created after rejected version")
				}
				return
			}
			if err != nil {
				t.Fatalf("Release() error = %v", err)
			}
			if sel.Version != tt.wantVersion || sel.Overridden != tt.wantOverridden {
				t.Errorf("Version = %q overridden = %v, want %q %v", sel.Version, sel.Overridden, tt.wantVersion, tt.wantOverridden)
			}
			if sel.Branch != "release-"+tt.wantVersion {
				t.Errorf("Branch = %q", sel.Branch)
			}
		})
	}
}

func TestRelease_BranchExists(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t, "billing")
	vcs := newFakeVCS()
	vcs.tags["billing"] = []string{"v1.3.5"}
	vcs.branches["billing release-1.4.0"] = true

	_, err := New(cfg, vcs, nil, nil, Options{AssumeYes: true}).Release(context.Background(), "billing")
	var exists *BranchExistsError
	if !errors.As(err, &exists) {
		t.Fatalf("error = %v, want *BranchExistsError", err)
	}
	if exists.Branch != "release-1.4.0" {
		t.Errorf("Branch = %q", exists.Branch)
	}
	var stepErr *StepError
	if !errors.As(err, &stepErr) || stepErr.Step != StepVerify || stepErr.Project != "billing" {
		t.Errorf("StepError = %+v", stepErr)
	}
	if last := vcs.calls[len(vcs.calls)-1]; last != "billing: branch -a" {
		t.Errorf("last call = %q, want branch -a", last)
	}
}

func TestRelease_AbortsOnFailure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		failOn   string
		wantStep Step
	}{
		{"checkout master", StepSync},
		{"branch -d develop", StepSync},
		{"flow init -f", StepSync},
		{"tag", StepSuggest},
		{"flow release start 1.0.0", StepCreate},
		{"push origin release-1.0.0", StepPush},
		{"pull origin release-1.0.0", StepMerge},
		{"push origin develop", StepMerge},
	}

	for _, tt := range tests {
		t.Run(tt.failOn, func(t *testing.T) {
			t.Parallel()
			cfg := testConfig(t, "billing")
			vcs := newFakeVCS()
			vcs.failOn = tt.failOn
			recorder := &fakeRecorder{}

			_, err := New(cfg, vcs, nil, recorder, Options{AssumeYes: true}).Release(context.Background(), "billing")
			var stepErr *StepError
			if !errors.As(err, &stepErr) {
				t.Fatalf("error = %v, want *StepError", err)
			}
			if stepErr.Step != tt.wantStep {
				t.Errorf("Step = %q, want %q", stepErr.Step, tt.wantStep)
			}
			if last := vcs.calls[len(vcs.calls)-1]; last != "billing: "+tt.failOn {
				t.Errorf("calls continued after failure: last = %q", last)
			}
			if len(recorder.recorded) != 0 {
				t.Error("failed release was recorded")
			}
		})
	}
}

func TestRun_StopsAtFirstFailure(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t, "a", "b", "c")
	vcs := newFakeVCS()
	vcs.branches["b release-1.0.0"] = true

	done, err := New(cfg, vcs, nil, nil, Options{AssumeYes: true}).Run(context.Background(), cfg.Projects)
	if err == nil {
		t.Fatal("Run() = nil error, want failure at b")
	}
	if len(done) != 1 || done[0].Project != "a" {
		t.Errorf("done = %+v, want only a", done)
	}
	for _, c := range vcs.calls {
		if strings.HasPrefix(c, "c: ") {
			t.Fatalf("project c touched after b failed: %q", c)
		}
	}
}

func TestRun_Order(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t, "zeta", "alpha")
	vcs := newFakeVCS()
	vcs.tags["alpha"] = []string{"0.9.3"}

	done, err := New(cfg, vcs, nil, nil, Options{AssumeYes: true}).Run(context.Background(), cfg.Projects)
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, s := range done {
		got = append(got, s.Project+"@"+s.Version)
	}
	if want := []string{"zeta@1.0.0", "alpha@0.10.0"}; !slices.Equal(got, want) {
		t.Errorf("Run() = %v, want %v", got, want)
	}
	if want := append(releaseCalls("zeta", "1.0.0"), releaseCalls("alpha", "0.10.0")...); !slices.Equal(vcs.calls, want) {
		t.Errorf("calls out of order:\n%s", strings.Join(vcs.calls, "\n"))
	}
}

func TestRelease_VersionScript(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t, "billing")
	dir := filepath.Join(cfg.Workspace, "billing")
	script := "#!/bin/sh\necho \"$1\" > VERSION\n"
	if err := os.WriteFile(filepath.Join(dir, "update_version.sh"), []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}

	if _, err := New(cfg, newFakeVCS(), nil, nil, Options{Version: "4.2.0"}).Release(context.Background(), "billing"); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "VERSION"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(data)) != "4.2.0" {
		t.Errorf("VERSION = %q, want 4.2.0", data)
	}
}

func TestRelease_VersionScriptFailure(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t, "billing")
	dir := filepath.Join(cfg.Workspace, "billing")
	if err := os.WriteFile(filepath.Join(dir, "update_version.sh"), []byte("#!/bin/sh\nexit 1\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	vcs := newFakeVCS()

	_, err := New(cfg, vcs, nil, nil, Options{AssumeYes: true}).Release(context.Background(), "billing")
	var scriptErr *hooks.ScriptError
	if !errors.As(err, &scriptErr) {
		t.Fatalf("error = %v, want *hooks.ScriptError", err)
	}
	if last := vcs.calls[len(vcs.calls)-1]; last != "billing: flow release start 1.0.0" {
		t.Errorf("last call = %q, want flow release start", last)
	}
}

func TestRelease_LocalConfigOverridesScript(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t, "billing")
	dir := filepath.Join(cfg.Workspace, "billing")
	local := "[version]\nscript = \"bump.sh\"\n"
	if err := os.WriteFile(filepath.Join(dir, config.LocalConfigFileName), []byte(local), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bump.sh"), []byte("#!/bin/sh\ntouch bumped\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	if _, err := New(cfg, newFakeVCS(), nil, nil, Options{AssumeYes: true}).Release(context.Background(), "billing"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "bumped")); err != nil {
		t.Errorf("local version script did not run: %v", err)
	}
}

func TestRelease_Hooks(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t, "billing")
	cfg.Hooks.Hooks = map[string]config.Hook{
		"mark":   {Command: "echo {project} {branch} > released.txt", On: []string{"release"}},
		"manual": {Command: "touch manual"},
	}
	dir := filepath.Join(cfg.Workspace, "billing")

	if _, err := New(cfg, newFakeVCS(), nil, nil, Options{AssumeYes: true}).Release(context.Background(), "billing"); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "released.txt"))
	if err != nil {
		t.Fatalf("release hook did not run: %v", err)
	}
	if strings.TrimSpace(string(data)) != "billing release-1.0.0" {
		t.Errorf("released.txt = %q", data)
	}
	if _, err := os.Stat(filepath.Join(dir, "manual")); err == nil {
		t.Error("hook without on ran automatically")
	}
}

func TestRelease_HookFailureIsFatal(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t, "billing")
	cfg.Hooks.Hooks = map[string]config.Hook{"fail": {Command: "exit 1", On: []string{"all"}}}
	recorder := &fakeRecorder{}

	_, err := New(cfg, newFakeVCS(), nil, recorder, Options{AssumeYes: true}).Release(context.Background(), "billing")
	var stepErr *StepError
	if !errors.As(err, &stepErr) || stepErr.Step != StepHooks {
		t.Fatalf("error = %v, want hooks StepError", err)
	}
	if len(recorder.recorded) != 0 {
		t.Error("release recorded despite hook failure")
	}
}

func TestRelease_PromptCancelled(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t, "billing")
	cancelled := errors.New("cancelled")
	vcs := newFakeVCS()

	_, err := New(cfg, vcs, &fakePrompter{err: cancelled}, nil, Options{}).Release(context.Background(), "billing")
	if !errors.Is(err, cancelled) {
		t.Fatalf("error = %v, want cancellation", err)
	}
	if last := vcs.calls[len(vcs.calls)-1]; last != "billing: tag" {
		t.Errorf("last call = %q, want tag", last)
	}
}

func TestRelease_ContextCanceled(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t, "billing")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	vcs := newFakeVCS()
	vcs.failOn = "fetch origin --tags"
	vcs.cancel = cancel

	_, err := New(cfg, vcs, nil, nil, Options{AssumeYes: true}).Release(ctx, "billing")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	var stepErr *StepError
	if errors.As(err, &stepErr) {
		t.Error("cancellation should not be wrapped in a StepError")
	}
}

func TestSuggest(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t, "billing")
	vcs := newFakeVCS()
	vcs.tags["billing"] = []string{"nightly", "v2.3.1"}
	o := New(cfg, vcs, nil, nil, Options{})

	got, err := o.Suggest(context.Background(), "billing", false)
	if err != nil || got != "2.4.0" {
		t.Errorf("Suggest() = %q, %v; want 2.4.0", got, err)
	}
	if !slices.Equal(vcs.calls, []string{"billing: tag"}) {
		t.Errorf("calls = %v", vcs.calls)
	}

	vcs.calls = nil
	if _, err := o.Suggest(context.Background(), "billing", true); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(vcs.calls, []string{"billing: fetch origin --tags", "billing: tag"}) {
		t.Errorf("calls with fetch = %v", vcs.calls)
	}
}

func TestRun_DryRun(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t, "billing")
	cfg.Projects = append(cfg.Projects, "ledger")
	cfg.Hooks.Hooks = map[string]config.Hook{
		"mark": {Command: "touch {branch}", On: []string{"release"}},
	}
	vcs := newFakeVCS()
	vcs.tags["billing"] = []string{"v1.2.0"}
	prompter := &fakePrompter{}
	recorder := &fakeRecorder{}

	var out strings.Builder
	ctx := log.WithLogger(context.Background(), log.New(&out, false, false))
	done, err := New(cfg, vcs, prompter, recorder, Options{DryRun: true}).Run(ctx, cfg.Projects)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if want := []string{"billing: tag", "billing: branch -a"}; !slices.Equal(vcs.calls, want) {
		t.Errorf("calls = %v, want %v", vcs.calls, want)
	}
	if len(done) != 2 || done[0].Branch != "release-1.3.0" || done[1].Version != "" {
		t.Errorf("Run() = %+v", done)
	}
	if len(prompter.asked) != 0 || len(recorder.recorded) != 0 {
		t.Errorf("dry run prompted %v or recorded %v", prompter.asked, recorder.recorded)
	}
	if _, err := os.Stat(filepath.Join(cfg.Workspace, "ledger")); err == nil {
		t.Error("dry run cloned the missing project")
	}
	if _, err := os.Stat(filepath.Join(cfg.Workspace, "billing", "release-1.3.0")); err == nil {
		t.Error("dry run executed the hook")
	}
	for _, want := range []string{
		"[dry-run] billing: would create release-1.3.0",
		"[dry-run] mark: touch 'release-1.3.0'",
		"[dry-run] ledger: would clone git@example.com:acme/ledger.git",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestPlan_VersionAndExistingBranch(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t, "billing")
	vcs := newFakeVCS()
	vcs.tags["billing"] = []string{"v1.2.0"}
	o := New(cfg, vcs, nil, nil, Options{DryRun: true, Version: "2.0.0"})

	sel, err := o.Plan(context.Background(), "billing")
	if err != nil {
		t.Fatal(err)
	}
	if sel.Version != "2.0.0" || sel.Suggested != "1.3.0" || !sel.Overridden {
		t.Errorf("Plan() = %+v", sel)
	}

	vcs.branches["billing release-2.0.0"] = true
	_, err = o.Plan(context.Background(), "billing")
	var exists *BranchExistsError
	if !errors.As(err, &exists) {
		t.Fatalf("Plan() error = %v, want BranchExistsError", err)
	}
}
