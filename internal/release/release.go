package release

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/raphi011/relcut/internal/config"
	"github.com/raphi011/relcut/internal/git"
	"github.com/raphi011/relcut/internal/hooks"
	"github.com/raphi011/relcut/internal/log"
	"github.com/raphi011/relcut/internal/version"
)

// VCS is the version control surface a release needs.
// *git.Client implements it.
type VCS interface {
	Clone(ctx context.Context, url, dir string) error
	Checkout(ctx context.Context, dir, branch string) error
	DeleteBranch(ctx context.Context, dir, branch string) error
	Pull(ctx context.Context, dir, remote, ref string) error
	FetchTags(ctx context.Context, dir, remote string) error
	Tags(ctx context.Context, dir string) ([]string, error)
	BranchExists(ctx context.Context, dir, remote, branch string) (bool, error)
	Push(ctx context.Context, dir, remote, branch string) error
	FlowInit(ctx context.Context, dir string, settings git.FlowSettings) error
	FlowReleaseStart(ctx context.Context, dir, version string) error
}

// Prompter asks the operator which version to release.
// An empty answer accepts the suggestion.
type Prompter interface {
	Version(ctx context.Context, project, suggestion string) (string, error)
}

// Recorder stores completed releases.
type Recorder interface {
	Record(ctx context.Context, sel Selection) error
}

// Selection is the outcome of one project release.
type Selection struct {
	Project    string
	Version    string
	Branch     string
	Suggested  string
	Overridden bool
	Dir        string
}

// Options control how versions are chosen and which hooks run.
type Options struct {
	AssumeYes bool              // accept every suggestion without prompting
	Version   string            // use this version instead of prompting
	HookName  string            // run only this hook
	NoHook    bool              // run no hooks
	HookEnv   map[string]string // extra hook placeholders
	DryRun    bool              // report what would happen without changing clones
}

// Orchestrator releases projects one after another.
type Orchestrator struct {
	cfg      *config.Config
	resolver *config.Resolver
	vcs      VCS
	prompter Prompter
	recorder Recorder
	opts     Options
}

// New creates an Orchestrator. recorder may be nil.
func New(cfg *config.Config, vcs VCS, prompter Prompter, recorder Recorder, opts Options) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		resolver: config.NewResolver(cfg),
		vcs:      vcs,
		prompter: prompter,
		recorder: recorder,
		opts:     opts,
	}
}

// Run releases projects in order and stops at the first failure.
// The selections of the projects released before the failure are returned
// along with the error.
func (o *Orchestrator) Run(ctx context.Context, projects []string) ([]Selection, error) {
	var done []Selection
	run := o.Release
	if o.opts.DryRun {
		run = o.Plan
	}
	for _, project := range projects {
		sel, err := run(ctx, project)
		if err != nil {
			return done, err
		}
		done = append(done, sel)
	}
	return done, nil
}

// Release runs every step for a single project.
func (o *Orchestrator) Release(ctx context.Context, project string) (Selection, error) {
	l := log.FromContext(ctx)
	sel := Selection{Project: project, Dir: o.cfg.ProjectDir(project)}
	remote := o.cfg.Remote

	fail := func(step Step, err error) (Selection, error) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return sel, ctxErr
		}
		return sel, &StepError{Project: project, Step: step, Err: err}
	}

	l.Printf("==> %s\n", project)

	if err := o.ensureClone(ctx, project, sel.Dir); err != nil {
		return fail(StepClone, err)
	}

	l.Printf("Syncing %s and %s with %s\n", o.cfg.Branches.Master, o.cfg.Branches.Develop, remote)
	if err := o.syncBranches(ctx, sel.Dir); err != nil {
		return fail(StepSync, err)
	}

	// the pull may have changed the project's .relcut.toml
	o.resolver.Invalidate(sel.Dir)
	projCfg, err := o.resolver.ForProject(sel.Dir)
	if err != nil {
		return fail(StepConfig, err)
	}

	tags, err := o.vcs.Tags(ctx, sel.Dir)
	if err != nil {
		return fail(StepSuggest, err)
	}
	sel.Suggested = version.Suggest(tags)
	l.Debug("suggested version", "project", project, "tags", len(tags), "suggestion", sel.Suggested)

	sel.Version, sel.Overridden, err = o.chooseVersion(ctx, project, sel.Suggested)
	if err != nil {
		return fail(StepPrompt, err)
	}
	sel.Branch = o.cfg.ReleaseBranch(sel.Version)

	exists, err := o.vcs.BranchExists(ctx, sel.Dir, remote, sel.Branch)
	if err != nil {
		return fail(StepVerify, err)
	}
	if exists {
		return fail(StepVerify, &BranchExistsError{Project: project, Branch: sel.Branch})
	}

	l.Printf("Creating %s\n", sel.Branch)
	if err := o.vcs.FlowReleaseStart(ctx, sel.Dir, sel.Version); err != nil {
		return fail(StepCreate, err)
	}

	ran, err := hooks.RunVersionScript(ctx, sel.Dir, projCfg.Version.Script, sel.Version)
	if err != nil {
		return fail(StepVersionScript, err)
	}
	if ran {
		l.Printf("Ran %s %s\n", projCfg.Version.Script, sel.Version)
	}

	if err := o.pushRelease(ctx, sel); err != nil {
		return fail(StepPush, err)
	}

	l.Printf("Merging %s into %s\n", sel.Branch, o.cfg.Branches.Develop)
	if err := o.mergeIntoDevelop(ctx, sel); err != nil {
		return fail(StepMerge, err)
	}

	if err := o.vcs.Checkout(ctx, sel.Dir, sel.Branch); err != nil {
		return fail(StepCheckout, err)
	}

	if err := o.runHooks(ctx, projCfg, sel); err != nil {
		return fail(StepHooks, err)
	}

	if o.recorder != nil {
		if err := o.recorder.Record(ctx, sel); err != nil {
			return fail(StepRecord, err)
		}
	}

	l.Printf("Released %s %s\n", project, sel.Version)
	return sel, nil
}

// Plan reports what Release would do for project using the clone as it is.
// Nothing is cloned, synced, created or pushed, hooks are only printed and
// nothing is recorded. A missing clone yields a Selection without a version.
func (o *Orchestrator) Plan(ctx context.Context, project string) (Selection, error) {
	l := log.FromContext(ctx)
	sel := Selection{Project: project, Dir: o.cfg.ProjectDir(project)}

	fail := func(step Step, err error) (Selection, error) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return sel, ctxErr
		}
		return sel, &StepError{Project: project, Step: step, Err: err}
	}

	if _, err := os.Stat(sel.Dir); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fail(StepClone, err)
		}
		l.Printf("[dry-run] %s: would clone %s into %s\n", project, o.cfg.ProjectURL(project), sel.Dir)
		return sel, nil
	}

	projCfg, err := o.resolver.ForProject(sel.Dir)
	if err != nil {
		return fail(StepConfig, err)
	}

	suggestion, err := o.Suggest(ctx, project, false)
	if err != nil {
		return fail(StepSuggest, err)
	}
	sel.Suggested = suggestion
	sel.Version = suggestion
	if o.opts.Version != "" {
		sel.Version = o.opts.Version
		sel.Overridden = sel.Version != suggestion
	}
	sel.Branch = o.cfg.ReleaseBranch(sel.Version)

	exists, err := o.vcs.BranchExists(ctx, sel.Dir, o.cfg.Remote, sel.Branch)
	if err != nil {
		return fail(StepVerify, err)
	}
	if exists {
		return fail(StepVerify, &BranchExistsError{Project: project, Branch: sel.Branch})
	}

	l.Printf("[dry-run] %s: would create %s\n", project, sel.Branch)
	if err := o.runHooks(ctx, projCfg, sel); err != nil {
		return fail(StepHooks, err)
	}
	return sel, nil
}

// Suggest refreshes tags for a cloned project and returns the suggested
// next version. fetch controls whether tags are fetched from the remote first.
func (o *Orchestrator) Suggest(ctx context.Context, project string, fetch bool) (string, error) {
	dir := o.cfg.ProjectDir(project)
	if fetch {
		if err := o.vcs.FetchTags(ctx, dir, o.cfg.Remote); err != nil {
			return "", err
		}
	}
	tags, err := o.vcs.Tags(ctx, dir)
	if err != nil {
		return "", err
	}
	return version.Suggest(tags), nil
}

func (o *Orchestrator) ensureClone(ctx context.Context, project, dir string) error {
	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("%s exists but is not a directory", dir)
		}
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if o.cfg.RemoteURL == "" {
		return fmt.Errorf("no clone at %s and remote_url is not configured", dir)
	}
	url := o.cfg.ProjectURL(project)
	log.FromContext(ctx).Printf("Cloning %s\n", url)
	return o.vcs.Clone(ctx, url, dir)
}

// syncBranches recreates master and develop from the remote, pulls the
// latest master into develop and reinitializes git-flow.
func (o *Orchestrator) syncBranches(ctx context.Context, dir string) error {
	master, develop, remote := o.cfg.Branches.Master, o.cfg.Branches.Develop, o.cfg.Remote

	steps := []func() error{
		func() error { return o.vcs.Checkout(ctx, dir, master) },
		func() error { return o.vcs.Checkout(ctx, dir, develop) },
		func() error { return o.vcs.DeleteBranch(ctx, dir, master) },
		func() error { return o.vcs.Checkout(ctx, dir, master) },
		func() error { return o.vcs.DeleteBranch(ctx, dir, develop) },
		func() error { return o.vcs.Checkout(ctx, dir, develop) },
		func() error { return o.vcs.Pull(ctx, dir, remote, "") },
		func() error { return o.vcs.FetchTags(ctx, dir, remote) },
		func() error { return o.vcs.Checkout(ctx, dir, develop) },
		func() error { return o.vcs.Pull(ctx, dir, remote, master) },
		func() error { return o.vcs.FlowInit(ctx, dir, o.flowSettings()) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func (o *Orchestrator) flowSettings() git.FlowSettings {
	return git.FlowSettings{
		Master:     o.cfg.Branches.Master,
		Develop:    o.cfg.Branches.Develop,
		Feature:    o.cfg.Flow.Feature,
		Release:    o.cfg.Flow.Release,
		Hotfix:     o.cfg.Flow.Hotfix,
		Support:    o.cfg.Flow.Support,
		VersionTag: o.cfg.Flow.VersionTag,
	}
}

// chooseVersion resolves the release version from --version, --yes or the
// prompt. Returns the version and whether it differs from the suggestion.
func (o *Orchestrator) chooseVersion(ctx context.Context, project, suggestion string) (string, bool, error) {
	answer := o.opts.Version
	if answer == "" && !o.opts.AssumeYes {
		if o.prompter == nil {
			return "", false, errors.New("no version given and prompting is unavailable")
		}
		var err error
		answer, err = o.prompter.Version(ctx, project, suggestion)
		if err != nil {
			return "", false, err
		}
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return suggestion, false, nil
	}
	if err := version.ValidateOverride(answer); err != nil {
		return "", false, err
	}
	return answer, answer != suggestion, nil
}

func (o *Orchestrator) pushRelease(ctx context.Context, sel Selection) error {
	if err := o.vcs.Checkout(ctx, sel.Dir, sel.Branch); err != nil {
		return err
	}
	return o.vcs.Push(ctx, sel.Dir, o.cfg.Remote, sel.Branch)
}

func (o *Orchestrator) mergeIntoDevelop(ctx context.Context, sel Selection) error {
	develop, remote := o.cfg.Branches.Develop, o.cfg.Remote
	if err := o.vcs.Checkout(ctx, sel.Dir, develop); err != nil {
		return err
	}
	if err := o.vcs.Pull(ctx, sel.Dir, remote, sel.Branch); err != nil {
		return err
	}
	return o.vcs.Push(ctx, sel.Dir, remote, develop)
}

func (o *Orchestrator) runHooks(ctx context.Context, projCfg *config.Config, sel Selection) error {
	matches, err := hooks.SelectHooks(projCfg.Hooks, o.opts.HookName, o.opts.NoHook, hooks.TriggerRelease)
	if err != nil {
		return err
	}
	return hooks.RunAll(ctx, matches, hooks.Context{
		Project: sel.Project,
		Version: sel.Version,
		Branch:  sel.Branch,
		Path:    sel.Dir,
		Trigger: string(hooks.TriggerRelease),
		Env:     o.opts.HookEnv,
		DryRun:  o.opts.DryRun,
	})
}
