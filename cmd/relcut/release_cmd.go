package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/raphi011/relcut/internal/git"
	"github.com/raphi011/relcut/internal/history"
	"github.com/raphi011/relcut/internal/hooks"
	"github.com/raphi011/relcut/internal/lock"
	"github.com/raphi011/relcut/internal/log"
	"github.com/raphi011/relcut/internal/output"
	"github.com/raphi011/relcut/internal/release"
	"github.com/raphi011/relcut/internal/resolve"
	"github.com/raphi011/relcut/internal/ui/prompt"
	"github.com/raphi011/relcut/internal/version"
)

type releaseFlags struct {
	yes       bool
	version   string
	hook      string
	noHook    bool
	env       []string
	copy      bool
	workspace string
	dryRun    bool
}

func newReleaseCmd() *cobra.Command {
	var f releaseFlags

	cmd := &cobra.Command{
		Use:     "release [project...]",
		Short:   "Create release branches",
		Aliases: []string{"cut"},
		GroupID: GroupRelease,
		Long: `Create a release branch for every project, in roster order.

Without arguments every configured project is released. Each project is
cloned if missing, master and develop are recreated from the remote, and the
next minor version is suggested from the existing tags. Press enter to accept
the suggestion or type another version.

The run stops at the first project that fails.`,
		Example: `  relcut release                 # Release all projects, prompting for versions
  relcut release api billing     # Release only these projects
  relcut release -y              # Accept every suggested version
  relcut release api -V 2.0.0    # Release api as 2.0.0
  relcut release --no-hook       # Skip configured hooks
  relcut release --dry-run       # Show branches and hooks without changing anything`,
		ValidArgsFunction: completeProjects,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			term := prompt.NewTerminal(os.Stdin, os.Stderr)
			if msg := lineInputNotice(term.Interactive(), f); msg != "" {
				log.FromContext(ctx).Println(msg)
			}
			return runRelease(ctx, args, f, git.NewClient(), term)
		},
	}

	cmd.Flags().BoolVarP(&f.yes, "yes", "y", false, "Accept suggested versions without prompting")
	cmd.Flags().StringVarP(&f.version, "version", "V", "", "Release this version instead of the suggestion (single project only)")
	cmd.Flags().StringVar(&f.hook, "hook", "", "Run only this configured hook")
	cmd.Flags().BoolVar(&f.noHook, "no-hook", false, "Skip configured hooks")
	cmd.Flags().StringSliceVarP(&f.env, "env", "e", nil, "Extra hook placeholder (KEY=VALUE)")
	cmd.Flags().BoolVar(&f.copy, "copy", false, "Copy created branch names to the clipboard")
	cmd.Flags().StringVarP(&f.workspace, "workspace", "w", "", "Directory holding the project clones")
	cmd.Flags().BoolVarP(&f.dryRun, "dry-run", "n", false, "Show the branches and hooks a release would create without changing anything")
	cmd.MarkFlagsMutuallyExclusive("hook", "no-hook")

	cmd.RegisterFlagCompletionFunc("hook", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		var names []string
		for name := range cfg.Hooks.Hooks {
			if strings.HasPrefix(name, toComplete) {
				names = append(names, name)
			}
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// runRelease drives the orchestrator for the selected projects.
func runRelease(ctx context.Context, args []string, f releaseFlags, vcs release.VCS, prompter release.Prompter) error {
	l := log.FromContext(ctx)

	if err := applyWorkspaceFlag(f.workspace); err != nil {
		return err
	}
	if err := ensureWorkspace(); err != nil {
		return err
	}

	projects, err := resolve.Projects(cfg.Projects, args)
	if err != nil {
		return err
	}

	if f.version != "" {
		if len(projects) > 1 {
			return fmt.Errorf("--version applies to a single project, but %d are selected", len(projects))
		}
		if err := version.ValidateOverride(f.version); err != nil {
			return err
		}
	}

	env, err := hooks.ParseEnv(f.env)
	if err != nil {
		return err
	}

	if f.dryRun {
		orch := release.New(cfg, vcs, nil, nil, release.Options{
			Version:  f.version,
			HookName: f.hook,
			NoHook:   f.noHook,
			HookEnv:  env,
			DryRun:   true,
		})
		done, err := orch.Run(ctx, projects)
		printReleaseSummary(ctx, done)
		return err
	}

	lk := lock.ForWorkspace(cfg.Workspace)
	if err := lk.TryLock(); err != nil {
		if errors.Is(err, lock.ErrLocked) {
			return fmt.Errorf("another relcut run is using %s", cfg.Workspace)
		}
		return err
	}
	defer lk.Unlock()

	if err := git.CheckGitFlow(ctx); err != nil {
		return err
	}

	var recorder release.Recorder
	if store, err := history.Open(); err != nil {
		l.Warnf("release history disabled: %v\n", err)
	} else {
		recorder = store
	}

	orch := release.New(cfg, vcs, prompter, recorder, release.Options{
		AssumeYes: f.yes,
		Version:   f.version,
		HookName:  f.hook,
		NoHook:    f.noHook,
		HookEnv:   env,
	})

	done, runErr := orch.Run(ctx, projects)
	printReleaseSummary(ctx, done)

	if f.copy && len(done) > 0 {
		branches := make([]string, len(done))
		for i, sel := range done {
			branches[i] = sel.Branch
		}
		if err := clipboard.WriteAll(strings.Join(branches, "\n")); err != nil {
			l.Warnf("failed to copy to clipboard: %v\n", err)
		}
	}

	return runErr
}

// lineInputNotice explains how versions are read when stdin is not a terminal
// and the run would prompt.
func lineInputNotice(interactive bool, f releaseFlags) string {
	if interactive || f.yes || f.version != "" || f.dryRun {
		return ""
	}
	return "stdin is not a terminal: reading one version per line, an empty line accepts the suggestion"
}

func printReleaseSummary(ctx context.Context, done []release.Selection) {
	if len(done) == 0 {
		return
	}
	rows := make([][]string, len(done))
	for i, sel := range done {
		if sel.Version == "" {
			rows[i] = []string{sel.Project, "-", "-", "not cloned"}
			continue
		}
		suggested := sel.Suggested
		if sel.Overridden {
			suggested += " (overridden)"
		}
		rows[i] = []string{sel.Project, sel.Version, sel.Branch, suggested}
	}
	output.FromContext(ctx).Table([]string{"PROJECT", "VERSION", "BRANCH", "SUGGESTED"}, rows)
}
