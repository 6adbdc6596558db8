package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/raphi011/relcut/internal/git"
	"github.com/raphi011/relcut/internal/output"
	"github.com/raphi011/relcut/internal/release"
	"github.com/raphi011/relcut/internal/resolve"
	"github.com/raphi011/relcut/internal/version"
)

// nextInfo is the JSON shape of "relcut next --json".
type nextInfo struct {
	Project string `json:"project"`
	Cloned  bool   `json:"cloned"`
	Latest  string `json:"latest,omitempty"`
	Next    string `json:"next,omitempty"`
}

func newNextCmd() *cobra.Command {
	var (
		fetch     bool
		jsonOut   bool
		workspace string
	)

	cmd := &cobra.Command{
		Use:     "next [project...]",
		Short:   "Show the next suggested version",
		GroupID: GroupRelease,
		Long: `Show the latest tag and the version "relcut release" would suggest.

Only cloned projects are inspected; nothing is changed in the clones except
fetched tags when --fetch is given.`,
		Example: `  relcut next            # Suggestions for all projects
  relcut next --fetch    # Fetch tags from the remote first
  relcut next api --json # Machine readable`,
		ValidArgsFunction: completeProjects,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := applyWorkspaceFlag(workspace); err != nil {
				return err
			}
			if err := ensureWorkspace(); err != nil {
				return err
			}
			projects, err := resolve.Projects(cfg.Projects, args)
			if err != nil {
				return err
			}

			infos, err := collectNext(ctx, projects, fetch)
			if err != nil {
				return err
			}

			out := output.FromContext(ctx)
			if jsonOut {
				return out.JSON(infos)
			}
			rows := make([][]string, len(infos))
			for i, info := range infos {
				latest, next := info.Latest, info.Next
				if !info.Cloned {
					latest, next = "-", "not cloned"
				} else if latest == "" {
					latest = "-"
				}
				rows[i] = []string{info.Project, latest, next}
			}
			out.Table([]string{"PROJECT", "LATEST", "NEXT"}, rows)
			return nil
		},
	}

	cmd.Flags().BoolVar(&fetch, "fetch", false, "Fetch tags from the remote first")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	cmd.Flags().StringVarP(&workspace, "workspace", "w", "", "Directory holding the project clones")

	return cmd
}

func collectNext(ctx context.Context, projects []string, fetch bool) ([]nextInfo, error) {
	orch := release.New(cfg, git.NewClient(), nil, nil, release.Options{})

	infos := make([]nextInfo, 0, len(projects))
	for _, p := range projects {
		info := nextInfo{Project: p, Cloned: cloned(p)}
		if info.Cloned {
			next, err := orch.Suggest(ctx, p, fetch)
			if err != nil {
				return nil, err
			}
			info.Next = next

			tags, err := git.Tags(ctx, cfg.ProjectDir(p))
			if err != nil {
				return nil, err
			}
			if latest, ok := version.Latest(tags); ok && !latest.Default {
				info.Latest = latest.String()
			}
		}
		infos = append(infos, info)
	}
	return infos, nil
}
