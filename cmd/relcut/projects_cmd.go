package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/relcut/internal/log"
	"github.com/raphi011/relcut/internal/output"
)

type projectInfo struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	URL    string `json:"url,omitempty"`
	Cloned bool   `json:"cloned"`
}

func newProjectsCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:     "projects",
		Short:   "List configured projects",
		Aliases: []string{"ls"},
		GroupID: GroupInfo,
		Args:    cobra.NoArgs,
		Example: `  relcut projects         # Table of projects and clone status
  relcut projects --json  # Machine readable`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)
			if err := ensureWorkspace(); err != nil {
				return err
			}

			infos := make([]projectInfo, 0, len(cfg.Projects))
			for _, p := range cfg.Projects {
				info := projectInfo{Name: p, Path: cfg.ProjectDir(p), Cloned: cloned(p)}
				if cfg.RemoteURL != "" {
					info.URL = cfg.ProjectURL(p)
				}
				infos = append(infos, info)
			}

			if jsonOut {
				return out.JSON(infos)
			}
			if len(infos) == 0 {
				log.FromContext(ctx).Println("No projects configured")
				return nil
			}

			rows := make([][]string, len(infos))
			for i, info := range infos {
				rows[i] = []string{info.Name, cloneStatus(info.Name), info.Path}
			}
			out.Table([]string{"PROJECT", "STATUS", "PATH"}, rows)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")

	return cmd
}
