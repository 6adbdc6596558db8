package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/raphi011/relcut/internal/history"
	"github.com/raphi011/relcut/internal/log"
	"github.com/raphi011/relcut/internal/output"
)

func newHistoryCmd() *cobra.Command {
	var (
		jsonOut bool
		limit   int
	)

	cmd := &cobra.Command{
		Use:     "history",
		Short:   "Show created release branches",
		GroupID: GroupInfo,
		Args:    cobra.NoArgs,
		Example: `  relcut history          # Most recent releases first
  relcut history -n 5     # Only the last five
  relcut history --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if limit < 0 {
				return fmt.Errorf("--limit must not be negative")
			}

			store, err := history.Open()
			if err != nil {
				return err
			}
			entries, err := store.Recent(ctx, limit)
			if err != nil {
				return err
			}

			out := output.FromContext(ctx)
			if jsonOut {
				return out.JSON(entries)
			}
			if len(entries) == 0 {
				log.FromContext(ctx).Println("No releases recorded")
				return nil
			}

			rows := make([][]string, len(entries))
			for i, e := range entries {
				version := e.Version
				if e.Overridden {
					version += " *"
				}
				rows[i] = []string{e.CreatedAt.Local().Format(time.DateTime), e.Project, version, e.Branch}
			}
			out.Table([]string{"CREATED", "PROJECT", "VERSION", "BRANCH"}, rows)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries to show (0 for all)")

	return cmd
}
