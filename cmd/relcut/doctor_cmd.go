package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/relcut/internal/doctor"
	"github.com/raphi011/relcut/internal/git"
	"github.com/raphi011/relcut/internal/output"
)

func newDoctorCmd() *cobra.Command {
	var fix bool

	cmd := &cobra.Command{
		Use:     "doctor",
		Short:   "Diagnose setup problems",
		GroupID: GroupConfig,
		Args:    cobra.NoArgs,
		Long: `Diagnose problems that would make a release fail.

Checks:
- git and git-flow are installed
- The config file exists and names projects
- The workspace exists, is writable and not locked by another run
- Every project is cloned, has the configured remote, master and develop
  branches and a clean working tree
- Version update scripts are executable`,
		Example: `  relcut doctor          # Check for issues
  relcut doctor --fix    # Clone missing projects`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := ensureWorkspace(); err != nil {
				return err
			}

			report, err := doctor.Run(ctx, cfg, cfg.Projects, doctor.Options{
				Fix:    fix,
				Cloner: git.NewClient(),
			})
			output.FromContext(ctx).Printf("%s", doctor.Format(report))
			if err != nil {
				return err
			}
			if !report.Healthy() {
				return fmt.Errorf("%d issues found", report.Count(doctor.SeverityError))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "Clone missing projects")

	return cmd
}
