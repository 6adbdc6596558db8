package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/raphi011/relcut/internal/resolve"
)

// completeProjects completes roster entries not already given as arguments.
func completeProjects(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if cfg == nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return resolve.Complete(cfg.Projects, args, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// applyWorkspaceFlag overrides the configured workspace when --workspace is set.
func applyWorkspaceFlag(workspace string) error {
	if workspace == "" {
		return nil
	}
	if err := cfg.SetWorkspace(workspace); err != nil {
		return fmt.Errorf("--workspace: %w", err)
	}
	return nil
}

// ensureWorkspace falls back to the current directory when no workspace is configured.
func ensureWorkspace() error {
	if cfg.Workspace != "" {
		return nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	cfg.Workspace = wd
	return nil
}

// cloned reports whether the project has a local clone directory.
func cloned(project string) bool {
	info, err := os.Stat(cfg.ProjectDir(project))
	return err == nil && info.IsDir()
}

// cloneStatus renders cloned() for tables.
func cloneStatus(project string) string {
	if cloned(project) {
		return "cloned"
	}
	return "missing"
}
