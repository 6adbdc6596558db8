package hooks

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/raphi011/relcut/internal/cmd"
)

// ScriptError reports a version script that exited unsuccessfully.
type ScriptError struct {
	Script  string
	Version string
	Err     error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("version script %s %s failed: %v", e.Script, e.Version, e.Err)
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}

// ScriptPresent reports whether script (relative to dir) exists as a regular file.
func ScriptPresent(dir, script string) (bool, error) {
	if script == "" {
		return false, nil
	}
	info, err := os.Stat(filepath.Join(dir, script))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat version script: %w", err)
	}
	return info.Mode().IsRegular(), nil
}

// RunVersionScript runs script from dir with version as its only argument.
// A missing script is not an error; ran reports whether it was executed.
func RunVersionScript(ctx context.Context, dir, script, version string) (ran bool, err error) {
	present, err := ScriptPresent(dir, script)
	if err != nil || !present {
		return false, err
	}

	if err := cmd.RunContext(ctx, dir, filepath.Join(dir, script), version); err != nil {
		if ctx.Err() != nil {
			return true, ctx.Err()
		}
		return true, &ScriptError{Script: script, Version: version, Err: err}
	}
	return true, nil
}
