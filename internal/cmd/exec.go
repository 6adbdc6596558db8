package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/raphi011/relcut/internal/log"
)

// Error describes an external command that exited unsuccessfully.
type Error struct {
	Dir      string
	Name     string
	Args     []string
	ExitCode int    // -1 when the process could not be started
	Output   string // stderr, or stdout when stderr was empty
	Err      error
}

// CommandLine returns the command as it would be typed in a shell.
func (e *Error) CommandLine() string {
	if len(e.Args) == 0 {
		return e.Name
	}
	return e.Name + " " + strings.Join(e.Args, " ")
}

func (e *Error) Error() string {
	var msg string
	if e.ExitCode >= 0 {
		msg = fmt.Sprintf("command failed with status code %d: %s", e.ExitCode, e.CommandLine())
	} else {
		msg = fmt.Sprintf("command failed: %s: %v", e.CommandLine(), e.Err)
	}
	if e.Output != "" {
		msg += "\n" + e.Output
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// RunContext executes a command in dir and discards its stdout.
func RunContext(ctx context.Context, dir, name string, args ...string) error {
	_, err := run(ctx, dir, nil, name, args...)
	return err
}

// OutputContext executes a command in dir and returns its stdout.
func OutputContext(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	return run(ctx, dir, nil, name, args...)
}

// InputContext executes a command in dir with stdin fed from input and
// returns its stdout.
func InputContext(ctx context.Context, dir string, input io.Reader, name string, args ...string) ([]byte, error) {
	return run(ctx, dir, input, name, args...)
}

func run(ctx context.Context, dir string, input io.Reader, name string, args ...string) ([]byte, error) {
	done := log.FromContext(ctx).Command(dir, name, args...)
	start := time.Now()

	c := exec.CommandContext(ctx, name, args...)
	c.Dir = dir
	c.Stdin = input

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()
	done(time.Since(start))

	if err == nil {
		return stdout.Bytes(), nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	cmdErr := &Error{
		Dir:      dir,
		Name:     name,
		Args:     args,
		ExitCode: -1,
		Output:   strings.TrimSpace(stderr.String()),
		Err:      err,
	}
	if cmdErr.Output == "" {
		cmdErr.Output = strings.TrimSpace(stdout.String())
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		cmdErr.ExitCode = exitErr.ExitCode()
	}
	return nil, cmdErr
}
