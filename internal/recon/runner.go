package recon

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

// ToolRunner finds and runs external binaries. A non-zero exit is not an
// error; the caller decides what the output means.
type ToolRunner interface {
	LookPath(name string) bool
	Run(ctx context.Context, name string, args []string, stdin string) (stdout, stderr string, err error)
}

// ToolError is a tool that could not be started or did not finish.
type ToolError struct {
	Tool string
	Args []string
	Err  error
}

func (e *ToolError) Error() string {
	return e.Tool + " " + strings.Join(e.Args, " ") + ": " + e.Err.Error()
}

func (e *ToolError) Unwrap() error { return e.Err }

// Cause lets errors.Cause see through to the underlying failure.
func (e *ToolError) Cause() error { return e.Err }

// ExecRunner runs tools with os/exec.
type ExecRunner struct{}

func (ExecRunner) LookPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

func (ExecRunner) Run(ctx context.Context, name string, args []string, stdin string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.Stdin = strings.NewReader(stdin)

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return stdout.String(), stderr.String(), &ToolError{Tool: name, Args: args, Err: ctxErr}
	}
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return "", "", &ToolError{Tool: name, Args: args, Err: errors.Wrap(err, "start")}
	}
	return stdout.String(), stderr.String(), nil
}
