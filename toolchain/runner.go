package toolchain

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/spectralabs/shaderport/errors"
)

// Runner executes one external compiler stage. The production
// implementation spawns a child process; tests substitute recording or
// scripted runners.
type Runner interface {
	// Run blocks until the process exits or the timeout elapses. It
	// returns an error only for unrecoverable conditions (executable not
	// found, working directory unusable); a nonzero exit comes back as a
	// StageResult with ExitedCleanly false.
	Run(ctx context.Context, executable string, args []string, workdir string, timeout time.Duration) (StageResult, error)
}

// ExecRunner runs stages as child processes.
type ExecRunner struct {
	// OutputLimit bounds captured bytes per stream; zero means
	// DefaultOutputLimit.
	OutputLimit int
}

// NewExecRunner returns an ExecRunner with the given per-stream output
// ceiling.
func NewExecRunner(outputLimit int) *ExecRunner {
	return &ExecRunner{OutputLimit: outputLimit}
}

// Run spawns the executable with its argument vector and working
// directory fixed. Arguments are never concatenated into a shell command,
// so user-controlled shader text that leaks into file names cannot inject
// flags or commands.
func (r *ExecRunner) Run(ctx context.Context, executable string, args []string, workdir string, timeout time.Duration) (StageResult, error) {
	limit := r.OutputLimit
	if limit <= 0 {
		limit = DefaultOutputLimit
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, executable, args...)
	cmd.Dir = workdir

	stdout := newBoundedBuffer(limit)
	stderr := newBoundedBuffer(limit)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	// If the tool spawns children that inherit the pipes, Wait must not
	// hang past the kill.
	cmd.WaitDelay = 2 * time.Second

	if err := cmd.Start(); err != nil {
		return StageResult{}, errors.Wrapf(errors.ErrToolUnavailable,
			"cannot launch %s: %v", executable, err)
	}

	waitErr := cmd.Wait()

	res := StageResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if runCtx.Err() == context.DeadlineExceeded {
		res.TimedOut = true
		if res.Stderr != "" {
			res.Stderr += "\n"
		}
		res.Stderr += fmt.Sprintf("%s timed out after %s", filepath.Base(executable), timeout)
		return res, nil
	}

	// The caller gave up (client disconnect, shutdown). The kill is not
	// the shader's fault, so it must not surface as a compilation
	// failure.
	if err := ctx.Err(); err != nil {
		return res, errors.Wrapf(err, "%s aborted", filepath.Base(executable))
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			// Compilation failure: the tool ran and rejected the input.
			return res, nil
		}
		return res, errors.Wrapf(errors.ErrToolUnavailable,
			"%s did not run: %v", executable, waitErr)
	}

	res.ExitedCleanly = true
	return res, nil
}
