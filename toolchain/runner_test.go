package toolchain

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spectralabs/shaderport/errors"
)

func TestExecRunnerCleanExit(t *testing.T) {
	r := NewExecRunner(0)

	res, err := r.Run(context.Background(), "sh", []string{"-c", "echo out; echo err >&2"}, t.TempDir(), 5*time.Second)

	require.NoError(t, err)
	assert.True(t, res.ExitedCleanly)
	assert.False(t, res.TimedOut)
	assert.Equal(t, "out\n", res.Stdout)
	assert.Equal(t, "err\n", res.Stderr)
}

func TestExecRunnerNonzeroExitIsNotAnError(t *testing.T) {
	r := NewExecRunner(0)

	res, err := r.Run(context.Background(), "sh", []string{"-c", "echo rejected >&2; exit 1"}, t.TempDir(), 5*time.Second)

	require.NoError(t, err)
	assert.False(t, res.ExitedCleanly)
	assert.Equal(t, "rejected\n", res.Stderr)
}

func TestExecRunnerMissingExecutable(t *testing.T) {
	r := NewExecRunner(0)

	_, err := r.Run(context.Background(), "/nonexistent/compiler", nil, t.TempDir(), 5*time.Second)

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrToolUnavailable))
}

func TestExecRunnerTimeout(t *testing.T) {
	r := NewExecRunner(0)

	res, err := r.Run(context.Background(), "sh", []string{"-c", "sleep 10"}, t.TempDir(), 100*time.Millisecond)

	require.NoError(t, err)
	assert.False(t, res.ExitedCleanly)
	assert.True(t, res.TimedOut)
	assert.Contains(t, res.Stderr, "timed out after")
}

func TestExecRunnerCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()
	r := NewExecRunner(0)

	res, err := r.Run(ctx, "sh", []string{"-c", "sleep 10"}, t.TempDir(), 30*time.Second)

	// An abandoned request is not a shader rejection.
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, res.TimedOut)
}

func TestExecRunnerWorkdir(t *testing.T) {
	dir := t.TempDir()
	r := NewExecRunner(0)

	res, err := r.Run(context.Background(), "pwd", nil, dir, 5*time.Second)

	require.NoError(t, err)
	assert.Contains(t, res.Stdout, dir)
}

func TestExecRunnerOutputLimit(t *testing.T) {
	r := NewExecRunner(16)

	res, err := r.Run(context.Background(), "sh", []string{"-c", "yes | head -c 1000"}, t.TempDir(), 5*time.Second)

	require.NoError(t, err)
	assert.Contains(t, res.Stdout, "[output truncated]")
	assert.LessOrEqual(t, len(res.Stdout), 16+len("\n... [output truncated]"))
}
