package pipeline

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spectralabs/shaderport/errors"
)

// workspace is a uniquely named, exclusively owned scratch directory
// scoped to one request. Never shared or reused.
type workspace struct {
	dir string
}

func newWorkspace() (*workspace, error) {
	dir := filepath.Join(os.TempDir(), "shaderport-"+uuid.NewString())
	if err := os.Mkdir(dir, 0o700); err != nil {
		return nil, errors.Wrapf(errors.ErrWorkspace, "create %s: %v", dir, err)
	}
	return &workspace{dir: dir}, nil
}

func (w *workspace) Dir() string {
	return w.dir
}

func (w *workspace) WriteFile(name, content string) error {
	if err := os.WriteFile(filepath.Join(w.dir, name), []byte(content), 0o600); err != nil {
		return errors.Wrapf(errors.ErrWorkspace, "write %s: %v", name, err)
	}
	return nil
}

func (w *workspace) ReadFile(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(w.dir, name))
	if err != nil {
		return nil, errors.Wrapf(errors.ErrWorkspace, "read %s: %v", name, err)
	}
	return data, nil
}

// Close removes the workspace. Called via defer so the directory goes
// away on every exit path, including panics during pipeline execution.
// Removal failure is best-effort and logged, never propagated.
func (w *workspace) Close(log *zap.SugaredLogger) {
	if err := os.RemoveAll(w.dir); err != nil && log != nil {
		log.Warnw("Failed to remove workspace", "dir", w.dir, "error", err)
	}
}
