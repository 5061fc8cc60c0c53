package filesystem

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// DefaultFileMode is applied to every emitted file
const DefaultFileMode fs.FileMode = 0644

// NewOS returns the real filesystem
func NewOS() afero.Fs {
	return afero.NewOsFs()
}

// NewMemory returns an empty in-memory filesystem
func NewMemory() afero.Fs {
	return afero.NewMemMapFs()
}

// WriteFileAtomic replaces path with data. The bytes go to a temporary file
// in the same directory which is then renamed over path, so readers see the
// old content or the new one, never a partial write. The parent directory
// must already exist.
func WriteFileAtomic(fsys afero.Fs, path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	info, err := fsys.Stat(dir)
	if err != nil {
		return fmt.Errorf("destination directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("destination directory %s: %w", dir, &fs.PathError{Op: "stat", Path: dir, Err: os.ErrInvalid})
	}

	tmp, err := afero.TempFile(fsys, dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmp.Name()

	cleanup := func() {
		_ = tmp.Close()
		_ = fsys.Remove(tmpPath)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = fsys.Remove(tmpPath)
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err := fsys.Chmod(tmpPath, perm); err != nil {
		_ = fsys.Remove(tmpPath)
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := fsys.Rename(tmpPath, path); err != nil {
		_ = fsys.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
