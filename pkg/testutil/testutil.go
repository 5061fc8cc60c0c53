package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Isolate keeps the developer's own configuration, state and environment
// out of a test. It returns a temp dir that holds the XDG directories.
func Isolate(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	t.Setenv("RULESPLIT_CONFIG", "")
	t.Setenv("RULESPLIT_CONFIG_DIR", "")
	t.Setenv("RULESPLIT_STATE_DIR", "")
	t.Setenv("NO_COLOR", "1")
	return dir
}

// CreateFile writes content to dir/name, creating parent directories.
// It fails the test if the file cannot be created.
func CreateFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create parent directories for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create file %s: %v", path, err)
	}
	return path
}

// CreateDir creates a directory in the specified parent directory.
func CreateDir(t *testing.T, parent, name string) string {
	t.Helper()

	path := filepath.Join(parent, name)
	if err := os.MkdirAll(path, 0755); err != nil {
		t.Fatalf("Failed to create directory %s: %v", path, err)
	}
	return path
}

// ReadFile reads the content of a file and fails the test on error
func ReadFile(t *testing.T, path string) string {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

// AssertNoFile fails the test if path exists
func AssertNoFile(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Lstat(path); err == nil {
		t.Errorf("Expected %s not to exist", path)
	} else if !os.IsNotExist(err) {
		t.Errorf("Failed to check %s: %v", path, err)
	}
}
