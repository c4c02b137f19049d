// Package testutil provides an in-memory vault builder for tests.
package testutil

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/hack-pad/hackpadfs"
	"github.com/hack-pad/hackpadfs/mem"

	"github.com/aidanlsb/raven-actions/internal/vault"
)

// TestVault is an in-memory vault for testing.
type TestVault struct {
	Store *vault.FSStore
	FS    *mem.FS

	t        *testing.T
	files    map[string]string
	order    []string
	modTimes map[string]time.Time
}

// NewTestVault creates a new test vault builder.
// Call Build() to create the actual vault.
func NewTestVault(t *testing.T) *TestVault {
	t.Helper()
	return &TestVault{
		t:        t,
		files:    make(map[string]string),
		modTimes: make(map[string]time.Time),
	}
}

// WithFile adds a file to the vault.
// The path is relative to the vault root.
func (v *TestVault) WithFile(path, content string) *TestVault {
	if _, ok := v.files[path]; !ok {
		v.order = append(v.order, path)
	}
	v.files[path] = content
	return v
}

// WithModTime pins the modification time of a file added with WithFile.
func (v *TestVault) WithModTime(path string, at time.Time) *TestVault {
	v.modTimes[path] = at
	return v
}

// Build creates the in-memory file system and writes all configured files.
func (v *TestVault) Build() *TestVault {
	v.t.Helper()

	fsys, err := mem.NewFS()
	if err != nil {
		v.t.Fatalf("failed to create memory fs: %v", err)
	}
	v.FS = fsys
	v.Store = vault.NewFSStore(fsys)

	ctx := context.Background()
	for _, path := range v.order {
		if _, err := v.Store.Write(ctx, path, v.files[path]); err != nil {
			v.t.Fatalf("failed to write %s: %v", path, err)
		}
	}
	for path, at := range v.modTimes {
		if err := hackpadfs.Chtimes(fsys, path, at, at); err != nil {
			v.t.Fatalf("failed to set times on %s: %v", path, err)
		}
	}
	return v
}

// ReadFile returns the content of a vault file, failing the test if absent.
func (v *TestVault) ReadFile(relPath string) string {
	v.t.Helper()
	content, err := v.Store.Read(context.Background(), relPath)
	if err != nil {
		v.t.Fatalf("failed to read %s: %v", relPath, err)
	}
	return content
}

// FileExists reports whether a vault file exists.
func (v *TestVault) FileExists(relPath string) bool {
	_, err := v.Store.Stat(context.Background(), relPath)
	return err == nil
}

// AssertFileExists fails the test if the file does not exist.
func (v *TestVault) AssertFileExists(relPath string) {
	v.t.Helper()
	if !v.FileExists(relPath) {
		v.t.Errorf("expected file to exist: %s", relPath)
	}
}

// AssertFileNotExists fails the test if the file exists.
func (v *TestVault) AssertFileNotExists(relPath string) {
	v.t.Helper()
	if v.FileExists(relPath) {
		v.t.Errorf("expected file to not exist: %s", relPath)
	}
}

// AssertFileContains fails the test if the file does not contain substr.
func (v *TestVault) AssertFileContains(relPath, substr string) {
	v.t.Helper()
	if content := v.ReadFile(relPath); !strings.Contains(content, substr) {
		v.t.Errorf("expected %s to contain %q, got:\n%s", relPath, substr, content)
	}
}
