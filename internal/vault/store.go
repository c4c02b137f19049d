// Package vault provides the note store the actions operate on.
//
// Notes live in a hackpadfs file system rooted at the vault directory, so the
// same Store works on disk and in memory. All paths are vault-relative and
// use forward slashes.
package vault

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/hack-pad/hackpadfs"
	osfs "github.com/hack-pad/hackpadfs/os"

	"github.com/aidanlsb/raven-actions/internal/paths"
)

// TrashDir is the vault folder that receives trashed notes.
const TrashDir = ".trash"

var (
	// ErrNotFound is returned when a note does not exist.
	ErrNotFound = errors.New("note not found")

	// ErrExists is returned when a note would be overwritten.
	ErrExists = errors.New("note already exists")
)

// File is a handle to an existing note.
type File struct {
	Path    string    // vault-relative, e.g. "people/Freya.md"
	Name    string    // base name with extension, e.g. "Freya.md"
	ModTime time.Time // last modification
	Size    int64
}

// Store is the document store collaborator. Every operation is keyed by a
// vault-relative note path.
type Store interface {
	List(ctx context.Context) ([]File, error)
	Stat(ctx context.Context, notePath string) (File, error)
	Read(ctx context.Context, notePath string) (string, error)
	Create(ctx context.Context, notePath, content string) (File, error)
	Write(ctx context.Context, notePath, content string) (File, error)
	Rename(ctx context.Context, from, to string) error
	Delete(ctx context.Context, notePath string) error
	Trash(ctx context.Context, notePath string) (string, error)
	Touch(ctx context.Context, notePath string) error
}

// FSStore implements Store on a hackpadfs file system.
type FSStore struct {
	fs  hackpadfs.FS
	now func() time.Time
}

// NewFSStore wraps an existing file system whose root is the vault root.
func NewFSStore(fsys hackpadfs.FS) *FSStore {
	return &FSStore{fs: fsys, now: time.Now}
}

// Open returns a store for the vault directory at vaultPath on disk.
func Open(vaultPath string) (*FSStore, error) {
	host := osfs.NewFS()
	root, err := host.FromOSPath(vaultPath)
	if err != nil {
		return nil, fmt.Errorf("resolve vault path %s: %w", vaultPath, err)
	}
	sub, err := host.Sub(root)
	if err != nil {
		return nil, fmt.Errorf("open vault %s: %w", vaultPath, err)
	}
	info, err := hackpadfs.Stat(sub, ".")
	if err != nil {
		return nil, fmt.Errorf("open vault %s: %w", vaultPath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("vault %s is not a directory", vaultPath)
	}
	return NewFSStore(sub), nil
}

// List returns every note in the vault sorted by path. Hidden folders such
// as .trash are skipped.
func (s *FSStore) List(ctx context.Context) ([]File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var files []File
	if err := s.walk(".", &files); err != nil {
		return nil, err
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

func (s *FSStore) walk(dir string, out *[]File) error {
	entries, err := hackpadfs.ReadDir(s.fs, dir)
	if err != nil {
		return fmt.Errorf("read dir %s: %w", dir, err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		p := name
		if dir != "." {
			p = dir + "/" + name
		}
		if entry.IsDir() {
			if err := s.walk(p, out); err != nil {
				return err
			}
			continue
		}
		if !paths.IsNote(name) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return fmt.Errorf("stat %s: %w", p, err)
		}
		*out = append(*out, fileFromInfo(p, info))
	}
	return nil
}

// Stat returns the handle of an existing note.
func (s *FSStore) Stat(ctx context.Context, notePath string) (File, error) {
	if err := ctx.Err(); err != nil {
		return File{}, err
	}
	info, err := hackpadfs.Stat(s.fs, notePath)
	if err != nil {
		return File{}, wrapNotExist(notePath, err)
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("%w: %s is a folder", ErrNotFound, notePath)
	}
	return fileFromInfo(notePath, info), nil
}

// Read returns the content of a note.
func (s *FSStore) Read(ctx context.Context, notePath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := hackpadfs.ReadFile(s.fs, notePath)
	if err != nil {
		return "", wrapNotExist(notePath, err)
	}
	return string(data), nil
}

// Create writes a new note and fails with ErrExists if one is already there.
func (s *FSStore) Create(ctx context.Context, notePath, content string) (File, error) {
	if _, err := s.Stat(ctx, notePath); err == nil {
		return File{}, fmt.Errorf("%w: %s", ErrExists, notePath)
	} else if !errors.Is(err, ErrNotFound) {
		return File{}, err
	}
	return s.Write(ctx, notePath, content)
}

// Write creates or overwrites a note, creating parent folders as needed.
func (s *FSStore) Write(ctx context.Context, notePath, content string) (File, error) {
	if err := ctx.Err(); err != nil {
		return File{}, err
	}
	if err := s.ensureDir(path.Dir(notePath)); err != nil {
		return File{}, err
	}
	if err := hackpadfs.WriteFullFile(s.fs, notePath, []byte(content), 0o644); err != nil {
		return File{}, fmt.Errorf("write %s: %w", notePath, err)
	}
	return s.Stat(ctx, notePath)
}

// Rename moves a note. The destination must not exist.
func (s *FSStore) Rename(ctx context.Context, from, to string) error {
	if _, err := s.Stat(ctx, from); err != nil {
		return err
	}
	if _, err := s.Stat(ctx, to); err == nil {
		return fmt.Errorf("%w: %s", ErrExists, to)
	}
	if err := s.ensureDir(path.Dir(to)); err != nil {
		return err
	}

	err := hackpadfs.Rename(s.fs, from, to)
	if errors.Is(err, hackpadfs.ErrNotImplemented) {
		err = s.copyRemove(from, to)
	}
	if err != nil {
		return fmt.Errorf("rename %s to %s: %w", from, to, err)
	}
	return nil
}

// Delete removes a note permanently.
func (s *FSStore) Delete(ctx context.Context, notePath string) error {
	if _, err := s.Stat(ctx, notePath); err != nil {
		return err
	}
	if err := hackpadfs.Remove(s.fs, notePath); err != nil {
		return fmt.Errorf("delete %s: %w", notePath, err)
	}
	return nil
}

// Trash moves a note under TrashDir, keeping its folder structure, and
// returns the new location. An existing trashed copy is never overwritten.
func (s *FSStore) Trash(ctx context.Context, notePath string) (string, error) {
	dest := TrashDir + "/" + notePath
	if _, err := hackpadfs.Stat(s.fs, dest); err == nil {
		ext := path.Ext(dest)
		dest = fmt.Sprintf("%s-%d%s", strings.TrimSuffix(dest, ext), s.now().UnixNano(), ext)
	}
	if err := s.Rename(ctx, notePath, dest); err != nil {
		return "", err
	}
	return dest, nil
}

// Touch bumps a note's modification time.
func (s *FSStore) Touch(ctx context.Context, notePath string) error {
	if _, err := s.Stat(ctx, notePath); err != nil {
		return err
	}
	now := s.now()
	err := hackpadfs.Chtimes(s.fs, notePath, now, now)
	if errors.Is(err, hackpadfs.ErrNotImplemented) {
		var content string
		if content, err = s.Read(ctx, notePath); err == nil {
			_, err = s.Write(ctx, notePath, content)
		}
	}
	if err != nil {
		return fmt.Errorf("touch %s: %w", notePath, err)
	}
	return nil
}

func (s *FSStore) ensureDir(dir string) error {
	if dir == "." || dir == "" {
		return nil
	}
	if err := hackpadfs.MkdirAll(s.fs, dir, 0o755); err != nil {
		return fmt.Errorf("create folder %s: %w", dir, err)
	}
	return nil
}

func (s *FSStore) copyRemove(from, to string) error {
	data, err := hackpadfs.ReadFile(s.fs, from)
	if err != nil {
		return err
	}
	if err := hackpadfs.WriteFullFile(s.fs, to, data, 0o644); err != nil {
		return err
	}
	return hackpadfs.Remove(s.fs, from)
}

func fileFromInfo(notePath string, info fs.FileInfo) File {
	return File{
		Path:    notePath,
		Name:    path.Base(notePath),
		ModTime: info.ModTime(),
		Size:    info.Size(),
	}
}

func wrapNotExist(notePath string, err error) error {
	if errors.Is(err, hackpadfs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, notePath)
	}
	return fmt.Errorf("%s: %w", notePath, err)
}
