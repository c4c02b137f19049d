// Package workspace focuses notes in the user's editor and remembers which
// note is active.
package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aidanlsb/raven-actions/internal/config"
	"github.com/aidanlsb/raven-actions/internal/shellquote"
)

// Workspace is the focus-or-open UI action plus the active-note query.
type Workspace interface {
	// FocusOrOpen brings the note at the vault-relative path to the front,
	// opening it when it is not already open.
	FocusOrOpen(ctx context.Context, notePath string) error

	// Active reports the vault-relative path of the focused note.
	Active(ctx context.Context) (string, bool)
}

// Memory tracks the active note in process without launching anything.
type Memory struct {
	mu     sync.Mutex
	active string
	opened []string
}

// FocusOrOpen records notePath as active.
func (m *Memory) FocusOrOpen(_ context.Context, notePath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = notePath
	m.opened = append(m.opened, notePath)
	return nil
}

// Active returns the last focused note.
func (m *Memory) Active(context.Context) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active, m.active != ""
}

// Opened returns every path passed to FocusOrOpen, in call order.
func (m *Memory) Opened() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.opened...)
}

// Editor opens notes in an external editor process. The active note is
// persisted to the state file so separate invocations agree on it.
type Editor struct {
	command   string
	vaultRoot string
	statePath string
	logger    *slog.Logger
	start     func(*exec.Cmd) error

	mu     sync.Mutex
	active string
}

// Option configures an Editor.
type Option func(*Editor)

// WithStatePath persists the active note in the given state.toml.
func WithStatePath(path string) Option {
	return func(e *Editor) { e.statePath = path }
}

// WithLogger sets the logger used for launch failures.
func WithLogger(l *slog.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithStarter replaces how editor processes are started.
func WithStarter(start func(*exec.Cmd) error) Option {
	return func(e *Editor) { e.start = start }
}

// NewEditor returns an Editor running command for notes under vaultRoot.
// An empty command only tracks the active note.
func NewEditor(command, vaultRoot string, opts ...Option) *Editor {
	e := &Editor{
		command:   strings.TrimSpace(command),
		vaultRoot: vaultRoot,
		logger:    slog.Default(),
		start:     startDetached,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// FocusOrOpen launches the editor on the note and records it as active.
// The note is recorded even when no editor is configured.
func (e *Editor) FocusOrOpen(ctx context.Context, notePath string) error {
	e.mu.Lock()
	e.active = notePath
	e.mu.Unlock()

	if e.statePath != "" {
		if err := e.saveActive(notePath); err != nil {
			e.logger.WarnContext(ctx, "failed to persist active note", "path", notePath, "error", err)
		}
	}

	if e.command == "" {
		return nil
	}

	cmd := e.Command(notePath)
	if err := e.start(cmd); err != nil {
		return fmt.Errorf("failed to open editor '%s': %w", e.command, err)
	}
	return nil
}

// Active returns the note focused by this process, or the one recorded in
// the state file.
func (e *Editor) Active(ctx context.Context) (string, bool) {
	e.mu.Lock()
	active := e.active
	e.mu.Unlock()
	if active != "" {
		return active, true
	}

	if e.statePath == "" {
		return "", false
	}
	state, err := config.LoadState(e.statePath)
	if err != nil {
		e.logger.WarnContext(ctx, "failed to load state", "error", err)
		return "", false
	}
	return state.ActiveNote, state.ActiveNote != ""
}

// Command builds the editor invocation for a vault-relative note path.
// An editor containing spaces (e.g. "open -a Cursor") runs through sh.
func (e *Editor) Command(notePath string) *exec.Cmd {
	full := filepath.Join(e.vaultRoot, filepath.FromSlash(notePath))
	if strings.Contains(e.command, " ") {
		return exec.Command("sh", "-c", shellquote.Command(e.command, full))
	}
	return exec.Command(e.command, full)
}

func (e *Editor) saveActive(notePath string) error {
	state, err := config.LoadState(e.statePath)
	if err != nil {
		return err
	}
	state.ActiveNote = notePath
	return config.SaveState(e.statePath, state)
}

func startDetached(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
