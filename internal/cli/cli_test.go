package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidanlsb/raven-actions/internal/outcome"
	"github.com/aidanlsb/raven-actions/internal/schema"
)

var captureStdoutMu sync.Mutex

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	captureStdoutMu.Lock()
	defer captureStdoutMu.Unlock()

	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	os.Stdout = w

	outputCh := make(chan string, 1)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		_ = r.Close()
		outputCh <- buf.String()
	}()

	fn()

	os.Stdout = orig
	_ = w.Close()
	return <-outputCh
}

type cliEnv struct {
	vault  string
	config string
}

func newCLIEnv(t *testing.T, files map[string]string, configTOML string) *cliEnv {
	t.Helper()
	t.Setenv("EDITOR", "")

	env := &cliEnv{vault: t.TempDir(), config: filepath.Join(t.TempDir(), "config.toml")}
	for rel, content := range files {
		full := filepath.Join(env.vault, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	if configTOML != "" {
		require.NoError(t, os.WriteFile(env.config, []byte(configTOML), 0o644))
	}
	return env
}

// run executes the root command with fresh global flag state.
func (e *cliEnv) run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	jsonOutput, openNoLaunch, periodicOverwrite = false, false, false
	vaultName, vaultPathFlag, configPath, statePathFlag = "", "", "", ""
	logLevel = levelFlag{level: slog.LevelWarn}
	cfg = nil
	t.Cleanup(func() { cfg = nil })

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	full := append([]string{"--config", e.config, "--vault-path", e.vault}, args...)
	rootCmd.SetArgs(full)
	captured := captureStdout(t, func() {
		err = rootCmd.Execute()
	})
	return out.String() + captured, errOut.String(), err
}

func TestCallPrintsOutcomeJSON(t *testing.T) {
	env := newCLIEnv(t, map[string]string{"Foo.md": "---\ntags: [a]\n---\nHello\n"}, "")

	out, _, err := env.run(t, "call", "note/get", "file=Foo.md", "--json")
	require.NoError(t, err)

	var payload struct {
		IsSuccess bool `json:"isSuccess"`
		Result    struct {
			FilePath   string         `json:"filePath"`
			Body       string         `json:"body"`
			Properties map[string]any `json:"properties"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &payload), out)
	assert.True(t, payload.IsSuccess)
	assert.Equal(t, "Foo.md", payload.Result.FilePath)
	assert.Equal(t, "Hello\n", payload.Result.Body)
	assert.Equal(t, []any{"a"}, payload.Result.Properties["tags"])
}

func TestCallCreatesNote(t *testing.T) {
	env := newCLIEnv(t, nil, "")

	out, _, err := env.run(t, "call", "/actions-uri/note/create", "file=Inbox/New", "content=hello", "silent=true")
	require.NoError(t, err)
	assert.Contains(t, out, "Inbox/New.md")

	data, err := os.ReadFile(filepath.Join(env.vault, "Inbox", "New.md"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestCallFailureIsReturned(t *testing.T) {
	env := newCLIEnv(t, nil, "")

	_, _, err := env.run(t, "call", "note/get", "file=Missing.md")
	require.Error(t, err)

	var ferr *failureError
	require.True(t, errors.As(err, &ferr))
	assert.Equal(t, outcome.NotFound, ferr.failure.Code)
	assert.Equal(t, "/actions-uri/note/get", ferr.action)
}

func TestCallUnknownAction(t *testing.T) {
	env := newCLIEnv(t, nil, "")

	_, _, err := env.run(t, "call", "note/nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown action /actions-uri/note/nope")
}

func TestCallRejectsMalformedParams(t *testing.T) {
	env := newCLIEnv(t, nil, "")

	_, _, err := env.run(t, "call", "note/get", "file")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid parameter "file"`)
}

func TestOpenDeliversSuccessCallback(t *testing.T) {
	env := newCLIEnv(t, map[string]string{"Foo.md": "one\n"}, "")

	out, _, err := env.run(t, "open", "--no-launch",
		"raven://actions-uri/note/append?file=Foo.md&content=two&silent=true&x-success=app%3A%2F%2Fdone")
	require.NoError(t, err)
	assert.Equal(t, "app://done?result-message=Content+appended\n", out)

	data, err := os.ReadFile(filepath.Join(env.vault, "Foo.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "two")
}

func TestOpenReportsFailureWithoutErrorCallback(t *testing.T) {
	env := newCLIEnv(t, map[string]string{"Foo.md": "one\n"}, "")

	out, stderr, err := env.run(t, "open", "--no-launch", "raven://actions-uri/note/get?file=Foo.md")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, stderr, "/actions-uri/note/get")
	assert.Contains(t, stderr, "x-success: is required")
}

func TestOpenRejectsOtherScheme(t *testing.T) {
	env := newCLIEnv(t, nil, "")

	_, _, err := env.run(t, "open", "--no-launch", "obsidian://actions-uri/note/get?file=Foo.md")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected scheme raven")
}

func TestRoutesJSON(t *testing.T) {
	env := newCLIEnv(t, nil, "")

	out, _, err := env.run(t, "routes", "--json")
	require.NoError(t, err)

	var resp struct {
		OK   bool        `json:"ok"`
		Data []routeInfo `json:"data"`
		Meta Meta        `json:"meta"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	assert.True(t, resp.OK)
	assert.Equal(t, len(resp.Data), resp.Meta.Count)
	assert.Contains(t, resp.Data, routeInfo{Path: "/actions-uri/note/get", Group: "/actions-uri/note", RequiresCallbacks: true})
	assert.Contains(t, resp.Data, routeInfo{Path: "/actions-uri/note/append", Group: "/actions-uri/note"})
}

func TestRoutesUsesConfiguredNamespace(t *testing.T) {
	env := newCLIEnv(t, nil, "namespace = \"/actions/\"\n")

	out, _, err := env.run(t, "routes")
	require.NoError(t, err)
	assert.Contains(t, out, "/actions/search/all-notes")
	assert.NotContains(t, out, "/actions-uri/")
}

func TestPeriodicPath(t *testing.T) {
	env := newCLIEnv(t, nil, "[periodic.daily]\nenabled = true\nfolder = \"journal\"\n")

	out, _, err := env.run(t, "periodic", "path", "daily", "2025-05-14")
	require.NoError(t, err)
	assert.Equal(t, "journal/2025-05-14.md\n", out)

	_, _, err = env.run(t, "periodic", "path", "weekly")
	require.Error(t, err)

	_, _, err = env.run(t, "periodic", "path", "hourly")
	require.Error(t, err)
}

func TestMissingVault(t *testing.T) {
	env := newCLIEnv(t, nil, "")
	env.vault = filepath.Join(env.vault, "nope")

	_, _, err := env.run(t, "routes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vault not found")
}

func TestInitWritesConfig(t *testing.T) {
	env := newCLIEnv(t, nil, "")

	_, _, err := env.run(t, "init")
	require.NoError(t, err)
	_, err = os.Stat(env.config)
	require.NoError(t, err)
}

func TestParamsFromArgs(t *testing.T) {
	raw, err := paramsFromArgs([]string{"file=a=b.md", "content=", "file=Foo.md"})
	require.NoError(t, err)
	assert.Equal(t, schema.Params{"file": "Foo.md", "content": ""}, raw)

	_, err = paramsFromArgs([]string{"=x"})
	assert.Error(t, err)
}

func TestQualifyAction(t *testing.T) {
	tests := []struct {
		prefix, action, want string
	}{
		{"actions-uri", "note/get", "/actions-uri/note/get"},
		{"actions-uri", "/actions-uri/note/get/", "/actions-uri/note/get"},
		{"actions-uri", "/actions-uri", "/actions-uri"},
		{"actions-uri", "actions-urinote", "/actions-uri/actions-urinote"},
		{"", "note/get", "/note/get"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, qualifyAction(tt.prefix, tt.action), tt.action)
	}
}

func TestLevelFlag(t *testing.T) {
	var f levelFlag
	require.NoError(t, f.Set("debug"))
	assert.Equal(t, slog.LevelDebug, f.level)
	assert.Equal(t, "debug", f.String())
	require.NoError(t, f.Set(" ERROR "))
	assert.Equal(t, slog.LevelError, f.level)
	assert.Error(t, f.Set("loud"))

	flag := rootCmd.PersistentFlags().Lookup("log-level")
	require.NotNil(t, flag)
	assert.Equal(t, "level", flag.Value.Type())
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, slog.LevelInfo)
	l.Debug("hidden")
	l.Info("hello", "k", "v")
	assert.True(t, strings.Contains(buf.String(), "msg=hello"))
	assert.False(t, strings.Contains(buf.String(), "hidden"))
}

func TestBadLogLevelFlag(t *testing.T) {
	env := newCLIEnv(t, nil, "")

	_, _, err := env.run(t, "routes", "--log-level", "loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "use debug, info, warn or error")
}
