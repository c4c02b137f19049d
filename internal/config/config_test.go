package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aidanlsb/raven-actions/internal/periodic"
)

func TestConfigGetVaultPath(t *testing.T) {
	t.Run("named vault", func(t *testing.T) {
		cfg := &Config{
			Vaults: map[string]string{
				"work":     "/path/to/work",
				"personal": "/path/to/personal",
			},
		}

		path, err := cfg.GetVaultPath("work")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if path != "/path/to/work" {
			t.Errorf("expected '/path/to/work', got %q", path)
		}
	})

	t.Run("default vault", func(t *testing.T) {
		cfg := &Config{
			DefaultVault: "personal",
			Vaults: map[string]string{
				"work":     "/path/to/work",
				"personal": "/path/to/personal",
			},
		}

		path, err := cfg.GetVaultPath("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if path != "/path/to/personal" {
			t.Errorf("expected '/path/to/personal', got %q", path)
		}
	})

	t.Run("single vault", func(t *testing.T) {
		cfg := &Config{Vault: "/single/vault"}

		for _, name := range []string{"", "default"} {
			path, err := cfg.GetVaultPath(name)
			if err != nil {
				t.Fatalf("%q: unexpected error: %v", name, err)
			}
			if path != "/single/vault" {
				t.Errorf("%q: expected '/single/vault', got %q", name, path)
			}
		}
	})

	t.Run("vault not found", func(t *testing.T) {
		cfg := &Config{Vaults: map[string]string{"work": "/path/to/work"}}

		if _, err := cfg.GetVaultPath("nonexistent"); err == nil {
			t.Error("expected error for nonexistent vault")
		}
	})

	t.Run("no default configured", func(t *testing.T) {
		cfg := &Config{}

		if _, err := cfg.GetVaultPath(""); err == nil {
			t.Error("expected error when no default configured")
		}
	})
}

func TestConfigListVaults(t *testing.T) {
	cfg := &Config{Vault: "/single"}
	if got := cfg.ListVaults(); got["default"] != "/single" || len(got) != 1 {
		t.Errorf("expected single default vault, got %v", got)
	}

	cfg = &Config{Vault: "/single", Vaults: map[string]string{"work": "/w"}}
	got := cfg.ListVaults()
	if _, ok := got["default"]; ok {
		t.Error("single vault should not appear when named vaults exist")
	}
	if got["work"] != "/w" {
		t.Errorf("expected work vault, got %v", got)
	}
}

func TestConfigGetEditor(t *testing.T) {
	t.Run("configured editor", func(t *testing.T) {
		cfg := &Config{Editor: "vim"}
		if cfg.GetEditor() != "vim" {
			t.Errorf("expected 'vim', got %q", cfg.GetEditor())
		}
	})

	t.Run("falls back to EDITOR env", func(t *testing.T) {
		t.Setenv("EDITOR", "nano")

		cfg := &Config{}
		if cfg.GetEditor() != "nano" {
			t.Errorf("expected 'nano', got %q", cfg.GetEditor())
		}
	})
}

func TestConfigDefaults(t *testing.T) {
	cfg := &Config{}

	if cfg.Scheme() != "raven" {
		t.Errorf("scheme: got %q", cfg.Scheme())
	}
	if cfg.Prefix() != "actions-uri" {
		t.Errorf("prefix: got %q", cfg.Prefix())
	}
	if cfg.UIDKey() != "uid" {
		t.Errorf("uid key: got %q", cfg.UIDKey())
	}
	if cfg.Addr() != "127.0.0.1:3000" {
		t.Errorf("addr: got %q", cfg.Addr())
	}
	if cfg.TemplateFolder() != "templates" {
		t.Errorf("template folder: got %q", cfg.TemplateFolder())
	}

	for typ, s := range cfg.PeriodicSettings() {
		if s.Enabled {
			t.Errorf("%s should be disabled by default", typ)
		}
	}
}

func TestConfigOverrides(t *testing.T) {
	cfg := &Config{
		URIScheme:      "obsidian://",
		Namespace:      "/custom/",
		FrontmatterKey: "id",
		HTTP:           HTTPConfig{Port: 8080},
		Plugins:        PluginsConfig{Enabled: []string{"templates", " templater", "templates"}},
	}

	if cfg.Scheme() != "obsidian" {
		t.Errorf("scheme: got %q", cfg.Scheme())
	}
	if cfg.Prefix() != "custom" {
		t.Errorf("prefix: got %q", cfg.Prefix())
	}
	if cfg.UIDKey() != "id" {
		t.Errorf("uid key: got %q", cfg.UIDKey())
	}
	if cfg.Addr() != "127.0.0.1:8080" {
		t.Errorf("addr: got %q", cfg.Addr())
	}
	if got := strings.Join(cfg.EnabledPlugins(), ","); got != "templater,templates" {
		t.Errorf("enabled plugins: got %q", got)
	}
}

func TestLoadFrom(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	// Keys after a [section] belong to that section, so top-level keys come first.
	content := `vault = "/notes"
state_file = "state.toml"
editor = "code"
frontmatter_key = "id"

[http]
port = 4000

[plugins]
enabled = ["templates"]

[periodic.daily]
enabled = true
folder = "journal/"
format = "YYYY/MM-DD"
template = "templates/daily.md"

[ui]
accent = "39"
code_theme = "dracula"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Vault != "/notes" {
		t.Errorf("expected vault '/notes', got %q", cfg.Vault)
	}
	if cfg.StateFile != "state.toml" {
		t.Errorf("expected state_file 'state.toml', got %q", cfg.StateFile)
	}
	if cfg.Editor != "code" {
		t.Errorf("expected editor 'code', got %q", cfg.Editor)
	}
	if cfg.Addr() != "127.0.0.1:4000" {
		t.Errorf("expected port 4000, got %q", cfg.Addr())
	}
	if cfg.UI.CodeTheme != "dracula" {
		t.Errorf("expected ui.code_theme 'dracula', got %q", cfg.UI.CodeTheme)
	}

	daily := cfg.PeriodicSettings()[periodic.Daily]
	if !daily.Enabled || daily.Folder != "journal" || daily.Format != "YYYY/MM-DD" {
		t.Errorf("unexpected daily settings: %+v", daily)
	}
	if cfg.PeriodicSettings()[periodic.Weekly].Enabled {
		t.Error("weekly should stay disabled")
	}
}

func TestLoadFromInvalid(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("malformed toml", func(t *testing.T) {
		configPath := filepath.Join(tmpDir, "bad.toml")
		if err := os.WriteFile(configPath, []byte(`this is not valid toml {{{{`), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		if _, err := LoadFrom(configPath); err == nil {
			t.Error("expected error for invalid TOML")
		}
	})

	t.Run("unknown periodic type", func(t *testing.T) {
		configPath := filepath.Join(tmpDir, "periodic.toml")
		if err := os.WriteFile(configPath, []byte("[periodic.hourly]\nenabled = true\n"), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		_, err := LoadFrom(configPath)
		if err == nil || !strings.Contains(err.Error(), `unknown periodic note type "hourly"`) {
			t.Errorf("expected periodic type error, got %v", err)
		}
	})
}

func TestCreateDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	got, err := CreateDefault(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != path {
		t.Errorf("expected %q, got %q", path, got)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("default config should parse: %v", err)
	}
	if cfg.Vault != "" {
		t.Errorf("default config should not set a vault, got %q", cfg.Vault)
	}

	// A second call leaves the existing file alone.
	if err := os.WriteFile(path, []byte(`vault = "/kept"`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := CreateDefault(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != `vault = "/kept"` {
		t.Errorf("existing config was overwritten: %q", data)
	}
}
