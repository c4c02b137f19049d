// Package config handles global raven-actions configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/aidanlsb/raven-actions/internal/periodic"
)

// Defaults applied when the config file leaves a field empty.
const (
	DefaultURIScheme      = "raven"
	DefaultNamespace      = "actions-uri"
	DefaultHTTPHost       = "127.0.0.1"
	DefaultHTTPPort       = 3000
	DefaultFrontmatterKey = "uid"
	DefaultTemplateFolder = "templates"
)

// Config represents the global raven-actions configuration.
type Config struct {
	// DefaultVault is the name of the default vault (from Vaults map).
	DefaultVault string `toml:"default_vault"`

	// Vault is a single vault path, used when no named vaults are configured.
	Vault string `toml:"vault"`

	// Vaults is a map of vault names to paths.
	Vaults map[string]string `toml:"vaults"`

	// StateFile overrides where the machine-local state is kept.
	StateFile string `toml:"state_file"`

	// URIScheme is the scheme of incoming action URIs (raven://...).
	URIScheme string `toml:"uri_scheme"`

	// Namespace is the path prefix every action is registered under.
	Namespace string `toml:"namespace"`

	// FrontmatterKey names the front-matter property that holds a note's uid.
	FrontmatterKey string `toml:"frontmatter_key"`

	// Editor is the editor to use for opening notes (defaults to $EDITOR).
	Editor string `toml:"editor"`

	// Opener is the command used to navigate to callback URLs.
	// Empty uses the desktop default (open, xdg-open).
	Opener string `toml:"opener"`

	HTTP      HTTPConfig                `toml:"http"`
	Plugins   PluginsConfig             `toml:"plugins"`
	Templates TemplatesConfig           `toml:"templates"`
	Periodic  map[string]PeriodicConfig `toml:"periodic"`
	UI        UIConfig                  `toml:"ui"`
}

// HTTPConfig controls the loopback listener.
type HTTPConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// PluginsConfig lists the enabled template plugins.
type PluginsConfig struct {
	Enabled []string `toml:"enabled"`
}

// TemplatesConfig controls the core templates plugin.
type TemplatesConfig struct {
	Folder string `toml:"folder"`
}

// PeriodicConfig configures one periodic note type.
type PeriodicConfig struct {
	Enabled  bool   `toml:"enabled"`
	Folder   string `toml:"folder"`
	Format   string `toml:"format"`
	Template string `toml:"template"`
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Accent is an optional accent color for CLI output and markdown rendering.
	// Supported values are ANSI color codes ("0" to "255") or hex colors ("#RRGGBB").
	Accent string `toml:"accent"`

	// CodeTheme sets the Glamour/Chroma theme used for rendered markdown code blocks.
	CodeTheme string `toml:"code_theme"`
}

// GetVaultPath returns the path for a named vault.
// If name is empty, returns the default vault path.
func (c *Config) GetVaultPath(name string) (string, error) {
	if name == "" {
		name = c.DefaultVault
	}

	if name == "" && c.Vault != "" {
		return c.Vault, nil
	}

	if path, ok := c.Vaults[name]; ok {
		return path, nil
	}

	// "default" always refers to the single vault when one is set.
	if name == "default" && c.Vault != "" {
		return c.Vault, nil
	}

	if name == "" {
		return "", fmt.Errorf("no default vault configured")
	}

	return "", fmt.Errorf("vault '%s' not found in config", name)
}

// ListVaults returns all configured vaults with their paths.
func (c *Config) ListVaults() map[string]string {
	result := make(map[string]string)
	for name, path := range c.Vaults {
		result[name] = path
	}
	if len(result) == 0 && c.Vault != "" {
		result["default"] = c.Vault
	}
	return result
}

// GetEditor returns the editor to use, falling back to $EDITOR.
func (c *Config) GetEditor() string {
	if c.Editor != "" {
		return c.Editor
	}
	return os.Getenv("EDITOR")
}

// Scheme returns the URI scheme, defaulting to "raven".
func (c *Config) Scheme() string {
	if s := strings.TrimSpace(c.URIScheme); s != "" {
		return strings.TrimSuffix(s, "://")
	}
	return DefaultURIScheme
}

// Prefix returns the action namespace, defaulting to "actions-uri".
func (c *Config) Prefix() string {
	if p := strings.Trim(strings.TrimSpace(c.Namespace), "/"); p != "" {
		return p
	}
	return DefaultNamespace
}

// UIDKey returns the front-matter key holding note uids.
func (c *Config) UIDKey() string {
	if k := strings.TrimSpace(c.FrontmatterKey); k != "" {
		return k
	}
	return DefaultFrontmatterKey
}

// Addr returns the host:port the HTTP listener binds.
func (c *Config) Addr() string {
	host := strings.TrimSpace(c.HTTP.Host)
	if host == "" {
		host = DefaultHTTPHost
	}
	port := c.HTTP.Port
	if port == 0 {
		port = DefaultHTTPPort
	}
	return fmt.Sprintf("%s:%d", host, port)
}

// TemplateFolder returns the vault folder holding core templates.
func (c *Config) TemplateFolder() string {
	if f := strings.Trim(strings.TrimSpace(c.Templates.Folder), "/"); f != "" {
		return f
	}
	return DefaultTemplateFolder
}

// EnabledPlugins returns the enabled plugin names, sorted and deduplicated.
func (c *Config) EnabledPlugins() []string {
	seen := make(map[string]bool)
	var out []string
	for _, name := range c.Plugins.Enabled {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// PeriodicSettings returns the settings for every periodic note type.
// Types missing from the config are disabled.
func (c *Config) PeriodicSettings() map[periodic.Type]periodic.Settings {
	out := make(map[periodic.Type]periodic.Settings, len(periodic.Types))
	for _, t := range periodic.Types {
		pc := c.Periodic[string(t)]
		out[t] = periodic.Settings{
			Enabled:  pc.Enabled,
			Folder:   strings.Trim(strings.TrimSpace(pc.Folder), "/"),
			Format:   strings.TrimSpace(pc.Format),
			Template: strings.TrimSpace(pc.Template),
		}
	}
	return out
}

// Validate reports unknown periodic types and out-of-range ports.
func (c *Config) Validate() error {
	var problems []string
	for key := range c.Periodic {
		if _, err := periodic.ParseType(key); err != nil {
			problems = append(problems, fmt.Sprintf("unknown periodic note type %q", key))
		}
	}
	if c.HTTP.Port < 0 || c.HTTP.Port > 65535 {
		problems = append(problems, fmt.Sprintf("http port %d out of range", c.HTTP.Port))
	}
	if len(problems) == 0 {
		return nil
	}
	sort.Strings(problems)
	return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
}

// Load loads the configuration from the default location.
// Returns a default config if the file doesn't exist.
func Load() (*Config, error) {
	configPath := DefaultPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &Config{}, nil
	}

	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	var config Config
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &config, nil
}

// DefaultPath returns the default config file path.
// Checks ~/.config/raven-actions/config.toml first (XDG style),
// then falls back to OS-specific location.
func DefaultPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		xdgPath := filepath.Join(home, ".config", "raven-actions", "config.toml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "raven-actions", "config.toml")
	}

	return filepath.Join(".", "config.toml")
}

// CreateDefault creates a commented default config file at path if it
// doesn't exist yet.
func CreateDefault(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath()
	}
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := writeAtomic(path, []byte(defaultConfig), 0o644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return path, nil
}

const defaultConfig = `# raven-actions configuration

# Vault the actions operate on
# vault = "/path/to/your/notes"
#
# Or named vaults, with default_vault picking one
# default_vault = "personal"
# [vaults]
# personal = "/path/to/your/notes"

# Incoming URIs look like raven://actions-uri/note/get?file=Foo
# uri_scheme = "raven"
# namespace = "actions-uri"

# Front-matter property holding note uids
# frontmatter_key = "uid"

# Editor for focusing notes (defaults to $EDITOR)
# editor = "code"

# Command used to open callback URLs (defaults to open / xdg-open)
# opener = ""

# [http]
# host = "127.0.0.1"
# port = 3000

# [plugins]
# enabled = ["templates"]

# [templates]
# folder = "templates"

# [periodic.daily]
# enabled = true
# folder = "journal"
# format = "YYYY-MM-DD"
# template = "templates/daily.md"
`
