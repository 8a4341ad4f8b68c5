package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
)

// Config holds user preferences. The file is JSON but may carry comments and
// trailing commas.
type Config struct {
	// Glyphs selects the display glyph set for the TUI ("ascii" or "unicode").
	// Saved files always use ASCII.
	Glyphs string `json:"glyphs,omitempty"`

	// Profile forces a colour profile for the TUI: auto|ascii|ansi|ansi256|truecolor.
	Profile string `json:"profile,omitempty"`

	Log    LogConfig    `json:"log,omitempty"`
	Web    ServerConfig `json:"web,omitempty"`
	WebTUI ServerConfig `json:"webtui,omitempty"`
}

type LogConfig struct {
	Enabled bool `json:"enabled,omitempty"`
	// Level is debug|info|warn|error.
	Level string `json:"level,omitempty"`
	// Dir defaults to <config dir>/logs.
	Dir string `json:"dir,omitempty"`
}

type ServerConfig struct {
	Addr string `json:"addr,omitempty"`
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.treeedit).
	if v := strings.TrimSpace(os.Getenv("TREEEDIT_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".treeedit"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadConfig reads the config file and applies environment overrides.
func LoadConfig() (*Config, error) {
	cfg, err := ReadConfig()
	if err != nil {
		return nil, err
	}
	cfg.applyEnv()
	return cfg, nil
}

// ReadConfig reads the config file as stored (missing file = zero config).
func ReadConfig() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := json.Unmarshal(jsonc.ToJSON(b), cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv("TREEEDIT_GLYPHS")); v != "" {
		c.Glyphs = v
	}
	switch strings.ToLower(strings.TrimSpace(os.Getenv("TREEEDIT_LOG"))) {
	case "":
	case "0", "false", "off":
		c.Log.Enabled = false
	case "1", "true", "on":
		c.Log.Enabled = true
	default:
		// Any other value is taken as a level.
		c.Log.Enabled = true
		c.Log.Level = strings.TrimSpace(os.Getenv("TREEEDIT_LOG"))
	}
}

func SaveConfig(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	// Keep a copy of the previous config so a bad write is easy to undo.
	if prev, err := os.ReadFile(path); err == nil && len(prev) > 0 {
		_ = atomicWriteFile(dir, "config.json.bak.*.tmp", path+".bak", prev, 0o644)
	}
	return atomicWriteFile(dir, "config.json.*.tmp", path, b, 0o600)
}
