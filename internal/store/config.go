package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	envConfigDir = "MENU_ADMIN_CONFIG_DIR"
	EnvAPIURL    = "MENU_ADMIN_API_URL"
	EnvLogLevel  = "MENU_ADMIN_LOG_LEVEL"
	EnvLogFile   = "MENU_ADMIN_LOG_FILE"
)

type GlobalConfig struct {
	// APIURL is the base URL of the remote menus API (e.g. http://localhost:3001/api).
	APIURL string `json:"apiUrl,omitempty"`

	LogLevel string `json:"logLevel,omitempty"`
	// LogFile receives logs; the TUI logs nowhere unless this is set.
	LogFile string `json:"logFile,omitempty"`

	// TUI holds optional user preferences for the interactive TUI.
	TUI *TUIConfig `json:"tui,omitempty"`
}

type TUIConfig struct {
	// Glyphs selects the glyph set ("unicode" or "ascii").
	Glyphs string `json:"glyphs,omitempty"`
}

// configKeys maps `config get|set` keys to accessors.
var configKeys = map[string]struct {
	get func(*GlobalConfig) string
	set func(*GlobalConfig, string) error
}{
	"api-url": {
		get: func(c *GlobalConfig) string { return c.APIURL },
		set: func(c *GlobalConfig, v string) error { c.APIURL = strings.TrimRight(v, "/"); return nil },
	},
	"log-level": {
		get: func(c *GlobalConfig) string { return c.LogLevel },
		set: func(c *GlobalConfig, v string) error {
			switch strings.ToLower(v) {
			case "", "debug", "info", "warn", "error":
				c.LogLevel = strings.ToLower(v)
				return nil
			}
			return fmt.Errorf("invalid log level: %q (debug|info|warn|error)", v)
		},
	},
	"log-file": {
		get: func(c *GlobalConfig) string { return c.LogFile },
		set: func(c *GlobalConfig, v string) error { c.LogFile = v; return nil },
	},
	"tui.glyphs": {
		get: func(c *GlobalConfig) string {
			if c.TUI == nil {
				return ""
			}
			return c.TUI.Glyphs
		},
		set: func(c *GlobalConfig, v string) error {
			switch v {
			case "", "unicode", "ascii":
			default:
				return fmt.Errorf("invalid glyphs: %q (unicode|ascii)", v)
			}
			if c.TUI == nil {
				c.TUI = &TUIConfig{}
			}
			c.TUI.Glyphs = v
			return nil
		},
	},
}

// ConfigKeys lists the keys accepted by Get and Set.
func ConfigKeys() []string {
	out := make([]string, 0, len(configKeys))
	for k := range configKeys {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (c *GlobalConfig) Get(key string) (string, error) {
	k, ok := configKeys[strings.TrimSpace(key)]
	if !ok {
		return "", fmt.Errorf("unknown config key: %q (keys: %s)", key, strings.Join(ConfigKeys(), ", "))
	}
	return k.get(c), nil
}

func (c *GlobalConfig) Set(key, value string) error {
	k, ok := configKeys[strings.TrimSpace(key)]
	if !ok {
		return fmt.Errorf("unknown config key: %q (keys: %s)", key, strings.Join(ConfigKeys(), ", "))
	}
	return k.set(c, strings.TrimSpace(value))
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.menu-admin).
	if v := strings.TrimSpace(os.Getenv(envConfigDir)); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".menu-admin"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

func LoadConfig() (*GlobalConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &GlobalConfig{}, nil
		}
		return nil, err
	}
	var cfg GlobalConfig
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}

func SaveConfig(cfg *GlobalConfig) error {
	if cfg == nil {
		return errors.New("nil config")
	}
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
	// Unique temp name + rename: the CLI and a running TUI may both write.
	return atomicWriteFile(dir, "config.json.*.tmp", path, b, 0o600)
}

// ResolveAPIURL picks the API URL: explicit flag, then environment, then config file.
func ResolveAPIURL(flag string, cfg *GlobalConfig) string {
	if v := strings.TrimSpace(flag); v != "" {
		return v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		return v
	}
	if cfg != nil {
		return strings.TrimSpace(cfg.APIURL)
	}
	return ""
}
