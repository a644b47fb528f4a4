package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gravitrone/libris/internal/api"
)

// EnvAPIURL overrides api_url from the config file.
const EnvAPIURL = "LIBRIS_API_URL"

// Config holds client configuration stored at ~/.libris/config.
type Config struct {
	APIURL    string `yaml:"api_url,omitempty"`
	LogLevel  string `yaml:"log_level,omitempty"`
	Telemetry bool   `yaml:"telemetry,omitempty"`
	Theme     string `yaml:"theme,omitempty"`
	VimKeys   bool   `yaml:"vim_keys,omitempty"`
}

// Dir returns the directory holding the config and log files.
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".libris")
}

// Path returns the config file path.
func Path() string {
	return filepath.Join(Dir(), "config")
}

// LogPath returns the log file path.
func LogPath() string {
	return filepath.Join(Dir(), "libris.log")
}

// Load reads and parses the config file. A missing file yields the defaults.
func Load() (*Config, error) {
	path := Path()

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat config: %w", err)
	}

	if perm := info.Mode().Perm(); perm&0o022 != 0 {
		return nil, fmt.Errorf("config permissions too open: %04o (want 0600)", perm)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the config to disk with secure permissions.
func (c *Config) Save() error {
	if err := c.Validate(); err != nil {
		return err
	}

	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

// Validate checks the URL and log level.
func (c *Config) Validate() error {
	if c.APIURL != "" {
		if err := checkURL(c.APIURL); err != nil {
			return fmt.Errorf("config api_url: %w", err)
		}
	}
	if _, ok := levels[strings.ToLower(c.LogLevel)]; !ok {
		return fmt.Errorf("config log_level %q: want debug, info, warn or error", c.LogLevel)
	}
	return nil
}

// BaseURL resolves the backend URL: environment first, then the file, then
// the built-in default.
func (c *Config) BaseURL() string {
	if env := strings.TrimSpace(os.Getenv(EnvAPIURL)); env != "" {
		return env
	}
	if c != nil && c.APIURL != "" {
		return c.APIURL
	}
	return api.DefaultBaseURL
}

// Level maps log_level to a slog level, defaulting to info.
func (c *Config) Level() slog.Level {
	if c == nil {
		return slog.LevelInfo
	}
	return levels[strings.ToLower(c.LogLevel)]
}

var levels = map[string]slog.Level{
	"":      slog.LevelInfo,
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

func checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("missing host")
	}
	return nil
}
