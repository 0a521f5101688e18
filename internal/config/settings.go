package config

import (
	"errors"
	"os"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const defaultBackendBaseURL = "http://127.0.0.1:8000/api/v1/chats"
const defaultRequestTimeout = 30 * time.Second
const defaultConfigRefreshEvery = 6

type Config struct {
	Backend BackendConfig `toml:"backend"`
	Logging LoggingConfig `toml:"logging"`
	UI      UIConfig      `toml:"ui"`
}

type BackendConfig struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type UIConfig struct {
	StartInGrid        bool  `toml:"start_in_grid"`
	GridColumns        int   `toml:"grid_columns"`
	RenderMarkdown     *bool `toml:"render_markdown"`
	ConfigRefreshEvery int   `toml:"config_refresh_every"`
}

func DefaultConfig() Config {
	return Config{
		Backend: BackendConfig{
			BaseURL: defaultBackendBaseURL,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

func Load() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	return loadFromPath(path)
}

func loadFromPath(path string) (Config, error) {
	cfg := DefaultConfig()
	if err := readTOML(path, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) BackendBaseURL() string {
	url := strings.TrimSpace(c.Backend.BaseURL)
	if url == "" {
		return defaultBackendBaseURL
	}
	return strings.TrimRight(url, "/")
}

func (c Config) RequestTimeout() time.Duration {
	if c.Backend.TimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.Backend.TimeoutSeconds) * time.Second
}

func (c Config) LogLevel() string {
	level := strings.TrimSpace(c.Logging.Level)
	if level == "" {
		return "info"
	}
	return level
}

func (c Config) LogFile() string {
	return strings.TrimSpace(c.Logging.File)
}

// GridColumns caps how wide the grid layout spreads; the layout derives
// the actual column count from the number of open panes.
func (c Config) GridColumns() int {
	if c.UI.GridColumns < 1 || c.UI.GridColumns > 3 {
		return 3
	}
	return c.UI.GridColumns
}

func (c Config) RenderMarkdown() bool {
	if c.UI.RenderMarkdown == nil {
		return true
	}
	return *c.UI.RenderMarkdown
}

func (c Config) ConfigRefreshEvery() int {
	if c.UI.ConfigRefreshEvery <= 0 {
		return defaultConfigRefreshEvery
	}
	return c.UI.ConfigRefreshEvery
}

func readTOML(path string, out any) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	return toml.Unmarshal(data, out)
}
