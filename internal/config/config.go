package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Environment variables read by ApplyEnv. The names match the legacy
// launcher so existing deployments keep working.
const (
	EnvToken    = "BOT_API_KEY"
	EnvAppToken = "BOT_APP_TOKEN"
	EnvDBPath   = "BOT_DB_PATH"
	EnvName     = "BOT_NAME"
	EnvPrefix   = "BOT_PREFIX"
)

// DBFileName is the database file created under the base directory when
// no explicit db_path is configured.
const DBFileName = "linkbot.db"

// Config holds application configuration.
type Config struct {
	// Name is the display name of the bot user.
	Name string `json:"name"`

	// DBPath is the SQLite database file. Relative paths are resolved by the caller.
	DBPath string `json:"db_path,omitempty"`

	// Prefix is the single reserved character that marks a chat message as a command.
	Prefix string `json:"prefix"`

	// Token is the chat platform bot token (xoxb-...). Usually supplied via BOT_API_KEY.
	Token string `json:"token,omitempty"`

	// AppToken is the app-level token (xapp-...) used to open the Socket Mode connection.
	AppToken string `json:"app_token,omitempty"`

	// DefaultChannel is where the first-run welcome is posted.
	// Empty means the first channel the bot is a member of.
	DefaultChannel string `json:"default_channel,omitempty"`

	// WeatherURL is the base URL of the wttr.in compatible weather service.
	WeatherURL string `json:"weather_url"`

	// WeatherUnits is "F" or "C".
	WeatherUnits string `json:"weather_units"`

	// CollaboratorTimeoutSeconds bounds each weather lookup.
	CollaboratorTimeoutSeconds int `json:"collaborator_timeout_seconds"`

	// MaxConcurrentCommands bounds how many chat commands execute at once.
	MaxConcurrentCommands int `json:"max_concurrent_commands"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// 0 means use sql.DB default (unlimited).
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:                       "LinkBot",
		Prefix:                     ".",
		WeatherURL:                 "https://wttr.in",
		WeatherUnits:               "F",
		CollaboratorTimeoutSeconds: 10,
		MaxConcurrentCommands:      16,
	}
}

// CollaboratorTimeout returns the bounded wait for external lookups.
func (c *Config) CollaboratorTimeout() time.Duration {
	return time.Duration(c.CollaboratorTimeoutSeconds) * time.Second
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist. DBPath defaults to
// baseDir/linkbot.db.
func Load(baseDir string) (*Config, error) {
	cfg, err := LoadFile(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(baseDir, DBFileName)
	}
	return cfg, nil
}

// LoadFile loads configuration from a specific file path on top of the defaults.
// A missing file yields the defaults.
func LoadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyEnv overlays environment variables onto cfg and returns the result.
// getenv is usually os.Getenv; tests pass a map lookup.
func ApplyEnv(cfg *Config, getenv func(string) string) *Config {
	overlay := &Config{
		Token:    strings.TrimSpace(getenv(EnvToken)),
		AppToken: strings.TrimSpace(getenv(EnvAppToken)),
		DBPath:   strings.TrimSpace(getenv(EnvDBPath)),
		Name:     strings.TrimSpace(getenv(EnvName)),
		Prefix:   strings.TrimSpace(getenv(EnvPrefix)),
	}
	return Merge(cfg, overlay)
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.Name = pickString(overlay.Name, base.Name)
	result.DBPath = pickString(overlay.DBPath, base.DBPath)
	result.Prefix = pickString(overlay.Prefix, base.Prefix)
	result.Token = pickString(overlay.Token, base.Token)
	result.AppToken = pickString(overlay.AppToken, base.AppToken)
	result.DefaultChannel = pickString(overlay.DefaultChannel, base.DefaultChannel)
	result.WeatherURL = pickString(overlay.WeatherURL, base.WeatherURL)
	result.WeatherUnits = pickString(strings.ToUpper(overlay.WeatherUnits), base.WeatherUnits)

	result.CollaboratorTimeoutSeconds = pickInt(overlay.CollaboratorTimeoutSeconds, base.CollaboratorTimeoutSeconds)
	result.MaxConcurrentCommands = pickInt(overlay.MaxConcurrentCommands, base.MaxConcurrentCommands)
	result.DBMaxOpenConns = pickInt(overlay.DBMaxOpenConns, base.DBMaxOpenConns)
	result.DBMaxIdleConns = pickInt(overlay.DBMaxIdleConns, base.DBMaxIdleConns)

	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

func pickString(overlay, base string) string {
	if overlay != "" {
		return overlay
	}
	return base
}

func pickInt(overlay, base int) int {
	if overlay != 0 {
		return overlay
	}
	return base
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
