package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/mmcdole/reel/internal/validation"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Player   PlayerConfig   `mapstructure:"player"`
	Chapters ChaptersConfig `mapstructure:"chapters"`
	UI       UIConfig       `mapstructure:"ui"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// PlayerConfig holds media player configuration
type PlayerConfig struct {
	Command      string        `mapstructure:"command"`
	Args         []string      `mapstructure:"args"`
	StartFlag    string        `mapstructure:"start_flag"` // e.g., "--start=" or "--start-time="
	Socket       string        `mapstructure:"socket"`     // mpv IPC socket path
	PollInterval time.Duration `mapstructure:"poll_interval" validate:"gt=0"`
}

// ChaptersConfig controls how chapter metadata is read
type ChaptersConfig struct {
	TitleFrom string `mapstructure:"title_from" validate:"oneof=id text"` // which WebVTT cue field titles a chapter
	Selector  string `mapstructure:"selector"`   // container id in HTML sequence pages
}

// UIConfig holds UI configuration
type UIConfig struct {
	ShowContent bool `mapstructure:"show_content"`
	MenuWidth   int  `mapstructure:"menu_width" validate:"min=10"`
}

// CacheConfig holds metadata cache configuration
type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Dir     string `mapstructure:"dir"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level" validate:"oneof=DEBUG INFO WARN WARNING ERROR debug info warn warning error"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Player: PlayerConfig{
			Command:      "mpv",
			Args:         []string{},
			Socket:       filepath.Join(os.TempDir(), "reel-mpv.sock"),
			PollInterval: 250 * time.Millisecond,
		},
		Chapters: ChaptersConfig{
			TitleFrom: "id",
			Selector:  "sequences-data",
		},
		UI: UIConfig{
			ShowContent: true,
			MenuWidth:   36,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     defaultCachePath(),
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "reel", "reel.log")
	default:
		home, _ := homedir.Dir()
		return filepath.Join(home, ".local", "share", "reel", "reel.log")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "reel")
	default:
		home, _ := homedir.Dir()
		return filepath.Join(home, ".config", "reel")
	}
}

// ConfigFile returns the path SaveConfig writes to
func ConfigFile() string {
	return filepath.Join(defaultConfigPath(), "config.yaml")
}

// defaultCachePath returns the default cache directory path for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "reel", "cache")
	default:
		home, _ := homedir.Dir()
		return filepath.Join(home, ".local", "share", "reel", "cache")
	}
}

// newViper builds a viper instance seeded with defaults so env overrides
// work for keys that are absent from the config file
func newViper(cfg *Config) *viper.Viper {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetDefault("player.command", cfg.Player.Command)
	v.SetDefault("player.args", cfg.Player.Args)
	v.SetDefault("player.start_flag", cfg.Player.StartFlag)
	v.SetDefault("player.socket", cfg.Player.Socket)
	v.SetDefault("player.poll_interval", cfg.Player.PollInterval)
	v.SetDefault("chapters.title_from", cfg.Chapters.TitleFrom)
	v.SetDefault("chapters.selector", cfg.Chapters.Selector)
	v.SetDefault("ui.show_content", cfg.UI.ShowContent)
	v.SetDefault("ui.menu_width", cfg.UI.MenuWidth)
	v.SetDefault("cache.enabled", cfg.Cache.Enabled)
	v.SetDefault("cache.dir", cfg.Cache.Dir)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)

	// Environment variable overrides, e.g. REEL_PLAYER_SOCKET
	v.SetEnvPrefix("REEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig loads configuration from the default locations and environment
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(defaultConfigPath(), ".")
}

// LoadConfigFrom loads configuration searching the given directories in order
func LoadConfigFrom(dirs ...string) (*Config, error) {
	cfg := DefaultConfig()
	v := newViper(cfg)
	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerated and ranged settings
func (c *Config) Validate() error {
	return validation.New().Validate(c)
}

// SaveConfig saves the configuration to the default config directory
func SaveConfig(cfg *Config) error {
	return SaveConfigTo(cfg, defaultConfigPath())
}

// SaveConfigTo writes cfg as config.yaml inside dir
func SaveConfigTo(cfg *Config, dir string) error {
	// Ensure config directory exists
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()

	// Set fields individually to ensure correct key names (snake_case)
	v.Set("player.command", cfg.Player.Command)
	v.Set("player.args", cfg.Player.Args)
	v.Set("player.start_flag", cfg.Player.StartFlag)
	v.Set("player.socket", cfg.Player.Socket)
	v.Set("player.poll_interval", cfg.Player.PollInterval.String())

	v.Set("chapters.title_from", cfg.Chapters.TitleFrom)
	v.Set("chapters.selector", cfg.Chapters.Selector)

	v.Set("ui.show_content", cfg.UI.ShowContent)
	v.Set("ui.menu_width", cfg.UI.MenuWidth)

	v.Set("cache.enabled", cfg.Cache.Enabled)
	v.Set("cache.dir", cfg.Cache.Dir)

	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(dir, "config.yaml")
	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// CacheDir returns the store directory, empty when caching is disabled
func (c *Config) CacheDir() string {
	if !c.Cache.Enabled {
		return ""
	}
	return c.Cache.Dir
}
