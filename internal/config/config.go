package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Endpoint   EndpointConfig
	Chat       ChatConfig
	Attachment AttachmentConfig
	Log        LogConfig
}

// EndpointConfig locates the chat backend.
type EndpointConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	ChatPath    string        `mapstructure:"chat_path"`
	AnalyzePath string        `mapstructure:"analyze_path"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// ChatConfig holds widget behaviour.
type ChatConfig struct {
	// Ordering is "arrival" or "send".
	Ordering    string `mapstructure:"ordering"`
	OpenOnStart bool   `mapstructure:"open_on_start"`
}

// AttachmentConfig holds file picker settings.
type AttachmentConfig struct {
	Accept   []string `mapstructure:"accept"`
	StartDir string   `mapstructure:"start_dir"`
}

// LogConfig holds log file settings. Path "-" disables logging.
type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

// Path returns the config file location: CHATWIDGET_CONFIG when set,
// otherwise config.toml under the user config dir.
func Path() string {
	if p := os.Getenv("CHATWIDGET_CONFIG"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(dir, "chatwidget", "config.toml")
}

func defaultLogPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "chatwidget", "chatwidget.log")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("endpoint.base_url", "http://127.0.0.1:5000")
	v.SetDefault("endpoint.chat_path", "/chat")
	v.SetDefault("endpoint.analyze_path", "/analyze")
	v.SetDefault("endpoint.timeout", "30s")
	v.SetDefault("chat.ordering", "arrival")
	v.SetDefault("chat.open_on_start", false)
	v.SetDefault("attachment.accept", []string{"pdf"})
	v.SetDefault("attachment.start_dir", ".")
	v.SetDefault("log.path", defaultLogPath())
	v.SetDefault("log.level", "info")
}

// Default returns the built-in configuration without reading file or env.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var c Config
	// the defaults above are literals of the field types (durations as
	// strings viper's decode hook parses), so decoding them cannot fail
	_ = v.Unmarshal(&c)
	return c
}

// Load reads configuration from file and env. Env var overrides use prefix CHATWIDGET_.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	v.SetConfigFile(Path())

	v.SetEnvPrefix("CHATWIDGET")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// a missing file is fine; a broken one is not
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, c.Validate()
}

// Validate checks the values a run cannot recover from.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Endpoint.BaseURL) == "" {
		return fmt.Errorf("endpoint.base_url is required")
	}
	if !strings.HasPrefix(c.Endpoint.ChatPath, "/") {
		return fmt.Errorf("endpoint.chat_path must start with /, got %q", c.Endpoint.ChatPath)
	}
	if c.Endpoint.Timeout < 0 {
		return fmt.Errorf("endpoint.timeout must not be negative")
	}
	switch strings.ToLower(c.Chat.Ordering) {
	case "", "arrival", "send":
	default:
		return fmt.Errorf("chat.ordering must be arrival or send, got %q", c.Chat.Ordering)
	}
	return nil
}

// Save writes the provided config to path, creating the directory if needed.
func Save(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("endpoint.base_url", cfg.Endpoint.BaseURL)
	v.Set("endpoint.chat_path", cfg.Endpoint.ChatPath)
	v.Set("endpoint.analyze_path", cfg.Endpoint.AnalyzePath)
	v.Set("endpoint.timeout", cfg.Endpoint.Timeout.String())
	v.Set("chat.ordering", cfg.Chat.Ordering)
	v.Set("chat.open_on_start", cfg.Chat.OpenOnStart)
	v.Set("attachment.accept", cfg.Attachment.Accept)
	v.Set("attachment.start_dir", cfg.Attachment.StartDir)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
