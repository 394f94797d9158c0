package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Log      LogConfig      `toml:"log"`
	UI       UIConfig       `toml:"ui"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type LogConfig struct {
	Path  string `toml:"path"`
	Level string `toml:"level"`
}

type UIConfig struct {
	Placeholder     string `toml:"placeholder" mapstructure:"placeholder"`
	DefaultCategory string `toml:"default_category" mapstructure:"default_category"`
}

// configDir returns the directory for config files, using
// XDG_CONFIG_HOME or falling back to ~/.config.
func configDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}
	return filepath.Join(dir, "category-picker"), nil
}

func defaultConfig() Config {
	dataDir := filepath.Join(os.Getenv("HOME"), ".local", "share", "category-picker")
	return Config{
		Database: DatabaseConfig{Path: filepath.Join(dataDir, "picker.db")},
		Log:      LogConfig{Path: filepath.Join(dataDir, "debug.log"), Level: "info"},
		UI:       UIConfig{Placeholder: "-- Choose One --"},
	}
}

// LoadConfig reads configuration from file and env. An explicit path wins
// over PICKER_CONFIG. Env var overrides use prefix PICKER_.
func LoadConfig(path string) (Config, error) {
	def := defaultConfig()
	v := viper.New()

	v.SetDefault("database.path", def.Database.Path)
	v.SetDefault("log.path", def.Log.Path)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("ui.placeholder", def.UI.Placeholder)
	v.SetDefault("ui.default_category", def.UI.DefaultCategory)

	v.SetConfigType("toml")

	if path == "" {
		path = os.Getenv("PICKER_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else if dir, err := configDir(); err == nil {
		v.AddConfigPath(dir)
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("PICKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// WriteDefaultConfig writes the default config to path, or to the
// standard location when path is empty. An existing file is kept.
func WriteDefaultConfig(path string) (string, error) {
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(dir, "config.toml")
	}
	if _, err := os.Stat(path); err == nil {
		return path, fmt.Errorf("config %s already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("write default config: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(defaultConfig()); err != nil {
		return "", fmt.Errorf("encode default config: %w", err)
	}
	return path, nil
}
