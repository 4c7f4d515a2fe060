// Package config handles configuration loading for serve-delayed.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// DefaultBindAddr is used when BIND_ADDR is unset or empty.
	DefaultBindAddr = "0.0.0.0:5000"
	// DefaultWebRoot is used when WEB_ROOT is unset or empty.
	DefaultWebRoot = "./"
)

// Config is the configuration snapshot taken once at startup.
// It is passed around by value and never mutated after Load returns.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging"`
	AccessLog AccessLogConfig `mapstructure:"access_log" yaml:"access_log"`
}

// ServerConfig represents listener and file serving configuration.
type ServerConfig struct {
	BindAddr        string        `mapstructure:"bind_addr" yaml:"bind_addr"`
	WebRoot         string        `mapstructure:"web_root" yaml:"web_root"`
	MaxDelay        time.Duration `mapstructure:"max_delay" yaml:"max_delay"` // 0 disables the cap
	Confine         bool          `mapstructure:"confine" yaml:"confine"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// LoggingConfig represents logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"` // text, json
}

// AccessLogConfig represents the optional request recorder.
type AccessLogConfig struct {
	Path string `mapstructure:"path" yaml:"path"` // empty disables recording
}

// Load loads the configuration from an optional file and environment variables.
// If path is non-empty the file must exist.
func Load(path string) (Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("serve-delayed")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := ConfigDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	// Bind environment variables
	v.SetEnvPrefix("SERVE_DELAYED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Short names documented for the server
	v.BindEnv("server.bind_addr", "BIND_ADDR")
	v.BindEnv("server.web_root", "WEB_ROOT")
	v.BindEnv("server.max_delay", "MAX_DELAY")
	v.BindEnv("server.confine", "CONFINE_ROOT")
	v.BindEnv("server.shutdown_timeout", "SHUTDOWN_TIMEOUT")
	v.BindEnv("logging.level", "LOG_LEVEL")
	v.BindEnv("logging.format", "LOG_FORMAT")
	v.BindEnv("access_log.path", "ACCESS_LOG_DB")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// An empty value in a config file means the same as unset.
	if cfg.Server.BindAddr == "" {
		cfg.Server.BindAddr = DefaultBindAddr
	}
	if cfg.Server.WebRoot == "" {
		cfg.Server.WebRoot = DefaultWebRoot
	}
	if cfg.Server.MaxDelay < 0 {
		return Config{}, fmt.Errorf("max_delay must not be negative, got %s", cfg.Server.MaxDelay)
	}

	cfg.AccessLog.Path = os.ExpandEnv(cfg.AccessLog.Path)

	return cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.bind_addr", DefaultBindAddr)
	v.SetDefault("server.web_root", DefaultWebRoot)
	v.SetDefault("server.max_delay", "0s")
	v.SetDefault("server.confine", false)
	v.SetDefault("server.shutdown_timeout", "10s")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	// Access log is disabled unless a path is given
	v.SetDefault("access_log.path", "")
}

// ConfigDir returns the per-user configuration directory.
func ConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "serve-delayed"), nil
}

// EnsureStorageDir ensures the directory for the storage path exists.
func EnsureStorageDir(storagePath string) error {
	dir := filepath.Dir(storagePath)
	return os.MkdirAll(dir, 0755)
}
