// Package config loads todo settings from defaults, an optional YAML file,
// a .env file, environment variables and CLI flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// AppName is the configuration directory name.
	AppName = "todo"

	// EnvPrefix prefixes every environment variable except BACKEND_URL.
	EnvPrefix = "TODO"

	// DefaultBackendURL is the local development address of the todo service.
	DefaultBackendURL = "http://localhost:8000"

	// DefaultListenAddr is where `todo serve` listens.
	DefaultListenAddr = "127.0.0.1:8000"
)

// Keys used with viper.
const (
	KeyBackendURL = "backend_url"
	KeyLogLevel   = "log_level"
	KeyLogFile    = "log_file"
	KeyListenAddr = "listen_addr"
	KeyDBPath     = "db_path"
)

// Config holds the resolved settings.
type Config struct {
	// BackendURL is the address of the remote todo service.
	BackendURL string `mapstructure:"backend_url" validate:"required,url"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// LogFile receives TUI logs. Empty discards them.
	LogFile string `mapstructure:"log_file"`
	// ListenAddr is the dev backend listen address.
	ListenAddr string `mapstructure:"listen_addr" validate:"required,hostname_port"`
	// DBPath is the dev backend SQLite database.
	DBPath string `mapstructure:"db_path" validate:"required"`
}

var validate = validator.New()

// Dir returns the configuration directory, honouring XDG_CONFIG_HOME.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// SetDefaults registers defaults and environment bindings on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyBackendURL, DefaultBackendURL)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyListenAddr, DefaultListenAddr)
	v.SetDefault(KeyDBPath, filepath.Join(Dir(), "todo.db"))

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	// The backend address keeps its historical unprefixed name.
	_ = v.BindEnv(KeyBackendURL, "BACKEND_URL", EnvPrefix+"_BACKEND_URL")
}

// Load resolves the configuration. configFile may be empty, in which case
// config.yaml in Dir() is used when present.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	// A missing .env is fine.
	_ = godotenv.Load()

	SetDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(Dir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %q)", e.Field(), e.Tag(), fmt.Sprint(e.Value())))
	}
	return errors.New(strings.Join(msgs, "; "))
}
