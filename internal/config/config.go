package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "toml"
	configDir  = ".tack"
	envPrefix  = "TACK"

	BackendBadger = "badger"
	BackendTOML   = "toml"
	BackendFile   = "file"
	BackendChain  = "chain"
	BackendPass   = "pass"

	defaultSourceTimeout = 15 * time.Second
	defaultSessionTTL    = 12 * time.Hour
)

type Config struct {
	Dir     string
	Storage Storage
	Sources Sources
	Session Session
	Log     Log
}

type Storage struct {
	Backend string `validate:"oneof=badger toml file chain pass"`
	Path    string `validate:"required"`
}

type Sources struct {
	ListsURL    string `validate:"omitempty,url"`
	CatalogURL  string `validate:"omitempty,url"`
	ListsFile   string
	CatalogFile string
	Timeout     time.Duration `validate:"gt=0"`
}

type Session struct {
	TTL time.Duration `validate:"gt=0"`
}

type Log struct {
	File  string
	Debug bool
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads ~/.tack/config.toml when present, applies defaults and lets
// TACK_* environment variables override any key (storage.backend becomes
// TACK_STORAGE_BACKEND).
func Load(cfg *viper.Viper) (Config, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("resolve home directory: %w", err)
	}
	dir := filepath.Join(homeDir, configDir)

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(dir)
	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	cfg.SetDefault("storage.backend", BackendBadger)
	cfg.SetDefault("storage.path", filepath.Join(dir, "data"))
	cfg.SetDefault("sources.lists_url", "")
	cfg.SetDefault("sources.catalog_url", "")
	cfg.SetDefault("sources.lists_file", "")
	cfg.SetDefault("sources.catalog_file", "")
	cfg.SetDefault("sources.timeout", defaultSourceTimeout)
	cfg.SetDefault("session.ttl", defaultSessionTTL)
	cfg.SetDefault("log.file", "")
	cfg.SetDefault("log.debug", false)

	if err := cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	out := Config{
		Dir: dir,
		Storage: Storage{
			Backend: strings.ToLower(strings.TrimSpace(cfg.GetString("storage.backend"))),
			Path:    expandHome(cfg.GetString("storage.path"), homeDir),
		},
		Sources: Sources{
			ListsURL:    strings.TrimSpace(cfg.GetString("sources.lists_url")),
			CatalogURL:  strings.TrimSpace(cfg.GetString("sources.catalog_url")),
			ListsFile:   expandHome(cfg.GetString("sources.lists_file"), homeDir),
			CatalogFile: expandHome(cfg.GetString("sources.catalog_file"), homeDir),
			Timeout:     cfg.GetDuration("sources.timeout"),
		},
		Session: Session{TTL: cfg.GetDuration("session.ttl")},
		Log: Log{
			File:  expandHome(cfg.GetString("log.file"), homeDir),
			Debug: cfg.GetBool("log.debug"),
		},
	}

	if err := validate.Struct(out); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}

	return out, nil
}

func expandHome(path, homeDir string) string {
	path = strings.TrimSpace(path)
	if path == "~" {
		return homeDir
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir, path[2:])
	}
	return path
}
