// Package config loads daemon settings from a YAML file with environment
// variable overrides. Every field has a usable default so a bare
// `gymmate` invocation comes up against a local test double.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Email holds the outbound mail settings. Email notification is off
// unless APIKey is set.
type Email struct {
	APIKey string `yaml:"api_key"`
	From   string `yaml:"from"`
	To     string `yaml:"to"`
}

// Config is the full daemon configuration.
type Config struct {
	ListenAddr      string `yaml:"listen_addr"`
	APIBaseURL      string `yaml:"api_base_url"`
	PushChannelURL  string `yaml:"push_channel_url"`
	DBPath          string `yaml:"db_path"`
	Timezone        string `yaml:"timezone"`
	AudioCommand    string `yaml:"audio_command"`
	RefreshSchedule string `yaml:"refresh_schedule"`
	BasicAuthUser   string `yaml:"basic_auth_user"`
	BasicAuthHash   string `yaml:"basic_auth_hash"`
	CSRFKey         string `yaml:"csrf_key"`
	Email           Email  `yaml:"email"`
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() Config {
	return Config{
		ListenAddr:      "127.0.0.1:8484",
		APIBaseURL:      "http://localhost:9000",
		PushChannelURL:  "",
		DBPath:          "gymmate.db",
		Timezone:        "Local",
		AudioCommand:    "",
		RefreshSchedule: "@every 5m",
	}
}

// Load reads the configuration file at path, then applies GYMMATE_*
// environment overrides. A missing file is not an error; the defaults
// plus environment carry the daemon.
// PRE: none
// POST: the returned config has a non-empty ListenAddr and APIBaseURL
func Load(path string) (Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// defaults only
	default:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnv(&cfg)

	if cfg.ListenAddr == "" || cfg.APIBaseURL == "" {
		return Config{}, fmt.Errorf("config %s: listen_addr and api_base_url must be set", path)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	overrideEnv(&cfg.ListenAddr, "GYMMATE_LISTEN_ADDR")
	overrideEnv(&cfg.APIBaseURL, "GYMMATE_API_BASE_URL")
	overrideEnv(&cfg.PushChannelURL, "GYMMATE_PUSH_CHANNEL_URL")
	overrideEnv(&cfg.DBPath, "GYMMATE_DB_PATH")
	overrideEnv(&cfg.Timezone, "GYMMATE_TIMEZONE")
	overrideEnv(&cfg.AudioCommand, "GYMMATE_AUDIO_COMMAND")
	overrideEnv(&cfg.RefreshSchedule, "GYMMATE_REFRESH_SCHEDULE")
	overrideEnv(&cfg.BasicAuthUser, "GYMMATE_BASIC_AUTH_USER")
	overrideEnv(&cfg.BasicAuthHash, "GYMMATE_BASIC_AUTH_HASH")
	overrideEnv(&cfg.CSRFKey, "GYMMATE_CSRF_KEY")
	overrideEnv(&cfg.Email.APIKey, "GYMMATE_EMAIL_API_KEY")
	overrideEnv(&cfg.Email.From, "GYMMATE_EMAIL_FROM")
	overrideEnv(&cfg.Email.To, "GYMMATE_EMAIL_TO")
}

func overrideEnv(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}
