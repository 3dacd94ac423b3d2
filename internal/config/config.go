package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
)

type Config struct {
	Study   StudyConfig   `mapstructure:"study"`
	Storage StorageConfig `mapstructure:"storage"`
	Remote  RemoteConfig  `mapstructure:"remote"`
}

type StudyConfig struct {
	// Backend selects where cards and packs live: "local" keeps everything
	// on this machine, "remote" syncs them through the timeline backend.
	Backend string `mapstructure:"backend" validate:"required,oneof=local remote"`
}

type StorageConfig struct {
	// Path of the SQLite file holding local study state.
	Path string `mapstructure:"path" validate:"required"`
}

type RemoteConfig struct {
	BaseURL         string `mapstructure:"base_url" validate:"required,url"`
	SessionID       string `mapstructure:"session_id"`
	TimeoutSeconds  int    `mapstructure:"timeout_seconds" validate:"min=1,max=120"`
	MaxRetries      int    `mapstructure:"max_retries" validate:"min=0,max=10"`
	CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds" validate:"min=0"`
}

func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigType("yaml")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/timeline")
	}

	v.SetDefault("study.backend", "local")
	v.SetDefault("storage.path", filepath.Join("data", "study.db"))
	v.SetDefault("remote.base_url", "https://www.aitimeline.app")
	v.SetDefault("remote.timeout_seconds", 10)
	v.SetDefault("remote.max_retries", 3)
	v.SetDefault("remote.cache_ttl_seconds", 30)

	// The session id is a credential and comes from the environment only,
	// never from the config file.
	if err := v.BindEnv("remote.session_id", "TIMELINE_SESSION_ID"); err != nil {
		return nil, fmt.Errorf("failed to bind TIMELINE_SESSION_ID environment variable: %w", err)
	}
	if err := v.BindEnv("remote.base_url", "TIMELINE_BASE_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind TIMELINE_BASE_URL environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
