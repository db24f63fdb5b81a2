package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all the configuration for the application. Secrets come
// from the environment; everything else from the YAML file, with env
// overrides for deployment knobs.
type Config struct {
	BotToken string `yaml:"-"`

	FeedURL       string `yaml:"feed_url"`
	GroupChatID   int64  `yaml:"group_chat_id"`
	GroupThreadID int    `yaml:"group_thread_id"`
	// CommandChatID is where /quiz and /ranking are accepted; zero means
	// the group chat itself.
	CommandChatID int64  `yaml:"command_chat_id"`
	Timezone      string `yaml:"timezone"`

	SchedulerInterval string `yaml:"scheduler_interval"`
	MessagePause      string `yaml:"message_pause"`
	FeedCacheTTL      string `yaml:"feed_cache_ttl"`
	RankingLimit      int    `yaml:"ranking_limit"`

	Storage struct {
		Driver string `yaml:"driver"` // sqlite, redis or memory
		Path   string `yaml:"path"`   // sqlite file
		Redis  struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"storage"`
}

// Load reads the YAML config from path and applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// Env-only deployments run without a config file.
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	cfg.BotToken = os.Getenv("BOT_TOKEN")
	if cfg.BotToken == "" {
		return nil, errors.New("BOT_TOKEN environment variable is required")
	}

	if v := os.Getenv("FEED_URL"); v != "" {
		cfg.FeedURL = v
	}
	if v := os.Getenv("GROUP_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid GROUP_CHAT_ID: %w", err)
		}
		cfg.GroupChatID = id
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.Storage.Path = v
	}

	if cfg.FeedURL == "" {
		return nil, errors.New("feed_url is required (config file or FEED_URL)")
	}
	if cfg.GroupChatID == 0 {
		return nil, errors.New("group_chat_id is required (config file or GROUP_CHAT_ID)")
	}

	if cfg.CommandChatID == 0 {
		cfg.CommandChatID = cfg.GroupChatID
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "UTC"
	}
	if cfg.RankingLimit <= 0 {
		cfg.RankingLimit = 10
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "sqlite"
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = "./data/quizbot.db"
	}

	return cfg, nil
}

// Location resolves the configured IANA timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Duration parses a duration string or returns the fallback if empty or
// malformed.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
