package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/redis/go-redis/v9"

	rulebook "github.com/KirkDiggler/dnd-sheet-engine/internal/domain/rulebook/dnd5e"
	dnderr "github.com/KirkDiggler/dnd-sheet-engine/internal/errors"
)

// Config holds all configuration for the application
type Config struct {
	Ruleset RulesetConfig
	Discord DiscordConfig
	Redis   RedisConfig
	DND5E   DND5EConfig
}

// RulesetConfig points at the class progression and reference tables
type RulesetConfig struct {
	Dir string `env:"RULESET_DIR"` // Empty means the built-in ruleset
}

// DiscordConfig holds Discord-specific configuration
type DiscordConfig struct {
	Token   string `env:"DISCORD_TOKEN"`
	AppID   string `env:"DISCORD_APP_ID"`
	GuildID string `env:"DISCORD_GUILD_ID"` // Optional: for guild-specific commands

	// Per-user /sheet rate limit; zero disables it
	RateLimit  int           `env:"SHEET_RATE_LIMIT" envDefault:"20"`
	RateWindow time.Duration `env:"SHEET_RATE_WINDOW" envDefault:"1m"`
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	URL string `env:"REDIS_URL"` // Empty means characters are kept in memory
}

// DND5EConfig holds D&D 5e API configuration
type DND5EConfig struct {
	BaseURL string `env:"DND5E_API_URL" envDefault:"https://www.dnd5eapi.co/api"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, dnderr.WrapWithCode(err, dnderr.CodeConfiguration, "failed to parse environment")
	}
	if cfg.Redis.URL != "" {
		if _, err := redis.ParseURL(cfg.Redis.URL); err != nil {
			return nil, dnderr.WrapWithCode(err, dnderr.CodeConfiguration, "invalid REDIS_URL").
				WithMeta("key", "REDIS_URL")
		}
	}
	return cfg, nil
}

// RequireDiscord checks the settings the bot cannot start without
func (c *Config) RequireDiscord() error {
	if c.Discord.Token == "" {
		return dnderr.Configuration("DISCORD_TOKEN is required").WithMeta("key", "DISCORD_TOKEN")
	}
	if c.Discord.AppID == "" {
		return dnderr.Configuration("DISCORD_APP_ID is required").WithMeta("key", "DISCORD_APP_ID")
	}
	return nil
}

// LoadRuleset loads the configured ruleset directory, or the built-in one
func (c *Config) LoadRuleset() (*rulebook.Store, error) {
	if c.Ruleset.Dir == "" {
		return rulebook.LoadDefault()
	}
	return rulebook.LoadDir(c.Ruleset.Dir)
}

// RedisOptions parses REDIS_URL. It returns nil when Redis is not configured.
func (c *Config) RedisOptions() (*redis.Options, error) {
	if c.Redis.URL == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(c.Redis.URL)
	if err != nil {
		return nil, dnderr.WrapWithCode(err, dnderr.CodeConfiguration, "invalid REDIS_URL")
	}
	return opts, nil
}
