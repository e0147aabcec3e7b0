package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Port     string `mapstructure:"port" validate:"required,numeric"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	WordnikAPIKey string `mapstructure:"wordnik_api_key"`
	WordnikURL    string `mapstructure:"wordnik_url" validate:"required,url"`
	DatamuseURL   string `mapstructure:"datamuse_url" validate:"required,url"`
	NewsAPIKey    string `mapstructure:"news_api_key"`
	NewsAPIURL    string `mapstructure:"news_api_url" validate:"required,url"`
	PoetryDBURL   string `mapstructure:"poetrydb_url" validate:"required,url"`
	RedisURL      string `mapstructure:"redis_url" validate:"omitempty,url"`

	SourceTimeout   time.Duration `mapstructure:"source_timeout" validate:"gt=0"`
	TargetWordCount int           `mapstructure:"target_word_count" validate:"gt=0"`
	MinPoolSize     int           `mapstructure:"min_pool_size" validate:"gt=0"`
	MaxAttempts     int           `mapstructure:"max_attempts" validate:"gt=0"`
	RetryDelay      time.Duration `mapstructure:"retry_delay" validate:"gte=0"`
	SeedsPerAttempt int           `mapstructure:"seeds_per_attempt" validate:"gt=0"`
	MaxNewsTopics   int           `mapstructure:"max_news_topics" validate:"gt=0"`

	PrewarmEnabled  bool   `mapstructure:"prewarm_enabled"`
	PrewarmSchedule string `mapstructure:"prewarm_schedule" validate:"required_if=PrewarmEnabled true"`

	RefreshLimit  int64         `mapstructure:"refresh_limit" validate:"gt=0"`
	RefreshWindow time.Duration `mapstructure:"refresh_window" validate:"gt=0"`
}

var defaults = map[string]interface{}{
	"port":              "4000",
	"log_level":         "info",
	"wordnik_api_key":   "",
	"wordnik_url":       "https://api.wordnik.com/v4",
	"datamuse_url":      "https://api.datamuse.com",
	"news_api_key":      "",
	"news_api_url":      "https://newsapi.org/v2",
	"poetrydb_url":      "https://poetrydb.org",
	"redis_url":         "",
	"source_timeout":    "5s",
	"target_word_count": 50,
	"min_pool_size":     100,
	"max_attempts":      3,
	"retry_delay":       "0s",
	"seeds_per_attempt": 4,
	"max_news_topics":   8,
	"prewarm_enabled":   true,
	"prewarm_schedule":  "5 0 * * *",
	"refresh_limit":     5,
	"refresh_window":    "1m",
}

// Load reads configuration from the environment. Every key has a default, so
// an empty environment yields a working config without API keys.
func Load() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
