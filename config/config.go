package config

import (
	"fmt"
	"strings"
	"time"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	KVDriverRedis  = "redis"
	KVDriverMemory = "memory"

	// DefaultStreamTimeout bounds the total wait on one agent stream.
	DefaultStreamTimeout = 25 * time.Second
)

type Config struct {
	Log        Logger         `mapstructure:"logger"`
	API        API            `mapstructure:"api"`
	Telegram   TelegramConfig `mapstructure:"telegram"`
	Cache      Cache          `mapstructure:"cache"`
	KV         KV             `mapstructure:"kv"`
	Session    Session        `mapstructure:"session"`
	Agent      Agent          `mapstructure:"agent"`
	Helius     Helius         `mapstructure:"helius"`
	Onboarding Onboarding     `mapstructure:"onboarding"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding" validate:"omitempty,oneof=json console"`
}

type API struct {
	Port           int     `mapstructure:"port" validate:"gt=0"`
	RateLimit      float64 `mapstructure:"rate_limit" validate:"gt=0"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst" validate:"gt=0"`
}

type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

type TelegramConfig struct {
	BotToken                  string        `mapstructure:"bot_token" validate:"required"`
	WebhookURL                string        `mapstructure:"webhook_url"`
	AlertChatID               int64         `mapstructure:"alert_chat_id"`
	HandlerTimeout            time.Duration `mapstructure:"handler_timeout"`
	MaxGlobalRequestPerSecond int           `mapstructure:"max_global_request_per_second" validate:"gt=0"`
	MaxUserRequestPerSecond   int           `mapstructure:"max_user_request_per_second" validate:"gt=0"`
	MaxEditMessagePerSecond   int           `mapstructure:"max_edit_message_per_second" validate:"gt=0"`
	RatelimitExpireDuration   time.Duration `mapstructure:"ratelimit_expire_duration"`
	RateLimitCleanupDuration  time.Duration `mapstructure:"rate_limit_cleanup_duration"`
}

type KV struct {
	Driver string `mapstructure:"driver" validate:"oneof=redis memory"`
	Redis  Redis  `mapstructure:"redis"`
}

type Redis struct {
	Host        string        `mapstructure:"host" validate:"required_if=Enabled true"`
	Port        int           `mapstructure:"port"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	PoolSize    int           `mapstructure:"pool_size"`
	PoolTimeout time.Duration `mapstructure:"pool_timeout"`
	Prefix      string        `mapstructure:"prefix"`
	Enabled     bool          `mapstructure:"-"`
}

// Session configures the transient per-user chat buffer handed to the agent.
type Session struct {
	TTL      time.Duration `mapstructure:"ttl"`
	MaxTurns int           `mapstructure:"max_turns" validate:"gt=0"`
}

type Agent struct {
	StreamTimeout time.Duration `mapstructure:"stream_timeout"`
	Gemini        Gemini        `mapstructure:"gemini"`
}

type Gemini struct {
	APIKey              string  `mapstructure:"api_key" validate:"required"`
	Model               string  `mapstructure:"model" validate:"required"`
	SystemPrompt        string  `mapstructure:"system_prompt"`
	Temperature         float32 `mapstructure:"temperature"`
	MaxRequestPerMinute int     `mapstructure:"max_request_per_minute" validate:"gt=0"`
	MaxTokenPerMinute   int     `mapstructure:"max_token_per_minute" validate:"gt=0"`
}

type Helius struct {
	BaseURL             string        `mapstructure:"base_url" validate:"required,url"`
	APIKey              string        `mapstructure:"api_key"`
	Timeout             time.Duration `mapstructure:"timeout"`
	AssetsCacheDuration time.Duration `mapstructure:"assets_cache_duration"`
}

type Onboarding struct {
	Steps []string `mapstructure:"steps" validate:"dive,oneof=wallet_address age risk_tolerance total_assets crypto_assets panic_level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.encoding", "json")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.rate_limit", 10)
	v.SetDefault("api.rate_limit_burst", 30)
	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.webhook_url", "")
	v.SetDefault("telegram.alert_chat_id", 0)
	v.SetDefault("telegram.handler_timeout", time.Minute)
	v.SetDefault("telegram.max_global_request_per_second", 30)
	v.SetDefault("telegram.max_user_request_per_second", 1)
	v.SetDefault("telegram.max_edit_message_per_second", 1)
	v.SetDefault("telegram.ratelimit_expire_duration", 10*time.Minute)
	v.SetDefault("telegram.rate_limit_cleanup_duration", time.Minute)
	v.SetDefault("cache.default_expiration", 30*time.Minute)
	v.SetDefault("cache.cleanup_interval", 10*time.Minute)
	v.SetDefault("kv.driver", KVDriverRedis)
	v.SetDefault("kv.redis.host", "localhost")
	v.SetDefault("kv.redis.port", 6379)
	v.SetDefault("kv.redis.password", "")
	v.SetDefault("kv.redis.db", 0)
	v.SetDefault("kv.redis.pool_size", 10)
	v.SetDefault("kv.redis.pool_timeout", 30*time.Second)
	v.SetDefault("kv.redis.prefix", "signalbot")
	v.SetDefault("session.ttl", 2*time.Hour)
	v.SetDefault("session.max_turns", 20)
	v.SetDefault("agent.stream_timeout", DefaultStreamTimeout)
	v.SetDefault("agent.gemini.api_key", "")
	v.SetDefault("agent.gemini.system_prompt", "")
	v.SetDefault("agent.gemini.model", "gemini-2.0-flash")
	v.SetDefault("agent.gemini.temperature", 0.4)
	v.SetDefault("agent.gemini.max_request_per_minute", 15)
	v.SetDefault("agent.gemini.max_token_per_minute", 1000000)
	v.SetDefault("helius.base_url", "https://mainnet.helius-rpc.com")
	v.SetDefault("helius.api_key", "")
	v.SetDefault("helius.timeout", 10*time.Second)
	v.SetDefault("helius.assets_cache_duration", time.Minute)
	v.SetDefault("onboarding.steps", []string{"wallet_address"})
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file loaded:", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AddConfigPath(".")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		fmt.Println("No config file loaded:", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate reports missing credentials and bindings. These are startup
// errors; the process must not initialize the affected component.
func (c *Config) Validate() error {
	c.KV.Redis.Enabled = c.KV.Driver == KVDriverRedis
	if c.Agent.StreamTimeout <= 0 {
		c.Agent.StreamTimeout = DefaultStreamTimeout
	}

	if err := goValidator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
