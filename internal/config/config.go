package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// APIConfig points at the marketplace backend. BaseURL includes the /api prefix.
type APIConfig struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

type TokensConfig struct {
	Backend   string
	Path      string
	KeyPrefix string
	ClockSkew time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JobsConfig struct {
	Enabled          bool
	RefreshSpec      string
	RefreshAhead     time.Duration
	NotificationSpec string
}

type LogConfig struct {
	Level string
}

type FrontendConfig struct {
	LoginPath string
}

type AppConfig struct {
	Environment      string
	HTTP             HTTPConfig
	API              APIConfig
	Tokens           TokensConfig
	Redis            RedisConfig
	Jobs             JobsConfig
	Log              LogConfig
	Frontend         FrontendConfig
	AllowCORSOrigins []string
}

const (
	TokenBackendMemory = "memory"
	TokenBackendFile   = "file"
	TokenBackendRedis  = "redis"
)

// Load reads config.yaml, then EDUMASTER_* environment variables, which may
// come from a .env file in the working directory.
func Load() (*AppConfig, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")

	v.SetEnvPrefix("EDUMASTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return load(v)
}

// loadDotEnv never overrides variables already set in the environment.
func loadDotEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

func load(v *viper.Viper) (*AppConfig, error) {
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *AppConfig) validate() error {
	switch c.Tokens.Backend {
	case TokenBackendMemory, TokenBackendFile, TokenBackendRedis:
	default:
		return fmt.Errorf("tokens.backend %q: want memory, file or redis", c.Tokens.Backend)
	}
	if c.Tokens.ClockSkew < 0 || c.Tokens.ClockSkew > time.Minute {
		return fmt.Errorf("tokens.clockskew %s: must be within 0s..60s", c.Tokens.ClockSkew)
	}
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.baseurl is required")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("http.host", "127.0.0.1")
	v.SetDefault("http.port", 3000)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "15s")
	v.SetDefault("http.idletimeout", "60s")

	v.SetDefault("api.baseurl", "http://localhost:8080/api")
	v.SetDefault("api.timeout", "15s")
	v.SetDefault("api.useragent", "edumaster-web")

	v.SetDefault("tokens.backend", TokenBackendFile)
	v.SetDefault("tokens.path", ".edumaster/tokens.json")
	v.SetDefault("tokens.keyprefix", "edumaster:tokens")
	v.SetDefault("tokens.clockskew", "30s")

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("jobs.enabled", true)
	v.SetDefault("jobs.refreshspec", "@every 30s")
	v.SetDefault("jobs.refreshahead", "2m")
	v.SetDefault("jobs.notificationspec", "@every 1m")

	v.SetDefault("log.level", "")
	v.SetDefault("allowcorsorigins", "")

	v.SetDefault("frontend.loginpath", "/login")
}
