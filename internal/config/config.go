package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"auctionhub/api/internal/apperrors"
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type PostgresConfig struct {
	DSN             string
	MaxOpen         int
	MaxIdle         int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type SecurityConfig struct {
	// BaseURL is used as issuer/audience in signed tokens.
	BaseURL          string
	JWTAccessSecret  string
	JWTRefreshSecret string
	JWTAccessTTL     time.Duration
	JWTRefreshTTL    time.Duration
	EmailTokenTTL    time.Duration
}

type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// VerifyLinkBase is the front-end URL the verification code is appended to.
	VerifyLinkBase string
}

type ImageHostConfig struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type JobsConfig struct {
	// TokenSweepSchedule is a six-field cron spec; default fires once a day.
	TokenSweepSchedule string
}

type AppConfig struct {
	Environment      string
	HTTP             HTTPConfig
	Postgres         PostgresConfig
	Redis            RedisConfig
	Security         SecurityConfig
	Mail             MailConfig
	ImageHost        ImageHostConfig
	RateLimit        RateLimitConfig
	Jobs             JobsConfig
	AllowCORSOrigins []string
}

func Load() (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")

	v.SetEnvPrefix("AUCTION")
	v.AutomaticEnv()

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
	if c.Security.JWTAccessSecret == "" {
		return fmt.Errorf("%w: security.jwtaccesssecret is not set", apperrors.ErrEnvironmentMisconfigured)
	}
	if c.Security.JWTRefreshSecret == "" {
		return fmt.Errorf("%w: security.jwtrefreshsecret is not set", apperrors.ErrEnvironmentMisconfigured)
	}
	if c.Postgres.DSN == "" {
		return fmt.Errorf("%w: postgres.dsn is not set", apperrors.ErrEnvironmentMisconfigured)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "15s")
	v.SetDefault("http.idletimeout", "60s")

	v.SetDefault("postgres.maxopen", 30)
	v.SetDefault("postgres.maxidle", 10)
	v.SetDefault("postgres.connmaxlifetime", "30m")

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("security.baseurl", "http://localhost:8080")
	v.SetDefault("security.jwtaccessttl", "15m")
	v.SetDefault("security.jwtrefreshttl", "168h") // 7 days
	v.SetDefault("security.emailtokenttl", "30m")

	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.verifylinkbase", "http://localhost:3000/email-verify")

	v.SetDefault("imagehost.endpoint", "https://api.imgbb.com/1/upload")
	v.SetDefault("imagehost.timeout", "15s")

	v.SetDefault("ratelimit.rps", 5)
	v.SetDefault("ratelimit.burst", 10)

	v.SetDefault("jobs.tokensweepschedule", "0 0 0 * * *") // daily at midnight
}
