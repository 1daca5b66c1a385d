package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTP     HTTPConfig
	DB       DBConfig
	Auth     AuthConfig
	ZarinPal ZarinPalConfig
	Redis    RedisConfig
	SMTP     SMTPConfig
	Shop     ShopConfig
	Jobs     JobsConfig
}

type HTTPConfig struct {
	Addr            string
	BaseURL         string // public base URL of this server (callback target)
	FrontendBaseURL string // redirect target after payment
	SecureCookies   bool
}

type DBConfig struct {
	DSN string
}

type AuthConfig struct {
	JWTSecret       []byte
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

type ZarinPalConfig struct {
	MerchantID  string
	BaseURL     string
	HTTPTimeout time.Duration
}

type RedisConfig struct {
	Addr     string // empty disables caching and rate limiting falls back to in-memory
	Password string
	DB       int
}

type SMTPConfig struct {
	Host          string
	Port          string
	Username      string
	Password      string
	From          string
	FromName      string
	TLSMode       string // none|starttls|tls
	SkipVerifyTLS bool
}

type ShopConfig struct {
	ShippingCents int
}

type JobsConfig struct {
	PendingPaymentMaxAge time.Duration
	SweepSchedule        string // cron spec, empty disables
}

func Load() (Config, error) {
	cfg := Config{
		HTTP: HTTPConfig{
			Addr:            envOr("HTTP_ADDR", ":8000"),
			BaseURL:         envOr("BACKEND_BASE_URL", "http://localhost:8000"),
			FrontendBaseURL: envOr("FRONTEND_BASE_URL", "http://localhost:3000"),
			SecureCookies:   envBool("SECURE_COOKIES", false),
		},
		DB: DBConfig{
			DSN: os.Getenv("DB_DSN"),
		},
		Auth: AuthConfig{
			JWTSecret:       []byte(os.Getenv("JWT_SECRET")),
			AccessTokenTTL:  envDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
			RefreshTokenTTL: envDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		},
		ZarinPal: ZarinPalConfig{
			MerchantID:  os.Getenv("ZARINPAL_MERCHANT_ID"),
			BaseURL:     envOr("ZARINPAL_BASE_URL", "https://payment.zarinpal.com"),
			HTTPTimeout: envDuration("ZARINPAL_HTTP_TIMEOUT", 10*time.Second),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       envInt("REDIS_DB", 0),
		},
		SMTP: SMTPConfig{
			Host:          os.Getenv("SMTP_HOST"),
			Port:          envOr("SMTP_PORT", "587"),
			Username:      os.Getenv("SMTP_USERNAME"),
			Password:      os.Getenv("SMTP_PASSWORD"),
			From:          envOr("SMTP_FROM", "no-reply@localhost"),
			FromName:      envOr("SMTP_FROM_NAME", "Shop"),
			TLSMode:       envOr("SMTP_TLS_MODE", "starttls"),
			SkipVerifyTLS: envBool("SMTP_SKIP_VERIFY_TLS", false),
		},
		Shop: ShopConfig{
			ShippingCents: envInt("SHIPPING_CENTS", 1000),
		},
		Jobs: JobsConfig{
			PendingPaymentMaxAge: envDuration("PENDING_PAYMENT_MAX_AGE", 30*time.Minute),
			SweepSchedule:        envOr("PENDING_SWEEP_SCHEDULE", "@every 10m"),
		},
	}

	if cfg.DB.DSN == "" {
		return Config{}, errors.New("DB_DSN is required")
	}
	if len(cfg.Auth.JWTSecret) == 0 {
		return Config{}, errors.New("JWT_SECRET is required")
	}
	if cfg.ZarinPal.MerchantID == "" {
		return Config{}, errors.New("ZARINPAL_MERCHANT_ID is required")
	}
	return cfg, nil
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envBool(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
