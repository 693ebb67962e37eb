package config

import (
	"flag"
	"regexp"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	// Хранилище: postgres:// DSN либо путь к файлу SQLite (пусто — flashcards.db)
	DatabaseDSN string `env:"DATABASE_URI"`

	// Адрес сервера в виде host:port
	BaseURL     string `env:"BASE_URL"`
	EnableHTTPS bool   `env:"ENABLE_HTTPS"`

	// CORS: список разрешённых origin через запятую, по умолчанию *
	CORSOrigins string `env:"CORS_ORIGINS"`

	// Лимит на создание карточек: RateLimitMax запросов за окно в минутах
	RateLimitMax       int `env:"RATE_LIMIT_MAX"`
	RateLimitWindowMin int `env:"RATE_LIMIT_WINDOW_MIN"`
}

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// flags работают ТОЛЬКО если переменные из env не заданы
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД")
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "адрес сервера (host:port)")
	flag.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "enable HTTPS")
	flag.StringVar(&cfg.CORSOrigins, "cors-origins", cfg.CORSOrigins, "разрешённые CORS origins через запятую")
	flag.IntVar(&cfg.RateLimitMax, "rate-max", cfg.RateLimitMax, "макс. создание карточек за окно")
	flag.IntVar(&cfg.RateLimitWindowMin, "rate-window", cfg.RateLimitWindowMin, "окно лимита в минутах")

	flag.Parse()

	// validate BaseURL: must be in "address:port" (no scheme, no path). Otherwise use default.
	hostPortRe := regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)
	if !hostPortRe.MatchString(cfg.BaseURL) {
		cfg.BaseURL = "localhost:8080"
	}

	// Defaults
	if cfg.CORSOrigins == "" {
		cfg.CORSOrigins = "*"
	}
	if cfg.RateLimitMax <= 0 {
		cfg.RateLimitMax = 100
	}
	if cfg.RateLimitWindowMin <= 0 {
		cfg.RateLimitWindowMin = 15
	}

	return cfg
}

// AllowedOrigins разбирает CORSOrigins в срез для rs/cors.
func (c *Config) AllowedOrigins() []string {
	parts := strings.Split(c.CORSOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}
