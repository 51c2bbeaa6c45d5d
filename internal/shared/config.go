package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	SMTPAddr    string
	SMTPFrom    string
	SMTPUser    string
	SMTPPass    string
	MailRPS     int
	AdminToken  string
	Workers     int
	RoomsFile   string
	CacheTTL    time.Duration
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ":9100"),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/roomdesk?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisDB:     atoi("REDIS_DB", 0),
		RedisPass:   env("REDIS_PASSWORD", ""),
		SMTPAddr:    env("SMTP_ADDR", ""),
		SMTPFrom:    env("SMTP_FROM", ""),
		SMTPUser:    env("SMTP_USER", ""),
		SMTPPass:    env("SMTP_PASSWORD", ""),
		MailRPS:     atoi("MAIL_RPS", 1),
		AdminToken:  env("ADMIN_TOKEN", ""),
		Workers:     atoi("SEED_WORKERS", 8),
		RoomsFile:   env("ROOMS_FILE", "rooms.json"),
		CacheTTL:    time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
	}
	if c.AdminToken == "" {
		log.Warn().Msg("ADMIN_TOKEN is empty; admin routes will reject every request")
	}
	if c.SMTPAddr == "" {
		log.Warn().Msg("SMTP_ADDR is empty; status emails will fail until configured")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
