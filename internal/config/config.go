package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config keeps runtime settings for the web server.
type Config struct {
	HTTPAddr          string
	DatabaseURL       string
	SecretKey         string
	SessionTTL        time.Duration
	PasswordMinLength int
	LogLevel          string
	CookieSecure      bool
}

const (
	defaultHTTPAddr        = ":8080"
	defaultDatabaseURL     = "task_manager.db"
	defaultSessionTTLHours = 24 * 14
	defaultPasswordMinLen  = 8
	defaultLogLevel        = "info"
)

// Load reads configuration from environment variables with sane defaults.
// When CONFIG_FILE is set the named file is read first and the environment
// overrides it.
func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", defaultHTTPAddr)
	v.SetDefault("DATABASE_URL", defaultDatabaseURL)
	v.SetDefault("SESSION_TTL_HOURS", defaultSessionTTLHours)
	v.SetDefault("PASSWORD_MIN_LENGTH", defaultPasswordMinLen)
	v.SetDefault("LOG_LEVEL", defaultLogLevel)
	v.SetDefault("COOKIE_SECURE", false)

	if path := strings.TrimSpace(v.GetString("CONFIG_FILE")); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := Config{
		HTTPAddr:          strings.TrimSpace(v.GetString("HTTP_ADDR")),
		DatabaseURL:       strings.TrimSpace(v.GetString("DATABASE_URL")),
		SecretKey:         strings.TrimSpace(v.GetString("SECRET_KEY")),
		SessionTTL:        parseHours(v.GetInt("SESSION_TTL_HOURS")),
		PasswordMinLength: v.GetInt("PASSWORD_MIN_LENGTH"),
		LogLevel:          strings.ToLower(strings.TrimSpace(v.GetString("LOG_LEVEL"))),
		CookieSecure:      v.GetBool("COOKIE_SECURE"),
	}

	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = defaultHTTPAddr
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = defaultDatabaseURL
	}
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = parseHours(defaultSessionTTLHours)
	}
	if cfg.PasswordMinLength < 0 {
		cfg.PasswordMinLength = 0
	}

	if cfg.SecretKey == "" {
		return cfg, fmt.Errorf("SECRET_KEY is required")
	}

	return cfg, nil
}

func parseHours(hours int) time.Duration {
	if hours <= 0 {
		return 0
	}
	return time.Duration(hours) * time.Hour
}
