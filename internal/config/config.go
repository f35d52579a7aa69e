package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env         string `mapstructure:"GO_ENV"`
	Port        string `mapstructure:"PORT"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	FrontendURL string `mapstructure:"FRONTEND_URL"`
	SiteURL     string `mapstructure:"SITE_URL"`

	// Sessions
	JWTSecret         string        `mapstructure:"JWT_SECRET"`
	SessionCookieName string        `mapstructure:"SESSION_COOKIE_NAME"`
	SessionTTL        time.Duration `mapstructure:"SESSION_TTL"`

	// Redis (optional)
	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	PageCacheTTL  time.Duration `mapstructure:"PAGE_CACHE_TTL"`

	// Logging
	LogFile       string `mapstructure:"LOG_FILE"`
	LogMaxSizeMB  int    `mapstructure:"LOG_MAX_SIZE_MB"`
	LogMaxBackups int    `mapstructure:"LOG_MAX_BACKUPS"`
	LogMaxAgeDays int    `mapstructure:"LOG_MAX_AGE_DAYS"`

	DefaultLanguage string `mapstructure:"DEFAULT_LANGUAGE"`
}

var AppConfig = &Config{}

func setDefaults(v *viper.Viper) {
	v.SetDefault("GO_ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("FRONTEND_URL", "http://localhost:3000")
	v.SetDefault("SITE_URL", "https://uplifttech.co")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("SESSION_COOKIE_NAME", "uplift_session")
	v.SetDefault("SESSION_TTL", "168h")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("PAGE_CACHE_TTL", "5m")
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("LOG_MAX_SIZE_MB", 50)
	v.SetDefault("LOG_MAX_BACKUPS", 5)
	v.SetDefault("LOG_MAX_AGE_DAYS", 30)
	v.SetDefault("DEFAULT_LANGUAGE", "en")
}

// LoadConfig reads .env (when present) and the environment into AppConfig.
func LoadConfig() {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		log.Fatalf("Unable to decode config: %v", err)
	}
	cfg.DefaultLanguage = strings.ToLower(cfg.DefaultLanguage)

	if cfg.JWTSecret == "" {
		if cfg.Env == "production" {
			log.Fatal("JWT_SECRET is required in production")
		}
		log.Println("JWT_SECRET not set, using an insecure development secret")
		cfg.JWTSecret = "uplift-dev-secret"
	}

	AppConfig = cfg
}
