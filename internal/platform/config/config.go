package config

import (
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/ulule/limiter/v3"
)

const (
	defaultPort      = "8080"
	defaultJWTIssuer = "fieldops-identity"
	defaultRateLimit = "100-M"
	defaultLogLevel  = "info"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL        string
	Port               string
	IsProduction       bool
	LogLevel           slog.Level
	JWTSecret          string
	JWTIssuer          string
	RateLimit          limiter.Rate
	CORSAllowedOrigins []string
	PosthogAPIKey      string
	PosthogEndpoint    string
	RunMigrations      bool
}

// LoadConfig loads configuration from environment variables and .env file if present.
// Invalid values fall back to defaults with a warning on logger.
func LoadConfig(logger *slog.Logger) (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", defaultPort)
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("LOG_LEVEL", defaultLogLevel)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ISSUER", defaultJWTIssuer)
	v.SetDefault("RATE_LIMIT", defaultRateLimit)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("POSTHOG_API_KEY", "")
	v.SetDefault("POSTHOG_ENDPOINT", "")
	v.SetDefault("RUN_MIGRATIONS", true)
	v.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:     v.GetString("PGSQL_URL"),
		Port:            v.GetString("PORT"),
		IsProduction:    v.GetBool("IS_PRODUCTION"),
		JWTSecret:       v.GetString("JWT_SECRET"),
		JWTIssuer:       v.GetString("JWT_ISSUER"),
		PosthogAPIKey:   v.GetString("POSTHOG_API_KEY"),
		PosthogEndpoint: v.GetString("POSTHOG_ENDPOINT"),
		RunMigrations:   v.GetBool("RUN_MIGRATIONS"),
	}

	if cfg.DatabaseURL == "" {
		logger.Warn("PGSQL_URL environment variable not set.")
	}

	if cfg.Port == "" {
		cfg.Port = defaultPort
		logger.Warn("PORT environment variable not set.", slog.String("default", cfg.Port))
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction {
			logger.Error("JWT_SECRET is required in production.")
		} else {
			logger.Warn("JWT_SECRET not set, authenticated routes will reject every token.")
		}
	}

	cfg.LogLevel = parseLogLevel(v.GetString("LOG_LEVEL"), logger)

	rateStr := v.GetString("RATE_LIMIT")
	rate, err := limiter.NewRateFromFormatted(rateStr)
	if err != nil {
		logger.Warn("Invalid value for RATE_LIMIT.", slog.String("value", rateStr), slog.String("default", defaultRateLimit))
		rate, _ = limiter.NewRateFromFormatted(defaultRateLimit)
	}
	cfg.RateLimit = rate

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	return cfg, nil
}

func parseLogLevel(raw string, logger *slog.Logger) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
		logger.Warn("Invalid value for LOG_LEVEL.", slog.String("value", raw), slog.String("default", defaultLogLevel))
		return slog.LevelInfo
	}
	return level
}
