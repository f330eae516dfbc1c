package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            int
	DatabasePath    string
	MigrationsPath  string
	StaticPath      string
	SessionLifetime time.Duration
	// Cross-origin callers of the JSON API. Empty keeps it same-origin.
	AllowedOrigins  []string

	DiscordKey         string
	DiscordSecret      string
	DiscordCallbackURL string
	GoogleKey          string
	GoogleSecret       string
	GoogleCallbackURL  string
}

// Load reads .env if present, then the environment. Everything has a
// default except the OAuth credentials, which are optional.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("PORT must be between 1 and 65535, got %d", port)
	}

	lifetime, err := time.ParseDuration(getEnv("SESSION_LIFETIME", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_LIFETIME: %w", err)
	}

	var origins []string
	for _, o := range strings.Split(os.Getenv("ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return &Config{
		Port:            port,
		DatabasePath:    getEnv("DATABASE_PATH", "league_tracker.db"),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "migrations"),
		StaticPath:      getEnv("STATIC_PATH", "static"),
		SessionLifetime: lifetime,
		AllowedOrigins:  origins,

		DiscordKey:         os.Getenv("DISCORD_KEY"),
		DiscordSecret:      os.Getenv("DISCORD_SECRET"),
		DiscordCallbackURL: os.Getenv("DISCORD_CALLBACK_URL"),
		GoogleKey:          os.Getenv("GOOGLE_KEY"),
		GoogleSecret:       os.Getenv("GOOGLE_SECRET"),
		GoogleCallbackURL:  os.Getenv("GOOGLE_CALLBACK_URL"),
	}, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
