package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	DBDSN     string
	LogFile   string
	JWTSecret string
	TokenTTL  time.Duration
	BodyLimit int
}

const devSecret = "swapboard-dev-secret"

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] no .env file, using process environment")
	}

	cfg := Config{
		Port:      getEnv("PORT", "8080"),
		DBDSN:     getEnv("DB_DSN", "swapboard.db"), // sqlite file in project root
		LogFile:   getEnv("LOG_FILE", "./swapboard.log"),
		JWTSecret: getEnv("JWT_SECRET", devSecret),
		TokenTTL:  72 * time.Hour,
		BodyLimit: 1 << 20,
	}
	if raw := os.Getenv("TOKEN_TTL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			cfg.TokenTTL = d
		} else {
			log.Printf("[config] bad TOKEN_TTL %q, keeping %s", raw, cfg.TokenTTL)
		}
	}
	if raw := os.Getenv("BODY_LIMIT"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			cfg.BodyLimit = n
		}
	}
	if cfg.JWTSecret == devSecret {
		log.Println("[config] JWT_SECRET not set; using development secret")
	}

	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s TOKEN_TTL=%s", cfg.Port, cfg.DBDSN, cfg.LogFile, cfg.TokenTTL)
	return cfg
}

// getEnv returns the variable when present, even if empty, so LOG_FILE=""
// can disable the file sink.
func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}
