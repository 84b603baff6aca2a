package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env    string
	Port   string
	DBURL  string // empty selects the in-memory store
	Origin string // CORS

	DBMaxConns    int
	SessionSecret string
	SessionTTL    time.Duration
	SeedDemo      bool
	RateLimit     int // requests per minute per client
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if n, err := strconv.Atoi(os.Getenv(k)); err == nil {
		return n
	}
	return def
}

func envBool(k string, def bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(k)); err == nil {
		return b
	}
	return def
}

func envDuration(k string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(k)); err == nil && d > 0 {
		return d
	}
	return def
}

// Load reads the process environment. A .env file in the working directory, when
// present, fills in variables that are not already set.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Env:           env("APP_ENV", "dev"),
		Port:          env("API_PORT", "8080"),
		DBURL:         os.Getenv("DB_DSN"),
		Origin:        env("CORS_ORIGIN", "http://localhost:3000"),
		DBMaxConns:    envInt("DB_MAX_CONNS", 10),
		SessionSecret: env("SESSION_SECRET", "dev-secret-change-me"),
		SessionTTL:    envDuration("SESSION_TTL", 24*time.Hour),
		SeedDemo:      envBool("SEED_DEMO", false),
		RateLimit:     envInt("RATE_LIMIT_PER_MIN", 200),
	}
}
