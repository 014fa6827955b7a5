package api

import (
	"log"
	"os"
	"time"
)

// Config holds API configuration loaded from environment variables.
type Config struct {
	MongoURI      string
	MongoDatabase string
	JWTSecret     string
	JWTIssuer     string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	SeedLevels    bool
	AdminUsername string
	AdminPassword string
	LevelName     string
}

func LoadConfig() Config {
	cfg := Config{
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DB", "burrow"),
		JWTSecret:     getEnv("JWT_SECRET", "dev-secret-change-me"),
		JWTIssuer:     getEnv("JWT_ISSUER", "burrow-server"),
		ReadTimeout:   parseDuration(getEnv("API_READ_TIMEOUT", "15s"), 15*time.Second),
		WriteTimeout:  parseDuration(getEnv("API_WRITE_TIMEOUT", "15s"), 15*time.Second),
		SeedLevels:    getEnv("LEVEL_SEED", "true") == "true",
		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "ChangeMe1!"),
		LevelName:     getEnv("LEVEL_NAME", ""),
	}
	if cfg.JWTSecret == "dev-secret-change-me" {
		log.Println("[WARN] Using default JWT secret; set JWT_SECRET in production")
	}
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}
