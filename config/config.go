package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config collects every environment-backed setting in one place so nothing
// else in the codebase reads os.Getenv directly.
type Config struct {
	Port      string
	MongoURI  string
	MongoDB   string
	RedisAddr string
	JwtSecret []byte
	ShareBase string
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	cfg := Config{
		Port:      getenv("PORT", ":8080"),
		MongoURI:  getenv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDB:   getenv("MONGODB_DB", "benddb"),
		RedisAddr: getenv("REDIS_ADDR", "localhost:6379"),
		JwtSecret: []byte(getenv("JWT_SECRET", "dev_only_secret")),
		ShareBase: getenv("SHARE_BASE_URL", "http://localhost:8080"),
	}
	if cfg.Port[0] != ':' {
		cfg.Port = ":" + cfg.Port
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
