package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	Port        string
	StoreDriver string // "sqlite" | "file" | "redis"
	DBPath      string
	DataDir     string
	RedisAddr   string
	RedisPrefix string
	DefaultUser string
	DefaultName string
}

// Load reads configuration from the environment, after loading a .env
// file if one is present, and falls back to defaults.
func Load() *Config {
	godotenv.Load()

	dataDir := getEnv("DATA_DIR", "data")
	return &Config{
		Port:        getEnv("PORT", "8080"),
		StoreDriver: getEnv("STORE_DRIVER", "sqlite"),
		DBPath:      getEnv("DB_PATH", filepath.Join(dataDir, "socialpro.db")),
		DataDir:     dataDir,
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPrefix: getEnv("REDIS_PREFIX", "socialpro:"),
		DefaultUser: getEnv("DEFAULT_USER", "justo"),
		DefaultName: getEnv("DEFAULT_NAME", "Justo"),
	}
}

// getEnv reads an environment variable or returns the default value.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
