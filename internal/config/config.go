package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends understood by db.Open.
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendMySQL    = "mysql"
	BackendPostgres = "postgres"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort    string
	SessionSecret string
	SessionTTL    time.Duration
	SecureCookies bool

	StorageBackend string
	SQLitePath     string
	DatabaseDSN    string

	RedisAddr string
	RedisDB   int
	RedisPass string

	AdminUsername string
	AdminPassword string
	AdminEmail    string
	SeedExamples  bool

	UploadDir      string
	UploadMaxBytes int64

	CORSAllowedOrigins []string
	LogLevel           string
}

// Load builds Config from environment with sensible defaults.
// A .env file in the working directory is read first when present.
func Load() *Config {
	_ = godotenv.Load()

	production := strings.EqualFold(os.Getenv("APP_ENV"), "production")

	backend := BackendFile
	if getEnvBool("HOSTINGER", false) {
		backend = BackendMemory
	}
	backend = strings.ToLower(getEnv("STORAGE_BACKEND", backend))

	return &Config{
		ServerPort:     getEnv("SERVER_PORT", getEnv("PORT", "3000")),
		SessionSecret:  getEnv("SESSION_SECRET", "puppaka-secret-key-change-in-production"),
		SessionTTL:     time.Duration(getEnvInt("SESSION_TTL_HOURS", 24)) * time.Hour,
		SecureCookies:  getEnvBool("SECURE_COOKIES", production),
		StorageBackend: backend,
		SQLitePath:     getEnv("SQLITE_PATH", "data/puppaka.db"),
		DatabaseDSN:    os.Getenv("DATABASE_DSN"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisDB:        getEnvInt("REDIS_DB", 0),
		RedisPass:      os.Getenv("REDIS_PASSWORD"),
		AdminUsername:  getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:  getEnv("ADMIN_PASSWORD", "admin123"),
		AdminEmail:     getEnv("ADMIN_EMAIL", "admin@puppaka.com"),
		SeedExamples:   getEnvBool("SEED_EXAMPLES", backend == BackendMemory),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		UploadMaxBytes: int64(getEnvInt("UPLOAD_MAX_BYTES", 5*1024*1024)),

		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
	}
}

// Validate reports configuration that cannot produce a working server.
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case BackendFile, BackendMemory:
	case BackendMySQL, BackendPostgres:
		if c.DatabaseDSN == "" {
			return fmt.Errorf("DATABASE_DSN is required for storage backend %q", c.StorageBackend)
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET must not be empty")
	}
	if c.UploadMaxBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be positive")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if item := strings.TrimSpace(part); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
