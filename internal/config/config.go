package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort string
	MySQLDSN   string
	RedisAddr  string
	RedisDB    int
	RedisPass  string
	JWTSecret  string
	// AllowedOrigins is the CORS allow-list. An empty list grants no
	// cross-origin access.
	AllowedOrigins []string
	// EnableAdminEndpoint registers the unauthenticated /api/create-admin
	// route. Off by default; the supported provisioning path is the
	// bootstrap binary.
	EnableAdminEndpoint bool
	SwaggerHost         string
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	return &Config{
		ServerPort:          getEnv("SERVER_PORT", "3000"),
		MySQLDSN:            getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/surveyhub?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisAddr:           getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:             getEnvInt("REDIS_DB", 0),
		RedisPass:           os.Getenv("REDIS_PASSWORD"),
		JWTSecret:           getEnv("JWT_SECRET", "change-me"),
		AllowedOrigins:      splitCSV(os.Getenv("ALLOWED_ORIGINS")),
		EnableAdminEndpoint: getEnvBool("ENABLE_ADMIN_ENDPOINT", false),
		SwaggerHost:         os.Getenv("SWAGGER_HOST"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
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

// splitCSV parses a comma-separated list, trimming whitespace and dropping
// empty entries.
func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
