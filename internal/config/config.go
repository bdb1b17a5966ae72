package config

import (
	"os"

	"formflow/internal/engine"
)

// Config holds the service configuration, read from the environment with
// local-development defaults.
type Config struct {
	MongoURI         string
	MongoDatabase    string
	RedisAddr        string
	HTTPPort         string
	JWTSecret        string
	HostUsername     string
	HostPassword     string
	VisibilityPolicy engine.VisibilityPolicy
	SessionTTLMin    int
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		MongoURI:         getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:    getEnv("MONGO_DATABASE", "formflow"),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		HTTPPort:         getEnv("HTTP_PORT", "8080"),
		JWTSecret:        getEnv("JWT_SECRET", "super-secret-key-change-in-production"),
		HostUsername:     getEnv("HOST_USERNAME", "admin"),
		HostPassword:     getEnv("HOST_PASSWORD", "password123"),
		VisibilityPolicy: engine.VisibilityPolicy(getEnv("VISIBILITY_POLICY", string(engine.PolicyAll))),
		SessionTTLMin:    60,
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
