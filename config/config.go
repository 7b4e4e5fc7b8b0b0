package config

import "os"

var (
	Port             string
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	RedisAddr        string
	RedisPassword    string
	AuthSecret       string
	ServiceToken     string
	AllowedOrigins   string
)

// Init loads all settings from the environment. Call once at startup, after
// godotenv had a chance to populate the process environment.
func Init() {
	Port = getEnv("PORT", "8080")
	PostgresHost = getEnv("POSTGRES_HOST", "localhost")
	PostgresPort = getEnv("POSTGRES_PORT", "5432")
	PostgresUser = getEnv("POSTGRES_USER", "postgres")
	PostgresPassword = getEnv("POSTGRES_PASSWORD", "postgres")
	PostgresDB = getEnv("POSTGRES_DB", "cracker")
	RedisAddr = getEnv("REDIS_ADDR", "localhost:6379")
	RedisPassword = getEnv("REDIS_PASSWORD", "")
	AuthSecret = getEnv("AUTH_SECRET", "")
	ServiceToken = getEnv("SERVICE_TOKEN", "")
	AllowedOrigins = getEnv("ALLOWED_ORIGINS", "*")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
