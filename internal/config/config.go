package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	ServerAddr  string
	LogLevel    string
	CORSOrigins string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	RedisURL string
	SeedFile string

	BootstrapAdmin BootstrapAdmin

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
}

// BootstrapAdmin is created on startup when no admin exists yet.
type BootstrapAdmin struct {
	Email     string
	Password  string
	AdminCode string
	Name      string
}

func (b BootstrapAdmin) Enabled() bool {
	return b.Email != "" && b.Password != ""
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		ServerAddr:  getEnv("SERVER_ADDR", ":8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "backoffice"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		RedisURL: getEnv("REDIS_URL", ""),
		SeedFile: getEnv("SEED_FILE", "./seed/taxonomy.yaml"),

		BootstrapAdmin: BootstrapAdmin{
			Email:     strings.ToLower(getEnv("BOOTSTRAP_ADMIN_EMAIL", "")),
			Password:  getEnv("BOOTSTRAP_ADMIN_PASSWORD", ""),
			AdminCode: getEnv("BOOTSTRAP_ADMIN_CODE", "ADM-001"),
			Name:      getEnv("BOOTSTRAP_ADMIN_NAME", "Administrator"),
		},

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8080/api/auth/google/callback"),
	}

	log.Info().Str("env", cfg.AppEnv).Msg("✅ Config loaded")
	return cfg
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
