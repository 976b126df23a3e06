package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port   string
	AppEnv string

	DBDriver       string // postgres, mysql or sqlite
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBDSN          string // Full DSN, overrides the individual DB_* values
	DBMaxOpenConns int
	DBMaxIdleConns int

	JWTKey    string
	JWTTTL    time.Duration
	SaltRound int

	CorsOrigins string

	SendgridAPIKey  string
	EmailSender     string
	EmailSenderName string

	CodeRunnerURL     string // Piston compatible execute endpoint base URL
	CodeRunnerTimeout time.Duration

	StatsCronSpec string // cron expression for the course stats job, "off" disables it
	CronTimezone  string
}

// LoadConfig reads configuration from the .env file (if present) and the environment
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	cfg := &Config{
		Port:   getEnv("PORT", "5000"),
		AppEnv: getEnv("APP_ENV", "development"),

		DBDriver:       strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", "postgres"),
		DBName:         getEnv("DB_NAME", "edhub"),
		DBDSN:          getEnv("DB_DSN", ""),
		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),

		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		JWTTTL:    time.Duration(getEnvInt("JWT_TTL_HOURS", 72)) * time.Hour,
		SaltRound: getEnvInt("SALT_ROUND", 10),

		CorsOrigins: getEnv("CORS_ORIGINS", "*"),

		SendgridAPIKey:  getEnv("SENDGRID_API_KEY", ""),
		EmailSender:     getEnv("EMAIL_SENDER", "noreply@edhub.local"),
		EmailSenderName: getEnv("EMAIL_SENDER_NAME", "EdHub"),

		CodeRunnerURL:     getEnv("CODE_RUNNER_URL", ""),
		CodeRunnerTimeout: time.Duration(getEnvInt("CODE_RUNNER_TIMEOUT_SECONDS", 10)) * time.Second,

		StatsCronSpec: getEnv("STATS_CRON", "off"),
		CronTimezone:  getEnv("CRON_TIMEZONE", "UTC"),
	}

	// Validate critical configuration
	if cfg.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if cfg.SendgridAPIKey == "" {
		log.Println("Warning: SENDGRID_API_KEY not set. E-mails will only be logged.")
	}

	return cfg, nil
}

// IsProduction reports whether the app runs with production settings
func (c *Config) IsProduction() bool {
	switch strings.ToLower(c.AppEnv) {
	case "prod", "production":
		return true
	}
	return false
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
