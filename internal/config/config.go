package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type RabbitMQConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Username string
	Password string
	VHost    string
	Exchange string
	Queue    string
}

type Config struct {
	Env       string
	HTTPPort  string
	DSN       string
	ClientURL string

	AdminEmail    string
	AdminPassword string

	JWTAccessSecret  string
	JWTRefreshSecret string
	JWTResetSecret   string
	AccessTokenTTL   time.Duration
	RefreshTokenTTL  time.Duration
	ResetTokenTTL    time.Duration

	LogsDirectory string

	SMTP     SMTPConfig
	RabbitMQ RabbitMQConfig
}

// Load reads configuration from the environment, with a .env file as
// fallback for local development.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	return &Config{
		Env:       getEnvOrDefault("APP_ENV", "development"),
		HTTPPort:  getEnvOrDefault("PORT", "4000"),
		DSN:       getEnvOrDefault("DATABASE_DSN", "host=localhost port=5432 user=postgres password=postgres dbname=courier sslmode=disable"),
		ClientURL: getEnvOrDefault("CLIENT_URL", "http://localhost:3000"),

		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		JWTAccessSecret:  getEnvOrDefault("JWT_SECRET", "dev-access-secret"),
		JWTRefreshSecret: getEnvOrDefault("REFRESH_TOKEN_SECRET", "dev-refresh-secret"),
		JWTResetSecret:   getEnvOrDefault("JWT_RESET_PASSWORD_SECRET", "dev-reset-secret"),
		AccessTokenTTL:   getEnvDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL:  getEnvDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		ResetTokenTTL:    getEnvDuration("RESET_TOKEN_TTL", time.Hour),

		LogsDirectory: os.Getenv("LOGS_DIRECTORY"),

		SMTP: SMTPConfig{
			Host:     getEnvOrDefault("SMTP_HOST", "smtp.gmail.com"),
			Port:     getEnvInt("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getEnvOrDefault("SMTP_FROM", os.Getenv("SMTP_USERNAME")),
		},
		RabbitMQ: RabbitMQConfig{
			Enabled:  getEnvBool("RABBITMQ_ENABLED", false),
			Host:     getEnvOrDefault("RABBITMQ_HOST", "localhost"),
			Port:     getEnvInt("RABBITMQ_PORT", 5672),
			Username: getEnvOrDefault("RABBITMQ_USERNAME", "guest"),
			Password: getEnvOrDefault("RABBITMQ_PASSWORD", "guest"),
			VHost:    getEnvOrDefault("RABBITMQ_VHOST", "/"),
			Exchange: getEnvOrDefault("RABBITMQ_EXCHANGE", "shipment.events"),
			Queue:    getEnvOrDefault("RABBITMQ_QUEUE", "shipment-mail-queue"),
		},
	}
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%s", c.HTTPPort)
}

func (c *Config) Production() bool {
	return c.Env == "production"
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
