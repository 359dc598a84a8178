package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port string

	DBDriver   string // "postgres" or "sqlite"
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	EmailSender    string
	Password       string // SMTP Password
	SendGridApiKey string // When set, mail goes through SendGrid instead of SMTP
	MailFrom       string

	UserServiceUrl   string // Base URL of the user directory service
	DefaultRecipient string // Fallback recipient when the directory cannot resolve one

	FanoutWorkers int
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port: getEnv("PORT", "3000"),

		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "enrollments.db"),
		DBPort:     getEnv("DB_PORT", "5432"),

		EmailSender:    getEnv("EMAIL_SENDER", "no-reply@eduforge.io"),
		Password:       getEnv("PASSWORD", ""),
		SendGridApiKey: getEnv("SENDGRID_API_KEY", ""),
		MailFrom:       getEnv("MAIL_FROM", "EduForge <no-reply@eduforge.io>"),

		UserServiceUrl:   getEnv("USER_SERVICE_URL", ""),
		DefaultRecipient: getEnv("DEFAULT_RECIPIENT", ""),

		FanoutWorkers: getEnvInt("FANOUT_WORKERS", 8),
	}

	// Validate critical configuration
	if AppConfig.DBDriver == "postgres" && AppConfig.DBName == "enrollments.db" {
		log.Println("Warning: Using default DB_NAME. Update it in your environment.")
	}
	if AppConfig.UserServiceUrl == "" && AppConfig.DefaultRecipient == "" {
		log.Println("Warning: Neither USER_SERVICE_URL nor DEFAULT_RECIPIENT set. Emails will be skipped.")
	}
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
