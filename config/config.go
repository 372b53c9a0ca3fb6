package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds application configuration
type Config struct {
	Port   string
	AppEnv string
	AppURL string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTKey    string
	SaltRound int

	UploadDir   string
	MaxUploadMB int

	StripeApiKey        string
	StripeWebhookSecret string
	CheckoutCurrency    string
	CheckoutExpiryHours int

	MuxTokenID     string
	MuxTokenSecret string
	MuxBaseURL     string

	SendgridApiKey  string
	EmailSender     string
	EmailSenderName string

	SchedulerEnabled bool
	LogLevel         string
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:   getEnv("PORT", "3000"),
		AppEnv: getEnv("APP_ENV", "development"),
		AppURL: strings.TrimRight(getEnv("APP_URL", "http://localhost:3000"), "/"),

		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "lms"),

		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		UploadDir:   getEnv("UPLOAD_DIR", "./public/uploads"),
		MaxUploadMB: getEnvInt("MAX_UPLOAD_MB", 512),

		StripeApiKey:        getEnv("STRIPE_API_KEY", ""),
		StripeWebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
		CheckoutCurrency:    strings.ToLower(getEnv("CHECKOUT_CURRENCY", "usd")),
		CheckoutExpiryHours: getEnvInt("CHECKOUT_EXPIRY_HOURS", 24),

		MuxTokenID:     getEnv("MUX_TOKEN_ID", ""),
		MuxTokenSecret: getEnv("MUX_TOKEN_SECRET", ""),
		MuxBaseURL:     getEnv("MUX_BASE_URL", "https://api.mux.com"),

		SendgridApiKey:  getEnv("SENDGRID_API_KEY", ""),
		EmailSender:     getEnv("EMAIL_SENDER", "no-reply@localhost"),
		EmailSenderName: getEnv("EMAIL_SENDER_NAME", "LMS"),

		SchedulerEnabled: getEnvBool("SCHEDULER_ENABLED", true),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Warn().Msg("Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.StripeApiKey == "" || AppConfig.StripeWebhookSecret == "" {
		log.Warn().Msg("Stripe is not configured. Checkout and webhooks will fail.")
	}
	if AppConfig.MuxTokenID == "" || AppConfig.MuxTokenSecret == "" {
		log.Warn().Msg("Mux is not configured. Chapter videos will not be processed.")
	}
}

// IsProduction reports whether the app runs with APP_ENV=production
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
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
		log.Error().Err(err).Str("key", key).Msg("Error converting environment variable to int")
		return defaultValue
	}
	return intValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("Error converting environment variable to bool")
		return defaultValue
	}
	return boolValue
}
