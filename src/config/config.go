package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	LogLevel string

	LedgerBackend string // "xlsx" or "sqlite"
	LedgerPath    string
	LedgerMaxRows int // 0 disables the cap

	ParserSource string // "text" or "json"
	Operator     string // recorded in the ledger audit columns

	CatalogCacheExpiry time.Duration

	EmailServiceProvider string

	SMTPServer   string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string

	MailgunDomain        string
	MailgunPrivateAPIKey string

	SenderEmail     string
	SenderName      string
	ReportRecipient string
}

// Load reads .env plus the OS environment and returns the assembled
// configuration. The caller owns the result; nothing is stored globally.
func Load() *AppConfig {
	errEnv := godotenv.Load()
	if errEnv != nil {
		log.Println("Info: No .env file found or error loading .env file. Relying on OS environment variables and defaults. Error (if any):", errEnv)
	} else {
		log.Println(".env file loaded successfully.")
	}

	cfg := &AppConfig{
		LogLevel: getEnv("LOG_LEVEL", "info"),

		LedgerBackend: getEnv("LEDGER_BACKEND", "xlsx"),
		LedgerPath:    getEnv("LEDGER_PATH", "./gstledger.xlsx"),
		LedgerMaxRows: getEnvAsInt("LEDGER_MAX_ROWS", 50000),

		ParserSource: getEnv("PARSER_SOURCE", "text"),
		Operator:     getEnv("OPERATOR", "batch-cli"),

		CatalogCacheExpiry: getEnvAsDuration("CATALOG_CACHE_EXPIRY", 15*time.Minute),

		EmailServiceProvider: getEnv("EMAIL_SERVICE_PROVIDER", "mock"),

		SMTPServer:   getEnv("SMTP_SERVER", ""),
		SMTPPort:     getEnvAsInt("SMTP_PORT", 587),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		MailgunDomain:        getEnv("MAILGUN_DOMAIN", ""),
		MailgunPrivateAPIKey: getEnv("MAILGUN_PRIVATE_API_KEY", ""),

		SenderEmail:     getEnv("SENDER_EMAIL", "noreply@example.com"),
		SenderName:      getEnv("SENDER_NAME", "GST Ledger"),
		ReportRecipient: getEnv("REPORT_RECIPIENT", ""),
	}

	if cfg.LedgerBackend != "xlsx" && cfg.LedgerBackend != "sqlite" {
		log.Printf("WARNING: Invalid LEDGER_BACKEND '%s'. Using default 'xlsx'.", cfg.LedgerBackend)
		cfg.LedgerBackend = "xlsx"
	}

	if cfg.EmailServiceProvider == "mailgun" {
		if cfg.MailgunDomain == "" {
			log.Fatalf("FATAL: MAILGUN_DOMAIN is required when EMAIL_SERVICE_PROVIDER is 'mailgun', but it's not set in environment or .env file.")
		}
		if cfg.MailgunPrivateAPIKey == "" {
			log.Fatalf("FATAL: MAILGUN_PRIVATE_API_KEY is required when EMAIL_SERVICE_PROVIDER is 'mailgun', but it's not set in environment or .env file.")
		}
		if cfg.SenderEmail == "noreply@example.com" || cfg.SenderEmail == "" {
			log.Fatalf("FATAL: SENDER_EMAIL must be configured properly (e.g., your Mailgun sender) when EMAIL_SERVICE_PROVIDER is 'mailgun'.")
		}
	}

	log.Printf("Configuration loaded: Backend=%s, LedgerPath=%s, LogLevel=%s, EmailProvider=%s",
		cfg.LedgerBackend, cfg.LedgerPath, cfg.LogLevel, cfg.EmailServiceProvider)

	return cfg
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid duration value for %s ('%s'), using default: %s", key, valueStr, fallback.String())
	return fallback
}
