package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Auth      AuthConfig
	Drive     DriveConfig
	Sales     SalesConfig
	Reporting ReportingConfig
	WhatsApp  WhatsAppConfig
	MongoDB   MongoDBConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level       string
	Development bool
}

// AuthConfig lists the e-mail addresses allowed to use the API.
type AuthConfig struct {
	AllowedEmails []string
}

// DriveConfig locates the Google Drive folder holding the ledger, the sales
// accounts and the photos.
type DriveConfig struct {
	CredentialsPath  string
	FolderID         string
	StockFilename    string
	AccountsFilename string
}

// SalesConfig holds the sale policy.
type SalesConfig struct {
	TaxRate               decimal.Decimal
	AcceptUnknownAccounts bool
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	CronSchedule string
	Timezone     string
}

// WhatsAppConfig contains credentials for pushing the weekly digest through
// the Meta WhatsApp Cloud API. The digest is disabled when AccessToken is empty.
type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	BaseURL       string
	APIVersion    string
	Recipient     string
}

// Enabled reports whether digest delivery is configured.
func (c WhatsAppConfig) Enabled() bool {
	return c.AccessToken != ""
}

// MongoDBConfig holds settings for the statistics archive. The archive is
// disabled when URI is empty.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// Enabled reports whether the archive is configured.
func (c MongoDBConfig) Enabled() bool {
	return c.URI != ""
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are acceptable when configuration comes from the
		// environment directly.
		_ = godotenv.Load()
	}

	taxRate, err := decimal.NewFromString(getenvWithDefault("TAX_RATE", "0.126"))
	if err != nil {
		return nil, fmt.Errorf("TAX_RATE: %w", err)
	}

	acceptUnknown, err := getenvBool("SALES_ACCEPT_UNKNOWN_ACCOUNTS", false)
	if err != nil {
		return nil, err
	}

	development, err := getenvBool("LOG_DEVELOPMENT", false)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Log: LogConfig{
			Level:       getenvWithDefault("LOG_LEVEL", "info"),
			Development: development,
		},
		Auth: AuthConfig{
			AllowedEmails: splitList(os.Getenv("AUTH_ALLOWED_EMAILS")),
		},
		Drive: DriveConfig{
			CredentialsPath:  os.Getenv("GOOGLE_DRIVE_CREDENTIALS_PATH"),
			FolderID:         os.Getenv("GOOGLE_DRIVE_FOLDER_ID"),
			StockFilename:    getenvWithDefault("STOCK_FILENAME", "stock.csv"),
			AccountsFilename: getenvWithDefault("SALES_ACCOUNTS_FILENAME", "comptes_de_vente.csv"),
		},
		Sales: SalesConfig{
			TaxRate:               taxRate,
			AcceptUnknownAccounts: acceptUnknown,
		},
		Reporting: ReportingConfig{
			CronSchedule: getenvWithDefault("REPORT_CRON_SCHEDULE", "0 20 * * 5"),
			Timezone:     getenvWithDefault("TIMEZONE", "Europe/Paris"),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:   os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			BaseURL:       getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:    getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
			Recipient:     os.Getenv("WHATSAPP_REPORT_RECIPIENT"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "revente"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if len(c.Auth.AllowedEmails) == 0 {
		return errors.New("AUTH_ALLOWED_EMAILS must list at least one address")
	}

	switch {
	case c.Drive.CredentialsPath == "":
		return errors.New("GOOGLE_DRIVE_CREDENTIALS_PATH must be provided")
	case c.Drive.FolderID == "":
		return errors.New("GOOGLE_DRIVE_FOLDER_ID must be provided")
	case c.Drive.StockFilename == "":
		return errors.New("STOCK_FILENAME must not be empty")
	case c.Drive.AccountsFilename == "":
		return errors.New("SALES_ACCOUNTS_FILENAME must not be empty")
	}

	if c.Sales.TaxRate.IsNegative() || c.Sales.TaxRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("TAX_RATE must be in [0, 1), got %s", c.Sales.TaxRate)
	}

	if c.Reporting.CronSchedule == "" {
		return errors.New("REPORT_CRON_SCHEDULE must be provided")
	}

	if _, err := time.LoadLocation(c.Reporting.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE: %w", err)
	}

	if c.WhatsApp.Enabled() {
		switch {
		case c.WhatsApp.PhoneNumberID == "":
			return errors.New("WHATSAPP_PHONE_NUMBER_ID must be provided")
		case c.WhatsApp.Recipient == "":
			return errors.New("WHATSAPP_REPORT_RECIPIENT must be provided")
		case c.WhatsApp.BaseURL == "":
			return errors.New("WHATSAPP_BASE_URL must not be empty")
		case c.WhatsApp.APIVersion == "":
			return errors.New("WHATSAPP_API_VERSION must not be empty")
		}
	}

	if c.MongoDB.Enabled() && c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must not be empty")
	}

	return nil
}

// Location returns the reporting time zone. Validate guarantees it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Reporting.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvBool(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
