package config

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the application configuration
type Config struct {
	Server     ServerConfig     `json:"server"`
	Database   DatabaseConfig   `json:"database"`
	Owner      OwnerConfig      `json:"owner"`
	Documents  DocumentsConfig  `json:"documents"`
	Backup     BackupConfig     `json:"backup"`
	Logging    LoggingConfig    `json:"logging"`
	Pagination PaginationConfig `json:"pagination"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Host         string        `json:"host"`
	Port         int           `json:"port"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	IdleTimeout  time.Duration `json:"idle_timeout"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Driver         string        `json:"driver"` // sqlite, postgres
	Path           string        `json:"path"`   // sqlite file
	Host           string        `json:"host"`
	Port           int           `json:"port"`
	User           string        `json:"user"`
	Password       string        `json:"password"`
	DBName         string        `json:"db_name"`
	SSLMode        string        `json:"ssl_mode"`
	MaxConnections int           `json:"max_connections"`
	MaxIdleConns   int           `json:"max_idle_conns"`
	MaxLifetime    time.Duration `json:"max_lifetime"`
}

// OwnerConfig holds the business owner's contact details printed on documents
type OwnerConfig struct {
	Name      string `json:"name"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Country   string `json:"country"`
	IBAN      string `json:"iban"`
	VATNumber string `json:"vat_number"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	KVKNumber string `json:"kvk_number"`
}

// DocumentsConfig configures invoice and quote generation
type DocumentsConfig struct {
	LogoPath          string `json:"logo_path"`
	RecipientCountry  string `json:"recipient_country"`
	PaymentTermDays   int    `json:"payment_term_days"`
	QuoteValidityDays int    `json:"quote_validity_days"`
	AcceptedTaxRates  []int  `json:"accepted_tax_rates"`
	DefaultTaxRate    int    `json:"default_tax_rate"`
	Attribution       string `json:"attribution"`
	CompressPDF       bool   `json:"compress_pdf"`
}

// BackupConfig configures the database file snapshots
type BackupConfig struct {
	Enabled     bool          `json:"enabled"`
	Dir         string        `json:"dir"`
	Interval    time.Duration `json:"interval"`
	Retention   int           `json:"retention"`
	Schedule    string        `json:"schedule"` // cron spec
	S3Bucket    string        `json:"s3_bucket,omitempty"`
	S3Region    string        `json:"s3_region,omitempty"`
	S3Prefix    string        `json:"s3_prefix,omitempty"`
	S3Endpoint  string        `json:"s3_endpoint,omitempty"`
	S3AccessKey string        `json:"s3_access_key,omitempty"`
	S3SecretKey string        `json:"s3_secret_key,omitempty"`
}

// LoggingConfig
type LoggingConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
	Output string `json:"output"`
}

// PaginationConfig
type PaginationConfig struct {
	PageSize int `json:"page_size"`
}

// Default returns the configuration used when no file or environment overrides exist
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "127.0.0.1",
			Port:         5000,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:  "sqlite",
			Path:    "data/database.db",
			Host:    "localhost",
			Port:    5432,
			DBName:  "factuur_portal",
			SSLMode: "disable",
		},
		Owner: OwnerConfig{
			Name:      "Naam",
			Address:   "Adres",
			City:      "Stad",
			Country:   "Nederland",
			IBAN:      "IBAN",
			VATNumber: "VAT",
			Phone:     "Telefoon",
			Email:     "E-mail",
			KVKNumber: "KVK",
		},
		Documents: DocumentsConfig{
			LogoPath:          "static/logo/logo.png",
			RecipientCountry:  "NL",
			PaymentTermDays:   14,
			QuoteValidityDays: 30,
			AcceptedTaxRates:  []int{9, 21},
			DefaultTaxRate:    21,
			Attribution:       "Automatisch gegenereerd door factuur-portal",
			CompressPDF:       true,
		},
		Backup: BackupConfig{
			Enabled:   true,
			Dir:       "backups",
			Interval:  24 * time.Hour,
			Retention: 30,
			Schedule:  "@hourly",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Output: "stdout",
		},
		Pagination: PaginationConfig{
			PageSize: 10,
		},
	}
}

// LoadConfig loads configuration from .env, an optional JSON file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// .env is optional; real environment variables always win
	_ = godotenv.Load()

	config := Default()

	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			if err := json.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	overrideWithEnv(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func overrideWithEnv(config *Config) {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if driver := os.Getenv("DATABASE_DRIVER"); driver != "" {
		config.Database.Driver = driver
	}
	if path := os.Getenv("DATABASE_PATH"); path != "" {
		config.Database.Path = path
	}
	if dbHost := os.Getenv("DATABASE_HOST"); dbHost != "" {
		config.Database.Host = dbHost
	}
	if dbUser := os.Getenv("DATABASE_USER"); dbUser != "" {
		config.Database.User = dbUser
	}
	if dbPass := os.Getenv("DATABASE_PASSWORD"); dbPass != "" {
		config.Database.Password = dbPass
	}
	if dbName := os.Getenv("DATABASE_DBNAME"); dbName != "" {
		config.Database.DBName = dbName
	}

	setString(&config.Owner.Name, "OWNER_NAME")
	setString(&config.Owner.Address, "OWNER_ADDRESS")
	setString(&config.Owner.City, "OWNER_CITY")
	setString(&config.Owner.Country, "OWNER_COUNTRY")
	setString(&config.Owner.IBAN, "OWNER_IBAN")
	setString(&config.Owner.VATNumber, "OWNER_VAT_NUMBER")
	setString(&config.Owner.Phone, "OWNER_PHONE")
	setString(&config.Owner.Email, "OWNER_EMAIL")
	setString(&config.Owner.KVKNumber, "OWNER_KVK_NUMBER")

	setString(&config.Documents.LogoPath, "DOCUMENTS_LOGO_PATH")
	setInt(&config.Documents.PaymentTermDays, "DOCUMENTS_PAYMENT_TERM_DAYS")
	setInt(&config.Documents.QuoteValidityDays, "DOCUMENTS_QUOTE_VALIDITY_DAYS")
	setInt(&config.Documents.DefaultTaxRate, "DOCUMENTS_DEFAULT_TAX_RATE")
	if rates := os.Getenv("DOCUMENTS_TAX_RATES"); rates != "" {
		var parsed []int
		for _, r := range strings.Split(rates, ",") {
			if v, err := strconv.Atoi(strings.TrimSpace(r)); err == nil {
				parsed = append(parsed, v)
			}
		}
		if len(parsed) > 0 {
			config.Documents.AcceptedTaxRates = parsed
		}
	}

	if enabled := os.Getenv("BACKUP_ENABLED"); enabled != "" {
		config.Backup.Enabled = enabled == "true" || enabled == "1"
	}
	setString(&config.Backup.Dir, "BACKUP_DIR")
	setInt(&config.Backup.Retention, "BACKUP_RETENTION")
	setString(&config.Backup.Schedule, "BACKUP_SCHEDULE")
	setString(&config.Backup.S3Bucket, "BACKUP_S3_BUCKET")
	setString(&config.Backup.S3Region, "BACKUP_S3_REGION")
	setString(&config.Backup.S3Prefix, "BACKUP_S3_PREFIX")
	setString(&config.Backup.S3Endpoint, "BACKUP_S3_ENDPOINT")
	setString(&config.Backup.S3AccessKey, "BACKUP_S3_ACCESS_KEY")
	setString(&config.Backup.S3SecretKey, "BACKUP_S3_SECRET_KEY")

	setString(&config.Logging.Level, "LOG_LEVEL")
	setString(&config.Logging.Format, "LOG_FORMAT")
	setString(&config.Logging.Output, "LOG_OUTPUT")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// Validate checks settings that would otherwise fail later at runtime
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for the sqlite driver")
		}
	case "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if len(c.Documents.AcceptedTaxRates) == 0 {
		return fmt.Errorf("documents.accepted_tax_rates must not be empty")
	}
	if !slices.Contains(c.Documents.AcceptedTaxRates, c.Documents.DefaultTaxRate) {
		return fmt.Errorf("documents.default_tax_rate %d is not one of the accepted tax rates %v",
			c.Documents.DefaultTaxRate, c.Documents.AcceptedTaxRates)
	}
	if c.Documents.PaymentTermDays < 0 || c.Documents.QuoteValidityDays < 0 {
		return fmt.Errorf("document date offsets must not be negative")
	}
	if c.Backup.Retention < 1 {
		return fmt.Errorf("backup.retention must be at least 1")
	}
	return nil
}

// GetDatabaseURL returns the postgres connection string
func (c *DatabaseConfig) GetDatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// GetServerAddr returns the server address
func (c *ServerConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
