package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"

	"github.com/garyjia/invoice-studio/internal/invoice"
	"github.com/garyjia/invoice-studio/internal/money"
	"github.com/garyjia/invoice-studio/internal/pdf"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig           `mapstructure:"server"`
	Database DatabaseConfig         `mapstructure:"database"`
	Logger   LoggerConfig           `mapstructure:"logger"`
	Storage  StorageConfig          `mapstructure:"storage"`
	PDF      PDFConfig              `mapstructure:"pdf"`
	Company  invoice.CompanyProfile `mapstructure:"company"`
	Invoice  InvoiceConfig          `mapstructure:"invoice"`
	Worker   WorkerConfig           `mapstructure:"worker"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	BusyTimeout     time.Duration `mapstructure:"busy_timeout"`
	MigrationsDir   string        `mapstructure:"migrations_dir"` // empty runs the embedded migrations
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// StorageConfig holds file locations
type StorageConfig struct {
	AssetDir  string `mapstructure:"asset_dir"`  // logos and stamps referenced by file name
	OutputDir string `mapstructure:"output_dir"` // rendered documents
}

// PDFConfig holds document rendering configuration
type PDFConfig struct {
	PageSize        string  `mapstructure:"page_size"`
	FontDir         string  `mapstructure:"font_dir"`
	FontFamily      string  `mapstructure:"font_family"`
	UTF8FontFile    string  `mapstructure:"utf8_font_file"`
	UTF8BoldFile    string  `mapstructure:"utf8_bold_font_file"`
	UTF8ItalicFile  string  `mapstructure:"utf8_italic_font_file"`
	AccentColor     string  `mapstructure:"accent_color"`
	DarkColor       string  `mapstructure:"dark_color"`
	MeasureItemRows bool    `mapstructure:"measure_item_rows"`
	PreviewDPI      float64 `mapstructure:"preview_dpi"`
}

// WorkerConfig holds background worker configuration
type WorkerConfig struct {
	OverdueInterval time.Duration `mapstructure:"overdue_interval"` // zero disables the overdue worker
	BatchSize       int           `mapstructure:"batch_size"`
}

// InvoiceConfig holds invoice-wide defaults
type InvoiceConfig struct {
	DefaultNotes    []string               `mapstructure:"default_notes"`
	ThankYouText    string                 `mapstructure:"thank_you_text"`
	FooterQuote     string                 `mapstructure:"footer_quote"`
	DefaultTaxRate  float64                `mapstructure:"default_tax_rate"`
	DefaultCurrency string                 `mapstructure:"default_currency"`
	CreatorName     string                 `mapstructure:"creator_name"`
	DefaultPayment  invoice.PaymentDetails `mapstructure:"default_payment"`
}

// Load loads configuration from file and environment variables. A .env file
// in the working directory is applied to the environment first when present.
func Load(configPath string) (*Config, error) {
	if err := gotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults
	setDefaults(v)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Override with environment variables
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if !v.IsSet("invoice.default_notes") {
		cfg.Invoice.DefaultNotes = nil
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.max_body_bytes", 2<<20)

	// Database defaults
	v.SetDefault("database.path", "data/invoices.db")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("database.busy_timeout", 5*time.Second)

	// Storage defaults
	v.SetDefault("storage.asset_dir", "assets")
	v.SetDefault("storage.output_dir", "generated_invoices")

	// PDF defaults
	v.SetDefault("pdf.page_size", "A4")
	v.SetDefault("pdf.preview_dpi", 100)

	// Invoice defaults
	v.SetDefault("invoice.default_tax_rate", 18)
	v.SetDefault("invoice.default_currency", string(money.DefaultCurrency))

	// Worker defaults
	v.SetDefault("worker.overdue_interval", time.Hour)
	v.SetDefault("worker.batch_size", 100)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars(v *viper.Viper) {
	v.BindEnv("server.port", "PORT")
	v.BindEnv("database.path", "DATABASE_PATH")
	v.BindEnv("storage.asset_dir", "ASSET_DIR")
	v.BindEnv("company.name", "COMPANY_NAME")
	v.BindEnv("company.registration_number", "COMPANY_REGISTRATION_NUMBER")
	v.BindEnv("invoice.default_payment.account_number", "BANK_ACCOUNT_NUMBER")
	v.BindEnv("invoice.default_payment.routing_code", "BANK_ROUTING_CODE")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Invoice.DefaultTaxRate < 0 || c.Invoice.DefaultTaxRate > 100 {
		return fmt.Errorf("invoice.default_tax_rate must be between 0 and 100, got %v", c.Invoice.DefaultTaxRate)
	}
	if _, err := money.ParseCurrency(c.Invoice.DefaultCurrency); err != nil {
		return fmt.Errorf("invoice.default_currency: %w", err)
	}
	for key, hex := range map[string]string{"pdf.accent_color": c.PDF.AccentColor, "pdf.dark_color": c.PDF.DarkColor} {
		if hex == "" {
			continue
		}
		if _, err := pdf.ParseHexColor(hex); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}

// InvoiceDefaults converts the invoice section into the assembler's configuration
func (c *Config) InvoiceDefaults() invoice.Config {
	return invoice.Config{
		DefaultNotes:   c.Invoice.DefaultNotes,
		ThankYouText:   c.Invoice.ThankYouText,
		FooterQuote:    c.Invoice.FooterQuote,
		DefaultTaxRate: decimal.NewFromFloat(c.Invoice.DefaultTaxRate),
		DefaultPayment: c.Invoice.DefaultPayment,
		CreatorName:    c.Invoice.CreatorName,
	}
}

// PDFOptions converts the pdf section into generator options. Font file names
// are resolved against FontDir.
func (c *Config) PDFOptions() pdf.Options {
	opts := pdf.Options{
		PageSize:        c.PDF.PageSize,
		Theme:           pdf.DefaultTheme,
		MeasureItemRows: c.PDF.MeasureItemRows,
	}
	if col, err := pdf.ParseHexColor(c.PDF.AccentColor); err == nil {
		opts.Theme.Accent = col
	}
	if col, err := pdf.ParseHexColor(c.PDF.DarkColor); err == nil {
		opts.Theme.Dark = col
	}
	if c.PDF.UTF8FontFile != "" {
		opts.Fonts = pdf.FontFiles{
			Family:  c.PDF.FontFamily,
			Regular: c.fontPath(c.PDF.UTF8FontFile),
			Bold:    c.fontPath(c.PDF.UTF8BoldFile),
			Italic:  c.fontPath(c.PDF.UTF8ItalicFile),
		}
	}
	return opts
}

func (c *Config) fontPath(name string) string {
	if name == "" || c.PDF.FontDir == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.PDF.FontDir, name)
}
