package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Marketplace MarketplaceConfig `mapstructure:"marketplace"`
	Query       QueryConfig       `mapstructure:"query"`
	Valuation   ValuationConfig   `mapstructure:"valuation"`
	Pricing     PricingConfig     `mapstructure:"pricing"`
	Export      ExportConfig      `mapstructure:"export"`
}

// ServerConfig holds configuration for the optional HTTP surface
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// MarketplaceConfig holds auction site configuration
type MarketplaceConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Locale    string        `mapstructure:"locale"`
	Category  string        `mapstructure:"category"`
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// QueryConfig describes which lots to collect
type QueryConfig struct {
	Search  string `mapstructure:"search"`
	Sort    string `mapstructure:"sort"`
	Filters string `mapstructure:"filters"`
	MaxLots int    `mapstructure:"max_lots"`
}

// ValuationConfig holds generative API configuration
type ValuationConfig struct {
	APIKey          string        `mapstructure:"api_key"`
	BaseURL         string        `mapstructure:"base_url"`
	Model           string        `mapstructure:"model"`
	MaxOutputTokens int           `mapstructure:"max_output_tokens"`
	Temperature     float64       `mapstructure:"temperature"`
	TopP            float64       `mapstructure:"top_p"`
	TopK            int           `mapstructure:"top_k"`
	CallInterval    time.Duration `mapstructure:"call_interval"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

// PricingConfig holds buyer cost constants
type PricingConfig struct {
	BrokerageRate float64 `mapstructure:"brokerage_rate"`
	DeliveryFee   float64 `mapstructure:"delivery_fee"`
}

// ExportConfig controls where results are written
type ExportConfig struct {
	CSVPath    string `mapstructure:"csv_path"`
	JSONPath   string `mapstructure:"json_path"`
	PrintTable bool   `mapstructure:"print_table"`
}

// Load loads configuration from a .env file, environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/watchlens/")

	v.SetEnvPrefix("WATCHLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults are enough
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads ./.env without overriding variables that are already set.
// A missing file is not an error.
func loadEnvFile() error {
	err := godotenv.Load()
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// setDefaults sets default configuration values. Every key needs a default
// so that AutomaticEnv can resolve it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	v.SetDefault("marketplace.base_url", "https://www.catawiki.com")
	v.SetDefault("marketplace.locale", "en")
	v.SetDefault("marketplace.category", "333-watches")
	v.SetDefault("marketplace.user_agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36")
	v.SetDefault("marketplace.timeout", "30s")

	v.SetDefault("query.search", "")
	v.SetDefault("query.sort", "bidding_end_desc")
	v.SetDefault("query.filters", "reserve_price%5B%5D=0&budget%5B%5D=-100")
	v.SetDefault("query.max_lots", 5)

	v.SetDefault("valuation.api_key", "")
	v.SetDefault("valuation.base_url", "https://generativelanguage.googleapis.com")
	v.SetDefault("valuation.model", "gemini-2.0-flash")
	v.SetDefault("valuation.max_output_tokens", 60)
	v.SetDefault("valuation.temperature", 0.7)
	v.SetDefault("valuation.top_p", 0.9)
	v.SetDefault("valuation.top_k", 40)
	v.SetDefault("valuation.call_interval", "1500ms")
	v.SetDefault("valuation.timeout", "30s")

	v.SetDefault("pricing.brokerage_rate", 0.09)
	v.SetDefault("pricing.delivery_fee", 50.0)

	v.SetDefault("export.csv_path", "catawiki_watches_with_gemini_valuation.csv")
	v.SetDefault("export.json_path", "catawiki_watches_with_gemini_valuation.json")
	v.SetDefault("export.print_table", true)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Valuation.APIKey == "" {
		return fmt.Errorf("valuation API key is required (set WATCHLENS_VALUATION_API_KEY)")
	}

	if config.Query.MaxLots <= 0 {
		return fmt.Errorf("max lots must be positive, got: %d", config.Query.MaxLots)
	}

	if config.Query.Sort == "" {
		return fmt.Errorf("sort option is required")
	}

	if config.Pricing.BrokerageRate < 0 || config.Pricing.BrokerageRate >= 1 {
		return fmt.Errorf("brokerage rate must be in [0, 1), got: %v", config.Pricing.BrokerageRate)
	}

	if config.Pricing.DeliveryFee < 0 {
		return fmt.Errorf("delivery fee must not be negative, got: %v", config.Pricing.DeliveryFee)
	}

	if config.Valuation.CallInterval < 0 {
		return fmt.Errorf("call interval must not be negative, got: %s", config.Valuation.CallInterval)
	}

	return nil
}
