package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	v *viper.Viper
}

// New creates a new configuration instance
func New() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/risk-engine/")
	v.AddConfigPath("$HOME/.risk-engine")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	// Set defaults
	setDefaults(v)

	// Environment variables
	v.AutomaticEnv()
	v.SetEnvPrefix("RISK_ENGINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults
	}

	return &Config{v: v}, nil
}

// NewFromViper creates a new configuration instance from an existing Viper instance
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Scoring defaults
	v.SetDefault("scoring.suspicious_threshold", 40.0)
	v.SetDefault("scoring.high_risk_threshold", 80.0)
	v.SetDefault("scoring.high_risk_confidence", 0.95)
	v.SetDefault("scoring.baseline_divisor", 100.0)
	v.SetDefault("scoring.baseline_floor", 0.3)
	v.SetDefault("scoring.baseline_ceiling", 0.9)
	v.SetDefault("scoring.adjustment_bound", 0.15)
	v.SetDefault("scoring.trusted_domains", []string{})

	// Learning defaults
	v.SetDefault("learning.step", 0.03)
	v.SetDefault("learning.max_delta", 0.15)

	// Signal weights
	v.SetDefault("signals.weights.spf_neutral_dmarc_none", 15.0)
	v.SetDefault("signals.weights.domain_mismatch", 25.0)
	v.SetDefault("signals.weights.reply_to_mismatch", 20.0)
	v.SetDefault("signals.weights.risky_phrase", 10.0)
	v.SetDefault("signals.weights.pii_request", 15.0)
	v.SetDefault("signals.weights.risky_attachment", 30.0)
	v.SetDefault("signals.weights.new_domain", 20.0)

	// Signal lexicons
	v.SetDefault("signals.phrase_cap", 3)
	v.SetDefault("signals.risky_phrases", []string{
		"home office",
		"wire transfer",
		"gift card",
		"western union",
		"crypto wallet",
		"payment upfront",
		"processing fee",
		"act now",
		"verify your account",
	})
	v.SetDefault("signals.known_brands", []string{
		"paypal", "microsoft", "apple", "amazon", "google",
		"netflix", "dhl", "fedex", "ups", "docusign", "dropbox",
	})
	v.SetDefault("signals.risky_extensions", []string{
		".exe", ".scr", ".bat", ".cmd", ".com", ".pif",
		".js", ".jse", ".vbs", ".wsf", ".jar", ".hta",
		".docm", ".xlsm", ".pptm", ".zip",
	})
	v.SetDefault("signals.pii_terms.name", []string{
		"full name", "legal name", "your name",
	})
	v.SetDefault("signals.pii_terms.phone", []string{
		"phone number", "mobile number", "contact number",
	})
	v.SetDefault("signals.pii_terms.address", []string{
		"home address", "mailing address", "your address", "your location", "where you live",
	})
	v.SetDefault("signals.pii_terms.government_id", []string{
		"ssn", "social security", "national id", "passport number", "driver's license",
	})
	v.SetDefault("signals.pii_terms.bank", []string{
		"bank account", "bank details", "routing number", "account number", "iban",
	})
	v.SetDefault("signals.new_domain_max_age", "720h")

	// Weight store defaults
	v.SetDefault("weight_store.type", "memory")
	v.SetDefault("weight_store.sqlite_path", "/data/user_weights.db")
	v.SetDefault("weight_store.mysql_dsn", "user:password@tcp(localhost:3306)/risk_engine")
	v.SetDefault("weight_store.postgres_dsn", "postgres://localhost/risk_engine?sslmode=disable")
	v.SetDefault("weight_store.redis_url", "redis://localhost:6379")
	v.SetDefault("weight_store.redis_key_prefix", "risk:weights")

	// Enrichment defaults
	v.SetDefault("enrichment.provider", "disabled")
	v.SetDefault("enrichment.base_url", "")
	v.SetDefault("enrichment.timeout", "500ms")
	v.SetDefault("enrichment.static_ages", map[string]string{})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetFloat64 gets a float64 value from the configuration
func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// GetBool gets a boolean value from the configuration
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetStringSlice gets a string slice value from the configuration
func (c *Config) GetStringSlice(key string) []string {
	return c.v.GetStringSlice(key)
}

// GetDuration gets a duration value from the configuration
func (c *Config) GetDuration(key string) (time.Duration, error) {
	return time.ParseDuration(c.GetString(key))
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}
