package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	Database    DatabaseConfig
	AWS         AWSConfig
	Partner     PartnerConfig
	LogLevel    string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type AWSConfig struct {
	Region      string
	QueueURL    string
	LedgerTable string
}

type PartnerConfig struct {
	BaseURL string
	// DefaultProductID is an optional fallback product id for unmapped
	// print-job SKUs. Zero means no fallback.
	DefaultProductID int64
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("AWS_REGION", "us-east-1")
	viper.SetDefault("LOG_LEVEL", "info")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if .env doesn't exist, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		Database: DatabaseConfig{
			Host:     getEnvOrViper("DB_HOST", "localhost"),
			Port:     getEnvOrViper("DB_PORT", "5432"),
			User:     getEnvOrViper("DB_USER", "postgres"),
			Password: getEnvOrViper("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrViper("DB_NAME", "fulfilbridge"),
			SSLMode:  getEnvOrViper("DB_SSLMODE", "disable"),
		},
		AWS: AWSConfig{
			Region:      getEnvOrViper("AWS_REGION", "us-east-1"),
			QueueURL:    getEnvOrViper("ORDER_QUEUE_URL", ""),
			LedgerTable: getEnvOrViper("LEDGER_TABLE", ""),
		},
		Partner: PartnerConfig{
			BaseURL:          getEnvOrViper("PARTNER_API_URL", ""),
			DefaultProductID: viper.GetInt64("PARTNER_DEFAULT_PRODUCT_ID"),
		},
		LogLevel: getEnvOrViper("LOG_LEVEL", "info"),
	}

	// Validate required fields
	if cfg.AWS.QueueURL == "" {
		return nil, fmt.Errorf("ORDER_QUEUE_URL is required")
	}
	if cfg.AWS.LedgerTable == "" {
		return nil, fmt.Errorf("LEDGER_TABLE is required")
	}
	if cfg.Partner.BaseURL == "" {
		return nil, fmt.Errorf("PARTNER_API_URL is required")
	}

	return cfg, nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}
