package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Settlement SettlementConfig
	Referral   ReferralConfig
	LogLevel   string
}

type ServerConfig struct {
	Port         string
	Environment  string
	AllowOrigins string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type SettlementConfig struct {
	Interval time.Duration
}

type ReferralConfig struct {
	BonusAmount decimal.Decimal
}

func (d DatabaseConfig) DSN() string {
	return "postgres://" + d.User + ":" + d.Password + "@" + d.Host + ":" + d.Port + "/" + d.Name + "?sslmode=" + d.SSLMode
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	interval, err := time.ParseDuration(getEnv("SETTLEMENT_INTERVAL", "1h"))
	if err != nil {
		interval = time.Hour
	}

	bonus, err := decimal.NewFromString(getEnv("REFERRAL_BONUS_AMOUNT", "500"))
	if err != nil {
		bonus = decimal.NewFromInt(500)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Environment:  getEnv("ENVIRONMENT", "development"),
			AllowOrigins: getEnv("ALLOW_ORIGINS", "*"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "primevest"),
			Password: getEnv("DB_PASSWORD", "primevest"),
			Name:     getEnv("DB_NAME", "primevest"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Settlement: SettlementConfig{
			Interval: interval,
		},
		Referral: ReferralConfig{
			BonusAmount: bonus,
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
