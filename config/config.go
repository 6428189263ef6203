package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort  string `mapstructure:"APP_PORT"`
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// MongoDB holds the submitted bookings and settled invoices.
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// MySQL holds the hotel catalog (rooms, services, combos, promotions).
	MySQLDSN string `mapstructure:"MYSQL_DSN"`

	// Redis configuration for the draft session store.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDraftDB  int    `mapstructure:"REDIS_DRAFT_DB"`

	// Payment settlement.
	StripeKey     string `mapstructure:"STRIPE_KEY"`
	Currency      string `mapstructure:"CURRENCY"`
	DepositAmount int64  `mapstructure:"DEPOSIT_AMOUNT"`
	VATPercent    int    `mapstructure:"VAT_PERCENT"`

	// Draft session lifetime in minutes; renewed on every save.
	DraftTTLMinutes   int `mapstructure:"DRAFT_TTL_MINUTES"`
	MaxRequestsPerMin int `mapstructure:"MAX_REQUESTS_PER_MIN"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("MYSQL_DSN", "root:@tcp(localhost:3306)/roomflow?parseTime=true")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DRAFT_DB", 0)
	viper.SetDefault("CURRENCY", "vnd")
	viper.SetDefault("DEPOSIT_AMOUNT", 500000)
	viper.SetDefault("VAT_PERCENT", 10)
	viper.SetDefault("DRAFT_TTL_MINUTES", 30)
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
