package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DB      DBConfig
	HTTP    HTTPConfig
	Auth    AuthConfig
	Pricing PricingConfig
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

type HTTPConfig struct {
	Addr string
}

type AuthConfig struct {
	// JWTSecret verifies bearer tokens issued by the identity provider.
	JWTSecret string
}

type PricingConfig struct {
	StoreLat float64
	StoreLng float64
	// FreeRadiusKm is the distance within which delivery is free.
	FreeRadiusKm float64
	// FeePerKm is charged per km beyond the free radius, partial km rounded up.
	FeePerKm int64
	// DefaultDeliveryFee applies when the customer sends no coordinates.
	DefaultDeliveryFee int64
	TaxPercent         int
	// FirstOrderDiscountPercent is clamped into [10,15] at use.
	FirstOrderDiscountPercent int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))

	return &Config{
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     port,
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "foodhub"),
		},
		HTTP: HTTPConfig{
			Addr: getEnv("HTTP_ADDR", ":8080"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
		Pricing: PricingConfig{
			StoreLat:                  getEnvFloat("STORE_LAT", 0),
			StoreLng:                  getEnvFloat("STORE_LNG", 0),
			FreeRadiusKm:              getEnvFloat("FREE_RADIUS_KM", 5),
			FeePerKm:                  getEnvInt64("FEE_PER_KM", 30),
			DefaultDeliveryFee:        getEnvInt64("DEFAULT_DELIVERY_FEE", 50),
			TaxPercent:                getEnvInt("TAX_PERCENT", 0),
			FirstOrderDiscountPercent: getEnvInt("FIRST_ORDER_DISCOUNT_PERCENT", 10),
		},
	}, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
