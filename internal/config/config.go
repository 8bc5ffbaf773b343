package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort          string
	DatabaseDSN       string
	CORSOrigins       string
	ProductImagePath  string // directory product images are stored in
	LowStockThreshold int    // quantity at or below which a product is "Low in stock"
}

func Load() *Config {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:       getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=matrium port=5432 sslmode=disable"),
		CORSOrigins:       getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		ProductImagePath:  getEnv("PRODUCT_IMAGE_PATH", "./product-images"),
		LowStockThreshold: getEnvInt("LOW_STOCK_THRESHOLD", 10),
	}

	if cfg.DatabaseDSN == "host=localhost user=postgres password=postgres dbname=matrium port=5432 sslmode=disable" {
		log.Println("[WARN] DATABASE_DSN is the default value, set your own Postgres connection for production.")
	}
	if cfg.CORSOrigins == "http://localhost:5173" {
		log.Println("[WARN] CORS_ALLOWED_ORIGINS is the default value, set your own domain for production.")
	}
	if cfg.LowStockThreshold < 0 {
		log.Fatal("[FATAL] LOW_STOCK_THRESHOLD must not be negative.")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("[FATAL] %s must be an integer, got %q", key, v)
	}
	return n
}
