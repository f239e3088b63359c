package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port                  string
	AllowedOrigin         string
	LedgerPath            string
	CatalogWorkbookPath   string
	DatabaseURL           string
	RedisAddr             string
	RedisPassword         string
	RedisDB               int
	BillPrefix            string
	TaxRatePercent        float64
	AuthSecret            string
	AccessTokenTTLMinutes int
}

func Load() Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	tokenTTL, err := strconv.Atoi(getEnv("ACCESS_TOKEN_TTL_MINUTES", "480"))
	if err != nil || tokenTTL < 1 {
		tokenTTL = 480
	}
	taxRate, err := strconv.ParseFloat(getEnv("TAX_RATE_PERCENT", "5"), 64)
	if err != nil || taxRate < 0 {
		taxRate = 5
	}

	cfg := Config{
		Port:                  getEnv("PORT", "8080"),
		AllowedOrigin:         getEnv("ALLOWED_ORIGIN", "http://127.0.0.1:3000"),
		LedgerPath:            getEnv("LEDGER_PATH", "Database/Invoice_Data.json"),
		CatalogWorkbookPath:   getEnv("CATALOG_WORKBOOK", "Database/Catalog.xlsx"),
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		RedisAddr:             os.Getenv("REDIS_ADDR"),
		RedisPassword:         os.Getenv("REDIS_PASSWORD"),
		RedisDB:               redisDB,
		BillPrefix:            getEnv("BILL_PREFIX", "MV"),
		TaxRatePercent:        taxRate,
		AuthSecret:            strings.TrimSpace(os.Getenv("AUTH_SECRET")),
		AccessTokenTTLMinutes: tokenTTL,
	}

	return cfg
}

func (c Config) Address() string {
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key string, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}
