package config

import (
	"os"
	"strconv"

	// Load environment variables from .env files when present.
	_ "github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Ingest IngestConfig
}

// IngestConfig controls the spreadsheet ingestion pipeline.
type IngestConfig struct {
	MaxBillBudgetMB   int
	MaxCashFlowMB     int
	CashFlowSheetHint string
	BudgetSheetHint   string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Ingest: IngestConfig{
			MaxBillBudgetMB:   getEnvAsInt("INGEST_MAX_BILL_BUDGET_MB", 10),
			MaxCashFlowMB:     getEnvAsInt("INGEST_MAX_CASHFLOW_MB", 20),
			CashFlowSheetHint: getEnv("INGEST_CASHFLOW_SHEET_HINT", "cash flow"),
			BudgetSheetHint:   getEnv("INGEST_BUDGET_SHEET_HINT", "budget"),
		},
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
