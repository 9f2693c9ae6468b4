package config

import "os"

// Config — конфигурация сервиса из переменных окружения.
type Config struct {
	HTTPPort          string
	DatabaseDSN       string
	RedisAddr         string
	DocumentsPath     string
	CommissionFormula string
}

// Load читает конфигурацию из окружения с дефолтами для локальной разработки.
func Load() *Config {
	return &Config{
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:       getEnv("DB_URL", "host=localhost user=postgres password=postgres dbname=garant port=5432 sslmode=disable"),
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		DocumentsPath:     getEnv("DOCUMENTS_PATH", "./deal-documents"),
		CommissionFormula: getEnv("COMMISSION_FORMULA", "amount * 0.05"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
