package config

import (
	"log/slog"
	"os"
	"strconv"
)

func Load() App {
	cfg := App{
		Port:            getenv("APP_PORT", "8080"),
		DatabaseURL:     must("DATABASE_URL"),
		JWTSecret:       getenv("JWT_SECRET", "local_dev_secret"),
		MigratePath:     getenv("MIGRATE_PATH", "migrations"),
		LoanPeriodHours: getint("LOAN_PERIOD_HOURS", 168), // 7 days
		StorageURL:      os.Getenv("STORAGE_URL"),
		StorageKey:      os.Getenv("STORAGE_KEY"),
		Env:             getenv("APP_ENV", "dev"),
	}
	return cfg
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("ignoring invalid env value", "key", k, "value", v)
		return def
	}
	return n
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		slog.Error("required env missing", "key", k)
		panic("missing env " + k)
	}
	return v
}
