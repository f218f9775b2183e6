package config

type App struct {
	Port            string `env:"APP_PORT" default:"8080"`
	DatabaseURL     string `env:"DATABASE_URL,required"`
	JWTSecret       string `env:"JWT_SECRET,required"`
	MigratePath     string `env:"MIGRATE_PATH" default:"migrations"`
	LoanPeriodHours int    `env:"LOAN_PERIOD_HOURS" default:"168"`
	StorageURL      string `env:"STORAGE_URL"`
	StorageKey      string `env:"STORAGE_KEY"`
	Env             string `env:"APP_ENV" default:"dev"`
}
