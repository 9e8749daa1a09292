package config

// DBConfig contains PostgreSQL database configuration.
type DBConfig struct {
	Host     string `env:"HOST"     envDefault:"localhost"`
	Port     int    `env:"PORT"     envDefault:"5432"`
	User     string `env:"USER"     envDefault:"clubdesk"`
	Password string `env:"PASSWORD" envDefault:"clubdesk"`
	Name     string `env:"NAME"     envDefault:"clubdesk"`
	SSLMode  string `env:"SSL_MODE" envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
	// RunMigrationsOnStart controls whether the application automatically
	// applies migrations during startup.
	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`
}

// RedisConfig contains Redis configuration. With more than one address the
// universal client runs in cluster mode, or in failover mode when
// MasterName is set.
type RedisConfig struct {
	Addrs      []string `env:"ADDRS"       envDefault:"localhost:6379"`
	Password   string   `env:"PASSWORD"    envDefault:""`
	DB         int      `env:"DB"          envDefault:"0"`
	MasterName string   `env:"MASTER_NAME" envDefault:""`
}
