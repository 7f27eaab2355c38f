package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,       default=8080"`
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	JWTSecret string `env:"JWT_SECRET, default=dev-only-secret"`

	// AuthTimeout bounds a single authentication attempt end to end.
	AuthTimeout time.Duration `env:"AUTH_TIMEOUT, default=10s"`

	// DemoDirectory selects the fixed in-memory identity directory instead
	// of the MongoDB-backed one. DemoAuthDelay reproduces the reference
	// deployment's simulated login latency.
	DemoDirectory bool          `env:"DEMO_DIRECTORY,  default=true"`
	DemoAuthDelay time.Duration `env:"DEMO_AUTH_DELAY, default=1s"`

	// Login rate limiting, per client address.
	LoginRatePerMin int `env:"LOGIN_RATE_PER_MIN, default=10"`
	LoginRateBurst  int `env:"LOGIN_RATE_BURST,   default=5"`

	AuditWorkers int `env:"AUDIT_WORKERS, default=4"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=therapy_platform"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
