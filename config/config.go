package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

type Config struct {
	HTTPPort          string        `envconfig:"HTTP_PORT"            default:":8081"`
	GrpcPort          string        `envconfig:"GRPC_PORT"            default:":50051"`
	LogLevel          string        `envconfig:"LOG_LEVEL"            default:"info"`
	StoreDriver       string        `envconfig:"STORE_DRIVER"         default:"memory"`
	DatabaseURL       string        `envconfig:"DATABASE_URL"`
	SeedOnStart       bool          `envconfig:"SEED_ON_START"        default:"true"`
	KafkaBrokers      []string      `envconfig:"KAFKA_BROKERS"`
	KafkaTopic        string        `envconfig:"KAFKA_TOPIC"          default:"catalog.events"`
	CacheShortSeconds int           `envconfig:"CACHE_SHORT_SECONDS"  default:"10"`
	CacheLongSeconds  int           `envconfig:"CACHE_LONG_SECONDS"   default:"20"`
	ShutdownTimeout   time.Duration `envconfig:"SHUTDOWN_TIMEOUT"     default:"10s"`
}

// Load reads envFile when it exists, then the process environment.
// Variables already set in the environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to load env file %s", envFile)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process configuration from environment variables")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case DriverMemory:
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when STORE_DRIVER is postgres")
		}
	default:
		return errors.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.CacheShortSeconds < 0 || c.CacheLongSeconds < 0 {
		return errors.New("cache durations cannot be negative")
	}
	return nil
}
