package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds every runtime setting of the service.
type Config struct {
	AppPort        string        `mapstructure:"APP_PORT"`
	APIURL         string        `mapstructure:"API_URL"`
	DatabaseDriver string        `mapstructure:"DATABASE_DRIVER"`
	DatabaseDSN    string        `mapstructure:"DATABASE_DSN"`
	MongoURI       string        `mapstructure:"MONGO_URI"`
	MongoDatabase  string        `mapstructure:"MONGO_DATABASE"`
	JWTSecret      string        `mapstructure:"JWT_SECRET"`
	JWTTTL         time.Duration `mapstructure:"JWT_TTL"`
	RabbitMQURL    string        `mapstructure:"RABBITMQ_URL"`
	RedisAddr      string        `mapstructure:"REDIS_ADDR"`
	IdempotencyTTL time.Duration `mapstructure:"IDEMPOTENCY_TTL"`
	UploadDir      string        `mapstructure:"UPLOAD_DIR"`
	OrderWorkers   int           `mapstructure:"ORDER_WORKERS"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
	LogFormat      string        `mapstructure:"LOG_FORMAT"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":9000")
	v.SetDefault("API_URL", "/api/v1")
	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("DATABASE_DSN", "host=127.0.0.1 user=postgres password=postgres dbname=eshop port=5432 sslmode=disable")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "eshop-database")
	v.SetDefault("JWT_SECRET", "secret")
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("IDEMPOTENCY_TTL", "24h")
	v.SetDefault("UPLOAD_DIR", "public/uploads")
	v.SetDefault("ORDER_WORKERS", 8)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
}

// Load reads envFile (when it exists) into the environment, then builds the
// configuration from defaults overridden by environment variables.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			log.WithField("file", envFile).Debug("No env file loaded, relying on the environment")
		}
	}

	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if cfg.OrderWorkers <= 0 {
		return nil, fmt.Errorf("ORDER_WORKERS must be positive, got %d", cfg.OrderWorkers)
	}
	return &cfg, nil
}
