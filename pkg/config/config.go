package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// MustLoad loads the configuration from environment variables and .env file,
// panicking if required fields are missing.
func MustLoad[T any](cfg T) {
	_ = godotenv.Load() // Load environment variables from .env file

	env.Must(cfg, env.Parse(cfg))
}

// Load loads the configuration from environment variables and .env file.
func Load[T any](cfg T) error {
	_ = godotenv.Load() // a missing .env file is not an error; env vars may be set directly

	if err := env.Parse(cfg); err != nil {
		return err
	}

	return nil
}

// Config holds the configuration for the matching engine host process. The
// core itself (internal/engine) reads none of this; it is config-free per
// the external-interfaces section of the spec.
type Config struct {
	Pair           string      `env:"PAIR,required"` // Trading pair, e.g., BTC/USD
	OrderReader    KafkaConfig `envPrefix:"ORDERS_KAFKA_"`
	MatchPublisher KafkaConfig `envPrefix:"MATCHES_KAFKA_"`
	LogLevel       string      `env:"LOG_LEVEL" envDefault:"info"`
}

// KafkaConfig holds the configuration for a Kafka reader or writer.
type KafkaConfig struct {
	Topic   string   `env:"TOPIC,required"`
	GroupID string   `env:"GROUP_ID" envDefault:"matching-engine"`
	Brokers []string `env:"BROKERS,required"`
}
