package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type DBConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	MaxOpenConns int
	MaxIdleConns int
}

type HTTPConfig struct {
	Addr string
}

type AuthConfig struct {
	JWTSecret string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type WalletConfig struct {
	DefaultCurrency string
	StartBalance    decimal.Decimal
}

// Config is built once in main and passed to collaborators; nothing reads the
// process environment after startup.
type Config struct {
	HTTP   HTTPConfig
	DB     DBConfig
	Auth   AuthConfig
	Redis  RedisConfig
	Kafka  KafkaConfig
	Wallet WalletConfig
}

func Load() (*Config, error) {
	if err := godotenv.Load("config.env"); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load config.env: %w", err)
	}

	dbPort, err := intEnv("DB_PORT", 5432)
	if err != nil {
		return nil, err
	}
	maxOpen, err := intEnv("DB_MAX_OPEN_CONNS", 10)
	if err != nil {
		return nil, err
	}
	maxIdle, err := intEnv("DB_MAX_IDLE_CONNS", 5)
	if err != nil {
		return nil, err
	}
	redisDB, err := intEnv("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	startBalance, err := decimal.NewFromString(stringEnv("WALLET_START_BALANCE", "1000"))
	if err != nil {
		return nil, fmt.Errorf("invalid WALLET_START_BALANCE: %w", err)
	}
	if startBalance.Sign() < 0 {
		return nil, fmt.Errorf("WALLET_START_BALANCE must not be negative")
	}

	return &Config{
		HTTP: HTTPConfig{
			Addr: stringEnv("HTTP_ADDR", ":8080"),
		},
		DB: DBConfig{
			Host:         stringEnv("DB_HOST", "localhost"),
			Port:         dbPort,
			User:         os.Getenv("DB_USER"),
			Password:     os.Getenv("DB_PASSWORD"),
			Name:         os.Getenv("DB_NAME"),
			MaxOpenConns: maxOpen,
			MaxIdleConns: maxIdle,
		},
		Auth: AuthConfig{
			JWTSecret: secret,
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Kafka: KafkaConfig{
			Brokers: listEnv("KAFKA_BROKERS"),
			Topic:   stringEnv("KAFKA_TOPIC", "wallet.transactions"),
		},
		Wallet: WalletConfig{
			DefaultCurrency: stringEnv("WALLET_DEFAULT_CURRENCY", "USD"),
			StartBalance:    startBalance,
		},
	}, nil
}

func stringEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func listEnv(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
