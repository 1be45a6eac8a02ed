package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultTaskQueue = "laundry-orders"
	KeySize          = 32
)

type Config struct {
	Temporal TemporalConfig
	API      APIConfig
	Kafka    KafkaConfig
	Telegram TelegramConfig
	LogLevel slog.Level
	BuildID  string
}

type TemporalConfig struct {
	Address   string
	Namespace string
	TaskQueue string
	// EncryptionKey is the AES-256 key for workflow payloads.
	// Generated is set when no key was configured and a random one was made.
	EncryptionKey []byte
	Generated     bool
}

type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type KafkaConfig struct {
	Brokers  []string
	Topic    string
	Username string
	Password string
}

// Enabled reports whether at least one broker is configured
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

type TelegramConfig struct {
	Token  string
	ChatID int64
}

// Enabled reports whether staff notifications go to Telegram
func (t TelegramConfig) Enabled() bool {
	return t.Token != "" && t.ChatID != 0
}

// Load reads configuration from the environment, after an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	timeout, err := time.ParseDuration(getEnv("API_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid API_TIMEOUT: %w", err)
	}

	key, generated, err := encryptionKey(os.Getenv("ENCRYPTION_KEY"))
	if err != nil {
		return nil, err
	}

	var chatID int64
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		chatID, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	return &Config{
		Temporal: TemporalConfig{
			Address:       getEnv("TEMPORAL_ADDRESS", "localhost:7233"),
			Namespace:     getEnv("TEMPORAL_NAMESPACE", "default"),
			TaskQueue:     getEnv("TASK_QUEUE", DefaultTaskQueue),
			EncryptionKey: key,
			Generated:     generated,
		},
		API: APIConfig{
			BaseURL: getEnv("API_BASE_URL", "http://localhost:5000"),
			Timeout: timeout,
		},
		Kafka: KafkaConfig{
			Brokers:  splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:    getEnv("KAFKA_TOPIC", "laundry.orders"),
			Username: os.Getenv("KAFKA_USERNAME"),
			Password: os.Getenv("KAFKA_PASSWORD"),
		},
		Telegram: TelegramConfig{
			Token:  os.Getenv("TELEGRAM_TOKEN"),
			ChatID: chatID,
		},
		LogLevel: level,
		BuildID:  getEnv("BUILD_ID", "1.0.0"),
	}, nil
}

// encryptionKey decodes a hex key, or generates a random one when hexKey is empty.
func encryptionKey(hexKey string) ([]byte, bool, error) {
	if hexKey == "" {
		key := make([]byte, KeySize)
		if _, err := rand.Read(key); err != nil {
			return nil, false, fmt.Errorf("failed to generate encryption key: %w", err)
		}
		return key, true, nil
	}
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, false, fmt.Errorf("failed to decode ENCRYPTION_KEY: %w", err)
	}
	if len(key) != KeySize {
		return nil, false, fmt.Errorf("ENCRYPTION_KEY must be %d bytes, got %d", KeySize, len(key))
	}
	return key, false, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
