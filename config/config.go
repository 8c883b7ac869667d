package config

import (
	"context"
	"database/sql"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const DefaultOrdersTopic = "kiosk-orders"

// LoadEnv reads .env files when present. Missing files are not an error.
func LoadEnv(files ...string) {
	_ = godotenv.Load(files...)
}

func GetString(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func GetInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return parsed
}

func GetBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return parsed
}

// GetSeconds reads an integer number of seconds.
func GetSeconds(key string, fallback time.Duration) time.Duration {
	seconds := GetInt(key, -1)
	if seconds < 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}

// NewLogger returns a production logger, or a development one when env is "development".
func NewLogger(env string) *zap.SugaredLogger {
	if env == "development" {
		return zap.Must(zap.NewDevelopment()).Sugar()
	}
	return zap.Must(zap.NewProduction()).Sugar()
}

func PostgresDSN() string {
	return "host=" + os.Getenv("DB_HOST") + " port=" + os.Getenv("DB_PORT") + " user=" + os.Getenv("DB_USER") +
		" password=" + os.Getenv("DB_PASSWORD") + " dbname=" + os.Getenv("DB_NAME") + " sslmode=disable"
}

func MustInitPostgres(logger *zap.SugaredLogger) *sql.DB {
	db, err := sql.Open("postgres", PostgresDSN())
	if err != nil {
		logger.Fatalw("failed to connect to database", "error", err)
	}

	if err = db.Ping(); err != nil {
		logger.Fatalw("failed to ping database", "error", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return db
}

func MustInitRedis(logger *zap.SugaredLogger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: os.Getenv("REDIS_HOST") + ":" + os.Getenv("REDIS_PORT"),
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Fatalw("failed to connect to Redis", "error", err)
	}

	return client
}

// KafkaEnabled reports whether a broker address is configured.
func KafkaEnabled() bool {
	return os.Getenv("KAFKA_BROKER") != ""
}

func NewKafkaReader(topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{os.Getenv("KAFKA_BROKER")},
		Topic:   topic,
		GroupID: groupID,
	})
}

func NewKafkaWriter(topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(os.Getenv("KAFKA_BROKER")),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
}
