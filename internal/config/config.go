package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is built once at startup and injected where needed; nothing reads
// the environment after Load returns.
type Config struct {
	ServiceName string
	HTTPAddr    string
	LogLevel    string

	DatabaseURL string

	JWTSecret          []byte
	RefreshTokenPepper []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	ESURL      string
	ESUser     string
	ESPassword string
}

func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env not loaded: %v", err)
	}

	return &Config{
		ServiceName: envDefault("SERVICE_NAME", "taskmanager"),
		HTTPAddr:    envDefault("HTTP_ADDR", ":8080"),
		LogLevel:    os.Getenv("LOG_LEVEL"),

		DatabaseURL: must(os.Getenv("DATABASE_URL"), "DATABASE_URL"),

		JWTSecret:          []byte(must(os.Getenv("JWT_SECRET"), "JWT_SECRET")),
		RefreshTokenPepper: []byte(must(os.Getenv("REFRESH_TOKEN_PEPPER"), "REFRESH_TOKEN_PEPPER")),
		AccessTokenTTL:     time.Duration(envIntDefault("ACCESS_TOKEN_EXPIRE_MIN", 15)) * time.Minute,
		RefreshTokenTTL:    time.Duration(envIntDefault("REFRESH_TOKEN_EXPIRE_DAYS", 14)) * 24 * time.Hour,

		KafkaBrokers: csv(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   envDefault("KAFKA_TOPIC", "task_events"),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
	}
}

func must(v, name string) string {
	if v == "" {
		log.Fatalf("missing required env %s", name)
	}
	return v
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func csv(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
