package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"greenforge/internal/scoring"
)

// Config captures process level configuration.
type Config struct {
	Addr      string
	LogLevel  string
	LogFormat string

	// DatabaseURL selects the PostgreSQL catalogs. Empty keeps the embedded
	// in-memory catalogs.
	DatabaseURL string
	Redis       RedisConfig

	CompoundCacheTTL time.Duration
	ScoringWorkers   int
	MaxProducts      int
	UnknownPolicy    scoring.UnknownPolicy

	Kafka           KafkaConfig
	AuditSampleRate float64

	// RateLimitPerMinute caps API requests per client IP. Zero disables it.
	RateLimitPerMinute int
}

// RedisConfig configures the shared lookup cache. An empty URL disables it.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures audit delivery. No brokers keeps events in memory.
type KafkaConfig struct {
	Brokers    []string
	AuditTopic string
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() (Config, error) {
	cfg := Config{
		Addr:        getenv("GREENFORGE_ADDR", ":8080"),
		LogLevel:    strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogFormat:   strings.ToLower(getenv("LOG_FORMAT", "json")),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  500 * time.Millisecond,
			WriteTimeout: 500 * time.Millisecond,
		},
		Kafka: KafkaConfig{
			Brokers:    splitList(os.Getenv("KAFKA_BROKERS")),
			AuditTopic: getenv("KAFKA_AUDIT_TOPIC", "greenforge.recommendations"),
		},
	}

	var errs []error
	var err error
	if cfg.CompoundCacheTTL, err = time.ParseDuration(getenv("COMPOUND_CACHE_TTL", "10m")); err != nil {
		errs = append(errs, fmt.Errorf("COMPOUND_CACHE_TTL: %w", err))
	}
	if cfg.ScoringWorkers, err = strconv.Atoi(getenv("SCORING_WORKERS", "4")); err != nil {
		errs = append(errs, fmt.Errorf("SCORING_WORKERS: %w", err))
	}
	if cfg.MaxProducts, err = strconv.Atoi(getenv("MAX_PRODUCTS", "200")); err != nil {
		errs = append(errs, fmt.Errorf("MAX_PRODUCTS: %w", err))
	}
	if cfg.RateLimitPerMinute, err = strconv.Atoi(getenv("RATE_LIMIT_PER_MINUTE", "120")); err != nil {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_PER_MINUTE: %w", err))
	}
	if cfg.AuditSampleRate, err = strconv.ParseFloat(getenv("AUDIT_SAMPLE_RATE", "1.0"), 64); err != nil {
		errs = append(errs, fmt.Errorf("AUDIT_SAMPLE_RATE: %w", err))
	}
	policy, ok := scoring.ParseUnknownPolicy(os.Getenv("UNKNOWN_COMPOUND_POLICY"))
	if !ok {
		errs = append(errs, fmt.Errorf("UNKNOWN_COMPOUND_POLICY: unsupported value %q", os.Getenv("UNKNOWN_COMPOUND_POLICY")))
	}
	cfg.UnknownPolicy = policy

	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}
	return cfg, cfg.Validate()
}

// Validate rejects values the service cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("listen address is required"))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unsupported log level %q", c.LogLevel))
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("unsupported log format %q", c.LogFormat))
	}
	if c.CompoundCacheTTL <= 0 {
		errs = append(errs, errors.New("compound cache TTL must be positive"))
	}
	if c.ScoringWorkers < 1 {
		errs = append(errs, errors.New("scoring workers must be at least 1"))
	}
	if c.MaxProducts < 1 {
		errs = append(errs, errors.New("max products must be at least 1"))
	}
	if c.RateLimitPerMinute < 0 {
		errs = append(errs, errors.New("rate limit must not be negative"))
	}
	if c.AuditSampleRate < 0 || c.AuditSampleRate > 1 {
		errs = append(errs, errors.New("audit sample rate must be within [0,1]"))
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.AuditTopic == "" {
		errs = append(errs, errors.New("audit topic is required when kafka brokers are set"))
	}
	return errors.Join(errs...)
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
