// Package config loads process configuration from an optional YAML file with
// ONEGOV_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces every environment override, e.g. ONEGOV_SERVER_ADDR.
const EnvPrefix = "ONEGOV"

// Config is the full process configuration.
type Config struct {
	Server    Server
	Log       Log
	Postgres  PostgresConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Catalog   Catalog
	Tracking  Tracking
	RateLimit RateLimit
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string
}

type Log struct {
	Level  string
	Format string
}

// PostgresConfig is optional; an empty DSN selects in-memory stores.
type PostgresConfig struct {
	DSN          string
	Migrate      bool
	MaxOpenConns int
	MaxIdleConns int
}

// RedisConfig is optional; an empty URL disables the tracking cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	TrackingTTL  time.Duration
}

// KafkaConfig is optional; no brokers disables the outbox relay.
type KafkaConfig struct {
	Brokers    []string
	AuditTopic string
	Partitions int32
}

type Catalog struct {
	Path string
}

type Tracking struct {
	MaxIssueRetries int
}

// RateLimit budgets are per client over Window. Zero disables a class.
type RateLimit struct {
	Enabled   bool
	Window    time.Duration
	TrackMax  int
	SubmitMax int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.jwt_signing_key", "dev-secret-key-change-in-production")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.migrate", true)
	v.SetDefault("postgres.max_open_conns", 20)
	v.SetDefault("postgres.max_idle_conns", 5)
	v.SetDefault("redis.url", "")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)
	v.SetDefault("redis.dial_timeout", 5*time.Second)
	v.SetDefault("redis.read_timeout", 3*time.Second)
	v.SetDefault("redis.write_timeout", 3*time.Second)
	v.SetDefault("redis.tracking_ttl", 30*time.Second)
	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.audit_topic", "onegov.audit")
	v.SetDefault("kafka.partitions", 3)
	v.SetDefault("catalog.path", "")
	v.SetDefault("tracking.max_issue_retries", 5)
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.window", time.Minute)
	v.SetDefault("rate_limit.track_max", 30)
	v.SetDefault("rate_limit.submit_max", 20)
}

// Load reads config.yaml from configPath when present, then applies env overrides.
// A missing file is not an error; a malformed one is.
func Load(configPath string) (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		Server: Server{
			Addr:          v.GetString("server.addr"),
			JWTSigningKey: v.GetString("server.jwt_signing_key"),
		},
		Log: Log{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Postgres: PostgresConfig{
			DSN:          v.GetString("postgres.dsn"),
			Migrate:      v.GetBool("postgres.migrate"),
			MaxOpenConns: v.GetInt("postgres.max_open_conns"),
			MaxIdleConns: v.GetInt("postgres.max_idle_conns"),
		},
		Redis: RedisConfig{
			URL:          v.GetString("redis.url"),
			PoolSize:     v.GetInt("redis.pool_size"),
			MinIdleConns: v.GetInt("redis.min_idle_conns"),
			DialTimeout:  v.GetDuration("redis.dial_timeout"),
			ReadTimeout:  v.GetDuration("redis.read_timeout"),
			WriteTimeout: v.GetDuration("redis.write_timeout"),
			TrackingTTL:  v.GetDuration("redis.tracking_ttl"),
		},
		Kafka: KafkaConfig{
			Brokers:    splitList(v.GetStringSlice("kafka.brokers")),
			AuditTopic: v.GetString("kafka.audit_topic"),
			Partitions: v.GetInt32("kafka.partitions"),
		},
		Catalog: Catalog{
			Path: v.GetString("catalog.path"),
		},
		Tracking: Tracking{
			MaxIssueRetries: v.GetInt("tracking.max_issue_retries"),
		},
		RateLimit: RateLimit{
			Enabled:   v.GetBool("rate_limit.enabled"),
			Window:    v.GetDuration("rate_limit.window"),
			TrackMax:  v.GetInt("rate_limit.track_max"),
			SubmitMax: v.GetInt("rate_limit.submit_max"),
		},
	}
	return cfg, cfg.Validate()
}

// Validate rejects values that would only fail later at wiring time.
func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	if c.Server.JWTSigningKey == "" {
		return errors.New("server.jwt_signing_key is required")
	}
	if c.Tracking.MaxIssueRetries < 1 {
		return errors.New("tracking.max_issue_retries must be at least 1")
	}
	if c.RateLimit.Enabled && c.RateLimit.Window <= 0 {
		return errors.New("rate_limit.window must be positive when rate limiting is enabled")
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.AuditTopic == "" {
		return errors.New("kafka.audit_topic is required when brokers are set")
	}
	return nil
}

// splitList accepts both YAML lists and comma-separated env values.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
