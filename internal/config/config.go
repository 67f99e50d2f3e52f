package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const minSigningKeyLength = 32

var (
	errMissingTokenKey   = errors.New("token.signing_key must be at least 32 characters")
	errMissingSessionKey = errors.New("api.jwt_signing_key is required")
	errInvalidTTL        = errors.New("token TTLs must be positive")
	errUnknownLock       = errors.New("ledger.lock_backend must be one of memory, redis, postgres")
	errMissingRedis      = errors.New("redis.address is required by the redis lock backend")
	errInvalidLockTiming = errors.New("ledger.lock_ttl and ledger.lock_retry must be positive for the redis lock backend")
)

const (
	LockBackendMemory   = "memory"
	LockBackendRedis    = "redis"
	LockBackendPostgres = "postgres"
)

type AppConfig struct {
	API      *APIConfig      `mapstructure:"api"`
	Gin      *GinConfig      `mapstructure:"gin"`
	Postgres *PostgresConfig `mapstructure:"postgres"`
	Token    *TokenConfig    `mapstructure:"token"`
	Ledger   *LedgerConfig   `mapstructure:"ledger"`
	Redis    *RedisConfig    `mapstructure:"redis"`
	Kafka    *KafkaConfig    `mapstructure:"kafka"`
}

type APIConfig struct {
	Environment        string        `mapstructure:"environment"`
	BaseURL            string        `mapstructure:"base_url"`
	Port               string        `mapstructure:"port"`
	AllowedCORSDomains []string      `mapstructure:"allowed_cors_domains"`
	JWTSigningKey      string        `mapstructure:"jwt_signing_key"`
	SessionTTL         time.Duration `mapstructure:"session_ttl"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"db"`
	SSLMode  string `mapstructure:"sslmode"`
}

// TokenConfig holds the QR token secret. It is read once at startup.
type TokenConfig struct {
	SigningKey string        `mapstructure:"signing_key"`
	StallTTL   time.Duration `mapstructure:"stall_ttl"`
	StudentTTL time.Duration `mapstructure:"student_ttl"`
}

type LedgerConfig struct {
	LockBackend string        `mapstructure:"lock_backend"`
	LockTTL     time.Duration `mapstructure:"lock_ttl"`
	LockRetry   time.Duration `mapstructure:"lock_retry"`
}

type RedisConfig struct {
	Address  string        `mapstructure:"address"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	PoolSize int           `mapstructure:"pool_size"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

func (c *PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DB, c.SSLMode)
}

func (c *KafkaConfig) Enabled() bool {
	return c != nil && len(c.Brokers) > 0 && c.Topic != ""
}

func Load(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("v.ReadInConfig -> %w", err)
	}

	conf := &AppConfig{}
	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("v.Unmarshal -> %w", err)
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}

	return conf, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.environment", "development")
	v.SetDefault("api.port", "8080")
	v.SetDefault("api.session_ttl", 12*time.Hour)
	v.SetDefault("gin.mode", "debug")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("token.stall_ttl", 30*24*time.Hour)
	v.SetDefault("token.student_ttl", 15*time.Minute)
	v.SetDefault("ledger.lock_backend", LockBackendPostgres)
	v.SetDefault("ledger.lock_ttl", 5*time.Second)
	v.SetDefault("ledger.lock_retry", 25*time.Millisecond)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.timeout", 3*time.Second)

	// Keys without a value in config.yml are invisible to AutomaticEnv
	// during Unmarshal unless they are known to viper.
	for _, key := range []string{"api.jwt_signing_key", "token.signing_key", "redis.address", "redis.password", "kafka.topic"} {
		_ = v.BindEnv(key)
	}
}

func (c *AppConfig) Validate() error {
	if c.API == nil || c.API.JWTSigningKey == "" {
		return errMissingSessionKey
	}
	if c.Token == nil || len(c.Token.SigningKey) < minSigningKeyLength {
		return errMissingTokenKey
	}
	if c.Token.StallTTL <= 0 || c.Token.StudentTTL <= 0 {
		return errInvalidTTL
	}
	if c.Ledger == nil {
		c.Ledger = &LedgerConfig{LockBackend: LockBackendPostgres}
	}
	switch c.Ledger.LockBackend {
	case LockBackendMemory, LockBackendPostgres:
	case LockBackendRedis:
		if c.Redis == nil || c.Redis.Address == "" {
			return errMissingRedis
		}
		if c.Ledger.LockTTL <= 0 || c.Ledger.LockRetry <= 0 {
			return errInvalidLockTiming
		}
	default:
		return errUnknownLock
	}

	return nil
}
