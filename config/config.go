package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Log        LogConfig        `mapstructure:"log"`
	Solana     SolanaConfig     `mapstructure:"solana"`
	Settlement SettlementConfig `mapstructure:"settlement"`
	Reward     RewardConfig     `mapstructure:"reward"`
	FeePayer   FeePayerConfig   `mapstructure:"fee_payer"`
	Analytics  AnalyticsConfig  `mapstructure:"analytics"`
	RateLimit  RateLimitConfig  `mapstructure:"ratelimit"`
	Internal   InternalConfig   `mapstructure:"internal"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	Migrate         bool          `mapstructure:"migrate"` // apply embedded migrations at startup
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
	// OpTimeout bounds each read and write. Snapshot and rate-limit calls sit
	// on the burn hot path.
	OpTimeout time.Duration `mapstructure:"op_timeout"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// JWTConfig validates session tokens issued by the auth service.
type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// SolanaConfig describes the cluster, the token and the service fee payer.
type SolanaConfig struct {
	RPCURL         string `mapstructure:"rpc_url"`
	Mint           string `mapstructure:"mint"`
	Decimals       uint8  `mapstructure:"decimals"`
	Symbol         string `mapstructure:"symbol"`
	TokenProgramID string `mapstructure:"token_program_id"`
	// FeePayerKeypair is either a JSON byte array or a path to a solana-keygen file.
	FeePayerKeypair     string        `mapstructure:"fee_payer_keypair"`
	Commitment          string        `mapstructure:"commitment"`
	Timeout             time.Duration `mapstructure:"timeout"`
	ConfirmTimeout      time.Duration `mapstructure:"confirm_timeout"`
	ConfirmPollInterval time.Duration `mapstructure:"confirm_poll_interval"`
}

// SettlementConfig controls how strictly burn confirmations are verified.
type SettlementConfig struct {
	SnapshotTTL      time.Duration `mapstructure:"snapshot_ttl"`
	Tolerance        float64       `mapstructure:"tolerance"`
	RequireSnapshot  bool          `mapstructure:"require_snapshot"`
	SnapshotBackend  string        `mapstructure:"snapshot_backend"` // memory, redis
	VerifySignatures bool          `mapstructure:"verify_signatures"`
}

type RewardConfig struct {
	BalanceCacheTTL time.Duration `mapstructure:"balance_cache_ttl"`
}

type FeePayerConfig struct {
	BalanceCacheTTL time.Duration `mapstructure:"balance_cache_ttl"`
}

// AnalyticsConfig points at an Umami-compatible collector. Empty URL disables it.
type AnalyticsConfig struct {
	URL       string        `mapstructure:"url"`
	WebsiteID string        `mapstructure:"website_id"`
	Hostname  string        `mapstructure:"hostname"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type RateLimitConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// InternalConfig authenticates trusted backend callers such as the game server.
// An empty APIKey leaves the internal routes unregistered.
type InternalConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: STACK_.
// Nested keys use underscore: STACK_SOLANA_RPC_URL, STACK_SETTLEMENT_REQUIRE_SNAPSHOT, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "stack_attack")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.migrate", true)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 20)
	v.SetDefault("redis.op_timeout", "500ms")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry", "24h")
	v.SetDefault("jwt.issuer", "stack-attack")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("solana.rpc_url", "https://api.devnet.solana.com")
	v.SetDefault("solana.mint", "")
	v.SetDefault("solana.decimals", 9)
	v.SetDefault("solana.symbol", "STACK")
	v.SetDefault("solana.token_program_id", "TokenzQdBNbLqP5VEhdkAS6EPFLC1PR5qKzp2pwi5WZT")
	v.SetDefault("solana.fee_payer_keypair", "")
	v.SetDefault("solana.commitment", "confirmed")
	v.SetDefault("solana.timeout", "30s")
	v.SetDefault("solana.confirm_timeout", "60s")
	v.SetDefault("solana.confirm_poll_interval", "500ms")
	v.SetDefault("settlement.snapshot_ttl", "30s")
	v.SetDefault("settlement.tolerance", 0.99)
	v.SetDefault("settlement.require_snapshot", false)
	v.SetDefault("settlement.snapshot_backend", "memory")
	v.SetDefault("settlement.verify_signatures", true)
	v.SetDefault("reward.balance_cache_ttl", "2m")
	v.SetDefault("fee_payer.balance_cache_ttl", "60s")
	v.SetDefault("analytics.url", "")
	v.SetDefault("analytics.website_id", "")
	v.SetDefault("analytics.hostname", "stack-attack")
	v.SetDefault("analytics.timeout", "5s")
	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("internal.api_key", "")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// STACK_SOLANA_RPC_URL -> solana.rpc_url
	v.SetEnvPrefix("STACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// A config file is optional; env vars can suffice.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects values the settlement core cannot run with.
func (c *Config) Validate() error {
	if c.Settlement.Tolerance <= 0 || c.Settlement.Tolerance > 1 {
		return fmt.Errorf("settlement.tolerance must be in (0, 1], got %v", c.Settlement.Tolerance)
	}
	if c.Settlement.SnapshotTTL <= 0 {
		return fmt.Errorf("settlement.snapshot_ttl must be positive")
	}
	switch c.Settlement.SnapshotBackend {
	case "memory", "redis":
	default:
		return fmt.Errorf("settlement.snapshot_backend must be memory or redis, got %q", c.Settlement.SnapshotBackend)
	}
	if c.Solana.Decimals > 18 {
		return fmt.Errorf("solana.decimals out of range: %d", c.Solana.Decimals)
	}
	return nil
}
