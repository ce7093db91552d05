package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"

	DirectorySeed  = "seed"
	DirectoryMongo = "mongo"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth     AuthConfig
	Policy   PolicyConfig
	Sessions SessionConfig
	Audit    AuditConfig

	Mongo MongoConfig
	Redis RedisConfig
}

type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET, required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,  default=24h"`
	// SharedSecret is the single login secret accepted for every account.
	// Placeholder scheme until a real identity provider is wired in.
	SharedSecret string        `env:"AUTH_SHARED_SECRET, default=password"`
	LoginLatency time.Duration `env:"AUTH_LOGIN_LATENCY, default=1s"`
	// Directory selects the user directory: seed or mongo.
	Directory string `env:"USER_DIRECTORY, default=seed"`
}

type PolicyConfig struct {
	// File overrides the embedded RBAC policy when set.
	File string `env:"RBAC_POLICY_FILE"`
}

type SessionConfig struct {
	// Backend selects the session store: memory or redis.
	Backend string        `env:"SESSION_BACKEND, default=memory"`
	TTL     time.Duration `env:"SESSION_TTL,     default=24h"`

	// SweepInterval is how often the memory backend drops expired entries.
	SweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL, default=10m"`
}

type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=4"`
	// Backend selects where entries are kept: memory or mongo.
	Backend string `env:"AUDIT_BACKEND, default=memory"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=stakeholder_mapping"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// NeedsMongo reports whether any component is backed by MongoDB.
func (c *Config) NeedsMongo() bool {
	return c.Auth.Directory == DirectoryMongo || c.Audit.Backend == BackendMongo
}

// NeedsRedis reports whether sessions are kept in Redis.
func (c *Config) NeedsRedis() bool {
	return c.Sessions.Backend == BackendRedis
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Sessions.Backend {
	case BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("unknown SESSION_BACKEND %q", c.Sessions.Backend)
	}
	switch c.Auth.Directory {
	case DirectorySeed, DirectoryMongo:
	default:
		return fmt.Errorf("unknown USER_DIRECTORY %q", c.Auth.Directory)
	}
	switch c.Audit.Backend {
	case BackendMemory, BackendMongo:
	default:
		return fmt.Errorf("unknown AUDIT_BACKEND %q", c.Audit.Backend)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.Auth.SharedSecret == "" {
		return fmt.Errorf("AUTH_SHARED_SECRET must not be empty")
	}
	return nil
}
