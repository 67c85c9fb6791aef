package config

import (
	"fmt"
	"time"

	"github.com/turtacn/loanrisk/pkg/constants"
)

// Config holds the application's configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Model     ModelConfig     `mapstructure:"model"`
	Session   SessionConfig   `mapstructure:"session"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Log       LogConfig       `mapstructure:"log"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
}

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	GRPCPort       int      `mapstructure:"grpc_port"` // 0 disables the gRPC server
	Environment    string   `mapstructure:"environment"`
	ReadTimeout    int      `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout   int      `mapstructure:"write_timeout"` // in seconds
	IdleTimeout    int      `mapstructure:"idle_timeout"`  // in seconds
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// HTTPAddress is the listen address of the HTTP server.
func (c *ServerConfig) HTTPAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// GRPCAddress is the listen address of the gRPC server.
func (c *ServerConfig) GRPCAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.GRPCPort)
}

// IsProduction reports whether debug surfaces (pprof, gin debug mode) must stay off.
func (c *ServerConfig) IsProduction() bool {
	return c.Environment == "production"
}

type ModelConfig struct {
	Backend       string        `mapstructure:"backend"`
	ArtifactPath  string        `mapstructure:"artifact_path"`
	RemoteTarget  string        `mapstructure:"remote_target"`
	RemoteTimeout time.Duration `mapstructure:"remote_timeout"`
}

type SessionConfig struct {
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	CookieName      string        `mapstructure:"cookie_name"`
	SecureCookie    bool          `mapstructure:"secure_cookie"`
}

type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type RedisConfig struct {
	Addresses    []string `mapstructure:"addresses"` // empty disables the L2 cache
	Password     string   `mapstructure:"password"`
	DB           int      `mapstructure:"db"`
	PoolSize     int      `mapstructure:"pool_size"`
	MinIdleConns int      `mapstructure:"min_idle_conns"`
}

// Enabled reports whether a redis deployment is configured.
func (c *RedisConfig) Enabled() bool {
	return len(c.Addresses) > 0
}

// RateLimitConfig bounds how fast one client may call the JSON prediction API.
type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
	Burst             int  `mapstructure:"burst"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type TracingConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	JaegerEndpoint string  `mapstructure:"jaeger_endpoint"`
	ServiceName    string  `mapstructure:"service_name"`
	Environment    string  `mapstructure:"environment"`
	SamplingRate   float64 `mapstructure:"sampling_rate"`
}

// Validate checks for essential configuration values.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Server.GRPCPort < 0 || c.Server.GRPCPort > 65535 {
		return fmt.Errorf("server.grpc_port out of range: %d", c.Server.GRPCPort)
	}
	if c.Server.GRPCPort != 0 && c.Server.GRPCPort == c.Server.Port {
		return fmt.Errorf("server.grpc_port must differ from server.port")
	}

	switch constants.ClassifierBackend(c.Model.Backend) {
	case constants.BackendArtifact:
		if c.Model.ArtifactPath == "" {
			return fmt.Errorf("model.artifact_path is required for the %q backend", c.Model.Backend)
		}
	case constants.BackendRemote:
		if c.Model.RemoteTarget == "" {
			return fmt.Errorf("model.remote_target is required for the %q backend", c.Model.Backend)
		}
		if c.Model.RemoteTimeout <= 0 {
			return fmt.Errorf("model.remote_timeout must be positive")
		}
	case constants.BackendStub:
	default:
		return fmt.Errorf("unknown model.backend %q", c.Model.Backend)
	}

	if c.Session.TTL <= 0 {
		return fmt.Errorf("session.ttl must be positive")
	}
	if c.Session.CookieName == "" {
		return fmt.Errorf("session.cookie_name is required")
	}
	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive when the cache is enabled")
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerMinute <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("rate_limit.requests_per_minute and rate_limit.burst must be positive when rate limiting is enabled")
	}
	if c.Tracing.Enabled && c.Tracing.JaegerEndpoint == "" {
		return fmt.Errorf("tracing.jaeger_endpoint is required when tracing is enabled")
	}
	if c.Tracing.SamplingRate < 0 || c.Tracing.SamplingRate > 1 {
		return fmt.Errorf("tracing.sampling_rate must be within [0,1]")
	}
	return nil
}

//Personal.AI order the ending
