package config

import (
	"context"
	"strings"

	"github.com/spf13/viper"
	"github.com/turtacn/loanrisk/pkg/constants"
	"github.com/turtacn/loanrisk/pkg/errors"
	"github.com/turtacn/loanrisk/pkg/logger"
)

// EnvPrefix is prepended to every environment override, e.g. LOANRISK_SERVER_PORT.
const EnvPrefix = "LOANRISK"

// LoadConfig loads the configuration from file and environment variables.
func LoadConfig(log logger.Logger) (*Config, error) {
	return load(log, "")
}

// LoadConfigFile loads the configuration from an explicit file path plus the environment.
func LoadConfigFile(log logger.Logger, path string) (*Config, error) {
	return load(log, path)
}

func load(log logger.Logger, path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/loanrisk/")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.ErrInvalidRequest("failed to read config file").WithCause(err)
		}
		log.Info(context.Background(), "No config file found, using defaults and environment")
	} else {
		log.Info(context.Background(), "Loaded config file", logger.String("path", v.ConfigFileUsed()))
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.ErrInvalidRequest("failed to unmarshal config").WithCause(err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.grpc_port", 50051)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.read_timeout", 15)
	v.SetDefault("server.write_timeout", 15)
	v.SetDefault("server.idle_timeout", 60)
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("model.backend", string(constants.BackendArtifact))
	v.SetDefault("model.artifact_path", "models/adaboost_pipeline.json")
	v.SetDefault("model.remote_target", "")
	v.SetDefault("model.remote_timeout", "2s")

	v.SetDefault("session.ttl", constants.DefaultSessionTTL.String())
	v.SetDefault("session.cleanup_interval", "5m")
	v.SetDefault("session.cookie_name", constants.DefaultSessionCookie)
	v.SetDefault("session.secure_cookie", false)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl", constants.DefaultPredictionCacheTTL.String())

	v.SetDefault("redis.addresses", []string{})
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_minute", constants.DefaultRateLimitPerMinute)
	v.SetDefault("rate_limit.burst", constants.DefaultRateLimitBurst)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.jaeger_endpoint", "")
	v.SetDefault("tracing.service_name", constants.ServiceName)
	v.SetDefault("tracing.environment", "development")
	v.SetDefault("tracing.sampling_rate", 1.0)
}

//Personal.AI order the ending
