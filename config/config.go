package config

import (
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/spf13/viper"
)

const (
	EnvDev     = "dev"
	EnvStaging = "staging"
	EnvProd    = "prod"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

const (
	DefaultPort        = 8000
	DefaultHost        = "0.0.0.0"
	DefaultServiceName = "microservice"
)

type ServerConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	ShutdownTimeout string `mapstructure:"shutdown_timeout"`
}

// Address returns the listen address in host:port form.
func (s ServerConfig) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// GracePeriod returns the parsed shutdown timeout. Validate guarantees it parses.
func (s ServerConfig) GracePeriod() time.Duration {
	d, err := time.ParseDuration(s.ShutdownTimeout)
	if err != nil {
		return 5 * time.Second
	}
	return d
}

type ServiceConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

type MetricsConfig struct {
	Address string `mapstructure:"address"`
}

// Enabled reports whether the admin metrics listener should be started.
func (m MetricsConfig) Enabled() bool {
	return m.Address != ""
}

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Service ServiceConfig `mapstructure:"service"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// envBindings maps nested keys onto the flat environment variables the
// service is deployed with.
var envBindings = map[string]string{
	"server.port":             "PORT",
	"server.host":             "HOST",
	"server.shutdown_timeout": "SHUTDOWN_TIMEOUT",
	"service.name":            "SERVICE_NAME",
	"service.environment":     "ENVIRONMENT",
	"logging.level":           "LOG_LEVEL",
	"metrics.address":         "METRICS_ADDR",
}

func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.host", DefaultHost)
	v.SetDefault("server.shutdown_timeout", "5s")
	v.SetDefault("service.name", DefaultServiceName)
	v.SetDefault("service.environment", EnvDev)
	v.SetDefault("logging.level", LogLevelInfo)
	v.SetDefault("metrics.address", "")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Error("failed to read config file", slog.String("error", err.Error()))
			return nil, err
		}
		slog.Debug("config file not found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", slog.String("file", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		slog.Error("failed to unmarshal config", slog.String("error", err.Error()))
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Server,
			validation.Required,
			validation.By(func(value interface{}) error {
				sc, ok := value.(ServerConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a ServerConfig")
				}
				return validation.ValidateStruct(&sc,
					validation.Field(&sc.Host,
						validation.Required,
						is.Host,
					),
					validation.Field(&sc.Port,
						validation.Required,
						validation.Min(1),
						validation.Max(65535),
					),
					validation.Field(&sc.ShutdownTimeout,
						validation.Required,
						validation.By(validateDuration),
					),
				)
			}),
		),
		validation.Field(&c.Service,
			validation.Required,
			validation.By(func(value interface{}) error {
				sc, ok := value.(ServiceConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a ServiceConfig")
				}
				return validation.ValidateStruct(&sc,
					validation.Field(&sc.Name, validation.Required),
					validation.Field(&sc.Environment,
						validation.Required,
						validation.In(EnvDev, EnvStaging, EnvProd),
					),
				)
			}),
		),
		validation.Field(&c.Logging,
			validation.Required,
			validation.By(func(value interface{}) error {
				lc, ok := value.(LoggingConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a LoggingConfig")
				}
				return validation.ValidateStruct(&lc,
					validation.Field(&lc.Level,
						validation.Required,
						validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError),
					),
				)
			}),
		),
		validation.Field(&c.Metrics,
			validation.By(func(value interface{}) error {
				mc, ok := value.(MetricsConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a MetricsConfig")
				}
				return validation.ValidateStruct(&mc,
					validation.Field(&mc.Address, validation.By(validateHostPort)),
				)
			}),
		),
	)
}

func validateHostPort(value interface{}) error {
	addr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	if addr == "" {
		return nil
	}

	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return validation.NewError("validation_invalid_hostport", "must be in host:port format")
	}

	if port == "" {
		return validation.NewError("validation_invalid_port", "port cannot be empty")
	}

	if host != "" {
		if err := is.Host.Validate(host); err != nil {
			return validation.NewError("validation_invalid_host", "invalid host")
		}
	}

	return nil
}

func validateDuration(value interface{}) error {
	durationStr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	d, err := time.ParseDuration(durationStr)
	if err != nil {
		return validation.NewError("validation_invalid_duration", "must be a valid duration (e.g., 2s, 5m, 1h)")
	}

	if d <= 0 {
		return validation.NewError("validation_invalid_duration", "must be positive")
	}

	return nil
}
