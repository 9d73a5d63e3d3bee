package config

import (
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
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

// Defaults matching the demo contract: unset instances answer as
// "unknown" with a white color swatch on port 5000.
const (
	DefaultPort          = 5000
	DefaultInstanceID    = "unknown"
	DefaultInstanceColor = "#ffffff"
)

type ServerConfig struct {
	Port        int    `mapstructure:"port"`
	Environment string `mapstructure:"environment"`
}

type InstanceConfig struct {
	ID    string `mapstructure:"id"`
	Color string `mapstructure:"color"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Instance InstanceConfig `mapstructure:"instance"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// Addr returns the listen address for the configured port. The host part is
// left empty so the server binds all interfaces.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

func Load() (*Config, error) {
	viper.SetDefault("server.environment", EnvDev)
	viper.SetDefault("server.port", DefaultPort)
	viper.SetDefault("instance.id", DefaultInstanceID)
	viper.SetDefault("instance.color", DefaultInstanceColor)
	viper.SetDefault("logging.level", LogLevelInfo)

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// The orchestration contract uses bare env names, not SERVER_-prefixed
	// ones: containers are launched with PORT, INSTANCE_ID, INSTANCE_COLOR.
	viper.BindEnv("server.port", "PORT")
	viper.BindEnv("instance.id", "INSTANCE_ID")
	viper.BindEnv("instance.color", "INSTANCE_COLOR")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Error("failed to read config file", slog.String("error", err.Error()))
			return nil, err
		}
	} else {
		slog.Info("loaded config file", slog.String("file", viper.ConfigFileUsed()))
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
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
					validation.Field(&sc.Environment,
						validation.Required,
						validation.In(EnvDev, EnvStaging, EnvProd),
					),
					validation.Field(&sc.Port,
						validation.Required,
						validation.Min(1),
						validation.Max(65535),
					),
				)
			}),
		),
		validation.Field(&c.Instance,
			validation.Required,
			validation.By(func(value interface{}) error {
				ic, ok := value.(InstanceConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be an InstanceConfig")
				}
				return validation.ValidateStruct(&ic,
					validation.Field(&ic.ID, validation.Required),
					validation.Field(&ic.Color, validation.Required),
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
	)
}
