package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	envPrefix = "EXAMTT"
)

type Config struct {
	Env         string `mapstructure:"env" validate:"oneof=development production"`
	Seed        int64  `mapstructure:"seed"`
	Prefix      string `mapstructure:"prefix" validate:"required"`
	Workers     int    `mapstructure:"workers" validate:"min=1"`
	Samples     int    `mapstructure:"samples" validate:"min=1"`
	MaxRestarts int    `mapstructure:"max_restarts" validate:"min=0"`

	Log      LogConfig      `mapstructure:"log"`
	Instance InstanceConfig `mapstructure:"instance"`
	Ops      OpsConfig      `mapstructure:"ops"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=console json"`
}

// InstanceConfig describes the synthetic instance the CLI generates.
type InstanceConfig struct {
	Exams      int `mapstructure:"exams" validate:"min=1"`
	Slots      int `mapstructure:"slots" validate:"min=1"`
	Students   int `mapstructure:"students" validate:"min=1"`
	PerStudent int `mapstructure:"per_student" validate:"min=1,ltefield=Exams"`
}

// OpsConfig controls the operator rounds of the ops command.
type OpsConfig struct {
	Operator string  `mapstructure:"operator" validate:"oneof=mutate swap disrupt crossover"`
	Rounds   int     `mapstructure:"rounds" validate:"min=1"`
	Fraction float64 `mapstructure:"fraction" validate:"gt=0,lte=1"`
}

// New returns a viper instance carrying the defaults and reading EXAMTT_*
// environment variables. Callers bind their flags to it before Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", EnvDevelopment)
	v.SetDefault("seed", 1)
	v.SetDefault("prefix", "timetable")
	v.SetDefault("workers", 4)
	v.SetDefault("samples", 16)
	v.SetDefault("max_restarts", 1000)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("instance.exams", 100)
	v.SetDefault("instance.slots", 20)
	v.SetDefault("instance.students", 400)
	v.SetDefault("instance.per_student", 3)

	v.SetDefault("ops.operator", "mutate")
	v.SetDefault("ops.rounds", 1000)
	v.SetDefault("ops.fraction", 0.2)
}

// Load reads the optional config file, then decodes and validates the
// merged settings.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading %s: %w", file, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
