// Package config loads process-wide configuration for the kylo CLI.
//
// Defaults form the immutable configuration table for the execution engine
// (default mapper count, tool locations, registry root). A config file is
// optional; environment variables with the KYLO_ prefix override file values.
package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Sqoop    SqoopConfig    `mapstructure:"sqoop"`
	Spark    SparkConfig    `mapstructure:"spark"`
	Registry RegistryConfig `mapstructure:"registry"`
}

type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Profile string `mapstructure:"profile"`
}

// SqoopConfig carries defaults for the bulk-transfer command builder.
type SqoopConfig struct {
	// SystemPath is the sqoop executable invoked by rendered commands.
	SystemPath string `mapstructure:"system_path"`
	// DefaultMappers is applied when a job does not set a mapper count.
	DefaultMappers int `mapstructure:"default_mappers"`
}

// SparkConfig carries defaults for the distributed-compute launcher.
type SparkConfig struct {
	Home           string        `mapstructure:"home"`
	Master         string        `mapstructure:"master"`
	DriverMemory   string        `mapstructure:"driver_memory"`
	ExecutorMemory string        `mapstructure:"executor_memory"`
	NumExecutors   int           `mapstructure:"num_executors"`
	ExecutorCores  int           `mapstructure:"executor_cores"`
	NetworkTimeout time.Duration `mapstructure:"network_timeout"`
}

type RegistryConfig struct {
	// Root is the directory holding per-job execution records.
	Root string `mapstructure:"root"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.profile", "STRUCTURED")

	v.SetDefault("sqoop.system_path", "sqoop")
	v.SetDefault("sqoop.default_mappers", 4)

	v.SetDefault("spark.home", "/usr/hdp/current/spark-client/")
	v.SetDefault("spark.master", "local")
	v.SetDefault("spark.driver_memory", "512m")
	v.SetDefault("spark.executor_memory", "512m")
	v.SetDefault("spark.num_executors", 1)
	v.SetDefault("spark.executor_cores", 1)
	v.SetDefault("spark.network_timeout", 120*time.Second)

	v.SetDefault("registry.root", ".kylo/jobs")
}

// Load resolves configuration from defaults, an optional kylo.yaml, and
// KYLO_-prefixed environment variables.
func Load(ctx context.Context) (*Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("kylo")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.kylo")
	v.AddConfigPath("/etc/kylo")

	v.SetEnvPrefix("KYLO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
