// Package config provides a reusable loader for the compiler driver's
// configuration files and environment variables. It is versioned so that
// callers can depend on a stable API contract.
//
// Version: v0.2.0
//
// This package is consumed only by cmd/cli (the driver): the core
// compiler packages under internal/ never read configuration files or the
// process environment themselves — they take an explicit options struct.
// See pkg/compiler.Options.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"synnergy-network/synthesis/pkg/utils"
)

// Version is the semantic version of this configuration package.
const Version = "v0.2.0"

// DriverConfig is the unified configuration for the compiler CLI driver. It
// mirrors the structure of the YAML files under cmd/cli/config.
type DriverConfig struct {
	Target struct {
		Name string `mapstructure:"name" json:"name"` // t1-wasm-contracts | t2-sbf | t3-bounded-ledger
	} `mapstructure:"target" json:"target"`

	Paths struct {
		SearchRoots []string `mapstructure:"search_roots" json:"search_roots"`
		ImportMap   []struct {
			Prefix string `mapstructure:"prefix" json:"prefix"`
			Root   string `mapstructure:"root" json:"root"`
		} `mapstructure:"import_map" json:"import_map"`
	} `mapstructure:"paths" json:"paths"`

	Output struct {
		Dir         string `mapstructure:"dir" json:"dir"`
		EmitYAMLIDL bool   `mapstructure:"emit_yaml_idl" json:"emit_yaml_idl"`
	} `mapstructure:"output" json:"output"`

	Logging struct {
		Level string `mapstructure:"level" json:"level"`
		File  string `mapstructure:"file" json:"file"`
	} `mapstructure:"logging" json:"logging"`
}

// AppConfig holds the configuration loaded via Load or LoadFromEnv.
var AppConfig DriverConfig

// Load reads configuration files and merges any environment-specific
// overrides. The resulting configuration is stored in AppConfig and
// returned.
//
// The function uses the provided environment name to merge additional
// config files. If env is empty, only the default configuration is loaded.
func Load(env string) (*DriverConfig, error) {
	viper.SetConfigName("default")
	viper.AddConfigPath("cmd/cli/config")
	viper.AddConfigPath("config")
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		return nil, utils.Wrap(err, "load config")
	}

	if env != "" {
		viper.SetConfigName(env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, utils.Wrap(err, fmt.Sprintf("merge %s config", env))
		}
	}

	viper.SetEnvPrefix("SOLC")
	viper.AutomaticEnv()

	if err := viper.Unmarshal(&AppConfig); err != nil {
		return nil, utils.Wrap(err, "unmarshal config")
	}
	return &AppConfig, nil
}

// LoadFromEnv loads configuration using the SOLC_ENV environment variable.
func LoadFromEnv() (*DriverConfig, error) {
	return Load(utils.EnvOrDefault("SOLC_ENV", ""))
}
