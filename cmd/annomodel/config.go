package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// config holds the settings shared by all commands. Values come from flags,
// then ANNOMODEL_* environment variables, then annomodel.yaml, then defaults.
type config struct {
	OutputDir      string `mapstructure:"output_dir"`
	Package        string `mapstructure:"package"`
	PackageName    string `mapstructure:"package_name"`
	RuntimePackage string `mapstructure:"runtime_package"`
	FileName       string `mapstructure:"file_name"`
	LogLevel       string `mapstructure:"log_level"`
	NoColor        bool   `mapstructure:"no_color"`
}

// flag name -> config key
var flagKeys = map[string]string{
	"output-dir":      "output_dir",
	"package":         "package",
	"package-name":    "package_name",
	"runtime-package": "runtime_package",
	"file-name":       "file_name",
	"log-level":       "log_level",
	"no-color":        "no_color",
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("output_dir", ".")
	v.SetDefault("runtime_package", "github.com/jhump/annomodel")
	v.SetDefault("log_level", "warn")
	v.SetDefault("no_color", false)

	v.SetConfigName("annomodel")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("ANNOMODEL")
	v.AutomaticEnv()
	return v
}

// loadConfig reads configuration for the given command. If configFile is
// non-empty, it is used instead of searching for annomodel.yaml.
func loadConfig(v *viper.Viper, cmd *cobra.Command, configFile string) (*config, error) {
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, err
			}
		}
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validateConfig(cfg *config) error {
	if _, err := parseLevel(cfg.LogLevel); err != nil {
		return err
	}
	if strings.ContainsAny(cfg.FileName, `/\`) {
		return fmt.Errorf("file_name must not contain a path separator, got: %s", cfg.FileName)
	}
	if cfg.FileName != "" && !strings.HasSuffix(cfg.FileName, ".go") {
		return fmt.Errorf("file_name must end in .go, got: %s", cfg.FileName)
	}
	if cfg.OutputDir == "" {
		return errors.New("output_dir must not be empty")
	}
	return nil
}

func parseLevel(s string) (zapcore.Level, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return lvl, fmt.Errorf("invalid log_level %q: %w", s, err)
	}
	return lvl, nil
}

func newLogger(cfg *config) (*zap.Logger, error) {
	lvl, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.DisableStacktrace = true
	if cfg.NoColor {
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	} else {
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return zc.Build()
}
