package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/6a6d74/rdf-tabular/i18n"
)

// Config holds the settings shared by every command. Values come from
// flags, CSVW_* environment variables and an optional csvw.yaml.
type Config struct {
	Metadata string `mapstructure:"metadata"`
	Minimal  bool   `mapstructure:"minimal"`
	NoProv   bool   `mapstructure:"no_prov"`
	Strict   bool   `mapstructure:"strict"`
	Lang     string `mapstructure:"lang"`
	LogLevel string `mapstructure:"log_level"`
	NoColor  bool   `mapstructure:"no_color"`
}

var flagKeys = map[string]string{
	"metadata":  "metadata",
	"minimal":   "minimal",
	"no-prov":   "no_prov",
	"strict":    "strict",
	"lang":      "lang",
	"log-level": "log_level",
	"no-color":  "no_color",
}

func addGlobalFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.String("config", "", "config file (default ./csvw.yaml)")
	f.String("metadata", "", "user metadata overriding anything found for the input")
	f.Bool("minimal", false, "emit only statements derived from cell values")
	f.Bool("no-prov", false, "omit provenance")
	f.Bool("strict", false, "fail on invalid statements")
	f.String("lang", "en", "message language (en, ja)")
	f.String("log-level", "warn", "log level (debug, info, warn, error)")
	f.Bool("no-color", false, "disable colored diagnostics")
}

// loadConfig merges defaults, the config file, the environment and the
// flags of cmd, in increasing precedence.
func loadConfig(cmd *cobra.Command) (*Config, error) {
	v := viper.New()
	v.SetDefault("lang", "en")
	v.SetDefault("log_level", "warn")

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("csvw")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix("CSVW")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	for flag, key := range flagKeys {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// apply installs the process-wide settings: message language, colors and
// the logger.
func (c *Config) apply() *slog.Logger {
	i18n.SetLanguage(c.Lang)
	if c.NoColor {
		color.NoColor = true
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
