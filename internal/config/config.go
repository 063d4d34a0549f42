// Package config resolves the contact book's settings from flags, the
// environment, an optional YAML file and built-in defaults, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// DefaultDBFile is the database file name used when none is configured.
const DefaultDBFile = "people_data.db"

// EnvPrefix prefixes every environment variable read by Load (PEOPLE_DB, ...).
const EnvPrefix = "PEOPLE"

// Config holds the resolved settings for one invocation.
type Config struct {
	DB       string `mapstructure:"db"`
	Driver   string `mapstructure:"driver"`
	LogLevel string `mapstructure:"log_level"`
	Format   string `mapstructure:"format"`
}

// Source describes where Load should look.
type Source struct {
	// File is an explicit config file; when empty, people.yaml is searched
	// for in the working directory and $HOME/.config/people.
	File string

	// Flags are bound by name (db, driver, format). Only flags the user
	// actually set override lower layers.
	Flags *pflag.FlagSet
}

// Load resolves a Config. A missing implicit config file is not an error; a
// missing explicit one is.
func Load(src Source) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if src.File != "" {
		v.SetConfigFile(src.File)
	} else {
		v.SetConfigName("people")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "people"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	dbDefault, err := DefaultDBPath()
	if err != nil {
		return nil, err
	}
	v.SetDefault("db", dbDefault)
	v.SetDefault("driver", "sqlite3")
	v.SetDefault("log_level", "warn")
	v.SetDefault("format", "text")

	if src.Flags != nil {
		for _, name := range []string{"db", "driver", "format"} {
			if f := src.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(name, f); err != nil {
					return nil, fmt.Errorf("bind flag %q: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if src.File != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// DefaultDBPath returns DefaultDBFile inside the current working directory.
func DefaultDBPath() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolve working directory: %w", err)
	}
	return filepath.Join(wd, DefaultDBFile), nil
}
