// Package config loads the machine's opening stock and runtime settings.
//
// Values are resolved in order: built-in defaults, an optional YAML file,
// an optional .env file, then process environment variables.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"coffeemachine/pkg/fault"
)

// Stock is the opening inventory.
type Stock struct {
	Water          int `yaml:"water" env:"COFFEE_WATER"`
	Milk           int `yaml:"milk" env:"COFFEE_MILK"`
	CoffeeBeans    int `yaml:"coffee_beans" env:"COFFEE_BEANS"`
	DisposableCups int `yaml:"disposable_cups" env:"COFFEE_CUPS"`
}

// Config is everything app.Run needs to build a machine.
type Config struct {
	Stock        Stock  `yaml:"stock"`
	Cash         int    `yaml:"cash" env:"COFFEE_CASH"`
	Addr         string `yaml:"addr" env:"COFFEE_ADDR"`
	LogLevel     string `yaml:"log_level" env:"COFFEE_LOG_LEVEL"`
	Development  bool   `yaml:"development" env:"COFFEE_DEV"`
	JournalLimit int    `yaml:"journal_limit" env:"COFFEE_JOURNAL_LIMIT"`
}

// Default mirrors the factory setup: 400 ml water, 540 ml milk, 120 g beans,
// 9 cups and $550 in the register. An empty LogLevel lets the caller pick one.
func Default() Config {
	return Config{
		Stock: Stock{
			Water:          400,
			Milk:           540,
			CoffeeBeans:    120,
			DisposableCups: 9,
		},
		Cash:         550,
		Addr:         ":8765",
		JournalLimit: 1000,
	}
}

// Load resolves the configuration. Both paths are optional; an explicitly
// named file that does not exist is an error.
func Load(path, envFile string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return Config{}, fmt.Errorf("failed to load env file: %w", err)
		}
	}

	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("failed to decode environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects negative opening stock or cash.
func (c Config) Validate() error {
	err := fault.NonNegative("config",
		[]string{"stock.water", "stock.milk", "stock.coffee_beans", "stock.disposable_cups", "cash", "journal_limit"},
		c.Stock.Water, c.Stock.Milk, c.Stock.CoffeeBeans, c.Stock.DisposableCups, c.Cash, c.JournalLimit)
	if err != nil {
		return err
	}
	if c.Addr == "" {
		return fault.InvalidArgument("config: addr is required")
	}
	return nil
}
