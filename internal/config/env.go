package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Runner holds the settings for the headless pubsim binary, loaded from the
// environment. The simulation core never reads these directly.
type Runner struct {
	Seed     int64  `env:"PUBSIM_SEED" envDefault:"0"`
	DBPath   string `env:"PUBSIM_DB" envDefault:"data/pubsim.db"`
	Weeks    int    `env:"PUBSIM_WEEKS" envDefault:"4"`
	Preset   string `env:"PUBSIM_PRESET" envDefault:"default"`
	LogLevel string `env:"PUBSIM_LOG_LEVEL" envDefault:"info"`
}

// LoadRunner parses runner settings from the environment.
func LoadRunner() (Runner, error) {
	var r Runner
	if err := env.Parse(&r); err != nil {
		return Runner{}, fmt.Errorf("parse runner env: %w", err)
	}
	return r, nil
}

// BalanceForPreset maps a preset name to a balance table.
func BalanceForPreset(name string) (Balance, error) {
	switch name {
	case "", "default":
		return Default(), nil
	case "harsh":
		return Harsh(), nil
	default:
		return Balance{}, fmt.Errorf("unknown balance preset %q", name)
	}
}
