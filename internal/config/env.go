package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// ApplyEnv overrides cfg with the RECON_* environment variables that are set.
// Unset variables leave the current value in place.
func ApplyEnv(cfg *Config) error {
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}
	return nil
}

// EnvDescription returns a help text listing the supported variables.
func EnvDescription() string {
	text, err := cleanenv.GetDescription(&Config{}, nil)
	if err != nil {
		return ""
	}
	return text
}
