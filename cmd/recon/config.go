package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/AymanRbati/ExposedInraRecon/internal/config"
)

// buildConfig assembles the run configuration. Later sources win:
// defaults, the config file, RECON_* environment variables, then the
// flags the user actually set.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg, err := loadBaseConfig(cmd)
	if err != nil {
		return nil, err
	}
	if len(args) > 0 {
		cfg.InputFile = args[0]
	}

	if err := applyFlags(cmd.Flags(), cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadBaseConfig returns the defaults overridden by the config file and
// the environment. Subcommands whose flags do not describe a run use it
// instead of buildConfig.
func loadBaseConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	if err := loadConfigFile(cfg); err != nil {
		return nil, err
	}

	if err := config.ApplyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadConfigFile applies the config file if one is found. An explicit
// --config path that does not exist is an error; a missing default file
// is not.
func loadConfigFile(cfg *config.Config) error {
	path := config.FindConfigFile(cfg.ConfigFilePath)
	if path == "" {
		if cfg.ConfigFilePath != "" {
			return fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
		}
		return nil
	}

	file, err := config.LoadFile(path)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return fmt.Errorf("%w: %s", err, path)
		}
		return fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	file.ApplyTo(cfg)
	return nil
}

// applyFlags copies the flags that were set on the command line.
// Flags that do not exist on the command are ignored.
func applyFlags(flags *pflag.FlagSet, cfg *config.Config) error {
	var errs []error

	str := func(name string, dst *string) {
		if flags.Changed(name) {
			v, err := flags.GetString(name)
			errs = append(errs, err)
			*dst = v
		}
	}
	boolean := func(name string, dst *bool) {
		if flags.Changed(name) {
			v, err := flags.GetBool(name)
			errs = append(errs, err)
			*dst = v
		}
	}
	integer := func(name string, dst *int) {
		if flags.Changed(name) {
			v, err := flags.GetInt(name)
			errs = append(errs, err)
			*dst = v
		}
	}

	boolean("verbose", &cfg.Verbose)
	boolean("log-json", &cfg.LogJSON)
	boolean("no-color", &cfg.NoColor)

	str("output-dir", &cfg.OutputDir)
	str("json", &cfg.JSONSummary)
	str("markdown", &cfg.MarkdownSummary)
	boolean("history", &cfg.SaveHistory)

	str("ct-endpoint", &cfg.CTEndpoint)
	if flags.Changed("ct-timeout") {
		v, err := flags.GetDuration("ct-timeout")
		errs = append(errs, err)
		cfg.CTTimeout = v
	}
	str("proxy", &cfg.ProxyAddress)
	boolean("tor", &cfg.UseTor)
	if flags.Changed("tor-timeout") {
		v, err := flags.GetDuration("tor-timeout")
		errs = append(errs, err)
		cfg.TorStartupTimeout = v
	}

	if flags.Changed("dns-server") {
		v, err := flags.GetStringArray("dns-server")
		errs = append(errs, err)
		cfg.Nameservers = v
	}
	if flags.Changed("dns-timeout") {
		v, err := flags.GetDuration("dns-timeout")
		errs = append(errs, err)
		cfg.DNSTimeout = v
	}

	str("nmap-path", &cfg.NmapPath)
	integer("min-rate", &cfg.MinRate)
	integer("max-retries", &cfg.MaxRetries)

	integer("harvest-workers", &cfg.HarvestWorkers)
	integer("resolve-workers", &cfg.ResolveWorkers)
	integer("scan-workers", &cfg.ScanWorkers)

	return errors.Join(errs...)
}
