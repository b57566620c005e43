package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AymanRbati/ExposedInraRecon/internal/config"
)

// NewRootCmd creates the root command. It runs a full recon of the domain
// list given as its only argument.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recon [flags] <domains.txt>",
		Short: "Subdomain discovery, resolution and full port scan",
		Long: `recon reads a newline-separated list of domains and runs three stages:

  1. Harvest: query certificate transparency logs (crt.sh) for every name
     issued under each domain.
  2. Resolve: look up the A and AAAA records of every subdomain.
  3. Scan: run a full-range nmap scan against every unique address.

Results are written to subdomains.txt, IPs.txt and nmap.txt in the output
directory. The files are truncated at the start of every run.

A domain list named like a subcommand (init, history, version) must be
given with a path, for example ./history.

Examples:
  # Scan the domains listed in domains.txt
  recon domains.txt

  # Query crt.sh through a SOCKS5 proxy and resolve with 1.1.1.1
  recon --proxy 127.0.0.1:1080 --dns-server 1.1.1.1 domains.txt

  # Keep a Markdown summary and record the run in the history database
  recon --markdown summary.md --history domains.txt

Environment variables (override the config file, overridden by flags):
` + config.EnvDescription(),
		Args:          inputArg,
		RunE:          runRootCmd,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .recon.yaml in current dir, XDG config dir or home)")

	addRunFlags(cmd)

	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// inputArg accepts exactly one positional argument: the domain list.
func inputArg(_ *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w (usage: recon [flags] <domains.txt>)", config.ErrNoInput)
	}
	return nil
}

func addRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()

	f.Bool("log-json", false, "Write diagnostic logs as JSON lines")
	f.Bool("no-color", false, "Disable colored status output")

	f.StringP("output-dir", "o", config.DefaultOutputDir,
		"Directory for subdomains.txt, IPs.txt and nmap.txt")
	f.String("json", "", "Also write a JSON summary of the run to this path")
	f.String("markdown", "", "Also write a Markdown summary of the run to this path")
	f.Bool("history", false, "Record the run in the history database")

	f.String("ct-endpoint", config.DefaultCTEndpoint, "Certificate transparency search URL")
	f.Duration("ct-timeout", config.DefaultCTTimeout, "Timeout of each certificate transparency query")
	f.String("proxy", "", "Send certificate transparency queries through this SOCKS5 proxy (host:port)")
	f.Bool("tor", false, "Send certificate transparency queries through an embedded Tor daemon")
	f.Duration("tor-timeout", config.DefaultTorStartupTimeout, "Timeout for embedded Tor startup")

	f.StringArray("dns-server", nil,
		"Resolve with this nameserver instead of the system resolver (repeatable)")
	f.Duration("dns-timeout", config.DefaultDNSTimeout, "Timeout of each query to --dns-server")

	f.String("nmap-path", config.DefaultNmapPath, "nmap executable")
	f.Int("min-rate", config.DefaultMinRate, "nmap --min-rate")
	f.Int("max-retries", config.DefaultMaxRetries, "nmap --max-retries")

	f.Int("harvest-workers", config.DefaultHarvestWorkers, "Concurrent certificate transparency queries")
	f.Int("resolve-workers", config.DefaultResolveWorkers, "Concurrent subdomain resolutions")
	f.Int("scan-workers", config.DefaultScanWorkers, "Concurrent nmap processes")
}

// Execute runs the root command and exits with status 1 on error.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
