package config

import (
	"net"
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values: one CT query at a time, 30 concurrent
// resolutions, 10 concurrent scans at --min-rate 5000 and --max-retries 2.
const (
	// DefaultCTEndpoint is the crt.sh search endpoint.
	DefaultCTEndpoint = "https://crt.sh/"

	// DefaultCTTimeout bounds each certificate transparency query.
	DefaultCTTimeout = 10 * time.Second

	// DefaultHarvestWorkers is 1: domains are queried one after another.
	DefaultHarvestWorkers = 1

	// DefaultResolveWorkers is the number of concurrent subdomain resolutions.
	DefaultResolveWorkers = 30

	// DefaultScanWorkers is the number of concurrent nmap processes.
	DefaultScanWorkers = 10

	// DefaultNmapPath is looked up in PATH.
	DefaultNmapPath = "nmap"

	// DefaultMinRate is passed to nmap as --min-rate.
	DefaultMinRate = 5000

	// DefaultMaxRetries is passed to nmap as --max-retries.
	DefaultMaxRetries = 2

	// DefaultDNSTimeout bounds each query when explicit nameservers are used.
	DefaultDNSTimeout = 5 * time.Second

	// DefaultOutputDir is the current working directory.
	DefaultOutputDir = "."

	// DefaultTorStartupTimeout is the maximum time to wait for the embedded
	// Tor daemon to bootstrap.
	DefaultTorStartupTimeout = 3 * time.Minute

	// AppName is the application name used for XDG directory paths.
	AppName = "recon"
)

// Config holds all configuration options of a run.
// It is populated from defaults, the config file, the environment and CLI
// flags, in that order, and passed down explicitly.
type Config struct {
	// InputFile is the path of the newline-separated domain list.
	InputFile string

	// ConfigFilePath is the explicit path given with --config.
	ConfigFilePath string

	// CTEndpoint is the certificate transparency search URL.
	CTEndpoint string `env:"RECON_CT_ENDPOINT"`

	// CTTimeout bounds each CT query including the body read.
	CTTimeout time.Duration `env:"RECON_CT_TIMEOUT"`

	// HarvestWorkers, ResolveWorkers and ScanWorkers bound the worker
	// pool of each stage.
	HarvestWorkers int `env:"RECON_HARVEST_WORKERS"`
	ResolveWorkers int `env:"RECON_RESOLVE_WORKERS"`
	ScanWorkers    int `env:"RECON_SCAN_WORKERS"`

	// NmapPath is the scanner executable.
	NmapPath string `env:"RECON_NMAP_PATH"`

	// MinRate and MaxRetries tune the fixed scan profile.
	MinRate    int `env:"RECON_MIN_RATE"`
	MaxRetries int `env:"RECON_MAX_RETRIES"`

	// Nameservers switches resolution from the system resolver to direct
	// queries against these servers ("host" or "host:port").
	Nameservers []string `env:"RECON_DNS_SERVERS"`

	// DNSTimeout bounds each direct DNS query.
	DNSTimeout time.Duration `env:"RECON_DNS_TIMEOUT"`

	// OutputDir receives subdomains.txt, IPs.txt and nmap.txt.
	OutputDir string `env:"RECON_OUTPUT_DIR"`

	// ProxyAddress routes CT queries through a SOCKS5 proxy ("host:port").
	ProxyAddress string `env:"RECON_PROXY"`

	// UseTor routes CT queries through an embedded Tor daemon.
	UseTor bool `env:"RECON_TOR"`

	// TorStartupTimeout bounds the embedded Tor bootstrap.
	TorStartupTimeout time.Duration `env:"RECON_TOR_STARTUP_TIMEOUT"`

	// SaveHistory records the run in the history database.
	SaveHistory bool `env:"RECON_HISTORY"`

	// DBDir is the directory of the history database.
	// Defaults to the XDG data directory.
	DBDir string `env:"RECON_DB_DIR"`

	// JSONSummary and MarkdownSummary are optional report paths.
	JSONSummary     string
	MarkdownSummary string

	// Verbose enables debug logging.
	Verbose bool `env:"RECON_VERBOSE"`

	// LogJSON switches the diagnostic log to JSON lines.
	LogJSON bool `env:"RECON_LOG_JSON"`

	// NoColor disables colored status output.
	NoColor bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		CTEndpoint:        DefaultCTEndpoint,
		CTTimeout:         DefaultCTTimeout,
		HarvestWorkers:    DefaultHarvestWorkers,
		ResolveWorkers:    DefaultResolveWorkers,
		ScanWorkers:       DefaultScanWorkers,
		NmapPath:          DefaultNmapPath,
		MinRate:           DefaultMinRate,
		MaxRetries:        DefaultMaxRetries,
		DNSTimeout:        DefaultDNSTimeout,
		OutputDir:         DefaultOutputDir,
		TorStartupTimeout: DefaultTorStartupTimeout,
		DBDir:             XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for recon.
// On Linux: ~/.local/share/recon
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for recon.
// On Linux: ~/.config/recon
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found as a sentinel error.
func (c *Config) Validate() error {
	if c.InputFile == "" {
		return ErrNoInput
	}

	u, err := url.Parse(c.CTEndpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidEndpoint
	}

	if c.CTTimeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.HarvestWorkers <= 0 || c.ResolveWorkers <= 0 || c.ScanWorkers <= 0 {
		return ErrInvalidWorkers
	}

	if c.NmapPath == "" {
		return ErrNoScanner
	}

	if c.MinRate <= 0 {
		return ErrInvalidMinRate
	}

	if c.MaxRetries < 0 {
		return ErrInvalidMaxRetries
	}

	if len(c.Nameservers) > 0 && c.DNSTimeout <= 0 {
		return ErrInvalidDNSTimeout
	}

	if c.ProxyAddress != "" && c.UseTor {
		return ErrConflictingProxy
	}

	if c.ProxyAddress != "" {
		if _, _, err := net.SplitHostPort(c.ProxyAddress); err != nil {
			return ErrInvalidProxyAddress
		}
	}

	return nil
}
