package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the configuration file name searched in the
// current and home directories.
const DefaultConfigFile = ".recon.yaml"

// XDGConfigFile is the configuration file name inside XDGConfigDir.
const XDGConfigFile = "config.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .recon.yaml configuration file.
// Zero values leave the corresponding Config field untouched.
type File struct {
	CTLog   CTLogSection   `yaml:"ctlog,omitempty"`
	Workers WorkersSection `yaml:"workers,omitempty"`
	DNS     DNSSection     `yaml:"dns,omitempty"`
	Nmap    NmapSection    `yaml:"nmap,omitempty"`
	Output  OutputSection  `yaml:"output,omitempty"`
	Proxy   ProxySection   `yaml:"proxy,omitempty"`
	History HistorySection `yaml:"history,omitempty"`
}

// CTLogSection configures the certificate transparency query.
type CTLogSection struct {
	Endpoint string        `yaml:"endpoint,omitempty"`
	Timeout  time.Duration `yaml:"timeout,omitempty"`
}

// WorkersSection configures the worker pool of each stage.
type WorkersSection struct {
	Harvest int `yaml:"harvest,omitempty"`
	Resolve int `yaml:"resolve,omitempty"`
	Scan    int `yaml:"scan,omitempty"`
}

// DNSSection configures direct DNS resolution.
type DNSSection struct {
	Servers []string      `yaml:"servers,omitempty"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// NmapSection configures the scanner.
type NmapSection struct {
	Path       string `yaml:"path,omitempty"`
	MinRate    int    `yaml:"minRate,omitempty"`
	MaxRetries *int   `yaml:"maxRetries,omitempty"`
}

// OutputSection configures where the result files go.
type OutputSection struct {
	Dir      string `yaml:"dir,omitempty"`
	JSON     string `yaml:"json,omitempty"`
	Markdown string `yaml:"markdown,omitempty"`
}

// ProxySection configures how CT queries leave the host.
type ProxySection struct {
	Address           string        `yaml:"address,omitempty"`
	Tor               bool          `yaml:"tor,omitempty"`
	TorStartupTimeout time.Duration `yaml:"torStartupTimeout,omitempty"`
}

// HistorySection configures the run history database.
type HistorySection struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	DBDir   string `yaml:"dbDir,omitempty"`
}

// LoadFile loads a configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// ApplyTo copies every non-zero value of the file onto cfg.
func (cf *File) ApplyTo(cfg *Config) {
	setString(&cfg.CTEndpoint, cf.CTLog.Endpoint)
	setDuration(&cfg.CTTimeout, cf.CTLog.Timeout)

	setInt(&cfg.HarvestWorkers, cf.Workers.Harvest)
	setInt(&cfg.ResolveWorkers, cf.Workers.Resolve)
	setInt(&cfg.ScanWorkers, cf.Workers.Scan)

	if len(cf.DNS.Servers) > 0 {
		cfg.Nameservers = append([]string(nil), cf.DNS.Servers...)
	}
	setDuration(&cfg.DNSTimeout, cf.DNS.Timeout)

	setString(&cfg.NmapPath, cf.Nmap.Path)
	setInt(&cfg.MinRate, cf.Nmap.MinRate)
	if cf.Nmap.MaxRetries != nil {
		cfg.MaxRetries = *cf.Nmap.MaxRetries
	}

	setString(&cfg.OutputDir, cf.Output.Dir)
	setString(&cfg.JSONSummary, cf.Output.JSON)
	setString(&cfg.MarkdownSummary, cf.Output.Markdown)

	setString(&cfg.ProxyAddress, cf.Proxy.Address)
	if cf.Proxy.Tor {
		cfg.UseTor = true
	}
	setDuration(&cfg.TorStartupTimeout, cf.Proxy.TorStartupTimeout)

	if cf.History.Enabled {
		cfg.SaveHistory = true
	}
	setString(&cfg.DBDir, cf.History.DBDir)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v time.Duration) {
	if v != 0 {
		*dst = v
	}
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .recon.yaml in the current directory
// 3. Look for config.yaml in the XDG config directory
// 4. Look for .recon.yaml in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	candidates := make([]string, 0, 3)
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), XDGConfigFile))
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
