package portscan

import (
	"strconv"

	"github.com/AymanRbati/ExposedInraRecon/internal/model"
)

const (
	// DefaultMinRate is the --min-rate of the scan profile.
	DefaultMinRate = 5000

	// DefaultMaxRetries is the --max-retries of the scan profile.
	DefaultMaxRetries = 2
)

// Profile holds the tunable parts of the scan invocation.
type Profile struct {
	MinRate    int
	MaxRetries int
}

// DefaultProfile returns the fast full-range profile.
func DefaultProfile() Profile {
	return Profile{
		MinRate:    DefaultMinRate,
		MaxRetries: DefaultMaxRetries,
	}
}

// Args returns the nmap arguments for addr. The address is always last.
func (p Profile) Args(addr string) []string {
	args := make([]string, 0, 11)
	if model.IsIPv6(addr) {
		args = append(args, "-6")
	}
	return append(args,
		"-Pn",
		"-p-",
		"--min-rate", strconv.Itoa(p.MinRate),
		"--max-retries", strconv.Itoa(p.MaxRetries),
		"--open",
		"--disable-arp-ping",
		addr,
	)
}
