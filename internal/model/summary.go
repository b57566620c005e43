package model

import (
	"slices"
	"strings"
	"time"
)

// Summary is the serializable view of a run.
// It is what the JSON and Markdown reports and the history database store.
type Summary struct {
	InputFile  string    `json:"input_file"`
	Stage      Stage     `json:"stage"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitzero"`
	Error      string    `json:"error,omitempty"`

	Domains    []DomainSummary `json:"domains"`
	Subdomains []string        `json:"subdomains"`
	Hosts      []HostSummary   `json:"hosts"`
	Addresses  []string        `json:"addresses"`
	Scans      []ScanSummary   `json:"scans"`
	Counts     Counts          `json:"counts"`
}

// DomainSummary describes the harvest of one input domain.
type DomainSummary struct {
	Domain     string  `json:"domain"`
	Outcome    Outcome `json:"outcome"`
	Subdomains int     `json:"subdomains"`
	Error      string  `json:"error,omitempty"`
}

// HostSummary maps a subdomain to the addresses it resolved to.
type HostSummary struct {
	Subdomain string   `json:"subdomain"`
	IPv4      []string `json:"ipv4,omitempty"`
	IPv6      []string `json:"ipv6,omitempty"`
	Outcome   Outcome  `json:"outcome"`
}

// ScanSummary describes one port scan.
type ScanSummary struct {
	Address    string  `json:"address"`
	Family     Family  `json:"family"`
	ExitCode   int     `json:"exit_code"`
	OutputSize int     `json:"output_bytes"`
	DurationMS int64   `json:"duration_ms"`
	Outcome    Outcome `json:"outcome"`
	Error      string  `json:"error,omitempty"`
}

// Counts aggregates the run.
type Counts struct {
	Domains       int `json:"domains"`
	FailedDomains int `json:"failed_domains"`
	Subdomains    int `json:"subdomains"`
	Unresolved    int `json:"unresolved"`
	IPv4Addresses int `json:"ipv4_addresses"`
	IPv6Addresses int `json:"ipv6_addresses"`
	Scans         int `json:"scans"`
	FailedScans   int `json:"failed_scans"`
}

// NewSummary builds a Summary from r. Hosts and scans are sorted so that
// the output does not depend on task completion order.
func NewSummary(r *Recon) *Summary {
	s := &Summary{
		InputFile:  r.InputFile,
		Stage:      r.Stage,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Error:      r.ErrorMessage,
		Subdomains: r.Subdomains.Sorted(),
		Addresses:  r.Addresses.Sorted(),
		Domains:    make([]DomainSummary, 0, len(r.Harvests)),
		Hosts:      make([]HostSummary, 0, len(r.Resolutions)),
		Scans:      make([]ScanSummary, 0, len(r.Scans)),
	}

	for _, h := range r.Harvests {
		d := DomainSummary{
			Domain:     h.Domain,
			Outcome:    h.Outcome(),
			Subdomains: len(h.Subdomains),
		}
		if h.Err != nil {
			d.Error = h.Err.Error()
			s.Counts.FailedDomains++
		}
		s.Domains = append(s.Domains, d)
	}

	for _, res := range r.Resolutions {
		host := HostSummary{
			Subdomain: res.Subdomain,
			IPv4:      res.IPv4,
			IPv6:      res.IPv6,
			Outcome:   res.Outcome(),
		}
		if host.Outcome != OutcomeOK {
			s.Counts.Unresolved++
		}
		s.Hosts = append(s.Hosts, host)
	}
	slices.SortFunc(s.Hosts, func(a, b HostSummary) int {
		return strings.Compare(a.Subdomain, b.Subdomain)
	})

	for _, scan := range r.Scans {
		ss := ScanSummary{
			Address:    scan.Address,
			Family:     scan.Family,
			ExitCode:   scan.ExitCode,
			OutputSize: len(scan.Output),
			DurationMS: scan.Duration.Milliseconds(),
			Outcome:    scan.Outcome(),
		}
		if scan.Err != nil {
			ss.Error = scan.Err.Error()
			s.Counts.FailedScans++
		}
		s.Scans = append(s.Scans, ss)
	}
	slices.SortFunc(s.Scans, func(a, b ScanSummary) int {
		return strings.Compare(a.Address, b.Address)
	})

	for _, addr := range s.Addresses {
		if IsIPv6(addr) {
			s.Counts.IPv6Addresses++
		} else {
			s.Counts.IPv4Addresses++
		}
	}

	s.Counts.Domains = len(r.Domains)
	s.Counts.Subdomains = len(s.Subdomains)
	s.Counts.Scans = len(s.Scans)

	return s
}
