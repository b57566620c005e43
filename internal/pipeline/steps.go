package pipeline

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/AymanRbati/ExposedInraRecon/internal/log"
	"github.com/AymanRbati/ExposedInraRecon/internal/model"
)

// Harvester returns the subdomains certificate transparency knows for a domain.
type Harvester interface {
	Subdomains(ctx context.Context, domain string) model.HarvestResult
}

// Resolver resolves one subdomain to its addresses.
type Resolver interface {
	Resolve(ctx context.Context, subdomain string) model.Resolution
}

// Scanner port scans one address.
type Scanner interface {
	Scan(ctx context.Context, addr string) model.ScanReport
}

// ResultWriter persists the results of a run.
// AppendScan is called concurrently by scan workers.
type ResultWriter interface {
	WriteSubdomains(names []string) error
	WriteAddresses(addrs []string) error
	AppendScan(report model.ScanReport) error
}

// stepSettings holds what every step shares.
type stepSettings struct {
	workers int
	status  *log.Status
	logger  *slog.Logger
}

// StepOption configures a step.
type StepOption func(*stepSettings)

// WithStepWorkers sets how many tasks a fan-out step runs at once.
func WithStepWorkers(n int) StepOption {
	return func(s *stepSettings) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithStepStatus sets the status stream.
func WithStepStatus(status *log.Status) StepOption {
	return func(s *stepSettings) {
		if status != nil {
			s.status = status
		}
	}
}

// WithStepLogger sets the logger.
func WithStepLogger(logger *slog.Logger) StepOption {
	return func(s *stepSettings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func newStepSettings(defaultWorkers int, opts []StepOption) stepSettings {
	s := stepSettings{
		workers: defaultWorkers,
		status:  log.DiscardStatus(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

func (s stepSettings) batch(name string) *BatchProcessor {
	return NewBatchProcessor(
		WithBatchName(name),
		WithConcurrency(s.workers),
		WithBatchLogger(s.logger),
	)
}

// HarvestStep queries certificate transparency for every input domain.
// Duplicate input domains are queried once per occurrence.
type HarvestStep struct {
	stepSettings
	harvester Harvester
}

// NewHarvestStep creates a harvest step. Domains are queried one at a
// time unless WithStepWorkers says otherwise.
func NewHarvestStep(h Harvester, opts ...StepOption) *HarvestStep {
	return &HarvestStep{
		stepSettings: newStepSettings(1, opts),
		harvester:    h,
	}
}

// Name returns the step name.
func (s *HarvestStep) Name() string {
	return "harvest"
}

// Do executes the harvest step.
func (s *HarvestStep) Do(ctx context.Context, recon *model.Recon) error {
	recon.Advance(model.StageHarvest)

	results, err := Map(ctx, s.batch(s.Name()), recon.Domains, func(ctx context.Context, domain string) model.HarvestResult {
		s.status.Info("Fetching subdomains for: %s", domain)

		result := s.harvester.Subdomains(ctx, domain)
		switch {
		case result.Err == nil:
		case result.StatusCode != 0 && result.StatusCode != http.StatusOK:
			s.status.Warn("Failed to fetch crt.sh data for %s", domain)
		default:
			s.status.Warn("Error fetching crt.sh for %s: %v", domain, result.Err)
		}
		if result.Err != nil {
			s.logger.Warn("harvest failed", "domain", domain, "error", result.Err)
		}
		return result
	})

	for _, r := range results {
		recon.Subdomains.AddAll(r.Subdomains)
	}
	recon.Harvests = results
	return err
}

// WriteSubdomainsStep writes the sorted subdomain set.
type WriteSubdomainsStep struct {
	stepSettings
	writer ResultWriter
}

// NewWriteSubdomainsStep creates the step.
func NewWriteSubdomainsStep(w ResultWriter, opts ...StepOption) *WriteSubdomainsStep {
	return &WriteSubdomainsStep{
		stepSettings: newStepSettings(1, opts),
		writer:       w,
	}
}

// Name returns the step name.
func (s *WriteSubdomainsStep) Name() string {
	return "write_subdomains"
}

// Do executes the step.
func (s *WriteSubdomainsStep) Do(_ context.Context, recon *model.Recon) error {
	if err := s.writer.WriteSubdomains(recon.Subdomains.Sorted()); err != nil {
		return err
	}
	s.status.Section("Total subdomains collected: %d", recon.Subdomains.Len())
	return nil
}

// ResolveStep resolves every harvested subdomain.
type ResolveStep struct {
	stepSettings
	resolver Resolver
}

// NewResolveStep creates a resolve step.
func NewResolveStep(r Resolver, opts ...StepOption) *ResolveStep {
	return &ResolveStep{
		stepSettings: newStepSettings(30, opts),
		resolver:     r,
	}
}

// Name returns the step name.
func (s *ResolveStep) Name() string {
	return "resolve"
}

// Do executes the resolve step.
func (s *ResolveStep) Do(ctx context.Context, recon *model.Recon) error {
	recon.Advance(model.StageResolve)
	s.status.Section("Resolving subdomains...")

	results, err := Map(ctx, s.batch(s.Name()), recon.Subdomains.Sorted(), func(ctx context.Context, sub string) model.Resolution {
		res := s.resolver.Resolve(ctx, sub)
		for _, addr := range res.IPv4 {
			s.status.Found(string(model.FamilyIPv4), "%s -> %s", sub, addr)
		}
		for _, addr := range res.IPv6 {
			s.status.Found(string(model.FamilyIPv6), "%s -> %s", sub, addr)
		}
		return res
	})

	for _, res := range results {
		recon.Addresses.AddAll(res.Addresses())
	}
	recon.Resolutions = results
	return err
}

// WriteAddressesStep writes the sorted address set.
type WriteAddressesStep struct {
	stepSettings
	writer ResultWriter
}

// NewWriteAddressesStep creates the step.
func NewWriteAddressesStep(w ResultWriter, opts ...StepOption) *WriteAddressesStep {
	return &WriteAddressesStep{
		stepSettings: newStepSettings(1, opts),
		writer:       w,
	}
}

// Name returns the step name.
func (s *WriteAddressesStep) Name() string {
	return "write_addresses"
}

// Do executes the step.
func (s *WriteAddressesStep) Do(_ context.Context, recon *model.Recon) error {
	if err := s.writer.WriteAddresses(recon.Addresses.Sorted()); err != nil {
		return err
	}
	s.status.Section("Total unique IPs collected: %d", recon.Addresses.Len())
	return nil
}

// RequireAddressesStep aborts the run when nothing resolved.
type RequireAddressesStep struct {
	stepSettings
}

// NewRequireAddressesStep creates the step.
func NewRequireAddressesStep(opts ...StepOption) *RequireAddressesStep {
	return &RequireAddressesStep{stepSettings: newStepSettings(1, opts)}
}

// Name returns the step name.
func (s *RequireAddressesStep) Name() string {
	return "require_addresses"
}

// Do returns ErrNoAddresses and moves the run to ABORT when the address
// set is empty.
func (s *RequireAddressesStep) Do(_ context.Context, recon *model.Recon) error {
	if recon.Addresses.Len() > 0 {
		return nil
	}
	s.status.Warn("No IPs resolved. Exiting.")
	recon.Advance(model.StageAbort)
	return ErrNoAddresses
}

// ScanStep port scans every resolved address and appends each report.
type ScanStep struct {
	stepSettings
	scanner Scanner
	writer  ResultWriter
}

// NewScanStep creates a scan step.
func NewScanStep(sc Scanner, w ResultWriter, opts ...StepOption) *ScanStep {
	return &ScanStep{
		stepSettings: newStepSettings(10, opts),
		scanner:      sc,
		writer:       w,
	}
}

// Name returns the step name.
func (s *ScanStep) Name() string {
	return "scan"
}

// Do executes the scan step.
func (s *ScanStep) Do(ctx context.Context, recon *model.Recon) error {
	recon.Advance(model.StageScan)
	s.status.Section("Launching fast parallel Nmap scans (full port range)...")

	results, err := Map(ctx, s.batch(s.Name()), recon.Addresses.Sorted(), func(ctx context.Context, addr string) model.ScanReport {
		s.status.Info("Scanning %s: %s", model.FamilyOf(addr), addr)

		report := s.scanner.Scan(ctx, addr)
		if report.Err != nil {
			s.status.Warn("Error scanning %s: %v", addr, report.Err)
			s.logger.Warn("scan failed", "address", addr, "error", report.Err)
			return report
		}

		if werr := s.writer.AppendScan(report); werr != nil {
			report.Err = werr
			s.status.Warn("Error scanning %s: %v", addr, werr)
			s.logger.Error("failed to append scan", "address", addr, "error", werr)
		}
		return report
	})

	recon.Scans = results
	return err
}
