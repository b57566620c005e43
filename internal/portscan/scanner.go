package portscan

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/AymanRbati/ExposedInraRecon/internal/model"
)

// DefaultPath is the scanner executable looked up in PATH.
const DefaultPath = "nmap"

// Scanner port scans single addresses.
type Scanner struct {
	runner  Runner
	path    string
	profile Profile
	logger  *slog.Logger
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithPath sets the scanner executable.
func WithPath(path string) Option {
	return func(s *Scanner) {
		if path != "" {
			s.path = path
		}
	}
}

// WithProfile sets the scan profile.
func WithProfile(p Profile) Option {
	return func(s *Scanner) {
		s.profile = p
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scanner) {
		s.logger = logger
	}
}

// New creates a Scanner. A nil runner uses ExecRunner.
func New(runner Runner, opts ...Option) *Scanner {
	if runner == nil {
		runner = ExecRunner{}
	}
	s := &Scanner{
		runner:  runner,
		path:    DefaultPath,
		profile: DefaultProfile(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan runs one scan against addr and returns its report.
func (s *Scanner) Scan(ctx context.Context, addr string) model.ScanReport {
	report := model.ScanReport{
		Address: addr,
		Family:  model.FamilyOf(addr),
	}

	args := s.profile.Args(addr)
	s.logger.Debug("starting scan", "address", addr, "args", args)

	start := time.Now()
	stdout, code, err := s.runner.Run(ctx, s.path, args...)
	report.Duration = time.Since(start)

	if err != nil {
		report.Err = fmt.Errorf("%w: %w", ErrLaunch, err)
		report.ExitCode = -1
		return report
	}

	report.Output = stdout
	report.ExitCode = code

	s.logger.Debug("scan finished",
		"address", addr,
		"exit_code", code,
		"output_bytes", len(stdout),
		"duration", report.Duration,
	)
	return report
}
