package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/AymanRbati/ExposedInraRecon/internal/config"
	"github.com/AymanRbati/ExposedInraRecon/internal/ctlog"
	"github.com/AymanRbati/ExposedInraRecon/internal/database"
	"github.com/AymanRbati/ExposedInraRecon/internal/log"
	"github.com/AymanRbati/ExposedInraRecon/internal/model"
	"github.com/AymanRbati/ExposedInraRecon/internal/output"
	"github.com/AymanRbati/ExposedInraRecon/internal/pipeline"
	"github.com/AymanRbati/ExposedInraRecon/internal/portscan"
	"github.com/AymanRbati/ExposedInraRecon/internal/proxy"
	"github.com/AymanRbati/ExposedInraRecon/internal/report"
	"github.com/AymanRbati/ExposedInraRecon/internal/resolve"
)

// collaborators are the network-facing parts of a run.
type collaborators struct {
	harvester pipeline.Harvester
	resolver  pipeline.Resolver
	scanner   pipeline.Scanner
}

// runRootCmd executes a full recon of the domain list.
func runRootCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := newLogger(cfg, cmd.ErrOrStderr())
	slog.SetDefault(logger)
	status := log.NewStatus(cmd.OutOrStdout(), !cfg.NoColor)

	domains, err := config.ReadDomains(cfg.InputFile)
	if err != nil {
		if errors.Is(err, config.ErrInputNotFound) {
			status.Warn("File %s not found.", cfg.InputFile)
		}
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	httpClient, stop, err := newHTTPClient(ctx, cfg, logger, status)
	if err != nil {
		return err
	}
	defer stop()

	c := collaborators{
		harvester: ctlog.New(
			ctlog.WithHTTPClient(httpClient),
			ctlog.WithEndpoint(cfg.CTEndpoint),
			ctlog.WithTimeout(cfg.CTTimeout),
			ctlog.WithLogger(logger),
		),
		resolver: resolve.New(newLookuper(cfg), resolve.WithLogger(logger)),
		scanner: portscan.New(nil,
			portscan.WithPath(cfg.NmapPath),
			portscan.WithProfile(portscan.Profile{MinRate: cfg.MinRate, MaxRetries: cfg.MaxRetries}),
			portscan.WithLogger(logger),
		),
	}

	return runRecon(ctx, cfg, domains, c, logger, status)
}

func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	if cfg.LogJSON {
		return log.NewJSONLogger(w, cfg.Verbose)
	}
	return log.NewLogger(w, cfg.Verbose)
}

// newLookuper returns the miekg/dns backend when nameservers are set and
// the system resolver otherwise.
func newLookuper(cfg *config.Config) resolve.Lookuper {
	if len(cfg.Nameservers) > 0 {
		return resolve.NewDNSLookuper(cfg.Nameservers, cfg.DNSTimeout)
	}
	return resolve.NewSystemLookuper(nil)
}

// newHTTPClient returns the client used for certificate transparency
// queries and a function releasing what it started.
func newHTTPClient(ctx context.Context, cfg *config.Config, logger *slog.Logger, status *log.Status) (*http.Client, func(), error) {
	noop := func() {}

	switch {
	case cfg.UseTor:
		status.Info("Starting embedded Tor daemon...")
		tor := proxy.NewEmbeddedTor(proxy.WithStartupTimeout(cfg.TorStartupTimeout))
		if err := tor.Start(ctx); err != nil {
			return nil, noop, fmt.Errorf("failed to start embedded Tor: %w", err)
		}
		stop := func() {
			logger.Debug("stopping embedded Tor daemon")
			if err := tor.Stop(); err != nil {
				logger.Error("failed to stop embedded Tor", "error", err)
			}
		}

		client, err := tor.NewClient(cfg.CTTimeout)
		if err != nil {
			stop()
			return nil, noop, fmt.Errorf("failed to create Tor client: %w", err)
		}
		logger.Info("embedded Tor daemon started", "socksAddr", tor.SocksAddr())
		return client.HTTPClient(), stop, nil

	case cfg.ProxyAddress != "":
		client, err := proxy.NewClient(cfg.ProxyAddress, cfg.CTTimeout)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to create proxy client: %w", err)
		}
		if st := client.CheckConnection(ctx); st != proxy.StatusOK {
			return nil, noop, fmt.Errorf("proxy check failed for %s: %w", cfg.ProxyAddress, st.Err())
		}
		logger.Info("proxy connection verified", "address", cfg.ProxyAddress)
		return client.HTTPClient(), noop, nil

	default:
		return &http.Client{}, noop, nil
	}
}

// runRecon runs the pipeline over domains and writes the optional
// summaries and history entry. The returned error decides the exit status.
func runRecon(
	ctx context.Context,
	cfg *config.Config,
	domains []string,
	c collaborators,
	logger *slog.Logger,
	status *log.Status,
) error {
	files, err := output.Create(cfg.OutputDir)
	if err != nil {
		return err
	}
	defer func() {
		if err := files.Close(); err != nil {
			logger.Error("failed to close result files", "error", err)
		}
	}()

	status.Info("Starting FULL Recon for domains in: %s", cfg.InputFile)
	logger.Debug("starting recon",
		"input", cfg.InputFile,
		"domains", len(domains),
		"outputDir", cfg.OutputDir,
	)

	p := pipeline.DefaultPipeline(
		pipeline.Collaborators{
			Harvester: c.harvester,
			Resolver:  c.resolver,
			Scanner:   c.scanner,
			Writer:    files,
			Status:    status,
		},
		[]pipeline.Option{pipeline.WithLogger(logger)},
		pipeline.WithPipelineHarvestWorkers(cfg.HarvestWorkers),
		pipeline.WithPipelineResolveWorkers(cfg.ResolveWorkers),
		pipeline.WithPipelineScanWorkers(cfg.ScanWorkers),
	)

	recon := model.NewRecon(cfg.InputFile, domains)
	runErr := p.Execute(ctx, recon)
	summary := model.NewSummary(recon)

	errs := []error{runErr}
	errs = append(errs, writeSummaries(cfg, summary)...)
	if cfg.SaveHistory {
		if err := saveHistory(ctx, cfg.DBDir, summary, logger); err != nil {
			errs = append(errs, err)
		}
	}

	if runErr == nil {
		status.Section("Full Recon and Fast Scan complete.")
		status.Info("Subdomains saved in: %s", files.Path(output.SubdomainsFile))
		status.Info("IPs saved in: %s", files.Path(output.AddressesFile))
		status.Info("Nmap results saved in: %s", files.Path(output.ScansFile))
	}
	return errors.Join(errs...)
}

// writeSummaries writes the JSON and Markdown summaries that were requested.
func writeSummaries(cfg *config.Config, summary *model.Summary) []error {
	var errs []error
	if cfg.JSONSummary != "" {
		errs = append(errs, writeReportFile(cfg.JSONSummary, summary, func(w io.Writer) report.Writer {
			return report.NewJSONWriter(w, report.WithPrettyPrint())
		}))
	}
	if cfg.MarkdownSummary != "" {
		errs = append(errs, writeReportFile(cfg.MarkdownSummary, summary, func(w io.Writer) report.Writer {
			return report.NewMarkdownWriter(w)
		}))
	}
	return errs
}

func writeReportFile(path string, summary *model.Summary, newWriter func(io.Writer) report.Writer) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided report path is intentional
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	if _, err := newWriter(f).Write(summary); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return f.Close()
}

// saveHistory records the run. History is never read back by a run.
func saveHistory(ctx context.Context, dbDir string, summary *model.Summary, logger *slog.Logger) error {
	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	id, err := db.SaveRun(ctx, summary)
	if err != nil {
		return fmt.Errorf("failed to save run history: %w", err)
	}
	logger.Info("run saved to history", "id", id, "db", db.Path())
	return nil
}
