package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/AymanRbati/ExposedInraRecon/internal/config"
	"github.com/AymanRbati/ExposedInraRecon/internal/database"
	"github.com/AymanRbati/ExposedInraRecon/internal/log"
	"github.com/AymanRbati/ExposedInraRecon/internal/model"
	"github.com/AymanRbati/ExposedInraRecon/internal/pipeline"
)

type fakeHarvester map[string][]string

func (f fakeHarvester) Subdomains(_ context.Context, domain string) model.HarvestResult {
	return model.HarvestResult{Domain: domain, Subdomains: f[domain], StatusCode: 200}
}

type fakeResolver map[string][]string

func (f fakeResolver) Resolve(_ context.Context, sub string) model.Resolution {
	res := model.Resolution{Subdomain: sub}
	for _, addr := range f[sub] {
		if model.IsIPv6(addr) {
			res.IPv6 = append(res.IPv6, addr)
		} else if len(res.IPv4) == 0 {
			res.IPv4 = append(res.IPv4, addr)
		}
	}
	return res
}

type fakeScanner struct {
	mu      sync.Mutex
	scanned []string
}

func (f *fakeScanner) Scan(_ context.Context, addr string) model.ScanReport {
	f.mu.Lock()
	f.scanned = append(f.scanned, addr)
	f.mu.Unlock()
	return model.ScanReport{
		Address: addr,
		Family:  model.FamilyOf(addr),
		Output:  []byte("PORT OPEN: 80 on " + addr),
	}
}

var (
	_ pipeline.Harvester = fakeHarvester(nil)
	_ pipeline.Resolver  = fakeResolver(nil)
	_ pipeline.Scanner   = (*fakeScanner)(nil)
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := config.NewConfig()
	cfg.InputFile = "domains.txt"
	cfg.OutputDir = t.TempDir()
	cfg.DBDir = t.TempDir()
	return cfg
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

func TestRunRecon(t *testing.T) {
	t.Parallel()

	t.Run("writes result files and final status", func(t *testing.T) {
		t.Parallel()

		cfg := testConfig(t)
		cfg.JSONSummary = filepath.Join(cfg.OutputDir, "reports", "summary.json")
		cfg.MarkdownSummary = filepath.Join(cfg.OutputDir, "summary.md")
		cfg.SaveHistory = true

		scanner := &fakeScanner{}
		c := collaborators{
			harvester: fakeHarvester{"example.com": {"example.com", "www.example.com"}},
			resolver: fakeResolver{
				"example.com":     {"93.184.216.34"},
				"www.example.com": {"93.184.216.34", "2606:2800::1"},
			},
			scanner: scanner,
		}

		var out bytes.Buffer
		err := runRecon(context.Background(), cfg, []string{"example.com"}, c, log.Discard(), log.NewStatus(&out, false))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got := readFile(t, filepath.Join(cfg.OutputDir, "subdomains.txt")); got != "example.com\nwww.example.com\n" {
			t.Errorf("subdomains.txt = %q", got)
		}
		if got := readFile(t, filepath.Join(cfg.OutputDir, "IPs.txt")); got != "2606:2800::1\n93.184.216.34\n" {
			t.Errorf("IPs.txt = %q", got)
		}
		nmap := readFile(t, filepath.Join(cfg.OutputDir, "nmap.txt"))
		for _, addr := range []string{"93.184.216.34", "2606:2800::1"} {
			if !strings.Contains(nmap, "PORT OPEN: 80 on "+addr+"\n") {
				t.Errorf("nmap.txt missing block for %s: %q", addr, nmap)
			}
		}
		if len(scanner.scanned) != 2 {
			t.Errorf("scanned %v, want 2 addresses", scanner.scanned)
		}

		status := out.String()
		for _, want := range []string{
			"[*] Starting FULL Recon for domains in: domains.txt",
			"\n[*] Full Recon and Fast Scan complete.",
			"[*] Nmap results saved in: " + filepath.Join(cfg.OutputDir, "nmap.txt"),
		} {
			if !strings.Contains(status, want) {
				t.Errorf("status missing %q:\n%s", want, status)
			}
		}

		var summary model.Summary
		if err := json.Unmarshal([]byte(readFile(t, cfg.JSONSummary)), &summary); err != nil {
			t.Fatalf("invalid JSON summary: %v", err)
		}
		if summary.Stage != model.StageDone || summary.Counts.Scans != 2 {
			t.Errorf("summary stage %s scans %d", summary.Stage, summary.Counts.Scans)
		}
		if !strings.Contains(readFile(t, cfg.MarkdownSummary), "# Recon Summary") {
			t.Error("markdown summary missing header")
		}

		db, err := database.Open(cfg.DBDir, database.Options{EnableWAL: true})
		if err != nil {
			t.Fatalf("history database not created: %v", err)
		}
		defer db.Close()
		runs, err := db.ListRuns(context.Background(), 0)
		if err != nil {
			t.Fatalf("ListRuns() error: %v", err)
		}
		if len(runs) != 1 || runs[0].Scans != 2 {
			t.Errorf("runs = %+v", runs)
		}
	})

	t.Run("aborts when nothing resolves", func(t *testing.T) {
		t.Parallel()

		cfg := testConfig(t)
		cfg.SaveHistory = true
		scanner := &fakeScanner{}
		c := collaborators{
			harvester: fakeHarvester{"example.com": {"gone.example.com"}},
			resolver:  fakeResolver{},
			scanner:   scanner,
		}

		var out bytes.Buffer
		err := runRecon(context.Background(), cfg, []string{"example.com"}, c, log.Discard(), log.NewStatus(&out, false))
		if !errors.Is(err, pipeline.ErrNoAddresses) {
			t.Fatalf("error = %v, want ErrNoAddresses", err)
		}
		if len(scanner.scanned) != 0 {
			t.Errorf("scanner called for %v", scanner.scanned)
		}
		if !strings.Contains(out.String(), "[!] No IPs resolved. Exiting.") {
			t.Errorf("missing abort line:\n%s", out.String())
		}
		if strings.Contains(out.String(), "complete.") {
			t.Error("completion banner printed after abort")
		}
		if got := readFile(t, filepath.Join(cfg.OutputDir, "nmap.txt")); got != "" {
			t.Errorf("nmap.txt = %q, want empty", got)
		}

		db, err := database.Open(cfg.DBDir, database.Options{EnableWAL: true})
		if err != nil {
			t.Fatalf("history database not created: %v", err)
		}
		defer db.Close()
		runs, err := db.ListRuns(context.Background(), 0)
		if err != nil {
			t.Fatalf("ListRuns() error: %v", err)
		}
		if len(runs) != 1 || runs[0].Stage != "ABORT" {
			t.Errorf("runs = %+v", runs)
		}
	})

	t.Run("empty harvest is not fatal until resolution", func(t *testing.T) {
		t.Parallel()

		cfg := testConfig(t)
		c := collaborators{
			harvester: fakeHarvester{},
			resolver:  fakeResolver{},
			scanner:   &fakeScanner{},
		}

		var out bytes.Buffer
		err := runRecon(context.Background(), cfg, []string{"nothing.test"}, c, log.Discard(), log.NewStatus(&out, false))
		if !errors.Is(err, pipeline.ErrNoAddresses) {
			t.Fatalf("error = %v, want ErrNoAddresses", err)
		}
		if !strings.Contains(out.String(), "[*] Total subdomains collected: 0") {
			t.Errorf("missing subdomain total:\n%s", out.String())
		}
	})

	t.Run("report failure is returned", func(t *testing.T) {
		t.Parallel()

		cfg := testConfig(t)
		blocker := filepath.Join(cfg.OutputDir, "file")
		if err := os.WriteFile(blocker, nil, 0600); err != nil {
			t.Fatal(err)
		}
		cfg.JSONSummary = filepath.Join(blocker, "summary.json")

		c := collaborators{
			harvester: fakeHarvester{"example.com": {"example.com"}},
			resolver:  fakeResolver{"example.com": {"93.184.216.34"}},
			scanner:   &fakeScanner{},
		}
		err := runRecon(context.Background(), cfg, []string{"example.com"}, c, log.Discard(), log.DiscardStatus())
		if err == nil {
			t.Fatal("expected error for unwritable summary path")
		}
	})
}

func TestNewLookuper(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	if _, ok := newLookuper(cfg).(interface{ Servers() []string }); ok {
		t.Error("system lookuper expected without nameservers")
	}

	cfg.Nameservers = []string{"1.1.1.1"}
	l, ok := newLookuper(cfg).(interface{ Servers() []string })
	if !ok {
		t.Fatal("DNS lookuper expected with nameservers")
	}
	if got := l.Servers(); len(got) != 1 || got[0] != "1.1.1.1:53" {
		t.Errorf("Servers() = %v", got)
	}
}

func TestNewHTTPClient(t *testing.T) {
	t.Parallel()

	t.Run("direct", func(t *testing.T) {
		t.Parallel()

		client, stop, err := newHTTPClient(context.Background(), config.NewConfig(), log.Discard(), log.DiscardStatus())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer stop()
		if client == nil {
			t.Fatal("nil client")
		}
	})

	t.Run("unreachable proxy", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.ProxyAddress = "127.0.0.1:1"
		if _, _, err := newHTTPClient(context.Background(), cfg, log.Discard(), log.DiscardStatus()); err == nil {
			t.Fatal("expected proxy check error")
		}
	})
}
