package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/AymanRbati/ExposedInraRecon/internal/model"
)

func setupTestDB(t *testing.T) *HistoryDB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func sampleSummary(input string) *model.Summary {
	started := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return &model.Summary{
		InputFile:  input,
		Stage:      model.StageDone,
		StartedAt:  started,
		FinishedAt: started.Add(time.Minute),
		Domains: []model.DomainSummary{
			{Domain: "example.com", Outcome: model.OutcomeOK, Subdomains: 2},
		},
		Subdomains: []string{"example.com", "www.example.com"},
		Hosts: []model.HostSummary{
			{Subdomain: "example.com", IPv4: []string{"93.184.216.34"}, Outcome: model.OutcomeOK},
			{Subdomain: "www.example.com", IPv6: []string{"2606:2800:220:1::1"}, Outcome: model.OutcomeOK},
		},
		Addresses: []string{"2606:2800:220:1::1", "93.184.216.34"},
		Scans: []model.ScanSummary{
			{Address: "2606:2800:220:1::1", Family: model.FamilyIPv6, ExitCode: 0, OutputSize: 10, Outcome: model.OutcomeOK},
			{Address: "93.184.216.34", Family: model.FamilyIPv4, ExitCode: 1, OutputSize: 12, Outcome: model.OutcomeOK},
		},
		Counts: model.Counts{
			Domains:       1,
			Subdomains:    2,
			IPv4Addresses: 1,
			IPv6Addresses: 1,
			Scans:         2,
		},
	}
}

func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "newdir", "subdir")
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if _, err := os.Stat(filepath.Join(dbDir, FileName)); err != nil {
			t.Errorf("database file was not created: %v", err)
		}
		if db.Path() != filepath.Join(dbDir, FileName) {
			t.Errorf("Path() = %q", db.Path())
		}
	})

	t.Run("CreateIfNotExists=false fails on missing database", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "missing")
		_, err := Open(dbDir, Options{CreateIfNotExists: false})
		if err == nil {
			t.Fatal("expected error for missing database")
		}
		if _, statErr := os.Stat(dbDir); !os.IsNotExist(statErr) {
			t.Error("directory should not have been created")
		}
	})

	t.Run("reopens existing database", func(t *testing.T) {
		t.Parallel()

		dbDir := t.TempDir()
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		if _, err := db.SaveRun(context.Background(), sampleSummary("a.txt")); err != nil {
			t.Fatalf("SaveRun() error: %v", err)
		}
		_ = db.Close()

		db, err = Open(dbDir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			t.Fatalf("failed to reopen database: %v", err)
		}
		defer db.Close()

		runs, err := db.ListRuns(context.Background(), 0)
		if err != nil {
			t.Fatalf("ListRuns() error: %v", err)
		}
		if len(runs) != 1 {
			t.Errorf("len(runs) = %d, want 1", len(runs))
		}
	})
}

func TestHistoryDB_SaveAndGetRun(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()
	want := sampleSummary("domains.txt")

	id, err := db.SaveRun(ctx, want)
	if err != nil {
		t.Fatalf("SaveRun() error: %v", err)
	}
	if id <= 0 {
		t.Fatalf("SaveRun() id = %d, want positive", id)
	}

	got, err := db.GetRun(ctx, id)
	if err != nil {
		t.Fatalf("GetRun() error: %v", err)
	}
	if got.InputFile != want.InputFile {
		t.Errorf("InputFile = %q, want %q", got.InputFile, want.InputFile)
	}
	if got.Stage != model.StageDone {
		t.Errorf("Stage = %v, want DONE", got.Stage)
	}
	if !got.StartedAt.Equal(want.StartedAt) {
		t.Errorf("StartedAt = %v, want %v", got.StartedAt, want.StartedAt)
	}
	if len(got.Scans) != 2 || got.Scans[1].ExitCode != 1 {
		t.Errorf("Scans = %+v", got.Scans)
	}
	if got.Counts != want.Counts {
		t.Errorf("Counts = %+v, want %+v", got.Counts, want.Counts)
	}

	t.Run("unknown id", func(t *testing.T) {
		t.Parallel()

		if _, err := db.GetRun(ctx, id+100); !errors.Is(err, ErrRunNotFound) {
			t.Errorf("GetRun() error = %v, want ErrRunNotFound", err)
		}
	})
}

func TestHistoryDB_ListRuns(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	for _, input := range []string{"first.txt", "second.txt", "third.txt"} {
		if _, err := db.SaveRun(ctx, sampleSummary(input)); err != nil {
			t.Fatalf("SaveRun(%s) error: %v", input, err)
		}
	}

	aborted := &model.Summary{
		InputFile: "empty.txt",
		Stage:     model.StageAbort,
		StartedAt: time.Now(),
		Error:     "no IPs resolved",
	}
	if _, err := db.SaveRun(ctx, aborted); err != nil {
		t.Fatalf("SaveRun(aborted) error: %v", err)
	}

	runs, err := db.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns() error: %v", err)
	}
	if len(runs) != 4 {
		t.Fatalf("len(runs) = %d, want 4", len(runs))
	}
	if runs[0].InputFile != "empty.txt" || runs[0].Stage != "ABORT" {
		t.Errorf("newest run = %+v", runs[0])
	}
	if runs[0].Error != "no IPs resolved" {
		t.Errorf("Error = %q", runs[0].Error)
	}
	if !runs[0].FinishedAt.IsZero() {
		t.Errorf("FinishedAt = %v, want zero", runs[0].FinishedAt)
	}
	if runs[1].Addresses != 2 || runs[1].Scans != 2 || runs[1].Subdomains != 2 {
		t.Errorf("counts of %s = %+v", runs[1].InputFile, runs[1])
	}

	limited, err := db.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns(2) error: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("len(limited) = %d, want 2", len(limited))
	}
}

func TestHistoryDB_RunsWithAddress(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	first, err := db.SaveRun(ctx, sampleSummary("a.txt"))
	if err != nil {
		t.Fatalf("SaveRun() error: %v", err)
	}
	second, err := db.SaveRun(ctx, sampleSummary("b.txt"))
	if err != nil {
		t.Fatalf("SaveRun() error: %v", err)
	}

	ids, err := db.RunsWithAddress(ctx, "93.184.216.34")
	if err != nil {
		t.Fatalf("RunsWithAddress() error: %v", err)
	}
	if len(ids) != 2 || ids[0] != second || ids[1] != first {
		t.Errorf("RunsWithAddress() = %v, want [%d %d]", ids, second, first)
	}

	ids, err = db.RunsWithAddress(ctx, "10.0.0.1")
	if err != nil {
		t.Fatalf("RunsWithAddress() error: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("RunsWithAddress(unknown) = %v, want empty", ids)
	}
}

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"rfc3339 nano", "2026-01-02T03:04:05.5Z", time.Date(2026, 1, 2, 3, 4, 5, 500000000, time.UTC)},
		{"sqlite default", "2026-01-02 03:04:05", time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)},
		{"garbage", "not a time", time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := parseTimestamp(tt.input); !got.Equal(tt.want) {
				t.Errorf("parseTimestamp(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
