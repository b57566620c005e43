package output

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/AymanRbati/ExposedInraRecon/internal/model"
)

// Result file names.
const (
	SubdomainsFile = "subdomains.txt"
	AddressesFile  = "IPs.txt"
	ScansFile      = "nmap.txt"
)

// filePerm is used for every result file. Results may reveal infrastructure
// and are kept private to the owner.
const filePerm = 0600

// Files writes the result files of one run.
type Files struct {
	dir string

	mu    sync.Mutex
	scans *os.File
}

// Create makes dir if needed and truncates the three result files.
// The scan report file stays open for appending until Close.
func Create(dir string) (*Files, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	f := &Files{dir: dir}
	for _, name := range []string{SubdomainsFile, AddressesFile} {
		if err := os.WriteFile(f.path(name), nil, filePerm); err != nil {
			return nil, fmt.Errorf("failed to truncate %s: %w", name, err)
		}
	}

	scans, err := os.OpenFile(f.path(ScansFile), os.O_CREATE|os.O_WRONLY|os.O_TRUNC|os.O_APPEND, filePerm)
	if err != nil {
		return nil, fmt.Errorf("failed to truncate %s: %w", ScansFile, err)
	}
	f.scans = scans

	return f, nil
}

// Dir returns the output directory.
func (f *Files) Dir() string {
	return f.dir
}

// Path returns the full path of the named result file.
func (f *Files) Path(name string) string {
	return f.path(name)
}

func (f *Files) path(name string) string {
	return filepath.Join(f.dir, name)
}

// WriteSubdomains writes names sorted, one per line.
func (f *Files) WriteSubdomains(names []string) error {
	return writeSortedLines(f.path(SubdomainsFile), names)
}

// WriteAddresses writes addrs sorted, one per line.
func (f *Files) WriteAddresses(addrs []string) error {
	return writeSortedLines(f.path(AddressesFile), addrs)
}

// AppendScan appends the report output followed by a newline.
// It is safe to call from concurrent scan workers.
func (f *Files) AppendScan(report model.ScanReport) error {
	block := make([]byte, 0, len(report.Output)+1)
	block = append(block, report.Output...)
	block = append(block, '\n')

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.scans == nil {
		return os.ErrClosed
	}
	if _, err := f.scans.Write(block); err != nil {
		return fmt.Errorf("failed to append scan of %s: %w", report.Address, err)
	}
	return nil
}

// Close closes the scan report file.
func (f *Files) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.scans == nil {
		return nil
	}
	err := f.scans.Close()
	f.scans = nil
	return err
}

func writeSortedLines(path string, lines []string) error {
	sorted := slices.Clone(lines)
	slices.Sort(sorted)

	var buf bytes.Buffer
	for _, line := range sorted {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	if err := os.WriteFile(path, buf.Bytes(), filePerm); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}
