package log

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
)

// Status writes the human-readable progress of a run.
// Each call writes exactly one line (Section writes a blank line first),
// and calls from concurrent workers are serialized.
type Status struct {
	mu sync.Mutex
	w  io.Writer

	info  *color.Color
	found *color.Color
	warn  *color.Color
}

// NewStatus creates a status writer. When colorize is false, or the
// process is not attached to a terminal, prefixes are written plain.
func NewStatus(w io.Writer, colorize bool) *Status {
	s := &Status{
		w:     w,
		info:  color.New(color.FgCyan, color.Bold),
		found: color.New(color.FgGreen),
		warn:  color.New(color.FgYellow, color.Bold),
	}
	if !colorize {
		s.info.DisableColor()
		s.found.DisableColor()
		s.warn.DisableColor()
	}
	return s
}

// DiscardStatus returns a Status that writes nowhere.
func DiscardStatus() *Status {
	return NewStatus(io.Discard, false)
}

// Info writes a "[*]" line.
func (s *Status) Info(format string, args ...any) {
	s.line("", s.info.Sprint("[*]"), format, args...)
}

// Section writes a blank line followed by a "[*]" line.
func (s *Status) Section(format string, args ...any) {
	s.line("\n", s.info.Sprint("[*]"), format, args...)
}

// Found writes a line tagged with the address family, such as "[IPv4]".
func (s *Status) Found(family string, format string, args ...any) {
	s.line("", s.found.Sprint("["+family+"]"), format, args...)
}

// Warn writes a "[!]" line.
func (s *Status) Warn(format string, args ...any) {
	s.line("", s.warn.Sprint("[!]"), format, args...)
}

func (s *Status) line(lead, prefix, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "%s%s %s\n", lead, prefix, msg)
}
