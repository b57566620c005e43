package model

import "fmt"

// Outcome is the per-item result of a harvest, resolve or scan task.
// A task never fails the run; its outcome is recorded instead.
type Outcome int

const (
	// OutcomeOK means the task produced data.
	OutcomeOK Outcome = iota

	// OutcomeEmpty means the task succeeded but produced nothing,
	// for example a domain with no certificate entries.
	OutcomeEmpty

	// OutcomeFailed means the task hit a transport, parse, lookup or launch error.
	OutcomeFailed
)

// String returns the lowercase name used in logs and reports.
func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeEmpty:
		return "empty"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Outcome) UnmarshalText(text []byte) error {
	switch string(text) {
	case "ok":
		*o = OutcomeOK
	case "empty":
		*o = OutcomeEmpty
	case "failed":
		*o = OutcomeFailed
	default:
		return fmt.Errorf("unknown outcome %q", text)
	}
	return nil
}
