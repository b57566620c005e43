package model

import "fmt"

// Stage is the position of a run in its lifecycle.
//
//	INIT -> HARVEST -> RESOLVE -> SCAN -> DONE
//	                      \-> ABORT (no addresses resolved)
//
// Each transition happens only after every task of the previous stage
// has completed and its results were merged.
type Stage int

const (
	// StageInit is the state before any network work.
	StageInit Stage = iota
	// StageHarvest collects subdomains from certificate transparency.
	StageHarvest
	// StageResolve resolves each subdomain to addresses.
	StageResolve
	// StageScan port scans every resolved address.
	StageScan
	// StageDone is the terminal state of a completed run.
	StageDone
	// StageAbort is the terminal state when resolution produced no addresses.
	StageAbort
)

// String returns the upper-case stage name.
func (s Stage) String() string {
	switch s {
	case StageInit:
		return "INIT"
	case StageHarvest:
		return "HARVEST"
	case StageResolve:
		return "RESOLVE"
	case StageScan:
		return "SCAN"
	case StageDone:
		return "DONE"
	case StageAbort:
		return "ABORT"
	default:
		return "UNKNOWN"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Stage) UnmarshalText(text []byte) error {
	for st := StageInit; st <= StageAbort; st++ {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown stage %q", text)
}

// Terminal reports whether no further transition is possible.
func (s Stage) Terminal() bool {
	return s == StageDone || s == StageAbort
}
