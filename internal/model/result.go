package model

import "time"

// HarvestResult is the outcome of querying certificate transparency for one domain.
type HarvestResult struct {
	// Domain is the apex domain that was queried.
	Domain string
	// Subdomains holds the normalized, de-duplicated names in first-seen order.
	Subdomains []string
	// StatusCode is the HTTP status of the query, zero when no response arrived.
	StatusCode int
	// Err is set when the query or the decode failed.
	Err error
}

// Outcome classifies the result.
func (r HarvestResult) Outcome() Outcome {
	switch {
	case r.Err != nil:
		return OutcomeFailed
	case len(r.Subdomains) == 0:
		return OutcomeEmpty
	default:
		return OutcomeOK
	}
}

// Resolution is the outcome of resolving one subdomain.
// A missing family is not a failure of the subdomain; both lookups are
// attempted independently.
type Resolution struct {
	Subdomain string
	// IPv4 holds at most one address: the first one the lookup returned.
	IPv4 []string
	// IPv6 holds every AAAA address returned.
	IPv6    []string
	IPv4Err error
	IPv6Err error
}

// Addresses returns the IPv4 addresses followed by the IPv6 addresses.
func (r Resolution) Addresses() []string {
	out := make([]string, 0, len(r.IPv4)+len(r.IPv6))
	out = append(out, r.IPv4...)
	out = append(out, r.IPv6...)
	return out
}

// Outcome classifies the resolution. It is failed only when both
// lookups errored.
func (r Resolution) Outcome() Outcome {
	switch {
	case len(r.IPv4)+len(r.IPv6) > 0:
		return OutcomeOK
	case r.IPv4Err != nil && r.IPv6Err != nil:
		return OutcomeFailed
	default:
		return OutcomeEmpty
	}
}

// ScanReport is the outcome of one port scan.
type ScanReport struct {
	Address string
	Family  Family
	// Output is the scanner's captured standard output.
	Output []byte
	// ExitCode is recorded but never interpreted.
	ExitCode int
	Duration time.Duration
	// Err is set when the scanner could not be launched or the report
	// could not be appended to the output file.
	Err error
}

// Outcome classifies the report. A non-zero exit code is still OK
// because the output was captured.
func (r ScanReport) Outcome() Outcome {
	switch {
	case r.Err != nil:
		return OutcomeFailed
	case len(r.Output) == 0:
		return OutcomeEmpty
	default:
		return OutcomeOK
	}
}
