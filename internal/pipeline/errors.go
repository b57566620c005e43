package pipeline

import "errors"

// ErrNoAddresses is returned when no subdomain resolved to any address.
// The run ends in the ABORT stage and no scan is started.
var ErrNoAddresses = errors.New("no IPs resolved")
