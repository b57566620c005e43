package portscan

import "errors"

// ErrLaunch wraps failures to start the scanner process.
var ErrLaunch = errors.New("failed to launch scanner")
