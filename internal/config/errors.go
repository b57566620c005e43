package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrNoInput is returned when no domain list file is given.
	ErrNoInput = errors.New("no input specified: provide a domain list file")

	// ErrInvalidEndpoint is returned when the CT endpoint is not an http(s) URL.
	ErrInvalidEndpoint = errors.New("invalid CT endpoint: must be an http or https URL")

	// ErrInvalidTimeout is returned when the CT timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidWorkers is returned when a stage worker count is not positive.
	ErrInvalidWorkers = errors.New("invalid worker count: must be positive")

	// ErrNoScanner is returned when the nmap path is empty.
	ErrNoScanner = errors.New("no scanner specified: nmap path is empty")

	// ErrInvalidMinRate is returned when the scan rate is not positive.
	ErrInvalidMinRate = errors.New("invalid min rate: must be positive")

	// ErrInvalidMaxRetries is returned when the retry count is negative.
	ErrInvalidMaxRetries = errors.New("invalid max retries: must be non-negative")

	// ErrInvalidDNSTimeout is returned when nameservers are set with a
	// non-positive query timeout.
	ErrInvalidDNSTimeout = errors.New("invalid DNS timeout: must be positive")

	// ErrConflictingProxy is returned when both --proxy and --tor are given.
	ErrConflictingProxy = errors.New("conflicting proxy settings: --proxy and --tor cannot be used together")

	// ErrInvalidProxyAddress is returned when the proxy is not "host:port".
	ErrInvalidProxyAddress = errors.New("invalid proxy address: expected host:port")
)

// Input errors returned by ReadDomains.
var (
	// ErrInputNotFound is returned when the domain list does not exist.
	ErrInputNotFound = errors.New("input file not found")
)
