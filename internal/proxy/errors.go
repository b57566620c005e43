package proxy

import "errors"

var (
	// ErrNotSOCKS5 is returned when the proxy does not speak SOCKS5 without
	// authentication.
	ErrNotSOCKS5 = errors.New("proxy is not a SOCKS5 proxy")

	// ErrCannotConnect is returned when the proxy address refuses connections.
	ErrCannotConnect = errors.New("cannot connect to proxy")

	// ErrTimeout is returned when the proxy does not answer in time.
	ErrTimeout = errors.New("timeout connecting to proxy")

	// ErrInvalidAddress is returned for addresses that are not host:port.
	ErrInvalidAddress = errors.New("invalid proxy address format: expected host:port")

	// ErrTorNotRunning is returned when a client is requested from an
	// embedded Tor daemon that was not started.
	ErrTorNotRunning = errors.New("embedded Tor daemon is not running")
)

// Status is the result of a proxy check.
type Status int

const (
	// StatusOK means the proxy accepted a SOCKS5 greeting.
	StatusOK Status = iota
	// StatusWrongType means something answered that is not a SOCKS5 proxy.
	StatusWrongType
	// StatusCannotConnect means the TCP connection failed.
	StatusCannotConnect
	// StatusTimeout means the proxy did not answer in time.
	StatusTimeout
)

// String returns a human-readable representation of the status.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusWrongType:
		return "wrong type (not SOCKS5)"
	case StatusCannotConnect:
		return "cannot connect"
	case StatusTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Err returns the sentinel error of the status, nil for StatusOK.
func (s Status) Err() error {
	switch s {
	case StatusOK:
		return nil
	case StatusWrongType:
		return ErrNotSOCKS5
	case StatusCannotConnect:
		return ErrCannotConnect
	case StatusTimeout:
		return ErrTimeout
	default:
		return errors.New("unknown proxy status")
	}
}
