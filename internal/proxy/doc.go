// Package proxy routes certificate transparency queries through a SOCKS5
// proxy, either an external one or an embedded Tor daemon started with
// github.com/nao1215/tornago.
//
// Only HTTP traffic to the CT search service uses the proxy. DNS lookups
// and port scans always leave the host directly.
package proxy
