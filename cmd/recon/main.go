// Package main provides the entry point for the recon CLI.
//
// recon collects the subdomains of a list of domains from certificate
// transparency logs, resolves them, and port scans every address with nmap.
//
// Usage:
//
//	recon [flags] <domains.txt>
//
// See --help for all available options.
package main

func main() {
	Execute()
}
