// Package portscan runs nmap against resolved addresses.
//
// Every address gets the same full-range TCP profile: no host discovery,
// all 65535 ports, a minimum packet rate, bounded retries, open ports only
// and no ARP ping. IPv6 addresses add -6. The family is decided by the
// presence of a colon in the address.
//
// Standard output is captured, standard error is discarded and the exit
// code is recorded without being interpreted. Only a failure to launch the
// process is reported as an error.
package portscan
