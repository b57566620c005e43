// Package resolve turns subdomains into IPv4 and IPv6 addresses.
//
// Resolver performs two independent lookups per subdomain. The IPv4
// lookup keeps only the first address returned, the IPv6 lookup keeps
// every address. A failed lookup is recorded on the model.Resolution
// and never stops the other one.
//
// Two Lookuper backends exist: SystemLookuper uses the host resolver
// configuration through net.Resolver, and DNSLookuper queries explicit
// nameservers with github.com/miekg/dns.
package resolve
