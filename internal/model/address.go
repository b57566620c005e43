package model

import "strings"

// Family is the address family of a resolved address.
type Family string

const (
	// FamilyIPv4 marks an address returned by an A lookup.
	FamilyIPv4 Family = "IPv4"
	// FamilyIPv6 marks an address returned by an AAAA lookup.
	FamilyIPv6 Family = "IPv6"
)

// IsIPv6 reports whether addr is an IPv6 address.
// The presence of a colon is the only signal; the address is never parsed.
func IsIPv6(addr string) bool {
	return strings.Contains(addr, ":")
}

// FamilyOf returns the family of addr using IsIPv6.
func FamilyOf(addr string) Family {
	if IsIPv6(addr) {
		return FamilyIPv6
	}
	return FamilyIPv4
}
