package portscan

import (
	"slices"
	"testing"
)

// TestProfileArgs tests the exact scanner invocation.
func TestProfileArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		addr     string
		profile  Profile
		expected []string
	}{
		{
			name:    "IPv4 default profile",
			addr:    "93.184.216.34",
			profile: DefaultProfile(),
			expected: []string{
				"-Pn", "-p-", "--min-rate", "5000", "--max-retries", "2",
				"--open", "--disable-arp-ping", "93.184.216.34",
			},
		},
		{
			name:    "IPv6 adds -6 first",
			addr:    "2606:2800:220:1:248:1893:25c8:1946",
			profile: DefaultProfile(),
			expected: []string{
				"-6", "-Pn", "-p-", "--min-rate", "5000", "--max-retries", "2",
				"--open", "--disable-arp-ping", "2606:2800:220:1:248:1893:25c8:1946",
			},
		},
		{
			name:    "custom rate and retries",
			addr:    "192.0.2.1",
			profile: Profile{MinRate: 1000, MaxRetries: 0},
			expected: []string{
				"-Pn", "-p-", "--min-rate", "1000", "--max-retries", "0",
				"--open", "--disable-arp-ping", "192.0.2.1",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.profile.Args(tt.addr); !slices.Equal(got, tt.expected) {
				t.Errorf("got %v, expected %v", got, tt.expected)
			}
		})
	}
}
