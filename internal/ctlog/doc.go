// Package ctlog harvests subdomains from a certificate transparency search
// service such as crt.sh.
//
// A Client issues one query per apex domain for every certificate that
// matches "%.<domain>", streams the JSON array in the response and extracts
// the name_value field of each entry. A name_value may hold several names
// separated by newlines; every name has its wildcard markers removed and is
// trimmed. Names are otherwise kept exactly as the log returned them: no
// case folding and no filtering to the queried domain.
//
// Harvest failures never escape as errors. Subdomains returns a
// model.HarvestResult whose Err explains why the set is empty.
package ctlog
