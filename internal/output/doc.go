// Package output manages the three result files of a run: the sorted
// subdomain list, the sorted address list and the concatenated scanner
// reports.
//
// All three files are truncated when Create is called, so that no result
// from a previous run survives. Scan reports are appended with a single
// write each while holding a mutex; a report is never interleaved with
// another one.
package output
