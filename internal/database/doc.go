// Package database stores run history in SQLite (modernc.org/sqlite).
//
// Each saved run records its metadata, the subdomains and addresses it
// collected and the exit code of every port scan, plus the full summary
// as JSON. The pipeline only ever writes history; nothing read back from
// it changes what a later run does.
package database
