// Package model defines the data structures shared by every stage of a recon run.
//
// This package contains the following main types:
//   - StringSet: a write-once set of names or addresses with a sorted snapshot
//   - Recon: the state of one run (input domains, accumulated sets, per-item results, stage)
//   - HarvestResult, Resolution, ScanReport: the per-item outcome of each stage
//   - Summary: a serializable view of a finished run used by reports and history
//
// Models live in their own package so that the pipeline, output, report and
// database packages can share them without import cycles.
package model
