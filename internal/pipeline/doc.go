// Package pipeline runs a recon as a sequence of steps over a model.Recon.
//
// The default pipeline is
//
//	harvest -> write_subdomains -> resolve -> write_addresses -> require_addresses -> scan
//
// Harvest, resolve and scan fan out over a BatchProcessor bounded with
// errgroup.SetLimit. Every task returns its result as data; a task never
// fails the batch. The step waits for all of its tasks, then merges the
// results into the run's sets from a single goroutine before the next step
// starts. Stages therefore never overlap.
//
// The require_addresses step stops the pipeline with ErrNoAddresses when
// resolution produced nothing, moving the run to the ABORT stage before any
// scan is started.
package pipeline
