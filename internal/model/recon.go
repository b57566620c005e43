package model

import "time"

// Recon is the state of a single run.
// The pipeline steps advance Stage and fill the sets and result slices.
type Recon struct {
	// InputFile is the path of the domain list.
	InputFile string

	// Domains holds the non-empty, trimmed input lines in file order.
	// Duplicates are kept and queried once each.
	Domains []string

	// Subdomains is the union of every harvested name.
	Subdomains *StringSet

	// Addresses is the union of every resolved address.
	Addresses *StringSet

	Harvests    []HarvestResult
	Resolutions []Resolution
	Scans       []ScanReport

	Stage      Stage
	StartedAt  time.Time
	FinishedAt time.Time

	// PerformedSteps lists the pipeline steps that completed.
	PerformedSteps []string

	// Err is the error that stopped the run, if any.
	Err          error
	ErrorMessage string
}

// NewRecon creates a run in the INIT stage.
func NewRecon(inputFile string, domains []string) *Recon {
	return &Recon{
		InputFile:  inputFile,
		Domains:    domains,
		Subdomains: NewStringSet(),
		Addresses:  NewStringSet(),
		Stage:      StageInit,
		StartedAt:  time.Now(),
	}
}

// Advance moves the run to stage. Terminal stages are sticky.
func (r *Recon) Advance(stage Stage) {
	if r.Stage.Terminal() {
		return
	}
	r.Stage = stage
	if stage.Terminal() {
		r.FinishedAt = time.Now()
	}
}

// Fail records err as the reason the run stopped.
func (r *Recon) Fail(err error) {
	r.Err = err
	if err != nil {
		r.ErrorMessage = err.Error()
	}
}
