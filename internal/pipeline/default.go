package pipeline

import "github.com/AymanRbati/ExposedInraRecon/internal/log"

// Collaborators are the external dependencies of the default pipeline.
type Collaborators struct {
	Harvester Harvester
	Resolver  Resolver
	Scanner   Scanner
	Writer    ResultWriter
	Status    *log.Status
}

// DefaultPipelineConfig holds the worker counts of the default pipeline.
type DefaultPipelineConfig struct {
	HarvestWorkers int
	ResolveWorkers int
	ScanWorkers    int
}

// DefaultPipelineOption configures a DefaultPipelineConfig.
type DefaultPipelineOption func(*DefaultPipelineConfig)

// WithPipelineHarvestWorkers sets how many domains are queried at once.
func WithPipelineHarvestWorkers(n int) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.HarvestWorkers = n
	}
}

// WithPipelineResolveWorkers sets how many subdomains are resolved at once.
func WithPipelineResolveWorkers(n int) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.ResolveWorkers = n
	}
}

// WithPipelineScanWorkers sets how many scans run at once.
func WithPipelineScanWorkers(n int) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.ScanWorkers = n
	}
}

// DefaultPipeline creates the harvest, resolve and scan pipeline.
//
// The first variadic parameter accepts pipeline options (WithLogger, etc).
// The second accepts worker count options (WithPipelineScanWorkers, etc).
func DefaultPipeline(c Collaborators, pipelineOpts []Option, configOpts ...DefaultPipelineOption) *Pipeline {
	p := New(pipelineOpts...)

	cfg := &DefaultPipelineConfig{
		HarvestWorkers: 1,
		ResolveWorkers: 30,
		ScanWorkers:    10,
	}
	for _, opt := range configOpts {
		opt(cfg)
	}

	common := []StepOption{
		WithStepStatus(c.Status),
		WithStepLogger(p.logger),
	}
	with := func(workers int) []StepOption {
		return append([]StepOption{WithStepWorkers(workers)}, common...)
	}

	p.AddSteps(
		NewHarvestStep(c.Harvester, with(cfg.HarvestWorkers)...),
		NewWriteSubdomainsStep(c.Writer, common...),
		NewResolveStep(c.Resolver, with(cfg.ResolveWorkers)...),
		NewWriteAddressesStep(c.Writer, common...),
		NewRequireAddressesStep(common...),
		NewScanStep(c.Scanner, c.Writer, with(cfg.ScanWorkers)...),
	)

	return p
}
