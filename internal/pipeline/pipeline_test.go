package pipeline

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/AymanRbati/ExposedInraRecon/internal/log"
	"github.com/AymanRbati/ExposedInraRecon/internal/model"
)

// mockStep is a test helper that implements the Step interface.
type mockStep struct {
	name      string
	doFunc    func(ctx context.Context, recon *model.Recon) error
	callCount int
}

// Do implements Step.Do.
func (m *mockStep) Do(ctx context.Context, recon *model.Recon) error {
	m.callCount++
	if m.doFunc != nil {
		return m.doFunc(ctx, recon)
	}
	return nil
}

// Name implements Step.Name.
func (m *mockStep) Name() string {
	return m.name
}

func newTestRecon(domains ...string) *model.Recon {
	return model.NewRecon("domains.txt", domains)
}

// TestPipelineNew tests the Pipeline constructor.
func TestPipelineNew(t *testing.T) {
	t.Parallel()

	t.Run("creates pipeline with default settings", func(t *testing.T) {
		t.Parallel()

		p := New()
		if p.StepCount() != 0 {
			t.Errorf("expected 0 steps, got %d", p.StepCount())
		}
		if p.continueOnError {
			t.Error("expected continueOnError to be false")
		}
		if p.logger == nil {
			t.Error("expected default logger")
		}
	})

	t.Run("applies WithContinueOnError option", func(t *testing.T) {
		t.Parallel()

		p := New(WithContinueOnError(true))
		if !p.continueOnError {
			t.Error("expected continueOnError to be true")
		}
	})
}

// TestPipelineExecute tests pipeline execution.
func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("executes all steps in order and ends in DONE", func(t *testing.T) {
		t.Parallel()

		order := make([]string, 0)
		p := New(WithLogger(log.Discard()))
		for _, name := range []string{"first", "second", "third"} {
			p.AddStep(&mockStep{name: name, doFunc: func(context.Context, *model.Recon) error {
				order = append(order, name)
				return nil
			}})
		}

		recon := newTestRecon()
		if err := p.Execute(context.Background(), recon); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		expected := []string{"first", "second", "third"}
		if !slices.Equal(order, expected) {
			t.Errorf("got order %v, expected %v", order, expected)
		}
		if !slices.Equal(recon.PerformedSteps, expected) {
			t.Errorf("got performed steps %v", recon.PerformedSteps)
		}
		if recon.Stage != model.StageDone {
			t.Errorf("got stage %s, expected DONE", recon.Stage)
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()

		stepErr := errors.New("step failed")
		failing := &mockStep{name: "failing", doFunc: func(context.Context, *model.Recon) error {
			return stepErr
		}}
		after := &mockStep{name: "after"}

		p := New(WithLogger(log.Discard()))
		p.AddSteps(failing, after)

		recon := newTestRecon()
		err := p.Execute(context.Background(), recon)

		if !errors.Is(err, stepErr) {
			t.Errorf("expected step error, got %v", err)
		}
		if after.callCount != 0 {
			t.Error("expected later step not to run")
		}
		if recon.ErrorMessage != "step failed" {
			t.Errorf("got error message %q", recon.ErrorMessage)
		}
		if recon.Stage == model.StageDone {
			t.Error("expected run not to reach DONE")
		}
	})

	t.Run("continues on error when configured", func(t *testing.T) {
		t.Parallel()

		failing := &mockStep{name: "failing", doFunc: func(context.Context, *model.Recon) error {
			return errors.New("boom")
		}}
		after := &mockStep{name: "after"}

		p := New(WithLogger(log.Discard()), WithContinueOnError(true))
		p.AddSteps(failing, after)

		if err := p.Execute(context.Background(), newTestRecon()); err != nil {
			t.Errorf("expected nil error, got %v", err)
		}
		if after.callCount != 1 {
			t.Errorf("expected later step to run once, got %d", after.callCount)
		}
	})

	t.Run("checks cancellation before each step", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		step := &mockStep{name: "never"}
		p := New(WithLogger(log.Discard()))
		p.AddStep(step)

		if err := p.Execute(ctx, newTestRecon()); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if step.callCount != 0 {
			t.Error("expected step not to run")
		}
	})

	t.Run("an aborted run stays ABORT", func(t *testing.T) {
		t.Parallel()

		p := New(WithLogger(log.Discard()), WithContinueOnError(true))
		p.AddStep(NewRequireAddressesStep())

		recon := newTestRecon()
		_ = p.Execute(context.Background(), recon)

		if recon.Stage != model.StageAbort {
			t.Errorf("got stage %s, expected ABORT", recon.Stage)
		}
	})
}

// TestPipelineStepNames tests StepNames.
func TestPipelineStepNames(t *testing.T) {
	t.Parallel()

	p := DefaultPipeline(Collaborators{}, []Option{WithLogger(log.Discard())})

	expected := []string{
		"harvest",
		"write_subdomains",
		"resolve",
		"write_addresses",
		"require_addresses",
		"scan",
	}
	if got := p.StepNames(); !slices.Equal(got, expected) {
		t.Errorf("got %v, expected %v", got, expected)
	}
}

// TestDefaultPipelineConfig tests the worker count options.
func TestDefaultPipelineConfig(t *testing.T) {
	t.Parallel()

	cfg := &DefaultPipelineConfig{}
	for _, opt := range []DefaultPipelineOption{
		WithPipelineHarvestWorkers(2),
		WithPipelineResolveWorkers(64),
		WithPipelineScanWorkers(4),
	} {
		opt(cfg)
	}

	if cfg.HarvestWorkers != 2 || cfg.ResolveWorkers != 64 || cfg.ScanWorkers != 4 {
		t.Errorf("unexpected config %+v", cfg)
	}

	p := DefaultPipeline(Collaborators{}, []Option{WithLogger(log.Discard())}, WithPipelineScanWorkers(4))
	scan, ok := p.steps[5].(*ScanStep)
	if !ok {
		t.Fatalf("expected *ScanStep, got %T", p.steps[5])
	}
	if scan.workers != 4 {
		t.Errorf("expected scan workers 4, got %d", scan.workers)
	}
	resolve := p.steps[2].(*ResolveStep) //nolint:forcetypeassert // order checked by TestPipelineStepNames
	if resolve.workers != 30 {
		t.Errorf("expected default resolve workers 30, got %d", resolve.workers)
	}
}
