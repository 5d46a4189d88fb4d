// Package coordinator runs multi-step writes that cannot share a database
// transaction. Steps run in order; when one fails, the steps that already
// succeeded are compensated in reverse order.
package coordinator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jcmexdev/storefront/internal/coordinator/sagalog"
)

// Step is one unit of work in a saga together with the action that undoes it.
type Step interface {
	Name() string
	Execute(ctx context.Context) error
	Compensate(ctx context.Context) error
}

// FuncStep adapts a pair of closures to Step. A nil Undo compensates to a no-op.
type FuncStep struct {
	StepName string
	Do       func(ctx context.Context) error
	Undo     func(ctx context.Context) error
}

func (s FuncStep) Name() string { return s.StepName }

func (s FuncStep) Execute(ctx context.Context) error { return s.Do(ctx) }

func (s FuncStep) Compensate(ctx context.Context) error {
	if s.Undo == nil {
		return nil
	}
	return s.Undo(ctx)
}

// Orchestrator executes a fixed list of steps for one saga instance.
type Orchestrator struct {
	id      string
	payload string
	steps   []Step
	journal sagalog.Repository
}

// NewOrchestrator builds a saga identified by id. journal may be nil, in
// which case transitions are only logged.
func NewOrchestrator(id string, journal sagalog.Repository, steps ...Step) *Orchestrator {
	return &Orchestrator{id: id, steps: steps, journal: journal}
}

// WithPayload attaches the serialized saga input to the STARTED entry.
func (o *Orchestrator) WithPayload(payload string) *Orchestrator {
	o.payload = payload
	return o
}

// Start runs the steps sequentially. On the first failure it compensates
// every completed step, newest first, and returns the step's error.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.record(ctx, sagalog.StatusStarted, "", o.payload, nil)

	done := make([]Step, 0, len(o.steps))
	for _, step := range o.steps {
		slog.DebugContext(ctx, "saga step executing", "saga_id", o.id, "step", step.Name())

		if err := step.Execute(ctx); err != nil {
			slog.WarnContext(ctx, "saga step failed, compensating",
				"saga_id", o.id, "step", step.Name(), "error", err)

			errs := []string{fmt.Sprintf("step %s failed: %v", step.Name(), err)}
			o.record(ctx, sagalog.StatusCompensating, step.Name(), "", errs)
			errs = append(errs, o.rollback(ctx, done)...)
			o.record(ctx, sagalog.StatusFailed, step.Name(), "", errs)

			return fmt.Errorf("saga %s: %s: %w", o.id, step.Name(), err)
		}

		done = append(done, step)
		o.record(ctx, sagalog.StatusStepDone, step.Name(), "", nil)
	}

	o.record(ctx, sagalog.StatusCompleted, "", "", nil)
	return nil
}

func (o *Orchestrator) rollback(ctx context.Context, steps []Step) []string {
	// Compensation must run even when the caller's context is already done.
	ctx = context.WithoutCancel(ctx)

	var errs []string
	for i := len(steps) - 1; i >= 0; i-- {
		step := steps[i]
		if err := step.Compensate(ctx); err != nil {
			slog.ErrorContext(ctx, "saga compensation failed",
				"saga_id", o.id, "step", step.Name(), "error", err)
			errs = append(errs, fmt.Sprintf("compensation of %s failed: %v", step.Name(), err))
			continue
		}
		slog.InfoContext(ctx, "saga step compensated", "saga_id", o.id, "step", step.Name())
	}
	return errs
}

func (o *Orchestrator) record(ctx context.Context, status sagalog.Status, step, payload string, errs []string) {
	if o.journal == nil {
		return
	}
	entry := sagalog.NewEntry(ctx, o.id, status, step, payload, errs)
	if err := o.journal.Save(context.WithoutCancel(ctx), entry); err != nil {
		slog.ErrorContext(ctx, "saga log write failed", "saga_id", o.id, "status", status, "error", err)
	}
}
