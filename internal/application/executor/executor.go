// Package executor walks a planned execution list sequentially, evaluating
// each target's conditions, running its actions, and recording status and
// timing. Execution is single-threaded and cooperative: the sink is the
// only shared resource, and the only concurrency is the caller's context
// cancellation, checked between targets and between actions.
package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/forgehq/forge/internal/domain/target"
	"github.com/forgehq/forge/internal/ports"
	apperrors "github.com/forgehq/forge/pkg/errors"
)

// Executor runs one execution list to completion or first failure.
type Executor struct {
	sink   ports.Sink
	logger ports.Logger
}

// New constructs an Executor. logger may be nil.
func New(sink ports.Sink, logger ports.Logger) *Executor {
	return &Executor{sink: sink, logger: logger}
}

// Run iterates list.Targets in order. On a target failure it stops: targets
// after the failing one are never visited and are set to StatusNotRun before
// the summary is written. Run always calls WriteSummary before returning, so
// the caller sees a final table even on failure.
func (e *Executor) Run(ctx context.Context, list target.ExecutionList) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var runErr error

	for _, t := range list.Targets {
		if err := ctx.Err(); err != nil {
			runErr = target.NewHostInterrupt(t.Name, err)
			break
		}

		if !t.HasAction() {
			t.Status = target.StatusAbsent
			continue
		}

		ready, err := e.evaluateConditions(t)
		if err != nil {
			t.Status = target.StatusFailed
			failure := target.NewTargetFailure(t.Name, err)
			e.logError(ctx, t.Name, failure)
			runErr = failure
			break
		}
		if !ready {
			t.Status = target.StatusSkipped
			continue
		}

		if err := e.runTarget(ctx, t); err != nil {
			runErr = err
			break
		}
	}

	e.markUnreached(list)
	e.sink.WriteSummary(list.Targets)
	return runErr
}

// evaluateConditions runs a target's conditions in order. A condition is a
// pure predicate and must not throw; a panic during evaluation is treated as
// a target failure rather than a skip.
func (e *Executor) evaluateConditions(t *target.Target) (ready bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ready = false
			cause, ok := r.(error)
			if !ok {
				cause = &panicError{value: r}
			}
			err = cause
		}
	}()
	for _, cond := range t.Conditions {
		if !cond() {
			return false, nil
		}
	}
	return true, nil
}

func (e *Executor) runTarget(ctx context.Context, t *target.Target) (err error) {
	block := e.sink.BeginBlock(t.Name)
	defer block.Close()

	start := time.Now()
	defer func() {
		t.Duration = time.Since(start)
	}()

	defer func() {
		if r := recover(); r != nil {
			t.Status = target.StatusFailed
			cause, ok := r.(error)
			if !ok {
				cause = &panicError{value: r}
			}
			err = target.NewTargetFailure(t.Name, cause)
			e.logError(ctx, t.Name, err)
		}
	}()

	for _, action := range t.Actions {
		if err := ctx.Err(); err != nil {
			t.Status = target.StatusFailed
			failure := target.NewHostInterrupt(t.Name, err)
			e.logError(ctx, t.Name, failure)
			return failure
		}
		if actionErr := action(); actionErr != nil {
			t.Status = target.StatusFailed
			failure := target.NewTargetFailure(t.Name, apperrors.NewExecutionError(t.Name, actionErr))
			e.logError(ctx, t.Name, failure)
			return failure
		}
	}

	t.Status = target.StatusExecuted
	e.sink.Success(t.Name)
	return nil
}

// markUnreached replaces StatusPending with StatusNotRun on every target the
// executor never visited (those after a failure), so downstream consumers
// see a terminal status for every listed target.
func (e *Executor) markUnreached(list target.ExecutionList) {
	for _, t := range list.Targets {
		if t.Status == target.StatusPending {
			t.Status = target.StatusNotRun
		}
	}
}

func (e *Executor) logError(ctx context.Context, name string, err error) {
	if e.logger == nil {
		return
	}
	e.logger.Error(ctx, "target failed", "target", name, "error", err)
}

type panicError struct{ value interface{} }

func (p *panicError) Error() string {
	return fmt.Sprintf("panic during action execution: %v", p.value)
}
