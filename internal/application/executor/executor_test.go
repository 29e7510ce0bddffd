package executor

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/forgehq/forge/internal/domain/target"
	"github.com/forgehq/forge/internal/ports"
	apperrors "github.com/forgehq/forge/pkg/errors"
)

type fakeSink struct {
	blocksOpened  []string
	blocksClosed  int
	successes     []string
	summaryCalled bool
	summaryInput  []*target.Target
}

func (f *fakeSink) Write(string)            {}
func (f *fakeSink) Trace(string)            {}
func (f *fakeSink) Info(string)             {}
func (f *fakeSink) Warn(string, ...string)  {}
func (f *fakeSink) Error(string, ...string) {}
func (f *fakeSink) Success(name string)     { f.successes = append(f.successes, name) }
func (f *fakeSink) WriteSummary(ts []*target.Target) {
	f.summaryCalled = true
	f.summaryInput = ts
}
func (f *fakeSink) BeginBlock(name string) ports.BlockHandle {
	f.blocksOpened = append(f.blocksOpened, name)
	return &closingBlock{sink: f}
}

type closingBlock struct{ sink *fakeSink }

func (c *closingBlock) Close() { c.sink.blocksClosed++ }

func contextBG() context.Context { return context.Background() }

func TestExecutor_NoActionIsAbsent(t *testing.T) {
	tg := target.New("Docs").Build()
	list := target.ExecutionList{Targets: []*target.Target{tg}}

	sink := &fakeSink{}
	exec := New(sink, nil)
	if err := exec.Run(contextBG(), list); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if tg.Status != target.StatusAbsent {
		t.Fatalf("expected StatusAbsent, got %v", tg.Status)
	}
	if !sink.summaryCalled {
		t.Fatal("expected WriteSummary to be called")
	}
}

func TestExecutor_FalseConditionSkips(t *testing.T) {
	tg := target.New("Deploy").OnlyWhen(func() bool { return false }).Executes(func() error { return nil }).Build()
	list := target.ExecutionList{Targets: []*target.Target{tg}}

	exec := New(&fakeSink{}, nil)
	if err := exec.Run(contextBG(), list); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if tg.Status != target.StatusSkipped {
		t.Fatalf("expected StatusSkipped, got %v", tg.Status)
	}
}

func TestExecutor_SuccessfulActionExecutes(t *testing.T) {
	ran := false
	tg := target.New("Compile").Executes(func() error { ran = true; return nil }).Build()
	list := target.ExecutionList{Targets: []*target.Target{tg}}

	sink := &fakeSink{}
	exec := New(sink, nil)
	if err := exec.Run(contextBG(), list); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if !ran {
		t.Fatal("expected action to run")
	}
	if tg.Status != target.StatusExecuted {
		t.Fatalf("expected StatusExecuted, got %v", tg.Status)
	}
	if sink.blocksClosed != 1 {
		t.Fatalf("expected block closed once, got %d", sink.blocksClosed)
	}
}

func TestExecutor_FailureHaltsRemainingTargets(t *testing.T) {
	clean := target.New("Clean").Executes(func() error { return nil }).Build()
	restore := target.New("Restore").DependsOn(clean).Executes(func() error { return stderrors.New("network down") }).Build()
	compile := target.New("Compile").DependsOn(restore).Executes(func() error { return nil }).Build()

	list := target.ExecutionList{Targets: []*target.Target{clean, restore, compile}}

	exec := New(&fakeSink{}, nil)
	err := exec.Run(contextBG(), list)
	if err == nil {
		t.Fatal("expected failure")
	}
	if clean.Status != target.StatusExecuted {
		t.Fatalf("expected Clean Executed, got %v", clean.Status)
	}
	if restore.Status != target.StatusFailed {
		t.Fatalf("expected Restore Failed, got %v", restore.Status)
	}
	if compile.Status != target.StatusNotRun {
		t.Fatalf("expected Compile NotRun, got %v", compile.Status)
	}

	var domainErr *target.DomainError
	if !stderrors.As(err, &domainErr) {
		t.Fatalf("expected *target.DomainError, got %T", err)
	}
	var execErr *apperrors.ExecutionError
	if !stderrors.As(domainErr.Cause, &execErr) {
		t.Fatalf("expected the action error to be wrapped in an ExecutionError, got %T", domainErr.Cause)
	}
	if execErr.TargetName != "Restore" {
		t.Fatalf("expected ExecutionError.TargetName %q, got %q", "Restore", execErr.TargetName)
	}
}

func TestExecutor_PanicInConditionBecomesFailure(t *testing.T) {
	tg := target.New("Flaky").OnlyWhen(func() bool { panic("bad predicate") }).Executes(func() error { return nil }).Build()
	list := target.ExecutionList{Targets: []*target.Target{tg}}

	exec := New(&fakeSink{}, nil)
	err := exec.Run(contextBG(), list)
	if err == nil {
		t.Fatal("expected failure from panicking condition")
	}
	if tg.Status != target.StatusFailed {
		t.Fatalf("expected StatusFailed, got %v", tg.Status)
	}
}

func TestExecutor_PanicInActionBecomesFailure(t *testing.T) {
	tg := target.New("Risky").Executes(func() error { panic("boom") }).Build()
	list := target.ExecutionList{Targets: []*target.Target{tg}}

	exec := New(&fakeSink{}, nil)
	err := exec.Run(contextBG(), list)
	if err == nil {
		t.Fatal("expected failure from panic")
	}
	if tg.Status != target.StatusFailed {
		t.Fatalf("expected StatusFailed, got %v", tg.Status)
	}
}
