package target

import (
	"errors"
	"testing"
)

func TestExecutionList_ValidateAcceptsOrderedChain(t *testing.T) {
	clean := New("clean").Build()
	restore := New("restore").DependsOn(clean).Build()

	list := ExecutionList{Targets: []*Target{clean, restore}}
	if err := list.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExecutionList_ValidateRejectsMissingDependency(t *testing.T) {
	clean := New("clean").Build()
	restore := New("restore").DependsOn(clean).Build()

	list := ExecutionList{Targets: []*Target{restore}}
	err := list.Validate()
	if err == nil {
		t.Fatal("expected missing dependency error")
	}
	var domainErr *DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != ErrCodeDependency {
		t.Fatalf("expected dependency domain error, got %v", err)
	}
}

func TestExecutionList_ValidateRejectsOutOfOrderDependency(t *testing.T) {
	clean := New("clean").Build()
	restore := New("restore").DependsOn(clean).Build()

	list := ExecutionList{Targets: []*Target{restore, clean}}
	err := list.Validate()
	if err == nil {
		t.Fatal("expected out-of-order dependency error")
	}
	var domainErr *DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != ErrCodeDependency {
		t.Fatalf("expected dependency domain error, got %v", err)
	}
}

func TestExecutionList_ValidateRejectsDuplicateEntry(t *testing.T) {
	clean := New("clean").Build()
	list := ExecutionList{Targets: []*Target{clean, clean}}

	err := list.Validate()
	if err == nil {
		t.Fatal("expected duplicate entry error")
	}
}

func TestExecutionList_Names(t *testing.T) {
	a := New("a").Build()
	b := New("b").Build()
	list := ExecutionList{Targets: []*Target{a, b}}

	got := list.Names()
	want := []string{"a", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
