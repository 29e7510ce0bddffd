package process

import (
	"context"
	"testing"

	"github.com/forgehq/forge/internal/ports"
)

func TestRunner_CapturesStdoutLines(t *testing.T) {
	var lines []string
	r := NewRunner()

	h, err := r.Start(context.Background(), ports.ProcessSpec{
		Path: "/bin/sh",
		Args: []string{"-c", "echo one; echo two"},
		Stdout: func(line string) {
			lines = append(lines, line)
		},
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	code, err := h.Wait()
	if err != nil {
		t.Fatalf("expected clean wait, got %v", err)
	}
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if len(lines) != 2 || lines[0] != "one" || lines[1] != "two" {
		t.Fatalf("expected [one two], got %v", lines)
	}
}

func TestRunner_NonZeroExitCode(t *testing.T) {
	r := NewRunner()

	h, err := r.Start(context.Background(), ports.ProcessSpec{
		Path: "/bin/sh",
		Args: []string{"-c", "exit 3"},
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	code, err := h.Wait()
	if err != nil {
		t.Fatalf("expected no start/wait error, got %v", err)
	}
	if code != 3 {
		t.Fatalf("expected exit code 3, got %d", code)
	}
}
