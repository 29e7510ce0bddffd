// Package sink implements the Output Sink port: a plain console sink used
// on a local host, and per-provider decorating sinks that wrap it with CI
// marker bytes around writes and blocks.
package sink

import (
	"fmt"
	"io"
	"sync"

	"github.com/forgehq/forge/internal/domain/target"
	"github.com/forgehq/forge/internal/ports"
)

// Console is the plain Sink implementation used when the host is local. A
// single mutex serializes every write so that messages from one target's
// action are never interleaved with another's.
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsole constructs a Console writing to out.
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) Write(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, text)
}

func (c *Console) Trace(text string) { c.Write("trace: " + text) }
func (c *Console) Info(text string)  { c.Write(text) }

func (c *Console) Warn(text string, details ...string) {
	c.Write("warn: " + withDetails(text, details))
}

func (c *Console) Error(text string, details ...string) {
	c.Write("error: " + withDetails(text, details))
}

func (c *Console) Success(text string) {
	c.Write("ok: " + text)
}

// BeginBlock opens a named block. Console renders a simple bracketed
// header; the handle's Close is a no-op beyond marking the block finished,
// since Console carries no folding state between writes.
func (c *Console) BeginBlock(name string) ports.BlockHandle {
	c.Write(fmt.Sprintf("==> %s", name))
	return ConsoleBlockHandle{console: c, name: name}
}

// WriteSummary renders the end-of-run Target | Status | Duration table,
// a total-duration row, and a final success/failure line.
func (c *Console) WriteSummary(targets []*target.Target) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintln(c.out, "")
	fmt.Fprintln(c.out, "Target               Status      Duration")

	var total int64
	failed := false
	for _, t := range targets {
		fmt.Fprintf(c.out, "%-20s %-11s %s\n", t.Name, t.Status.String(), t.Duration)
		total += t.Duration.Nanoseconds()
		if t.Status == target.StatusFailed || t.Status == target.StatusNotRun {
			failed = true
		}
	}

	fmt.Fprintf(c.out, "%-20s %-11s %s\n", "Total", "", durationOf(total))
	if failed {
		fmt.Fprintln(c.out, "Build failed")
	} else {
		fmt.Fprintln(c.out, "Build succeeded")
	}
}

// ConsoleBlockHandle is returned by Console.BeginBlock.
type ConsoleBlockHandle struct {
	console *Console
	name    string
}

// Close marks the block finished. Guaranteed to be called on every exit
// path by the executor's defer.
func (h ConsoleBlockHandle) Close() {}

func withDetails(text string, details []string) string {
	if len(details) == 0 {
		return text
	}
	out := text
	for _, d := range details {
		out += " (" + d + ")"
	}
	return out
}

func durationOf(nanos int64) string {
	return fmt.Sprintf("%dms", nanos/1_000_000)
}

var _ ports.Sink = (*Console)(nil)
