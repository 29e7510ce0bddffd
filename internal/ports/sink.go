package ports

import "github.com/forgehq/forge/internal/domain/target"

// Sink receives structured log events from the engine and renders them.
// Implementations must serialize concurrent writes with a single mutex (or
// equivalent) so that the relative order of messages emitted by one
// target's action is preserved; see sink.Console.
type Sink interface {
	Write(text string)
	Trace(text string)
	Info(text string)
	Warn(text string, details ...string)
	Error(text string, details ...string)
	Success(text string)

	// BeginBlock opens a scoped "target block" that MUST be closed on every
	// exit path (normal return, panic, error). The returned handle's Close
	// marks the block finished; callers use it in a defer.
	BeginBlock(name string) BlockHandle

	// WriteSummary renders the end-of-run table: Target | Status | Duration,
	// a total-duration row, and a final success/failure line.
	WriteSummary(targets []*target.Target)
}

// BlockHandle is the scoped acquisition returned by Sink.BeginBlock.
type BlockHandle interface {
	Close()
}
