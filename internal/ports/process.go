package ports

import "context"

// ProcessRunner starts external processes on behalf of target actions,
// streaming their output line-by-line to the Stdout/Stderr callbacks in
// ProcessSpec rather than the process's inherited stdio. Output reaches the
// Sink only if those callbacks write to it.
type ProcessRunner interface {
	Start(ctx context.Context, spec ProcessSpec) (ProcessHandle, error)
}

// ProcessSpec describes a subprocess invocation.
type ProcessSpec struct {
	Path   string
	Args   []string
	Dir    string
	Env    []string
	Stdout func(line string)
	Stderr func(line string)
}

// ProcessHandle represents a started subprocess.
type ProcessHandle interface {
	// Wait blocks until the process exits and returns its exit code and any
	// error starting or waiting on it.
	Wait() (exitCode int, err error)
}
