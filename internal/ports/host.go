package ports

import "github.com/forgehq/forge/internal/domain/host"

// HostDetector classifies the process environment into a CI Provider. It is
// the port infrastructure/hostdetect implements by reading sentinel
// environment variables.
type HostDetector interface {
	Detect() host.Provider
}

// EnvReader abstracts process environment lookups so host detection and
// parameter binding can be tested without mutating the real environment.
type EnvReader interface {
	Lookup(key string) (string, bool)
}
