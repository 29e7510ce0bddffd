// Package hostdetect classifies the process environment into a host
// Provider by checking each CI provider's documented sentinel variable.
package hostdetect

import (
	"os"

	"github.com/forgehq/forge/internal/domain/host"
)

// sentinel pairs a provider with the environment variable whose mere
// presence claims the process for that provider.
type sentinel struct {
	provider host.Provider
	variable string
}

// sentinels is the closed, ordered set of recognized CI providers. Order
// matters only in the pathological case of a test environment setting more
// than one sentinel; the first match wins, and local is the catch-all.
var sentinels = []sentinel{
	{host.Travis, "TRAVIS"},
	{host.AppVeyor, "APPVEYOR"},
	{host.TeamCity, "TEAMCITY_VERSION"},
	{host.Jenkins, "JENKINS_URL"},
	{host.Bamboo, "bamboo_planKey"},
	{host.Bitrise, "BITRISE_IO"},
	{host.GitLabCI, "GITLAB_CI"},
	{host.GitHubActions, "GITHUB_ACTIONS"},
	{host.AzurePipelines, "TF_BUILD"},
	{host.CircleCI, "CIRCLECI"},
}

// Env is the minimal environment-reading contract the detector needs.
type Env interface {
	Lookup(key string) (string, bool)
}

// OSEnv reads from the real process environment via os.LookupEnv.
type OSEnv struct{}

func (OSEnv) Lookup(key string) (string, bool) { return os.LookupEnv(key) }

// Detector implements ports.HostDetector by checking sentinel variables.
type Detector struct {
	env Env
}

// New constructs a Detector reading from env. Pass hostdetect.OSEnv{} in
// production; tests can substitute a map-backed Env.
func New(env Env) *Detector {
	return &Detector{env: env}
}

// Detect returns the first matching provider, or host.Local if none match.
func (d *Detector) Detect() host.Provider {
	for _, s := range sentinels {
		if _, ok := d.env.Lookup(s.variable); ok {
			return s.provider
		}
	}
	return host.Local
}
