// Package host defines the Host Classification data model: the closed set
// of CI providers the engine recognizes, and the typed-accessor contract
// each provider's environment view exposes. Classification itself (reading
// process environment variables) lives in infrastructure/hostdetect; this
// package only names the vocabulary both layers share.
package host

// Provider enumerates the closed set of recognized CI hosts. Local means no
// provider's sentinel variable was present.
type Provider string

const (
	Local          Provider = "local"
	Travis         Provider = "travis"
	AppVeyor       Provider = "appveyor"
	TeamCity       Provider = "teamcity"
	Jenkins        Provider = "jenkins"
	Bamboo         Provider = "bamboo"
	Bitrise        Provider = "bitrise"
	GitLabCI       Provider = "gitlab"
	GitHubActions  Provider = "github_actions"
	AzurePipelines Provider = "azure_pipelines"
	CircleCI       Provider = "circleci"
)

// String renders the provider name for logs and error messages.
func (p Provider) String() string {
	if p == "" {
		return string(Local)
	}
	return string(p)
}

// IsLocal reports whether no CI provider claimed the process.
func (p Provider) IsLocal() bool {
	return p == "" || p == Local
}
