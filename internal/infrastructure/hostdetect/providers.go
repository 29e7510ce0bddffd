package hostdetect

import (
	"fmt"
	"strconv"

	"github.com/forgehq/forge/internal/domain/host"
	"github.com/forgehq/forge/internal/domain/target"
)

// View exposes one provider's documented environment variables as lazily
// read, typed accessors. A read is never silently defaulted: a missing or
// malformed variable surfaces as a *target.DomainError with
// ErrCodeInternal wrapping the conversion failure.
type View struct {
	provider host.Provider
	env      Env
}

// NewView constructs a View for provider, reading from env.
func NewView(provider host.Provider, env Env) *View {
	return &View{provider: provider, env: env}
}

// Provider reports which host classified this view.
func (v *View) Provider() host.Provider { return v.provider }

func (v *View) str(key string) (string, error) {
	val, ok := v.env.Lookup(key)
	if !ok {
		return "", v.missing(key)
	}
	return val, nil
}

func (v *View) boolean(key string) (bool, error) {
	val, ok := v.env.Lookup(key)
	if !ok {
		return false, v.missing(key)
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, v.malformed(key, val, err)
	}
	return b, nil
}

func (v *View) integer(key string) (int, error) {
	val, ok := v.env.Lookup(key)
	if !ok {
		return 0, v.missing(key)
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, v.malformed(key, val, err)
	}
	return n, nil
}

func (v *View) missing(key string) error {
	return &target.DomainError{
		Code:    target.ErrCodeInternal,
		Message: fmt.Sprintf("environment variable %s not set for provider %s", key, v.provider),
		Context: map[string]interface{}{"variable": key, "provider": string(v.provider)},
	}
}

func (v *View) malformed(key, raw string, cause error) error {
	return &target.DomainError{
		Code:    target.ErrCodeInternal,
		Message: fmt.Sprintf("environment variable %s has malformed value %q", key, raw),
		Cause:   cause,
		Context: map[string]interface{}{"variable": key, "provider": string(v.provider)},
	}
}

// BuildNumber returns the provider's CI build/run number.
func (v *View) BuildNumber() (int, error) {
	switch v.provider {
	case host.GitHubActions:
		return v.integer("GITHUB_RUN_NUMBER")
	case host.TeamCity:
		return v.integer("BUILD_NUMBER")
	case host.Travis:
		return v.integer("TRAVIS_BUILD_NUMBER")
	case host.CircleCI:
		return v.integer("CIRCLE_BUILD_NUM")
	case host.AppVeyor:
		return v.integer("APPVEYOR_BUILD_NUMBER")
	default:
		return 0, v.unsupported("BuildNumber")
	}
}

// Branch returns the provider's source branch name.
func (v *View) Branch() (string, error) {
	switch v.provider {
	case host.GitHubActions:
		return v.str("GITHUB_REF_NAME")
	case host.GitLabCI:
		return v.str("CI_COMMIT_REF_NAME")
	case host.Travis:
		return v.str("TRAVIS_BRANCH")
	case host.CircleCI:
		return v.str("CIRCLE_BRANCH")
	case host.AppVeyor:
		return v.str("APPVEYOR_REPO_BRANCH")
	case host.AzurePipelines:
		return v.str("BUILD_SOURCEBRANCHNAME")
	default:
		return "", v.unsupported("Branch")
	}
}

// CommitSHA returns the provider's current commit SHA.
func (v *View) CommitSHA() (string, error) {
	switch v.provider {
	case host.GitHubActions:
		return v.str("GITHUB_SHA")
	case host.GitLabCI:
		return v.str("CI_COMMIT_SHA")
	case host.Travis:
		return v.str("TRAVIS_COMMIT")
	case host.CircleCI:
		return v.str("CIRCLE_SHA1")
	case host.AppVeyor:
		return v.str("APPVEYOR_REPO_COMMIT")
	case host.AzurePipelines:
		return v.str("BUILD_SOURCEVERSION")
	default:
		return "", v.unsupported("CommitSHA")
	}
}

// IsPullRequest reports whether the current build was triggered by a pull
// (or merge) request.
func (v *View) IsPullRequest() (bool, error) {
	switch v.provider {
	case host.GitHubActions:
		name, err := v.str("GITHUB_EVENT_NAME")
		if err != nil {
			return false, err
		}
		return name == "pull_request", nil
	case host.GitLabCI:
		_, ok := v.env.Lookup("CI_MERGE_REQUEST_ID")
		return ok, nil
	case host.Travis:
		val, err := v.str("TRAVIS_PULL_REQUEST")
		if err != nil {
			return false, err
		}
		return val != "false", nil
	case host.CircleCI:
		_, ok := v.env.Lookup("CIRCLE_PULL_REQUEST")
		return ok, nil
	case host.AppVeyor:
		_, ok := v.env.Lookup("APPVEYOR_PULL_REQUEST_NUMBER")
		return ok, nil
	default:
		return false, v.unsupported("IsPullRequest")
	}
}

// RepositorySlug returns the provider's "owner/repo"-style identifier.
func (v *View) RepositorySlug() (string, error) {
	switch v.provider {
	case host.GitHubActions:
		return v.str("GITHUB_REPOSITORY")
	case host.GitLabCI:
		return v.str("CI_PROJECT_PATH")
	case host.Travis:
		return v.str("TRAVIS_REPO_SLUG")
	case host.CircleCI:
		return v.str("CIRCLE_PROJECT_REPONAME")
	case host.AppVeyor:
		return v.str("APPVEYOR_REPO_NAME")
	default:
		return "", v.unsupported("RepositorySlug")
	}
}

func (v *View) unsupported(accessor string) error {
	return &target.DomainError{
		Code:    target.ErrCodeInternal,
		Message: fmt.Sprintf("%s is not supported by provider %s", accessor, v.provider),
		Context: map[string]interface{}{"provider": string(v.provider), "accessor": accessor},
	}
}
