package sink

import (
	"fmt"

	"github.com/forgehq/forge/internal/domain/host"
	"github.com/forgehq/forge/internal/domain/target"
	"github.com/forgehq/forge/internal/ports"
)

// decorator wraps a *Console with provider-specific marker bytes bracketing
// writes and blocks. Serialization semantics are unchanged: every
// decorator delegates its actual write to the wrapped Console, which still
// owns the one mutex.
type decorator struct {
	console  *Console
	provider host.Provider
}

// New selects the Sink implementation for provider, wrapping console. Local
// returns console itself unwrapped.
func New(console *Console, provider host.Provider) ports.Sink {
	if provider.IsLocal() {
		return console
	}
	return &decorator{console: console, provider: provider}
}

func (d *decorator) Write(text string) { d.console.Write(text) }
func (d *decorator) Trace(text string) { d.console.Trace(text) }
func (d *decorator) Info(text string)  { d.console.Info(text) }

func (d *decorator) Warn(text string, details ...string) {
	switch d.provider {
	case host.GitHubActions:
		d.console.Write(fmt.Sprintf("::warning::%s", withDetails(text, details)))
	default:
		d.console.Warn(text, details...)
	}
}

func (d *decorator) Error(text string, details ...string) {
	switch d.provider {
	case host.GitHubActions:
		d.console.Write(fmt.Sprintf("::error::%s", withDetails(text, details)))
	default:
		d.console.Error(text, details...)
	}
}

func (d *decorator) Success(text string) { d.console.Success(text) }

// BeginBlock brackets the Console's own block header with the provider's
// folding directive. Cosmetic detail (colors, banners) is explicitly out of
// scope; only the marker bytes that bracket a block are implemented.
func (d *decorator) BeginBlock(name string) ports.BlockHandle {
	switch d.provider {
	case host.GitHubActions:
		d.console.Write(fmt.Sprintf("::group::%s", name))
	case host.TeamCity:
		d.console.Write(fmt.Sprintf("##teamcity[blockOpened name='%s']", teamcityEscape(name)))
	case host.GitLabCI:
		d.console.Write(fmt.Sprintf("section_start:0:%s\r\033[0K%s", sectionID(name), name))
	}
	inner := d.console.BeginBlock(name)
	return &decoratedBlock{decorator: d, inner: inner, name: name}
}

func (d *decorator) WriteSummary(targets []*target.Target) { d.console.WriteSummary(targets) }

type decoratedBlock struct {
	decorator *decorator
	inner     ports.BlockHandle
	name      string
}

func (b *decoratedBlock) Close() {
	b.inner.Close()
	switch b.decorator.provider {
	case host.GitHubActions:
		b.decorator.console.Write("::endgroup::")
	case host.TeamCity:
		b.decorator.console.Write(fmt.Sprintf("##teamcity[blockClosed name='%s']", teamcityEscape(b.name)))
	case host.GitLabCI:
		b.decorator.console.Write(fmt.Sprintf("section_end:0:%s", sectionID(b.name)))
	}
}

// teamcityEscape applies the service-message escaping TeamCity requires for
// string attribute values.
func teamcityEscape(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch r {
		case '\'':
			out = append(out, '|', '\'')
		case '|':
			out = append(out, '|', '|')
		case '\n':
			out = append(out, '|', 'n')
		case '\r':
			out = append(out, '|', 'r')
		case '[':
			out = append(out, '|', '[')
		case ']':
			out = append(out, '|', ']')
		default:
			out = append(out, r)
		}
	}
	return string(out)
}

// sectionID derives a stable GitLab section identifier from a block name.
func sectionID(name string) string {
	h := 0
	for _, r := range name {
		h = h*31 + int(r)
	}
	if h < 0 {
		h = -h
	}
	return fmt.Sprintf("%x", h)
}

var _ ports.Sink = (*decorator)(nil)
