// Package planner computes the execution list for one build invocation:
// name resolution, Kahn's-algorithm ordering with strict-mode ambiguity
// detection, cycle detection, dependency-closure filtering, and skip
// application.
package planner

import (
	"fmt"
	"sort"
	"strings"

	"github.com/forgehq/forge/internal/domain/target"
)

// Skip models the planner's "skippedTargets" input. A nil Skip means no
// target is ever skipped. A non-nil Skip with an empty Names list is the
// sentinel meaning "skip every non-invoked target"; a non-empty Names list
// skips only the named non-invoked targets (case-insensitive).
type Skip struct {
	Names []string
}

// Options configures one planning run.
type Options struct {
	Invoked []string
	Skip    *Skip
	Strict  bool
}

// Plan resolves invoked target names against the build, computes a
// deterministic ordering, filters it to the dependency closure of the
// invoked targets, applies skips, and publishes the build's Invoked,
// Skipped and Executing name-lists.
func Plan(b *target.Build, opts Options) (target.ExecutionList, error) {
	invoked, err := resolveInvoked(b, opts.Invoked)
	if err != nil {
		return target.ExecutionList{}, err
	}

	order, err := topoOrder(b.Targets, opts.Strict)
	if err != nil {
		return target.ExecutionList{}, err
	}

	closure := dependencyClosure(invoked)
	filtered := make([]*target.Target, 0, len(closure))
	for _, t := range order {
		if _, ok := closure[t]; ok {
			filtered = append(filtered, t)
		}
	}

	skipped := applySkip(filtered, invoked, opts.Skip)

	b.Invoked = names(invoked)
	b.Skipped = skipped
	b.Executing = subtract(names(filtered), skipped)

	return target.ExecutionList{Targets: filtered}, nil
}

func resolveInvoked(b *target.Build, requested []string) ([]*target.Target, error) {
	if len(requested) == 0 {
		requested = []string{target.DefaultName}
	}

	resolved := make([]*target.Target, 0, len(requested))
	for _, name := range requested {
		t, ok := b.Find(name)
		if !ok {
			available := strings.Join(b.Names(), ", ")
			return nil, target.NewPlanningErrorWithCause(
				fmt.Sprintf("unknown target %q; available targets: %s", name, available),
				target.NewNotFoundError(name),
				map[string]interface{}{"target": name, "available": b.Names()},
			)
		}
		resolved = append(resolved, t)
	}
	return resolved, nil
}

// topoOrder runs Kahn's algorithm over the full target set: a target is
// ready once every target it depends on has already been placed. In strict
// mode, more than one simultaneously-ready target is an ambiguity error.
func topoOrder(targets []*target.Target, strict bool) ([]*target.Target, error) {
	indegree := make(map[*target.Target]int, len(targets))
	dependents := make(map[*target.Target][]*target.Target, len(targets))

	for _, t := range targets {
		indegree[t] = len(t.Dependencies)
		for _, dep := range t.Dependencies {
			dependents[dep] = append(dependents[dep], t)
		}
	}

	var ready []*target.Target
	for _, t := range targets {
		if indegree[t] == 0 {
			ready = append(ready, t)
		}
	}

	order := make([]*target.Target, 0, len(targets))
	for len(ready) > 0 {
		sort.Slice(ready, func(i, j int) bool { return ready[i].Name < ready[j].Name })

		if strict && len(ready) > 1 {
			ambiguous := names(ready)
			return nil, target.NewPlanningError(
				fmt.Sprintf("incomplete target definition order: %s are simultaneously ready; declare an explicit order between them", strings.Join(ambiguous, ", ")),
				map[string]interface{}{"ambiguous": ambiguous},
			)
		}

		next := ready[0]
		ready = ready[1:]
		order = append(order, next)

		for _, dependent := range dependents[next] {
			indegree[dependent]--
			if indegree[dependent] == 0 {
				ready = append(ready, dependent)
			}
		}
	}

	if len(order) != len(targets) {
		path := findCycle(targets)
		return nil, target.NewPlanningError(
			fmt.Sprintf("circular dependencies: %s", formatCycle(path)),
			map[string]interface{}{"cycle": path},
		)
	}

	return order, nil
}

// findCycle runs a white/gray/black DFS to extract one offending cycle path
// for the error message, once topoOrder has already determined a cycle
// exists.
func findCycle(targets []*target.Target) []string {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[*target.Target]int, len(targets))
	var path []string
	var found []string

	var visit func(t *target.Target) bool
	visit = func(t *target.Target) bool {
		color[t] = gray
		path = append(path, t.Name)

		for _, dep := range t.Dependencies {
			switch color[dep] {
			case white:
				if visit(dep) {
					return true
				}
			case gray:
				cycle := append([]string(nil), path...)
				cycle = append(cycle, dep.Name)
				found = cycle
				return true
			}
		}

		color[t] = black
		path = path[:len(path)-1]
		return false
	}

	for _, t := range targets {
		if color[t] == white {
			if visit(t) {
				return found
			}
		}
	}
	return nil
}

// dependencyClosure walks the dependency graph from the invoked targets and
// returns the set of targets reachable from them, inclusive.
func dependencyClosure(invoked []*target.Target) map[*target.Target]struct{} {
	closure := make(map[*target.Target]struct{})
	var visit func(t *target.Target)
	visit = func(t *target.Target) {
		if _, ok := closure[t]; ok {
			return
		}
		closure[t] = struct{}{}
		for _, dep := range t.Dependencies {
			visit(dep)
		}
	}
	for _, t := range invoked {
		visit(t)
	}
	return closure
}

// applySkip forces a permanently-false condition onto every skip candidate
// in the execution list and returns the names that were skipped.
func applySkip(filtered []*target.Target, invoked []*target.Target, skip *Skip) []string {
	if skip == nil {
		return nil
	}

	invokedSet := make(map[*target.Target]struct{}, len(invoked))
	for _, t := range invoked {
		invokedSet[t] = struct{}{}
	}

	explicit := len(skip.Names) > 0
	wanted := make(map[string]struct{}, len(skip.Names))
	for _, n := range skip.Names {
		wanted[strings.ToLower(n)] = struct{}{}
	}

	var skipped []string
	for _, t := range filtered {
		if _, isInvoked := invokedSet[t]; isInvoked {
			continue
		}
		if explicit {
			if _, ok := wanted[strings.ToLower(t.Name)]; !ok {
				continue
			}
		}
		t.Conditions = append(t.Conditions, func() bool { return false })
		skipped = append(skipped, t.Name)
	}
	return skipped
}

func names(targets []*target.Target) []string {
	out := make([]string, len(targets))
	for i, t := range targets {
		out[i] = t.Name
	}
	return out
}

func subtract(all []string, remove []string) []string {
	if len(remove) == 0 {
		return all
	}
	skip := make(map[string]struct{}, len(remove))
	for _, n := range remove {
		skip[strings.ToLower(n)] = struct{}{}
	}
	out := make([]string, 0, len(all))
	for _, n := range all {
		if _, ok := skip[strings.ToLower(n)]; ok {
			continue
		}
		out = append(out, n)
	}
	return out
}
