package target

// ExecutionList is the planner's deterministic, totally-ordered subset of a
// build's targets to visit for one run. It is a borrowed view: targets
// remain owned by the Build, and the list lives only for the duration of
// one run.
type ExecutionList struct {
	Targets []*Target
}

// Validate ensures the list is internally coherent: no duplicate entries,
// and every dependency of a listed target appears, and appears before its
// dependent (dependency closure, in order).
func (l ExecutionList) Validate() error {
	position := make(map[*Target]int, len(l.Targets))
	for i, t := range l.Targets {
		if _, ok := position[t]; ok {
			return newDependencyError("target appears more than once in execution list", map[string]interface{}{"target": t.Name})
		}
		position[t] = i
	}

	for i, t := range l.Targets {
		for _, dep := range t.Dependencies {
			depPos, ok := position[dep]
			if !ok {
				return newDependencyError("execution list missing dependency", map[string]interface{}{
					"target":     t.Name,
					"dependency": dep.Name,
				})
			}
			if depPos > i {
				return newDependencyError("dependency scheduled after dependent", map[string]interface{}{
					"target":     t.Name,
					"dependency": dep.Name,
				})
			}
		}
	}
	return nil
}

// Names returns the ordered target names, useful for assertions and the
// --graph/--help renderers.
func (l ExecutionList) Names() []string {
	names := make([]string, len(l.Targets))
	for i, t := range l.Targets {
		names[i] = t.Name
	}
	return names
}
