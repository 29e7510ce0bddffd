package target

// Build is the aggregate owning a build's full target set and the
// user-supplied parameters that flow into requirements and actions. It is
// constructed once per process invocation; its targets are immutable after
// construction except for the three derived name-lists below and each
// target's Status/Duration, which only the executor mutates.
type Build struct {
	Name    string
	Targets []*Target

	// Params is a parameter map initialised empty by NewBuild. The CLI
	// (forge.Execute) binds parameter values into the separate map it hands
	// to each target's Register closures, not into this field.
	Params map[string]interface{}

	// Invoked, Skipped and Executing are populated by the planner (see
	// application/planner) once per run. The CLI's run reads Skipped back to
	// exclude skipped targets from requirement validation.
	Invoked   []string
	Skipped   []string
	Executing []string
}

// NewBuild constructs an empty build ready for target registration.
func NewBuild(name string) *Build {
	return &Build{
		Name:   name,
		Params: make(map[string]interface{}),
	}
}

// Register appends a fully-built target to the build. Registration order is
// preserved in Targets and Names; the planner breaks ordering ties by
// target name, not by registration order.
func (b *Build) Register(t *Target) {
	b.Targets = append(b.Targets, t)
}

// Validate ensures the build satisfies its invariants: no two targets share
// a case-insensitive name, no target uses the reserved default name, at
// most one target is marked default, and the dependency graph is acyclic.
func (b *Build) Validate() error {
	seen := make(map[string]*Target, len(b.Targets))
	var defaultCount int

	for _, t := range b.Targets {
		if err := t.Validate(); err != nil {
			return err
		}
		key := foldKey(t.Name)
		if existing, ok := seen[key]; ok {
			return newDuplicateError(existing.Name + "/" + t.Name)
		}
		seen[key] = t
		if t.IsDefault {
			defaultCount++
		}
	}

	if defaultCount > 1 {
		return NewConfigurationError("at most one target may be marked default", nil)
	}

	return b.validateAcyclic()
}

// DefaultTarget returns the target marked default, if any.
func (b *Build) DefaultTarget() *Target {
	for _, t := range b.Targets {
		if t.IsDefault {
			return t
		}
	}
	return nil
}

// Find resolves a target by case-insensitive name. The reserved name
// resolves to the build's default target.
func (b *Build) Find(name string) (*Target, bool) {
	if equalFoldName(name, DefaultName) {
		if def := b.DefaultTarget(); def != nil {
			return def, true
		}
		return nil, false
	}
	for _, t := range b.Targets {
		if equalFoldName(t.Name, name) {
			return t, true
		}
	}
	return nil, false
}

// Names returns the declared target names in registration order.
func (b *Build) Names() []string {
	names := make([]string, len(b.Targets))
	for i, t := range b.Targets {
		names[i] = t.Name
	}
	return names
}

func (b *Build) validateAcyclic() error {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[*Target]int, len(b.Targets))
	var path []string

	var visit func(t *Target) *DomainError
	visit = func(t *Target) *DomainError {
		color[t] = gray
		path = append(path, t.Name)

		for _, dep := range t.Dependencies {
			switch color[dep] {
			case white:
				if err := visit(dep); err != nil {
					return err
				}
			case gray:
				cycle := append([]string(nil), path...)
				cycle = append(cycle, dep.Name)
				return newCycleError(cycle)
			}
		}

		color[t] = black
		path = path[:len(path)-1]
		return nil
	}

	for _, t := range b.Targets {
		if color[t] == white {
			if err := visit(t); err != nil {
				return err
			}
		}
	}
	return nil
}

func foldKey(name string) string {
	buf := make([]byte, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		buf[i] = c
	}
	return string(buf)
}
