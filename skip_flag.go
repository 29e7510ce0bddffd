package forge

import "strings"

// skipValue is a pflag.Value implementing the three-state skip flag the
// planner expects: absent (nil Skip), present-empty (skip every non-invoked
// target), present-with-names (skip only those). Cobra's NoOptDefVal
// mechanism lets "--skip" alone reach Set("") while "--skip=A,B" reaches
// Set("A,B"), which is exactly the distinction planner.Skip needs.
type skipValue struct {
	set   bool
	names []string
}

func (s *skipValue) String() string {
	if s == nil {
		return ""
	}
	return strings.Join(s.names, ",")
}

func (s *skipValue) Set(raw string) error {
	s.set = true
	if raw == "" {
		s.names = []string{}
		return nil
	}
	parts := strings.Split(raw, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			names = append(names, p)
		}
	}
	s.names = names
	return nil
}

func (s *skipValue) Type() string { return "skip" }
