package planner

import "strings"

// formatCycle renders a cycle path the way spec-facing error messages
// expect: "A -> B -> C -> A".
func formatCycle(path []string) string {
	return strings.Join(path, " -> ")
}
