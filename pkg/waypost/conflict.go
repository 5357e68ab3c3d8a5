package waypost

import (
	"fmt"
	"sort"
)

// DetectConflicts verifies that no two definitions would match the same
// incoming request. Definitions are sorted by (path, verb) on a copy so that
// any overlap becomes adjacent: two entries conflict when they share a path
// and either share a verb or either one carries the wildcard. The first
// conflict found is fatal, naming both source files, the route, and the verb.
// The original accumulation order is left untouched for the registrar.
func DetectConflicts(defs []RouteDefinition) error {
	if len(defs) < 2 {
		return nil
	}

	sorted := make([]RouteDefinition, len(defs))
	copy(sorted, defs)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Path != sorted[j].Path {
			return sorted[i].Path < sorted[j].Path
		}
		return sorted[i].Verb < sorted[j].Verb
	})

	for i := 1; i < len(sorted); i++ {
		a, b := sorted[i-1], sorted[i]
		if a.Path != b.Path {
			continue
		}
		if a.Verb != b.Verb && a.Verb != VerbAll && b.Verb != VerbAll {
			continue
		}
		verb := a.Verb
		if verb == VerbAll {
			verb = b.Verb
		}
		return &BuildError{
			Code: ErrCodeRouteConflict,
			Message: fmt.Sprintf("route %s %s is defined in both %s and %s",
				verb, a.Path, a.SourcePath, b.SourcePath),
			SourcePath: b.SourcePath,
			Route:      a.Path,
			Verb:       verb,
		}
	}
	return nil
}
