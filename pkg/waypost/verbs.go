package waypost

import (
	"sort"
	"strings"
)

// VerbAll is the wildcard verb. A route registered with it matches every
// incoming verb for its path, and subsumes any other verb listed alongside it.
const VerbAll = "all"

// allowedVerbs is the closed set of verbs a route may request.
var allowedVerbs = map[string]struct{}{
	VerbAll:   {},
	"get":     {},
	"post":    {},
	"put":     {},
	"delete":  {},
	"patch":   {},
	"options": {},
	"head":    {},
}

// bodyVerbs are the verbs whose requests may carry a payload that needs
// parsing middleware.
var bodyVerbs = map[string]struct{}{
	VerbAll:  {},
	"delete": {},
	"patch":  {},
	"post":   {},
	"put":    {},
}

// VerbSet is the canonical form of the verbs one handler was declared with.
type VerbSet struct {
	// Verbs is sorted and deduplicated. An empty set means the handler
	// produces no routes.
	Verbs []string

	// CanHandleBody reports whether any listed verb may carry a request
	// body. The wildcard always can.
	CanHandleBody bool

	// Wildcard reports whether the set contains "all".
	Wildcard bool
}

// ResolveVerbs canonicalizes a requested verb list. An empty list falls back
// to the session defaults: hidden-by-default suppresses the handler entirely,
// all-by-default yields the wildcard, and otherwise the handler serves "get".
// A verb outside the allowed set is a fatal build error naming the handler
// and its source file.
func ResolveVerbs(requested []string, opts Options, source, handler string) (VerbSet, error) {
	if len(requested) == 0 {
		switch {
		case opts.AllMethodsRoutesHiddenByDefault:
			return VerbSet{}, nil
		case opts.AllMethodsRoutesAllByDefault:
			requested = []string{VerbAll}
		default:
			requested = []string{"get"}
		}
	}

	verbs := make([]string, len(requested))
	for i, v := range requested {
		verbs[i] = strings.ToLower(strings.TrimSpace(v))
	}
	sort.Strings(verbs)

	set := VerbSet{Verbs: verbs[:0]}
	prev := ""
	for _, v := range verbs {
		if v == prev {
			continue
		}
		if _, ok := allowedVerbs[v]; !ok {
			return VerbSet{}, buildErrorf(ErrCodeInvalidVerb, source, handler,
				"invalid HTTP verb %q", v)
		}
		set.Verbs = append(set.Verbs, v)
		if _, ok := bodyVerbs[v]; ok {
			set.CanHandleBody = true
		}
		if v == VerbAll {
			set.Wildcard = true
		}
		prev = v
	}
	return set, nil
}
