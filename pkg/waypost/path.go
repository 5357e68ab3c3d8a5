package waypost

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// indexName is the member and file name that folds away: it contributes no
// path segment at either the class or the method level.
const indexName = "index"

// classPrefix computes the routing prefix for one entity.
//
// An explicit prefix override wins unconditionally: it is forced to start and
// end with "/" (an empty override collapses to "/"), and the directory prefix
// is ignored. Otherwise the prefix is the directory-derived prefix extended
// with the entity's display name: the staged name override, the entity's own
// type name when class names are enabled, or the base name of the file it was
// loaded from. A display name equal to "index" (case-insensitively)
// contributes nothing.
func classPrefix(dirPrefix string, meta ClassMetadata, typeName, fileBase string, useClassNames bool) string {
	if meta.Prefix != nil {
		p := ensureLeadingSlash(*meta.Prefix)
		return ensureTrailingSlash(p)
	}

	name := meta.Name
	if name == "" && useClassNames {
		name = decapitalize(typeName)
	}
	if name == "" {
		name = fileBase
	}
	if strings.EqualFold(name, indexName) {
		return dirPrefix
	}
	return dirPrefix + name + "/"
}

// synthesizeRoute computes the final route path for one handler. A full-path
// override on the handler ignores the class prefix entirely; otherwise the
// handler's name (override, or its symbol name) is appended to the prefix,
// with "index" folding to the prefix itself. The result never ends with "/"
// unless it is exactly "/".
func synthesizeRoute(prefix string, meta *RouteMeta, memberName string) string {
	var route string
	if meta != nil && meta.path != "" {
		route = ensureLeadingSlash(meta.path)
	} else {
		name := memberName
		if meta != nil && meta.name != "" {
			name = meta.name
		} else {
			name = decapitalize(name)
		}
		name = strings.TrimPrefix(name, "/")
		if strings.EqualFold(name, indexName) {
			name = ""
		}
		if name != "" {
			route = prefix + name
		} else {
			route = prefix
		}
	}

	if route != "/" {
		route = strings.TrimSuffix(route, "/")
	}
	return route
}

// Synthesize computes the route path a handler would receive, combining the
// prefix and route rules. The build pipeline calls the underlying rules
// directly; this entry point exists for offline tooling that predicts routes
// without loading any module.
func Synthesize(dirPrefix string, class ClassMetadata, typeName, fileBase string, useClassNames bool, meta *RouteMeta, memberName string) string {
	prefix := classPrefix(dirPrefix, class, typeName, fileBase, useClassNames)
	return synthesizeRoute(prefix, meta, memberName)
}

func ensureLeadingSlash(s string) string {
	if !strings.HasPrefix(s, "/") {
		return "/" + s
	}
	return s
}

func ensureTrailingSlash(s string) string {
	if !strings.HasSuffix(s, "/") {
		return s + "/"
	}
	return s
}

// decapitalize lowers the first rune of an exported Go identifier so that
// derived route segments read like path segments rather than type names.
// Explicit name and path overrides are never transformed.
func decapitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || !unicode.IsUpper(r) {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

// PathPartType represents the type of path part
type PathPartType int

const (
	StaticPart PathPartType = iota
	ParameterPart
	WildcardPart
)

// PathPart represents a single part of a route path
type PathPart struct {
	Type      PathPartType
	Value     string // for static parts the literal text, for parameters the parameter name
	ParamType string // for parameters the declared type, empty when untyped
}

// RoutePath is a route path with optional {name:type} parameter placeholders.
// Adapters translate the placeholders into their framework's native syntax.
type RoutePath string

// Raw returns the original path string
func (p RoutePath) Raw() string {
	return string(p)
}

// Parts parses the path and returns the individual parts
func (p RoutePath) Parts() []PathPart {
	path := string(p)
	var parts []PathPart

	i := 0
	for i < len(path) {
		if path[i] == '{' {
			j := i + 1
			for j < len(path) && path[j] != '}' {
				j++
			}
			if j < len(path) {
				content := path[i+1 : j]
				if content == "*" {
					parts = append(parts, PathPart{Type: WildcardPart, Value: "*"})
				} else {
					name, ptype := content, ""
					if colon := strings.Index(content, ":"); colon != -1 {
						name = content[:colon]
						ptype = content[colon+1:]
					}
					parts = append(parts, PathPart{Type: ParameterPart, Value: name, ParamType: ptype})
				}
				i = j + 1
			} else {
				// Malformed, treat as static
				parts = append(parts, PathPart{Type: StaticPart, Value: string(path[i])})
				i++
			}
		} else {
			start := i
			for i < len(path) && path[i] != '{' {
				i++
			}
			parts = append(parts, PathPart{Type: StaticPart, Value: path[start:i]})
		}
	}

	return parts
}
