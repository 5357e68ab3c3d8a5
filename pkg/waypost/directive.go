package waypost

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Route directives are a compact one-line alternative to the fluent RouteMeta
// setters:
//
//	"get, post /orders/{id:int}"
//	"post /upload upload=8MB"
//	"get name=index"
//	"hidden"
//
// The grammar is: an optional comma-separated verb list, an optional path
// (anything starting with "/"), then options. Options are either the bare
// "hidden" flag or key=value pairs ("name", "upload"). Upload values accept
// a size suffix (B, KB, MB, GB); a bare number is bytes.

type directiveAST struct {
	Verbs   []string          `parser:"(@Ident (',' @Ident)*)?"`
	Path    string            `parser:"@Path?"`
	Options []directiveOption `parser:"@@*"`
}

type directiveOption struct {
	Key   string `parser:"@Ident"`
	Value string `parser:"('=' @(Size | Ident | Path | String))?"`
}

var directiveLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Path", Pattern: `/[^\s]*`},
	{Name: "Size", Pattern: `[0-9]+([KMGkmg][Bb]|[Bb])?`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "String", Pattern: `"(\\"|[^"])*"`},
	{Name: "Punct", Pattern: `[,=]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var directiveParser = participle.MustBuild[directiveAST](
	participle.Lexer(directiveLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

// applyDirective parses a directive string and merges it into meta.
func applyDirective(meta *RouteMeta, directive string) error {
	ast, err := directiveParser.ParseString("", directive)
	if err != nil {
		return fmt.Errorf("malformed route directive %q: %w", directive, err)
	}

	verbs := ast.Verbs
	options := ast.Options

	// A lone "hidden" (or any single bare option) lexes as a verb; verbs are
	// only verbs when a path or a recognized verb token is present.
	if len(verbs) == 1 && ast.Path == "" && !isVerbToken(verbs[0]) {
		options = append([]directiveOption{{Key: verbs[0]}}, options...)
		verbs = nil
	}

	meta.verbs = append(meta.verbs, verbs...)
	if ast.Path != "" {
		meta.path = ast.Path
	}

	for _, opt := range options {
		switch strings.ToLower(opt.Key) {
		case "hidden":
			if opt.Value != "" {
				return fmt.Errorf("route directive %q: hidden takes no value", directive)
			}
			meta.hidden = true
		case "name":
			if opt.Value == "" {
				return fmt.Errorf("route directive %q: name requires a value", directive)
			}
			meta.name = unquote(opt.Value)
		case "upload":
			limit, err := parseByteSize(opt.Value)
			if err != nil {
				return fmt.Errorf("route directive %q: %w", directive, err)
			}
			meta.uploadLimit = limit
		default:
			return fmt.Errorf("route directive %q: unknown option %q", directive, opt.Key)
		}
	}
	return nil
}

func isVerbToken(s string) bool {
	_, ok := allowedVerbs[strings.ToLower(s)]
	return ok
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		if u, err := strconv.Unquote(s); err == nil {
			return u
		}
	}
	return s
}

// parseByteSize parses "8MB", "512kb", "1024B", or a bare byte count.
func parseByteSize(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("upload requires a size value")
	}
	upper := strings.ToUpper(s)
	multiplier := int64(1)
	switch {
	case strings.HasSuffix(upper, "GB"):
		multiplier = 1 << 30
		upper = strings.TrimSuffix(upper, "GB")
	case strings.HasSuffix(upper, "MB"):
		multiplier = 1 << 20
		upper = strings.TrimSuffix(upper, "MB")
	case strings.HasSuffix(upper, "KB"):
		multiplier = 1 << 10
		upper = strings.TrimSuffix(upper, "KB")
	case strings.HasSuffix(upper, "B"):
		upper = strings.TrimSuffix(upper, "B")
	}
	n, err := strconv.ParseInt(upper, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid upload size %q", s)
	}
	if n <= 0 {
		return 0, fmt.Errorf("upload size must be positive, got %q", s)
	}
	return n * multiplier, nil
}
