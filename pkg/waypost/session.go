package waypost

import (
	"context"
	"sort"
	"strconv"

	"github.com/waypost/waypost/internal/diagnostics"
)

// DefaultBodyLimit is the byte limit applied to JSON and url-encoded bodies
// when Options.BodyParserSizeLimit is unset.
const DefaultBodyLimit int64 = 1 << 20

// Options configures one build session.
type Options struct {
	// UseClassNamesAsRoutes derives the prefix segment from the controller
	// type name instead of the containing file's name.
	UseClassNamesAsRoutes bool

	// AllMethodsRoutesAllByDefault gives handlers without declared verbs the
	// wildcard verb instead of "get".
	AllMethodsRoutesAllByDefault bool

	// AllMethodsRoutesHiddenByDefault suppresses handlers without declared
	// verbs entirely. Mutually exclusive with AllMethodsRoutesAllByDefault.
	AllMethodsRoutesHiddenByDefault bool

	// DisableBodyParser skips the JSON and url-encoded parsing middleware on
	// body-capable routes.
	DisableBodyParser bool

	// DisableFileUpload makes any declared upload limit a fatal build error.
	DisableFileUpload bool

	// BodyParserSizeLimit caps parsed JSON and url-encoded bodies, in bytes.
	BodyParserSizeLimit int64

	// LogRoutesToConsole prints every discovered (verb, path, file) triple,
	// sorted by (file, path, verb), before registration.
	LogRoutesToConsole bool
}

// Session owns all transient state of one route-table build: staged
// metadata, the upload-middleware cache, and the accumulated definitions.
// Everything is discarded when Build returns, so no startup-time state can
// leak into request-serving time or into a later rebuild.
type Session struct {
	opts        Options
	loader      ModuleLoader
	roots       []string
	store       *metadataStore
	uploadCache map[string]MiddlewareFunc
	defs        []RouteDefinition
	console     *diagnostics.Console
}

// NewSession prepares a build session over the given root directories.
func NewSession(loader ModuleLoader, opts Options, roots ...string) *Session {
	return &Session{
		opts:    opts,
		loader:  loader,
		roots:   roots,
		store:   newMetadataStore(),
		console: diagnostics.New(diagnostics.LevelInfo),
	}
}

// Annotate stages metadata for a handler registered as a bare function
// export, the counterpart of RouteSet.Handle for controllers:
//
//	session.Annotate(Health).Directive("get /healthz")
func (s *Session) Annotate(fn any) *RouteMeta {
	return s.store.stageMethod(fn)
}

// Build runs the full pipeline: scan the roots, resolve modules, walk
// entities into route definitions, reject conflicts, then register the table
// with the router. All errors are fatal; nothing is registered after a
// failure, and session state is discarded either way.
func (s *Session) Build(ctx context.Context, router Router) error {
	defer s.discard()

	if s.opts.AllMethodsRoutesAllByDefault && s.opts.AllMethodsRoutesHiddenByDefault {
		return buildErrorf(ErrCodeOptionConflict, "", "",
			"AllMethodsRoutesAllByDefault and AllMethodsRoutesHiddenByDefault are mutually exclusive")
	}

	if err := s.scanRoots(ctx); err != nil {
		return err
	}
	if err := DetectConflicts(s.defs); err != nil {
		return err
	}
	if s.opts.LogRoutesToConsole {
		s.logRoutes()
	}
	return registerRoutes(router, s.defs)
}

// Build is the one-call form of the pipeline for applications that do not
// need to annotate function exports.
func Build(ctx context.Context, router Router, loader ModuleLoader, opts Options, roots ...string) error {
	return NewSession(loader, opts, roots...).Build(ctx, router)
}

// bodyMiddleware selects the body-handling middleware for one handler. A
// declared upload limit demands a body-capable verb and enabled uploads, and
// resolves through the session's size-keyed multipart cache; otherwise
// body-capable routes get the JSON and url-encoded parser pair unless body
// parsing is disabled.
func (s *Session) bodyMiddleware(meta *RouteMeta, verbs VerbSet, source, handler string) ([]MiddlewareFunc, error) {
	var uploadLimit int64
	if meta != nil {
		uploadLimit = meta.uploadLimit
	}

	if uploadLimit > 0 {
		if !verbs.CanHandleBody {
			return nil, buildErrorf(ErrCodeUploadVerb, source, handler,
				"file upload requires a body-capable verb (one of all, delete, patch, post, put)")
		}
		if s.opts.DisableFileUpload {
			return nil, buildErrorf(ErrCodeUploadDisabled, source, handler,
				"file upload is disabled by configuration")
		}
		key := strconv.FormatInt(uploadLimit, 10)
		mw, ok := s.uploadCache[key]
		if !ok {
			if s.uploadCache == nil {
				s.uploadCache = make(map[string]MiddlewareFunc)
			}
			mw = MultipartParser(uploadLimit)
			s.uploadCache[key] = mw
		}
		return []MiddlewareFunc{mw}, nil
	}

	if verbs.CanHandleBody && !s.opts.DisableBodyParser {
		limit := s.opts.BodyParserSizeLimit
		if limit <= 0 {
			limit = DefaultBodyLimit
		}
		return []MiddlewareFunc{JSONParser(limit), FormParser(limit)}, nil
	}
	return nil, nil
}

// logRoutes prints the discovered table sorted by (file, path, verb).
func (s *Session) logRoutes() {
	sorted := make([]RouteDefinition, len(s.defs))
	copy(sorted, s.defs)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].SourcePath != sorted[j].SourcePath {
			return sorted[i].SourcePath < sorted[j].SourcePath
		}
		if sorted[i].Path != sorted[j].Path {
			return sorted[i].Path < sorted[j].Path
		}
		return sorted[i].Verb < sorted[j].Verb
	})

	s.console.Section("Discovered routes")
	for _, def := range sorted {
		s.console.Route(def.Verb, def.Path, def.SourcePath)
	}
}

// discard drops every piece of build-time state. The upload cache in
// particular must not survive into a later session, or stale capacity limits
// would leak into a reconfigured server.
func (s *Session) discard() {
	s.store.reset()
	s.uploadCache = nil
	s.defs = nil
}
