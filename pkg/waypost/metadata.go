package waypost

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
)

// ClassMetadata stages entity-level routing facts: an optional full prefix
// override and an optional display name. At most one ClassMetadata exists per
// entity and it is cleared as soon as the walker reads it.
type ClassMetadata struct {
	// Prefix, when non-nil, replaces the derived prefix verbatim. An empty
	// string collapses to "/".
	Prefix *string

	// Name replaces the display name the prefix would otherwise be derived
	// from.
	Name string
}

// RouteMeta stages routing facts for one handler: requested verbs, path or
// name overrides, visibility, per-route middleware, and an optional multipart
// upload limit. Instances are created through RouteSet.Handle or
// Session.Annotate and consumed exactly once during the walk.
type RouteMeta struct {
	path        string
	name        string
	verbs       []string
	hidden      bool
	middleware  []MiddlewareFunc
	uploadLimit int64
	err         error // deferred directive parse failure, surfaced at build time
}

// Verbs declares the HTTP verbs the handler serves.
func (m *RouteMeta) Verbs(verbs ...string) *RouteMeta {
	m.verbs = append(m.verbs, verbs...)
	return m
}

// Path sets a full route path override. The class prefix is ignored for
// handlers carrying one.
func (m *RouteMeta) Path(path string) *RouteMeta {
	m.path = path
	return m
}

// Name overrides the route segment derived from the handler's symbol name.
func (m *RouteMeta) Name(name string) *RouteMeta {
	m.name = name
	return m
}

// Hidden excludes the handler from the route table.
func (m *RouteMeta) Hidden() *RouteMeta {
	m.hidden = true
	return m
}

// Use appends middleware that runs after any body-parsing middleware.
func (m *RouteMeta) Use(middleware ...MiddlewareFunc) *RouteMeta {
	m.middleware = append(m.middleware, middleware...)
	return m
}

// Upload declares the handler as a multipart upload target with the given
// byte limit. Upload handlers must serve at least one body-capable verb.
func (m *RouteMeta) Upload(limit int64) *RouteMeta {
	m.uploadLimit = limit
	return m
}

// Directive applies a compact one-line route directive, e.g.
//
//	"get, post /orders/{id:int} upload=8MB"
//
// A malformed directive is remembered and fails the build when the handler
// is walked, so staging itself never panics.
func (m *RouteMeta) Directive(directive string) *RouteMeta {
	if err := applyDirective(m, directive); err != nil && m.err == nil {
		m.err = err
	}
	return m
}

// NewRouteMeta creates detached route metadata. The build pipeline stages
// metadata through RouteSet.Handle or Session.Annotate instead; a detached
// value is only useful for offline tooling and tests.
func NewRouteMeta() *RouteMeta {
	return &RouteMeta{}
}

// RequestedVerbs returns the staged verb list before canonicalization.
func (m *RouteMeta) RequestedVerbs() []string { return m.verbs }

// IsHidden reports whether the handler was excluded from the route table.
func (m *RouteMeta) IsHidden() bool { return m.hidden }

// UploadLimit returns the staged multipart byte limit, zero when unset.
func (m *RouteMeta) UploadLimit() int64 { return m.uploadLimit }

// Err returns a deferred directive parse failure, if any.
func (m *RouteMeta) Err() error { return m.err }

// metadataStore is the per-session staging area for routing metadata. Method
// metadata is keyed by the handler's normalized symbol name: a method value
// like c.Create and the same method enumerated through reflection resolve to
// different code pointers (every reflect-made method value shares one trampoline),
// so the symbol is the only identity both representations agree on. Class
// metadata is keyed by the entity's concrete type. All reads are destructive.
type metadataStore struct {
	methods map[string]*RouteMeta
	classes map[reflect.Type]*ClassMetadata
}

func newMetadataStore() *metadataStore {
	return &metadataStore{
		methods: make(map[string]*RouteMeta),
		classes: make(map[reflect.Type]*ClassMetadata),
	}
}

// stageMethod returns the metadata staged for fn, creating it when absent.
// fn must be a func value.
func (s *metadataStore) stageMethod(fn any) *RouteMeta {
	key := funcKey(reflect.ValueOf(fn))
	meta, ok := s.methods[key]
	if !ok {
		meta = &RouteMeta{}
		s.methods[key] = meta
	}
	return meta
}

// takeMethod returns and clears the metadata staged under a handler key.
func (s *metadataStore) takeMethod(key string) *RouteMeta {
	meta, ok := s.methods[key]
	if !ok {
		return nil
	}
	delete(s.methods, key)
	return meta
}

// stageClass returns the metadata staged for an entity type, creating it
// when absent.
func (s *metadataStore) stageClass(t reflect.Type) *ClassMetadata {
	meta, ok := s.classes[t]
	if !ok {
		meta = &ClassMetadata{}
		s.classes[t] = meta
	}
	return meta
}

// takeClass returns and clears the metadata staged for an entity type.
func (s *metadataStore) takeClass(t reflect.Type) ClassMetadata {
	meta, ok := s.classes[t]
	if !ok {
		return ClassMetadata{}
	}
	delete(s.classes, t)
	return *meta
}

// reset discards all staged state.
func (s *metadataStore) reset() {
	s.methods = make(map[string]*RouteMeta)
	s.classes = make(map[reflect.Type]*ClassMetadata)
}

// funcKey derives the staging key for a func value. A compiler method value
// carries a "-fm" wrapper suffix and a value-receiver method resolves without
// the "(*T)" parentheses of its reflect counterpart; both are normalized away
// so every representation of one method yields one key. Bare functions keep
// their plain symbol name.
func funcKey(v reflect.Value) string {
	if v.Kind() != reflect.Func {
		panic(fmt.Sprintf("waypost: metadata target must be a func, got %s", v.Kind()))
	}
	fn := runtime.FuncForPC(v.Pointer())
	if fn == nil {
		return fmt.Sprintf("pc:%x", v.Pointer())
	}
	name := strings.TrimSuffix(fn.Name(), "-fm")
	name = strings.ReplaceAll(name, "(*", "")
	return strings.ReplaceAll(name, ")", "")
}

// RouteSet is the staging API handed to a controller's ConfigureRoutes. It
// writes into the session's metadata store; nothing it stages survives the
// build.
type RouteSet struct {
	store *metadataStore
	owner reflect.Type
}

// Prefix sets the entity's full prefix override.
func (r *RouteSet) Prefix(prefix string) *RouteSet {
	r.store.stageClass(r.owner).Prefix = &prefix
	return r
}

// Name sets the entity's display name.
func (r *RouteSet) Name(name string) *RouteSet {
	r.store.stageClass(r.owner).Name = name
	return r
}

// Handle stages metadata for one of the controller's bound methods:
//
//	r.Handle(c.Create).Verbs("post", "put").Upload(8 << 20)
func (r *RouteSet) Handle(fn any) *RouteMeta {
	return r.store.stageMethod(fn)
}
