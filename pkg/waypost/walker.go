package waypost

import (
	"path"
	"reflect"
	"strings"
)

var (
	contextType   = reflect.TypeOf((*Context)(nil)).Elem()
	errorType     = reflect.TypeOf((*error)(nil)).Elem()
	deferredType  = reflect.TypeOf((<-chan error)(nil))
	sentinelType  = reflect.PtrTo(reflect.TypeOf(Controller{}))
	reservedNames = map[string]struct{}{"ConfigureRoutes": {}}
)

// member is one routable candidate discovered on an entity.
type member struct {
	name string
	fn   reflect.Value // bound method value
	key  string        // metadata staging key, from the unbound method symbol
}

// entityMembers enumerates the exported methods of an instance in
// deterministic (alphabetical) order. Promoted methods of embedded types are
// included with their most-derived implementation; methods belonging to the
// Controller chain boundary and reserved configuration hooks are excluded.
func entityMembers(instance reflect.Value) []member {
	t := instance.Type()
	var members []member
	for i := 0; i < t.NumMethod(); i++ {
		m := t.Method(i)
		if _, ok := reservedNames[m.Name]; ok {
			continue
		}
		if _, ok := sentinelType.MethodByName(m.Name); ok {
			continue
		}
		// The staging key comes from the unbound method: bound method values
		// made through reflection all share one code pointer and cannot be
		// resolved to a symbol.
		members = append(members, member{
			name: m.Name,
			fn:   instance.Method(m.Index),
			key:  funcKey(m.Func),
		})
	}
	return members
}

// walkEntity turns one classified entity into route definitions, combining
// metadata consumption, verb resolution, path synthesis, and body-middleware
// selection for every routable member.
func (s *Session) walkEntity(ent entity, dirPrefix string) error {
	switch ent.kind {
	case functionEntity:
		fn := reflect.ValueOf(ent.fn)
		return s.walkMember(member{name: ent.fnName, fn: fn, key: funcKey(fn)}, dirPrefix, ent)
	case objectEntity:
		return s.walkObject(ent, dirPrefix)
	default:
		return buildErrorf(ErrCodeInternal, ent.source, "", "unknown entity kind %d", ent.kind)
	}
}

func (s *Session) walkObject(ent entity, dirPrefix string) error {
	if cfg, ok := ent.instance.Interface().(RouteConfigurer); ok {
		cfg.ConfigureRoutes(&RouteSet{store: s.store, owner: ent.instance.Elem().Type()})
	}

	classMeta := s.store.takeClass(ent.instance.Elem().Type())
	prefix := classPrefix(dirPrefix, classMeta, ent.typeName, fileBase(ent.source),
		s.opts.UseClassNamesAsRoutes)

	for _, m := range entityMembers(ent.instance) {
		if err := s.walkMember(m, prefix, ent); err != nil {
			return err
		}
	}
	return nil
}

// walkMember emits the route definitions for a single member: metadata is
// consumed (read-once), the handler shape is validated, verbs are
// canonicalized, the path is synthesized, and body middleware is selected.
// A wildcard verb collapses the emission to a single "all" route.
func (s *Session) walkMember(m member, prefix string, ent entity) error {
	meta := s.store.takeMethod(m.key)
	if meta != nil && meta.err != nil {
		return &BuildError{
			Code:       ErrCodeDirective,
			Message:    meta.err.Error(),
			SourcePath: ent.source,
			Handler:    m.name,
			Cause:      meta.err,
		}
	}
	if meta != nil && meta.hidden {
		return nil
	}

	if err := validateHandler(m.fn.Type(), ent.source, m.name); err != nil {
		return err
	}

	var requested []string
	if meta != nil {
		requested = meta.verbs
	}
	verbs, err := ResolveVerbs(requested, s.opts, ent.source, m.name)
	if err != nil {
		return err
	}
	if len(verbs.Verbs) == 0 {
		return nil
	}

	route := synthesizeRoute(prefix, meta, m.name)

	middleware, err := s.bodyMiddleware(meta, verbs, ent.source, m.name)
	if err != nil {
		return err
	}
	if meta != nil {
		middleware = append(middleware, meta.middleware...)
	}

	emit := func(verb string) {
		s.defs = append(s.defs, RouteDefinition{
			SourcePath:  ent.source,
			EntityName:  ent.typeName,
			HandlerName: m.name,
			Path:        route,
			Verb:        verb,
			Middleware:  middleware,
			Handler:     m.fn.Interface(),
		})
	}

	if verbs.Wildcard {
		emit(VerbAll)
		return nil
	}
	for _, verb := range verbs.Verbs {
		emit(verb)
	}
	return nil
}

// validateHandler enforces the accepted handler shapes:
//
//	func(waypost.Context) error
//	func(waypost.Context)
//	func(waypost.Context) <-chan error
//
// Anything else, in particular a signature with more than 3 parameters, is a
// fatal build error naming the handler and its source file.
func validateHandler(t reflect.Type, source, handler string) error {
	if t.Kind() != reflect.Func {
		return buildErrorf(ErrCodeHandlerShape, source, handler,
			"route member must be a function, got %s", t.Kind())
	}
	if t.NumIn() > 3 {
		return buildErrorf(ErrCodeHandlerShape, source, handler,
			"handler accepts %d parameters, at most 3 are allowed", t.NumIn())
	}
	if t.NumIn() != 1 || t.In(0) != contextType || t.IsVariadic() {
		return buildErrorf(ErrCodeHandlerShape, source, handler,
			"unsupported handler signature %s", t)
	}
	switch t.NumOut() {
	case 0:
		return nil
	case 1:
		if t.Out(0) == errorType || t.Out(0) == deferredType {
			return nil
		}
	}
	return buildErrorf(ErrCodeHandlerShape, source, handler,
		"unsupported handler signature %s", t)
}

// fileBase strips the directory and extension from a discovered file path:
// "routes/api/sales/order.go" -> "order".
func fileBase(source string) string {
	base := path.Base(source)
	return strings.TrimSuffix(base, path.Ext(base))
}
