package waypost

import (
	"reflect"
	"runtime"
	"strings"
)

// Export is one named value inside a Namespace.
type Export struct {
	Name  string
	Value any
}

// Namespace is an ordered bag of named exports. A loader returns one when a
// file contributes more than a single entity; exports are resolved in the
// order they were declared.
type Namespace []Export

// NS builds a Namespace from alternating name/value pairs, purely for
// registration ergonomics.
func NS(pairs ...any) Namespace {
	if len(pairs)%2 != 0 {
		panic("waypost: NS requires name/value pairs")
	}
	ns := make(Namespace, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		name, ok := pairs[i].(string)
		if !ok {
			panic("waypost: NS names must be strings")
		}
		ns = append(ns, Export{Name: name, Value: pairs[i+1]})
	}
	return ns
}

type entityKind int

const (
	objectEntity entityKind = iota
	functionEntity
)

// entity is one route-bearing unit produced by module classification. It
// carries exactly what the walker needs: a display-name basis, the source
// file, and either an instance to enumerate members on or a single callable.
type entity struct {
	kind     entityKind
	typeName string
	source   string
	instance reflect.Value // objectEntity: pointer to the concrete struct
	fn       any           // functionEntity: the callable
	fnName   string        // functionEntity: member name basis
}

// resolveModule classifies a loaded module value into entities. The accepted
// shapes form a closed set: a Namespace of exports, a constructor
// (func() T), a struct or pointer-to-struct instance, or a bare handler
// function. Anything else is a fatal build error naming the file.
func resolveModule(value any, source string) ([]entity, error) {
	if ns, ok := value.(Namespace); ok {
		var entities []entity
		for _, export := range ns {
			if _, nested := export.Value.(Namespace); nested {
				return nil, buildErrorf(ErrCodeUnsupportedExport, source, export.Name,
					"nested namespaces are not supported")
			}
			ents, err := classifyExport(export.Name, export.Value, source)
			if err != nil {
				return nil, err
			}
			entities = append(entities, ents...)
		}
		return entities, nil
	}
	return classifyExport("", value, source)
}

// classifyExport maps one exported value to entities. Constructors are
// invoked once so that instance members become discoverable; the constructor
// itself carries no members of its own.
func classifyExport(name string, value any, source string) ([]entity, error) {
	if value == nil {
		return nil, buildErrorf(ErrCodeUnsupportedExport, source, name,
			"module exported nil")
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Func:
		t := rv.Type()
		// A niladic func returning an error value is neither a handler nor a
		// controller factory; invoking it as a constructor would walk the
		// error's own methods.
		if t.NumIn() == 0 && t.NumOut() == 1 && !t.IsVariadic() && t.Out(0).Implements(errorType) {
			return nil, buildErrorf(ErrCodeUnsupportedExport, source, name,
				"a func() %s export is neither a handler nor a constructor", t.Out(0))
		}
		if isConstructor(t) {
			out := rv.Call(nil)[0]
			if !out.IsValid() || (out.Kind() == reflect.Interface || out.Kind() == reflect.Ptr) && out.IsNil() {
				return nil, buildErrorf(ErrCodeUnsupportedExport, source, name,
					"constructor returned nil")
			}
			instance := out.Interface()
			ents, err := classifyExport(name, instance, source)
			if err != nil {
				return nil, err
			}
			for _, e := range ents {
				if e.kind != objectEntity {
					return nil, buildErrorf(ErrCodeUnsupportedExport, source, name,
						"constructor must return a controller instance")
				}
			}
			return ents, nil
		}
		fnName := name
		if fnName == "" {
			fnName = funcSymbolName(rv)
		}
		return []entity{{kind: functionEntity, source: source, fn: value, fnName: fnName}}, nil

	case reflect.Ptr:
		if rv.Elem().Kind() != reflect.Struct {
			return nil, buildErrorf(ErrCodeUnsupportedExport, source, name,
				"unsupported export shape %T", value)
		}
		return []entity{{
			kind:     objectEntity,
			typeName: rv.Elem().Type().Name(),
			source:   source,
			instance: rv,
		}}, nil

	case reflect.Struct:
		// Copy into a fresh pointer so pointer-receiver methods are part of
		// the member set.
		ptr := reflect.New(rv.Type())
		ptr.Elem().Set(rv)
		return []entity{{
			kind:     objectEntity,
			typeName: rv.Type().Name(),
			source:   source,
			instance: ptr,
		}}, nil

	default:
		return nil, buildErrorf(ErrCodeUnsupportedExport, source, name,
			"unsupported export shape %T", value)
	}
}

// isConstructor reports whether t is a niladic single-result factory.
func isConstructor(t reflect.Type) bool {
	if t.NumIn() != 0 || t.NumOut() != 1 || t.IsVariadic() {
		return false
	}
	switch t.Out(0).Kind() {
	case reflect.Ptr, reflect.Struct, reflect.Interface:
		return true
	}
	return false
}

// funcSymbolName extracts the bare symbol name of a function value, e.g.
// "github.com/acme/app/routes.Health" -> "Health". Method values carry a
// "-fm" suffix which is stripped.
func funcSymbolName(v reflect.Value) string {
	pc := runtime.FuncForPC(v.Pointer())
	if pc == nil {
		return ""
	}
	name := pc.Name()
	if i := strings.LastIndex(name, "."); i != -1 {
		name = name[i+1:]
	}
	return strings.TrimSuffix(name, "-fm")
}
