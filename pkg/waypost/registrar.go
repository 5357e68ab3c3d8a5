package waypost

// registerRoutes hands the conflict-free definitions, in their original
// accumulation order, to the external router. The verb selects the router's
// per-verb registration method; an unrecognized verb here means a validation
// invariant was broken earlier and is fatal.
func registerRoutes(router Router, defs []RouteDefinition) error {
	for _, def := range defs {
		handler, err := Dispatch(def.Handler)
		if err != nil {
			return err
		}

		switch def.Verb {
		case "get":
			router.GET(def.Path, handler, def.Middleware...)
		case "post":
			router.POST(def.Path, handler, def.Middleware...)
		case "put":
			router.PUT(def.Path, handler, def.Middleware...)
		case "delete":
			router.DELETE(def.Path, handler, def.Middleware...)
		case "patch":
			router.PATCH(def.Path, handler, def.Middleware...)
		case "options":
			router.OPTIONS(def.Path, handler, def.Middleware...)
		case "head":
			router.HEAD(def.Path, handler, def.Middleware...)
		case VerbAll:
			router.Any(def.Path, handler, def.Middleware...)
		default:
			return buildErrorf(ErrCodeInternal, def.SourcePath, def.HandlerName,
				"unreachable verb %q survived validation", def.Verb)
		}
	}
	return nil
}
