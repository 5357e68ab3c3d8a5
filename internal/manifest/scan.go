// Package manifest predicts the route table of a source tree without loading
// it: it parses controller declarations and their staged metadata straight
// from the Go AST and runs them through the same path-synthesis and
// conflict-detection rules the runtime build uses.
package manifest

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/waypost/waypost/pkg/waypost"
)

// Options mirror the build options that influence path synthesis.
type Options struct {
	UseClassNamesAsRoutes           bool
	AllMethodsRoutesAllByDefault    bool
	AllMethodsRoutesHiddenByDefault bool
}

// Route is one predicted route-table entry.
type Route struct {
	File       string
	Controller string
	Handler    string
	Path       string
	Verb       string
}

// Manifest is the outcome of a static scan.
type Manifest struct {
	Routes      []Route
	Controllers int
}

// controller is one discovered route-bearing struct and everything its
// ConfigureRoutes staged for it.
type controller struct {
	typeName string
	file     string // slash path including the scanned root
	dir      string // slash route prefix derived from the directory
	class    waypost.ClassMetadata
	methods  []string
	meta     map[string]*waypost.RouteMeta
}

// Scan parses every Go file under the roots and predicts the route table.
func Scan(roots []string, opts Options) (*Manifest, error) {
	buildOpts := waypost.Options{
		UseClassNamesAsRoutes:           opts.UseClassNamesAsRoutes,
		AllMethodsRoutesAllByDefault:    opts.AllMethodsRoutesAllByDefault,
		AllMethodsRoutesHiddenByDefault: opts.AllMethodsRoutesHiddenByDefault,
	}
	if buildOpts.AllMethodsRoutesAllByDefault && buildOpts.AllMethodsRoutesHiddenByDefault {
		return nil, fmt.Errorf("all-default and hidden-default are mutually exclusive")
	}

	var controllers []*controller
	for _, root := range roots {
		found, err := scanRoot(root)
		if err != nil {
			return nil, err
		}
		controllers = append(controllers, found...)
	}

	result := &Manifest{Controllers: len(controllers)}
	for _, ctrl := range controllers {
		routes, err := ctrl.synthesize(buildOpts)
		if err != nil {
			return nil, err
		}
		result.Routes = append(result.Routes, routes...)
	}

	var defs []waypost.RouteDefinition
	for _, r := range result.Routes {
		defs = append(defs, waypost.RouteDefinition{SourcePath: r.File, Path: r.Path, Verb: r.Verb})
	}
	if err := waypost.DetectConflicts(defs); err != nil {
		return nil, err
	}
	return result, nil
}

// scanRoot walks one root directory, grouping files per directory so that
// controller methods declared in sibling files still attach to their type.
func scanRoot(root string) ([]*controller, error) {
	var dirs []string
	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && p == root {
				return filepath.SkipAll
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if p != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") ||
			name == "vendor" || name == "testdata" || name == "node_modules") {
			return filepath.SkipDir
		}
		dirs = append(dirs, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(dirs)

	var controllers []*controller
	for _, dir := range dirs {
		found, err := scanDir(root, dir)
		if err != nil {
			return nil, err
		}
		controllers = append(controllers, found...)
	}
	return controllers, nil
}

func scanDir(root, dir string) ([]*controller, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	prefix := "/"
	if rel, err := filepath.Rel(root, dir); err == nil && rel != "." {
		prefix = "/" + filepath.ToSlash(rel) + "/"
	}

	fset := token.NewFileSet()
	byType := make(map[string]*controller)
	var order []string
	var files []*ast.File
	var fileNames []string

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") ||
			strings.HasSuffix(name, "_test.go") || strings.HasPrefix(name, ".") {
			continue
		}
		full := filepath.Join(dir, name)
		file, err := parser.ParseFile(fset, full, nil, 0)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", full, err)
		}
		files = append(files, file)
		rel, _ := filepath.Rel(filepath.Dir(root), full)
		fileNames = append(fileNames, filepath.ToSlash(rel))
	}

	// Pass 1: controller type declarations.
	for i, file := range files {
		for _, decl := range file.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}
			for _, spec := range gen.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				st, ok := ts.Type.(*ast.StructType)
				if !ok || !embedsController(st) {
					continue
				}
				ctrl := &controller{
					typeName: ts.Name.Name,
					file:     fileNames[i],
					dir:      prefix,
					meta:     make(map[string]*waypost.RouteMeta),
				}
				byType[ctrl.typeName] = ctrl
				order = append(order, ctrl.typeName)
			}
		}
	}

	// Pass 2: methods and staged configuration.
	for _, file := range files {
		for _, decl := range file.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Recv == nil || len(fn.Recv.List) == 0 {
				continue
			}
			ctrl, ok := byType[receiverTypeName(fn.Recv.List[0].Type)]
			if !ok {
				continue
			}
			if fn.Name.Name == "ConfigureRoutes" {
				applyConfigure(ctrl, fn)
				continue
			}
			if fn.Name.IsExported() {
				ctrl.methods = append(ctrl.methods, fn.Name.Name)
			}
		}
	}

	controllers := make([]*controller, 0, len(order))
	for _, name := range order {
		ctrl := byType[name]
		sort.Strings(ctrl.methods)
		controllers = append(controllers, ctrl)
	}
	return controllers, nil
}

// synthesize predicts the routes of one controller using the runtime rules.
func (c *controller) synthesize(opts waypost.Options) ([]Route, error) {
	base := fileBase(c.file)
	var routes []Route
	for _, method := range c.methods {
		meta := c.meta[method]
		if meta != nil {
			if err := meta.Err(); err != nil {
				return nil, fmt.Errorf("%s: %s: %w", c.file, method, err)
			}
			if meta.IsHidden() {
				continue
			}
		}
		var requested []string
		if meta != nil {
			requested = meta.RequestedVerbs()
		}
		verbs, err := waypost.ResolveVerbs(requested, opts, c.file, method)
		if err != nil {
			return nil, err
		}
		if len(verbs.Verbs) == 0 {
			continue
		}
		if meta != nil && meta.UploadLimit() > 0 && !verbs.CanHandleBody {
			return nil, fmt.Errorf("%s: %s: file upload requires a body-capable verb", c.file, method)
		}

		routePath := waypost.Synthesize(c.dir, c.class, c.typeName, base,
			opts.UseClassNamesAsRoutes, meta, method)

		emit := func(verb string) {
			routes = append(routes, Route{
				File:       c.file,
				Controller: c.typeName,
				Handler:    method,
				Path:       routePath,
				Verb:       verb,
			})
		}
		if verbs.Wildcard {
			emit("all")
			continue
		}
		for _, verb := range verbs.Verbs {
			emit(verb)
		}
	}
	return routes, nil
}

// applyConfigure replays a ConfigureRoutes body onto the controller's staged
// metadata. Only literal arguments are understood; anything dynamic is
// ignored rather than guessed at.
func applyConfigure(ctrl *controller, fn *ast.FuncDecl) {
	if fn.Type.Params == nil || len(fn.Type.Params.List) != 1 ||
		len(fn.Type.Params.List[0].Names) != 1 || fn.Body == nil {
		return
	}
	routeSet := fn.Type.Params.List[0].Names[0].Name

	for _, stmt := range fn.Body.List {
		expr, ok := stmt.(*ast.ExprStmt)
		if !ok {
			continue
		}
		call, ok := expr.X.(*ast.CallExpr)
		if !ok {
			continue
		}
		base, steps := unwindChain(call)
		if base != routeSet || len(steps) == 0 {
			continue
		}

		switch steps[0].name {
		case "Prefix":
			if s, ok := stringArg(steps[0].args); ok {
				ctrl.class.Prefix = &s
			}
		case "Name":
			if s, ok := stringArg(steps[0].args); ok {
				ctrl.class.Name = s
			}
		case "Handle":
			target, ok := handleTarget(steps[0].args)
			if !ok {
				continue
			}
			meta := ctrl.meta[target]
			if meta == nil {
				meta = waypost.NewRouteMeta()
				ctrl.meta[target] = meta
			}
			applySetters(meta, steps[1:])
		}
	}
}

type chainStep struct {
	name string
	args []ast.Expr
}

// unwindChain flattens r.Handle(x).Verbs("get").Hidden() into its base
// identifier and ordered steps.
func unwindChain(call *ast.CallExpr) (string, []chainStep) {
	var steps []chainStep
	for {
		sel, ok := call.Fun.(*ast.SelectorExpr)
		if !ok {
			return "", nil
		}
		steps = append([]chainStep{{name: sel.Sel.Name, args: call.Args}}, steps...)
		switch inner := sel.X.(type) {
		case *ast.CallExpr:
			call = inner
		case *ast.Ident:
			return inner.Name, steps
		default:
			return "", nil
		}
	}
}

func applySetters(meta *waypost.RouteMeta, steps []chainStep) {
	for _, step := range steps {
		switch step.name {
		case "Verbs":
			for _, arg := range step.args {
				if s, ok := stringLit(arg); ok {
					meta.Verbs(s)
				}
			}
		case "Path":
			if s, ok := stringArg(step.args); ok {
				meta.Path(s)
			}
		case "Name":
			if s, ok := stringArg(step.args); ok {
				meta.Name(s)
			}
		case "Hidden":
			meta.Hidden()
		case "Upload":
			if len(step.args) == 1 {
				if n, ok := intExpr(step.args[0]); ok && n > 0 {
					meta.Upload(n)
				} else {
					// Dynamic limit: the exact value does not change the
					// table shape, only that an upload was declared.
					meta.Upload(1)
				}
			}
		case "Directive":
			if s, ok := stringArg(step.args); ok {
				meta.Directive(s)
			}
		}
	}
}

func handleTarget(args []ast.Expr) (string, bool) {
	if len(args) != 1 {
		return "", false
	}
	sel, ok := args[0].(*ast.SelectorExpr)
	if !ok {
		return "", false
	}
	return sel.Sel.Name, true
}

func embedsController(st *ast.StructType) bool {
	for _, field := range st.Fields.List {
		if len(field.Names) != 0 {
			continue
		}
		switch t := field.Type.(type) {
		case *ast.SelectorExpr:
			if t.Sel.Name == "Controller" {
				return true
			}
		case *ast.Ident:
			if t.Name == "Controller" {
				return true
			}
		}
	}
	return false
}

func receiverTypeName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return receiverTypeName(t.X)
	case *ast.Ident:
		return t.Name
	}
	return ""
}

func stringArg(args []ast.Expr) (string, bool) {
	if len(args) != 1 {
		return "", false
	}
	return stringLit(args[0])
}

func stringLit(expr ast.Expr) (string, bool) {
	lit, ok := expr.(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return "", false
	}
	s, err := strconv.Unquote(lit.Value)
	if err != nil {
		return "", false
	}
	return s, true
}

// intExpr evaluates integer literals and the usual size arithmetic
// (8 << 20, 4 * 1024).
func intExpr(expr ast.Expr) (int64, bool) {
	switch e := expr.(type) {
	case *ast.BasicLit:
		if e.Kind != token.INT {
			return 0, false
		}
		n, err := strconv.ParseInt(e.Value, 0, 64)
		return n, err == nil
	case *ast.ParenExpr:
		return intExpr(e.X)
	case *ast.BinaryExpr:
		left, lok := intExpr(e.X)
		right, rok := intExpr(e.Y)
		if !lok || !rok {
			return 0, false
		}
		switch e.Op {
		case token.SHL:
			return left << uint(right), true
		case token.MUL:
			return left * right, true
		case token.ADD:
			return left + right, true
		}
	}
	return 0, false
}

func fileBase(file string) string {
	base := path.Base(file)
	return strings.TrimSuffix(base, path.Ext(base))
}
