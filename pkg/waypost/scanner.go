package waypost

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// ModuleLoader maps a discovered file to its module value. Loading may be
// I/O-bound; the scanner still resolves files in deterministic order.
type ModuleLoader interface {
	// Recognizes reports whether the scanner should load the given path.
	// Paths are slash-separated and include the configured root.
	Recognizes(path string) bool

	// Load returns the module value for a recognized path.
	Load(ctx context.Context, path string) (any, error)
}

// MapLoader is the standard ModuleLoader: module values are registered
// up front, keyed by their root-relative slash path.
type MapLoader struct {
	modules map[string]any
}

// NewMapLoader creates an empty MapLoader.
func NewMapLoader() *MapLoader {
	return &MapLoader{modules: make(map[string]any)}
}

// Register associates a module value (a controller instance, a constructor,
// a handler function, or a Namespace) with a file path.
func (l *MapLoader) Register(path string, value any) *MapLoader {
	l.modules[filepath.ToSlash(path)] = value
	return l
}

// Recognizes reports whether a value was registered for the path.
func (l *MapLoader) Recognizes(path string) bool {
	_, ok := l.modules[path]
	return ok
}

// Load returns the registered module value.
func (l *MapLoader) Load(_ context.Context, path string) (any, error) {
	value, ok := l.modules[path]
	if !ok {
		return nil, buildErrorf(ErrCodeScan, path, "", "no module registered for path")
	}
	return value, nil
}

// skipDirs are directory names the scanner never descends into.
var skipDirs = map[string]struct{}{
	"vendor":       {},
	"node_modules": {},
	"testdata":     {},
}

// scanUnit is one pending directory on the scanner's worklist.
type scanUnit struct {
	dir    string // filesystem directory
	rel    string // slash path relative to and including the root
	prefix string // accumulated route prefix, always "/.../"
}

// scanRoots discovers route-bearing files under the configured roots. The
// walk uses an explicit queue instead of recursion: within one directory all
// recognized files are resolved, in name order, before any subdirectory is
// visited, so sibling files at a given depth always precede deeper nesting.
// Each subdirectory name extends the route prefix unchanged. Missing roots
// and an empty root set contribute zero routes without error.
func (s *Session) scanRoots(ctx context.Context) error {
	for _, root := range s.roots {
		queue := []scanUnit{{dir: root, rel: filepath.ToSlash(root), prefix: "/"}}
		for len(queue) > 0 {
			unit := queue[0]
			queue = queue[1:]

			entries, err := os.ReadDir(unit.dir)
			if err != nil {
				if os.IsNotExist(err) && unit.dir == root {
					break
				}
				return &BuildError{Code: ErrCodeScan, Message: "cannot read directory",
					SourcePath: unit.rel, Cause: err}
			}
			sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

			var subdirs []scanUnit
			for _, entry := range entries {
				name := entry.Name()
				if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
					continue
				}
				if entry.IsDir() {
					if _, skip := skipDirs[name]; skip {
						continue
					}
					subdirs = append(subdirs, scanUnit{
						dir:    filepath.Join(unit.dir, name),
						rel:    path.Join(unit.rel, name),
						prefix: unit.prefix + name + "/",
					})
					continue
				}
				rel := path.Join(unit.rel, name)
				if !s.loader.Recognizes(rel) {
					continue
				}
				if err := s.resolveFile(ctx, rel, unit.prefix); err != nil {
					return err
				}
			}
			queue = append(queue, subdirs...)
		}
	}
	return nil
}

// resolveFile loads one recognized file and walks every entity it exports.
func (s *Session) resolveFile(ctx context.Context, rel, prefix string) error {
	value, err := s.loader.Load(ctx, rel)
	if err != nil {
		if _, ok := err.(*BuildError); ok {
			return err
		}
		return &BuildError{Code: ErrCodeScan, Message: "module load failed",
			SourcePath: rel, Cause: err}
	}

	entities, err := resolveModule(value, rel)
	if err != nil {
		return err
	}
	for _, ent := range entities {
		if err := s.walkEntity(ent, prefix); err != nil {
			return err
		}
	}
	return nil
}
