package waypost

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type traceController struct {
	Controller
}

func (c *traceController) Get(ctx Context) error { return nil }

func TestScanRoots_DeterministicOrder(t *testing.T) {
	root := t.TempDir()

	// Deliberately created out of order; discovery order must not depend on
	// creation order.
	files := []string{
		"zebra/deep/last.go",
		"alpha.go",
		"zebra/first.go",
		"beta/middle.go",
		"beta.go",
	}
	loader := NewMapLoader()
	for _, f := range files {
		loader.Register(touch(t, root, f), &traceController{})
	}

	session := NewSession(loader, Options{}, root)
	require.NoError(t, session.scanRoots(context.Background()))

	var order []string
	for _, def := range session.defs {
		order = append(order, def.SourcePath)
	}

	// Files of a directory come first, in name order, then subdirectories in
	// name order, breadth-first.
	assert.Equal(t, []string{
		"alpha.go",
		"beta.go",
		"beta/middle.go",
		"zebra/first.go",
		"zebra/deep/last.go",
	}, relsTail(order))
}

func TestScanRoots_SkipsHiddenAndSpecialDirs(t *testing.T) {
	root := t.TempDir()
	loader := NewMapLoader()

	loader.Register(touch(t, root, "ok.go"), &traceController{})
	loader.Register(touch(t, root, ".hidden/skipped.go"), &traceController{})
	loader.Register(touch(t, root, "_draft/skipped.go"), &traceController{})
	loader.Register(touch(t, root, "vendor/skipped.go"), &traceController{})
	loader.Register(touch(t, root, "node_modules/skipped.go"), &traceController{})
	loader.Register(touch(t, root, "testdata/skipped.go"), &traceController{})
	loader.Register(touch(t, root, ".dotfile.go"), &traceController{})
	loader.Register(touch(t, root, "_underscore.go"), &traceController{})

	session := NewSession(loader, Options{}, root)
	require.NoError(t, session.scanRoots(context.Background()))

	require.Len(t, session.defs, 1)
	assert.Contains(t, session.defs[0].SourcePath, "ok.go")
}

func TestScanRoots_UnrecognizedFilesIgnored(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "README.md")
	touch(t, root, "orphan.go")

	session := NewSession(NewMapLoader(), Options{}, root)
	require.NoError(t, session.scanRoots(context.Background()))
	assert.Empty(t, session.defs)
}

func TestScanRoots_SubdirectoriesExtendThePrefix(t *testing.T) {
	root := t.TempDir()
	loader := NewMapLoader().Register(touch(t, root, "api/v1/things.go"), &traceController{})

	session := NewSession(loader, Options{}, root)
	require.NoError(t, session.scanRoots(context.Background()))

	require.Len(t, session.defs, 1)
	assert.Equal(t, "/api/v1/things/get", session.defs[0].Path)
}

func TestScanRoots_MultipleRoots(t *testing.T) {
	rootA := t.TempDir()
	rootB := t.TempDir()
	loader := NewMapLoader().
		Register(touch(t, rootA, "a.go"), &traceController{}).
		Register(touch(t, rootB, "b.go"), &traceController{})

	session := NewSession(loader, Options{}, rootA, rootB)
	require.NoError(t, session.scanRoots(context.Background()))
	assert.Len(t, session.defs, 2)
}

// relsTail strips the temp-dir root from discovered source paths, leaving the
// root-relative remainder for order assertions.
func relsTail(paths []string) []string {
	known := []string{
		"alpha.go",
		"beta.go",
		"beta/middle.go",
		"zebra/first.go",
		"zebra/deep/last.go",
	}
	var out []string
	for _, p := range paths {
		for _, k := range known {
			if len(p) >= len(k) && p[len(p)-len(k):] == k {
				out = append(out, k)
				break
			}
		}
	}
	return out
}
