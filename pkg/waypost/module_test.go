package waypost

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type petsController struct {
	Controller
}

func (p *petsController) List(c Context) error { return nil }

func newPetsController() *petsController { return &petsController{} }

func healthHandler(c Context) error { return nil }

func TestResolveModule_PointerInstance(t *testing.T) {
	entities, err := resolveModule(&petsController{}, "routes/pets.go")
	require.NoError(t, err)
	require.Len(t, entities, 1)
	assert.Equal(t, objectEntity, entities[0].kind)
	assert.Equal(t, "petsController", entities[0].typeName)
	assert.Equal(t, "routes/pets.go", entities[0].source)
}

func TestResolveModule_StructValueGainsPointerMethods(t *testing.T) {
	entities, err := resolveModule(petsController{}, "routes/pets.go")
	require.NoError(t, err)
	require.Len(t, entities, 1)

	members := entityMembers(entities[0].instance)
	require.Len(t, members, 1)
	assert.Equal(t, "List", members[0].name)
}

func TestResolveModule_Constructor(t *testing.T) {
	entities, err := resolveModule(newPetsController, "routes/pets.go")
	require.NoError(t, err)
	require.Len(t, entities, 1)
	assert.Equal(t, objectEntity, entities[0].kind)
	assert.Equal(t, "petsController", entities[0].typeName)
}

func TestResolveModule_ConstructorReturningNil(t *testing.T) {
	nilCtor := func() *petsController { return nil }
	_, err := resolveModule(nilCtor, "routes/pets.go")
	requireBuildError(t, err, ErrCodeUnsupportedExport)
}

func TestResolveModule_NiladicErrorFuncRejected(t *testing.T) {
	// Without the guard this would be invoked as a constructor and its
	// non-nil error result walked as a controller.
	failing := func() error { return errors.New("always fails") }
	_, err := resolveModule(failing, "routes/broken.go")
	requireBuildError(t, err, ErrCodeUnsupportedExport)

	// A custom error type is caught the same way.
	custom := func() *waypostTestError { return &waypostTestError{} }
	_, err = resolveModule(custom, "routes/broken.go")
	requireBuildError(t, err, ErrCodeUnsupportedExport)
}

type waypostTestError struct{}

func (e *waypostTestError) Error() string { return "custom failure" }

func TestResolveModule_BareFunction(t *testing.T) {
	entities, err := resolveModule(healthHandler, "routes/health.go")
	require.NoError(t, err)
	require.Len(t, entities, 1)
	assert.Equal(t, functionEntity, entities[0].kind)
	assert.Equal(t, "healthHandler", entities[0].fnName)
}

func TestResolveModule_Namespace(t *testing.T) {
	ns := NS(
		"Pets", &petsController{},
		"Health", healthHandler,
	)
	entities, err := resolveModule(ns, "routes/index.go")
	require.NoError(t, err)
	require.Len(t, entities, 2)
	assert.Equal(t, objectEntity, entities[0].kind)
	assert.Equal(t, functionEntity, entities[1].kind)
	assert.Equal(t, "Health", entities[1].fnName)
}

func TestResolveModule_NestedNamespaceRejected(t *testing.T) {
	ns := NS("Inner", NS("Pets", &petsController{}))
	_, err := resolveModule(ns, "routes/index.go")
	requireBuildError(t, err, ErrCodeUnsupportedExport)
}

func TestResolveModule_NilExport(t *testing.T) {
	_, err := resolveModule(NS("Broken", nil), "routes/index.go")
	requireBuildError(t, err, ErrCodeUnsupportedExport)
}

func TestResolveModule_UnsupportedShapes(t *testing.T) {
	for _, value := range []any{42, "pets", []string{"a"}, map[string]int{}} {
		_, err := resolveModule(value, "routes/index.go")
		requireBuildError(t, err, ErrCodeUnsupportedExport)
	}
}

func TestNS_PanicsOnBadPairs(t *testing.T) {
	assert.Panics(t, func() { NS("odd") })
	assert.Panics(t, func() { NS(42, "value") })
}

func TestEntityMembers_SkipsChainBoundaryAndConfigure(t *testing.T) {
	entities, err := resolveModule(&configuredController{}, "routes/cfg.go")
	require.NoError(t, err)

	var names []string
	for _, m := range entityMembers(entities[0].instance) {
		names = append(names, m.name)
	}
	assert.Equal(t, []string{"Create", "List"}, names)
}

type configuredController struct {
	Controller
}

func (c *configuredController) ConfigureRoutes(r *RouteSet) {}
func (c *configuredController) List(ctx Context) error      { return nil }
func (c *configuredController) Create(ctx Context) error    { return nil }

func requireBuildError(t *testing.T, err error, code BuildErrorCode) {
	t.Helper()
	require.Error(t, err)
	var buildErr *BuildError
	require.True(t, errors.As(err, &buildErr), "expected *BuildError, got %T", err)
	require.Equal(t, code, buildErr.Code)
}
