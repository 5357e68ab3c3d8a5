package waypost

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRoutes_EveryVerbReachesItsMethod(t *testing.T) {
	handler := func(c Context) error { return nil }
	verbs := []string{"get", "post", "put", "delete", "patch", "options", "head", "all"}

	var defs []RouteDefinition
	for _, verb := range verbs {
		defs = append(defs, RouteDefinition{Path: "/" + verb, Verb: verb, Handler: handler})
	}

	router := &recordingRouter{}
	require.NoError(t, registerRoutes(router, defs))
	require.Len(t, router.registered, len(verbs))
	for i, verb := range verbs {
		assert.Equal(t, verb, router.registered[i].verb)
		assert.Equal(t, "/"+verb, router.registered[i].path)
	}
}

func TestRegisterRoutes_PreservesAccumulationOrder(t *testing.T) {
	handler := func(c Context) error { return nil }
	defs := []RouteDefinition{
		{Path: "/z", Verb: "get", Handler: handler},
		{Path: "/a", Verb: "get", Handler: handler},
	}

	router := &recordingRouter{}
	require.NoError(t, registerRoutes(router, defs))
	assert.Equal(t, "/z", router.registered[0].path)
	assert.Equal(t, "/a", router.registered[1].path)
}

func TestRegisterRoutes_WrapsHandlers(t *testing.T) {
	defs := []RouteDefinition{{
		Path: "/panics", Verb: "get",
		Handler: func(c Context) error { panic("late failure") },
	}}

	router := &recordingRouter{}
	require.NoError(t, registerRoutes(router, defs))

	err := router.registered[0].handler(newFakeContext())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "handler panic")
}

func TestRegisterRoutes_UnknownVerbIsInternal(t *testing.T) {
	defs := []RouteDefinition{{
		Path: "/x", Verb: "teapot",
		Handler: func(c Context) error { return nil },
	}}
	err := registerRoutes(&recordingRouter{}, defs)
	requireBuildError(t, err, ErrCodeInternal)
}
