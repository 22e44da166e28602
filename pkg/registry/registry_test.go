package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.mobilelogin/pkg/scenario"
)

func newStub(id, category string) scenario.Scenario {
	return scenario.New(scenario.ID(id), "should "+id, "stub "+id, category,
		func(context.Context, *scenario.Session) error { return nil })
}

func ids(list []scenario.Scenario) []scenario.ID {
	out := make([]scenario.ID, len(list))
	for i, s := range list {
		out[i] = s.ID()
	}
	return out
}

func TestDefaultRegistry_Register(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(newStub("a", "")))

	err := r.Register(newStub("a", ""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
	assert.Equal(t, 1, r.Count())
}

func TestDefaultRegistry_Get(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(newStub("valid-login-test", "")))

	s, err := r.Get("valid-login-test")
	require.NoError(t, err)
	assert.Equal(t, "should valid-login-test", s.Name())

	_, err = r.Get("missing")
	assert.ErrorContains(t, err, "scenario not found: missing")
}

func TestDefaultRegistry_List_RegistrationOrder(t *testing.T) {
	r := NewRegistry()
	for _, id := range []string{"invalid-login-1", "invalid-login-0", "a"} {
		require.NoError(t, r.Register(newStub(id, "")))
	}
	assert.Equal(t,
		[]scenario.ID{"invalid-login-1", "invalid-login-0", "a"},
		ids(r.List()),
	)
}

func TestDefaultRegistry_ListByCategory(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(newStub("a", "valid")))
	require.NoError(t, r.Register(newStub("b", "invalid")))
	require.NoError(t, r.Register(newStub("c", "valid")))

	assert.Equal(t, []scenario.ID{"a", "c"}, ids(r.ListByCategory("valid")))
	assert.Empty(t, r.ListByCategory("missing"))
}

func TestDefaultRegistry_Match(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(newStub("valid-login-test", "")))
	require.NoError(t, r.Register(newStub("invalid-login-0-x", "")))
	require.NoError(t, r.Register(newStub("page-load-timeout-handling", "")))

	got, err := r.Match("^invalid-")
	require.NoError(t, err)
	assert.Equal(t, []scenario.ID{"invalid-login-0-x"}, ids(got))

	got, err = r.Match("should page")
	require.NoError(t, err)
	assert.Equal(t, []scenario.ID{"page-load-timeout-handling"}, ids(got))

	_, err = r.Match("(")
	assert.ErrorContains(t, err, "invalid scenario pattern")
}

func TestDefaultRegistry_Clear(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(newStub("a", "")))

	r.Clear()
	assert.Equal(t, 0, r.Count())
	assert.Empty(t, r.List())
	require.NoError(t, r.Register(newStub("a", "")))
}

func TestDefaultPackageLevelInstance(t *testing.T) {
	assert.NotNil(t, Default)
	assert.Equal(t, 0, Default.Count())
}
