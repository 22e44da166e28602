package assertion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEngine_RegistersAllBuiltins(t *testing.T) {
	e := NewEngine()

	builtins := []string{
		TypeEquals, TypeContains, TypeURLContains,
		TypeIsTrue, TypeIsFalse, TypeNotEmpty,
		TypeMinLength, TypeAttributeEquals, TypeOneOf,
	}

	for _, name := range builtins {
		assert.True(t, e.HasEvaluator(name),
			"missing built-in evaluator: %s", name)
	}
	assert.Len(t, e.Types(), len(builtins))
}

func TestDefaultEngine_Register_Success(t *testing.T) {
	e := NewEngine()

	err := e.Register("title_is", func(
		_ Definition, _ any,
	) (bool, string) {
		return true, "custom ok"
	})

	require.NoError(t, err)
	assert.True(t, e.HasEvaluator("title_is"))
	assert.Contains(t, e.Types(), "title_is")
}

func TestDefaultEngine_Register_Duplicate(t *testing.T) {
	e := NewEngine()

	err := e.Register(TypeEquals, func(
		_ Definition, _ any,
	) (bool, string) {
		return true, "dup"
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestDefaultEngine_Evaluate_UnknownType(t *testing.T) {
	e := NewEngine()

	r := e.Evaluate(Definition{
		Type:   "nonexistent",
		Target: "x",
	}, "hello")

	assert.False(t, r.Passed)
	assert.Contains(t, r.Message, "unknown assertion type")
}

func TestDefaultEngine_Evaluate_SetsFields(t *testing.T) {
	e := NewEngine()

	r := e.Evaluate(Definition{
		Type:   TypeURLContains,
		Target: "url",
		Value:  "login",
	}, "https://example.com/login")

	assert.True(t, r.Passed)
	assert.Equal(t, TypeURLContains, r.Type)
	assert.Equal(t, "url", r.Target)
	assert.Equal(t, "login", r.Expected)
	assert.Equal(t, "https://example.com/login", r.Actual)
}

func TestDefaultEngine_EvaluateAll_MissingTarget(t *testing.T) {
	e := NewEngine()

	results := e.EvaluateAll(
		[]Definition{
			{Type: TypeNotEmpty, Target: "missing"},
		},
		map[string]any{"other": "value"},
	)

	require.Len(t, results, 1)
	assert.False(t, results[0].Passed)
	assert.Contains(t, results[0].Message, "target not found")
}

func TestDefaultEngine_EvaluateAll_MultipleAssertions(t *testing.T) {
	e := NewEngine()

	results := e.EvaluateAll(
		[]Definition{
			{Type: TypeURLContains, Target: "url", Value: "login"},
			{Type: TypeIsFalse, Target: "login_button_enabled"},
			{Type: TypeMinLength, Target: "title", Value: 3},
		},
		map[string]any{
			"url":                  "https://example.com/login",
			"login_button_enabled": false,
			"title":                "Sign in",
		},
	)

	require.Len(t, results, 3)
	for _, r := range results {
		assert.True(t, r.Passed, "assertion %s failed", r.Type)
	}
}
