package assertion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateNotEmpty(t *testing.T) {
	tests := []struct {
		name   string
		value  any
		passed bool
	}{
		{"nil value", nil, false},
		{"empty string", "", false},
		{"whitespace only", "   ", false},
		{"non-empty string", "hello", true},
		{"empty slice", []any{}, false},
		{"empty string slice", []string{}, false},
		{"non-empty slice", []any{1}, true},
		{"integer", 42, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, _ := evaluateNotEmpty(Definition{}, tt.value)
			assert.Equal(t, tt.passed, ok)
		})
	}
}

func TestEvaluateEquals(t *testing.T) {
	ok, msg := evaluateEquals(Definition{Value: "Sign in"}, "Sign in")
	assert.True(t, ok)
	assert.Equal(t, `"Sign in" equals "Sign in"`, msg)

	ok, msg = evaluateEquals(Definition{Value: "Sign in"}, "Log in")
	assert.False(t, ok)
	assert.Equal(t, `Expected "Sign in" but got "Log in"`, msg)

	ok, _ = evaluateEquals(Definition{Value: "3"}, 3)
	assert.True(t, ok, "values compare by their text")
}

func TestEvaluateContains(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected string
		passed   bool
	}{
		{"substring", "Welcome back, Tester", "Welcome", true},
		{"case sensitive", "welcome back", "Welcome", false},
		{"empty expected", "anything", "", true},
		{"nil value", nil, "x", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, _ := evaluateContains(
				Definition{Value: tt.expected}, tt.value,
			)
			assert.Equal(t, tt.passed, ok)
		})
	}

	_, msg := evaluateContains(Definition{Value: "Hi"}, "Bye")
	assert.Equal(t, `Expected to contain "Hi" but got "Bye"`, msg)
}

func TestEvaluateURLContains(t *testing.T) {
	ok, msg := evaluateURLContains(
		Definition{Value: "login"}, "https://www.wwgoa.com/login",
	)
	assert.True(t, ok)
	assert.Equal(t, `URL contains "login"`, msg)

	ok, msg = evaluateURLContains(
		Definition{Value: "login"}, "https://www.wwgoa.com/",
	)
	assert.False(t, ok)
	assert.Equal(t,
		`Expected URL to contain "login" but got "https://www.wwgoa.com/"`, msg)
}

func TestEvaluateIsTrueIsFalse(t *testing.T) {
	tests := []struct {
		name      string
		value     any
		wantTrue  bool
		wantFalse bool
	}{
		{"true", true, true, false},
		{"false", false, false, true},
		{"nil", nil, false, false},
		{"string true", "true", false, false},
		{"one", 1, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, _ := evaluateIsTrue(Definition{}, tt.value)
			assert.Equal(t, tt.wantTrue, ok)
			ok, _ = evaluateIsFalse(Definition{}, tt.value)
			assert.Equal(t, tt.wantFalse, ok)
		})
	}

	_, msg := evaluateIsTrue(Definition{}, nil)
	assert.Equal(t, "Expected true but got <nil>", msg)
	_, msg = evaluateIsFalse(Definition{}, true)
	assert.Equal(t, "Expected false but got true", msg)
}

func TestEvaluateMinLength(t *testing.T) {
	tests := []struct {
		name   string
		value  any
		min    any
		passed bool
	}{
		{"long enough", "password", 8, true},
		{"too short", "pw", 8, false},
		{"float min", "abc", float64(3), true},
		{"string min", "abc", "4", false},
		{"multibyte counts runes", "ééé", 3, true},
		{"non-string value", 42, 1, false},
		{"bad min", "abc", []int{1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, _ := evaluateMinLength(Definition{Value: tt.min}, tt.value)
			assert.Equal(t, tt.passed, ok)
		})
	}
}

func TestEvaluateAttributeEquals(t *testing.T) {
	def := Definition{Attribute: "type", Value: "email"}

	ok, msg := evaluateAttributeEquals(def, "email")
	assert.True(t, ok)
	assert.Equal(t, `type="email"`, msg)

	ok, msg = evaluateAttributeEquals(def, "")
	assert.False(t, ok)
	assert.Equal(t, `Expected type="email" but got ""`, msg)
}

func TestEvaluateOneOf(t *testing.T) {
	def := Definition{Values: []any{"Invalid credentials", "Username is required"}}

	ok, _ := evaluateOneOf(def, "Username is required")
	assert.True(t, ok)

	ok, msg := evaluateOneOf(def, "Oops")
	assert.False(t, ok)
	assert.Equal(t,
		`Expected one of ["Invalid credentials", "Username is required"] but got "Oops"`,
		msg)
}
