// Package assertion evaluates expectations about page state and
// records each outcome. A pluggable Engine maps assertion types to
// Evaluator functions; the Checker runs them, logs a pass/fail record
// per check and turns failures into *Error values.
package assertion

// Definition describes a single assertion to evaluate against an
// observed page value.
type Definition struct {
	// Type is the evaluator type (e.g., "equals", "url_contains").
	Type string `json:"type" yaml:"type"`

	// Target names the observed value to check, such as "url" or
	// "login_button_enabled".
	Target string `json:"target" yaml:"target"`

	// Value is the expected value for single-value assertions.
	Value any `json:"value,omitempty" yaml:"value,omitempty"`

	// Values holds the accepted values for "one_of".
	Values []any `json:"values,omitempty" yaml:"values,omitempty"`

	// Attribute is the element attribute "attribute_equals" reads.
	Attribute string `json:"attribute,omitempty" yaml:"attribute,omitempty"`

	// Message describes the assertion in logs and failures.
	Message string `json:"message" yaml:"message"`
}

// Result captures the outcome of evaluating a single assertion.
type Result struct {
	Type   string `json:"type"`
	Target string `json:"target"`

	// Description is the logged assertion text.
	Description string `json:"description,omitempty"`

	Expected any  `json:"expected"`
	Actual   any  `json:"actual"`
	Passed   bool `json:"passed"`

	// Message is a human-readable description of the outcome.
	Message string `json:"message"`
}
