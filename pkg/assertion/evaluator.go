package assertion

// Evaluator is a function that evaluates a single assertion type
// against a concrete value. It returns whether the assertion
// passed and a human-readable explanation.
type Evaluator func(assertion Definition, value any) (bool, string)

// Assertion types registered by NewEngine.
const (
	TypeEquals          = "equals"
	TypeContains        = "contains"
	TypeURLContains     = "url_contains"
	TypeIsTrue          = "is_true"
	TypeIsFalse         = "is_false"
	TypeNotEmpty        = "not_empty"
	TypeMinLength       = "min_length"
	TypeAttributeEquals = "attribute_equals"
	TypeOneOf           = "one_of"
)
