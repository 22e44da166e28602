package assertion

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Failure explanations are phrased so that "<description>: " can be
// prefixed to form the reported error.

func evaluateEquals(
	assertion Definition,
	value any,
) (bool, string) {
	actual := stringify(value)
	expected := stringify(assertion.Value)
	if actual == expected {
		return true, fmt.Sprintf(`"%s" equals "%s"`, actual, expected)
	}
	return false, fmt.Sprintf(
		`Expected "%s" but got "%s"`, expected, actual,
	)
}

// evaluateContains is case-sensitive.
func evaluateContains(
	assertion Definition,
	value any,
) (bool, string) {
	actual := stringify(value)
	expected := stringify(assertion.Value)
	if strings.Contains(actual, expected) {
		return true, fmt.Sprintf(`"%s" contains "%s"`, actual, expected)
	}
	return false, fmt.Sprintf(
		`Expected to contain "%s" but got "%s"`, expected, actual,
	)
}

func evaluateURLContains(
	assertion Definition,
	value any,
) (bool, string) {
	actual := stringify(value)
	expected := stringify(assertion.Value)
	if strings.Contains(actual, expected) {
		return true, fmt.Sprintf(`URL contains "%s"`, expected)
	}
	return false, fmt.Sprintf(
		`Expected URL to contain "%s" but got "%s"`, expected, actual,
	)
}

// evaluateIsTrue passes only for the boolean true; any other value,
// nil included, fails.
func evaluateIsTrue(
	_ Definition,
	value any,
) (bool, string) {
	if b, ok := value.(bool); ok && b {
		return true, "value is true"
	}
	return false, fmt.Sprintf("Expected true but got %v", value)
}

func evaluateIsFalse(
	_ Definition,
	value any,
) (bool, string) {
	if b, ok := value.(bool); ok && !b {
		return true, "value is false"
	}
	return false, fmt.Sprintf("Expected false but got %v", value)
}

// evaluateNotEmpty checks that a value is non-nil and non-empty.
func evaluateNotEmpty(
	_ Definition,
	value any,
) (bool, string) {
	if value == nil {
		return false, "value is nil"
	}

	switch v := value.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return false, "string is empty"
		}
	case []string:
		if len(v) == 0 {
			return false, "list is empty"
		}
	case []any:
		if len(v) == 0 {
			return false, "list is empty"
		}
	}

	return true, "value is not empty"
}

// evaluateMinLength checks that a string has at least Value
// characters.
func evaluateMinLength(
	assertion Definition,
	value any,
) (bool, string) {
	str, ok := value.(string)
	if !ok {
		return false, "value is not a string"
	}

	minLen, err := toInt(assertion.Value)
	if err != nil {
		return false, fmt.Sprintf("invalid min_length value: %v", err)
	}

	n := utf8.RuneCountInString(str)
	if n >= minLen {
		return true, fmt.Sprintf("length %d >= %d", n, minLen)
	}
	return false, fmt.Sprintf(
		"Expected at least %d characters but got %d", minLen, n,
	)
}

// evaluateAttributeEquals compares an attribute value read from an
// element. An absent attribute is the empty string.
func evaluateAttributeEquals(
	assertion Definition,
	value any,
) (bool, string) {
	actual := stringify(value)
	expected := stringify(assertion.Value)
	if actual == expected {
		return true, fmt.Sprintf(`%s="%s"`, assertion.Attribute, expected)
	}
	return false, fmt.Sprintf(
		`Expected %s="%s" but got "%s"`,
		assertion.Attribute, expected, actual,
	)
}

// evaluateOneOf checks that the value equals one of Values.
func evaluateOneOf(
	assertion Definition,
	value any,
) (bool, string) {
	actual := stringify(value)
	options := make([]string, 0, len(assertion.Values))
	for _, v := range assertion.Values {
		s := stringify(v)
		if s == actual {
			return true, fmt.Sprintf(`"%s" is an accepted value`, actual)
		}
		options = append(options, `"`+s+`"`)
	}
	return false, fmt.Sprintf(
		`Expected one of [%s] but got "%s"`,
		strings.Join(options, ", "), actual,
	)
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	case string:
		return strconv.Atoi(strings.TrimSpace(n))
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}
