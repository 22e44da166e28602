package assertion

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"digital.vasic.mobilelogin/pkg/logging"
)

// ErrAssertionFailed matches every *Error.
var ErrAssertionFailed = errors.New("assertion failed")

// Error is a failed expectation.
type Error struct {
	Description string
	Expected    any
	Actual      any
	Message     string
}

func (e *Error) Error() string {
	return e.Message
}

// Is reports whether target is ErrAssertionFailed.
func (e *Error) Is(target error) bool {
	return target == ErrAssertionFailed
}

// Element is the part of a page element the Checker inspects.
type Element interface {
	IsDisplayed(ctx context.Context) (bool, error)
	IsExisting(ctx context.Context) (bool, error)
	IsEnabled(ctx context.Context) (bool, error)
	Attribute(ctx context.Context, name string) (string, error)
}

// Checker evaluates expectations through an Engine, logs one
// assertion record per check and keeps every Result.
type Checker struct {
	engine Engine
	logger logging.Logger

	mu      sync.Mutex
	results []Result
}

// CheckerOption configures a Checker.
type CheckerOption func(*Checker)

// WithEngine replaces the default engine, e.g. one with custom
// evaluators registered.
func WithEngine(e Engine) CheckerOption {
	return func(c *Checker) { c.engine = e }
}

// NewChecker creates a Checker logging to logger.
func NewChecker(logger logging.Logger, opts ...CheckerOption) *Checker {
	c := &Checker{logger: logging.OrNull(logger)}
	for _, opt := range opts {
		opt(c)
	}
	if c.engine == nil {
		c.engine = NewEngine()
	}
	return c
}

// TextEquals fails unless actual equals expected.
func (c *Checker) TextEquals(actual, expected, description string) error {
	return c.run(Definition{
		Type: TypeEquals, Target: "text", Value: expected,
	}, actual, description,
		fmt.Sprintf(`%s: "%s" equals "%s"`, description, actual, expected))
}

// TextContains fails unless actual contains expected.
func (c *Checker) TextContains(actual, expected, description string) error {
	return c.run(Definition{
		Type: TypeContains, Target: "text", Value: expected,
	}, actual, description,
		fmt.Sprintf(`%s: "%s" contains "%s"`, description, actual, expected))
}

// URLContains fails unless actualURL contains expected.
func (c *Checker) URLContains(actualURL, expected, description string) error {
	return c.run(Definition{
		Type: TypeURLContains, Target: "url", Value: expected,
	}, actualURL, description,
		fmt.Sprintf(`%s: URL contains "%s"`, description, expected))
}

// True fails unless value is the boolean true.
func (c *Checker) True(value any, description string) error {
	return c.run(Definition{Type: TypeIsTrue, Value: true},
		value, description, description)
}

// False fails unless value is the boolean false.
func (c *Checker) False(value any, description string) error {
	return c.run(Definition{Type: TypeIsFalse, Value: false},
		value, description, description)
}

// Displayed fails unless el is displayed.
func (c *Checker) Displayed(ctx context.Context, el Element, name string) error {
	return c.element(ctx, el.IsDisplayed, name,
		name+" is displayed", name+" is not displayed")
}

// Exists fails unless el is present in the DOM.
func (c *Checker) Exists(ctx context.Context, el Element, name string) error {
	return c.element(ctx, el.IsExisting, name,
		name+" exists", name+" does not exist")
}

// Enabled fails unless el is enabled.
func (c *Checker) Enabled(ctx context.Context, el Element, name string) error {
	return c.element(ctx, el.IsEnabled, name,
		name+" is enabled", name+" is not enabled")
}

// Attribute fails unless el's attr equals expected. Errors reading
// the attribute are returned unchanged.
func (c *Checker) Attribute(
	ctx context.Context,
	el Element,
	attr, expected, description string,
) error {
	logText := fmt.Sprintf(`%s: %s="%s"`, description, attr, expected)
	def := Definition{
		Type:      TypeAttributeEquals,
		Target:    attr,
		Attribute: attr,
		Value:     expected,
	}

	actual, err := el.Attribute(ctx, attr)
	if err != nil {
		c.collaboratorFailure(def, logText, err)
		return err
	}
	return c.run(def, actual, description, logText)
}

// Evaluate checks value against def. def.Message is the description;
// without one it is "<target> <type>".
func (c *Checker) Evaluate(def Definition, value any) error {
	desc := describe(def)
	return c.run(def, value, desc, desc)
}

// EvaluateAll checks every definition against the value named by its
// Target and returns the failures joined, or nil.
func (c *Checker) EvaluateAll(defs []Definition, values map[string]any) error {
	var errs []error
	for i, r := range c.engine.EvaluateAll(defs, values) {
		desc := describe(defs[i])
		if err := c.record(r, desc, desc); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Results returns every outcome recorded so far.
func (c *Checker) Results() []Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Result(nil), c.results...)
}

// Failed counts the failed outcomes.
func (c *Checker) Failed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, r := range c.results {
		if !r.Passed {
			n++
		}
	}
	return n
}

// Reset forgets recorded outcomes.
func (c *Checker) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = nil
}

func (c *Checker) run(
	def Definition,
	value any,
	description, logText string,
) error {
	return c.record(c.engine.Evaluate(def, value), description, logText)
}

func (c *Checker) record(r Result, description, logText string) error {
	r.Description = logText
	c.append(r)
	c.logger.LogAssertion(logging.AssertionLog{
		Description: logText,
		Passed:      r.Passed,
	})
	if r.Passed {
		return nil
	}
	return &Error{
		Description: description,
		Expected:    r.Expected,
		Actual:      r.Actual,
		Message:     description + ": " + r.Message,
	}
}

func (c *Checker) element(
	ctx context.Context,
	probe func(context.Context) (bool, error),
	name, logText, failure string,
) error {
	def := Definition{Type: TypeIsTrue, Target: name, Value: true}
	ok, err := probe(ctx)
	if err != nil {
		c.collaboratorFailure(def, logText, err)
		return err
	}

	r := c.engine.Evaluate(def, ok)
	r.Description = logText
	c.append(r)
	c.logger.LogAssertion(logging.AssertionLog{
		Description: logText,
		Passed:      r.Passed,
	})
	if r.Passed {
		return nil
	}
	return &Error{
		Description: name,
		Expected:    true,
		Actual:      ok,
		Message:     failure,
	}
}

func (c *Checker) collaboratorFailure(def Definition, logText string, err error) {
	c.append(Result{
		Type:        def.Type,
		Target:      def.Target,
		Description: logText,
		Expected:    def.Value,
		Passed:      false,
		Message:     err.Error(),
	})
	c.logger.LogAssertion(logging.AssertionLog{
		Description: logText,
		Passed:      false,
	})
}

func (c *Checker) append(r Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, r)
}

func describe(def Definition) string {
	if def.Message != "" {
		return def.Message
	}
	return def.Target + " " + def.Type
}
