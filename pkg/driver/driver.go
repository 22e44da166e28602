// Package driver abstracts a remote mobile browser session: element
// lookup, interaction, scripting and screenshots. The production
// implementation speaks WebDriver to an Appium server; tests use an
// in-memory fake.
package driver

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotInitialized is returned when a session is requested before
// CreateDriver has succeeded.
var ErrNotInitialized = errors.New(
	"driver not initialized: call CreateDriver first",
)

// Strategy is a WebDriver element location strategy.
type Strategy string

const (
	ByCSS        Strategy = "css selector"
	ByXPath      Strategy = "xpath"
	ByButtonText Strategy = "button text"
	ByLinkText   Strategy = "link text"
)

// Selector locates elements on the current page.
type Selector struct {
	Using Strategy
	Value string
}

// CSS builds a CSS selector.
func CSS(value string) Selector { return Selector{Using: ByCSS, Value: value} }

// XPath builds an XPath selector.
func XPath(value string) Selector { return Selector{Using: ByXPath, Value: value} }

// ButtonText selects buttons by their visible text.
func ButtonText(text string) Selector {
	return Selector{Using: ByButtonText, Value: text}
}

// LinkText selects links by their visible text.
func LinkText(text string) Selector {
	return Selector{Using: ByLinkText, Value: text}
}

// ContainsText selects elements of tag whose normalised text
// contains text, e.g. a button labelled "Sign in".
func ContainsText(tag, text string) Selector {
	return XPath(fmt.Sprintf(
		"//%s[contains(normalize-space(.), %q)]", tag, text,
	))
}

func (s Selector) String() string {
	return fmt.Sprintf("%s=%s", s.Using, s.Value)
}

// Element is a lazily resolved handle: every call re-locates the
// element, so a handle stays valid across page changes.
type Element interface {
	Selector() Selector
	Click(ctx context.Context) error
	Clear(ctx context.Context) error
	SetValue(ctx context.Context, text string) error
	Value(ctx context.Context) (string, error)
	Text(ctx context.Context) (string, error)
	// Attribute returns "" when the attribute is absent.
	Attribute(ctx context.Context, name string) (string, error)
	IsDisplayed(ctx context.Context) (bool, error)
	IsExisting(ctx context.Context) (bool, error)
	IsEnabled(ctx context.Context) (bool, error)
	IsClickable(ctx context.Context) (bool, error)
	ScrollIntoView(ctx context.Context) error
}

// Driver is one remote browser session.
type Driver interface {
	Navigate(ctx context.Context, url string) error
	Refresh(ctx context.Context) error
	CurrentURL(ctx context.Context) (string, error)
	Title(ctx context.Context) (string, error)
	// Find returns a lazy handle; it never fails.
	Find(sel Selector) Element
	FindAll(ctx context.Context, sel Selector) ([]Element, error)
	// ExecuteScript runs script in the page, decoding its return value
	// into result when result is non-nil.
	ExecuteScript(
		ctx context.Context,
		script string,
		args map[string]any,
		result any,
	) error
	SaveScreenshot(ctx context.Context, path string) error
	SetImplicitWait(ctx context.Context, d time.Duration) error
	Quit(ctx context.Context) error
}
