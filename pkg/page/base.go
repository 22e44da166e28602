// Package page models the screens under test as page objects. Each
// page holds a shared Actions value by composition; every
// interaction runs as a logged step through an action.Executor, and
// element handles are re-located on every access.
package page

import (
	"context"
	"errors"
	"fmt"
	"time"

	"digital.vasic.mobilelogin/pkg/action"
	"digital.vasic.mobilelogin/pkg/assertion"
	"digital.vasic.mobilelogin/pkg/driver"
	"digital.vasic.mobilelogin/pkg/logging"
	"digital.vasic.mobilelogin/pkg/wait"
)

// ErrNoCapturer is logged when a screenshot is requested from a page
// built without a capturer.
var ErrNoCapturer = errors.New("no screenshot capturer configured")

// Locator returns a fresh handle for one element.
type Locator func() driver.Element

// Selectors maps element names to their locators.
type Selectors map[string]Locator

// Timings holds the fixed pauses and bounded waits of the login
// flow.
type Timings struct {
	// SubmitPause follows a click on the login button.
	SubmitPause time.Duration
	// LoginInitiation bounds the wait for a redirect or error after
	// submitting.
	LoginInitiation time.Duration
	// LogoutRedirect bounds the wait for the login page after logout.
	LogoutRedirect time.Duration
	// ProfilePause follows opening the profile menu.
	ProfilePause time.Duration
	// InputSettle follows typing credentials that should be
	// validated client-side.
	InputSettle time.Duration
}

// DefaultTimings returns the timings used against the live site.
func DefaultTimings() Timings {
	return Timings{
		SubmitPause:     2 * time.Second,
		LoginInitiation: 15 * time.Second,
		LogoutRedirect:  10 * time.Second,
		ProfilePause:    time.Second,
		InputSettle:     time.Second,
	}
}

// Actions is the shared action set every page composes.
type Actions interface {
	NavigateTo(ctx context.Context, url string) error
	Refresh(ctx context.Context) error
	CurrentURL(ctx context.Context) (string, error)
	Title(ctx context.Context) (string, error)
	FindElement(ctx context.Context, sel driver.Selector) (driver.Element, error)
	FindElements(ctx context.Context, sel driver.Selector) ([]driver.Element, error)
	Click(ctx context.Context, el driver.Element, name string) error
	Type(ctx context.Context, el driver.Element, text, name string) error
	ScrollTo(ctx context.Context, el driver.Element) error
	Text(ctx context.Context, el driver.Element) (string, error)
	IsDisplayed(ctx context.Context, el driver.Element) bool
	IsExisting(ctx context.Context, el driver.Element) bool
	WaitForElement(ctx context.Context, el driver.Element, timeout time.Duration) bool
	TakeScreenshot(ctx context.Context, name string) string
	ExecuteScript(ctx context.Context, script string, args map[string]any, result any) error

	Locate(sel driver.Selector) Locator
	Driver() driver.Driver
	Logger() logging.Logger
	Executor() *action.Executor
	Checker() *assertion.Checker
	Waiter() *wait.Helper
	Timings() Timings
}

var _ Actions = (*Base)(nil)

// Base is the default Actions implementation over one session.
type Base struct {
	driver   driver.Driver
	logger   logging.Logger
	capturer action.ArtifactCapturer
	exec     *action.Executor
	waiter   *wait.Helper
	checker  *assertion.Checker
	timings  Timings
	explicit time.Duration
	interval time.Duration
	hooks    []func(action.Failure)
}

// Option configures a Base.
type Option func(*Base)

// WithCapturer sets where screenshots and failure artifacts go.
func WithCapturer(c action.ArtifactCapturer) Option {
	return func(b *Base) { b.capturer = c }
}

// WithChecker shares an existing Checker, so outcomes from several
// pages land in one place.
func WithChecker(c *assertion.Checker) Option {
	return func(b *Base) { b.checker = c }
}

// WithExplicitWait sets the default timeout of element and page
// waits.
func WithExplicitWait(d time.Duration) Option {
	return func(b *Base) { b.explicit = d }
}

// WithPollInterval sets the polling interval of every wait.
func WithPollInterval(d time.Duration) Option {
	return func(b *Base) { b.interval = d }
}

// WithTimings overrides DefaultTimings.
func WithTimings(t Timings) Option {
	return func(b *Base) { b.timings = t }
}

// WithFailureHook receives every failed step.
func WithFailureHook(fn func(action.Failure)) Option {
	return func(b *Base) { b.hooks = append(b.hooks, fn) }
}

// NewBase creates the shared action set for d.
func NewBase(d driver.Driver, logger logging.Logger, opts ...Option) *Base {
	b := &Base{
		driver:  d,
		logger:  logging.OrNull(logger),
		timings: DefaultTimings(),
	}
	for _, opt := range opts {
		opt(b)
	}

	execOpts := []action.Option{}
	if b.capturer != nil {
		execOpts = append(execOpts, action.WithCapturer(b.capturer))
	}
	for _, h := range b.hooks {
		execOpts = append(execOpts, action.WithFailureHook(h))
	}
	b.exec = action.NewExecutor(b.logger, execOpts...)

	var waitOpts []wait.HelperOption
	if b.interval > 0 {
		waitOpts = append(waitOpts, wait.WithInterval(b.interval))
	}
	b.waiter = wait.NewHelper(d, b.logger, b.explicit, waitOpts...)

	if b.checker == nil {
		b.checker = assertion.NewChecker(b.logger)
	}
	return b
}

func (b *Base) NavigateTo(ctx context.Context, url string) error {
	return b.exec.Do(ctx, "navigate to "+url, func(ctx context.Context) error {
		if err := b.driver.Navigate(ctx, url); err != nil {
			return err
		}
		return b.waiter.WaitForPageReady(ctx, 0)
	})
}

func (b *Base) Refresh(ctx context.Context) error {
	return b.exec.Do(ctx, "refresh page", func(ctx context.Context) error {
		if err := b.driver.Refresh(ctx); err != nil {
			return err
		}
		return b.waiter.WaitForPageReady(ctx, 0)
	})
}

func (b *Base) CurrentURL(ctx context.Context) (string, error) {
	return action.Execute(ctx, b.exec, "get current URL",
		func(ctx context.Context) (string, error) {
			url, err := b.driver.CurrentURL(ctx)
			if err != nil {
				return "", err
			}
			b.logger.Info("Current URL: " + url)
			return url, nil
		})
}

func (b *Base) Title(ctx context.Context) (string, error) {
	return action.Execute(ctx, b.exec, "get page title",
		func(ctx context.Context) (string, error) {
			title, err := b.driver.Title(ctx)
			if err != nil {
				return "", err
			}
			b.logger.Info("Page title: " + title)
			return title, nil
		})
}

// FindElement returns a handle for sel after an advisory wait for it
// to exist.
func (b *Base) FindElement(
	ctx context.Context,
	sel driver.Selector,
) (driver.Element, error) {
	return action.Execute(ctx, b.exec, "find element: "+sel.String(),
		func(ctx context.Context) (driver.Element, error) {
			el := b.driver.Find(sel)
			b.waiter.WaitForExists(ctx, el, 0)
			return el, nil
		})
}

func (b *Base) FindElements(
	ctx context.Context,
	sel driver.Selector,
) ([]driver.Element, error) {
	return action.Execute(ctx, b.exec, "find elements: "+sel.String(),
		func(ctx context.Context) ([]driver.Element, error) {
			return b.driver.FindAll(ctx, sel)
		})
}

func (b *Base) Click(ctx context.Context, el driver.Element, name string) error {
	return b.exec.Do(ctx, "click on "+name, func(ctx context.Context) error {
		b.waiter.WaitForClickable(ctx, el, 0)
		return el.Click(ctx)
	})
}

func (b *Base) Type(
	ctx context.Context,
	el driver.Element,
	text, name string,
) error {
	return b.exec.Do(ctx, "type into "+name, func(ctx context.Context) error {
		b.waiter.WaitForDisplayed(ctx, el, 0)
		if err := el.Clear(ctx); err != nil {
			return err
		}
		if err := el.SetValue(ctx, text); err != nil {
			return err
		}
		b.logger.Info(fmt.Sprintf(`Typed: "%s"`, text))
		return nil
	})
}

func (b *Base) ScrollTo(ctx context.Context, el driver.Element) error {
	return b.exec.Do(ctx, "scroll to element", el.ScrollIntoView)
}

func (b *Base) Text(ctx context.Context, el driver.Element) (string, error) {
	return action.Execute(ctx, b.exec, "get element text",
		func(ctx context.Context) (string, error) {
			b.waiter.WaitForDisplayed(ctx, el, 0)
			return el.Text(ctx)
		})
}

// IsDisplayed reports false on any lookup error.
func (b *Base) IsDisplayed(ctx context.Context, el driver.Element) bool {
	ok, err := el.IsDisplayed(ctx)
	return err == nil && ok
}

// IsExisting reports false on any lookup error.
func (b *Base) IsExisting(ctx context.Context, el driver.Element) bool {
	ok, err := el.IsExisting(ctx)
	return err == nil && ok
}

// WaitForElement waits for el to be displayed; a zero timeout uses
// the explicit wait.
func (b *Base) WaitForElement(
	ctx context.Context,
	el driver.Element,
	timeout time.Duration,
) bool {
	return b.waiter.WaitForDisplayed(ctx, el, timeout)
}

// TakeScreenshot saves a screenshot under name. Failures are logged
// and yield an empty path.
func (b *Base) TakeScreenshot(ctx context.Context, name string) string {
	if b.capturer == nil {
		b.logger.Error("Failed to take screenshot", logging.ErrorField(ErrNoCapturer))
		return ""
	}
	path, err := b.capturer.Capture(ctx, name)
	if err != nil {
		b.logger.Error("Failed to take screenshot", logging.ErrorField(err))
		return ""
	}
	return path
}

func (b *Base) ExecuteScript(
	ctx context.Context,
	script string,
	args map[string]any,
	result any,
) error {
	return b.exec.Do(ctx, "execute JavaScript", func(ctx context.Context) error {
		return b.driver.ExecuteScript(ctx, script, args, result)
	})
}

// Locate returns a Locator for sel on this session.
func (b *Base) Locate(sel driver.Selector) Locator {
	return func() driver.Element { return b.driver.Find(sel) }
}

func (b *Base) Driver() driver.Driver       { return b.driver }
func (b *Base) Logger() logging.Logger      { return b.logger }
func (b *Base) Executor() *action.Executor  { return b.exec }
func (b *Base) Checker() *assertion.Checker { return b.checker }
func (b *Base) Waiter() *wait.Helper        { return b.waiter }
func (b *Base) Timings() Timings            { return b.timings }

func locate(a Actions, sels map[string]driver.Selector) Selectors {
	out := make(Selectors, len(sels))
	for name, sel := range sels {
		out[name] = a.Locate(sel)
	}
	return out
}
