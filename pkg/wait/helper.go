package wait

import (
	"context"
	"fmt"
	"strings"
	"time"

	"digital.vasic.mobilelogin/pkg/driver"
	"digital.vasic.mobilelogin/pkg/logging"
)

// PageLoadTimeoutMessage is the error text when document.readyState
// never reaches "complete".
const PageLoadTimeoutMessage = "Page did not load within timeout"

const readyStateScript = "return document.readyState;"

// Helper waits on elements and page state of one session. Element
// waits are advisory and report false on timeout; page and URL waits
// return the timeout error.
type Helper struct {
	driver         driver.Driver
	logger         logging.Logger
	defaultTimeout time.Duration
	interval       time.Duration
}

// HelperOption configures a Helper.
type HelperOption func(*Helper)

// WithInterval overrides the polling interval.
func WithInterval(d time.Duration) HelperOption {
	return func(h *Helper) { h.interval = d }
}

// NewHelper creates a Helper. defaultTimeout is used whenever a wait
// is called with a zero timeout.
func NewHelper(
	d driver.Driver,
	logger logging.Logger,
	defaultTimeout time.Duration,
	opts ...HelperOption,
) *Helper {
	h := &Helper{
		driver:         d,
		logger:         logging.OrNull(logger),
		defaultTimeout: defaultTimeout,
		interval:       DefaultInterval,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.defaultTimeout <= 0 {
		h.defaultTimeout = 20 * time.Second
	}
	return h
}

// DefaultTimeout returns the timeout used for zero arguments.
func (h *Helper) DefaultTimeout() time.Duration {
	return h.defaultTimeout
}

func (h *Helper) resolve(timeout time.Duration) time.Duration {
	if timeout <= 0 {
		return h.defaultTimeout
	}
	return timeout
}

func (h *Helper) advisory(
	ctx context.Context,
	cond Condition,
	timeout time.Duration,
	state string,
) bool {
	timeout = h.resolve(timeout)
	err := PollUntil(ctx, cond, PollConfig{
		Timeout:  timeout,
		Interval: h.interval,
		Message: fmt.Sprintf(
			"Element %s after %dms", state, timeout.Milliseconds(),
		),
	})
	if err != nil {
		h.logger.Error(
			fmt.Sprintf("Element %s within timeout", state),
			logging.ErrorField(err),
		)
		return false
	}
	return true
}

// WaitForDisplayed waits for el to be visible.
func (h *Helper) WaitForDisplayed(
	ctx context.Context,
	el driver.Element,
	timeout time.Duration,
) bool {
	return h.advisory(ctx, el.IsDisplayed, timeout, "not displayed")
}

// WaitForClickable waits for el to be visible and enabled.
func (h *Helper) WaitForClickable(
	ctx context.Context,
	el driver.Element,
	timeout time.Duration,
) bool {
	return h.advisory(ctx, el.IsClickable, timeout, "not clickable")
}

// WaitForExists waits for el to be present in the DOM.
func (h *Helper) WaitForExists(
	ctx context.Context,
	el driver.Element,
	timeout time.Duration,
) bool {
	return h.advisory(ctx, el.IsExisting, timeout, "does not exist")
}

// WaitForEnabled waits for el to be enabled.
func (h *Helper) WaitForEnabled(
	ctx context.Context,
	el driver.Element,
	timeout time.Duration,
) bool {
	return h.advisory(ctx, el.IsEnabled, timeout, "not enabled")
}

// DocumentReady holds once document.readyState is "complete".
func DocumentReady(d driver.Driver) Condition {
	return func(ctx context.Context) (bool, error) {
		var state string
		if err := d.ExecuteScript(ctx, readyStateScript, nil, &state); err != nil {
			return false, err
		}
		return state == "complete", nil
	}
}

// URLContains holds while the current URL contains pattern.
func URLContains(d driver.Driver, pattern string) Condition {
	return func(ctx context.Context) (bool, error) {
		url, err := d.CurrentURL(ctx)
		if err != nil {
			return false, err
		}
		return strings.Contains(url, pattern), nil
	}
}

// URLNotContains holds while the current URL does not contain
// pattern.
func URLNotContains(d driver.Driver, pattern string) Condition {
	return func(ctx context.Context) (bool, error) {
		url, err := d.CurrentURL(ctx)
		if err != nil {
			return false, err
		}
		return !strings.Contains(url, pattern), nil
	}
}

// Any holds when at least one of conds holds. A condition error is
// treated as false for that condition.
func Any(conds ...Condition) Condition {
	return func(ctx context.Context) (bool, error) {
		var lastErr error
		for _, c := range conds {
			ok, err := c(ctx)
			if err != nil {
				lastErr = err
				continue
			}
			if ok {
				return true, nil
			}
		}
		return false, lastErr
	}
}

// WaitForPageReady waits for document.readyState to be "complete".
func (h *Helper) WaitForPageReady(
	ctx context.Context,
	timeout time.Duration,
) error {
	err := PollUntil(ctx, DocumentReady(h.driver), PollConfig{
		Timeout:  h.resolve(timeout),
		Interval: h.interval,
		Message:  PageLoadTimeoutMessage,
	})
	if err != nil {
		h.logger.Error("Page load timeout", logging.ErrorField(err))
		return err
	}
	h.logger.Info("Page loaded successfully")
	return nil
}

// WaitForURLChangeAway waits until the URL no longer contains
// pattern.
func (h *Helper) WaitForURLChangeAway(
	ctx context.Context,
	pattern string,
	timeout time.Duration,
) error {
	timeout = h.resolve(timeout)
	return h.WaitUntil(ctx, URLNotContains(h.driver, pattern), timeout,
		fmt.Sprintf("URL still contains %q after %dms",
			pattern, timeout.Milliseconds()))
}

// WaitForURLChangeTo waits until the URL contains pattern.
func (h *Helper) WaitForURLChangeTo(
	ctx context.Context,
	pattern string,
	timeout time.Duration,
) error {
	timeout = h.resolve(timeout)
	return h.WaitUntil(ctx, URLContains(h.driver, pattern), timeout,
		fmt.Sprintf("URL does not contain %q after %dms",
			pattern, timeout.Milliseconds()))
}

// WaitUntil polls cond and returns the timeout error, logged under
// message. An empty message becomes "Condition not met".
func (h *Helper) WaitUntil(
	ctx context.Context,
	cond Condition,
	timeout time.Duration,
	message string,
) error {
	if message == "" {
		message = "Condition not met"
	}
	err := PollUntil(ctx, cond, PollConfig{
		Timeout:  h.resolve(timeout),
		Interval: h.interval,
		Message:  message,
	})
	if err != nil {
		h.logger.Error(message, logging.ErrorField(err))
	}
	return err
}

// Pause sleeps for d or until ctx is done.
func (h *Helper) Pause(ctx context.Context, d time.Duration) error {
	return Sleep(ctx, d)
}

// Sleep sleeps for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
