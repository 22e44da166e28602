// Package drivertest provides an in-memory driver.Driver whose page
// state is scripted by the test.
package drivertest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"digital.vasic.mobilelogin/pkg/driver"
)

// ErrNoSuchElement is returned for interactions with an element that
// is not on the page.
var ErrNoSuchElement = errors.New("no such element")

// Element is the scripted state of one page element. Mutate it only
// inside Driver.Update or Driver.Do once the driver is shared with
// other goroutines.
type Element struct {
	Exists     bool
	Displayed  bool
	Enabled    bool
	Text       string
	InputValue string
	Attrs      map[string]string
	// Err, when set, is returned by every element call.
	Err error

	Clicks int
	// OnClick and OnSetValue run after the state change, outside the
	// driver lock.
	OnClick    func()
	OnSetValue func(value string)
}

// Visible returns an element that exists and is displayed and enabled.
func Visible() *Element {
	return &Element{
		Exists:    true,
		Displayed: true,
		Enabled:   true,
		Attrs:     map[string]string{},
	}
}

var _ driver.Driver = (*Driver)(nil)

// Driver is a scripted driver.Driver.
type Driver struct {
	mu           sync.Mutex
	url          string
	title        string
	readyState   string
	elements     map[driver.Selector]*Element
	screenshots  []string
	scripts      []string
	implicitWait time.Duration
	quit         bool
	navigations  []string

	// Injected failures.
	NavigateErr   error
	ScreenshotErr error
	ScriptErr     error
	QuitErr       error
	URLErr        error

	// OnNavigate runs after Navigate updates the URL.
	OnNavigate func(url string)
}

// New creates a driver on about:blank with a complete document.
func New() *Driver {
	return &Driver{
		url:        "about:blank",
		readyState: "complete",
		elements:   make(map[driver.Selector]*Element),
	}
}

// Do runs fn under the driver lock. fn must not call other Driver
// methods; use Update to change a scripted element.
func (d *Driver) Do(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn()
}

// Update runs fn on the element at sel under the driver lock. It
// reports false when nothing is scripted at sel.
func (d *Driver) Update(sel driver.Selector, fn func(el *Element)) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	el, ok := d.elements[sel]
	if !ok {
		return false
	}
	fn(el)
	return true
}

// Put places el at sel, replacing any previous element.
func (d *Driver) Put(sel driver.Selector, el *Element) *Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	if el.Attrs == nil {
		el.Attrs = map[string]string{}
	}
	d.elements[sel] = el
	return el
}

// Remove takes the element at sel off the page.
func (d *Driver) Remove(sel driver.Selector) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.elements, sel)
}

// Get returns the scripted element at sel, or nil.
func (d *Driver) Get(sel driver.Selector) *Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.elements[sel]
}

// SetURL moves the page to url without running OnNavigate.
func (d *Driver) SetURL(url string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.url = url
}

// SetTitle sets the page title.
func (d *Driver) SetTitle(title string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.title = title
}

// SetReadyState sets document.readyState.
func (d *Driver) SetReadyState(state string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.readyState = state
}

// Screenshots returns every path passed to SaveScreenshot.
func (d *Driver) Screenshots() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.screenshots...)
}

// Navigations returns every URL passed to Navigate.
func (d *Driver) Navigations() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.navigations...)
}

// Scripts returns every script executed.
func (d *Driver) Scripts() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.scripts...)
}

// ImplicitWait returns the last implicit wait set.
func (d *Driver) ImplicitWait() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.implicitWait
}

// Quitted reports whether Quit succeeded.
func (d *Driver) Quitted() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.quit
}

func (d *Driver) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	if d.NavigateErr != nil {
		err := d.NavigateErr
		d.mu.Unlock()
		return err
	}
	d.url = url
	d.navigations = append(d.navigations, url)
	hook := d.OnNavigate
	d.mu.Unlock()

	if hook != nil {
		hook(url)
	}
	return nil
}

func (d *Driver) Refresh(ctx context.Context) error {
	return ctx.Err()
}

func (d *Driver) CurrentURL(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.URLErr != nil {
		return "", d.URLErr
	}
	return d.url, nil
}

func (d *Driver) Title(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.title, nil
}

func (d *Driver) Find(sel driver.Selector) driver.Element {
	return &handle{d: d, sel: sel}
}

func (d *Driver) FindAll(
	ctx context.Context,
	sel driver.Selector,
) ([]driver.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if el, ok := d.elements[sel]; ok && el.Exists {
		return []driver.Element{&handle{d: d, sel: sel}}, nil
	}
	return nil, nil
}

// ExecuteScript answers document.readyState queries; other scripts
// are recorded and leave result untouched.
func (d *Driver) ExecuteScript(
	ctx context.Context,
	script string,
	_ map[string]any,
	result any,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.scripts = append(d.scripts, script)
	if d.ScriptErr != nil {
		return d.ScriptErr
	}
	if strings.Contains(script, "document.readyState") {
		if out, ok := result.(*string); ok {
			*out = d.readyState
		}
	}
	return nil
}

// SaveScreenshot writes a small placeholder file at path.
func (d *Driver) SaveScreenshot(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ScreenshotErr != nil {
		return d.ScreenshotErr
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte("\x89PNG\r\n\x1a\n"), 0644); err != nil {
		return err
	}
	d.screenshots = append(d.screenshots, path)
	return nil
}

func (d *Driver) SetImplicitWait(ctx context.Context, w time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.implicitWait = w
	return nil
}

func (d *Driver) Quit(_ context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.QuitErr != nil {
		return d.QuitErr
	}
	d.quit = true
	return nil
}

type handle struct {
	d   *Driver
	sel driver.Selector
}

// with runs fn on the live element under the lock. Missing elements
// yield ErrNoSuchElement unless allowMissing is set.
func (h *handle) with(
	ctx context.Context,
	allowMissing bool,
	fn func(el *Element) error,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.d.mu.Lock()
	defer h.d.mu.Unlock()
	el, ok := h.d.elements[h.sel]
	if ok && el.Err != nil {
		return el.Err
	}
	if !ok || !el.Exists {
		if allowMissing {
			return fn(nil)
		}
		return fmt.Errorf("%w: %s", ErrNoSuchElement, h.sel)
	}
	return fn(el)
}

func (h *handle) Selector() driver.Selector { return h.sel }

func (h *handle) Click(ctx context.Context) error {
	var hook func()
	err := h.with(ctx, false, func(el *Element) error {
		el.Clicks++
		hook = el.OnClick
		return nil
	})
	if err == nil && hook != nil {
		hook()
	}
	return err
}

func (h *handle) Clear(ctx context.Context) error {
	return h.with(ctx, false, func(el *Element) error {
		el.InputValue = ""
		return nil
	})
}

func (h *handle) SetValue(ctx context.Context, text string) error {
	var hook func(string)
	err := h.with(ctx, false, func(el *Element) error {
		el.InputValue = text
		hook = el.OnSetValue
		return nil
	})
	if err == nil && hook != nil {
		hook(text)
	}
	return err
}

func (h *handle) Value(ctx context.Context) (string, error) {
	var v string
	err := h.with(ctx, false, func(el *Element) error {
		v = el.InputValue
		return nil
	})
	return v, err
}

func (h *handle) Text(ctx context.Context) (string, error) {
	var v string
	err := h.with(ctx, false, func(el *Element) error {
		v = el.Text
		return nil
	})
	return v, err
}

func (h *handle) Attribute(ctx context.Context, name string) (string, error) {
	var v string
	err := h.with(ctx, false, func(el *Element) error {
		if name == "value" {
			v = el.InputValue
			return nil
		}
		v = el.Attrs[name]
		return nil
	})
	return v, err
}

func (h *handle) IsDisplayed(ctx context.Context) (bool, error) {
	var v bool
	err := h.with(ctx, true, func(el *Element) error {
		v = el != nil && el.Displayed
		return nil
	})
	return v, err
}

func (h *handle) IsExisting(ctx context.Context) (bool, error) {
	var v bool
	err := h.with(ctx, true, func(el *Element) error {
		v = el != nil
		return nil
	})
	return v, err
}

func (h *handle) IsEnabled(ctx context.Context) (bool, error) {
	var v bool
	err := h.with(ctx, false, func(el *Element) error {
		v = el.Enabled
		return nil
	})
	return v, err
}

func (h *handle) IsClickable(ctx context.Context) (bool, error) {
	var v bool
	err := h.with(ctx, true, func(el *Element) error {
		v = el != nil && el.Displayed && el.Enabled
		return nil
	})
	return v, err
}

func (h *handle) ScrollIntoView(ctx context.Context) error {
	return h.with(ctx, false, func(*Element) error { return nil })
}
