package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sclevine/agouti"

	"digital.vasic.mobilelogin/pkg/config"
	"digital.vasic.mobilelogin/pkg/env"
	"digital.vasic.mobilelogin/pkg/logging"
)

// ConnectOptions tunes session creation.
type ConnectOptions struct {
	// Retries is the number of extra attempts per WebDriver request.
	Retries int
	// Timeout bounds each WebDriver HTTP request.
	Timeout time.Duration
	Logger  logging.Logger
}

var _ Driver = (*AgoutiSession)(nil)

// AgoutiSession is a Driver backed by an agouti WebDriver page.
type AgoutiSession struct {
	page     *agouti.Page
	recorder *recorder
}

// Connect opens a new remote session at url with the given
// capabilities. An error response from the server is returned as a
// *WebDriverError carrying the server's message.
func Connect(
	ctx context.Context,
	url string,
	caps config.Capabilities,
	opts ConnectOptions,
) (*AgoutiSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	client, rec := newHTTPClient(opts.Retries, opts.Timeout, opts.Logger)
	page, err := agouti.NewPage(
		url,
		agouti.Desired(agouti.Capabilities(caps)),
		agouti.HTTPClient(client),
	)
	if err != nil {
		if wdErr := rec.LastError(); wdErr != nil {
			err = wdErr
		}
		return nil, fmt.Errorf(
			"create webdriver session at %s: %w", env.RedactURL(url), err,
		)
	}
	return &AgoutiSession{page: page, recorder: rec}, nil
}

// RemoteSessionID returns the id the WebDriver server assigned.
func (s *AgoutiSession) RemoteSessionID() string {
	return s.recorder.SessionID()
}

func (s *AgoutiSession) all(sel Selector) *agouti.MultiSelection {
	switch sel.Using {
	case ByXPath:
		return s.page.AllByXPath(sel.Value)
	case ByButtonText:
		return s.page.AllByButton(sel.Value)
	case ByLinkText:
		return s.page.AllByLink(sel.Value)
	default:
		return s.page.All(sel.Value)
	}
}

func (s *AgoutiSession) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.page.Navigate(url)
}

func (s *AgoutiSession) Refresh(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.page.Refresh()
}

func (s *AgoutiSession) CurrentURL(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.page.URL()
}

func (s *AgoutiSession) Title(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.page.Title()
}

// Find returns the first match for sel, resolved on every call.
func (s *AgoutiSession) Find(sel Selector) Element {
	all := s.all(sel)
	return &agoutiElement{sel: sel, all: all, index: 0}
}

func (s *AgoutiSession) FindAll(
	ctx context.Context,
	sel Selector,
) ([]Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	all := s.all(sel)
	n, err := all.Count()
	if err != nil {
		return nil, err
	}
	out := make([]Element, n)
	for i := range out {
		out[i] = &agoutiElement{sel: sel, all: all, index: i}
	}
	return out, nil
}

func (s *AgoutiSession) ExecuteScript(
	ctx context.Context,
	script string,
	args map[string]any,
	result any,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if args == nil {
		args = map[string]any{}
	}
	return s.page.RunScript(script, args, result)
}

func (s *AgoutiSession) SaveScreenshot(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create screenshot directory: %w", err)
	}
	return s.page.Screenshot(path)
}

func (s *AgoutiSession) SetImplicitWait(
	ctx context.Context,
	d time.Duration,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.page.SetImplicitWait(int(d.Milliseconds()))
}

// Quit deletes the remote session.
func (s *AgoutiSession) Quit(_ context.Context) error {
	return s.page.Destroy()
}

type agoutiElement struct {
	sel   Selector
	all   *agouti.MultiSelection
	index int
}

func (e *agoutiElement) one() *agouti.Selection {
	return e.all.At(e.index)
}

func (e *agoutiElement) Selector() Selector { return e.sel }

func (e *agoutiElement) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.one().Click()
}

func (e *agoutiElement) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.one().Clear()
}

func (e *agoutiElement) SetValue(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.one().Fill(text)
}

func (e *agoutiElement) Value(ctx context.Context) (string, error) {
	return e.Attribute(ctx, "value")
}

func (e *agoutiElement) Text(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return e.one().Text()
}

func (e *agoutiElement) Attribute(
	ctx context.Context,
	name string,
) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return e.one().Attribute(name)
}

// IsDisplayed reports false, not an error, for a missing element.
func (e *agoutiElement) IsDisplayed(ctx context.Context) (bool, error) {
	exists, err := e.IsExisting(ctx)
	if err != nil || !exists {
		return false, err
	}
	return e.one().Visible()
}

func (e *agoutiElement) IsExisting(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	n, err := e.all.Count()
	if err != nil {
		return false, err
	}
	return n > e.index, nil
}

func (e *agoutiElement) IsEnabled(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return e.one().Enabled()
}

// IsClickable is displayed and enabled.
func (e *agoutiElement) IsClickable(ctx context.Context) (bool, error) {
	displayed, err := e.IsDisplayed(ctx)
	if err != nil || !displayed {
		return false, err
	}
	return e.IsEnabled(ctx)
}

func (e *agoutiElement) ScrollIntoView(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.one().MouseToElement()
}
