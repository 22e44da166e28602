package scenario

import (
	"context"
	"fmt"
	"sync"
	"time"

	"digital.vasic.mobilelogin/pkg/assertion"
	"digital.vasic.mobilelogin/pkg/driver"
	"digital.vasic.mobilelogin/pkg/fixtures"
	"digital.vasic.mobilelogin/pkg/logging"
	"digital.vasic.mobilelogin/pkg/page"
)

// Session is the per-test state handed to a scenario body: one
// device session with its page objects and test data.
type Session struct {
	id       ID
	manager  *driver.Manager
	actions  *page.Base
	login    *page.LoginPage
	home     *page.HomePage
	fixtures *fixtures.Set
	logger   logging.Logger

	mu          sync.Mutex
	outputs     map[string]string
	screenshots []string
}

func (s *Session) Manager() *driver.Manager    { return s.manager }
func (s *Session) Actions() *page.Base         { return s.actions }
func (s *Session) Login() *page.LoginPage      { return s.login }
func (s *Session) Home() *page.HomePage        { return s.home }
func (s *Session) Fixtures() *fixtures.Set     { return s.fixtures }
func (s *Session) Logger() logging.Logger      { return s.logger }
func (s *Session) Checker() *assertion.Checker { return s.actions.Checker() }

// Step logs a numbered step of the test body.
func (s *Session) Step(description string) {
	s.logger.LogStep(logging.StepLog{Description: description})
}

// ScreenshotName builds <test>-<suffix>-<unixmillis>, or
// <test>-<unixmillis> without a suffix.
func ScreenshotName(id ID, suffix string, at time.Time) string {
	if suffix == "" {
		return fmt.Sprintf("%s-%d", id, at.UnixMilli())
	}
	return fmt.Sprintf("%s-%s-%d", id, suffix, at.UnixMilli())
}

// Screenshot saves a screenshot named after the test and suffix and
// returns its path, or "" when it could not be taken.
func (s *Session) Screenshot(ctx context.Context, suffix string) string {
	return s.actions.TakeScreenshot(ctx, ScreenshotName(s.id, suffix, time.Now()))
}

// Capture saves a screenshot through the session's Manager and
// records its path.
func (s *Session) Capture(ctx context.Context, name string) (string, error) {
	path, err := s.manager.TakeScreenshot(ctx, name)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.screenshots = append(s.screenshots, path)
	s.mu.Unlock()
	return path, nil
}

// SetOutput records a named value in the result.
func (s *Session) SetOutput(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outputs[key] = value
}

// Outputs returns a copy of the recorded values.
func (s *Session) Outputs() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.outputs))
	for k, v := range s.outputs {
		out[k] = v
	}
	return out
}

// Screenshots returns the paths saved so far.
func (s *Session) Screenshots() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.screenshots...)
}
