package scenario

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"digital.vasic.mobilelogin/pkg/driver"
	"digital.vasic.mobilelogin/pkg/logging"
	"digital.vasic.mobilelogin/pkg/page"
)

// Body is the test itself. Returning an error fails the scenario.
type Body func(ctx context.Context, s *Session) error

// Base runs a Body between a per-test setup and teardown: setup
// opens a device session and builds the page objects, teardown
// quits the session. Embed it, or use it directly through New.
type Base struct {
	id          ID
	name        string
	description string
	category    string
	body        Body
	config      *Config
	logger      logging.Logger
	session     *Session
}

// New creates a scenario that runs body.
func New(
	id ID,
	name, description, category string,
	body Body,
) *Base {
	return &Base{
		id:          id,
		name:        name,
		description: description,
		category:    category,
		body:        body,
		logger:      logging.NullLogger{},
	}
}

// ID returns the scenario identifier.
func (b *Base) ID() ID { return b.id }

// Name returns the test title.
func (b *Base) Name() string { return b.name }

// Description returns the scenario description.
func (b *Base) Description() string { return b.description }

// Category returns the scenario category.
func (b *Base) Category() string { return b.category }

// Config returns the runtime configuration, or nil if Configure has
// not been called.
func (b *Base) Config() *Config { return b.config }

// Configure stores the runtime config and ensures the results and
// screenshots directories exist.
func (b *Base) Configure(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config must not be nil")
	}
	b.config = cfg
	b.logger = logging.OrNull(cfg.Logger).WithFields(
		logging.StringField("scenario", string(b.id)),
	)

	for _, dir := range []string{b.ResultsDir(), cfg.ScreenshotsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create dir %s: %w", dir, err)
		}
	}
	return nil
}

// Validate checks that Configure supplied everything setup needs.
func (b *Base) Validate(_ context.Context) error {
	switch {
	case b.config == nil:
		return fmt.Errorf("scenario %s: not configured", b.id)
	case b.config.App == nil:
		return fmt.Errorf("scenario %s: no app config", b.id)
	case b.config.Fixtures == nil:
		return fmt.Errorf("scenario %s: no fixtures", b.id)
	case b.body == nil:
		return fmt.Errorf("scenario %s: no test body", b.id)
	}
	return nil
}

// ResultsDir returns the results directory for this scenario.
func (b *Base) ResultsDir() string {
	if b.config == nil || b.config.ResultsDir == "" {
		return filepath.Join("results", string(b.id))
	}
	return filepath.Join(b.config.ResultsDir, string(b.id))
}

// Execute runs setup, the body and teardown. A failing body is
// logged, screenshotted and reported as StatusFailed, or
// StatusTimedOut when ctx expired; a setup failure is StatusError.
func (b *Base) Execute(ctx context.Context) (*Result, error) {
	if err := b.Validate(ctx); err != nil {
		return nil, err
	}

	res := &Result{
		ScenarioID:   b.id,
		ScenarioName: b.name,
		Category:     b.category,
		Status:       StatusRunning,
		StartTime:    time.Now(),
		Platform:     b.config.PlatformName(),
		Outputs:      map[string]string{},
	}
	b.logger.LogTest(logging.TestLog{Name: b.name, Phase: logging.PhaseStarted})

	b.logger.Info("========== TEST SETUP STARTED ==========")
	sess, err := b.setUp(ctx)
	if err != nil {
		b.logger.Error("Test setup failed", logging.ErrorField(err))
		b.logger.Error("Test failed: "+b.name, logging.ErrorField(err))
		res.Status = StatusError
		res.Error = err.Error()
		return b.end(res), nil
	}
	b.logger.Info("========== TEST SETUP COMPLETED ==========")
	res.SessionID = sess.manager.LocalSessionID()

	if runErr := b.body(ctx, sess); runErr != nil {
		b.logger.Error("Test failed: "+b.name, logging.ErrorField(runErr))
		sess.Screenshot(context.WithoutCancel(ctx), "failure")
		res.Status = StatusFailed
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			res.Status = StatusTimedOut
		}
		res.Error = runErr.Error()
	} else {
		res.Status = StatusPassed
	}

	b.tearDown(ctx)
	res.Assertions = sess.Checker().Results()
	res.Outputs = sess.Outputs()
	res.Screenshots = sess.Screenshots()
	return b.end(res), nil
}

// Cleanup quits a session Execute left open. It never fails.
func (b *Base) Cleanup(ctx context.Context) error {
	b.tearDown(ctx)
	return nil
}

func (b *Base) setUp(ctx context.Context) (*Session, error) {
	cfg := b.config

	mopts := []driver.ManagerOption{}
	if p := cfg.Platform; p != "" {
		mopts = append(mopts, driver.WithPlatform(p))
	}
	if cfg.ScreenshotsDir != "" {
		mopts = append(mopts, driver.WithScreenshotsDir(cfg.ScreenshotsDir))
	}
	if cfg.Connector != nil {
		mopts = append(mopts, driver.WithConnector(cfg.Connector))
	}
	if cfg.Loader != nil {
		mopts = append(mopts, driver.WithLoader(cfg.Loader))
	}
	manager := driver.NewManager(cfg.App, b.logger, mopts...)

	d, err := manager.CreateDriver(ctx)
	if err != nil {
		return nil, fmt.Errorf("create driver: %w", err)
	}

	s := &Session{
		id:       b.id,
		manager:  manager,
		fixtures: cfg.Fixtures,
		logger:   b.logger,
		outputs:  map[string]string{},
	}
	popts := []page.Option{
		page.WithCapturer(s),
		page.WithExplicitWait(cfg.App.Test.ExplicitWait),
	}
	popts = append(popts, cfg.PageOptions...)
	s.actions = page.NewBase(d, b.logger, popts...)
	s.login = page.NewLoginPage(s.actions, cfg.Fixtures.URLs.Login())
	s.home = page.NewHomePage(s.actions, cfg.Fixtures.URLs.Home())

	b.session = s
	return s, nil
}

// tearDown quits the session even when ctx is already done. Errors
// are logged only.
func (b *Base) tearDown(ctx context.Context) {
	s := b.session
	if s == nil {
		return
	}
	b.session = nil
	b.logger.Info("========== TEST TEARDOWN STARTED ==========")
	if err := s.manager.QuitDriver(context.WithoutCancel(ctx)); err != nil {
		b.logger.Warn("Teardown could not quit driver", logging.ErrorField(err))
		return
	}
	b.logger.Info("========== TEST TEARDOWN COMPLETED ==========")
}

func (b *Base) end(res *Result) *Result {
	b.logger.LogTest(logging.TestLog{
		Name:   b.name,
		Phase:  logging.PhaseEnded,
		Status: res.Status,
	})
	return res.finish()
}
