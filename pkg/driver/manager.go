package driver

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"digital.vasic.mobilelogin/pkg/config"
	"digital.vasic.mobilelogin/pkg/env"
	"digital.vasic.mobilelogin/pkg/logging"
)

// Connector opens a session at url. It is the seam between the
// Manager and the WebDriver transport.
type Connector func(
	ctx context.Context,
	url string,
	caps config.Capabilities,
	appium config.AppiumConfig,
) (Driver, error)

// AgoutiConnector returns the production Connector.
func AgoutiConnector(logger logging.Logger) Connector {
	return func(
		ctx context.Context,
		url string,
		caps config.Capabilities,
		appium config.AppiumConfig,
	) (Driver, error) {
		return Connect(ctx, url, caps, ConnectOptions{
			Retries: appium.ConnectionRetryCount,
			Timeout: appium.ConnectionRetryTimeout,
			Logger:  logger,
		})
	}
}

// Manager owns the lifecycle of one session: create, hand out,
// screenshot and quit.
type Manager struct {
	mu             sync.Mutex
	cfg            *config.Config
	loader         env.Loader
	logger         logging.Logger
	connect        Connector
	platform       string
	screenshotsDir string
	localID        string
	driver         Driver
}

// remoteIdentified is implemented by drivers that know the session
// id the server assigned.
type remoteIdentified interface {
	RemoteSessionID() string
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithConnector replaces the WebDriver transport.
func WithConnector(c Connector) ManagerOption {
	return func(m *Manager) { m.connect = c }
}

// WithLoader supplies the env lookups used for capability overrides.
func WithLoader(l env.Loader) ManagerOption {
	return func(m *Manager) { m.loader = l }
}

// WithPlatform overrides the configured platform.
func WithPlatform(p string) ManagerOption {
	return func(m *Manager) { m.platform = p }
}

// WithScreenshotsDir sets where TakeScreenshot writes.
func WithScreenshotsDir(dir string) ManagerOption {
	return func(m *Manager) { m.screenshotsDir = dir }
}

// NewManager creates a Manager for cfg. Without WithConnector the
// agouti transport is used.
func NewManager(
	cfg *config.Config,
	logger logging.Logger,
	opts ...ManagerOption,
) *Manager {
	m := &Manager{
		cfg:            cfg,
		logger:         logging.OrNull(logger),
		platform:       cfg.Platform,
		screenshotsDir: cfg.Test.ScreenshotsDir,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.connect == nil {
		m.connect = AgoutiConnector(m.logger)
	}
	if m.loader == nil {
		m.loader = env.MapLoader{}
	}
	if m.screenshotsDir == "" {
		m.screenshotsDir = config.DefaultScreenshotsDir
	}
	return m
}

// CreateDriver opens a session for the configured platform and
// applies the implicit wait.
func (m *Manager) CreateDriver(ctx context.Context) (Driver, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.Info(fmt.Sprintf(
		"Initializing driver for platform: %s", m.platform,
	))

	caps, err := config.ResolveCapabilities(m.platform, m.loader)
	if err != nil {
		m.logger.Error("Failed to initialize driver", logging.ErrorField(err))
		return nil, err
	}

	d, err := m.connect(ctx, m.cfg.AppiumURL(), caps, m.cfg.Appium)
	if err != nil {
		m.logger.Error("Failed to initialize driver", logging.ErrorField(err))
		return nil, err
	}

	if err := d.SetImplicitWait(ctx, m.cfg.Test.ImplicitWait); err != nil {
		m.logger.Error("Failed to initialize driver", logging.ErrorField(err))
		_ = d.Quit(ctx)
		return nil, fmt.Errorf("set implicit wait: %w", err)
	}

	m.driver = d
	m.localID = uuid.NewString()
	fields := []logging.Field{
		logging.StringField("local_session", m.localID),
		logging.StringField("appium", env.RedactURL(m.cfg.AppiumURL())),
	}
	if r, ok := d.(remoteIdentified); ok && r.RemoteSessionID() != "" {
		fields = append(fields,
			logging.StringField("remote_session", r.RemoteSessionID()))
	}
	m.logger.Info("Driver initialized successfully", fields...)
	return d, nil
}

// Driver returns the live session or ErrNotInitialized.
func (m *Manager) Driver() (Driver, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.driver == nil {
		return nil, ErrNotInitialized
	}
	return m.driver, nil
}

// LocalSessionID is a locally generated id for the live session,
// logged as local_session. It is not the WebDriver session id and
// is empty before CreateDriver.
func (m *Manager) LocalSessionID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.localID
}

// QuitDriver ends the session. It is a no-op without one; on error
// the session is kept so the caller may retry.
func (m *Manager) QuitDriver(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.driver == nil {
		return nil
	}

	m.logger.Info("Quitting driver...")
	if err := m.driver.Quit(ctx); err != nil {
		m.logger.Error("Error while quitting driver", logging.ErrorField(err))
		return err
	}
	m.driver = nil
	m.localID = ""
	m.logger.Info("Driver quit successfully")
	return nil
}

// TakeScreenshot saves <screenshotsDir>/<name>.png and returns the
// path.
func (m *Manager) TakeScreenshot(
	ctx context.Context,
	name string,
) (string, error) {
	d, err := m.Driver()
	if err != nil {
		return "", err
	}

	path := filepath.Join(m.screenshotsDir, name+".png")
	if err := d.SaveScreenshot(ctx, path); err != nil {
		m.logger.Error("Failed to take screenshot", logging.ErrorField(err))
		return "", err
	}
	m.logger.LogScreenshot(logging.ScreenshotLog{Path: path, Name: name})
	return path, nil
}

// Capture satisfies action.ArtifactCapturer.
func (m *Manager) Capture(ctx context.Context, name string) (string, error) {
	return m.TakeScreenshot(ctx, name)
}

// Platform returns the platform sessions are created for.
func (m *Manager) Platform() string {
	return m.platform
}
