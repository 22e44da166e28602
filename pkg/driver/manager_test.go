package driver_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.mobilelogin/pkg/config"
	"digital.vasic.mobilelogin/pkg/driver"
	"digital.vasic.mobilelogin/pkg/driver/drivertest"
	"digital.vasic.mobilelogin/pkg/env"
	"digital.vasic.mobilelogin/pkg/logging"
)

type connectCall struct {
	url  string
	caps config.Capabilities
}

func newTestManager(
	t *testing.T,
	fake *drivertest.Driver,
	connectErr error,
	opts ...driver.ManagerOption,
) (*driver.Manager, *logging.MemoryLogger, *[]connectCall) {
	t.Helper()
	cfg, err := config.Load(env.MapLoader{})
	require.NoError(t, err)
	cfg.Test.ScreenshotsDir = t.TempDir()

	var calls []connectCall
	connector := func(
		_ context.Context,
		url string,
		caps config.Capabilities,
		_ config.AppiumConfig,
	) (driver.Driver, error) {
		calls = append(calls, connectCall{url: url, caps: caps})
		if connectErr != nil {
			return nil, connectErr
		}
		return fake, nil
	}

	mem := logging.NewMemoryLogger()
	opts = append([]driver.ManagerOption{driver.WithConnector(connector)}, opts...)
	return driver.NewManager(cfg, mem, opts...), mem, &calls
}

func TestManager_CreateDriver(t *testing.T) {
	fake := drivertest.New()
	m, mem, calls := newTestManager(t, fake, nil)

	d, err := m.CreateDriver(context.Background())
	require.NoError(t, err)
	assert.Same(t, fake, d)

	require.Len(t, *calls, 1)
	assert.Equal(t, "http://127.0.0.1:4723/wd/hub", (*calls)[0].url)
	assert.Equal(t, "iOS", (*calls)[0].caps["platformName"])
	assert.Equal(t, 10*time.Second, fake.ImplicitWait())
	assert.NotEmpty(t, m.LocalSessionID())
	assert.Equal(t, "ios", m.Platform())
	assert.True(t, mem.Contains("Initializing driver for platform: ios"))
	assert.True(t, mem.Contains("Driver initialized successfully"))

	got, err := m.Driver()
	require.NoError(t, err)
	assert.Same(t, fake, got)
}

type remoteDriver struct {
	*drivertest.Driver
}

func (remoteDriver) RemoteSessionID() string { return "appium-7" }

func TestManager_SessionIDsLogged(t *testing.T) {
	cfg, err := config.Load(env.MapLoader{})
	require.NoError(t, err)
	mem := logging.NewMemoryLogger()

	m := driver.NewManager(cfg, mem, driver.WithConnector(func(
		context.Context, string, config.Capabilities, config.AppiumConfig,
	) (driver.Driver, error) {
		return remoteDriver{drivertest.New()}, nil
	}))
	_, err = m.CreateDriver(context.Background())
	require.NoError(t, err)

	entries := mem.Filter(func(e logging.Entry) bool {
		return e.Message == "Driver initialized successfully"
	})
	require.Len(t, entries, 1)
	assert.Equal(t, m.LocalSessionID(), entries[0].Fields["local_session"])
	assert.Equal(t, "appium-7", entries[0].Fields["remote_session"])
	assert.NotContains(t, entries[0].Fields, "session")

	plain, plainMem, _ := newTestManager(t, drivertest.New(), nil)
	_, err = plain.CreateDriver(context.Background())
	require.NoError(t, err)
	entries = plainMem.Filter(func(e logging.Entry) bool {
		return e.Message == "Driver initialized successfully"
	})
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0].Fields, "remote_session")
}

func TestManager_DriverBeforeCreate(t *testing.T) {
	m, _, _ := newTestManager(t, drivertest.New(), nil)

	_, err := m.Driver()
	assert.True(t, errors.Is(err, driver.ErrNotInitialized))

	_, err = m.TakeScreenshot(context.Background(), "x")
	assert.True(t, errors.Is(err, driver.ErrNotInitialized))

	assert.NoError(t, m.QuitDriver(context.Background()))
}

func TestManager_UnsupportedPlatform(t *testing.T) {
	m, mem, calls := newTestManager(t, drivertest.New(), nil,
		driver.WithPlatform("windows"))

	_, err := m.CreateDriver(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrUnsupportedPlatform))
	assert.Empty(t, *calls)
	assert.Len(t, mem.Level(logging.LevelError), 1)
}

func TestManager_ConnectFailure(t *testing.T) {
	boom := errors.New("connection refused")
	m, mem, _ := newTestManager(t, nil, boom)

	_, err := m.CreateDriver(context.Background())
	assert.Same(t, boom, err)
	assert.True(t, mem.Contains("Failed to initialize driver"))

	_, err = m.Driver()
	assert.True(t, errors.Is(err, driver.ErrNotInitialized))
}

func TestManager_AndroidCapabilityOverrides(t *testing.T) {
	m, _, calls := newTestManager(t, drivertest.New(), nil,
		driver.WithPlatform("android"),
		driver.WithLoader(env.MapLoader{"ANDROID_DEVICE_NAME": "Pixel 8"}),
	)

	_, err := m.CreateDriver(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Pixel 8", (*calls)[0].caps["deviceName"])
}

func TestManager_TakeScreenshot(t *testing.T) {
	fake := drivertest.New()
	dir := t.TempDir()
	m, mem, _ := newTestManager(t, fake, nil, driver.WithScreenshotsDir(dir))

	_, err := m.CreateDriver(context.Background())
	require.NoError(t, err)

	path, err := m.Capture(context.Background(), "valid-login-test-page-loaded-1")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "valid-login-test-page-loaded-1.png"), path)
	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)
	assert.Len(t, mem.Kind(logging.RecordScreenshot), 1)

	fake.ScreenshotErr = errors.New("session gone")
	_, err = m.TakeScreenshot(context.Background(), "again")
	assert.EqualError(t, err, "session gone")
	assert.True(t, mem.Contains("Failed to take screenshot"))
}

func TestManager_QuitDriver(t *testing.T) {
	fake := drivertest.New()
	m, mem, _ := newTestManager(t, fake, nil)
	_, err := m.CreateDriver(context.Background())
	require.NoError(t, err)

	fake.QuitErr = errors.New("quit failed")
	assert.EqualError(t, m.QuitDriver(context.Background()), "quit failed")
	_, err = m.Driver()
	assert.NoError(t, err, "session kept after a failed quit")

	fake.QuitErr = nil
	require.NoError(t, m.QuitDriver(context.Background()))
	assert.True(t, fake.Quitted())
	assert.Empty(t, m.LocalSessionID())
	assert.True(t, mem.Contains("Driver quit successfully"))

	_, err = m.Driver()
	assert.True(t, errors.Is(err, driver.ErrNotInitialized))
}
