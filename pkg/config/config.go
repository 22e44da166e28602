// Package config resolves Appium connection settings, test timeouts
// and per-platform device capabilities from the environment.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"digital.vasic.mobilelogin/pkg/env"
)

// Environment keys read by Load.
const (
	KeyAppiumHost             = "APPIUM_HOST"
	KeyAppiumPort             = "APPIUM_PORT"
	KeyBaseURL                = "BASE_URL"
	KeyDefaultTimeout         = "DEFAULT_TIMEOUT"
	KeyImplicitWait           = "IMPLICIT_WAIT"
	KeyExplicitWait           = "EXPLICIT_WAIT"
	KeyPlatform               = "PLATFORM"
	KeyLogLevel               = "LOG_LEVEL"
	KeyConnectionRetryCount   = "CONNECTION_RETRY_COUNT"
	KeyConnectionRetryTimeout = "CONNECTION_RETRY_TIMEOUT"
	KeyScreenshotsDir         = "SCREENSHOTS_DIR"
	KeyLogsDir                = "LOGS_DIR"
)

// Defaults applied when a key is unset or unparsable.
const (
	DefaultAppiumHost             = "127.0.0.1"
	DefaultAppiumPort             = 4723
	DefaultAppiumPath             = "/wd/hub"
	DefaultProtocol               = "http"
	DefaultBaseURL                = "https://www.wwgoa.com"
	DefaultLoginPath              = "/login"
	DefaultTimeout                = 30 * time.Second
	DefaultImplicitWait           = 10 * time.Second
	DefaultExplicitWait           = 20 * time.Second
	DefaultLogLevel               = "info"
	DefaultConnectionRetryCount   = 3
	DefaultConnectionRetryTimeout = 120 * time.Second
	DefaultScreenshotsDir         = "screenshots"
	DefaultLogsDir                = "logs"
)

// AppiumConfig describes how to reach the Appium server.
type AppiumConfig struct {
	Host                   string        `json:"host" yaml:"host"`
	Port                   int           `json:"port" yaml:"port"`
	Path                   string        `json:"path" yaml:"path"`
	Protocol               string        `json:"protocol" yaml:"protocol"`
	LogLevel               string        `json:"log_level" yaml:"log_level"`
	ConnectionRetryCount   int           `json:"connection_retry_count" yaml:"connection_retry_count"`
	ConnectionRetryTimeout time.Duration `json:"connection_retry_timeout" yaml:"connection_retry_timeout"`
}

// URL returns the WebDriver endpoint, e.g. http://127.0.0.1:4723/wd/hub.
func (a AppiumConfig) URL() string {
	return fmt.Sprintf("%s://%s:%d%s", a.Protocol, a.Host, a.Port, a.Path)
}

// TestConfig holds the site under test and wait budgets.
type TestConfig struct {
	BaseURL        string        `json:"base_url" yaml:"base_url"`
	LoginPath      string        `json:"login_path" yaml:"login_path"`
	DefaultTimeout time.Duration `json:"default_timeout" yaml:"default_timeout"`
	ImplicitWait   time.Duration `json:"implicit_wait" yaml:"implicit_wait"`
	ExplicitWait   time.Duration `json:"explicit_wait" yaml:"explicit_wait"`
	ScreenshotsDir string        `json:"screenshots_dir" yaml:"screenshots_dir"`
	LogsDir        string        `json:"logs_dir" yaml:"logs_dir"`
}

// LoginURL joins BaseURL and LoginPath.
func (t TestConfig) LoginURL() string {
	return strings.TrimRight(t.BaseURL, "/") + t.LoginPath
}

// Config is the resolved run configuration.
type Config struct {
	Appium   AppiumConfig `json:"appium" yaml:"appium"`
	Test     TestConfig   `json:"test" yaml:"test"`
	Platform string       `json:"platform" yaml:"platform"`
	LogLevel string       `json:"log_level" yaml:"log_level"`
}

// AppiumURL returns the WebDriver endpoint.
func (c *Config) AppiumURL() string {
	return c.Appium.URL()
}

// Load resolves a Config from loader, falling back to defaults for
// every unset or non-positive numeric value.
func Load(loader env.Loader) (*Config, error) {
	if loader == nil {
		return nil, errors.New("config: env loader is required")
	}

	cfg := &Config{
		Appium: AppiumConfig{
			Host:     loader.GetWithDefault(KeyAppiumHost, DefaultAppiumHost),
			Port:     intOr(loader.Get(KeyAppiumPort), DefaultAppiumPort),
			Path:     DefaultAppiumPath,
			Protocol: DefaultProtocol,
			LogLevel: DefaultLogLevel,
			ConnectionRetryCount: intOr(
				loader.Get(KeyConnectionRetryCount),
				DefaultConnectionRetryCount,
			),
			ConnectionRetryTimeout: millisOr(
				loader.Get(KeyConnectionRetryTimeout),
				DefaultConnectionRetryTimeout,
			),
		},
		Test: TestConfig{
			BaseURL:   loader.GetWithDefault(KeyBaseURL, DefaultBaseURL),
			LoginPath: DefaultLoginPath,
			DefaultTimeout: millisOr(
				loader.Get(KeyDefaultTimeout), DefaultTimeout,
			),
			ImplicitWait: millisOr(
				loader.Get(KeyImplicitWait), DefaultImplicitWait,
			),
			ExplicitWait: millisOr(
				loader.Get(KeyExplicitWait), DefaultExplicitWait,
			),
			ScreenshotsDir: loader.GetWithDefault(
				KeyScreenshotsDir, DefaultScreenshotsDir,
			),
			LogsDir: loader.GetWithDefault(KeyLogsDir, DefaultLogsDir),
		},
		Platform: strings.ToLower(
			loader.GetWithDefault(KeyPlatform, string(PlatformIOS)),
		),
		LogLevel: loader.GetWithDefault(KeyLogLevel, DefaultLogLevel),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the platform and the Appium endpoint.
func (c *Config) Validate() error {
	if _, err := ParsePlatform(c.Platform); err != nil {
		return err
	}
	if c.Appium.Host == "" {
		return errors.New("config: appium host is empty")
	}
	if c.Appium.Port <= 0 || c.Appium.Port > 65535 {
		return fmt.Errorf("config: invalid appium port %d", c.Appium.Port)
	}
	return nil
}

func intOr(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func millisOr(raw string, def time.Duration) time.Duration {
	n := intOr(raw, 0)
	if n == 0 {
		return def
	}
	return time.Duration(n) * time.Millisecond
}
