package scenario

import (
	"time"

	"digital.vasic.mobilelogin/pkg/config"
	"digital.vasic.mobilelogin/pkg/driver"
	"digital.vasic.mobilelogin/pkg/env"
	"digital.vasic.mobilelogin/pkg/fixtures"
	"digital.vasic.mobilelogin/pkg/logging"
	"digital.vasic.mobilelogin/pkg/page"
)

// Config holds runtime configuration for one scenario execution.
type Config struct {
	// ScenarioID identifies which scenario this config is for.
	ScenarioID ID `json:"scenario_id"`

	// ResultsDir is the directory where results are written.
	ResultsDir string `json:"results_dir"`

	// ScreenshotsDir is where session screenshots are saved.
	ScreenshotsDir string `json:"screenshots_dir"`

	// Timeout is the maximum duration for the scenario. A zero
	// value means the runner default.
	Timeout time.Duration `json:"timeout"`

	// Platform overrides App.Platform when set.
	Platform string `json:"platform,omitempty"`

	// Verbose enables detailed logging output.
	Verbose bool `json:"verbose"`

	App      *config.Config `json:"-"`
	Fixtures *fixtures.Set  `json:"-"`
	Logger   logging.Logger `json:"-"`
	Loader   env.Loader     `json:"-"`

	// Connector replaces the WebDriver transport of each session.
	Connector driver.Connector `json:"-"`

	// PageOptions are applied after the defaults derived from App.
	PageOptions []page.Option `json:"-"`
}

// NewConfig creates a Config with sensible defaults.
func NewConfig(id ID) *Config {
	return &Config{
		ScenarioID:     id,
		ResultsDir:     "results",
		ScreenshotsDir: config.DefaultScreenshotsDir,
		Timeout:        5 * time.Minute,
	}
}

// PlatformName returns the platform sessions are created for.
func (c *Config) PlatformName() string {
	if c.Platform != "" {
		return c.Platform
	}
	if c.App != nil {
		return c.App.Platform
	}
	return ""
}
