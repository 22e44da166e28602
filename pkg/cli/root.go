// Package cli provides the mobilelogin command line: run the login
// suite against a device session, list its scenarios and show the
// capabilities sent for a platform.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"digital.vasic.mobilelogin/pkg/driver"
	"digital.vasic.mobilelogin/pkg/env"
	"digital.vasic.mobilelogin/pkg/logging"
	"digital.vasic.mobilelogin/pkg/page"
)

// ErrScenariosFailed is returned by the run command when at least
// one scenario did not pass.
var ErrScenariosFailed = errors.New("one or more scenarios failed")

// BuildInfo contains version information set at build time via
// ldflags.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// Deps are the collaborators commands use. Zero values select the
// production implementations.
type Deps struct {
	// Loader resolves environment settings; nil uses env.NewLoader.
	Loader env.Loader
	// Connector opens device sessions; nil uses the WebDriver client.
	Connector driver.Connector
	// Logger replaces the console and file loggers.
	Logger logging.Logger
	// PageOptions are appended to every scenario's page options.
	PageOptions []page.Option
}

func (d Deps) loader() env.Loader {
	if d.Loader != nil {
		return d.Loader
	}
	return env.NewLoader()
}

// NewRootCmd creates the mobilelogin root command.
func NewRootCmd(info BuildInfo, deps Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mobilelogin",
		Short: "Mobile browser login-flow test suite",
		Long: `mobilelogin drives a mobile browser through an Appium server and
checks the login flow: valid sign-in, rejected credentials, the form
elements and graceful handling of a page that fails to load.`,
		Version: formatVersion(info),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(
		newRunCmd(deps),
		newScenariosCmd(deps),
		newCapabilitiesCmd(deps),
	)
	return cmd
}

func formatVersion(info BuildInfo) string {
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "none"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.Date)
}

// Execute runs the root command with the production dependencies.
func Execute(ctx context.Context, info BuildInfo) error {
	return NewRootCmd(info, Deps{}).ExecuteContext(ctx)
}

// ExitCode maps an Execute error to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}
