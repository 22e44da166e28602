package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"digital.vasic.mobilelogin/pkg/config"
	"digital.vasic.mobilelogin/pkg/env"
	"digital.vasic.mobilelogin/pkg/fixtures"
)

// defaultEnvFile is read when present and no --env-file is given.
const defaultEnvFile = ".env"

// SetupFlags are shared by every command that resolves settings.
type SetupFlags struct {
	Platform string
	EnvFile  string
	Fixtures string
}

func addSetupFlags(cmd *cobra.Command, f *SetupFlags) {
	cmd.Flags().StringVarP(&f.Platform, "platform", "p", "", "device platform (ios|android), overrides PLATFORM")
	cmd.Flags().StringVar(&f.EnvFile, "env-file", "", "dotenv file to load (default .env when present)")
	cmd.Flags().StringVar(&f.Fixtures, "fixtures", "", "YAML file overriding the built-in credentials")
}

// settings is everything resolved from flags and the environment.
type settings struct {
	loader   env.Loader
	app      *config.Config
	fixtures *fixtures.Set
}

// resolve loads the env file, the run config and the fixtures. A
// missing default .env is not an error; a missing --env-file is.
func (f *SetupFlags) resolve(loader env.Loader) (*settings, error) {
	path := f.EnvFile
	if path == "" {
		if _, err := os.Stat(defaultEnvFile); err == nil {
			path = defaultEnvFile
		}
	}
	if path != "" {
		if err := loader.Load(path); err != nil {
			return nil, err
		}
	}

	app, err := config.Load(loader)
	if err != nil {
		return nil, err
	}
	if f.Platform != "" {
		p, err := config.ParsePlatform(f.Platform)
		if err != nil {
			return nil, err
		}
		app.Platform = string(p)
	}

	set := fixtures.Default(loader)
	if f.Fixtures != "" {
		if set, err = fixtures.LoadFile(f.Fixtures, set); err != nil {
			return nil, err
		}
	}
	return &settings{loader: loader, app: app, fixtures: set}, nil
}

// RunFlags are the run command's own flags.
type RunFlags struct {
	SetupFlags
	Results     string
	MonitorAddr string
	Match       string
	Timeout     time.Duration
	Verbose     bool
}

func addRunFlags(cmd *cobra.Command, f *RunFlags) {
	addSetupFlags(cmd, &f.SetupFlags)
	cmd.Flags().StringVar(&f.Results, "results", "results", "base directory for run results")
	cmd.Flags().StringVar(&f.MonitorAddr, "monitor-addr", "", "serve the live monitor on this address (e.g. :8090)")
	cmd.Flags().StringVar(&f.Match, "match", "", "only run scenarios whose ID or name matches this regexp")
	cmd.Flags().DurationVar(&f.Timeout, "timeout", 5*time.Minute, "per-scenario timeout")
	cmd.Flags().BoolVarP(&f.Verbose, "verbose", "v", false, "enable debug output on the console")
}

func (f *RunFlags) validate() error {
	if f.Timeout <= 0 {
		return fmt.Errorf("--timeout must be positive, got %s", f.Timeout)
	}
	if f.Results == "" {
		return errors.New("--results must not be empty")
	}
	return nil
}
