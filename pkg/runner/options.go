package runner

import (
	"time"

	"digital.vasic.mobilelogin/pkg/logging"
	"digital.vasic.mobilelogin/pkg/registry"
)

// RunnerOption configures a DefaultRunner.
type RunnerOption func(*DefaultRunner)

// WithRegistry sets the scenario registry used by the runner.
func WithRegistry(reg registry.Registry) RunnerOption {
	return func(r *DefaultRunner) {
		r.registry = reg
	}
}

// WithLogger sets the logger used by the runner.
func WithLogger(logger logging.Logger) RunnerOption {
	return func(r *DefaultRunner) {
		r.logger = logging.OrNull(logger)
	}
}

// WithTimeout sets the default execution timeout for scenarios
// that do not specify their own.
func WithTimeout(timeout time.Duration) RunnerOption {
	return func(r *DefaultRunner) {
		r.timeout = timeout
	}
}

// WithResultsDir sets the base directory under which each run gets
// its own results directory.
func WithResultsDir(dir string) RunnerOption {
	return func(r *DefaultRunner) {
		r.resultsDir = dir
	}
}

// WithRunID fixes the run identifier instead of generating one.
func WithRunID(id string) RunnerOption {
	return func(r *DefaultRunner) {
		r.runID = id
	}
}

// WithPreHook adds a pre-execution hook to the runner.
func WithPreHook(h Hook) RunnerOption {
	return func(r *DefaultRunner) {
		r.preHooks = append(r.preHooks, h)
	}
}

// WithPostHook adds a post-execution hook to the runner.
func WithPostHook(h Hook) RunnerOption {
	return func(r *DefaultRunner) {
		r.postHooks = append(r.postHooks, h)
	}
}

// WithObserver adds an Observer notified of run and scenario
// boundaries.
func WithObserver(o Observer) RunnerOption {
	return func(r *DefaultRunner) {
		r.observers = append(r.observers, o)
	}
}
