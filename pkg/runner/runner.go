// Package runner provides the scenario execution engine. Scenarios
// run one at a time, each with its own timeout and lifecycle hooks;
// a failing scenario never stops the run.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"digital.vasic.mobilelogin/pkg/logging"
	"digital.vasic.mobilelogin/pkg/registry"
	"digital.vasic.mobilelogin/pkg/scenario"
)

// Runner defines the interface for scenario execution.
type Runner interface {
	// Run executes a single scenario by ID.
	Run(
		ctx context.Context,
		id scenario.ID,
		cfg *scenario.Config,
	) (*scenario.Result, error)

	// RunAll executes every registered scenario in registration
	// order.
	RunAll(
		ctx context.Context,
		cfg *scenario.Config,
	) ([]*scenario.Result, error)

	// RunSequence executes the given scenarios in order.
	RunSequence(
		ctx context.Context,
		ids []scenario.ID,
		cfg *scenario.Config,
	) ([]*scenario.Result, error)
}

// Observer receives run lifecycle notifications.
type Observer interface {
	RunStarted(runID string, total int)
	ScenarioStarted(runID string, s scenario.Scenario)
	ScenarioFinished(runID string, r *scenario.Result)
	RunFinished(runID string, results []*scenario.Result)
}

// Hook is a function invoked before or after scenario execution.
type Hook func(
	ctx context.Context,
	s scenario.Scenario,
	cfg *scenario.Config,
) error

// DefaultRunner is the standard Runner implementation.
type DefaultRunner struct {
	registry   registry.Registry
	logger     logging.Logger
	timeout    time.Duration
	resultsDir string
	runID      string
	preHooks   []Hook
	postHooks  []Hook
	observers  []Observer
}

// NewRunner creates a DefaultRunner with the supplied options.
func NewRunner(opts ...RunnerOption) *DefaultRunner {
	r := &DefaultRunner{
		registry: registry.Default,
		logger:   logging.NullLogger{},
		timeout:  5 * time.Minute,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.runID == "" {
		r.runID = uuid.NewString()
	}
	return r
}

// RunID identifies this runner's run in logs, events and reports.
func (r *DefaultRunner) RunID() string { return r.runID }

// Run executes a single scenario by ID.
func (r *DefaultRunner) Run(
	ctx context.Context,
	id scenario.ID,
	cfg *scenario.Config,
) (*scenario.Result, error) {
	s, err := r.registry.Get(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get scenario: %w", err)
	}
	results, err := r.runList(ctx, []scenario.Scenario{s}, cfg)
	if len(results) == 0 {
		return nil, err
	}
	return results[0], err
}

// RunAll executes every registered scenario in registration order.
func (r *DefaultRunner) RunAll(
	ctx context.Context,
	cfg *scenario.Config,
) ([]*scenario.Result, error) {
	return r.runList(ctx, r.registry.List(), cfg)
}

// RunSequence executes the given scenarios in order. Every ID is
// resolved before anything runs.
func (r *DefaultRunner) RunSequence(
	ctx context.Context,
	ids []scenario.ID,
	cfg *scenario.Config,
) ([]*scenario.Result, error) {
	list := make([]scenario.Scenario, 0, len(ids))
	for _, id := range ids {
		s, err := r.registry.Get(id)
		if err != nil {
			return nil, fmt.Errorf("failed to get scenario %s: %w", id, err)
		}
		list = append(list, s)
	}
	return r.runList(ctx, list, cfg)
}

// runList runs list in order. Once ctx is done the remaining
// scenarios are reported as skipped and ctx.Err() is returned.
func (r *DefaultRunner) runList(
	ctx context.Context,
	list []scenario.Scenario,
	base *scenario.Config,
) ([]*scenario.Result, error) {
	if base == nil {
		return nil, errors.New("config must not be nil")
	}
	for _, o := range r.observers {
		o.RunStarted(r.runID, len(list))
	}
	r.logger.Info("run_started",
		logging.StringField("run_id", r.runID),
		logging.IntField("scenarios", len(list)),
	)

	results := make([]*scenario.Result, 0, len(list))
	for _, s := range list {
		cfg := *base
		cfg.ScenarioID = s.ID()

		var result *scenario.Result
		if err := ctx.Err(); err != nil {
			result = skipped(s, "run cancelled: "+err.Error())
			r.notifyFinished(result)
		} else {
			result = r.executeScenario(ctx, s, &cfg)
		}
		results = append(results, result)
	}

	for _, o := range r.observers {
		o.RunFinished(r.runID, results)
	}
	r.logger.Info("run_completed",
		logging.StringField("run_id", r.runID),
		logging.IntField("scenarios", len(results)),
	)
	return results, ctx.Err()
}

// executeScenario runs one scenario through its full lifecycle:
// results dir -> pre-hooks -> configure -> validate -> execute with
// timeout -> post-hooks -> cleanup. It always returns a final result.
func (r *DefaultRunner) executeScenario(
	ctx context.Context,
	s scenario.Scenario,
	cfg *scenario.Config,
) *scenario.Result {
	result := &scenario.Result{
		ScenarioID:   s.ID(),
		ScenarioName: s.Name(),
		Category:     s.Category(),
		Status:       scenario.StatusRunning,
		StartTime:    time.Now(),
		Platform:     cfg.PlatformName(),
	}
	for _, o := range r.observers {
		o.ScenarioStarted(r.runID, s)
	}
	r.logger.Info("scenario_started",
		logging.StringField("scenario_id", string(s.ID())),
		logging.StringField("scenario_name", s.Name()),
	)

	if err := r.setupResultsDir(cfg); err != nil {
		return r.stop(result, scenario.StatusError,
			fmt.Sprintf("failed to setup results directory: %v", err))
	}

	for _, hook := range r.preHooks {
		if err := hook(ctx, s, cfg); err != nil {
			return r.stop(result, scenario.StatusError,
				fmt.Sprintf("pre-hook failed: %v", err))
		}
	}

	if err := s.Configure(cfg); err != nil {
		return r.stop(result, scenario.StatusError,
			fmt.Sprintf("configuration failed: %v", err))
	}

	if err := s.Validate(ctx); err != nil {
		return r.stop(result, scenario.StatusSkipped,
			fmt.Sprintf("validation failed: %v", err))
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = r.timeout
	}
	execCtx, cancel := context.WithTimeout(ctx, timeout)
	execResult, execErr := s.Execute(execCtx)
	timedOut := errors.Is(execCtx.Err(), context.DeadlineExceeded)
	cancel()

	switch {
	case execErr != nil && timedOut:
		r.cleanup(ctx, s)
		return r.stop(result, scenario.StatusTimedOut,
			"scenario execution timed out")
	case execErr != nil:
		r.cleanup(ctx, s)
		return r.stop(result, scenario.StatusError,
			fmt.Sprintf("execution failed: %v", execErr))
	case execResult == nil:
		result.Status = scenario.StatusPassed
	default:
		start := result.StartTime
		*result = *execResult
		result.StartTime = start
		if !result.IsFinal() {
			result.Status = scenario.StatusPassed
			if !result.AllPassed() {
				result.Status = scenario.StatusFailed
			}
		}
		if timedOut && result.Status != scenario.StatusPassed {
			result.Status = scenario.StatusTimedOut
		}
	}

	for _, hook := range r.postHooks {
		if err := hook(ctx, s, cfg); err != nil {
			r.logger.Warn("post_hook_warning",
				logging.StringField("scenario_id", string(s.ID())),
				logging.ErrorField(err),
			)
		}
	}
	r.cleanup(ctx, s)
	return r.finish(result)
}

func (r *DefaultRunner) cleanup(ctx context.Context, s scenario.Scenario) {
	if err := s.Cleanup(ctx); err != nil {
		r.logger.Warn("cleanup_warning",
			logging.StringField("scenario_id", string(s.ID())),
			logging.ErrorField(err),
		)
	}
}

func (r *DefaultRunner) stop(
	result *scenario.Result,
	status, msg string,
) *scenario.Result {
	result.Status = status
	result.Error = msg
	return r.finish(result)
}

func (r *DefaultRunner) finish(result *scenario.Result) *scenario.Result {
	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)

	fields := []logging.Field{
		logging.StringField("scenario_id", string(result.ScenarioID)),
		logging.StringField("status", result.Status),
		logging.DurationField("duration_ms", result.Duration),
	}
	if result.Error != "" {
		fields = append(fields, logging.StringField("error", result.Error))
	}
	if result.Passed() {
		r.logger.Info("scenario_completed", fields...)
	} else {
		r.logger.Error("scenario_completed", fields...)
	}
	r.notifyFinished(result)
	return result
}

func (r *DefaultRunner) notifyFinished(result *scenario.Result) {
	for _, o := range r.observers {
		o.ScenarioFinished(r.runID, result)
	}
}

func skipped(s scenario.Scenario, reason string) *scenario.Result {
	now := time.Now()
	return &scenario.Result{
		ScenarioID:   s.ID(),
		ScenarioName: s.Name(),
		Category:     s.Category(),
		Status:       scenario.StatusSkipped,
		StartTime:    now,
		EndTime:      now,
		Error:        reason,
	}
}

// setupResultsDir places the scenario under <base>/<run id> unless
// the config already names a results directory.
func (r *DefaultRunner) setupResultsDir(cfg *scenario.Config) error {
	if cfg.ResultsDir == "" {
		base := r.resultsDir
		if base == "" {
			base = "results"
		}
		cfg.ResultsDir = filepath.Join(base, r.runID)
	}
	return os.MkdirAll(cfg.ResultsDir, 0o755)
}
