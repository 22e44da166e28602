// Package action runs named UI steps with uniform logging and
// failure diagnostics. A step logs its start, and on failure logs the
// error once, optionally captures a diagnostic artifact, and returns
// the original error untouched.
package action

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"digital.vasic.mobilelogin/pkg/logging"
)

// ArtifactCapturer saves a diagnostic artifact (a screenshot) under
// name and returns where it went.
type ArtifactCapturer interface {
	Capture(ctx context.Context, name string) (string, error)
}

// Failure describes one failed step.
type Failure struct {
	Step    string
	Message string
	Cause   error
	// ArtifactID is set when an artifact was requested; ArtifactPath
	// only when it was actually captured.
	ArtifactID   string
	ArtifactPath string
}

// Executor wraps step invocations.
type Executor struct {
	logger    logging.Logger
	capturer  ArtifactCapturer
	onFailure []func(Failure)
}

// Option configures an Executor.
type Option func(*Executor)

// WithCapturer sets the artifact capturer used for OnFailureArtifact.
func WithCapturer(c ArtifactCapturer) Option {
	return func(e *Executor) { e.capturer = c }
}

// WithFailureHook registers fn to receive every step failure.
func WithFailureHook(fn func(Failure)) Option {
	return func(e *Executor) {
		if fn != nil {
			e.onFailure = append(e.onFailure, fn)
		}
	}
}

// NewExecutor creates an Executor logging to logger.
func NewExecutor(logger logging.Logger, opts ...Option) *Executor {
	e := &Executor{logger: logging.OrNull(logger)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Logger returns the executor's logger.
func (e *Executor) Logger() logging.Logger {
	return e.logger
}

type stepConfig struct {
	artifactID string
}

// StepOption tunes one step.
type StepOption func(*stepConfig)

// OnFailureArtifact captures an artifact named id when the step fails.
func OnFailureArtifact(id string) StepOption {
	return func(c *stepConfig) { c.artifactID = id }
}

// Execute runs fn as the step name and returns its result unchanged.
func Execute[T any](
	ctx context.Context,
	e *Executor,
	name string,
	fn func(ctx context.Context) (T, error),
	opts ...StepOption,
) (T, error) {
	var cfg stepConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	e.logger.LogStep(logging.StepLog{Description: capitalize(name)})

	v, err := fn(ctx)
	if err != nil {
		e.fail(ctx, name, err, cfg)
		var zero T
		return zero, err
	}
	return v, nil
}

// Do runs fn as the step name.
func (e *Executor) Do(
	ctx context.Context,
	name string,
	fn func(ctx context.Context) error,
	opts ...StepOption,
) error {
	_, err := Execute(ctx, e, name, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	}, opts...)
	return err
}

func (e *Executor) fail(
	ctx context.Context,
	name string,
	err error,
	cfg stepConfig,
) {
	f := Failure{
		Step:       name,
		Message:    err.Error(),
		Cause:      err,
		ArtifactID: cfg.artifactID,
	}
	e.logger.Error("Failed to "+name,
		logging.ErrorField(err),
		logging.StringField("step", name),
	)

	if cfg.artifactID != "" {
		if e.capturer == nil {
			e.logger.Warn("No artifact capturer configured",
				logging.StringField("artifact_id", cfg.artifactID))
		} else {
			// The step's context may be the reason it failed.
			path, cerr := e.capturer.Capture(context.WithoutCancel(ctx), cfg.artifactID)
			if cerr != nil {
				e.logger.Warn("Failed to capture failure artifact",
					logging.StringField("artifact_id", cfg.artifactID),
					logging.ErrorField(cerr),
				)
			} else {
				f.ArtifactPath = path
				e.logger.Info("Captured failure artifact",
					logging.StringField("artifact_id", cfg.artifactID),
					logging.StringField("path", path),
				)
			}
		}
	}

	for _, hook := range e.onFailure {
		hook(f)
	}
}

func capitalize(s string) string {
	s = strings.TrimSpace(s)
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
