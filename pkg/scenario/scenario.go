// Package scenario defines the lifecycle of one login-flow test.
// Every scenario is configured, validated, executed against a fresh
// device session and cleaned up; teardown problems are logged and
// never change the outcome.
package scenario

import "context"

// ID uniquely identifies a scenario.
type ID string

// Scenario defines the interface that all scenarios must implement.
// The lifecycle is Configure -> Validate -> Execute -> Cleanup.
type Scenario interface {
	// ID returns the unique identifier for this scenario.
	ID() ID

	// Name returns the human-readable test title.
	Name() string

	// Description returns what this scenario verifies.
	Description() string

	// Category groups scenarios (e.g., "login", "validation").
	Category() string

	// Configure applies runtime configuration. Must be called
	// before Validate or Execute.
	Configure(cfg *Config) error

	// Validate checks that the scenario can run.
	Validate(ctx context.Context) error

	// Execute opens a session, runs the test body and returns its
	// result. A failing test is reported through the result, not
	// the error.
	Execute(ctx context.Context) (*Result, error)

	// Cleanup releases anything Execute left open.
	Cleanup(ctx context.Context) error
}
