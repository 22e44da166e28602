package runner

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.mobilelogin/pkg/assertion"
	"digital.vasic.mobilelogin/pkg/logging"
	"digital.vasic.mobilelogin/pkg/registry"
	"digital.vasic.mobilelogin/pkg/scenario"
)

// --- stub scenario ---

type stubScenario struct {
	id           scenario.ID
	name         string
	configureErr error
	validateErr  error
	executeErr   error
	cleanupErr   error
	execResult   *scenario.Result
	execDelay    time.Duration

	mu             sync.Mutex
	configured     *scenario.Config
	configureCalls int
	validateCalls  int
	executeCalls   int
	cleanupCalls   int
}

func (s *stubScenario) ID() scenario.ID     { return s.id }
func (s *stubScenario) Name() string        { return s.name }
func (s *stubScenario) Description() string { return "stub" }
func (s *stubScenario) Category() string    { return "test" }

func (s *stubScenario) Configure(cfg *scenario.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configureCalls++
	s.configured = cfg
	return s.configureErr
}

func (s *stubScenario) Validate(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.validateCalls++
	return s.validateErr
}

func (s *stubScenario) Execute(
	ctx context.Context,
) (*scenario.Result, error) {
	s.mu.Lock()
	s.executeCalls++
	s.mu.Unlock()

	if s.execDelay > 0 {
		select {
		case <-time.After(s.execDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.executeErr != nil {
		return nil, s.executeErr
	}
	if s.execResult != nil {
		r := *s.execResult
		return &r, nil
	}
	return &scenario.Result{
		ScenarioID:   s.id,
		ScenarioName: s.name,
		Status:       scenario.StatusPassed,
	}, nil
}

func (s *stubScenario) Cleanup(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleanupCalls++
	return s.cleanupErr
}

func newStub(id string) *stubScenario {
	return &stubScenario{id: scenario.ID(id), name: "Stub " + id}
}

// --- recording observer ---

type recorder struct {
	mu     sync.Mutex
	events []string
	total  int
}

func (r *recorder) add(e string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) RunStarted(_ string, total int) {
	r.mu.Lock()
	r.total = total
	r.mu.Unlock()
	r.add("run_started")
}

func (r *recorder) ScenarioStarted(_ string, s scenario.Scenario) {
	r.add("started:" + string(s.ID()))
}

func (r *recorder) ScenarioFinished(_ string, res *scenario.Result) {
	r.add("finished:" + string(res.ScenarioID) + ":" + res.Status)
}

func (r *recorder) RunFinished(_ string, _ []*scenario.Result) {
	r.add("run_finished")
}

func setup(
	t *testing.T,
	stubs ...*stubScenario,
) (*DefaultRunner, *recorder, *scenario.Config) {
	t.Helper()
	reg := registry.NewRegistry()
	for _, s := range stubs {
		require.NoError(t, reg.Register(s))
	}
	rec := &recorder{}
	r := NewRunner(
		WithRegistry(reg),
		WithResultsDir(t.TempDir()),
		WithRunID("run-1"),
		WithObserver(rec),
		WithTimeout(time.Second),
	)
	return r, rec, &scenario.Config{}
}

func TestNewRunner_Defaults(t *testing.T) {
	r := NewRunner()
	assert.Equal(t, registry.Default, r.registry)
	assert.Equal(t, 5*time.Minute, r.timeout)
	assert.NotEmpty(t, r.RunID())
	assert.NotEqual(t, r.RunID(), NewRunner().RunID())
}

func TestRun_Passed(t *testing.T) {
	s := newStub("a")
	r, rec, cfg := setup(t, s)

	res, err := r.Run(context.Background(), "a", cfg)
	require.NoError(t, err)
	assert.Equal(t, scenario.StatusPassed, res.Status)
	assert.Equal(t, scenario.ID("a"), res.ScenarioID)
	assert.False(t, res.EndTime.IsZero())

	assert.Equal(t, 1, s.configureCalls)
	assert.Equal(t, 1, s.validateCalls)
	assert.Equal(t, 1, s.executeCalls)
	assert.Equal(t, 1, s.cleanupCalls)
	assert.Equal(t, scenario.ID("a"), s.configured.ScenarioID)
	assert.Equal(t, "run-1", filepath.Base(s.configured.ResultsDir))
	assert.Empty(t, cfg.ScenarioID, "base config must not be mutated")

	assert.Equal(t, []string{
		"run_started", "started:a", "finished:a:passed", "run_finished",
	}, rec.events)
}

func TestRun_NotFound(t *testing.T) {
	r, _, cfg := setup(t)
	_, err := r.Run(context.Background(), "missing", cfg)
	assert.ErrorContains(t, err, "failed to get scenario")
}

func TestRun_NilConfig(t *testing.T) {
	r, _, _ := setup(t, newStub("a"))
	_, err := r.Run(context.Background(), "a", nil)
	assert.ErrorContains(t, err, "config must not be nil")
}

func TestRun_Outcomes(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name      string
		stub      func(*stubScenario)
		status    string
		errSubstr string
		executed  bool
		cleaned   bool
	}{
		{
			name:      "configure error",
			stub:      func(s *stubScenario) { s.configureErr = boom },
			status:    scenario.StatusError,
			errSubstr: "configuration failed: boom",
		},
		{
			name:      "validate error skips",
			stub:      func(s *stubScenario) { s.validateErr = boom },
			status:    scenario.StatusSkipped,
			errSubstr: "validation failed: boom",
		},
		{
			name:      "execute error",
			stub:      func(s *stubScenario) { s.executeErr = boom },
			status:    scenario.StatusError,
			errSubstr: "execution failed: boom",
			executed:  true,
			cleaned:   true,
		},
		{
			name: "failed result kept",
			stub: func(s *stubScenario) {
				s.execResult = &scenario.Result{
					ScenarioID: s.id,
					Status:     scenario.StatusFailed,
					Error:      "Login button is disabled",
				}
			},
			status:    scenario.StatusFailed,
			errSubstr: "Login button is disabled",
			executed:  true,
			cleaned:   true,
		},
		{
			name: "non-final result graded by assertions",
			stub: func(s *stubScenario) {
				s.execResult = &scenario.Result{
					ScenarioID: s.id,
					Status:     scenario.StatusRunning,
					Assertions: []assertion.Result{{Passed: false}},
				}
			},
			status:   scenario.StatusFailed,
			executed: true,
			cleaned:  true,
		},
		{
			name:     "cleanup error is a warning",
			stub:     func(s *stubScenario) { s.cleanupErr = boom },
			status:   scenario.StatusPassed,
			executed: true,
			cleaned:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStub("a")
			tt.stub(s)
			r, _, cfg := setup(t, s)

			res, err := r.Run(context.Background(), "a", cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.status, res.Status)
			if tt.errSubstr != "" {
				assert.Contains(t, res.Error, tt.errSubstr)
			}
			assert.Equal(t, tt.executed, s.executeCalls == 1)
			assert.Equal(t, tt.cleaned, s.cleanupCalls == 1)
		})
	}
}

func TestRun_Timeout(t *testing.T) {
	s := newStub("slow")
	s.execDelay = time.Minute
	r, _, cfg := setup(t, s)
	cfg.Timeout = 20 * time.Millisecond

	res, err := r.Run(context.Background(), "slow", cfg)
	require.NoError(t, err)
	assert.Equal(t, scenario.StatusTimedOut, res.Status)
	assert.Equal(t, 1, s.cleanupCalls)
}

func TestRun_Hooks(t *testing.T) {
	s := newStub("a")
	var calls []string
	reg := registry.NewRegistry()
	require.NoError(t, reg.Register(s))
	mem := logging.NewMemoryLogger()

	r := NewRunner(
		WithRegistry(reg),
		WithResultsDir(t.TempDir()),
		WithLogger(mem),
		WithPreHook(func(_ context.Context, sc scenario.Scenario, _ *scenario.Config) error {
			calls = append(calls, "pre:"+string(sc.ID()))
			return nil
		}),
		WithPostHook(func(_ context.Context, sc scenario.Scenario, _ *scenario.Config) error {
			calls = append(calls, "post:"+string(sc.ID()))
			return errors.New("post failed")
		}),
	)

	res, err := r.Run(context.Background(), "a", &scenario.Config{})
	require.NoError(t, err)
	assert.Equal(t, scenario.StatusPassed, res.Status)
	assert.Equal(t, []string{"pre:a", "post:a"}, calls)
	assert.True(t, mem.Contains("post_hook_warning"))
	assert.True(t, mem.Contains("scenario_completed"))
}

func TestRun_PreHookError(t *testing.T) {
	s := newStub("a")
	reg := registry.NewRegistry()
	require.NoError(t, reg.Register(s))
	r := NewRunner(
		WithRegistry(reg),
		WithResultsDir(t.TempDir()),
		WithPreHook(func(context.Context, scenario.Scenario, *scenario.Config) error {
			return errors.New("no device")
		}),
	)

	res, err := r.Run(context.Background(), "a", &scenario.Config{})
	require.NoError(t, err)
	assert.Equal(t, scenario.StatusError, res.Status)
	assert.Contains(t, res.Error, "pre-hook failed: no device")
	assert.Equal(t, 0, s.configureCalls)
}

func TestRunAll_RegistrationOrder(t *testing.T) {
	a, b, c := newStub("c-first"), newStub("a-second"), newStub("b-third")
	b.executeErr = errors.New("boom")
	r, rec, cfg := setup(t, a, b, c)

	results, err := r.RunAll(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, scenario.ID("c-first"), results[0].ScenarioID)
	assert.Equal(t, scenario.StatusError, results[1].Status)
	assert.Equal(t, scenario.StatusPassed, results[2].Status, "a failure must not stop the run")
	assert.Equal(t, 3, rec.total)
}

func TestRunSequence(t *testing.T) {
	r, _, cfg := setup(t, newStub("a"), newStub("b"))

	results, err := r.RunSequence(context.Background(), []scenario.ID{"b", "a"}, cfg)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, scenario.ID("b"), results[0].ScenarioID)
	assert.Equal(t, scenario.ID("a"), results[1].ScenarioID)

	_, err = r.RunSequence(context.Background(), []scenario.ID{"a", "zzz"}, cfg)
	assert.ErrorContains(t, err, "failed to get scenario zzz")
}

func TestRunAll_Cancelled(t *testing.T) {
	first := newStub("first")
	second := newStub("second")
	r, rec, cfg := setup(t, first, second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, err := r.RunAll(ctx, cfg)
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, 2)
	for _, res := range results {
		assert.Equal(t, scenario.StatusSkipped, res.Status)
		assert.Contains(t, res.Error, "run cancelled")
	}
	assert.Equal(t, 0, first.executeCalls)
	assert.Contains(t, rec.events, "finished:second:skipped")
}
