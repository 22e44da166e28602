package cli

import (
	"context"
	"fmt"
	"net"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"digital.vasic.mobilelogin/pkg/logging"
	"digital.vasic.mobilelogin/pkg/metrics"
	"digital.vasic.mobilelogin/pkg/monitor"
	"digital.vasic.mobilelogin/pkg/registry"
	"digital.vasic.mobilelogin/pkg/report"
	"digital.vasic.mobilelogin/pkg/runner"
	"digital.vasic.mobilelogin/pkg/scenario"
	"digital.vasic.mobilelogin/pkg/suite"
)

const (
	suiteStarted   = "========== LOGIN TEST SUITE STARTED =========="
	suiteCompleted = "========== LOGIN TEST SUITE COMPLETED =========="
	historyFile    = "history.jsonl"
)

func newRunCmd(deps Deps) *cobra.Command {
	flags := &RunFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the login suite",
		Long: `Run opens one device session per scenario, executes the login suite
and writes logs, screenshots and reports under <results>/<run id>.
The exit status is 1 when any scenario fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := flags.validate(); err != nil {
				return err
			}
			return runSuite(cmd.Context(), cmd, flags, deps)
		},
	}
	addRunFlags(cmd, flags)
	return cmd
}

func runSuite(
	ctx context.Context,
	cmd *cobra.Command,
	flags *RunFlags,
	deps Deps,
) error {
	st, err := flags.resolve(deps.loader())
	if err != nil {
		return err
	}

	reg := registry.NewRegistry()
	if err := suite.Register(reg, st.fixtures); err != nil {
		return err
	}
	ids, err := selectScenarios(reg, flags.Match)
	if err != nil {
		return err
	}

	collector := monitor.NewEventCollector()
	runMetrics, err := metrics.NewPrometheusMetrics(metrics.DefaultNamespace)
	if err != nil {
		return err
	}
	r := runner.NewRunner(
		runner.WithRegistry(reg),
		runner.WithResultsDir(flags.Results),
		runner.WithTimeout(flags.Timeout),
		runner.WithObserver(collector),
		runner.WithObserver(metrics.NewObserver(runMetrics)),
	)
	runDir := filepath.Join(flags.Results, r.RunID())

	logger, closeLogs, err := newRunLogger(cmd, flags, deps, st, runDir)
	if err != nil {
		return err
	}
	defer closeLogs()
	logger = logger.WithFields(logging.StringField("run_id", r.RunID()))

	cfg := scenario.NewConfig("")
	cfg.ResultsDir = runDir
	cfg.ScreenshotsDir = filepath.Join(runDir, "screenshots")
	cfg.Timeout = flags.Timeout
	cfg.Platform = st.app.Platform
	cfg.Verbose = flags.Verbose
	cfg.App = st.app
	cfg.Fixtures = st.fixtures
	cfg.Logger = logger
	cfg.Loader = st.loader
	cfg.Connector = deps.Connector
	cfg.PageOptions = deps.PageOptions

	logger.Info(suiteStarted,
		logging.StringField("platform", st.app.Platform),
		logging.IntField("scenarios", len(ids)),
	)

	g, gctx := errgroup.WithContext(ctx)
	monitorCtx, stopMonitor := context.WithCancel(gctx)
	defer stopMonitor()

	if flags.MonitorAddr != "" {
		ln, err := net.Listen("tcp", flags.MonitorAddr)
		if err != nil {
			return fmt.Errorf("monitor: %w", err)
		}
		srv := monitor.NewServer(flags.MonitorAddr, collector,
			monitor.NewDashboard(r.RunID()),
			monitor.WithServerLogger(logger),
			monitor.WithHandler("/metrics", runMetrics.Handler()),
		)
		logger.Info("Monitor listening on http://" + ln.Addr().String())
		g.Go(func() error { return srv.Serve(monitorCtx, ln) })
	}

	var results []*scenario.Result
	g.Go(func() error {
		defer stopMonitor()
		var runErr error
		results, runErr = r.RunSequence(gctx, ids, cfg)
		return runErr
	})
	runErr := g.Wait()

	if err := writeReports(runDir, flags.Results, r.RunID(), results); err != nil {
		logger.Error("Could not write reports", logging.ErrorField(err))
	}
	logger.Info(suiteCompleted)
	printSummary(cmd, runDir, results)

	if runErr != nil {
		return runErr
	}
	if report.Failed(results) {
		return ErrScenariosFailed
	}
	return nil
}

// selectScenarios returns every registered ID, or those matching
// pattern, in registration order.
func selectScenarios(reg registry.Registry, pattern string) ([]scenario.ID, error) {
	list := reg.List()
	if pattern != "" {
		var err error
		if list, err = reg.Match(pattern); err != nil {
			return nil, err
		}
		if len(list) == 0 {
			return nil, fmt.Errorf("no scenario matches %q", pattern)
		}
	}
	ids := make([]scenario.ID, 0, len(list))
	for _, s := range list {
		ids = append(ids, s.ID())
	}
	return ids, nil
}

// newRunLogger builds the console plus rotating-file logger, masking
// every fixture password. deps.Logger replaces both sinks.
func newRunLogger(
	cmd *cobra.Command,
	flags *RunFlags,
	deps Deps,
	st *settings,
	runDir string,
) (logging.Logger, func(), error) {
	if deps.Logger != nil {
		return logging.NewRedactingLogger(deps.Logger, st.fixtures.Secrets()...), func() {}, nil
	}

	files, err := logging.NewJSONLogger(logging.LoggerConfig{
		Dir:     filepath.Join(runDir, "logs"),
		Level:   logging.ParseLevel(st.app.LogLevel),
		Verbose: flags.Verbose,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create log files: %w", err)
	}
	console := logging.NewConsoleLoggerTo(cmd.ErrOrStderr(), flags.Verbose)
	logger := logging.NewRedactingLogger(
		logging.NewMultiLogger(console, files),
		st.fixtures.Secrets()...,
	)
	logging.Init(logger)
	return logger, func() { _ = logger.Close() }, nil
}

func writeReports(
	runDir, resultsBase, runID string,
	results []*scenario.Result,
) error {
	if _, err := report.WriteReports(
		filepath.Join(runDir, "reports"), results,
		report.NewJSONReporter(true), report.NewMarkdownReporter(suite.Name),
	); err != nil {
		return err
	}

	summary := report.BuildMasterSummary(runID, results)
	summary.Suite = suite.Name
	if err := report.SaveMasterSummary(summary, runDir); err != nil {
		return err
	}

	history := filepath.Join(resultsBase, historyFile)
	for _, res := range results {
		dir := filepath.Join(runDir, string(res.ScenarioID))
		if err := report.AppendToHistory(history, runID, res, dir); err != nil {
			return err
		}
	}
	return nil
}

func printSummary(cmd *cobra.Command, runDir string, results []*scenario.Result) {
	out := cmd.OutOrStdout()
	passed, failed, skipped := 0, 0, 0
	for _, res := range results {
		mark := "✗"
		switch res.Status {
		case scenario.StatusPassed:
			mark = "✓"
			passed++
		case scenario.StatusSkipped:
			mark = "-"
			skipped++
		default:
			failed++
		}
		fmt.Fprintf(out, "  %s %s\n", mark, res.ScenarioName)
		if res.Error != "" && res.Status != scenario.StatusPassed {
			fmt.Fprintf(out, "      %s\n", res.Error)
		}
	}
	fmt.Fprintf(out, "\n%d passing, %d failing, %d skipped\n", passed, failed, skipped)
	fmt.Fprintf(out, "Results: %s\n", runDir)
}
