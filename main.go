package main

import (
	"bufio"
	_ "embed" // this is required in order for go:embed to work
	"fmt"
	"io"
	"log"
	"os"
	"regexp"
	"strings"

	"github.com/testbootstrap/bootstrap-harness/framework"
	"github.com/testbootstrap/bootstrap-harness/framework/exitcodes"
	"github.com/testbootstrap/bootstrap-harness/framework/harness"
	"github.com/testbootstrap/bootstrap-harness/framework/runmetrics"
	"github.com/testbootstrap/bootstrap-harness/framework/runner"
	"github.com/testbootstrap/bootstrap-harness/unittests"
)

const suiteName = "unit tests"

//go:embed VERSION
var versionString string // comes from the VERSION file which we update for each release

func main() {
	os.Exit(runMain(os.Args, os.Stdout, os.Stderr))
}

// runMain returns the process exit code: success only if every test passed, a test failure code
// if any test failed, and a startup error code if the run could not happen or end cleanly.
func runMain(args []string, out, errOut io.Writer) int {
	fmt.Fprintf(out, "bootstrap-harness v%s\n", strings.TrimSpace(versionString))

	var params commandParams
	if !params.Read(args, errOut) {
		return exitcodes.StartupError
	}

	results, err := run(params, out)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return exitcodes.StartupError
	}
	return exitCodeFor(results)
}

func exitCodeFor(results runner.Results) int {
	switch {
	case results.StartupError != nil, len(results.TeardownErrors) != 0:
		return exitcodes.StartupError
	case len(results.Failures) != 0:
		return exitcodes.TestFailure
	default:
		return exitcodes.Success
	}
}

func run(params commandParams, out io.Writer) (runner.Results, error) {
	if params.skipFile != "" {
		if err := loadSuppressions(&params); err != nil {
			return runner.Results{}, err
		}
	}

	mainDebugLogger := framework.NullLogger()
	if params.debugAll {
		mainDebugLogger = log.New(out, "", log.LstdFlags)
	}

	env := harness.NewTestEnvironment(params.resourceDir, mainDebugLogger)

	var testLogger runner.TestLogger
	if params.progress {
		testLogger = runner.NewProgressTestLogger(out)
	} else {
		testLogger = runner.ConsoleTestLogger{
			DebugOutputOnFailure: params.debug || params.debugAll,
			DebugOutputOnSuccess: params.debugAll,
			Out:                  out,
		}
	}
	loggers := []runner.TestLogger{testLogger}
	if params.jUnitFile != "" {
		loggers = append(loggers, runner.NewJUnitTestLogger(params.jUnitFile, suiteName, params.filters))
	}
	if params.summary {
		loggers = append(loggers, runner.NewSummaryTestLogger(out))
	}
	if len(loggers) > 1 {
		testLogger = &runner.MultiTestLogger{Loggers: loggers}
	}

	results := unittests.RunUnitTestSuite(env, params.filters, testLogger, unittests.SuiteOptions{
		Repeat:          params.repeat,
		FailFast:        params.failFast,
		AlsoRunDisabled: params.alsoRunDisabled,
		Out:             out,
	})

	for _, err := range results.TeardownErrors {
		fmt.Fprintf(out, "Test environment teardown failed: %s\n", err)
	}

	fmt.Fprintln(out)
	if err := testLogger.EndLog(results); err != nil {
		return results, fmt.Errorf("error writing log: %w", err)
	}

	if params.metricsFile != "" {
		metrics := runmetrics.New()
		metrics.Record(results)
		if err := metrics.WriteTextfile(params.metricsFile); err != nil {
			return results, fmt.Errorf("cannot write metrics: %w", err)
		}
	}

	// reports are written even when nothing ran
	if results.StartupError != nil {
		return results, fmt.Errorf("cannot start tests: %w", results.StartupError)
	}

	if params.recordFailures != "" {
		if err := recordFailures(params.recordFailures, results); err != nil {
			return results, err
		}
	}

	return results, nil
}

func recordFailures(path string, results runner.Results) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create suppression file: %w", err)
	}
	seen := make(map[string]bool)
	for _, test := range results.Failures {
		id := test.TestID.String()
		if !seen[id] {
			seen[id] = true
			fmt.Fprintln(f, id)
		}
	}
	return f.Close()
}

func loadSuppressions(params *commandParams) error {
	file, err := os.Open(params.skipFile)
	if err != nil {
		return fmt.Errorf("cannot open provided suppression file: %w", err)
	}
	defer func() { _ = file.Close() }()
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		// Ignore blank lines
		if strings.TrimSpace(line) == "" {
			continue
		}
		escaped := regexp.QuoteMeta(line)
		if err := params.filters.MustNotMatch.Set(escaped); err != nil {
			return fmt.Errorf("cannot parse suppression: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("while processing suppression file: %w", err)
	}
	return nil
}
