package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	m "github.com/launchdarkly/go-test-helpers/v2/matchers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testbootstrap/bootstrap-harness/framework/exitcodes"
	"github.com/testbootstrap/bootstrap-harness/framework/runner"
)

const quietResources = "unittests/testdata/resources"

func init() {
	color.NoColor = true
}

func runForTest(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := runMain(append([]string{"bootstrap-harness"}, args...), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestShippedSuiteFailsOnCanary(t *testing.T) {
	code, out, _ := runForTest(t, "-resources", quietResources)

	assert.Equal(t, exitcodes.TestFailure, code)
	assert.Contains(t, out, "FAILED TESTS (1):")
	assert.Contains(t, out, "* placeholder/rename_me")
}

func TestSkippingCanaryPasses(t *testing.T) {
	code, out, _ := runForTest(t, "-resources", quietResources, "-skip", "placeholder/rename_me")

	assert.Equal(t, exitcodes.Success, code)
	assert.Contains(t, out, "All tests passed")
}

func TestMissingLoggingConfigurationIsStartupError(t *testing.T) {
	dir := t.TempDir()
	code, out, errOut := runForTest(t, "-resources", dir)

	assert.Equal(t, exitcodes.StartupError, code)
	assert.Contains(t, errOut, filepath.Join(dir, "log4cxx.xml"))
	assert.NotContains(t, out, "rename_me")
}

func TestReportsAreWrittenWhenStartupFails(t *testing.T) {
	dir := t.TempDir()
	metricsFile := filepath.Join(dir, "bootstrap.prom")
	junitFile := filepath.Join(dir, "junit.xml")
	code, out, _ := runForTest(t, "-resources", t.TempDir(), "-metrics-file", metricsFile, "-junit", junitFile)
	require.Equal(t, exitcodes.StartupError, code)
	assert.Contains(t, out, "TEST RUN DID NOT START")

	metrics, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "bootstrap_startup_error 1")

	junit, err := os.ReadFile(junitFile)
	require.NoError(t, err)
	m.In(t).Assert(string(junit), m.AllOf(
		m.StringContains(`name="tests.startupError"`),
		m.StringContains("log4cxx.xml is missing"),
	))
}

func TestInvalidFlagsAreStartupError(t *testing.T) {
	code, _, errOut := runForTest(t, "-no-such-flag")
	assert.Equal(t, exitcodes.StartupError, code)
	assert.Contains(t, errOut, "no-such-flag")

	code, _, _ = runForTest(t, "-repeat", "0")
	assert.Equal(t, exitcodes.StartupError, code)

	code, _, _ = runForTest(t, "-run", "(")
	assert.Equal(t, exitcodes.StartupError, code)
}

func TestRecordedFailuresCanBeSkipped(t *testing.T) {
	failuresFile := filepath.Join(t.TempDir(), "failures.txt")

	code, _, _ := runForTest(t, "-resources", quietResources, "-record-failures", failuresFile)
	require.Equal(t, exitcodes.TestFailure, code)

	data, err := os.ReadFile(failuresFile)
	require.NoError(t, err)
	assert.Equal(t, "placeholder/rename_me\n", string(data))

	code, _, _ = runForTest(t, "-resources", quietResources, "-skip-file", failuresFile)
	assert.Equal(t, exitcodes.Success, code)
}

func TestMissingSkipFileIsStartupError(t *testing.T) {
	code, _, errOut := runForTest(t, "-resources", quietResources, "-skip-file", filepath.Join(t.TempDir(), "nope"))
	assert.Equal(t, exitcodes.StartupError, code)
	assert.Contains(t, errOut, "cannot open provided suppression file")
}

func TestJUnitOutput(t *testing.T) {
	junitFile := filepath.Join(t.TempDir(), "junit.xml")
	code, _, _ := runForTest(t, "-resources", quietResources, "-junit", junitFile)
	require.Equal(t, exitcodes.TestFailure, code)

	data, err := os.ReadFile(junitFile)
	require.NoError(t, err)
	m.In(t).Assert(string(data), m.AllOf(
		m.StringContains(`<testsuite tests="2" failures="1"`),
		m.StringContains(`name="placeholder/rename_me"`),
		m.StringContains("placeholder has no tests yet"),
	))
}

func TestProgressOutput(t *testing.T) {
	code, out, _ := runForTest(t, "-resources", quietResources, "-progress", "-repeat", "2")
	assert.Equal(t, exitcodes.TestFailure, code)
	assert.Contains(t, out, "placeholder/rename_me (iteration 2)")
}

func TestSummaryTable(t *testing.T) {
	code, out, _ := runForTest(t, "-resources", quietResources, "-summary")
	assert.Equal(t, exitcodes.TestFailure, code)
	assert.Contains(t, out, "Run ID: ")
	assert.Contains(t, out, "TOTAL")
}

func TestMetricsFile(t *testing.T) {
	metricsFile := filepath.Join(t.TempDir(), "bootstrap.prom")
	code, _, _ := runForTest(t, "-resources", quietResources, "-metrics-file", metricsFile)
	require.Equal(t, exitcodes.TestFailure, code)

	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `bootstrap_tests{result="fail"} 1`)
	assert.Contains(t, string(data), "bootstrap_startup_error 0")
	assert.Contains(t, string(data), `bootstrap_tests{result="pass"} 0`)
}

func TestExitCodeFor(t *testing.T) {
	passed := runner.TestResult{TestID: runner.TestID{"a", "passes"}}
	failed := runner.TestResult{TestID: runner.TestID{"a", "fails"}, Failed: true}

	assert.Equal(t, exitcodes.Success, exitCodeFor(runner.Results{Tests: []runner.TestResult{passed}}))
	assert.Equal(t, exitcodes.TestFailure, exitCodeFor(runner.Results{
		Tests:    []runner.TestResult{passed, failed},
		Failures: []runner.TestResult{failed},
	}))
	assert.Equal(t, exitcodes.StartupError, exitCodeFor(runner.Results{StartupError: errors.New("no config")}))
	assert.Equal(t, exitcodes.StartupError, exitCodeFor(runner.Results{
		Tests:          []runner.TestResult{passed},
		TeardownErrors: []error{errors.New("flush failed")},
	}))
}
