package runmetrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testbootstrap/bootstrap-harness/framework/runner"
)

func sampleResults() runner.Results {
	return runner.Results{
		RunID: "run-1",
		Tests: []runner.TestResult{
			{},
			{TestID: runner.TestID{"placeholder"}, Group: true},
			{TestID: runner.TestID{"placeholder", "passes"}},
			{TestID: runner.TestID{"placeholder", "rename_me"}, Failed: true},
		},
		Failures: []runner.TestResult{{TestID: runner.TestID{"placeholder", "rename_me"}, Failed: true}},
		Duration: 1500 * time.Millisecond,
	}
}

func TestRecord(t *testing.T) {
	m := New()
	m.Record(sampleResults())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.tests.WithLabelValues(resultPass)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.tests.WithLabelValues(resultFail)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runInfo.WithLabelValues("run-1")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.startupError))
	assert.Equal(t, 1.5, testutil.ToFloat64(m.duration))
}

func TestRecordStartupError(t *testing.T) {
	m := New()
	m.Record(runner.Results{RunID: "run-2", StartupError: errors.New("missing"), TeardownErrors: []error{errors.New("x")}})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.startupError))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.teardownErrors))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.tests.WithLabelValues(resultPass)))
}

func TestRecordReplacesRunID(t *testing.T) {
	m := New()
	m.Record(runner.Results{RunID: "old"})
	m.Record(runner.Results{RunID: "new"})

	assert.Equal(t, 1, testutil.CollectAndCount(m.runInfo))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.Record(sampleResults())
	path := filepath.Join(t.TempDir(), "bootstrap.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `bootstrap_tests{result="fail"} 1`)
	assert.Contains(t, string(data), `bootstrap_run_info{run_id="run-1"} 1`)
	assert.Contains(t, string(data), "bootstrap_run_duration_seconds 1.5")
}
