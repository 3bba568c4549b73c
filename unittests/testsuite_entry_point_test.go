package unittests

import (
	"bytes"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testbootstrap/bootstrap-harness/framework/harness"
	"github.com/testbootstrap/bootstrap-harness/framework/runner"
)

func failedIDs(results runner.Results) []string {
	var ids []string
	for _, f := range results.Failures {
		ids = append(ids, f.TestID.String())
	}
	return ids
}

func TestCanaryFails(t *testing.T) {
	env := harness.NewTestEnvironment("testdata/resources", nil)
	results := RunUnitTestSuite(env, nil, nil, SuiteOptions{Out: &bytes.Buffer{}})

	require.NoError(t, results.StartupError)
	assert.Empty(t, results.TeardownErrors)
	assert.Equal(t, []string{"placeholder/rename_me"}, failedIDs(results))
	assert.False(t, results.OK())

	require.Len(t, results.Failures[0].Errors, 1)
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "placeholder has no tests yet")
}

func TestEnvironmentIsTornDownAfterRun(t *testing.T) {
	env := harness.NewTestEnvironment("testdata/resources", nil)
	RunUnitTestSuite(env, nil, nil, SuiteOptions{Out: &bytes.Buffer{}})

	assert.ErrorIs(t, env.TearDown(), harness.ErrTornDown)
}

func TestMissingLoggingConfigurationRunsNoTests(t *testing.T) {
	env := harness.NewTestEnvironment(t.TempDir(), nil)
	results := RunUnitTestSuite(env, nil, nil, SuiteOptions{Out: &bytes.Buffer{}})

	require.Error(t, results.StartupError)
	assert.Contains(t, results.StartupError.Error(), env.ConfigPath())
	assert.Empty(t, results.Tests)
	assert.Empty(t, results.Failures)
}

func TestFilterCanExcludeCanary(t *testing.T) {
	pattern, err := runner.ParseTestIDPattern("placeholder/rename_me")
	require.NoError(t, err)
	filter := runner.RegexFilters{MustNotMatch: runner.TestIDPatternList{pattern}}

	var out bytes.Buffer
	env := harness.NewTestEnvironment("testdata/resources", nil)
	results := RunUnitTestSuite(env, filter, nil, SuiteOptions{Out: &out})

	assert.True(t, results.OK())
	assert.Regexp(t, regexp.MustCompile(`skip any matching "placeholder/rename_me"`), out.String())
}

func TestRepeatUsesOneEnvironment(t *testing.T) {
	env := harness.NewTestEnvironment("testdata/resources", nil)
	results := RunUnitTestSuite(env, nil, nil, SuiteOptions{Repeat: 3, Out: &bytes.Buffer{}})

	require.NoError(t, results.StartupError)
	assert.Empty(t, results.TeardownErrors)
	require.Len(t, results.Failures, 3)
	for i, f := range results.Failures {
		assert.Equal(t, i, f.Iteration)
	}
}

func TestFailFastStopsRepeat(t *testing.T) {
	env := harness.NewTestEnvironment("testdata/resources", nil)
	results := RunUnitTestSuite(env, nil, nil, SuiteOptions{Repeat: 3, FailFast: true, Out: &bytes.Buffer{}})

	assert.Len(t, results.Failures, 1)
}
