package unittests

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/testbootstrap/bootstrap-harness/framework/harness"
	"github.com/testbootstrap/bootstrap-harness/framework/runner"
)

// SuiteOptions are the runner options that the command line can change.
type SuiteOptions struct {
	Repeat          int
	FailFast        bool
	AlsoRunDisabled bool

	// Out receives the suite banner and filter description. It defaults to standard output.
	Out io.Writer
}

// SuiteContext is what tests get from T.Context(): access to the process-wide test environment.
type SuiteContext struct {
	env *harness.TestEnvironment
}

// Logger returns a named logger configured by the test environment.
func (c SuiteContext) Logger(name string) *logrus.Entry {
	return c.env.Logger(name)
}

func suiteContext(t *runner.T) SuiteContext {
	return t.Context().(SuiteContext)
}

// RunUnitTestSuite runs every registered unit test inside env. The environment is set up before
// the first test and torn down after the last one; if it cannot be set up, nothing runs and the
// error is in Results.StartupError.
func RunUnitTestSuite(
	env *harness.TestEnvironment,
	filter runner.Filter,
	testLogger runner.TestLogger,
	options SuiteOptions,
) runner.Results {
	out := options.Out
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintln(out, "Running unit test suite")
	fmt.Fprintln(out)
	if sdf, ok := filter.(runner.SelfDescribingFilter); ok {
		sdf.Describe(out)
	}

	config := runner.TestConfiguration{
		Filter:          filter,
		TestLogger:      testLogger,
		Context:         SuiteContext{env: env},
		Environments:    []runner.Environment{env},
		Repeat:          options.Repeat,
		FailFast:        options.FailFast,
		AlsoRunDisabled: options.AlsoRunDisabled,
	}
	return runner.Run(config, doAllUnitTests)
}

func doAllUnitTests(t *runner.T) {
	t.Run("placeholder", doPlaceholderTests)
}
