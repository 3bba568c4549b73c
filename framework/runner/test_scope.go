package runner

import (
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/testbootstrap/bootstrap-harness/framework"
)

// DisabledPrefix marks a test that is skipped unless TestConfiguration.AlsoRunDisabled is set.
const DisabledPrefix = "DISABLED_"

type runState struct {
	config    TestConfiguration
	results   Results
	iteration int
	stopped   bool
}

// T represents a test scope. It is very similar to Go's testing.T type.
type T struct {
	state       *runState
	id          TestID
	debugLogger framework.CapturingLogger
	failed      bool
	skipped     bool
	skipReason  string
	hasChildren bool
	cleanups    []func()
	errors      []error
	helperFns   []string
}

// TestConfiguration contains options for the entire test run.
type TestConfiguration struct {
	// Filter is an optional filter for determining which tests to run based on their IDs.
	Filter Filter

	// TestLogger receives status information about each test.
	TestLogger TestLogger

	// Context is an optional value of any type defined by the application which can be accessed from tests.
	Context interface{}

	// Environments are set up, in order, before the first test body runs, and torn down in
	// reverse order after the last one has finished.
	Environments []Environment

	// Repeat is the number of times to run the whole test tree. Values below 1 mean once.
	Repeat int

	// FailFast causes every test after the first failed one to be skipped.
	FailFast bool

	// AlsoRunDisabled runs tests whose names start with DisabledPrefix.
	AlsoRunDisabled bool

	// RunID is copied into Results.RunID. If empty, a random one is generated.
	RunID string
}

func (c TestConfiguration) WithContext(context interface{}) TestConfiguration {
	c.Context = context
	return c
}

// Run sets up the configured environments, runs the top-level test scope, and tears the
// environments down again.
//
// If an environment fails to set up, no test is run and the error is returned in
// Results.StartupError.
func Run(
	config TestConfiguration,
	action func(*T),
) Results {
	if config.TestLogger == nil {
		config.TestLogger = nullTestLogger{}
	}
	start := time.Now()
	state := &runState{config: config}
	state.results.RunID = config.RunID
	if state.results.RunID == "" {
		state.results.RunID = uuid.New().String()
	}

	ready, err := setUpEnvironments(config.Environments)
	if err != nil {
		state.results.StartupError = err
		state.results.TeardownErrors = tearDownEnvironments(ready)
		state.results.Duration = time.Since(start)
		return state.results
	}

	repeat := config.Repeat
	if repeat < 1 {
		repeat = 1
	}
	for i := 0; i < repeat && !state.stopped; i++ {
		state.iteration = i
		t := &T{state: state}
		t.run(action)
	}

	state.results.TeardownErrors = tearDownEnvironments(ready)
	state.results.Duration = time.Since(start)
	return state.results
}

func (t *T) run(action func(*T)) (result TestResult) {
	result.TestID = t.id
	result.Iteration = t.state.iteration
	defer func() {
		t.recoverFrom(recover())
		t.runCleanups()
		if t.skipped && !t.failed {
			return
		}
		result.Errors = t.errors
		result.Failed = t.failed
		result.Group = t.hasChildren
		if t.failed {
			t.state.results.Failures = append(t.state.results.Failures, result)
			if t.state.config.FailFast && !t.hasChildren {
				t.state.stopped = true
			}
		}
		t.state.results.Tests = append(t.state.results.Tests, result)
	}()

	action(t)
	return result
}

func (t *T) recoverFrom(r interface{}) {
	if r == nil {
		return
	}
	if _, ok := r.(*T); ok {
		if !t.skipped && len(t.errors) == 0 {
			t.addError(errors.New("test failed with no failure message"))
		}
		return
	}
	t.skipped = false
	t.addError(fmt.Errorf("unexpected panic in test: %+v\n%s", r, string(debug.Stack())))
}

func (t *T) runCleanups() {
	for len(t.cleanups) > 0 {
		last := len(t.cleanups) - 1
		fn := t.cleanups[last]
		t.cleanups = t.cleanups[:last]
		func() {
			defer func() { t.recoverFrom(recover()) }()
			fn()
		}()
	}
}

func (t *T) addError(err error) {
	t.failed = true
	t.errors = append(t.errors, err)
	t.state.config.TestLogger.TestError(t.id, err)
}

// ID returns the full name of the current test.
func (t *T) ID() TestID {
	return t.id
}

// Iteration returns the zero-based repetition that this scope belongs to.
func (t *T) Iteration() int {
	return t.state.iteration
}

// Run runs a subtest in its own scope.
//
// This is equivalent to Go's testing.T.Run.
func (t *T) Run(name string, action func(*T)) {
	id := t.id.Plus(name)
	t.hasChildren = true
	logger := t.state.config.TestLogger

	logger.TestStarted(id)
	switch {
	case t.state.stopped:
		logger.TestSkipped(id, "an earlier test failed and fail-fast is enabled")
		return
	case t.state.config.Filter != nil && !t.state.config.Filter.Match(id):
		logger.TestSkipped(id, "excluded by filter parameters")
		return
	case strings.HasPrefix(name, DisabledPrefix) && !t.state.config.AlsoRunDisabled:
		logger.TestSkipped(id, "disabled")
		return
	}
	c1 := &T{
		id:    id,
		state: t.state,
	}
	t.debugLogger.AddChildLogger(&c1.debugLogger) // see comments on t.DebugLogger()
	result := c1.run(action)
	t.debugLogger.RemoveChildLogger(&c1.debugLogger)
	if c1.skipped && !c1.failed {
		logger.TestSkipped(id, c1.skipReason)
	} else {
		logger.TestFinished(id, result, c1.debugLogger.Output())
	}
}

// Errorf reports a test failure. It is equivalent to Go's testing.T.Errorf. It does not cause the test
// to terminate, but adds the failure message to the output and marks the test as failed.
//
// You will rarely use this method directly; it is part of this type's implementation of the base
// interfaces testing.T and assert.TestingT, allowing it to be called from assertion helpers.
func (t *T) Errorf(format string, args ...interface{}) {
	err := fmt.Errorf(format, args...)
	t.addError(transformError(err, getStacktrace(false, t.helperFns)))
}

// FailNow causes the test to immediately terminate and be marked as failed.
func (t *T) FailNow() {
	t.failed = true
	panic(t)
}

// Skip causes the test to immediately terminate and be marked as skipped. A test that has
// already failed stays failed.
func (t *T) Skip() {
	t.skipped = true
	panic(t)
}

// SkipWithReason is equivalent to Skip but provides a message.
func (t *T) SkipWithReason(reason string) {
	t.skipReason = reason
	t.Skip()
}

// Debug writes a message to the output for this test scope.
func (t *T) Debug(message string, args ...interface{}) {
	t.debugLogger.Printf(message, args...)
}

// DebugLogger returns a Logger instance for writing output for this test scope.
//
// The output that is captured for a test will be passed to TestLogger.TestFinished at the end of
// the test. The test logger can choose whether to display this or not based on command-line options.
//
// When a test has subtests (created with t.Run), the logger for a subtest starts out with a copy of
// any output that was already logged for the parent test. During the lifetime of the subtest, any
// further output that is sent to the parent test's logger will go to the child test's logger
// instead.
func (t *T) DebugLogger() framework.Logger {
	return &t.debugLogger
}

// Defer schedules a cleanup function which is guaranteed to be called when this test scope
// exits for any reason, including FailNow, Skip and panics. Cleanups run in reverse order of
// registration. Unlike a Go defer statement, Defer can be used from within helper functions.
func (t *T) Defer(cleanupFn func()) {
	t.cleanups = append(t.cleanups, cleanupFn)
}

// Context returns the application-defined context value, if any, that was specified in the
// TestConfiguration.
func (t *T) Context() interface{} {
	return t.state.config.Context
}

// Helper marks the function that calls it as a test helper that shouldn't appear in stacktraces.
// Equivalent to Go's testing.T.Helper().
func (t *T) Helper() {
	pc, _, _, ok := runtime.Caller(1) // 0 is Helper() itself, 1 is who called it
	if !ok {
		return
	}
	f := runtime.FuncForPC(pc)
	if f == nil {
		return
	}
	t.helperFns = append(t.helperFns, f.Name())
}
