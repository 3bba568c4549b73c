package runner

import (
	"strings"
	"time"
)

type Results struct {
	// RunID identifies this run in reports.
	RunID string

	Tests    []TestResult
	Failures []TestResult

	// StartupError is set if an environment could not be set up. No tests ran in that case.
	StartupError error

	// TeardownErrors collects every environment that failed to tear down.
	TeardownErrors []error

	// Duration covers environment setup, every iteration, and teardown.
	Duration time.Duration
}

type TestResult struct {
	TestID    TestID
	Iteration int
	Failed    bool

	// Group is true for a scope that ran subtests. Test counts only include a group if it
	// failed on its own account.
	Group bool
	Errors    []error
}

// OK returns true if the run started, every test that ran passed, and the environments were
// torn down without error.
func (r Results) OK() bool {
	return r.StartupError == nil && len(r.Failures) == 0 && len(r.TeardownErrors) == 0
}

type TestID []string

// counted reports whether r counts as a test in totals: every leaf scope, and a group scope only
// if it failed itself. The unnamed root scope never counts.
func (r TestResult) counted() bool {
	return len(r.TestID) != 0 && (!r.Group || r.Failed)
}

// CountTests returns the number of passed and failed tests, leaving out group scopes that
// only contain other tests.
func (r Results) CountTests() (passed, failed int) {
	for _, t := range r.Tests {
		if !t.counted() {
			continue
		}
		if t.Failed {
			failed++
		} else {
			passed++
		}
	}
	return passed, failed
}

func (t TestID) String() string {
	return strings.Join(t, "/")
}

func (t TestID) Plus(name string) TestID {
	return append(append(TestID(nil), t...), name)
}
