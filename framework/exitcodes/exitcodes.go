// Package exitcodes defines the process exit codes of the unit test executable.
package exitcodes

// Exit code constants:
//
// * Success (0): every test that ran passed
// * TestFailure (1): one or more tests failed
// * StartupError (2): the run could not start or finish cleanly, for instance because the
// logging configuration was missing, or the command line was invalid
const (
	Success      = 0
	TestFailure  = 1
	StartupError = 2
)
