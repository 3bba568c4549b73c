// Package framework contains the shared pieces of the unit-test bootstrap: the Logger
// abstraction used by the runner and the test environment, and the capturing logger that
// collects per-test debug output. The runner itself lives in the runner subpackage; the
// process-wide test environment lives in harness.
//
// The general model is:
//
// 1. The entry point constructs exactly one test environment and passes it to the runner.
//
// 2. The runner sets the environment up once, runs every registered test scope, then tears
// the environment down once, no matter how the individual tests ended.
//
// 3. Each test scope is similar to Go's testing.T, accumulating failures and debug output
// that the configured test loggers report on.
package framework
