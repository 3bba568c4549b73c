// Package runner contains a test runner that is similar to Go's testing package, but is run as
// regular application code rather than by "go test". On top of that model it adds process-wide
// environments that bracket the whole run, per-test fixtures, repeat and fail-fast modes, and
// pluggable result reporting.
package runner
