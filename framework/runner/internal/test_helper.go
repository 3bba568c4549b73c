// Package internal contains test helpers for runner.
package internal

// RunAction is used only in unit tests. It lives outside the runner package so that it shows up
// in filtered stacktraces.
func RunAction(action func()) {
	action()
}
