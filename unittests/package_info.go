// Package unittests contains the unit test suite of the placeholder component, run by the
// bootstrap-harness executable through the runner package.
package unittests
