package runner

import "fmt"

// Environment is set up once before any test in a run executes, and torn down once after all of
// them have finished. It is the runner-side view of a process-wide test environment.
type Environment interface {
	SetUp() error
	TearDown() error
}

// EnvironmentFuncs adapts a pair of functions to the Environment interface. Either may be nil.
type EnvironmentFuncs struct {
	SetUpFn    func() error
	TearDownFn func() error
}

func (e EnvironmentFuncs) SetUp() error {
	if e.SetUpFn == nil {
		return nil
	}
	return e.SetUpFn()
}

func (e EnvironmentFuncs) TearDown() error {
	if e.TearDownFn == nil {
		return nil
	}
	return e.TearDownFn()
}

// setUpEnvironments returns the environments that were set up successfully, in order. On error,
// the caller must still tear those down.
func setUpEnvironments(envs []Environment) ([]Environment, error) {
	ready := make([]Environment, 0, len(envs))
	for i, env := range envs {
		if err := env.SetUp(); err != nil {
			return ready, fmt.Errorf("test environment %d failed to set up: %w", i, err)
		}
		ready = append(ready, env)
	}
	return ready, nil
}

func tearDownEnvironments(envs []Environment) []error {
	var errs []error
	for i := len(envs) - 1; i >= 0; i-- {
		if err := envs[i].TearDown(); err != nil {
			errs = append(errs, fmt.Errorf("test environment %d failed to tear down: %w", i, err))
		}
	}
	return errs
}
