package runner

// Fixture is the per-test context wrapped around a single test case. A new fixture is
// constructed for every case, so no state carries over from one case to the next.
type Fixture interface {
	// SetUp runs before the test body. It may fail the test with FailNow, in which case the
	// body is not run but TearDown still is.
	SetUp(t *T)

	// TearDown runs after the test body however it ended.
	TearDown(t *T)
}

// RunWithFixture runs a subtest that receives its own freshly constructed fixture.
func RunWithFixture[F Fixture](t *T, name string, newFixture func() F, action func(*T, F)) {
	t.Run(name, func(t *T) {
		f := newFixture()
		t.Defer(func() { f.TearDown(t) })
		f.SetUp(t)
		action(t, f)
	})
}
