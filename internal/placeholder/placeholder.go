// Package placeholder is the component the unit test suite is built around. Its responsibilities
// have not been defined yet; for now it only has a lifecycle.
package placeholder

import (
	"errors"

	"github.com/testbootstrap/bootstrap-harness/framework"
)

var ErrClosed = errors.New("placeholder is already closed")

type Placeholder struct {
	log    framework.Logger
	closed bool
}

func New(log framework.Logger) *Placeholder {
	if log == nil {
		log = framework.NullLogger()
	}
	log.Println("placeholder created")
	return &Placeholder{log: log}
}

// Close releases the placeholder. Closing it twice is an error.
func (p *Placeholder) Close() error {
	if p.closed {
		return ErrClosed
	}
	p.closed = true
	p.log.Println("placeholder closed")
	return nil
}

// State is a read-only view of a Placeholder's internals, for tests.
type State struct {
	Closed bool
}

// Inspect returns the current internal state.
func (p *Placeholder) Inspect() State {
	return State{Closed: p.closed}
}
