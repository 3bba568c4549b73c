package placeholder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testbootstrap/bootstrap-harness/framework"
)

func TestCloseOnce(t *testing.T) {
	var log framework.CapturingLogger
	p := New(&log)
	assert.False(t, p.Inspect().Closed)

	require.NoError(t, p.Close())
	assert.True(t, p.Inspect().Closed)
	assert.ErrorIs(t, p.Close(), ErrClosed)

	require.Len(t, log.Output(), 2)
	assert.Equal(t, "placeholder closed", log.Output()[1].Message)
}

func TestNewWithoutLogger(t *testing.T) {
	assert.NoError(t, New(nil).Close())
}
