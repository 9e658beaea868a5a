package backend

import (
	stderrors "errors"
	"testing"

	cserrors "github.com/paveg/chartseries/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequire(t *testing.T) {
	const c Capability = "test-backend"
	restore := Unregister(c)
	defer restore()

	err := Require("Op", c)
	require.Error(t, err)
	assert.ErrorIs(t, err, cserrors.ErrMissingDependency)

	Register(c, nil)
	defer Unregister(c)
	assert.NoError(t, Require("Op", c))
}

func TestRequire_ProbeRunsOnce(t *testing.T) {
	const c Capability = "flaky-backend"
	calls := 0
	probeErr := stderrors.New("library not linked")
	Register(c, func() error {
		calls++
		return probeErr
	})
	defer Unregister(c)

	for range 3 {
		err := Require("Op", c)
		require.Error(t, err)
		assert.ErrorIs(t, err, probeErr)
	}
	assert.Equal(t, 1, calls)
}

func TestUnregisterRestore(t *testing.T) {
	const c Capability = "restorable"
	Register(c, nil)
	restore := Unregister(c)
	assert.NotContains(t, Registered(), c)

	restore()
	assert.Contains(t, Registered(), c)
	Unregister(c)
}

func TestProbeArrow(t *testing.T) {
	assert.NoError(t, ProbeArrow())
}
