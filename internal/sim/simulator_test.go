package sim

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wave1d/internal/compute"
	"wave1d/internal/lattice"
	"wave1d/internal/solver"
)

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"reference scenario", Config{N: 32768, P: 0.05, NumSteps: 100000}, true},
		{"zero steps", Config{N: 4, P: 0.5}, true},
		{"unstable p is allowed", Config{N: 4, P: 2, NumSteps: 2}, true},
		{"zero lattice", Config{N: 0, P: 0.1, NumSteps: 2}, false},
		{"negative lattice", Config{N: -8, P: 0.1, NumSteps: 2}, false},
		{"negative steps", Config{N: 8, P: 0.1, NumSteps: -2}, false},
		{"odd steps", Config{N: 8, P: 0.1, NumSteps: 5}, false},
		{"negative p", Config{N: 8, P: -0.1, NumSteps: 2}, false},
		{"nan p", Config{N: 8, P: math.NaN(), NumSteps: 2}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, solver.ErrInvalidConfig)
		})
	}
}

func TestRunRejectsConfigBeforeOpeningBackend(t *testing.T) {
	opened := false
	open := func(n int) (compute.Backend, error) {
		opened = true
		return compute.NewHost(1), nil
	}
	_, err := New(Config{N: 8, P: 0.1, NumSteps: 3}, open).Run()
	require.ErrorIs(t, err, solver.ErrInvalidConfig)
	assert.False(t, opened)

	short := func(int) *lattice.State { return lattice.Zero(3) }
	_, err = New(Config{N: 8, P: 0.1, NumSteps: 2, Initial: short}, open).Run()
	require.ErrorIs(t, err, solver.ErrInvalidConfig)
	assert.False(t, opened)
}

func TestRunEquivalentPaths(t *testing.T) {
	for _, concurrent := range []bool{false, true} {
		cfg := Config{N: 8, P: 0.1, NumSteps: 4, Concurrent: concurrent}
		res, err := New(cfg, compute.HostOpener(2)).Run()
		require.NoError(t, err)
		require.NoError(t, res.ParallelErr)
		require.NotNil(t, res.Parallel)
		assert.Contains(t, res.Backend, "host")
		assert.EqualValues(t, 4*8, res.Evaluations)

		rep := res.Verify(1e-9)
		assert.True(t, rep.Pass, rep.String())
		assert.LessOrEqual(t, rep.MaxAbsDiff, 1e-9)

		// the impulse has left its starting shape
		assert.NotEqual(t, lattice.Impulse(1)(8), res.Sequential)
	}
}

func TestRunSurvivesBackendFailure(t *testing.T) {
	cause := errors.New("device unavailable")
	open := func(int) (compute.Backend, error) {
		return nil, &compute.BackendError{Op: "open", Err: cause}
	}
	res, err := New(Config{N: 16, P: 0.2, NumSteps: 6}, open).Run()
	require.NoError(t, err)
	require.ErrorIs(t, res.ParallelErr, compute.ErrBackend)
	require.ErrorIs(t, res.ParallelErr, cause)
	assert.Nil(t, res.Parallel)

	ref := lattice.Impulse(1)(16)
	solver.NewSequential().Advance(ref, 0.2, 6)
	assert.Equal(t, ref, res.Sequential)

	rep := res.Verify(DefaultTolerance)
	assert.False(t, rep.Pass)
	assert.True(t, rep.Unavailable)
}

func TestRunWithoutOpener(t *testing.T) {
	res, err := New(Config{N: 4, P: 0.1, NumSteps: 2}, nil).Run()
	require.NoError(t, err)
	assert.ErrorIs(t, res.ParallelErr, compute.ErrBackend)
	assert.NotNil(t, res.Sequential)
}

// closeTracker counts Close calls on an otherwise working host backend.
type closeTracker struct {
	*compute.Host
	closes int
}

func (c *closeTracker) Close() error {
	c.closes++
	return c.Host.Close()
}

func TestRunReleasesBackend(t *testing.T) {
	tracker := &closeTracker{Host: compute.NewHost(2)}
	open := func(int) (compute.Backend, error) { return tracker, nil }

	_, err := New(Config{N: 8, P: 0.1, NumSteps: 2}, open).Run()
	require.NoError(t, err)
	assert.Equal(t, 1, tracker.closes)
}

func TestZeroInitialConditionStaysZero(t *testing.T) {
	res, err := New(Config{N: 32, P: 0.9, NumSteps: 20, Initial: lattice.Zero}, compute.HostOpener(2)).Run()
	require.NoError(t, err)
	assert.Equal(t, lattice.Zero(32), res.Sequential)
	assert.Equal(t, lattice.Zero(32), res.Parallel)
}

func TestStabilityBoundary(t *testing.T) {
	// p = 1 transports the impulse without growth while the two fronts
	// have not yet met around the ring.
	res, err := New(Config{N: 1024, P: 1.0, NumSteps: 200}, compute.HostOpener(4)).Run()
	require.NoError(t, err)
	assert.LessOrEqual(t, MaxAbs(res.Sequential), 2.0)
	assert.LessOrEqual(t, MaxAbs(res.Parallel), 2.0)
	assert.True(t, res.Verify(DefaultTolerance).Pass)

	res, err = New(Config{N: 1024, P: 1.5, NumSteps: 200}, compute.HostOpener(4)).Run()
	require.NoError(t, err)
	peak := MaxAbs(res.Sequential)
	assert.True(t, math.IsNaN(peak) || peak > 1e6, "peak %g", peak)
}

func TestLongRunDivergenceIsReportedNotRaised(t *testing.T) {
	res, err := New(Config{N: 64, P: 3, NumSteps: 2000}, compute.HostOpener(2)).Run()
	require.NoError(t, err)
	rep := res.Verify(DefaultTolerance)
	assert.True(t, rep.Diverged)
	assert.False(t, rep.Pass)
}
