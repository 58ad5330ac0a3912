package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wave1d/internal/lattice"
)

func TestCompareIdentical(t *testing.T) {
	a := lattice.Impulse(1)(16)
	rep := Compare(a, a.Clone(), DefaultTolerance)
	assert.True(t, rep.Pass)
	assert.Zero(t, rep.MaxAbsDiff)
	assert.False(t, rep.Diverged)
	assert.Contains(t, rep.String(), "PASS")
}

func TestCompareLocatesWorstDifference(t *testing.T) {
	a := lattice.Impulse(1)(8)
	b := a.Clone()
	b.Prev[6] += 1e-6
	b.Curr[2] += 1e-12

	rep := Compare(a, b, 1e-9)
	require.False(t, rep.Pass)
	assert.Equal(t, 6, rep.Index)
	assert.Equal(t, 1, rep.Level)
	assert.InDelta(t, 1e-6, rep.MaxAbsDiff, 1e-18)
	assert.InDelta(t, 1.0, rep.MaxRelDiff, 1e-9)
	assert.Contains(t, rep.String(), "FAIL")

	rep = Compare(a, b, 1e-5)
	assert.True(t, rep.Pass)
}

func TestCompareFlagsDivergence(t *testing.T) {
	a := lattice.Impulse(1)(8)
	b := a.Clone()
	b.Curr[1] = math.NaN()
	rep := Compare(a, b, 1)
	assert.False(t, rep.Pass)
	assert.True(t, rep.Diverged)
	assert.True(t, math.IsInf(rep.MaxAbsDiff, 1))

	c := a.Clone()
	c.Prev[0] = math.Inf(-1)
	rep = Compare(c, c.Clone(), 1)
	assert.True(t, rep.Diverged)
	assert.False(t, rep.Pass)
	assert.Contains(t, rep.String(), "divergence")
}

func TestCompareSizeMismatch(t *testing.T) {
	rep := Compare(lattice.Zero(4), lattice.Zero(5), 1)
	assert.False(t, rep.Pass)
	assert.True(t, rep.SizeMismatch)
	assert.Equal(t, -1, rep.Index)
}

func TestDiffAndMaxAbs(t *testing.T) {
	assert.Equal(t, []float64{1, 0, 2.5}, Diff([]float64{1, 2, -1}, []float64{0, 2, 1.5}))

	s := lattice.Zero(4)
	s.Curr[1] = -3
	s.Prev[2] = 2
	assert.Equal(t, 3.0, MaxAbs(s))
	s.Prev[3] = math.NaN()
	assert.True(t, math.IsNaN(MaxAbs(s)))
	assert.Zero(t, MaxAbs(lattice.Zero(0)))
}
