package sim

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"wave1d/internal/lattice"
)

// DefaultTolerance bounds the absolute difference accepted between paths.
const DefaultTolerance = 1e-9

// Report summarises a comparison of two final states.
type Report struct {
	Pass       bool
	Tolerance  float64
	MaxAbsDiff float64
	MaxRelDiff float64
	// Index and Level locate the largest absolute difference; Level 0 is
	// Curr and 1 is Prev. Index is -1 when nothing was compared.
	Index int
	Level int
	// Diverged is set when either state holds NaN or Inf.
	Diverged bool
	// Unavailable is set when one of the states was never produced.
	Unavailable bool
	// SizeMismatch is set when the states have different lattice sizes.
	SizeMismatch bool
}

func (r Report) String() string {
	switch {
	case r.Unavailable:
		return "FAIL: parallel result unavailable"
	case r.Diverged:
		return fmt.Sprintf("FAIL: numeric divergence (non-finite values), max |diff| %g", r.MaxAbsDiff)
	case r.SizeMismatch:
		return fmt.Sprintf("FAIL: lattice sizes differ, max |diff| %g", r.MaxAbsDiff)
	}
	status := "PASS"
	if !r.Pass {
		status = "FAIL"
	}
	return fmt.Sprintf("%s: max |diff| %.3g (rel %.3g) at index %d level %d, tolerance %g",
		status, r.MaxAbsDiff, r.MaxRelDiff, r.Index, r.Level, r.Tolerance)
}

// Compare checks both time levels of a and b index by index.
func Compare(a, b *lattice.State, tol float64) Report {
	rep := Report{Tolerance: tol, Index: -1}
	if a.Len() != b.Len() || len(a.Prev) != len(b.Prev) {
		rep.MaxAbsDiff = math.Inf(1)
		rep.SizeMismatch = true
		return rep
	}
	rep.Diverged = !finite(a) || !finite(b)

	for level := 0; level < 2; level++ {
		x, y := a.Level(level), b.Level(level)
		diff := Diff(x, y)
		for j, d := range diff {
			if math.IsNaN(d) {
				d = math.Inf(1)
			}
			if d > rep.MaxAbsDiff || rep.Index < 0 {
				rep.MaxAbsDiff = d
				rep.Index = j
				rep.Level = level
			}
			if denom := math.Max(math.Abs(x[j]), math.Abs(y[j])); denom > 0 {
				if rel := d / denom; rel > rep.MaxRelDiff {
					rep.MaxRelDiff = rel
				}
			}
		}
	}
	rep.Pass = !rep.Diverged && rep.MaxAbsDiff <= tol
	return rep
}

// Diff returns |x[j]-y[j]| for every index. x and y must share a length.
func Diff(x, y []float64) []float64 {
	d := make([]float64, len(x))
	floats.SubTo(d, x, y)
	for j, v := range d {
		d[j] = math.Abs(v)
	}
	return d
}

// MaxAbs returns the largest magnitude across both levels, or NaN when the
// state holds a NaN.
func MaxAbs(s *lattice.State) float64 {
	if floats.HasNaN(s.Curr) || floats.HasNaN(s.Prev) {
		return math.NaN()
	}
	peak := 0.0
	if len(s.Curr) > 0 {
		peak = floats.Norm(s.Curr, math.Inf(1))
	}
	if len(s.Prev) > 0 {
		peak = math.Max(peak, floats.Norm(s.Prev, math.Inf(1)))
	}
	return peak
}

func finite(s *lattice.State) bool {
	m := MaxAbs(s)
	return !math.IsNaN(m) && !math.IsInf(m, 0)
}
