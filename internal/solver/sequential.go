// Package solver advances a lattice.State with the two-level wave recurrence,
// either as a sequential sweep over the host or as alternating stage
// dispatches on a compute.Backend.
package solver

import "wave1d/internal/lattice"

// Sequential is the single-threaded reference solver.
type Sequential struct {
	evaluations int64
}

// NewSequential returns a reference solver.
func NewSequential() *Sequential {
	return &Sequential{}
}

// Advance applies numSteps full advances to state in place. Each iteration
// writes the next level over the previous one and then rotates slot
// ownership, so current always names the newest level.
func (s *Sequential) Advance(state *lattice.State, p float64, numSteps int) {
	if numSteps <= 0 {
		return
	}
	n := state.Len()
	current := append([]float64(nil), state.Curr...)
	previous := append([]float64(nil), state.Prev...)
	for i := 0; i < numSteps; i++ {
		lattice.Sweep(current, previous, p)
		current, previous = previous, current
		s.evaluations += int64(n)
	}
	copy(state.Curr, current)
	copy(state.Prev, previous)
}

// Evaluations returns the total stencil evaluations performed.
func (s *Sequential) Evaluations() int64 {
	return s.evaluations
}
