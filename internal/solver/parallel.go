package solver

import (
	"fmt"

	"wave1d/internal/compute"
	"wave1d/internal/lattice"
)

// Parallel drives a compute.Backend with two stages whose read and write
// slots are fixed at setup: StageA reads u0 and writes u1, StageB reads u1
// and writes u0. Alternating them replaces the buffer swap of the
// sequential solver.
type Parallel struct {
	backend     compute.Backend
	dispatches  int64
	evaluations int64
}

// NewParallel returns a solver dispatching to backend. The caller keeps
// ownership of the backend and must close it.
func NewParallel(backend compute.Backend) *Parallel {
	return &Parallel{backend: backend}
}

// Bindings returns the fixed operand roles of both stages.
func Bindings(p float64, n int) map[compute.Stage]compute.Binding {
	return map[compute.Stage]compute.Binding{
		compute.StageA: {Read: compute.Slot0, Write: compute.Slot1, P: p, N: n},
		compute.StageB: {Read: compute.Slot1, Write: compute.Slot0, P: p, N: n},
	}
}

// Advance runs numSteps half-steps (numSteps/2 full A->B cycles) and reads
// both levels back into state. numSteps must be even so that u0 ends up
// holding the newest level.
func (s *Parallel) Advance(state *lattice.State, p float64, numSteps int) error {
	if numSteps < 0 {
		return fmt.Errorf("%w: negative step count %d", ErrInvalidConfig, numSteps)
	}
	if numSteps%2 != 0 {
		return fmt.Errorf("%w: %d half-steps do not pair into full advances", ErrInvalidConfig, numSteps)
	}
	n := state.Len()
	if n == 0 {
		return fmt.Errorf("%w: empty lattice", ErrInvalidConfig)
	}
	if err := s.backend.Load(state.Curr, state.Prev); err != nil {
		return err
	}
	bindings := Bindings(p, n)
	for _, stage := range []compute.Stage{compute.StageA, compute.StageB} {
		if err := s.backend.Bind(stage, bindings[stage]); err != nil {
			return err
		}
	}

	stage := compute.StageA
	for i := 0; i < numSteps; i++ {
		if err := s.backend.Dispatch(stage); err != nil {
			return err
		}
		s.dispatches++
		s.evaluations += int64(n)
		stage = stage.Next()
	}

	if err := s.backend.Readback(compute.Slot0, state.Curr); err != nil {
		return err
	}
	return s.backend.Readback(compute.Slot1, state.Prev)
}

// Dispatches returns the number of stage dispatches issued.
func (s *Parallel) Dispatches() int64 {
	return s.dispatches
}

// Evaluations returns dispatches times the lattice size.
func (s *Parallel) Evaluations() int64 {
	return s.evaluations
}
