package sim

import (
	"fmt"
	"math"

	"wave1d/internal/lattice"
	"wave1d/internal/solver"
)

// Config describes one cross-validated run.
type Config struct {
	// N is the lattice size.
	N int
	// P is the squared Courant number (c*dt/dx)^2.
	P float64
	// NumSteps counts half-steps; it must be even.
	NumSteps int
	// Initial seeds both paths. Nil selects a unit impulse.
	Initial lattice.Generator
	// Concurrent runs both paths at the same time instead of back to back.
	Concurrent bool
}

// Validate rejects configurations that no solver may run.
func (c Config) Validate() error {
	if c.N <= 0 {
		return fmt.Errorf("%w: lattice size must be positive, got %d", solver.ErrInvalidConfig, c.N)
	}
	if c.NumSteps < 0 {
		return fmt.Errorf("%w: step count must not be negative, got %d", solver.ErrInvalidConfig, c.NumSteps)
	}
	if c.NumSteps%2 != 0 {
		return fmt.Errorf("%w: step count %d is odd; half-steps must pair into full advances", solver.ErrInvalidConfig, c.NumSteps)
	}
	if math.IsNaN(c.P) || math.IsInf(c.P, 0) || c.P < 0 {
		return fmt.Errorf("%w: p must be a finite non-negative number, got %v", solver.ErrInvalidConfig, c.P)
	}
	return nil
}

func (c Config) generator() lattice.Generator {
	if c.Initial == nil {
		return lattice.Impulse(1.0)
	}
	return c.Initial
}

// seed builds the initial state and checks the generator honoured N.
func (c Config) seed() (*lattice.State, error) {
	s := c.generator()(c.N)
	if s == nil || len(s.Curr) != c.N || len(s.Prev) != c.N {
		return nil, fmt.Errorf("%w: initial condition does not match lattice size %d", solver.ErrInvalidConfig, c.N)
	}
	return s, nil
}
