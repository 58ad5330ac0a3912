// Package sim runs the sequential and parallel solvers side by side from
// identical initial conditions and compares what they produce.
package sim

import (
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"wave1d/internal/compute"
	"wave1d/internal/lattice"
	"wave1d/internal/solver"
)

// Result holds the final state of both paths. Parallel is nil when the
// backend failed; Sequential is always present.
type Result struct {
	Sequential     *lattice.State
	Parallel       *lattice.State
	ParallelErr    error
	Backend        string
	SequentialTime time.Duration
	ParallelTime   time.Duration
	Evaluations    int64
}

// Verify compares the two paths under tol. A failed parallel path yields a
// failing report.
func (r *Result) Verify(tol float64) Report {
	if r.Parallel == nil {
		return Report{Tolerance: tol, Index: -1, Unavailable: true}
	}
	return Compare(r.Sequential, r.Parallel, tol)
}

// Simulator owns both lattice copies for one run.
type Simulator struct {
	cfg  Config
	open compute.Opener
}

// New returns a simulator acquiring its backend through open.
func New(cfg Config, open compute.Opener) *Simulator {
	return &Simulator{cfg: cfg, open: open}
}

// Run validates the configuration, then advances both paths by
// cfg.NumSteps stencil sweeps. Only configuration errors are returned;
// backend failures end up in Result.ParallelErr.
func (s *Simulator) Run() (*Result, error) {
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}
	seqState, err := s.cfg.seed()
	if err != nil {
		return nil, err
	}
	if !lattice.Stable(s.cfg.P) {
		log.Printf("warning: p=%g exceeds the CFL bound %g; the field is expected to diverge", s.cfg.P, lattice.CFLLimit)
	}
	parState := seqState.Clone()
	res := &Result{Sequential: seqState}

	runSequential := func() error {
		start := time.Now()
		seq := solver.NewSequential()
		seq.Advance(seqState, s.cfg.P, s.cfg.NumSteps)
		res.SequentialTime = time.Since(start)
		res.Evaluations = seq.Evaluations()
		return nil
	}
	runParallel := func() error {
		start := time.Now()
		name, err := s.runParallel(parState)
		res.ParallelTime = time.Since(start)
		res.Backend = name
		if err != nil {
			res.ParallelErr = err
			return nil
		}
		res.Parallel = parState
		return nil
	}

	if s.cfg.Concurrent {
		var g errgroup.Group
		g.Go(runParallel)
		g.Go(runSequential)
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return res, nil
	}
	_ = runParallel()
	_ = runSequential()
	return res, nil
}

// runParallel acquires the backend, advances state, and releases the
// backend on every path.
func (s *Simulator) runParallel(state *lattice.State) (name string, err error) {
	if s.open == nil {
		return "", &compute.BackendError{Op: "open", Err: fmt.Errorf("no backend configured")}
	}
	backend, err := s.open(s.cfg.N)
	if err != nil {
		return "", err
	}
	name = backend.Name()
	defer func() {
		if cerr := backend.Close(); cerr != nil && err == nil {
			err = &compute.BackendError{Op: "close", Err: cerr}
		}
	}()
	return name, solver.NewParallel(backend).Advance(state, s.cfg.P, s.cfg.NumSteps)
}
