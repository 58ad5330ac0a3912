package main

import (
	"flag"

	"wave1d/internal/sim"
)

// Command-line flags controlling the scenario, the compute backend, and
// optional diagnostics. Every flag has a default so the command runs with no
// arguments.
var (
	// latticeSizeFlag sets the number of points on the ring.
	latticeSizeFlag = flag.Int("n", defaultLatticeSize, "number of lattice points")

	// courantFlag sets p = (c*dt/dx)^2; values above 1 violate the CFL bound.
	courantFlag = flag.Float64("p", defaultCourant, "squared Courant number (c*dt/dx)^2")

	// stepsFlag counts half-steps and must be even.
	stepsFlag = flag.Int("steps", defaultHalfSteps, "number of half-steps (even)")

	// backendFlag selects the compute backend for the parallel path.
	backendFlag = flag.String("backend", defaultBackend, "parallel backend: host or opencl (needs -tags opencl)")

	// workersFlag sizes the host backend worker pool; 0 uses every CPU.
	workersFlag = flag.Int("workers", 0, "host backend worker goroutines (0 = NumCPU)")

	toleranceFlag = flag.Float64("tolerance", sim.DefaultTolerance, "maximum absolute difference accepted between the two paths")

	// concurrentFlag runs the sequential and parallel paths at the same time.
	concurrentFlag = flag.Bool("concurrent", false, "run both solver paths concurrently (timings then overlap)")

	cpuProfileFlag = flag.String("cpuprofile", "", "write a CPU profile of the run to this path")

	// viewFlag opens a live window instead of running the comparison.
	viewFlag = flag.Bool("view", false, "animate the lattice in a window instead of cross-validating")

	viewStepsFlag = flag.Int("view-steps", defaultViewSteps, "half-steps advanced per frame in -view mode")
)
