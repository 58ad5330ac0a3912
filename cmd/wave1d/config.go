package main

// Default scenario and runtime configuration constants. The defaults
// reproduce the reference run: a unit impulse on a 32768-point ring advanced
// by 100000 half-steps.
const (
	defaultLatticeSize = 1024 * 32
	defaultCourant     = 0.05
	defaultHalfSteps   = 2 * 50000
	defaultAmplitude   = 1.0
	defaultBackend     = backendHost
	defaultViewSteps   = 16
	defaultViewScale   = 1.0
)

const (
	backendHost   = "host"
	backendOpenCL = "opencl"
)
