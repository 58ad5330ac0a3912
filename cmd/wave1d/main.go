// Command wave1d evolves the 1D wave equation on a periodic lattice twice,
// once through a compute backend with alternating stages and once with the
// sequential reference solver, and reports whether the two agree.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"wave1d/internal/compute"
	"wave1d/internal/lattice"
	"wave1d/internal/sim"
	"wave1d/internal/view"
)

func main() {
	flag.Parse()
	log.SetFlags(log.Ltime | log.Lmicroseconds)
	os.Exit(run())
}

func run() int {
	if *cpuProfileFlag != "" {
		stop, err := startCPUProfile(*cpuProfileFlag)
		if err != nil {
			log.Printf("CPU profile unavailable: %v", err)
		} else {
			defer stop()
		}
	}

	if *viewFlag {
		err := view.Run(view.Options{
			N:             *latticeSizeFlag,
			P:             *courantFlag,
			StepsPerFrame: *viewStepsFlag,
			Initial:       lattice.Impulse(defaultAmplitude),
			Scale:         defaultViewScale,
		})
		if err != nil {
			log.Printf("viewer: %v", err)
			return 1
		}
		return 0
	}

	open, err := openerFor(*backendFlag, *workersFlag)
	if err != nil {
		log.Printf("configuration: %v", err)
		return 2
	}
	cfg := sim.Config{
		N:          *latticeSizeFlag,
		P:          *courantFlag,
		NumSteps:   *stepsFlag,
		Initial:    lattice.Impulse(defaultAmplitude),
		Concurrent: *concurrentFlag,
	}
	log.Printf("lattice n=%d p=%g half-steps=%d backend=%s", cfg.N, cfg.P, cfg.NumSteps, *backendFlag)

	res, err := sim.New(cfg, open).Run()
	if err != nil {
		log.Printf("configuration: %v", err)
		return 2
	}

	if res.ParallelErr != nil {
		log.Printf("parallel path failed: %v", res.ParallelErr)
	} else {
		log.Printf("%s: %v", res.Backend, res.ParallelTime)
	}
	log.Printf("sequential: %v (%d stencil evaluations)", res.SequentialTime, res.Evaluations)
	log.Printf("max |u| sequential %.6g", sim.MaxAbs(res.Sequential))

	report := res.Verify(*toleranceFlag)
	log.Printf("verify: %s", report)
	fmt.Println("Done!")
	if !report.Pass {
		return 1
	}
	return 0
}

// openerFor maps a backend name to the Opener that acquires it.
func openerFor(name string, workers int) (compute.Opener, error) {
	switch name {
	case backendHost:
		return compute.HostOpener(workers), nil
	case backendOpenCL:
		return compute.OpenCLOpener(), nil
	}
	return nil, fmt.Errorf("unknown backend %q (want %s or %s)", name, backendHost, backendOpenCL)
}
