// Package compute defines the backend boundary used by the parallel solver
// and ships two implementations: a host backend that runs each stage on a
// pool of worker goroutines, and an OpenCL backend built with -tags opencl.
//
// A backend holds two device-resident slots. The parallel solver binds each
// stage to a fixed (read, write) slot pair once and then only dispatches, so
// buffer handles are never exchanged between dispatches.
package compute

import "fmt"

// Slot names one of the two device-resident lattice buffers.
type Slot int

const (
	Slot0 Slot = iota // u0, the newest level after a full A->B cycle
	Slot1             // u1
)

func (s Slot) String() string {
	switch s {
	case Slot0:
		return "u0"
	case Slot1:
		return "u1"
	}
	return fmt.Sprintf("slot(%d)", int(s))
}

// Stage is one half of a full advance. The solver alternates StageA and
// StageB on every half-step.
type Stage int

const (
	StageA Stage = iota
	StageB
)

// Next returns the stage dispatched after s.
func (s Stage) Next() Stage {
	if s == StageA {
		return StageB
	}
	return StageA
}

func (s Stage) String() string {
	switch s {
	case StageA:
		return "A"
	case StageB:
		return "B"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Binding fixes the operands of a stage: the stencil reads Read and writes
// Write, with squared Courant number P over N lattice points.
type Binding struct {
	Read  Slot
	Write Slot
	P     float64
	N     int
}

// Valid reports whether the binding reads and writes distinct known slots.
func (b Binding) Valid() bool {
	if b.Read == b.Write || b.N <= 0 {
		return false
	}
	return validSlot(b.Read) && validSlot(b.Write)
}

func validSlot(s Slot) bool {
	return s == Slot0 || s == Slot1
}

// Backend executes stencil stages with independent per-index evaluation and
// moves lattice data between host and device.
type Backend interface {
	// Name identifies the backend or device in logs.
	Name() string
	// Load copies the host levels into Slot0 and Slot1.
	Load(u0, u1 []float64) error
	// Bind fixes the operand roles of a stage.
	Bind(stage Stage, b Binding) error
	// Dispatch evaluates the stage at every index. Every write of a
	// dispatch is visible to the next dispatch and to Readback.
	Dispatch(stage Stage) error
	// Readback copies a slot into host memory.
	Readback(slot Slot, dst []float64) error
	// Close releases every resource held by the backend.
	Close() error
}

// Opener acquires a backend sized for n lattice points.
type Opener func(n int) (Backend, error)
