// Package view animates a lattice in a window while the sequential solver
// advances it.
package view

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"wave1d/internal/lattice"
	"wave1d/internal/solver"
)

const (
	defaultWidth  = 1024
	defaultHeight = 256
	windowScale   = 1
)

// Options configures the viewer.
type Options struct {
	N             int
	P             float64
	StepsPerFrame int
	Initial       lattice.Generator
	Width, Height int
	Scale         float64
}

// viewer implements ebiten.Game over one lattice.
type viewer struct {
	opts   Options
	state  *lattice.State
	solver *solver.Sequential
	steps  int
	pixels []byte
}

func newViewer(opts Options) *viewer {
	if opts.Width <= 0 {
		opts.Width = defaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = defaultHeight
	}
	if opts.StepsPerFrame < 0 {
		opts.StepsPerFrame = 0
	}
	opts.StepsPerFrame += opts.StepsPerFrame % 2
	if opts.Initial == nil {
		opts.Initial = lattice.Impulse(1.0)
	}
	if opts.Scale <= 0 {
		opts.Scale = 1.0
	}
	return &viewer{
		opts:   opts,
		state:  opts.Initial(opts.N),
		solver: solver.NewSequential(),
		pixels: make([]byte, opts.Width*opts.Height*4),
	}
}

// Update advances the lattice by the configured number of half-steps.
func (v *viewer) Update() error {
	v.solver.Advance(v.state, v.opts.P, v.opts.StepsPerFrame)
	v.steps += v.opts.StepsPerFrame
	return nil
}

// Draw renders the newest level and a status overlay.
func (v *viewer) Draw(screen *ebiten.Image) {
	plotField(v.pixels, v.opts.Width, v.opts.Height, v.state.Curr, v.opts.Scale)
	screen.WritePixels(v.pixels)
	ebitenutil.DebugPrint(screen, fmt.Sprintf("n=%d p=%g steps=%d TPS=%.1f",
		v.state.Len(), v.opts.P, v.steps, ebiten.ActualTPS()))
}

func (v *viewer) Layout(_, _ int) (int, int) {
	return v.opts.Width, v.opts.Height
}

// Run opens the window and blocks until it is closed.
func Run(opts Options) error {
	if opts.N <= 0 {
		return fmt.Errorf("view: lattice size must be positive, got %d", opts.N)
	}
	v := newViewer(opts)
	ebiten.SetWindowSize(v.opts.Width*windowScale, v.opts.Height*windowScale)
	ebiten.SetWindowTitle("1D wave equation")
	return ebiten.RunGame(v)
}
