package lattice

// State stores the two time levels required by the two-level recurrence.
// Curr holds level t (u0) and Prev holds level t-1 (u1). Both slices always
// share the same length.
type State struct {
	Curr []float64
	Prev []float64
}

// Generator builds an initial condition for a lattice of n points.
type Generator func(n int) *State

// NewState allocates a zeroed State with n points per level.
func NewState(n int) *State {
	if n < 0 {
		n = 0
	}
	return &State{
		Curr: make([]float64, n),
		Prev: make([]float64, n),
	}
}

// Len returns the number of lattice points.
func (s *State) Len() int {
	return len(s.Curr)
}

// Clone returns a deep copy that shares no memory with s.
func (s *State) Clone() *State {
	c := NewState(s.Len())
	copy(c.Curr, s.Curr)
	copy(c.Prev, s.Prev)
	return c
}

// Level returns the time level selected by idx: 0 is Curr, 1 is Prev.
func (s *State) Level(idx int) []float64 {
	if idx == 0 {
		return s.Curr
	}
	return s.Prev
}

// Reset zeroes both time levels.
func (s *State) Reset() {
	clear(s.Curr)
	clear(s.Prev)
}

// Impulse returns a generator placing amplitude at the midpoint of both
// levels with every other sample zero. Equal levels mean zero initial
// velocity.
func Impulse(amplitude float64) Generator {
	return func(n int) *State {
		s := NewState(n)
		if n > 0 {
			s.Curr[n/2] = amplitude
			s.Prev[n/2] = amplitude
		}
		return s
	}
}

// Zero is the all-zero initial condition.
func Zero(n int) *State {
	return NewState(n)
}
