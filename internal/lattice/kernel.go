package lattice

// CFLLimit is the stability bound on the squared Courant number. The
// recurrence stays bounded only while p <= CFLLimit; nothing enforces it.
const CFLLimit = 1.0

// CourantNumber returns p = (c*dt/dx)^2 for wave speed c, time step dt and
// grid spacing dx.
func CourantNumber(c, dt, dx float64) float64 {
	r := c * dt / dx
	return r * r
}

// Stable reports whether p satisfies the CFL condition.
func Stable(p float64) bool {
	return p >= 0 && p <= CFLLimit
}

// Wrap maps any index onto the ring [0, n). n must be positive.
func Wrap(j, n int) int {
	return ((j % n) + n) % n
}

// Left returns the periodic left neighbour of j.
func Left(j, n int) int {
	return Wrap(j-1, n)
}

// Right returns the periodic right neighbour of j.
func Right(j, n int) int {
	return Wrap(j+1, n)
}

// Update advances index j: v0 holds level t, v1 holds level t-1 on input and
// level t+1 on output.
func Update(v0, v1 []float64, j int, p float64) {
	n := len(v0)
	update(v0, v1, Left(j, n), j, Right(j, n), p)
}

// update evaluates the stencil with precomputed neighbours. The explicit
// float64 conversion rounds the product before the sum, which forbids FMA
// fusion and keeps every caller bit-identical.
func update(v0, v1 []float64, l, j, r int, p float64) {
	c := v0[j]
	v1[j] = float64(p*(v0[l]+v0[r]-2*c)) + 2*c - v1[j]
}

// Sweep applies Update to every index of the lattice.
func Sweep(v0, v1 []float64, p float64) {
	SweepRange(v0, v1, p, 0, len(v0))
}

// SweepRange applies Update to indices [lo, hi). Interior indices skip the
// modulo; the two ring edges wrap.
func SweepRange(v0, v1 []float64, p float64, lo, hi int) {
	n := len(v0)
	if lo < 0 {
		lo = 0
	}
	if hi > n {
		hi = n
	}
	if lo >= hi {
		return
	}
	j := lo
	if j == 0 {
		update(v0, v1, n-1, 0, Right(0, n), p)
		j++
	}
	end := hi
	if end == n {
		end = n - 1
	}
	for ; j+3 < end; j += 4 {
		update(v0, v1, j-1, j, j+1, p)
		update(v0, v1, j, j+1, j+2, p)
		update(v0, v1, j+1, j+2, j+3, p)
		update(v0, v1, j+2, j+3, j+4, p)
	}
	for ; j < end; j++ {
		update(v0, v1, j-1, j, j+1, p)
	}
	if hi == n && n > 1 {
		update(v0, v1, n-2, n-1, 0, p)
	}
}
