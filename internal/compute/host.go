package compute

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"wave1d/internal/lattice"
)

// spansPerWorker controls how finely the ring is cut before spans are dealt
// out to workers.
const spansPerWorker = 4

var errClosed = errors.New("backend closed")

// span is a half-open index range [start, end) of the lattice.
type span struct{ start, end int }

// workerMask collects the spans assigned to a worker goroutine.
type workerMask struct {
	spans []span
}

// Host runs every stage on persistent worker goroutines. Each dispatch wakes
// the workers, each worker sweeps its spans of the write slot, and the
// dispatch returns once every worker has reported back.
type Host struct {
	workers  int
	slots    [2][]float64
	bindings [2]Binding
	bound    [2]bool
	masks    []workerMask

	mu      sync.Mutex
	cond    *sync.Cond
	step    int
	pending int
	read    []float64
	write   []float64
	p       float64
	closed  bool
	started bool

	evaluations atomic.Int64
}

// NewHost creates a host backend with the given number of workers. A
// non-positive count uses one worker per CPU.
func NewHost(workers int) *Host {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	h := &Host{workers: workers}
	h.cond = sync.NewCond(&h.mu)
	return h
}

// HostOpener returns an Opener producing host backends.
func HostOpener(workers int) Opener {
	return func(int) (Backend, error) {
		return NewHost(workers), nil
	}
}

func (h *Host) Name() string {
	return fmt.Sprintf("host (%d workers)", h.workers)
}

// Workers returns the size of the worker pool.
func (h *Host) Workers() int {
	return h.workers
}

// Evaluations returns the number of stencil evaluations performed so far.
func (h *Host) Evaluations() int64 {
	return h.evaluations.Load()
}

func (h *Host) Load(u0, u1 []float64) error {
	if h.isClosed() {
		return backendErr("load", errClosed)
	}
	if len(u0) != len(u1) {
		return backendErr("load", fmt.Errorf("level sizes differ: %d != %d", len(u0), len(u1)))
	}
	if len(u0) == 0 {
		return backendErr("load", errors.New("empty lattice"))
	}
	h.slots[Slot0] = append(h.slots[Slot0][:0], u0...)
	h.slots[Slot1] = append(h.slots[Slot1][:0], u1...)
	h.masks = assignSpans(h.workers, splitSpans(len(u0), h.workers*spansPerWorker))
	h.startWorkers()
	return nil
}

func (h *Host) Bind(stage Stage, b Binding) error {
	if stage != StageA && stage != StageB {
		return stageErr("bind", stage, errors.New("unknown stage"))
	}
	if !b.Valid() {
		return stageErr("bind", stage, fmt.Errorf("invalid binding %s->%s n=%d", b.Read, b.Write, b.N))
	}
	if n := len(h.slots[Slot0]); n != 0 && n != b.N {
		return stageErr("bind", stage, fmt.Errorf("binding size %d does not match loaded lattice %d", b.N, n))
	}
	h.bindings[stage] = b
	h.bound[stage] = true
	return nil
}

func (h *Host) Dispatch(stage Stage) error {
	if stage != StageA && stage != StageB {
		return stageErr("dispatch", stage, errors.New("unknown stage"))
	}
	if !h.bound[stage] {
		return stageErr("dispatch", stage, errors.New("stage not bound"))
	}
	if len(h.slots[Slot0]) == 0 {
		return stageErr("dispatch", stage, errors.New("no lattice loaded"))
	}
	b := h.bindings[stage]
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return stageErr("dispatch", stage, errClosed)
	}
	h.read = h.slots[b.Read]
	h.write = h.slots[b.Write]
	h.p = b.P
	h.pending = h.workers
	h.step++
	h.cond.Broadcast()
	for h.pending > 0 {
		h.cond.Wait()
	}
	h.mu.Unlock()
	return nil
}

func (h *Host) Readback(slot Slot, dst []float64) error {
	if !validSlot(slot) {
		return backendErr("readback", fmt.Errorf("unknown %s", slot))
	}
	src := h.slots[slot]
	if len(dst) != len(src) {
		return backendErr("readback", fmt.Errorf("destination holds %d values, %s holds %d", len(dst), slot, len(src)))
	}
	copy(dst, src)
	return nil
}

// Close stops the worker goroutines. It is safe to call more than once.
func (h *Host) Close() error {
	h.mu.Lock()
	h.closed = true
	h.cond.Broadcast()
	h.mu.Unlock()
	return nil
}

func (h *Host) isClosed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

// startWorkers launches the background goroutines that execute stages.
func (h *Host) startWorkers() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.started {
		return
	}
	h.started = true
	for i := 0; i < h.workers; i++ {
		go h.workerLoop(i)
	}
}

// workerLoop sweeps the spans assigned to worker index once per dispatch.
func (h *Host) workerLoop(index int) {
	lastStep := 0
	h.mu.Lock()
	for {
		for h.step == lastStep && !h.closed {
			h.cond.Wait()
		}
		if h.closed {
			h.mu.Unlock()
			return
		}
		lastStep = h.step
		var mask workerMask
		if index < len(h.masks) {
			mask = h.masks[index]
		}
		read, write, p := h.read, h.write, h.p
		h.mu.Unlock()

		done := 0
		for _, sp := range mask.spans {
			lattice.SweepRange(read, write, p, sp.start, sp.end)
			done += sp.end - sp.start
		}
		h.evaluations.Add(int64(done))

		h.mu.Lock()
		h.pending--
		if h.pending == 0 {
			h.cond.Broadcast()
		}
	}
}

// splitSpans cuts [0, n) into at most parts contiguous spans.
func splitSpans(n, parts int) []span {
	if parts < 1 {
		parts = 1
	}
	size := (n + parts - 1) / parts
	if size < 1 {
		size = 1
	}
	spans := make([]span, 0, parts)
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		spans = append(spans, span{start: start, end: end})
	}
	return spans
}

// assignSpans distributes spans across worker goroutines in round robin fashion.
func assignSpans(workerCount int, spans []span) []workerMask {
	if workerCount < 1 {
		workerCount = 1
	}
	masks := make([]workerMask, workerCount)
	for idx, sp := range spans {
		workerIdx := idx % workerCount
		masks[workerIdx].spans = append(masks[workerIdx].spans, sp)
	}
	return masks
}
