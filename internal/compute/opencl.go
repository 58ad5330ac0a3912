//go:build opencl

package compute

import (
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"github.com/jgillich/go-opencl/cl"
)

// stencilKernelSource is compiled once; both stages are kernel objects of the
// same program that differ only in argument order.
const stencilKernelSource = `#pragma OPENCL EXTENSION cl_khr_fp64 : enable
#pragma OPENCL FP_CONTRACT OFF

__kernel void solve(
    __global const double* v0,
    __global double* v1,
    const double p,
    const int n)
{
    int j = get_global_id(0);
    if (j >= n) {
        return;
    }
    int jl = (j - 1 + n) % n;
    int jr = (j + 1) % n;
    double c = v0[j];
    double lap = p * (v0[jl] + v0[jr] - 2.0 * c);
    v1[j] = lap + 2.0 * c - v1[j];
}`

// OpenCL runs stages on the first GPU found, falling back to a CPU device.
type OpenCL struct {
	context    *cl.Context
	queue      *cl.CommandQueue
	program    *cl.Program
	kernels    [2]*cl.Kernel
	bufs       [2]*cl.MemObject
	bound      [2]bool
	n          int
	deviceName string
}

// OpenCLOpener returns an Opener producing OpenCL backends.
func OpenCLOpener() Opener {
	return func(n int) (Backend, error) {
		b, err := NewOpenCL(n)
		if err != nil {
			return nil, err
		}
		return b, nil
	}
}

// NewOpenCL selects a device, compiles the stencil program, and allocates
// both lattice slots for n points.
func NewOpenCL(n int) (*OpenCL, error) {
	if n <= 0 {
		return nil, backendErr("open", fmt.Errorf("invalid lattice size %d", n))
	}
	device, err := pickDevice()
	if err != nil {
		return nil, backendErr("open", err)
	}
	if !strings.Contains(device.Extensions(), "cl_khr_fp64") {
		return nil, backendErr("open", fmt.Errorf("device %q lacks double precision (cl_khr_fp64)", device.Name()))
	}

	s := &OpenCL{n: n, deviceName: device.Name()}
	s.context, err = cl.CreateContext([]*cl.Device{device})
	if err != nil {
		return nil, backendErr("open", fmt.Errorf("creating OpenCL context: %w", err))
	}
	s.queue, err = s.context.CreateCommandQueue(device, 0)
	if err != nil {
		s.Close()
		return nil, backendErr("open", fmt.Errorf("creating OpenCL command queue: %w", err))
	}
	s.program, err = s.context.CreateProgramWithSource([]string{stencilKernelSource})
	if err != nil {
		s.Close()
		return nil, backendErr("open", fmt.Errorf("creating OpenCL program: %w", err))
	}
	if err := s.program.BuildProgram([]*cl.Device{device}, ""); err != nil {
		s.Close()
		if buildErr, ok := err.(cl.BuildError); ok {
			return nil, backendErr("open", fmt.Errorf("building OpenCL program: %s", string(buildErr)))
		}
		return nil, backendErr("open", fmt.Errorf("building OpenCL program: %w", err))
	}
	for i := range s.kernels {
		s.kernels[i], err = s.program.CreateKernel("solve")
		if err != nil {
			s.Close()
			return nil, backendErr("open", fmt.Errorf("creating kernel for stage %s: %w", Stage(i), err))
		}
	}
	byteSize := n * int(unsafe.Sizeof(float64(0)))
	for i := range s.bufs {
		s.bufs[i], err = s.context.CreateEmptyBuffer(cl.MemReadWrite, byteSize)
		if err != nil {
			s.Close()
			return nil, backendErr("open", fmt.Errorf("allocating %s buffer: %w", Slot(i), err))
		}
	}
	return s, nil
}

func pickDevice() (*cl.Device, error) {
	platforms, err := cl.GetPlatforms()
	if err != nil {
		msg := "querying OpenCL platforms"
		if strings.Contains(err.Error(), "-1001") {
			msg += ": no ICD loader reported any platforms; install OpenCL drivers and verify with `clinfo`"
		}
		return nil, fmt.Errorf("%s: %w", msg, err)
	}
	if len(platforms) == 0 {
		return nil, errors.New("no OpenCL platforms available; ensure a vendor driver is installed and detected by `clinfo`")
	}
	for _, kind := range []cl.DeviceType{cl.DeviceTypeGPU, cl.DeviceTypeCPU} {
		for _, p := range platforms {
			devices, derr := p.GetDevices(kind)
			if derr != nil && derr != cl.ErrDeviceNotFound {
				continue
			}
			if len(devices) > 0 {
				return devices[0], nil
			}
		}
	}
	return nil, errors.New("no suitable OpenCL devices found")
}

func (s *OpenCL) Name() string {
	return "opencl (" + s.deviceName + ")"
}

func (s *OpenCL) Load(u0, u1 []float64) error {
	if len(u0) != s.n || len(u1) != s.n {
		return backendErr("load", fmt.Errorf("expected %d values per level, got %d and %d", s.n, len(u0), len(u1)))
	}
	for i, host := range [][]float64{u0, u1} {
		ptr := unsafe.Pointer(&host[0])
		byteLen := len(host) * int(unsafe.Sizeof(float64(0)))
		if _, err := s.queue.EnqueueWriteBuffer(s.bufs[i], true, 0, byteLen, ptr, nil); err != nil {
			return backendErr("load", fmt.Errorf("writing %s buffer: %w", Slot(i), err))
		}
	}
	return nil
}

func (s *OpenCL) Bind(stage Stage, b Binding) error {
	if stage != StageA && stage != StageB {
		return stageErr("bind", stage, errors.New("unknown stage"))
	}
	if !b.Valid() || b.N != s.n {
		return stageErr("bind", stage, fmt.Errorf("invalid binding %s->%s n=%d", b.Read, b.Write, b.N))
	}
	k := s.kernels[stage]
	if err := k.SetArgBuffer(0, s.bufs[b.Read]); err != nil {
		return stageErr("bind", stage, fmt.Errorf("binding read buffer: %w", err))
	}
	if err := k.SetArgBuffer(1, s.bufs[b.Write]); err != nil {
		return stageErr("bind", stage, fmt.Errorf("binding write buffer: %w", err))
	}
	p := b.P
	if err := k.SetArgUnsafe(2, int(unsafe.Sizeof(p)), unsafe.Pointer(&p)); err != nil {
		return stageErr("bind", stage, fmt.Errorf("setting p: %w", err))
	}
	if err := k.SetArgInt32(3, int32(b.N)); err != nil {
		return stageErr("bind", stage, fmt.Errorf("setting n: %w", err))
	}
	s.bound[stage] = true
	return nil
}

// Dispatch enqueues the stage on the in-order queue, which starts it only
// after the previous stage has finished.
func (s *OpenCL) Dispatch(stage Stage) error {
	if stage != StageA && stage != StageB {
		return stageErr("dispatch", stage, errors.New("unknown stage"))
	}
	if !s.bound[stage] {
		return stageErr("dispatch", stage, errors.New("stage not bound"))
	}
	if _, err := s.queue.EnqueueNDRangeKernel(s.kernels[stage], nil, []int{s.n}, nil, nil); err != nil {
		return stageErr("dispatch", stage, fmt.Errorf("enqueueing kernel: %w", err))
	}
	return nil
}

func (s *OpenCL) Readback(slot Slot, dst []float64) error {
	if !validSlot(slot) {
		return backendErr("readback", fmt.Errorf("unknown %s", slot))
	}
	if len(dst) != s.n {
		return backendErr("readback", fmt.Errorf("destination holds %d values, expected %d", len(dst), s.n))
	}
	ptr := unsafe.Pointer(&dst[0])
	byteLen := len(dst) * int(unsafe.Sizeof(float64(0)))
	if _, err := s.queue.EnqueueReadBuffer(s.bufs[slot], true, 0, byteLen, ptr, nil); err != nil {
		return backendErr("readback", fmt.Errorf("reading %s buffer: %w", slot, err))
	}
	return nil
}

func (s *OpenCL) Close() error {
	for i := range s.bufs {
		if s.bufs[i] != nil {
			s.bufs[i].Release()
			s.bufs[i] = nil
		}
	}
	for i := range s.kernels {
		if s.kernels[i] != nil {
			s.kernels[i].Release()
			s.kernels[i] = nil
		}
	}
	if s.program != nil {
		s.program.Release()
		s.program = nil
	}
	if s.queue != nil {
		s.queue.Release()
		s.queue = nil
	}
	if s.context != nil {
		s.context.Release()
		s.context = nil
	}
	return nil
}
