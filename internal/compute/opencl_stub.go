//go:build !opencl

package compute

import "errors"

// OpenCL is unavailable without the opencl build tag.
type OpenCL struct{}

// OpenCLOpener returns an Opener that always fails in this build.
func OpenCLOpener() Opener {
	return func(n int) (Backend, error) {
		b, err := NewOpenCL(n)
		if err != nil {
			return nil, err
		}
		return b, nil
	}
}

// NewOpenCL reports that OpenCL support was not compiled in.
func NewOpenCL(int) (*OpenCL, error) {
	return nil, backendErr("open", errors.New("OpenCL support is not enabled; rebuild with -tags opencl"))
}

func (s *OpenCL) Name() string { return "opencl (unavailable)" }

func (s *OpenCL) Load(_, _ []float64) error {
	return backendErr("load", errors.New("OpenCL solver unavailable"))
}

func (s *OpenCL) Bind(stage Stage, _ Binding) error {
	return stageErr("bind", stage, errors.New("OpenCL solver unavailable"))
}

func (s *OpenCL) Dispatch(stage Stage) error {
	return stageErr("dispatch", stage, errors.New("OpenCL solver unavailable"))
}

func (s *OpenCL) Readback(Slot, []float64) error {
	return backendErr("readback", errors.New("OpenCL solver unavailable"))
}

func (s *OpenCL) Close() error { return nil }
