package compute

import (
	"errors"
	"fmt"
)

// ErrBackend matches every failure surfaced by a Backend.
var ErrBackend = errors.New("compute backend failure")

// BackendError wraps a backend failure with the operation that raised it.
type BackendError struct {
	Op    string
	Stage Stage
	Err   error
}

func (e *BackendError) Error() string {
	if e.Op == "dispatch" || e.Op == "bind" {
		return fmt.Sprintf("%s stage %s: %v", e.Op, e.Stage, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

func (e *BackendError) Is(target error) bool {
	return target == ErrBackend
}

func backendErr(op string, err error) error {
	return &BackendError{Op: op, Err: err}
}

func stageErr(op string, stage Stage, err error) error {
	return &BackendError{Op: op, Stage: stage, Err: err}
}
