//go:build !opencl

package compute

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenCLUnavailableWithoutTag(t *testing.T) {
	b, err := OpenCLOpener()(64)
	require.ErrorIs(t, err, ErrBackend)
	assert.Nil(t, b)
	assert.Contains(t, err.Error(), "-tags opencl")
}
