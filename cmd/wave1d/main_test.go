package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenerFor(t *testing.T) {
	open, err := openerFor(backendHost, 2)
	require.NoError(t, err)
	b, err := open(16)
	require.NoError(t, err)
	assert.Contains(t, b.Name(), "2 workers")
	require.NoError(t, b.Close())

	open, err = openerFor(backendOpenCL, 0)
	require.NoError(t, err)
	assert.NotNil(t, open)

	_, err = openerFor("cuda", 0)
	assert.ErrorContains(t, err, "unknown backend")
}
