package compute

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageAlternates(t *testing.T) {
	s := StageA
	seq := make([]Stage, 0, 6)
	for i := 0; i < 6; i++ {
		seq = append(seq, s)
		s = s.Next()
	}
	assert.Equal(t, []Stage{StageA, StageB, StageA, StageB, StageA, StageB}, seq)
	assert.Equal(t, "A", StageA.String())
	assert.Equal(t, "B", StageB.String())
	assert.Equal(t, "u1", Slot1.String())
}

func TestBindingValid(t *testing.T) {
	cases := []struct {
		name string
		b    Binding
		want bool
	}{
		{"stage A roles", Binding{Read: Slot0, Write: Slot1, N: 8}, true},
		{"stage B roles", Binding{Read: Slot1, Write: Slot0, N: 8}, true},
		{"aliased slots", Binding{Read: Slot0, Write: Slot0, N: 8}, false},
		{"unknown slot", Binding{Read: Slot0, Write: Slot(5), N: 8}, false},
		{"empty lattice", Binding{Read: Slot0, Write: Slot1}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.b.Valid())
		})
	}
}

func TestBackendErrorWrapping(t *testing.T) {
	cause := errors.New("out of resources")
	err := fmt.Errorf("parallel path: %w", stageErr("dispatch", StageB, cause))

	require.ErrorIs(t, err, ErrBackend)
	require.ErrorIs(t, err, cause)

	var be *BackendError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "dispatch", be.Op)
	assert.Equal(t, StageB, be.Stage)
	assert.Contains(t, err.Error(), "dispatch stage B: out of resources")
}
