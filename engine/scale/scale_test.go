package scale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToUnitClamp(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input    float64
		expected float64
	}{
		{0, 0},
		{127, 1},
		{63.5, 0.5},
		{-10, 0},
		{200, 1},
	}

	fn := ToUnitClamp(0, 127)
	for _, tc := range testCases {
		assert.InDelta(t, tc.expected, fn(tc.input), 1e-9, "input %v", tc.input)
	}
}

func TestClampDegenerateRange(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 2.0, Clamp(5, 5, 2, 4)(7))
}

func TestShaped(t *testing.T) {
	t.Parallel()

	linear, err := Shaped(0, 127, "linear")
	require.NoError(t, err)
	assert.InDelta(t, 0.5, linear(63.5), 1e-9)

	quad, err := Shaped(0, 127, "in_quad")
	require.NoError(t, err)
	assert.InDelta(t, 0.25, quad(63.5), 1e-9)
	assert.InDelta(t, 1.0, quad(127), 1e-9)

	_, err = Shaped(0, 127, "bounce")
	require.Error(t, err)
}
