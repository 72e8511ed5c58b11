package track

import (
	"testing"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intensity(v float64) Snapshot {
	return Snapshot{"L1": NewLightState(v, "#ffffff")}
}

func TestAddStateCopiesSnapshot(t *testing.T) {
	t.Parallel()

	tr := NewTrack("test")
	lights := Snapshot{"L1": NewLightState(0.2, "#ff0000")}
	require.NoError(t, tr.AddState(1.0, lights))

	// mutate the caller's snapshot after the call
	lights["L1"] = NewLightState(0.9, "#00ff00")
	lights["L2"] = NewLightState(0.1, "#0000ff")

	state, ok := tr.StateAt(1.0)
	require.True(t, ok)
	require.Len(t, state, 1)
	v, _ := state["L1"].IntensityValue()
	assert.Equal(t, 0.2, v)
	assert.Equal(t, "#ff0000", state["L1"].Color)
	assert.Equal(t, 1.0, tr.Length())
}

func TestAddStateRejectsNegativeTime(t *testing.T) {
	t.Parallel()

	tr := NewTrack("test")
	err := tr.AddState(-0.5, intensity(1))
	require.Error(t, err)

	_, ok := errors.Unwrap(err).(InvalidArgumentError)
	require.True(t, ok)
	assert.Equal(t, 0, tr.Len())
	assert.Equal(t, 0.0, tr.Length())
}

func TestAddStateKeepsOrder(t *testing.T) {
	t.Parallel()

	tr := NewTrack("test")
	require.NoError(t, tr.AddState(2.0, intensity(0.2)))
	require.NoError(t, tr.AddState(1.0, intensity(0.1)))
	require.NoError(t, tr.AddState(1.0, intensity(0.15)))
	require.NoError(t, tr.AddState(3.0, intensity(0.3)))

	times := []float64{}
	for _, s := range tr.States() {
		times = append(times, s.Time)
	}
	assert.Equal(t, []float64{1.0, 1.0, 2.0, 3.0}, times)

	// the last state inserted at a time wins
	state, ok := tr.StateAt(1.0)
	require.True(t, ok)
	v, _ := state["L1"].IntensityValue()
	assert.Equal(t, 0.15, v)
}

func TestStateAtHoldsLastValue(t *testing.T) {
	t.Parallel()

	tr := NewTrack("test")
	require.NoError(t, tr.AddState(1.0, intensity(0.1)))
	require.NoError(t, tr.AddState(2.0, intensity(0.2)))

	testCases := []struct {
		time     float64
		expected float64
		found    bool
	}{
		{0.5, 0, false},
		{1.0, 0.1, true},
		{1.5, 0.1, true},
		{2.0, 0.2, true},
		{2.5, 0.2, true},
	}

	for _, testCase := range testCases {
		state, ok := tr.StateAt(testCase.time)
		require.Equal(t, testCase.found, ok, "time=%v", testCase.time)
		if !ok {
			assert.Nil(t, state)
			continue
		}
		v, _ := state["L1"].IntensityValue()
		assert.Equal(t, testCase.expected, v, "time=%v", testCase.time)
	}
}

func TestEmptyTrackHasNoState(t *testing.T) {
	t.Parallel()

	tr := NewTrack("empty")
	_, ok := tr.StateAt(0)
	assert.False(t, ok)
	_, ok = tr.StateAt(100)
	assert.False(t, ok)
	assert.Equal(t, 0.0, tr.Length())
}

func TestLightStateEquality(t *testing.T) {
	t.Parallel()

	a := NewLightState(0.5, "#ffffff")
	assert.True(t, a.Equal(NewLightState(0.5, "#ffffff")))
	assert.False(t, a.Equal(NewLightState(0.5, "#fffffe")))
	assert.False(t, a.Equal(NewLightState(0.5000001, "#ffffff")))
	assert.True(t, a.EqualWithin(NewLightState(0.5000001, "#ffffff"), 0.001))
	assert.False(t, a.Equal(LightState{Color: "#ffffff"}))
	assert.True(t, LightState{Color: "#ffffff"}.Equal(LightState{Color: "#ffffff"}))
}

func TestCloneIsDeep(t *testing.T) {
	t.Parallel()

	tr := NewTrack("orig")
	require.NoError(t, tr.AddState(0.5, intensity(0.4)))

	c := tr.Clone()
	c.SetName("copy")
	*c.States()[0].Lights["L1"].Intensity = 1.0

	state, _ := tr.StateAt(0.5)
	v, _ := state["L1"].IntensityValue()
	assert.Equal(t, 0.4, v)
	assert.Equal(t, "orig", tr.Name())
	assert.Equal(t, tr.Length(), c.Length())
}
