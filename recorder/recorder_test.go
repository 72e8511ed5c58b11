package recorder

import (
	"sort"
	"testing"
	"time"

	"github.com/robmorgan/lumen/track"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testingclock "k8s.io/utils/clock/testing"
)

type fakeRig map[string]track.LightState

func (r fakeRig) ListChannels() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r fakeRig) ReadChannel(name string) (track.LightState, bool) {
	s, ok := r[name]
	return s, ok
}

type fakeEcho struct {
	snapshot track.Snapshot
}

func (e *fakeEcho) Echo() track.Snapshot {
	return e.snapshot
}

func TestStartStopAreIdempotent(t *testing.T) {
	t.Parallel()

	cl := testingclock.NewFakeClock(time.Now())
	r := New(fakeRig{}, cl)

	assert.Nil(t, r.Stop("idle"))
	require.True(t, r.Start())
	require.False(t, r.Start())
	require.True(t, r.IsRecording())

	require.NotNil(t, r.Stop("first"))
	assert.Nil(t, r.Stop("second"))
	assert.False(t, r.IsRecording())
}

func TestSampleStepIsNoopWhenIdle(t *testing.T) {
	t.Parallel()

	r := New(fakeRig{"L1": track.NewLightState(1, "#ffffff")}, testingclock.NewFakeClock(time.Now()))
	r.SampleStep()
	assert.Equal(t, 0, r.Pending())
}

func TestIdenticalReadsProduceNoStates(t *testing.T) {
	t.Parallel()

	cl := testingclock.NewFakeClock(time.Now())
	rig := fakeRig{"L1": track.NewLightState(0.5, "#ffffff"), "L2": track.NewLightState(0, "#000000")}
	r := New(rig, cl)
	r.Start()

	r.SampleStep()
	require.Equal(t, 1, r.Pending())

	for i := 0; i < 10; i++ {
		cl.Step(25 * time.Millisecond)
		r.SampleStep()
	}
	assert.Equal(t, 1, r.Pending())

	// only the channel that changed is captured
	cl.Step(25 * time.Millisecond)
	rig["L2"] = track.NewLightState(0.3, "#000000")
	r.SampleStep()
	require.Equal(t, 2, r.Pending())

	tr := r.Stop("sparse")
	state, ok := tr.StateAt(tr.Length())
	require.True(t, ok)
	require.Len(t, state, 1)
	assert.Contains(t, state, "L2")
}

func TestEchoSuppression(t *testing.T) {
	t.Parallel()

	cl := testingclock.NewFakeClock(time.Now())
	rig := fakeRig{"c": track.NewLightState(0.7, "#ff0000"), "d": track.NewLightState(0.1, "#ffffff")}
	echo := &fakeEcho{snapshot: track.Snapshot{"c": track.NewLightState(0.7, "#ff0000")}}

	r := New(rig, cl)
	r.SetEchoSource(echo)
	r.Start()
	r.SampleStep()

	tr := r.Stop("echo")
	require.Equal(t, 1, tr.Len())
	state, _ := tr.StateAt(0)
	assert.NotContains(t, state, "c")
	assert.Contains(t, state, "d")
}

func TestEchoWithDifferentValueIsRecorded(t *testing.T) {
	t.Parallel()

	cl := testingclock.NewFakeClock(time.Now())
	rig := fakeRig{"c": track.NewLightState(0.9, "#ff0000")}
	echo := &fakeEcho{snapshot: track.Snapshot{"c": track.NewLightState(0.7, "#ff0000")}}

	r := New(rig, cl)
	r.SetEchoSource(echo)
	r.Start()
	r.SampleStep()

	tr := r.Stop("operator")
	state, ok := tr.StateAt(0)
	require.True(t, ok)
	assert.Contains(t, state, "c")
}

func TestEchoTolerance(t *testing.T) {
	t.Parallel()

	cl := testingclock.NewFakeClock(time.Now())
	rig := fakeRig{"c": track.NewLightState(0.70000001, "#ff0000")}
	echo := &fakeEcho{snapshot: track.Snapshot{"c": track.NewLightState(0.7, "#ff0000")}}

	exact := New(rig, cl)
	exact.SetEchoSource(echo)
	exact.Start()
	exact.SampleStep()
	assert.Equal(t, 1, exact.Pending())

	tolerant := New(rig, cl, WithEchoTolerance(0.001))
	tolerant.SetEchoSource(echo)
	tolerant.Start()
	tolerant.SampleStep()
	assert.Equal(t, 0, tolerant.Pending())
}

func TestRecordScenario(t *testing.T) {
	t.Parallel()

	cl := testingclock.NewFakeClock(time.Now())
	rig := fakeRig{"L1": track.NewLightState(0.2, "#ffffff")}
	r := New(rig, cl)

	r.Start()
	r.SampleStep()
	for i := 0; i < 39; i++ {
		cl.Step(25 * time.Millisecond)
		r.SampleStep()
	}
	cl.Step(25 * time.Millisecond)
	rig["L1"] = track.NewLightState(0.8, "#ffffff")
	r.SampleStep()

	tr := r.Stop("scenario")
	require.Equal(t, "scenario", tr.Name())
	require.Equal(t, 2, tr.Len())

	states := tr.States()
	assert.InDelta(t, 0.0, states[0].Time, 1e-9)
	assert.InDelta(t, 1.0, states[1].Time, 1e-9)
	assert.InDelta(t, 1.0, tr.Length(), 1e-9)

	v, _ := states[1].Lights["L1"].IntensityValue()
	assert.Equal(t, 0.8, v)
}

func TestRestartClearsCache(t *testing.T) {
	t.Parallel()

	cl := testingclock.NewFakeClock(time.Now())
	rig := fakeRig{"L1": track.NewLightState(0.2, "#ffffff")}
	r := New(rig, cl)

	r.Start()
	r.SampleStep()
	r.Stop("one")

	// the unchanged value is captured again by a new recording
	r.Start()
	r.SampleStep()
	tr := r.Stop("two")
	assert.Equal(t, 1, tr.Len())
}
