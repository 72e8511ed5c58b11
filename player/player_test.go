package player

import (
	"testing"
	"time"

	"github.com/robmorgan/lumen/track"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testingclock "k8s.io/utils/clock/testing"
)

type write struct {
	name  string
	state track.LightState
}

type fakeSink struct {
	writes []write
}

func (s *fakeSink) WriteChannel(name string, state track.LightState) {
	s.writes = append(s.writes, write{name: name, state: state})
}

type fixedSelection struct {
	track *track.Track
}

func (s *fixedSelection) SelectedTrack() *track.Track {
	return s.track
}

func twoStepTrack(t *testing.T) *track.Track {
	t.Helper()
	tr := track.NewTrack("two-step")
	require.NoError(t, tr.AddState(0, track.Snapshot{"L1": track.NewLightState(0.2, "#ffffff")}))
	require.NoError(t, tr.AddState(1, track.Snapshot{"L1": track.NewLightState(0.8, "#ffffff")}))
	return tr
}

func TestPlayWithoutSelection(t *testing.T) {
	t.Parallel()

	p := New(&fakeSink{}, &fixedSelection{}, testingclock.NewFakeClock(time.Now()))
	assert.False(t, p.Play())
	assert.False(t, p.IsPlaying())
}

func TestPlayAppliesSnapshots(t *testing.T) {
	t.Parallel()

	cl := testingclock.NewFakeClock(time.Now())
	sink := &fakeSink{}
	p := New(sink, &fixedSelection{track: twoStepTrack(t)}, cl)

	require.True(t, p.Play())
	require.False(t, p.Play())
	require.Len(t, sink.writes, 1)
	assert.Equal(t, "L1", sink.writes[0].name)
	v, _ := sink.writes[0].state.IntensityValue()
	assert.Equal(t, 0.2, v)

	cl.Step(1 * time.Second)
	stopped := p.Step()
	assert.True(t, stopped)
	assert.False(t, p.IsPlaying())

	require.Len(t, sink.writes, 2)
	v, _ = sink.writes[1].state.IntensityValue()
	assert.Equal(t, 0.8, v)
	for _, w := range sink.writes {
		assert.Equal(t, "L1", w.name)
	}
}

func TestEchoOutlivesStop(t *testing.T) {
	t.Parallel()

	cl := testingclock.NewFakeClock(time.Now())
	p := New(&fakeSink{}, &fixedSelection{track: twoStepTrack(t)}, cl)
	assert.Nil(t, p.Echo())

	p.Play()
	echo := p.Echo()
	require.NotNil(t, echo)
	assert.True(t, echo["L1"].Equal(track.NewLightState(0.2, "#ffffff")))

	// the last frame is still reported once the end of the track stops playback
	cl.Step(time.Second)
	require.True(t, p.Step())
	assert.True(t, p.Echo()["L1"].Equal(track.NewLightState(0.8, "#ffffff")))

	p.Stop()
	assert.True(t, p.Echo()["L1"].Equal(track.NewLightState(0.8, "#ffffff")))

	// stop is idempotent
	p.Stop()
	assert.False(t, p.IsPlaying())

	p.Play()
	assert.True(t, p.Echo()["L1"].Equal(track.NewLightState(0.2, "#ffffff")))
}

func TestStepAfterStopDoesNothing(t *testing.T) {
	t.Parallel()

	cl := testingclock.NewFakeClock(time.Now())
	sink := &fakeSink{}
	p := New(sink, &fixedSelection{track: twoStepTrack(t)}, cl)

	p.Play()
	p.Stop()
	cl.Step(500 * time.Millisecond)
	p.Step()
	assert.Len(t, sink.writes, 1)
}

func TestLooping(t *testing.T) {
	t.Parallel()

	cl := testingclock.NewFakeClock(time.Now())
	sink := &fakeSink{}
	p := New(sink, &fixedSelection{track: twoStepTrack(t)}, cl)
	p.ToggleLoop()
	require.True(t, p.IsLooping())

	p.Play()
	cl.Step(1 * time.Second)
	assert.False(t, p.Step())
	assert.True(t, p.IsPlaying())

	// the playhead restarted at the boundary
	cl.Step(100 * time.Millisecond)
	p.Step()
	last := sink.writes[len(sink.writes)-1]
	v, _ := last.state.IntensityValue()
	assert.Equal(t, 0.2, v)
	assert.InDelta(t, 0.1, p.Elapsed(), 1e-9)

	// turning looping off ends playback at the next boundary
	p.ToggleLoop()
	cl.Step(1 * time.Second)
	assert.True(t, p.Step())
	assert.False(t, p.IsPlaying())
}

func TestEmptyTrackStopsImmediately(t *testing.T) {
	t.Parallel()

	sink := &fakeSink{}
	p := New(sink, &fixedSelection{track: track.NewTrack("empty")}, testingclock.NewFakeClock(time.Now()))

	assert.True(t, p.Play())
	assert.False(t, p.IsPlaying())
	assert.Empty(t, sink.writes)
}

func TestSelectionRemovedStopsPlayback(t *testing.T) {
	t.Parallel()

	cl := testingclock.NewFakeClock(time.Now())
	sel := &fixedSelection{track: twoStepTrack(t)}
	p := New(&fakeSink{}, sel, cl)

	p.Play()
	sel.track = nil
	assert.True(t, p.Step())
	assert.False(t, p.IsPlaying())
}

func TestPartialStatesLeaveOtherFieldsAlone(t *testing.T) {
	t.Parallel()

	tr := track.NewTrack("color-only")
	require.NoError(t, tr.AddState(0, track.Snapshot{"L1": {Color: "#00ff00"}}))
	require.NoError(t, tr.AddState(2, track.Snapshot{}))

	sink := &fakeSink{}
	p := New(sink, &fixedSelection{track: tr}, testingclock.NewFakeClock(time.Now()))
	p.Play()

	require.Len(t, sink.writes, 1)
	_, hasIntensity := sink.writes[0].state.IntensityValue()
	assert.False(t, hasIntensity)
	assert.Equal(t, "#00ff00", sink.writes[0].state.Color)
}
