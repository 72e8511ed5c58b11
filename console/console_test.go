package console

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/robmorgan/lumen/engine"
	"github.com/robmorgan/lumen/store"
	"github.com/robmorgan/lumen/surface"
	"github.com/robmorgan/lumen/track"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testingclock "k8s.io/utils/clock/testing"
)

type fakeRig struct{}

func (fakeRig) ListChannels() []string                            { return []string{"L1"} }
func (fakeRig) ReadChannel(name string) (track.LightState, bool)   { return track.NewLightState(1, "#ffffff"), true }
func (fakeRig) WriteChannel(name string, state track.LightState) {}

func newTestEngine(t *testing.T, names ...string) *engine.Engine {
	s := store.NewMemoryStore()
	for _, name := range names {
		require.NoError(t, s.Save(context.Background(), name, []byte(`{"states":[{"time":0,"lights":{"L1":{"intensity":1}}}],"length":1}`)))
	}
	e := engine.New(fakeRig{}, s, testingclock.NewFakeClock(time.Now()))
	require.NoError(t, e.Load(context.Background()))
	return e
}

func press(t *testing.T, m model, key string) model {
	var msg tea.KeyMsg
	switch key {
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+c":
		msg = tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	out, ok := next.(model)
	require.True(t, ok)
	return out
}

func TestKeysDriveTheEngine(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, "a", "b", "c")
	m := newModel(e)
	assert.Equal(t, []string{"a", "b", "c"}, m.tracks)

	m = press(t, m, "n")
	assert.Equal(t, 1, m.status.SelectedIndex)
	m = press(t, m, "right")
	assert.Equal(t, 2, m.status.SelectedIndex)
	m = press(t, m, "b")
	assert.Equal(t, 1, m.status.SelectedIndex)

	m = press(t, m, "l")
	assert.True(t, m.status.Looping)

	m = press(t, m, "p")
	assert.True(t, m.status.Playing)
	m = press(t, m, "s")
	assert.False(t, m.status.Playing)

	m = press(t, m, "r")
	assert.True(t, m.status.Recording)
	m = press(t, m, "r")
	assert.False(t, m.status.Recording)
	assert.Len(t, m.tracks, 4)
	assert.Equal(t, 3, m.status.SelectedIndex)

	m = press(t, m, "d")
	assert.Equal(t, []string{"a", "b", "c"}, m.tracks)
	assert.Equal(t, 0, m.status.SelectedIndex)

	m = press(t, m, "c")
	assert.NoError(t, m.err)
	assert.Len(t, m.tracks, 4)
	assert.Equal(t, 3, m.status.SelectedIndex)

	e.Wait()
}

func TestQuit(t *testing.T) {
	t.Parallel()

	m := newModel(newTestEngine(t))
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.True(t, next.(model).quitting)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestPushedMessages(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	m := newModel(e)
	assert.Contains(t, m.View(), "No tracks")

	next, _ := m.Update(SurfaceMsg(surface.State{Profile: 2, LastCC: &surface.Event{Kind: surface.ControlChange, ID: 44, Value: 127}}))
	m = next.(model)
	assert.Contains(t, m.View(), "Profile: 2")
	assert.Contains(t, m.View(), "CC#44 127")

	e.StartRecording()
	next, _ = m.Update(StatusMsg(e.Status()))
	m = next.(model)
	assert.True(t, m.status.Recording)
	assert.Contains(t, m.View(), "REC")
}
