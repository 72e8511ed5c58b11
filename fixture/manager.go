package fixture

import (
	"fmt"
	"sync"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/robmorgan/lumen/config"
	"github.com/robmorgan/lumen/track"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Manager is the live rig: every patched fixture keyed by name, readable by the recorder and
// writable by playback and the control surface.
type Manager interface {
	ListChannels() []string
	ReadChannel(name string) (track.LightState, bool)
	WriteChannel(name string, state track.LightState)
	Snapshot() track.Snapshot
	Render() *DMXState
}

// StateManager holds the state of fixtures
type StateManager struct {
	items     map[string]*Fixture
	names     []string
	stateLock sync.RWMutex
	dmxState  DMXState
}

// NewManager patches the fixtures listed in the config.
func NewManager(cfg config.Config) (*StateManager, error) {
	m := &StateManager{
		items:    make(map[string]*Fixture),
		dmxState: DMXState{universes: make(map[int][]byte)},
	}

	for i := range cfg.PatchedFixtures {
		x := &cfg.PatchedFixtures[i]

		if _, ok := m.items[x.Name]; ok {
			return nil, errors.WithStackTrace(fmt.Errorf("duplicate fixtures found! name=%s", x.Name))
		}

		f := NewFixture(x.Name, x.Universe, x.Address, cfg.FixtureProfiles[x.Profile])
		f.Room = x.Room
		f.intensity = x.Intensity
		if x.Color != "" {
			f.color = x.Color
		}
		m.items[x.Name] = f
	}

	m.names = maps.Keys(m.items)
	slices.Sort(m.names)

	return m, nil
}

// ListChannels returns the fixture names in sorted order.
func (m *StateManager) ListChannels() []string {
	return slices.Clone(m.names)
}

// ReadChannel returns the current value of a fixture.
func (m *StateManager) ReadChannel(name string) (track.LightState, bool) {
	m.stateLock.RLock()
	defer m.stateLock.RUnlock()

	f, ok := m.items[name]
	if !ok {
		return track.LightState{}, false
	}
	return f.State(), true
}

// WriteChannel applies the fields present in state. Unknown names are ignored.
func (m *StateManager) WriteChannel(name string, state track.LightState) {
	m.stateLock.Lock()
	defer m.stateLock.Unlock()

	if f, ok := m.items[name]; ok {
		f.Apply(state)
	}
}

// Snapshot returns the current value of every fixture.
func (m *StateManager) Snapshot() track.Snapshot {
	m.stateLock.RLock()
	defer m.stateLock.RUnlock()

	out := make(track.Snapshot, len(m.items))
	for name, f := range m.items {
		out[name] = f.State()
	}
	return out
}
