package surface

import (
	"sync"

	"github.com/robmorgan/lumen/config"
	"github.com/robmorgan/lumen/engine/scale"
	"github.com/robmorgan/lumen/logger"
	"github.com/robmorgan/lumen/track"
	"github.com/robmorgan/lumen/utils"
	"github.com/sirupsen/logrus"
)

// Commander is the part of the engine the surface drives.
type Commander interface {
	ToggleRecording()
	Play() bool
	Stop()
	Next()
	Prev()
	ToggleLoop()
}

// ChannelWriter writes a light directly.
type ChannelWriter interface {
	WriteChannel(name string, state track.LightState)
}

// State is what the surface last saw, for status displays. LastCC and LastNote are nil until the
// first such event.
type State struct {
	Profile  int
	LastCC   *Event
	LastNote *Event
}

type toggleKey struct {
	profile, column int
}

// Mapper translates events. It is safe for use from several input goroutines.
type Mapper struct {
	mu         sync.Mutex
	commands   Commander
	rig        ChannelWriter
	profiles   [][]string
	fader      func(float64) float64
	noteLights bool

	profile  int
	toggles  map[toggleKey]bool
	lastCC   *Event
	lastNote *Event

	onUpdate func(State)
	log      *logrus.Entry
}

// NewMapper builds a mapper from the surface config.
func NewMapper(commands Commander, rig ChannelWriter, cfg config.SurfaceConfig) (*Mapper, error) {
	curve := cfg.FaderCurve
	if curve == "" {
		curve = "linear"
	}
	fader, err := scale.Shaped(0, MaxValue, curve)
	if err != nil {
		return nil, err
	}

	return &Mapper{
		commands:   commands,
		rig:        rig,
		profiles:   cfg.Profiles,
		fader:      fader,
		noteLights: cfg.NoteLights,
		toggles:    map[toggleKey]bool{},
		log:        logger.GetProjectLogger().WithField("component", "surface"),
	}, nil
}

// OnUpdate registers a callback receiving the surface state after every event.
func (m *Mapper) OnUpdate(fn func(State)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onUpdate = fn
}

// State returns the current surface state.
func (m *Mapper) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stateLocked()
}

func (m *Mapper) stateLocked() State {
	return State{Profile: m.profile, LastCC: m.lastCC, LastNote: m.lastNote}
}

// Handle applies one event.
func (m *Mapper) Handle(ev Event) {
	m.log.Debugf("Surface event %s", ev)

	m.mu.Lock()
	command := m.handleLocked(ev)
	state := m.stateLocked()
	onUpdate := m.onUpdate
	m.mu.Unlock()

	// commands run without the mapper lock held
	if command != nil {
		command()
	}
	if onUpdate != nil {
		onUpdate(state)
	}
}

func (m *Mapper) handleLocked(ev Event) func() {
	if ev.Kind != ProfileSelect && !inRange(ev.ID, ev.Value) {
		m.log.Warnf("Ignoring out of range event %s", ev)
		return nil
	}

	switch ev.Kind {
	case ProfileSelect:
		if ev.Value < 0 || ev.Value >= len(m.profiles) {
			m.log.Warnf("Ignoring unknown profile %d", ev.Value)
			return nil
		}
		m.profile = ev.Value
		m.log.Infof("Surface profile set to %d", ev.Value)
	case ControlChange:
		e := ev
		m.lastCC = &e
		return m.controlChangeLocked(ev.ID, ev.Value)
	case NoteOn:
		e := ev
		m.lastNote = &e
		if m.noteLights {
			if ev.Value == 0 {
				m.noteOffLocked(ev.ID)
			} else {
				m.noteOnLocked(ev.ID, ev.Value)
			}
		}
	case NoteOff:
		e := Event{Kind: NoteOff, ID: ev.ID}
		m.lastNote = &e
		if m.noteLights {
			m.noteOffLocked(ev.ID)
		}
	}
	return nil
}

func (m *Mapper) controlChangeLocked(cc, value int) func() {
	switch cc {
	case CCRecord, CCPlay, CCStop, CCPrev, CCNext, CCLoop:
		if value != Pressed {
			return nil
		}
		return m.transport(cc)
	}

	switch {
	case cc >= CCFaderFirst && cc <= CCFaderLast:
		if name := m.lightAt(cc - CCFaderFirst); name != "" {
			m.rig.WriteChannel(name, track.LightState{Intensity: floatPtr(m.fader(float64(value)))})
		}
	case cc >= CCHueFirst && cc <= CCHueLast:
		if name := m.lightAt(cc - CCHueFirst); name != "" {
			m.rig.WriteChannel(name, track.LightState{Color: utils.HueToHex(float64(value) / MaxValue)})
		}
	case cc >= CCToggleFirst && cc <= CCToggleLast && value == Pressed:
		column := cc - CCToggleFirst
		key := toggleKey{profile: m.profile, column: column}
		on := !m.toggles[key]
		m.toggles[key] = on
		if name := m.lightAt(column); name != "" {
			intensity := 0.0
			if on {
				intensity = 1
			}
			m.rig.WriteChannel(name, track.LightState{Intensity: floatPtr(intensity)})
		}
	}
	return nil
}

func (m *Mapper) transport(cc int) func() {
	switch cc {
	case CCRecord:
		return m.commands.ToggleRecording
	case CCPlay:
		return func() { m.commands.Play() }
	case CCStop:
		return m.commands.Stop
	case CCPrev:
		return m.commands.Prev
	case CCNext:
		return m.commands.Next
	case CCLoop:
		return m.commands.ToggleLoop
	}
	return nil
}

// lightAt returns the light mapped to column in the current profile, or "" when unmapped.
func (m *Mapper) lightAt(column int) string {
	if m.profile >= len(m.profiles) {
		return ""
	}
	row := m.profiles[m.profile]
	if column < 0 || column >= len(row) {
		return ""
	}
	return row[column]
}

// noteLight returns the light a note drives: note modulo the mapped lights of the profile.
func (m *Mapper) noteLight(note int) string {
	if m.profile >= len(m.profiles) {
		return ""
	}
	lights := make([]string, 0, len(m.profiles[m.profile]))
	for _, name := range m.profiles[m.profile] {
		if name != "" {
			lights = append(lights, name)
		}
	}
	if len(lights) == 0 {
		return ""
	}
	return lights[note%len(lights)]
}

func (m *Mapper) noteOnLocked(note, velocity int) {
	name := m.noteLight(note)
	if name == "" {
		return
	}
	hue := float64(note%12) / 12
	m.rig.WriteChannel(name, track.NewLightState(float64(velocity)/MaxValue, utils.HueToHex(hue)))
}

func (m *Mapper) noteOffLocked(note int) {
	if name := m.noteLight(note); name != "" {
		m.rig.WriteChannel(name, track.LightState{Intensity: floatPtr(0)})
	}
}

// inRange reports whether every value fits a 7-bit MIDI data byte.
func inRange(values ...int) bool {
	for _, v := range values {
		if v < 0 || v > MaxValue {
			return false
		}
	}
	return true
}

func floatPtr(v float64) *float64 {
	return &v
}
