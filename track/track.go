package track

import (
	"sort"

	"github.com/gruntwork-io/go-commons/errors"
)

// LightState holds the observable fields of a single light channel. A nil Intensity or an empty
// Color means the field is not carried and must be left untouched when the state is applied.
type LightState struct {
	Intensity *float64 `json:"intensity,omitempty"`
	Color     string   `json:"color,omitempty"`
}

// NewLightState returns a LightState carrying both fields.
func NewLightState(intensity float64, color string) LightState {
	return LightState{Intensity: &intensity, Color: color}
}

// IntensityValue returns the intensity and whether it is present.
func (s LightState) IntensityValue() (float64, bool) {
	if s.Intensity == nil {
		return 0, false
	}
	return *s.Intensity, true
}

// Equal reports whether both states carry the same fields with the same values.
func (s LightState) Equal(other LightState) bool {
	return s.EqualWithin(other, 0)
}

// EqualWithin is Equal with intensities allowed to differ by at most tolerance.
func (s LightState) EqualWithin(other LightState, tolerance float64) bool {
	if s.Color != other.Color {
		return false
	}
	a, okA := s.IntensityValue()
	b, okB := other.IntensityValue()
	if okA != okB {
		return false
	}
	if !okA {
		return true
	}
	if tolerance <= 0 {
		return a == b
	}
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= tolerance
}

// Clone returns a copy that shares no memory with s.
func (s LightState) Clone() LightState {
	out := LightState{Color: s.Color}
	if s.Intensity != nil {
		v := *s.Intensity
		out.Intensity = &v
	}
	return out
}

// Snapshot maps channel names to the values known at one instant. It is sparse: only the
// channels that changed are present.
type Snapshot map[string]LightState

// Clone deep copies the snapshot.
func (s Snapshot) Clone() Snapshot {
	if s == nil {
		return nil
	}
	out := make(Snapshot, len(s))
	for name, state := range s {
		out[name] = state.Clone()
	}
	return out
}

// TimedState is a snapshot stamped with its offset in seconds from the start of the track.
type TimedState struct {
	Time   float64  `json:"time"`
	Lights Snapshot `json:"lights"`
}

// Track is an ordered timeline of sparse snapshots.
type Track struct {
	name   string
	states []TimedState
	length float64
}

// NewTrack creates an empty track.
func NewTrack(name string) *Track {
	return &Track{
		name:   name,
		states: make([]TimedState, 0),
	}
}

func (t *Track) Name() string {
	return t.name
}

func (t *Track) SetName(name string) {
	t.name = name
}

// Length is the time in seconds up to which the track is live. It can exceed the time of the last
// state.
func (t *Track) Length() float64 {
	return t.length
}

// Len returns the number of states.
func (t *Track) Len() int {
	return len(t.states)
}

// States returns the timeline. The slice is shared with the track and must not be modified.
func (t *Track) States() []TimedState {
	return t.states
}

// AddState records a deep copy of lights at time. States are kept sorted by time; a state added at
// an existing time goes after the ones already there.
func (t *Track) AddState(time float64, lights Snapshot) error {
	if time < 0 {
		return errors.WithStackTrace(InvalidArgumentError{Op: "AddState", Reason: "negative time"})
	}

	state := TimedState{Time: time, Lights: lights.Clone()}
	if state.Lights == nil {
		state.Lights = Snapshot{}
	}

	n := len(t.states)
	if n == 0 || t.states[n-1].Time <= time {
		t.states = append(t.states, state)
	} else {
		i := sort.Search(n, func(i int) bool { return t.states[i].Time > time })
		t.states = append(t.states, TimedState{})
		copy(t.states[i+1:], t.states[i:])
		t.states[i] = state
	}

	if time > t.length {
		t.length = time
	}
	return nil
}

// StateAt returns the snapshot of the last state at or before time. There is no interpolation: the
// most recent snapshot is held until the next one. The returned snapshot belongs to the track.
func (t *Track) StateAt(time float64) (Snapshot, bool) {
	i := sort.Search(len(t.states), func(i int) bool { return t.states[i].Time > time })
	if i == 0 {
		return nil, false
	}
	return t.states[i-1].Lights, true
}

// Clone returns a deep copy of the track.
func (t *Track) Clone() *Track {
	out := &Track{
		name:   t.name,
		states: make([]TimedState, len(t.states)),
		length: t.length,
	}
	for i, s := range t.states {
		out.states[i] = TimedState{Time: s.Time, Lights: s.Lights.Clone()}
	}
	return out
}
