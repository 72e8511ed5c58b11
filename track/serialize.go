package track

import (
	"encoding/json"
	"sort"

	"github.com/gruntwork-io/go-commons/errors"
)

// Serialized is the stored form of a track: {"states": [{"time", "lights"}], "length"}.
type Serialized struct {
	States []TimedState `json:"states"`
	Length *float64     `json:"length,omitempty"`
}

// ToSerialized returns the stored form of t. The result shares no memory with the track.
func ToSerialized(t *Track) Serialized {
	states := make([]TimedState, len(t.states))
	for i, s := range t.states {
		states[i] = TimedState{Time: s.Time, Lights: s.Lights.Clone()}
	}
	length := t.length
	return Serialized{States: states, Length: &length}
}

// FromSerialized rebuilds a named track. A missing length defaults to the time of the last state.
func FromSerialized(name string, s Serialized) (*Track, error) {
	t := NewTrack(name)
	for _, state := range s.States {
		if state.Time < 0 {
			return nil, errors.WithStackTrace(InvalidArgumentError{Op: "FromSerialized", Reason: "negative time"})
		}
		lights := state.Lights.Clone()
		if lights == nil {
			lights = Snapshot{}
		}
		t.states = append(t.states, TimedState{Time: state.Time, Lights: lights})
	}
	sort.SliceStable(t.states, func(i, j int) bool { return t.states[i].Time < t.states[j].Time })

	switch {
	case s.Length != nil:
		if *s.Length < 0 {
			return nil, errors.WithStackTrace(InvalidArgumentError{Op: "FromSerialized", Reason: "negative length"})
		}
		t.length = *s.Length
	case len(t.states) > 0:
		t.length = t.states[len(t.states)-1].Time
	}
	return t, nil
}

// Marshal encodes t in its stored JSON form.
func Marshal(t *Track) ([]byte, error) {
	data, err := json.Marshal(ToSerialized(t))
	if err != nil {
		return nil, errors.WithStackTrace(err)
	}
	return data, nil
}

// Unmarshal decodes a stored track and names it.
func Unmarshal(name string, data []byte) (*Track, error) {
	var s Serialized
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.WithStackTrace(err)
	}
	return FromSerialized(name, s)
}
