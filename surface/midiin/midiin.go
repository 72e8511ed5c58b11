// Package midiin turns MIDI input into surface events.
package midiin

import (
	"errors"

	"github.com/robmorgan/lumen/surface"
	"gitlab.com/gomidi/midi/v2"
)

// ErrNoDriver is returned by Open in builds without a MIDI driver.
var ErrNoDriver = errors.New("midi: built without cgo, no driver available")

// ToEvent converts a MIDI message. A note on with velocity 0 is a note off. A SysEx message
// selects the profile given by its last data byte.
func ToEvent(msg midi.Message) (surface.Event, bool) {
	var ch, key, vel, cc, val uint8
	var data []byte

	switch {
	case msg.GetControlChange(&ch, &cc, &val):
		return surface.Event{Kind: surface.ControlChange, ID: int(cc), Value: int(val)}, true
	case msg.GetNoteStart(&ch, &key, &vel):
		return surface.Event{Kind: surface.NoteOn, ID: int(key), Value: int(vel)}, true
	case msg.GetNoteEnd(&ch, &key):
		return surface.Event{Kind: surface.NoteOff, ID: int(key)}, true
	case msg.GetSysEx(&data):
		if n := len(data); n > 0 && data[n-1] == 0xF7 {
			data = data[:n-1]
		}
		if len(data) == 0 {
			return surface.Event{}, false
		}
		return surface.Event{Kind: surface.ProfileSelect, Value: int(data[len(data)-1])}, true
	}
	return surface.Event{}, false
}
