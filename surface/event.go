// Package surface maps control surface events onto engine commands and direct channel writes.
package surface

import "fmt"

// Kind is the type of a control surface event.
type Kind int

const (
	ControlChange Kind = iota
	NoteOn
	NoteOff
	ProfileSelect
)

func (k Kind) String() string {
	switch k {
	case ControlChange:
		return "cc"
	case NoteOn:
		return "note-on"
	case NoteOff:
		return "note-off"
	case ProfileSelect:
		return "profile"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Event is one discrete input. ID is the controller or note number and Value the 7 bit value or
// velocity. For ProfileSelect, Value is the profile index.
type Event struct {
	Kind  Kind
	ID    int
	Value int
}

func (e Event) String() string {
	return fmt.Sprintf("%s %d=%d", e.Kind, e.ID, e.Value)
}

// Controller numbers of the default surface layout.
const (
	CCRecord = 44
	CCPlay   = 45
	CCStop   = 46
	CCPrev   = 47
	CCNext   = 48
	CCLoop   = 49

	CCFaderFirst  = 3
	CCFaderLast   = 11
	CCHueFirst    = 14
	CCHueLast     = 22
	CCToggleFirst = 23
	CCToggleLast  = 31

	// Pressed is the value a button sends when pushed.
	Pressed = 127
	// MaxValue is the largest 7 bit value.
	MaxValue = 127
)
