//go:build !cgo

package midiin

import "github.com/robmorgan/lumen/surface"

// Open always fails: without cgo there is no MIDI driver.
func Open(portPrefix string, handle func(surface.Event)) (func(), error) {
	return nil, ErrNoDriver
}
