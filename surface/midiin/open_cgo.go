//go:build cgo

package midiin

import (
	"fmt"
	"strings"

	"github.com/robmorgan/lumen/logger"
	"github.com/robmorgan/lumen/surface"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// Open listens on the first input port whose name starts with portPrefix (any port when empty)
// and passes every recognised message to handle. The returned function closes the port.
func Open(portPrefix string, handle func(surface.Event)) (func(), error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("opening MIDI driver failed: %w", err)
	}

	ins, err := drv.Ins()
	if err != nil {
		drv.Close()
		return nil, fmt.Errorf("listing MIDI inputs failed: %w", err)
	}

	var found drivers.In
	for _, in := range ins {
		if strings.HasPrefix(in.String(), portPrefix) {
			found = in
			break
		}
	}
	if found == nil {
		drv.Close()
		return nil, fmt.Errorf("MIDI input %q not found", portPrefix)
	}

	if err := found.Open(); err != nil {
		drv.Close()
		return nil, fmt.Errorf("opening MIDI input failed: %w", err)
	}

	log := logger.GetProjectLogger().WithField("midi_in", found.String())
	stop, err := midi.ListenTo(found, func(msg midi.Message, timestampms int32) {
		if ev, ok := ToEvent(msg); ok {
			handle(ev)
		} else {
			log.Debugf("Unhandled MIDI message %s", msg)
		}
	}, midi.UseSysEx(), midi.HandleError(func(err error) {
		log.Warnf("MIDI listener error: %v", err)
	}))
	if err != nil {
		found.Close()
		drv.Close()
		return nil, fmt.Errorf("starting MIDI listener failed: %w", err)
	}
	log.Info("MIDI input connected")

	return func() {
		stop()
		found.Close()
		drv.Close()
	}, nil
}
