// Package oscin turns OSC messages into surface events.
package oscin

import (
	"context"
	"net"
	"sync"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/hypebeast/go-osc/osc"
	"github.com/robmorgan/lumen/logger"
	"github.com/robmorgan/lumen/surface"
)

// Addresses understood by the dispatcher.
const (
	AddressCC      = "/cc"
	AddressNoteOn  = "/note/on"
	AddressNoteOff = "/note/off"
	AddressProfile = "/profile"
)

// ToEvent converts a message: /cc id value, /note/on note velocity, /note/off note and
// /profile n. Numeric arguments may be ints or floats.
func ToEvent(msg *osc.Message) (surface.Event, bool) {
	args := make([]int, 0, len(msg.Arguments))
	for _, arg := range msg.Arguments {
		v, ok := toInt(arg)
		if !ok {
			return surface.Event{}, false
		}
		args = append(args, v)
	}

	switch {
	case msg.Address == AddressCC && len(args) >= 2:
		return surface.Event{Kind: surface.ControlChange, ID: args[0], Value: args[1]}, true
	case msg.Address == AddressNoteOn && len(args) >= 2:
		return surface.Event{Kind: surface.NoteOn, ID: args[0], Value: args[1]}, true
	case msg.Address == AddressNoteOff && len(args) >= 1:
		return surface.Event{Kind: surface.NoteOff, ID: args[0]}, true
	case msg.Address == AddressProfile && len(args) >= 1:
		return surface.Event{Kind: surface.ProfileSelect, Value: args[0]}, true
	}
	return surface.Event{}, false
}

func toInt(arg interface{}) (int, bool) {
	switch v := arg.(type) {
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case float32:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}

// NewDispatcher routes the surface addresses to handle.
func NewDispatcher(handle func(surface.Event)) *osc.StandardDispatcher {
	log := logger.GetProjectLogger().WithField("component", "osc")

	d := osc.NewStandardDispatcher()
	for _, address := range []string{AddressCC, AddressNoteOn, AddressNoteOff, AddressProfile} {
		d.AddMsgHandler(address, func(msg *osc.Message) {
			if ev, ok := ToEvent(msg); ok {
				handle(ev)
			} else {
				log.Warnf("Malformed OSC message %s", msg)
			}
		})
	}
	return d
}

// Serve listens for OSC over UDP on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, handle func(surface.Event), wg *sync.WaitGroup) error {
	defer wg.Done()

	conn, err := net.ListenPacket("udp", addr)
	if err != nil {
		return errors.WithStackTrace(err)
	}

	log := logger.GetProjectLogger().WithField("component", "osc")
	log.Infof("Listening for OSC on %s", conn.LocalAddr())

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	server := &osc.Server{Addr: addr, Dispatcher: NewDispatcher(handle)}
	err = server.Serve(conn)
	if ctx.Err() != nil {
		log.Info("OSC server shutdown")
		return ctx.Err()
	}
	return errors.WithStackTrace(err)
}
