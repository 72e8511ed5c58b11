package fixture

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/robmorgan/lumen/logger"
	"github.com/robmorgan/lumen/profile"
	"github.com/robmorgan/lumen/utils"
)

// UniverseSize is the number of channels in a DMX512 universe.
const UniverseSize = 512

// DMXState holds the DMX512 values for each channel
type DMXState struct {
	universes map[int][]byte
	lock      sync.Mutex
}

type dmxOperation struct {
	universe, channel int
	value             byte
}

// GetValue returns the level of a 1-based channel.
func (s *DMXState) GetValue(universe, channel int) int {
	s.lock.Lock()
	defer s.lock.Unlock()

	u := s.universes[universe]
	if u == nil || channel < 1 || channel > UniverseSize {
		return 0
	}
	return int(u[channel-1])
}

// Universes returns a copy of every universe that has been written.
func (s *DMXState) Universes() map[int][]byte {
	s.lock.Lock()
	defer s.lock.Unlock()

	out := make(map[int][]byte, len(s.universes))
	for k, v := range s.universes {
		out[k] = append([]byte(nil), v...)
	}
	return out
}

func (s *DMXState) set(ops ...dmxOperation) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	for _, op := range ops {
		if op.channel < 1 || op.channel > UniverseSize {
			return errors.WithStackTrace(fmt.Errorf("dmx channel (%d) not in range, op=%v", op.channel, op))
		}

		s.initializeUniverse(op.universe)
		s.universes[op.universe][op.channel-1] = op.value
	}

	return nil
}

func (s *DMXState) initializeUniverse(universe int) {
	if s.universes[universe] == nil {
		s.universes[universe] = make([]byte, UniverseSize)
	}
}

// operations renders the fixture state onto its profile's channels. A fixture without a dimmer
// has its intensity folded into the color.
func (f *Fixture) operations() ([]dmxOperation, error) {
	r, g, b, err := utils.GetRGBFromString(f.color)
	if err != nil {
		return nil, err
	}

	levels := map[string]byte{}
	if f.Profile.HasIntensity() {
		levels[profile.ChannelTypeIntensity] = utils.UnitToByte(f.intensity)
	} else {
		scale := utils.Clamp(f.intensity, 0, 1)
		r = byte(float64(r) * scale)
		g = byte(float64(g) * scale)
		b = byte(float64(b) * scale)
	}
	levels[profile.ChannelTypeRed] = r
	levels[profile.ChannelTypeGreen] = g
	levels[profile.ChannelTypeBlue] = b

	ops := make([]dmxOperation, 0, len(levels))
	for channelType, value := range levels {
		offset, ok := f.Profile.Offset(channelType)
		if !ok {
			continue
		}
		ops = append(ops, dmxOperation{
			universe: f.Universe,
			channel:  f.Address + offset - 1,
			value:    value,
		})
	}
	return ops, nil
}

// Render writes every changed fixture into the DMX state and returns it. Fixtures with an
// unparseable color keep their previous levels.
func (m *StateManager) Render() *DMXState {
	m.stateLock.Lock()
	defer m.stateLock.Unlock()

	for _, name := range m.names {
		f := m.items[name]
		if !f.NeedsUpdate() {
			continue
		}
		ops, err := f.operations()
		if err == nil {
			err = m.dmxState.set(ops...)
		}
		if err != nil {
			logger.GetProjectLogger().WithField("fixture", name).Warnf("Cannot render fixture: %v", err)
		}
		f.HasUpdated()
	}

	return &m.dmxState
}

// OLAClient is the interface for communicating with OLA
type OLAClient interface {
	SendDmx(universe int, values []byte) (status bool, err error)
	Close()
}

// SendDMXWorker sends OLA the current dmxState across all universes
func SendDMXWorker(ctx context.Context, client OLAClient, tick time.Duration, manager Manager, wg *sync.WaitGroup) error {
	defer wg.Done()
	defer client.Close()

	log := logger.GetProjectLogger().WithField("component", "dmx")

	t := time.NewTimer(tick)
	defer t.Stop()
	log.Debugf("DMX timer started, tick=%s", tick)

	for {
		select {
		case <-ctx.Done():
			log.Info("SendDMXWorker shutdown")
			return ctx.Err()
		case <-t.C:
			for k, v := range manager.Render().Universes() {
				if _, err := client.SendDmx(k, v); err != nil {
					log.Warnf("Cannot send universe %d: %v", k, err)
				}
			}
			t.Reset(tick)
		}
	}
}
