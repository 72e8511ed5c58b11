package player

import (
	"time"

	"github.com/robmorgan/lumen/logger"
	"github.com/robmorgan/lumen/track"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"
)

// ChannelWriter is the write side of the live rig.
type ChannelWriter interface {
	WriteChannel(name string, state track.LightState)
}

// Selection gives the player the track it should be playing.
type Selection interface {
	SelectedTrack() *track.Track
}

// Player walks the selected track forward in time and applies each snapshot to the rig. Like the
// recorder it is stepped by its owner once per frame.
type Player struct {
	sink      ChannelWriter
	selection Selection
	clock     clock.PassiveClock

	playing   bool
	looping   bool
	startedAt time.Time
	echo      track.Snapshot

	log *logrus.Entry
}

// New creates a stopped Player.
func New(sink ChannelWriter, selection Selection, cl clock.PassiveClock) *Player {
	return &Player{
		sink:      sink,
		selection: selection,
		clock:     cl,
		log:       logger.GetProjectLogger().WithField("component", "player"),
	}
}

func (p *Player) IsPlaying() bool {
	return p.playing
}

func (p *Player) IsLooping() bool {
	return p.looping
}

// Echo returns the snapshot last applied to the rig, or nil before anything was played. It
// outlives Stop so the frame that ends playback is still recognised, and is reset by Play.
func (p *Player) Echo() track.Snapshot {
	return p.echo
}

// Elapsed returns the playhead position in seconds, or 0 when stopped.
func (p *Player) Elapsed() float64 {
	if !p.playing {
		return 0
	}
	return p.clock.Since(p.startedAt).Seconds()
}

// Play starts playback of the selected track and applies its first step immediately. It returns
// false when nothing is selected or playback is already running.
func (p *Player) Play() bool {
	if p.playing {
		return false
	}
	t := p.selection.SelectedTrack()
	if t == nil {
		return false
	}

	p.playing = true
	p.startedAt = p.clock.Now()
	p.echo = nil
	p.log.WithFields(logrus.Fields{"track": t.Name(), "length": t.Length()}).Info("playback started")

	p.Step()
	return true
}

// Step applies the snapshot at the current playhead and handles the end of the track. It returns
// true when playback stopped during this step.
func (p *Player) Step() bool {
	if !p.playing {
		return false
	}
	t := p.selection.SelectedTrack()
	if t == nil {
		p.Stop()
		return true
	}

	elapsed := p.clock.Since(p.startedAt).Seconds()
	if state, ok := t.StateAt(elapsed); ok {
		p.echo = state
		for name, s := range state {
			p.sink.WriteChannel(name, s)
		}
	}

	if elapsed < t.Length() {
		return false
	}
	if p.looping {
		p.startedAt = p.clock.Now()
		return false
	}

	p.log.WithField("track", t.Name()).Info("playback finished")
	p.Stop()
	return true
}

// Stop halts playback. Calling it while stopped does nothing.
func (p *Player) Stop() {
	p.playing = false
}

// ToggleLoop flips looping. It takes effect the next time the end of the track is reached.
func (p *Player) ToggleLoop() {
	p.looping = !p.looping
}
