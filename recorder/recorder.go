package recorder

import (
	"time"

	"github.com/robmorgan/lumen/logger"
	"github.com/robmorgan/lumen/track"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"
)

// ChannelReader is the read side of the live rig.
type ChannelReader interface {
	ListChannels() []string
	ReadChannel(name string) (track.LightState, bool)
}

// EchoSource reports the snapshot a player last applied to the rig, or nil when nothing is playing.
type EchoSource interface {
	Echo() track.Snapshot
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithEchoTolerance lets a channel value count as a playback echo when its intensity is within
// tolerance of the played value. Zero means exact comparison.
func WithEchoTolerance(tolerance float64) Option {
	return func(r *Recorder) {
		r.tolerance = tolerance
	}
}

// Recorder samples the rig on demand and keeps only the channel values that changed since the last
// sample. It has no timer of its own: SampleStep is called once per frame by the owner.
type Recorder struct {
	rig   ChannelReader
	echo  EchoSource
	clock clock.PassiveClock

	tolerance float64

	recording bool
	startedAt time.Time
	buffer    []track.TimedState
	last      map[string]track.LightState

	log *logrus.Entry
}

// New creates an idle Recorder reading from rig.
func New(rig ChannelReader, cl clock.PassiveClock, opts ...Option) *Recorder {
	r := &Recorder{
		rig:   rig,
		clock: cl,
		last:  make(map[string]track.LightState),
		log:   logger.GetProjectLogger().WithField("component", "recorder"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetEchoSource wires the player whose writes must not be recorded back.
func (r *Recorder) SetEchoSource(echo EchoSource) {
	r.echo = echo
}

func (r *Recorder) IsRecording() bool {
	return r.recording
}

// Elapsed returns the seconds since recording started, or 0 when idle.
func (r *Recorder) Elapsed() float64 {
	if !r.recording {
		return 0
	}
	return r.clock.Since(r.startedAt).Seconds()
}

// Pending returns the number of deltas captured so far.
func (r *Recorder) Pending() int {
	return len(r.buffer)
}

// Start begins a new capture. It returns false when already recording.
func (r *Recorder) Start() bool {
	if r.recording {
		return false
	}
	r.buffer = r.buffer[:0]
	r.last = make(map[string]track.LightState)
	r.startedAt = r.clock.Now()
	r.recording = true

	r.log.Debug("recording started")
	return true
}

// SampleStep reads every channel and buffers the ones that changed since they were last emitted.
// Values equal to what playback just wrote are skipped.
func (r *Recorder) SampleStep() {
	if !r.recording {
		return
	}

	var echo track.Snapshot
	if r.echo != nil {
		echo = r.echo.Echo()
	}

	delta := track.Snapshot{}
	for _, name := range r.rig.ListChannels() {
		cur, ok := r.rig.ReadChannel(name)
		if !ok {
			continue
		}
		if played, found := echo[name]; found && played.EqualWithin(cur, r.tolerance) {
			continue
		}
		if prev, found := r.last[name]; found && prev.Equal(cur) {
			continue
		}
		delta[name] = cur.Clone()
		r.last[name] = cur.Clone()
	}

	if len(delta) > 0 {
		r.buffer = append(r.buffer, track.TimedState{Time: r.Elapsed(), Lights: delta})
	}
}

// Stop finishes the capture and returns it as a track named name. It returns nil when idle.
func (r *Recorder) Stop(name string) *track.Track {
	if !r.recording {
		return nil
	}
	r.recording = false

	t := track.NewTrack(name)
	for _, s := range r.buffer {
		if err := t.AddState(s.Time, s.Lights); err != nil {
			// elapsed time is never negative with a monotonic clock
			r.log.WithError(err).Warn("dropping captured state")
		}
	}
	r.buffer = r.buffer[:0]

	r.log.WithFields(logrus.Fields{"track": name, "states": t.Len(), "length": t.Length()}).Info("recording stopped")
	return t
}
