// Package engine owns the track collection and drives the recorder and player from one frame tick.
package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/robmorgan/lumen/logger"
	"github.com/robmorgan/lumen/player"
	"github.com/robmorgan/lumen/recorder"
	"github.com/robmorgan/lumen/store"
	"github.com/robmorgan/lumen/track"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"
)

// DefaultCompositeName names segment composites when the caller gives no name.
const DefaultCompositeName = "Composite"

// ChannelAccess is the live rig as seen by the engine.
type ChannelAccess interface {
	recorder.ChannelReader
	player.ChannelWriter
}

// Status is the observable state of the engine.
type Status struct {
	Recording     bool
	Playing       bool
	Looping       bool
	SelectedTrack string
	// SelectedIndex is -1 when nothing is selected.
	SelectedIndex int
	TrackCount    int
}

// SegmentSpec addresses a slice of a track in the collection by index.
type SegmentSpec struct {
	TrackIndex int
	Start      float64
	// End nil means the end of the track.
	End    *float64
	Offset float64
}

// Option configures an Engine.
type Option func(*Engine)

// WithEchoTolerance sets how close a recorded intensity must be to the played back one to be
// treated as playback.
func WithEchoTolerance(tolerance float64) Option {
	return func(e *Engine) {
		e.recorderOpts = append(e.recorderOpts, recorder.WithEchoTolerance(tolerance))
	}
}

// Engine is the orchestrator. All methods are safe for concurrent use.
type Engine struct {
	mu       sync.Mutex
	tracks   []*track.Track
	selected int

	recorder *recorder.Recorder
	player   *player.Player
	store    store.Store
	clock    clock.PassiveClock

	observer func(Status)

	persisting   sync.WaitGroup
	recorderOpts []recorder.Option
	log          *logrus.Entry
}

// selection reads the selected track for the player. It runs under the engine lock.
type selection struct {
	e *Engine
}

func (s selection) SelectedTrack() *track.Track {
	return s.e.selectedLocked()
}

// New wires a recorder and a player to the rig. A nil store disables persistence.
func New(rig ChannelAccess, st store.Store, cl clock.PassiveClock, opts ...Option) *Engine {
	e := &Engine{
		selected: -1,
		store:    st,
		clock:    cl,
		log:      logger.GetProjectLogger().WithField("component", "engine"),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.player = player.New(rig, selection{e: e}, cl)
	e.recorder = recorder.New(rig, cl, e.recorderOpts...)
	e.recorder.SetEchoSource(e.player)
	return e
}

// SetObserver registers the single status observer, replacing any previous one. nil removes it.
func (e *Engine) SetObserver(fn func(Status)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observer = fn
}

// update runs fn under the lock and then notifies the observer outside of it.
func (e *Engine) update(fn func() bool) {
	e.mu.Lock()
	notify := fn()
	status := e.statusLocked()
	observer := e.observer
	e.mu.Unlock()

	if notify && observer != nil {
		observer(status)
	}
}

func always(fn func()) func() bool {
	return func() bool {
		fn()
		return true
	}
}

func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.statusLocked()
}

func (e *Engine) statusLocked() Status {
	s := Status{
		Recording:     e.recorder.IsRecording(),
		Playing:       e.player.IsPlaying(),
		Looping:       e.player.IsLooping(),
		SelectedIndex: e.selected,
		TrackCount:    len(e.tracks),
	}
	if t := e.selectedLocked(); t != nil {
		s.SelectedTrack = t.Name()
	}
	return s
}

// Tracks returns a copy of the collection.
func (e *Engine) Tracks() []*track.Track {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*track.Track(nil), e.tracks...)
}

// SelectedTrack returns the selected track or nil.
func (e *Engine) SelectedTrack() *track.Track {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selectedLocked()
}

func (e *Engine) selectedLocked() *track.Track {
	if e.selected < 0 || e.selected >= len(e.tracks) {
		return nil
	}
	return e.tracks[e.selected]
}

// Tick advances one frame: playback writes first, then the recorder samples.
func (e *Engine) Tick() {
	e.update(func() bool {
		stopped := e.player.Step()
		e.recorder.SampleStep()
		return stopped
	})
}

func (e *Engine) StartRecording() {
	e.update(always(func() { e.recorder.Start() }))
}

// StopRecording finalizes the capture, appends it, selects it and saves it. It returns nil when
// not recording.
func (e *Engine) StopRecording() *track.Track {
	var t *track.Track
	e.update(always(func() {
		t = e.recorder.Stop(fmt.Sprintf("Track_%d", e.clock.Now().UnixMilli()))
		if t != nil {
			e.addLocked(t, true)
		}
	}))
	return t
}

// ToggleRecording starts recording when idle and stops it otherwise.
func (e *Engine) ToggleRecording() {
	if e.Status().Recording {
		e.StopRecording()
	} else {
		e.StartRecording()
	}
}

// Play starts the selected track. It returns false when nothing is selected or already playing.
func (e *Engine) Play() bool {
	var started bool
	e.update(always(func() { started = e.player.Play() }))
	return started
}

// Stop halts playback immediately. The next Tick sees a stopped player.
func (e *Engine) Stop() {
	e.update(always(e.player.Stop))
}

func (e *Engine) ToggleLoop() {
	e.update(always(e.player.ToggleLoop))
}

// Next selects the following track, wrapping around. Playback is not affected.
func (e *Engine) Next() {
	e.update(always(func() { e.moveSelectionLocked(1) }))
}

// Prev selects the previous track, wrapping around. Playback is not affected.
func (e *Engine) Prev() {
	e.update(always(func() { e.moveSelectionLocked(-1) }))
}

func (e *Engine) moveSelectionLocked(step int) {
	n := len(e.tracks)
	if n == 0 {
		return
	}
	if e.selected < 0 {
		e.selected = 0
		return
	}
	e.selected = ((e.selected+step)%n + n) % n
}

// Select selects the track at index. Out of range indexes are ignored.
func (e *Engine) Select(index int) {
	e.update(always(func() {
		if index >= 0 && index < len(e.tracks) {
			e.selected = index
		}
	}))
}

// DeleteTrack removes the track at index and deletes it from the store. Out of range indexes are
// ignored. The selection moves to the first track, or none when the collection is empty.
func (e *Engine) DeleteTrack(index int) {
	e.update(always(func() {
		if index < 0 || index >= len(e.tracks) {
			return
		}
		name := e.tracks[index].Name()
		e.tracks = append(e.tracks[:index], e.tracks[index+1:]...)
		if len(e.tracks) > 0 {
			e.selected = 0
		} else {
			e.selected = -1
		}
		e.deleteAsync(name)
	}))
}

// ComposeTracks superimposes the tracks at indexes, each shifted by the offset at the same
// position. Missing indexes are skipped. The composite is appended, selected and saved. It returns
// nil when nothing was composed.
func (e *Engine) ComposeTracks(indexes []int, offsets []float64) (*track.Track, error) {
	var (
		composite *track.Track
		err       error
	)
	e.update(func() bool {
		sources := make([]*track.Track, 0, len(indexes))
		shifts := make([]float64, 0, len(indexes))
		for i, index := range indexes {
			if index < 0 || index >= len(e.tracks) {
				continue
			}
			sources = append(sources, e.tracks[index])
			var offset float64
			if i < len(offsets) {
				offset = offsets[i]
			}
			shifts = append(shifts, offset)
		}

		composite, err = track.Compose(sources, shifts)
		if err != nil || composite == nil {
			return false
		}
		composite.SetName(fmt.Sprintf("Composite_%d", e.clock.Now().UnixMilli()))
		e.addLocked(composite, true)
		return true
	})
	return composite, err
}

// ComposeFromSegments splices slices of tracks in the collection into a new track called name
// (DefaultCompositeName when empty). Segments pointing at missing tracks are skipped. When persist
// is false the composite is added as a preview and not saved.
func (e *Engine) ComposeFromSegments(specs []SegmentSpec, name string, persist bool) (*track.Track, error) {
	if name == "" {
		name = DefaultCompositeName
	}

	var (
		composite *track.Track
		err       error
	)
	e.update(func() bool {
		segments := make([]track.Segment, 0, len(specs))
		for _, spec := range specs {
			if spec.TrackIndex < 0 || spec.TrackIndex >= len(e.tracks) {
				continue
			}
			segments = append(segments, track.Segment{
				Source: e.tracks[spec.TrackIndex],
				Start:  spec.Start,
				End:    spec.End,
				Offset: spec.Offset,
			})
		}

		composite, err = track.ComposeFromSegments(segments)
		if err != nil || composite == nil {
			return false
		}
		composite.SetName(name)
		e.addLocked(composite, persist)
		return true
	})
	return composite, err
}

// addLocked appends t and selects it.
func (e *Engine) addLocked(t *track.Track, persist bool) {
	e.tracks = append(e.tracks, t)
	e.selected = len(e.tracks) - 1
	if persist {
		e.saveAsync(t)
	}
}

// Load reads every stored track and appends it to the collection in one batch. Tracks that fail to
// decode are skipped. Commands issued while loading act on the collection as it is.
func (e *Engine) Load(ctx context.Context) error {
	if e.store == nil {
		return nil
	}

	entries, err := e.store.LoadAll(ctx)
	if err != nil {
		e.log.WithError(err).Error("Cannot load tracks")
		return err
	}

	loaded := make([]*track.Track, 0, len(entries))
	for _, entry := range entries {
		t, err := track.Unmarshal(entry.Name, entry.Data)
		if err != nil {
			e.log.WithField("track", entry.Name).Warnf("Skipping unreadable track: %v", err)
			continue
		}
		loaded = append(loaded, t)
	}

	e.update(always(func() {
		e.tracks = append(e.tracks, loaded...)
		if e.selected < 0 && len(e.tracks) > 0 {
			e.selected = 0
		}
	}))
	e.log.WithField("tracks", len(loaded)).Info("Tracks loaded")
	return nil
}

func (e *Engine) saveAsync(t *track.Track) {
	if e.store == nil {
		return
	}
	name := t.Name()
	data, err := track.Marshal(t)
	if err != nil {
		e.log.WithField("track", name).Errorf("Cannot serialize track: %v", err)
		return
	}

	e.persisting.Add(1)
	go func() {
		defer e.persisting.Done()
		if err := e.store.Save(context.Background(), name, data); err != nil {
			e.log.WithField("track", name).Errorf("Cannot save track: %v", err)
		}
	}()
}

func (e *Engine) deleteAsync(name string) {
	if e.store == nil {
		return
	}

	e.persisting.Add(1)
	go func() {
		defer e.persisting.Done()
		if err := e.store.Delete(context.Background(), name); err != nil {
			e.log.WithField("track", name).Errorf("Cannot delete track: %v", err)
		}
	}()
}

// Wait blocks until every save and delete started so far has finished.
func (e *Engine) Wait() {
	e.persisting.Wait()
}
