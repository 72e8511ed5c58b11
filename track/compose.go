package track

import (
	"fmt"
	"strconv"

	"github.com/gruntwork-io/go-commons/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Segment names an excerpt of a source track placed on a new timeline. A nil End means the end of
// the source track.
type Segment struct {
	Source *Track
	Start  float64
	End    *float64
	Offset float64
}

// ShiftedCopy returns a copy of t with every state moved by offset seconds.
func ShiftedCopy(t *Track, offset float64) (*Track, error) {
	out := NewTrack(t.name + "@" + formatSeconds(offset))
	for _, s := range t.states {
		if s.Time+offset < 0 {
			return nil, errors.WithStackTrace(InvalidArgumentError{
				Op:     "ShiftedCopy",
				Reason: fmt.Sprintf("state at %s shifted by %s is negative", formatSeconds(s.Time), formatSeconds(offset)),
			})
		}
		out.states = append(out.states, TimedState{Time: s.Time + offset, Lights: s.Lights.Clone()})
	}

	if t.length+offset < 0 {
		return nil, errors.WithStackTrace(InvalidArgumentError{Op: "ShiftedCopy", Reason: "negative length"})
	}
	out.length = t.length + offset
	return out, nil
}

// TrimmedCopy returns the states of t with start <= time <= end, re-based so that start becomes 0.
// The copy's length is end - start even when no state exists near end.
func TrimmedCopy(t *Track, start, end float64) (*Track, error) {
	if start < 0 {
		return nil, errors.WithStackTrace(InvalidArgumentError{Op: "TrimmedCopy", Reason: "negative start"})
	}
	if end < start {
		return nil, errors.WithStackTrace(InvalidArgumentError{Op: "TrimmedCopy", Reason: "end before start"})
	}

	out := NewTrack(fmt.Sprintf("%s[%s-%s]", t.name, formatSeconds(start), formatSeconds(end)))
	for _, s := range t.states {
		if s.Time >= start && s.Time <= end {
			out.states = append(out.states, TimedState{Time: s.Time - start, Lights: s.Lights.Clone()})
		}
	}
	out.length = end - start
	return out, nil
}

// Merge superposes two tracks. The result has a state at every time either input has one, holding
// the last known snapshot of a overlaid with the last known snapshot of b (b wins per channel).
func Merge(a, b *Track) *Track {
	out := NewTrack(a.name + "+" + b.name)

	set := make(map[float64]struct{}, len(a.states)+len(b.states))
	for _, s := range a.states {
		set[s.Time] = struct{}{}
	}
	for _, s := range b.states {
		set[s.Time] = struct{}{}
	}
	times := maps.Keys(set)
	slices.Sort(times)

	var i, j int
	lastA, lastB := Snapshot{}, Snapshot{}
	for _, t := range times {
		for i < len(a.states) && a.states[i].Time <= t {
			lastA = a.states[i].Lights
			i++
		}
		for j < len(b.states) && b.states[j].Time <= t {
			lastB = b.states[j].Lights
			j++
		}

		merged := make(Snapshot, len(lastA)+len(lastB))
		for name, state := range lastA {
			merged[name] = state.Clone()
		}
		for name, state := range lastB {
			merged[name] = state.Clone()
		}
		out.states = append(out.states, TimedState{Time: t, Lights: merged})
	}

	out.length = a.length
	if b.length > out.length {
		out.length = b.length
	}
	return out
}

// Compose shifts each track by the offset at the same position (0 when missing) and merges the
// results left to right. It returns nil when no tracks are given.
func Compose(tracks []*Track, offsets []float64) (*Track, error) {
	var composite *Track
	for i, t := range tracks {
		if t == nil {
			continue
		}
		var offset float64
		if i < len(offsets) {
			offset = offsets[i]
		}
		shifted, err := ShiftedCopy(t, offset)
		if err != nil {
			return nil, err
		}
		if composite == nil {
			composite = shifted
		} else {
			composite = Merge(composite, shifted)
		}
	}
	return composite, nil
}

// ComposeFromSegments trims and shifts each segment and merges the pieces left to right. Segments
// without a source are skipped. It returns nil when nothing was composed.
func ComposeFromSegments(segments []Segment) (*Track, error) {
	var composite *Track
	for _, seg := range segments {
		if seg.Source == nil {
			continue
		}
		end := seg.Source.length
		if seg.End != nil {
			end = *seg.End
		}

		part, err := TrimmedCopy(seg.Source, seg.Start, end)
		if err != nil {
			return nil, err
		}
		part, err = ShiftedCopy(part, seg.Offset)
		if err != nil {
			return nil, err
		}

		if composite == nil {
			composite = part
		} else {
			composite = Merge(composite, part)
		}
	}
	return composite, nil
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
