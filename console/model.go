// Package console is a terminal UI showing the engine status and driving it from the keyboard.
package console

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/robmorgan/lumen/engine"
	"github.com/robmorgan/lumen/surface"
	"github.com/robmorgan/lumen/track"
)

// Controller is the engine surface the console drives.
type Controller interface {
	ToggleRecording()
	Play() bool
	Stop()
	Next()
	Prev()
	ToggleLoop()
	DeleteTrack(index int)
	ComposeTracks(indexes []int, offsets []float64) (*track.Track, error)
	Status() engine.Status
	Tracks() []*track.Track
}

// StatusMsg carries an engine status push into the program.
type StatusMsg engine.Status

// SurfaceMsg carries a control surface update into the program.
type SurfaceMsg surface.State

type model struct {
	ctl      Controller
	status   engine.Status
	tracks   []string
	surface  surface.State
	spinner  spinner.Model
	err      error
	quitting bool
}

func newModel(ctl Controller) model {
	s := spinner.New()
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))

	m := model{
		ctl:     ctl,
		spinner: s,
	}
	m.refresh()
	return m
}

func (m model) Init() tea.Cmd {
	return m.spinner.Tick
}

// refresh pulls the status and track names from the controller.
func (m *model) refresh() {
	m.status = m.ctl.Status()
	tracks := m.ctl.Tracks()
	m.tracks = make([]string, 0, len(tracks))
	for _, t := range tracks {
		m.tracks = append(m.tracks, t.Name())
	}
}
