package console

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/robmorgan/lumen/surface"
)

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case StatusMsg:
		m.refresh()
		return m, nil
	case SurfaceMsg:
		m.surface = surface.State(msg)
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil

	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "r":
		m.ctl.ToggleRecording()
	case " ", "space", "p":
		m.ctl.Play()
	case "s":
		m.ctl.Stop()
	case "n", "right":
		m.ctl.Next()
	case "b", "left":
		m.ctl.Prev()
	case "l":
		m.ctl.ToggleLoop()
	case "d":
		m.ctl.DeleteTrack(m.status.SelectedIndex)
	case "c":
		// superimpose the selected track and the one after it
		if idx, count := m.status.SelectedIndex, m.status.TrackCount; idx >= 0 && count > 1 {
			_, m.err = m.ctl.ComposeTracks([]int{idx, (idx + 1) % count}, nil)
		}
	default:
		return m, nil
	}

	m.refresh()
	return m, nil
}
