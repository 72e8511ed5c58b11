package console

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	recordStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	playStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Margin(1, 0)
	appStyle      = lipgloss.NewStyle().Margin(1, 2, 0, 2)
)

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("lumen") + "\n\n")

	switch {
	case m.status.Recording && m.status.Playing:
		b.WriteString(fmt.Sprintf("%s %s %s\n", m.spinner.View(), recordStyle.Render("REC"), playStyle.Render("PLAY")))
	case m.status.Recording:
		b.WriteString(fmt.Sprintf("%s %s\n", m.spinner.View(), recordStyle.Render("REC")))
	case m.status.Playing:
		b.WriteString(fmt.Sprintf("%s %s\n", m.spinner.View(), playStyle.Render("PLAY")))
	default:
		b.WriteString("stopped\n")
	}
	loop := "off"
	if m.status.Looping {
		loop = "on"
	}
	b.WriteString(fmt.Sprintf("Loop: %s  Tracks: %d\n\n", loop, m.status.TrackCount))

	if len(m.tracks) == 0 {
		b.WriteString("No tracks\n")
	}
	for i, name := range m.tracks {
		if i == m.status.SelectedIndex {
			b.WriteString(selectedStyle.Render("> "+name) + "\n")
		} else {
			b.WriteString("  " + name + "\n")
		}
	}

	b.WriteString(fmt.Sprintf("\nProfile: %d", m.surface.Profile))
	if cc := m.surface.LastCC; cc != nil {
		b.WriteString(fmt.Sprintf("  CC#%d %d", cc.ID, cc.Value))
	}
	if note := m.surface.LastNote; note != nil {
		b.WriteString(fmt.Sprintf("  Note %d vel %d", note.ID, note.Value))
	}
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()) + "\n")
	}

	b.WriteString(helpStyle.Render("(r)ec (p)lay (s)top (b/n) prev/next (l)oop (d)elete (c)ompose (q)uit"))

	if m.quitting {
		b.WriteString("\n")
	}
	return appStyle.Render(b.String())
}
