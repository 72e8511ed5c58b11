package console

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/robmorgan/lumen/engine"
	"github.com/robmorgan/lumen/surface"
)

// NewProgram creates the console program for ctl.
func NewProgram(ctl Controller, opts ...tea.ProgramOption) *tea.Program {
	return tea.NewProgram(newModel(ctl), opts...)
}

// StatusObserver forwards engine status pushes to p.
func StatusObserver(p *tea.Program) func(engine.Status) {
	return func(s engine.Status) {
		p.Send(StatusMsg(s))
	}
}

// SurfaceObserver forwards control surface updates to p.
func SurfaceObserver(p *tea.Program) func(surface.State) {
	return func(s surface.State) {
		p.Send(SurfaceMsg(s))
	}
}

// Run blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, p *tea.Program) error {
	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	_, err := p.Run()
	return err
}
