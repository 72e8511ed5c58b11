package fixture

import (
	"github.com/robmorgan/lumen/profile"
	"github.com/robmorgan/lumen/track"
)

// Fixture is a patched light: its DMX placement and its current state.
type Fixture struct {
	Name     string
	Room     string
	Address  int
	Universe int
	Profile  profile.Profile

	intensity float64
	color     string

	needsUpdate bool
}

// NewFixture creates a fixture with an initial state. It starts dirty so that it is rendered at
// least once.
func NewFixture(name string, universe, address int, p profile.Profile) *Fixture {
	return &Fixture{
		Name:        name,
		Universe:    universe,
		Address:     address,
		Profile:     p,
		color:       "#000000",
		needsUpdate: true,
	}
}

func (f *Fixture) SetIntensity(v float64) {
	f.intensity = v
	f.needsUpdate = true
}

func (f *Fixture) GetIntensity() float64 {
	return f.intensity
}

// SetColor stores the color verbatim.
func (f *Fixture) SetColor(color string) {
	f.color = color
	f.needsUpdate = true
}

func (f *Fixture) GetColor() string {
	return f.color
}

// State returns the fixture's current value with both fields set.
func (f *Fixture) State() track.LightState {
	return track.NewLightState(f.intensity, f.color)
}

// Apply writes the fields present in s.
func (f *Fixture) Apply(s track.LightState) {
	if v, ok := s.IntensityValue(); ok {
		f.SetIntensity(v)
	}
	if s.Color != "" {
		f.SetColor(s.Color)
	}
}

// NeedsUpdate reports whether the fixture changed since it was last rendered.
func (f *Fixture) NeedsUpdate() bool {
	return f.needsUpdate
}

// HasUpdated marks the fixture as rendered.
func (f *Fixture) HasUpdated() {
	f.needsUpdate = false
}
