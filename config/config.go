package config

import (
	"os"
	"time"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/gruntwork-io/go-commons/files"
	"github.com/robmorgan/lumen/profile"
	"gopkg.in/yaml.v3"
)

const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

// Config represents options that configure the global behavior of the program
type Config struct {
	LogLevel string `yaml:"log_level"`

	// FPS is the rate at which playback is stepped and the rig is sampled while recording.
	FPS int `yaml:"fps"`

	Recorder RecorderConfig `yaml:"recorder"`
	Storage  StorageConfig  `yaml:"storage"`
	OLA      OLAConfig      `yaml:"ola"`
	Surface  SurfaceConfig  `yaml:"surface"`

	// The fixture profiles
	FixtureProfiles map[string]profile.Profile `yaml:"profiles"`

	// PatchedFixtures stores all of the patched fixtures
	PatchedFixtures []PatchedFixture `yaml:"fixtures"`
}

type RecorderConfig struct {
	// EchoTolerance is how far a recorded intensity may be from the played back one and still be
	// treated as playback. 0 compares exactly.
	EchoTolerance float64 `yaml:"echo_tolerance"`
}

type StorageConfig struct {
	Backend string `yaml:"backend"`
	// Path is a directory for the file backend and a database file for sqlite.
	Path string `yaml:"path"`
}

type OLAConfig struct {
	Enabled bool          `yaml:"enabled"`
	Address string        `yaml:"address"`
	Tick    time.Duration `yaml:"tick"`
}

type SurfaceConfig struct {
	// MIDIPort is a name prefix of the MIDI input to open. Empty opens the first one found.
	MIDIPort   string `yaml:"midi_port"`
	MIDI       bool   `yaml:"midi"`
	OSCAddress string `yaml:"osc_address"`

	// FaderCurve shapes the intensity faders: linear, in_quad, out_quad, in_out_quad, in_cubic.
	FaderCurve string `yaml:"fader_curve"`

	// NoteLights makes note on/off events drive lights the way the LED strip controller does.
	NoteLights bool `yaml:"note_lights"`

	// Profiles are the light name columns addressed by faders, knobs and buttons. An empty name
	// leaves the column unmapped.
	Profiles [][]string `yaml:"profiles"`
}

// NewConfig creates a Config object with reasonable defaults for real usage
func NewConfig() (Config, error) {
	return Config{
		LogLevel: "info",
		FPS:      40,
		Storage: StorageConfig{
			Backend: StorageFile,
			Path:    "lightTracks",
		},
		OLA: OLAConfig{
			Address: "localhost:9010",
			Tick:    40 * time.Millisecond,
		},
		Surface: SurfaceConfig{
			MIDI:       true,
			FaderCurve: "linear",
			Profiles:   defaultSurfaceProfiles(),
		},
		FixtureProfiles: initializeFixtureProfiles(),
		PatchedFixtures: PatchFixtures(),
	}, nil
}

// LoadConfig reads a YAML file over the defaults. A missing path returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg, err := NewConfig()
	if err != nil {
		return cfg, err
	}
	if path == "" || !files.FileExists(path) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.WithStackTrace(err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.WithStackTrace(err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the values that would otherwise fail later at runtime.
func (c Config) Validate() error {
	if c.FPS <= 0 {
		return errors.WithStackTrace(InvalidConfigError{Field: "fps", Reason: "must be positive"})
	}
	if c.Recorder.EchoTolerance < 0 {
		return errors.WithStackTrace(InvalidConfigError{Field: "recorder.echo_tolerance", Reason: "must not be negative"})
	}
	switch c.Storage.Backend {
	case StorageFile, StorageSQLite, StorageMemory:
	default:
		return errors.WithStackTrace(InvalidConfigError{Field: "storage.backend", Reason: "unknown backend " + c.Storage.Backend})
	}
	for _, f := range c.PatchedFixtures {
		if _, ok := c.FixtureProfiles[f.Profile]; !ok {
			return errors.WithStackTrace(InvalidConfigError{Field: "fixtures", Reason: "unknown profile " + f.Profile + " for " + f.Name})
		}
	}
	return nil
}

// FrameInterval is the time between two engine ticks.
func (c Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.FPS)
}

// InvalidConfigError is returned for a config value that cannot be used.
type InvalidConfigError struct {
	Field  string
	Reason string
}

func (err InvalidConfigError) Error() string {
	return "invalid config " + err.Field + ": " + err.Reason
}
