package config

import "fmt"

// PatchedFixture stores config info for a light in the installation
type PatchedFixture struct {
	Name     string `yaml:"name"`
	Room     string `yaml:"room"`
	Address  int    `yaml:"address"`
	Universe int    `yaml:"universe"`
	Profile  string `yaml:"profile"`

	// Initial state of the light
	Intensity float64 `yaml:"intensity"`
	Color     string  `yaml:"color"`
}

func PatchFixtures() []PatchedFixture {
	s := make([]PatchedFixture, 0)

	s = append(s, patchHouseLights()...)
	s = append(s, patchL9()...)
	s = append(s, patchStones()...)
	s = append(s, patchWater()...)

	return s
}

// parsPerRoom patches one 8 channel PAR per name, starting at address.
func parsPerRoom(room string, names []string, address int) []PatchedFixture {
	out := make([]PatchedFixture, 0, len(names))
	for i, name := range names {
		out = append(out, PatchedFixture{
			Name:      name,
			Room:      room,
			Address:   address + i*8,
			Universe:  1,
			Profile:   "shehds-par",
			Intensity: 1.0,
			Color:     "#ffffff",
		})
	}
	return out
}

func patchHouseLights() []PatchedFixture {
	s := make([]PatchedFixture, 0)
	s = append(s, parsPerRoom("andrei", []string{"andrei_1"}, 1)...)
	s = append(s, parsPerRoom("salon", []string{"salon_1", "salon_2"}, 9)...)
	s = append(s, parsPerRoom("mial", []string{"mial_1", "mial_2"}, 25)...)
	s = append(s, parsPerRoom("toilettes", []string{"toilettes_1"}, 41)...)
	s = append(s, parsPerRoom("naeva", []string{"naeva_1"}, 49)...)
	s = append(s, parsPerRoom("nilo", []string{"nilo_1"}, 57)...)
	return s
}

func patchL9() []PatchedFixture {
	names := make([]string, 0, 9)
	for i := 1; i <= 9; i++ {
		names = append(names, fmt.Sprintf("L9_%d", i))
	}
	return parsPerRoom("L9", names, 65)
}

func patchStones() []PatchedFixture {
	names := make([]string, 0, 9)
	for i := 1; i <= 9; i++ {
		names = append(names, fmt.Sprintf("stone_%d", i))
	}
	return parsPerRoom("garden", names, 137)
}

func patchWater() []PatchedFixture {
	// pixel drivers live on universe 2, three channels each
	out := make([]PatchedFixture, 0, 4)
	for i, name := range []string{"bassin_1", "bassin_2", "cascade_1", "cascade_2"} {
		out = append(out, PatchedFixture{
			Name:      name,
			Room:      "garden",
			Address:   1 + i*3,
			Universe:  2,
			Profile:   "rgb-pixel",
			Intensity: 1.0,
			Color:     "#0077ff",
		})
	}
	return out
}

// defaultSurfaceProfiles are the light columns of the MIDI controller, one row per profile.
func defaultSurfaceProfiles() [][]string {
	return [][]string{
		{"andrei_1", "salon_2", "salon_1", "mial_1", "mial_2", "toilettes_1", "naeva_1", "nilo_1", ""},
		{"L9_6", "L9_9", "L9_2", "L9_4", "L9_1", "L9_5", "L9_3", "L9_8", "L9_7"},
		{"stone_1", "stone_2", "stone_3", "stone_4", "stone_5", "stone_6", "stone_7", "stone_8", "stone_9"},
		{"bassin_1", "bassin_2", "cascade_1", "cascade_2", "", "", "", "", ""},
	}
}
