package config

import "github.com/robmorgan/lumen/profile"

func initializeFixtureProfiles() map[string]profile.Profile {
	out := map[string]profile.Profile{
		"shehds-par": {
			Name: "Shehds LED Flat PAR 12x3W RGBW",
			Channels: map[string]int{
				profile.ChannelTypeIntensity:      1,
				profile.ChannelTypeRed:            2,
				profile.ChannelTypeGreen:          3,
				profile.ChannelTypeBlue:           4,
				profile.ChannelTypeWhite:          5,
				profile.ChannelTypeStrobe:         6,
				profile.ChannelTypeFunctionSelect: 7,
				profile.ChannelTypeUnknown:        8,
			},
		},
		// Pixel drivers on the water features have no dimmer channel.
		"rgb-pixel": {
			Name: "Generic RGB pixel",
			Channels: map[string]int{
				profile.ChannelTypeRed:   1,
				profile.ChannelTypeGreen: 2,
				profile.ChannelTypeBlue:  3,
			},
		},
	}

	return out
}
