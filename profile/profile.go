package profile

const (
	ChannelTypeIntensity = "channel:type:intensity"
	ChannelTypeStrobe    = "channel:type:strobe"

	ChannelTypeRed   = "channel:type:red"
	ChannelTypeGreen = "channel:type:green"
	ChannelTypeBlue  = "channel:type:blue"
	ChannelTypeWhite = "channel:type:white"
	ChannelTypeAmber = "channel:type:amber"
	ChannelTypeUV    = "channel:type:uv"

	ChannelTypeFunctionSelect = "channel:type:function:select"
	ChannelTypeUnknown        = "channel:type:unknown"
)

// Profile holds info for a fixture profile: the DMX offset (1-based) of each channel type.
type Profile struct {
	Name     string         `yaml:"name"`
	Channels map[string]int `yaml:"channels"`
}

// Offset returns the 1-based DMX offset of channelType within the fixture.
func (p Profile) Offset(channelType string) (int, bool) {
	offset, ok := p.Channels[channelType]
	return offset, ok
}

// HasIntensity reports whether the fixture has a dedicated dimmer channel. Fixtures without one
// get their intensity folded into the color channels.
func (p Profile) HasIntensity() bool {
	_, ok := p.Channels[ChannelTypeIntensity]
	return ok
}

// Footprint is the number of DMX channels the fixture occupies.
func (p Profile) Footprint() int {
	max := 0
	for _, offset := range p.Channels {
		if offset > max {
			max = offset
		}
	}
	return max
}
