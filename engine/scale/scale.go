package scale

import (
	"fmt"

	"github.com/fogleman/ease"
	"github.com/robmorgan/lumen/utils"
)

// Clamp returns a function that maps [rMin,rMax] linearly onto [tMin,tMax]. Results outside the
// target interval are clamped.
func Clamp(rMin, rMax, tMin, tMax float64) func(m float64) float64 {
	return func(m float64) float64 {
		if rMax == rMin {
			return tMin
		}
		v := (m-rMin)/(rMax-rMin)*(tMax-tMin) + tMin
		return utils.Clamp(v, tMin, tMax)
	}
}

// ToUnitClamp returns a function that scales a number from the interval [rMin,rMax]
// to the unit interval ([0,1]), if the result falls outside [0,1], it is clamped
// to 0 or 1.
func ToUnitClamp(rMin, rMax float64) func(m float64) float64 {
	return Clamp(rMin, rMax, 0, 1)
}

// Curves are the response curves a fader can be given.
var Curves = map[string]ease.Function{
	"linear":      ease.Linear,
	"in_quad":     ease.InQuad,
	"out_quad":    ease.OutQuad,
	"in_out_quad": ease.InOutQuad,
	"in_cubic":    ease.InCubic,
	"out_cubic":   ease.OutCubic,
	"in_quart":    ease.InQuart,
}

// Shaped scales [rMin,rMax] to the unit interval and applies the named curve.
func Shaped(rMin, rMax float64, curve string) (func(m float64) float64, error) {
	fn, ok := Curves[curve]
	if !ok {
		return nil, fmt.Errorf("unknown curve %q", curve)
	}
	unit := ToUnitClamp(rMin, rMax)
	return func(m float64) float64 {
		return utils.Clamp(fn(unit(m)), 0, 1)
	}, nil
}
