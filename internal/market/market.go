// Package market supplies the outside-world pressures on a night's trade:
// a smooth deterministic week-over-week demand curve, and the nightly
// weather roll.
package market

import (
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/last-orders/internal/entropy"
)

const (
	pressureSpan  = 0.10
	pressureScale = 0.35
)

// Curve is the weekly market-pressure source. It is rebuilt from the game
// seed and never stored; the same seed always yields the same curve.
type Curve struct {
	noise opensimplex.Noise
}

// NewCurve builds the pressure curve for a seed.
func NewCurve(seed int64) *Curve {
	return &Curve{noise: opensimplex.NewNormalized(seed)}
}

// PressureForWeek returns the demand multiplier for a week, in [0.9, 1.1].
// Adjacent weeks drift smoothly rather than jumping.
func (c *Curve) PressureForWeek(week int) float64 {
	v := c.noise.Eval2(float64(week)*pressureScale, 0.5)
	return 1.0 - pressureSpan + v*2.0*pressureSpan
}

// Weather is one night's conditions.
type Weather struct {
	Kind             string  `json:"kind"`
	TrafficFactor    float64 `json:"traffic_factor"`
	MarshallRequired bool    `json:"marshall_required"`
}

// RollWeather draws tonight's weather. Storms keep punters home and want a
// marshall on the door.
func RollWeather(rng entropy.Source) Weather {
	roll := rng.Float()
	switch {
	case roll < 0.60:
		return Weather{Kind: "clear", TrafficFactor: 1.0}
	case roll < 0.90:
		return Weather{Kind: "rain", TrafficFactor: 0.85}
	default:
		return Weather{Kind: "storm", TrafficFactor: 0.60, MarshallRequired: true}
	}
}
