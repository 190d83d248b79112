package trackmap

import (
	"fmt"
	"math"

	"github.com/demirmelih/f1-race-strategist/pkg/model"
)

// default gradient: blue (slow) to red (fast)
const (
	DefaultLowColor  = "#3b82f6"
	DefaultHighColor = "#ef4444"
)

type rgb struct {
	r, g, b uint8
}

func parseHexColor(s string) (rgb, error) {
	var c rgb
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &c.r, &c.g, &c.b); err != nil {
		return rgb{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return c, nil
}

// SpeedScale maps a speed value onto a two-color gradient spanning the
// min/max speed of the whole sequence.
type SpeedScale struct {
	minSpeed float64
	maxSpeed float64
	low      rgb
	high     rgb
}

type SpeedScaleOption func(*SpeedScale)

func WithGradient(lowHex, highHex string) SpeedScaleOption {
	return func(s *SpeedScale) {
		if low, err := parseHexColor(lowHex); err == nil {
			s.low = low
		}
		if high, err := parseHexColor(highHex); err == nil {
			s.high = high
		}
	}
}

func NewSpeedScale(samples []model.TelemetrySample, opts ...SpeedScaleOption) *SpeedScale {
	ret := &SpeedScale{}
	ret.low, _ = parseHexColor(DefaultLowColor)
	ret.high, _ = parseHexColor(DefaultHighColor)
	if len(samples) > 0 {
		ret.minSpeed, ret.maxSpeed = samples[0].Speed, samples[0].Speed
		for i := range samples {
			ret.minSpeed = math.Min(ret.minSpeed, samples[i].Speed)
			ret.maxSpeed = math.Max(ret.maxSpeed, samples[i].Speed)
		}
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// ColorAt returns the gradient color for a speed as "#rrggbb".
// When all samples share one speed the gradient start color is used.
func (s *SpeedScale) ColorAt(speed float64) string {
	t := 0.0
	if s.maxSpeed > s.minSpeed {
		t = (speed - s.minSpeed) / (s.maxSpeed - s.minSpeed)
		t = math.Max(0, math.Min(1, t))
	}
	lerp := func(a, b uint8) uint8 {
		return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
	}
	return fmt.Sprintf("#%02x%02x%02x",
		lerp(s.low.r, s.high.r),
		lerp(s.low.g, s.high.g),
		lerp(s.low.b, s.high.b))
}
