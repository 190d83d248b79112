package playback

import (
	"math"
	"strconv"

	"github.com/demirmelih/f1-race-strategist/pkg/model"
	"github.com/demirmelih/f1-race-strategist/pkg/trackmap"
)

// UnknownGear is shown when a sample carries no gear information.
const UnknownGear = "N/A"

// Readout holds the display-ready values of the current sample.
type Readout struct {
	Speed    int    `json:"speed"`
	Gear     string `json:"gear"`
	Color    string `json:"color"`
	Throttle *int   `json:"throttle,omitempty"`
	Brake    *int   `json:"brake,omitempty"`
}

// Frame is everything the rendering layer needs for one state of the
// playback cursor: marker position, progress and the readout panel.
type Frame struct {
	Index    int            `json:"index"`
	Total    int            `json:"total"`
	Playing  bool           `json:"playing"`
	Progress float64        `json:"progress"`
	Marker   trackmap.Point `json:"marker"`
	Readout  Readout        `json:"readout"`
}

// Progress returns the fraction of the sequence covered by index,
// defined as 0 for sequences of length <= 1.
func Progress(index, total int) float64 {
	if total <= 1 {
		return 0
	}
	return float64(index) / float64(total-1)
}

func asPercent(v *float64) *int {
	if v == nil {
		return nil
	}
	pct := int(math.Round(*v * 100))
	return &pct
}

func buildReadout(s *model.TelemetrySample, colors *trackmap.SpeedScale) Readout {
	gear := UnknownGear
	if s.Gear > 0 {
		gear = strconv.Itoa(s.Gear)
	}
	return Readout{
		Speed:    int(math.Round(s.Speed)),
		Gear:     gear,
		Color:    colors.ColorAt(s.Speed),
		Throttle: asPercent(s.Throttle),
		Brake:    asPercent(s.Brake),
	}
}

func buildFrame(
	samples []model.TelemetrySample,
	norm *trackmap.Normalization,
	colors *trackmap.SpeedScale,
	index int,
	playing bool,
) Frame {
	s := &samples[index]
	return Frame{
		Index:    index,
		Total:    len(samples),
		Playing:  playing,
		Progress: Progress(index, len(samples)),
		Marker:   norm.ProjectSample(s),
		Readout:  buildReadout(s, colors),
	}
}
