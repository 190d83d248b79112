// Package trackmap projects raw telemetry coordinates into a fixed
// square drawing surface. The projection uses one uniform scale factor
// for both axes, so the rendered track keeps its aspect ratio.
package trackmap

import (
	"errors"
	"fmt"
	"strings"

	"github.com/demirmelih/f1-race-strategist/pkg/model"
)

var ErrNoSamples = errors.New("telemetry sequence is empty")

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Normalization holds the scale/offset parameters derived once per
// telemetry sequence. Outline and marker must be projected with the
// same instance, otherwise they drift apart.
type Normalization struct {
	MinX    float64 `json:"minX"`
	MinY    float64 `json:"minY"`
	Scale   float64 `json:"scale"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
}

// ComputeNormalization derives the projection parameters for a square
// surface with the given side length and padding. Every projected
// coordinate ends up within [padding, side-padding] on both axes.
//
//nolint:cyclop // bounds scan
func ComputeNormalization(
	samples []model.TelemetrySample,
	side, padding float64,
) (*Normalization, error) {
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}
	if padding < 0 || padding >= side/2 {
		return nil, fmt.Errorf("invalid padding %v for side %v", padding, side)
	}

	minX, maxX := samples[0].X, samples[0].X
	minY, maxY := samples[0].Y, samples[0].Y
	for i := range samples {
		if samples[i].X < minX {
			minX = samples[i].X
		}
		if samples[i].X > maxX {
			maxX = samples[i].X
		}
		if samples[i].Y < minY {
			minY = samples[i].Y
		}
		if samples[i].Y > maxY {
			maxY = samples[i].Y
		}
	}

	// a zero range (single point or straight line) would divide by zero
	rangeX := maxX - minX
	if rangeX == 0 {
		rangeX = 1
	}
	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	maxRange := rangeX
	if rangeY > maxRange {
		maxRange = rangeY
	}

	drawable := side - 2*padding
	scale := drawable / maxRange
	return &Normalization{
		MinX:    minX,
		MinY:    minY,
		Scale:   scale,
		OffsetX: padding + (drawable-rangeX*scale)/2,
		OffsetY: padding + (drawable-rangeY*scale)/2,
	}, nil
}

func (n *Normalization) Project(x, y float64) Point {
	return Point{
		X: (x-n.MinX)*n.Scale + n.OffsetX,
		Y: (y-n.MinY)*n.Scale + n.OffsetY,
	}
}

func (n *Normalization) ProjectSample(s *model.TelemetrySample) Point {
	return n.Project(s.X, s.Y)
}

// OutlinePath returns the full track polyline in surface coordinates,
// one point per sample in recording order.
func (n *Normalization) OutlinePath(samples []model.TelemetrySample) []Point {
	ret := make([]Point, len(samples))
	for i := range samples {
		ret[i] = n.Project(samples[i].X, samples[i].Y)
	}
	return ret
}

// SVGPath renders the polyline as an SVG path ("M x y L x y ...") for
// the browser view. No smoothing, one segment per sample.
func SVGPath(points []Point) string {
	if len(points) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "M %.2f %.2f", points[0].X, points[0].Y)
	for _, p := range points[1:] {
		fmt.Fprintf(&b, " L %.2f %.2f", p.X, p.Y)
	}
	return b.String()
}
