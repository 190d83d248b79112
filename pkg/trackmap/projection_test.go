//nolint:funlen //ok for this test code
package trackmap

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/demirmelih/f1-race-strategist/pkg/model"
)

func samplesFromPoints(points [][2]float64) []model.TelemetrySample {
	ret := make([]model.TelemetrySample, len(points))
	for i, p := range points {
		ret[i] = model.TelemetrySample{X: p[0], Y: p[1]}
	}
	return ret
}

func TestComputeNormalization(t *testing.T) {
	type args struct {
		points  [][2]float64
		side    float64
		padding float64
	}
	tests := []struct {
		name    string
		args    args
		wantErr bool
		checks  func(t *testing.T, norm *Normalization)
	}{
		{
			name: "wide_extent_drives_scale",
			args: args{
				// x range 200, y range 100
				points:  [][2]float64{{-100, 0}, {100, 100}},
				side:    1000,
				padding: 40,
			},
			checks: func(t *testing.T, norm *Normalization) {
				t.Helper()
				assert.InDelta(t, (1000.0-80)/200, norm.Scale, 1e-9)
			},
		},
		{
			name: "single_point",
			args: args{
				points:  [][2]float64{{500, 500}},
				side:    1000,
				padding: 40,
			},
			checks: func(t *testing.T, norm *Normalization) {
				t.Helper()
				// zero range falls back to 1, the point maps to the
				// padded origin instead of dividing by zero
				assert.InDelta(t, 920, norm.Scale, 1e-9)
				p := norm.Project(500, 500)
				assert.InDelta(t, 40, p.X, 1e-9)
				assert.InDelta(t, 40, p.Y, 1e-9)
			},
		},
		{
			name:    "empty_sequence",
			args:    args{points: nil, side: 1000, padding: 40},
			wantErr: true,
		},
		{
			name: "negative_padding",
			args: args{
				points:  [][2]float64{{0, 0}, {1, 1}},
				side:    1000,
				padding: -1,
			},
			wantErr: true,
		},
		{
			name: "padding_consumes_surface",
			args: args{
				points:  [][2]float64{{0, 0}, {1, 1}},
				side:    100,
				padding: 50,
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			norm, err := ComputeNormalization(
				samplesFromPoints(tt.args.points), tt.args.side, tt.args.padding)
			if (err != nil) != tt.wantErr {
				t.Errorf("ComputeNormalization() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.checks != nil {
				tt.checks(t, norm)
			}
		})
	}
}

func TestComputeNormalizationEmptyError(t *testing.T) {
	_, err := ComputeNormalization(nil, 1000, 40)
	assert.True(t, errors.Is(err, ErrNoSamples))
}

// all projected points must stay inside the padded area and the
// aspect ratio of the raw extents must survive the projection.
func TestProjectionGeometry(t *testing.T) {
	samples := samplesFromPoints([][2]float64{
		{-300, -50}, {120, 75}, {500, 0}, {-120, 100}, {0, -20},
	})
	side, padding := 1000.0, 40.0
	norm, err := ComputeNormalization(samples, side, padding)
	assert.NoError(t, err)

	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for i := range samples {
		p := norm.ProjectSample(&samples[i])
		assert.GreaterOrEqual(t, p.X, padding)
		assert.LessOrEqual(t, p.X, side-padding)
		assert.GreaterOrEqual(t, p.Y, padding)
		assert.LessOrEqual(t, p.Y, side-padding)
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	// raw extents: x 800, y 150
	assert.InDelta(t, 800.0/150.0, (maxX-minX)/(maxY-minY), 1e-9)
	// x is the larger extent and must fill the drawable area
	assert.InDelta(t, side-2*padding, maxX-minX, 1e-9)
	// the smaller extent is centered
	assert.InDelta(t, (side-(maxY-minY))/2, minY, 1e-9)
}

func TestOutlinePath(t *testing.T) {
	samples := samplesFromPoints([][2]float64{{0, 0}, {100, 0}, {100, 100}})
	norm, err := ComputeNormalization(samples, 1000, 40)
	assert.NoError(t, err)
	outline := norm.OutlinePath(samples)
	assert.Len(t, outline, len(samples))
	for i := range samples {
		assert.Equal(t, norm.ProjectSample(&samples[i]), outline[i])
	}
}

func TestSVGPath(t *testing.T) {
	tests := []struct {
		name   string
		points []Point
		want   string
	}{
		{name: "empty", points: nil, want: ""},
		{name: "single", points: []Point{{X: 1, Y: 2}}, want: "M 1.00 2.00"},
		{
			name:   "polyline",
			points: []Point{{X: 1, Y: 2}, {X: 3.456, Y: 7.891}},
			want:   "M 1.00 2.00 L 3.46 7.89",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SVGPath(tt.points))
		})
	}
}
