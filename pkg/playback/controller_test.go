//nolint:funlen //ok for this test code
package playback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/demirmelih/f1-race-strategist/pkg/model"
)

// fakeScheduler hands out handles whose ticks are fired manually.
type fakeScheduler struct {
	tick    func()
	started int
	stopped int
}

type fakeHandle struct {
	s *fakeScheduler
}

func (h *fakeHandle) Stop() {
	h.s.tick = nil
	h.s.stopped++
}

func (s *fakeScheduler) Start(_ time.Duration, tick func()) TickHandle {
	s.tick = tick
	s.started++
	return &fakeHandle{s: s}
}

func (s *fakeScheduler) fire() {
	if s.tick != nil {
		s.tick()
	}
}

func (s *fakeScheduler) armed() bool { return s.tick != nil }

func testSamples(n int) []model.TelemetrySample {
	ret := make([]model.TelemetrySample, n)
	for i := range ret {
		ret[i] = model.TelemetrySample{
			Time:  float64(i * 100),
			Speed: float64(100 + i),
			X:     float64(i),
			Y:     float64(i * 2),
		}
	}
	return ret
}

func newTestController(t *testing.T, n int) (*Controller, *fakeScheduler) {
	t.Helper()
	fs := &fakeScheduler{}
	ctrl, err := NewController(testSamples(n), 1000, 40, WithScheduler(fs))
	assert.NoError(t, err)
	t.Cleanup(ctrl.Close)
	return ctrl, fs
}

func TestControllerAdvances(t *testing.T) {
	ctrl, fs := newTestController(t, 10)

	ctrl.Play()
	assert.True(t, ctrl.IsPlaying())
	assert.True(t, fs.armed())

	for i := 1; i <= 3; i++ {
		fs.fire()
		assert.Equal(t, i, ctrl.CurrentIndex())
	}
}

func TestControllerAutoStopsAtEnd(t *testing.T) {
	ctrl, fs := newTestController(t, 3)

	ctrl.Play()
	fs.fire() // 1
	fs.fire() // 2, last index
	assert.Equal(t, 2, ctrl.CurrentIndex())
	assert.True(t, ctrl.IsPlaying())

	// the tick that would overshoot releases the timer instead
	fs.fire()
	assert.Equal(t, 2, ctrl.CurrentIndex())
	assert.False(t, ctrl.IsPlaying())
	assert.False(t, fs.armed())

	// a late tick after the stop must not move the cursor
	fs.fire()
	assert.Equal(t, 2, ctrl.CurrentIndex())
}

func TestControllerRestartsFromEnd(t *testing.T) {
	ctrl, fs := newTestController(t, 3)

	ctrl.Seek(2)
	ctrl.Play()
	assert.Equal(t, 0, ctrl.CurrentIndex())
	assert.True(t, ctrl.IsPlaying())
	fs.fire()
	assert.Equal(t, 1, ctrl.CurrentIndex())
}

func TestControllerPlayWhilePlaying(t *testing.T) {
	ctrl, fs := newTestController(t, 10)

	ctrl.Play()
	ctrl.Play()
	assert.Equal(t, 1, fs.started)
}

func TestControllerPause(t *testing.T) {
	ctrl, fs := newTestController(t, 10)

	ctrl.Play()
	fs.fire()
	ctrl.Pause()
	assert.False(t, ctrl.IsPlaying())
	assert.False(t, fs.armed())
	assert.Equal(t, 1, ctrl.CurrentIndex())

	// idempotent
	ctrl.Pause()
	assert.Equal(t, 1, fs.stopped)
}

func TestControllerSeek(t *testing.T) {
	ctrl, fs := newTestController(t, 10)

	tests := []struct {
		name   string
		target int
		want   int
	}{
		{name: "in_range", target: 5, want: 5},
		{name: "clamp_low", target: -5, want: 0},
		{name: "clamp_high", target: 999, want: 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl.Seek(tt.target)
			assert.Equal(t, tt.want, ctrl.CurrentIndex())
		})
	}

	// scrubbing while playing pauses
	ctrl.Seek(0)
	ctrl.Play()
	ctrl.Seek(4)
	assert.False(t, ctrl.IsPlaying())
	assert.False(t, fs.armed())
	assert.Equal(t, 4, ctrl.CurrentIndex())
}

func TestControllerToggle(t *testing.T) {
	ctrl, _ := newTestController(t, 10)

	ctrl.TogglePlayPause()
	assert.True(t, ctrl.IsPlaying())
	ctrl.TogglePlayPause()
	assert.False(t, ctrl.IsPlaying())
}

func TestControllerEmptySequence(t *testing.T) {
	ctrl, fs := newTestController(t, 0)

	ctrl.Play()
	assert.False(t, ctrl.IsPlaying())
	assert.Equal(t, 0, fs.started)
	ctrl.Seek(5)
	assert.Equal(t, 0, ctrl.CurrentIndex())
	assert.Equal(t, Frame{}, ctrl.Frame())
}

func TestControllerClose(t *testing.T) {
	fs := &fakeScheduler{}
	ctrl, err := NewController(testSamples(5), 1000, 40, WithScheduler(fs))
	assert.NoError(t, err)

	ctrl.Play()
	ctrl.Close()
	assert.False(t, ctrl.IsPlaying())
	assert.False(t, fs.armed())

	// all operations are inert afterwards
	ctrl.Play()
	assert.False(t, ctrl.IsPlaying())
	ctrl.Close()
}

func TestControllerFrameValues(t *testing.T) {
	ctrl, _ := newTestController(t, 5)

	ctrl.Seek(2)
	frame := ctrl.Frame()
	assert.Equal(t, 2, frame.Index)
	assert.Equal(t, 5, frame.Total)
	assert.False(t, frame.Playing)
	assert.InDelta(t, 0.5, frame.Progress, 1e-9)
	assert.Equal(t, ctrl.Outline()[2], frame.Marker)
	assert.Equal(t, 102, frame.Readout.Speed)
}

func TestControllerSubscribe(t *testing.T) {
	ctrl, fs := newTestController(t, 5)

	frames := ctrl.Subscribe()
	defer ctrl.CancelSubscription(frames)

	ctrl.Play()
	fs.fire()

	deadline := time.After(2 * time.Second)
	got := []Frame{}
	for len(got) < 2 {
		select {
		case f := <-frames:
			got = append(got, f)
		case <-deadline:
			t.Fatal("timed out waiting for frames")
		}
	}
	assert.Equal(t, 0, got[0].Index)
	assert.True(t, got[0].Playing)
	assert.Equal(t, 1, got[1].Index)
}

func TestTickerScheduler(t *testing.T) {
	s := NewTickerScheduler()
	ticks := make(chan struct{}, 10)
	handle := s.Start(time.Millisecond, func() {
		select {
		case ticks <- struct{}{}:
		default:
		}
	})
	defer handle.Stop()

	select {
	case <-ticks:
	case <-time.After(2 * time.Second):
		t.Fatal("no tick received")
	}
}
