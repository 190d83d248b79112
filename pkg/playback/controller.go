// Package playback drives a scrubable, auto-advancing cursor over an
// ordered telemetry sequence. The current sample index is the single
// source of truth; marker position, progress and readout are derived
// from it on every change.
package playback

import (
	"sync"
	"time"

	"github.com/demirmelih/f1-race-strategist/pkg/model"
	"github.com/demirmelih/f1-race-strategist/pkg/trackmap"
	"github.com/demirmelih/f1-race-strategist/pkg/utils/broadcast"
)

// DefaultTickInterval is the fixed cadence of cursor advancement.
// Playback speed is constant ticks-per-sample, deliberately decoupled
// from the recorded timestamps.
const DefaultTickInterval = 30 * time.Millisecond

type Controller struct {
	mu      sync.Mutex
	samples []model.TelemetrySample
	norm    *trackmap.Normalization
	colors  *trackmap.SpeedScale
	outline []trackmap.Point

	idx     int
	playing bool
	// handle is non-nil exactly while playing
	handle TickHandle
	closed bool

	scheduler  Scheduler
	interval   time.Duration
	scaleOpts  []trackmap.SpeedScaleOption
	sessionKey string

	frames chan Frame
	bcst   broadcast.BroadcastServer[Frame]
}

type Option func(*Controller)

func WithScheduler(s Scheduler) Option {
	return func(c *Controller) {
		c.scheduler = s
	}
}

func WithTickInterval(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.interval = d
		}
	}
}

func WithSpeedColors(lowHex, highHex string) Option {
	return func(c *Controller) {
		c.scaleOpts = append(c.scaleOpts, trackmap.WithGradient(lowHex, highHex))
	}
}

// WithSessionKey tags the frame broadcaster metrics.
func WithSessionKey(key string) Option {
	return func(c *Controller) {
		c.sessionKey = key
	}
}

// NewController computes the normalization once for the given sequence
// and surface. An empty sequence is allowed; it disables all
// operations and renders no track.
func NewController(
	samples []model.TelemetrySample,
	side, padding float64,
	opts ...Option,
) (*Controller, error) {
	c := &Controller{
		samples:   samples,
		scheduler: NewTickerScheduler(),
		interval:  DefaultTickInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	if len(samples) > 0 {
		norm, err := trackmap.ComputeNormalization(samples, side, padding)
		if err != nil {
			return nil, err
		}
		c.norm = norm
		c.outline = norm.OutlinePath(samples)
		c.colors = trackmap.NewSpeedScale(samples, c.scaleOpts...)
	}
	c.frames = make(chan Frame, 32)
	c.bcst = broadcast.NewBroadcastServer("frames", c.frames,
		broadcast.WithSessionKey[Frame](c.sessionKey))
	return c, nil
}

// Play starts the repeating tick. Starting at the last index restarts
// from the beginning. No-op while already playing or when the
// sequence is empty.
func (c *Controller) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.playing || len(c.samples) == 0 {
		return
	}
	if c.idx == len(c.samples)-1 {
		c.idx = 0
	}
	c.playing = true
	c.handle = c.scheduler.Start(c.interval, c.tick)
	c.publishLocked()
}

// Pause cancels the tick and keeps the cursor in place. Idempotent.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.playing {
		return
	}
	c.stopTimerLocked()
	c.playing = false
	c.publishLocked()
}

// Seek moves the cursor to the clamped index. Scrubbing always
// implicitly pauses.
func (c *Controller) Seek(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || len(c.samples) == 0 {
		return
	}
	c.stopTimerLocked()
	c.playing = false
	if index < 0 {
		index = 0
	}
	if index > len(c.samples)-1 {
		index = len(c.samples) - 1
	}
	c.idx = index
	c.publishLocked()
}

func (c *Controller) TogglePlayPause() {
	c.mu.Lock()
	playing := c.playing
	c.mu.Unlock()
	if playing {
		c.Pause()
	} else {
		c.Play()
	}
}

// Close releases the timer and the frame broadcaster. The controller
// must not be used afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.stopTimerLocked()
	c.playing = false
	c.closed = true
	c.mu.Unlock()
	c.bcst.Close()
}

func (c *Controller) tick() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.playing {
		// a tick may still be in flight right after a stop
		return
	}
	if c.idx >= len(c.samples)-1 {
		// terminal condition: stay at the last sample, release the timer
		c.stopTimerLocked()
		c.playing = false
		c.publishLocked()
		return
	}
	c.idx++
	c.publishLocked()
}

func (c *Controller) stopTimerLocked() {
	if c.handle != nil {
		c.handle.Stop()
		c.handle = nil
	}
}

func (c *Controller) publishLocked() {
	frame := buildFrame(c.samples, c.norm, c.colors, c.idx, c.playing)
	// never block the state transition on slow consumers
	select {
	case c.frames <- frame:
	default:
	}
}

func (c *Controller) CurrentIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.idx
}

func (c *Controller) IsPlaying() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing
}

func (c *Controller) Len() int { return len(c.samples) }

// Normalization returns the parameters shared by outline and marker.
func (c *Controller) Normalization() *trackmap.Normalization { return c.norm }

// Outline returns the projected track polyline.
func (c *Controller) Outline() []trackmap.Point { return c.outline }

// Frame derives the current render values from the playback state.
func (c *Controller) Frame() Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.samples) == 0 {
		return Frame{}
	}
	return buildFrame(c.samples, c.norm, c.colors, c.idx, c.playing)
}

// Subscribe returns a channel receiving a Frame on every state change.
func (c *Controller) Subscribe() <-chan Frame {
	return c.bcst.Subscribe()
}

func (c *Controller) CancelSubscription(ch <-chan Frame) {
	c.bcst.CancelSubscription(ch)
}
