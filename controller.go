package dither

import (
	"math"
	"sync"
	"sync/atomic"
	"time"
)

// ControllerConfig configures the per-frame settings driver.
type ControllerConfig struct {
	// FadeRate is how much pulse intensity decays per second.
	FadeRate float32

	// Frequency is the oscillation frequency in Hz.
	Frequency float64
}

// DefaultControllerConfig returns the configuration used by the demo: a full
// pulse fades out in two seconds and the oscillation cycles at 1.5 Hz.
func DefaultControllerConfig() ControllerConfig {
	return ControllerConfig{
		FadeRate:  0.5,
		Frequency: 1.5,
	}
}

// healthBands maps a health fraction to the oscillation amplitude. The first
// matching band wins.
var healthBands = []struct {
	max       float32
	inclusive bool
	amplitude float32
}{
	{0.2, true, 0.48},
	{0.3, false, 0.25},
	{0.5, false, 0.1},
}

// OscillateForHealth returns the oscillation amplitude for a health fraction
// in [0, 1]: the lower the health, the stronger the effect keeps pulsing.
func OscillateForHealth(health float32) float32 {
	for _, b := range healthBands {
		if health < b.max || (b.inclusive && health == b.max) {
			return b.amplitude
		}
	}
	return 0
}

// Controller owns the Settings for a stream of frames.
//
// Game logic calls Pulse and SetOscillate, the frame loop calls Update once
// per tick, and the renderer calls Snapshot to get the Settings for the next
// frame. Snapshots are published by atomic swap, so a frame in flight keeps
// the value it read even if game logic updates the controller concurrently.
type Controller struct {
	cfg ControllerConfig

	mu        sync.Mutex
	pulse     float32
	oscillate float32
	elapsed   time.Duration

	snap atomic.Pointer[Settings]
}

// NewController creates a controller with zero intensity.
func NewController(cfg ControllerConfig) *Controller {
	c := &Controller{cfg: cfg}
	c.snap.Store(&Settings{})
	return c
}

// Pulse adds amount to the intensity with Settings.AddIntensity, saturating
// at 1.
func (c *Controller) Pulse(amount float32) {
	c.mu.Lock()
	c.pulse = Settings{Intensity: c.pulse}.AddIntensity(amount).Intensity
	c.publishLocked()
	c.mu.Unlock()
}

// SetOscillate sets the oscillation amplitude, clamped to [0, 1].
func (c *Controller) SetOscillate(a float32) {
	c.mu.Lock()
	c.oscillate = clampUnit(a)
	c.publishLocked()
	c.mu.Unlock()
}

// Update advances the controller by dt. The pulse decays by FadeRate per
// second and the published intensity never drops below the oscillation floor
// Oscillate * (0.5 + 0.5*sin(2*pi*Frequency*t)).
func (c *Controller) Update(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	c.mu.Lock()
	c.elapsed += dt
	c.pulse -= c.cfg.FadeRate * float32(dt.Seconds())
	if c.pulse < 0 {
		c.pulse = 0
	}
	c.publishLocked()
	c.mu.Unlock()
}

// Reset clears pulse, oscillation and elapsed time.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.pulse = 0
	c.oscillate = 0
	c.elapsed = 0
	c.publishLocked()
	c.mu.Unlock()
}

// Snapshot returns the Settings for the next frame.
func (c *Controller) Snapshot() Settings {
	return *c.snap.Load()
}

func (c *Controller) floorLocked() float32 {
	if c.oscillate == 0 {
		return 0
	}
	phase := 2 * math.Pi * c.cfg.Frequency * c.elapsed.Seconds()
	return c.oscillate * float32(0.5+0.5*math.Sin(phase))
}

func (c *Controller) publishLocked() {
	s := &Settings{
		Intensity: clampUnit(max(c.pulse, c.floorLocked())),
		Oscillate: c.oscillate,
	}
	c.snap.Store(s)
}
