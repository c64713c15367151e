package dither

import (
	"math"
	"sync"
	"testing"
	"time"
)

func TestOscillateForHealth(t *testing.T) {
	tests := []struct {
		health float32
		want   float32
	}{
		{0, 0.48},
		{0.1, 0.48},
		{0.2, 0.48},
		{0.21, 0.25},
		{0.29, 0.25},
		{0.3, 0.1},
		{0.49, 0.1},
		{0.5, 0},
		{1, 0},
	}
	for _, tt := range tests {
		if got := OscillateForHealth(tt.health); got != tt.want {
			t.Errorf("OscillateForHealth(%v) = %v, want %v", tt.health, got, tt.want)
		}
	}
}

func TestControllerPulseSaturates(t *testing.T) {
	c := NewController(DefaultControllerConfig())
	if got := c.Snapshot(); got != (Settings{}) {
		t.Fatalf("initial snapshot = %+v, want zero", got)
	}

	c.Pulse(0.5)
	if got := c.Snapshot().Intensity; got != 0.5 {
		t.Errorf("after one pulse = %v, want 0.5", got)
	}
	c.Pulse(0.5)
	c.Pulse(0.5)
	if got := c.Snapshot().Intensity; got != 1 {
		t.Errorf("after three pulses = %v, want 1", got)
	}
}

func TestControllerPulseMatchesAddIntensity(t *testing.T) {
	amounts := []float32{0.5, 0.3, -0.9, 2, -5, 0.25, float32(math.NaN()), 0.1}
	c := NewController(DefaultControllerConfig())
	want := Settings{}
	for _, a := range amounts {
		c.Pulse(a)
		want = want.AddIntensity(a)
		if got := c.Snapshot().Intensity; got != want.Intensity {
			t.Fatalf("Pulse(%v): intensity %v, AddIntensity gives %v", a, got, want.Intensity)
		}
	}
}

func TestControllerFadesOut(t *testing.T) {
	c := NewController(ControllerConfig{FadeRate: 0.5, Frequency: 1})
	c.Pulse(1)

	c.Update(time.Second)
	if got := c.Snapshot().Intensity; math.Abs(float64(got-0.5)) > 1e-6 {
		t.Errorf("after 1s = %v, want 0.5", got)
	}
	c.Update(5 * time.Second)
	if got := c.Snapshot().Intensity; got != 0 {
		t.Errorf("after fade = %v, want 0", got)
	}
}

func TestControllerOscillationFloor(t *testing.T) {
	c := NewController(ControllerConfig{FadeRate: 10, Frequency: 1})
	c.SetOscillate(0.48)

	// t = 0.25s: sin(pi/2) = 1, floor = amplitude.
	c.Update(250 * time.Millisecond)
	if got := c.Snapshot(); math.Abs(float64(got.Intensity-0.48)) > 1e-5 || got.Oscillate != 0.48 {
		t.Errorf("at peak = %+v, want intensity 0.48", got)
	}

	// t = 0.75s: sin(3pi/2) = -1, floor = 0.
	c.Update(500 * time.Millisecond)
	if got := c.Snapshot().Intensity; got > 1e-5 {
		t.Errorf("at trough = %v, want 0", got)
	}

	// A pulse above the floor wins.
	c.Pulse(0.9)
	if got := c.Snapshot().Intensity; got < 0.9 {
		t.Errorf("pulse over floor = %v, want >= 0.9", got)
	}
}

func TestControllerFloorStaysInRange(t *testing.T) {
	c := NewController(DefaultControllerConfig())
	c.SetOscillate(2)
	for range 200 {
		c.Update(16 * time.Millisecond)
		s := c.Snapshot()
		if s.Intensity < 0 || s.Intensity > 1 {
			t.Fatalf("intensity %v out of range", s.Intensity)
		}
		if err := s.Validate(); err != nil {
			t.Fatal(err)
		}
	}
}

func TestControllerReset(t *testing.T) {
	c := NewController(DefaultControllerConfig())
	c.Pulse(1)
	c.SetOscillate(0.25)
	c.Update(time.Millisecond)
	c.Reset()
	if got := c.Snapshot(); got != (Settings{}) {
		t.Errorf("after Reset = %+v, want zero", got)
	}
}

func TestControllerNegativeDelta(t *testing.T) {
	c := NewController(DefaultControllerConfig())
	c.Pulse(0.5)
	c.Update(-time.Second)
	if got := c.Snapshot().Intensity; got != 0.5 {
		t.Errorf("negative dt changed intensity to %v", got)
	}
}

func TestControllerConcurrentSnapshot(t *testing.T) {
	c := NewController(DefaultControllerConfig())

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		for range 500 {
			c.Pulse(0.1)
		}
	}()
	go func() {
		defer wg.Done()
		for range 500 {
			c.Update(time.Millisecond)
		}
	}()
	go func() {
		defer wg.Done()
		for range 500 {
			if err := c.Snapshot().Validate(); err != nil {
				t.Error(err)
				return
			}
		}
	}()
	wg.Wait()
}
