package dither

import (
	"errors"
	"log/slog"
	"sync"
	"testing"
)

// mockAccelerator implements GPUAccelerator for testing.
type mockAccelerator struct {
	name      string
	initErr   error
	ditherErr error
	unready   bool
	closed    bool
	calls     int
	provider  any
	logger    *slog.Logger
	mu        sync.Mutex
}

func (m *mockAccelerator) Name() string { return m.name }

func (m *mockAccelerator) Init() error { return m.initErr }

func (m *mockAccelerator) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
}

func (m *mockAccelerator) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *mockAccelerator) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Dither either fails with ditherErr or writes the CPU result so Effect
// output is identical whichever path ran.
func (m *mockAccelerator) Dither(target RenderTarget, s Settings, cs ColorSpace) error {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.ditherErr != nil {
		return m.ditherErr
	}
	pm := &Pixmap{width: target.Width, height: target.Height, data: target.Data}
	ditherRect(pm, pm, 0, 0, pm.width, pm.height, s, cs.codec())
	return nil
}

func (m *mockAccelerator) Ready() bool { return !m.unready }

func (m *mockAccelerator) SetLogger(l *slog.Logger) {
	m.logger = l
}

func (m *mockAccelerator) SetDeviceProvider(p any) error {
	m.provider = p
	return nil
}

// resetAccelerator clears the global accelerator state between tests.
func resetAccelerator() {
	accelMu.Lock()
	accel = nil
	accelMu.Unlock()
}

func TestRegisterAcceleratorNil(t *testing.T) {
	resetAccelerator()

	err := RegisterAccelerator(nil)
	if err == nil {
		t.Fatal("expected error when registering nil accelerator")
	}
	if err.Error() != "dither: accelerator must not be nil" {
		t.Errorf("unexpected error message: %s", err.Error())
	}
	if Accelerator() != nil {
		t.Error("accelerator should remain nil after failed registration")
	}
}

func TestRegisterAcceleratorInitError(t *testing.T) {
	resetAccelerator()

	initErr := errors.New("no adapter")
	mock := &mockAccelerator{name: "failing", initErr: initErr}

	err := RegisterAccelerator(mock)
	if !errors.Is(err, initErr) {
		t.Errorf("expected init error, got: %v", err)
	}
	if Accelerator() != nil {
		t.Error("accelerator should remain nil after Init failure")
	}
}

func TestRegisterAcceleratorReplacesOld(t *testing.T) {
	resetAccelerator()
	t.Cleanup(resetAccelerator)

	first := &mockAccelerator{name: "first"}
	second := &mockAccelerator{name: "second"}

	if err := RegisterAccelerator(first); err != nil {
		t.Fatalf("register first: %v", err)
	}
	if err := RegisterAccelerator(second); err != nil {
		t.Fatalf("register second: %v", err)
	}
	if !first.isClosed() {
		t.Error("first accelerator should be closed after replacement")
	}
	if second.isClosed() {
		t.Error("second accelerator should not be closed")
	}
	if got := Accelerator().Name(); got != "second" {
		t.Errorf("Accelerator().Name() = %q, want %q", got, "second")
	}
}

func TestUnregisterAccelerator(t *testing.T) {
	resetAccelerator()

	mock := &mockAccelerator{name: "gone"}
	if err := RegisterAccelerator(mock); err != nil {
		t.Fatal(err)
	}
	UnregisterAccelerator()
	if Accelerator() != nil {
		t.Error("accelerator should be nil after UnregisterAccelerator")
	}
	if !mock.isClosed() {
		t.Error("unregistered accelerator should be closed")
	}

	// No accelerator: must not panic.
	UnregisterAccelerator()
}

func TestSetAcceleratorDeviceProvider(t *testing.T) {
	resetAccelerator()
	t.Cleanup(resetAccelerator)

	if err := SetAcceleratorDeviceProvider("ignored"); err != nil {
		t.Errorf("no accelerator: got %v, want nil", err)
	}

	mock := &mockAccelerator{name: "shared"}
	if err := RegisterAccelerator(mock); err != nil {
		t.Fatal(err)
	}
	if err := SetAcceleratorDeviceProvider("device"); err != nil {
		t.Fatalf("SetAcceleratorDeviceProvider() = %v", err)
	}
	if mock.provider != "device" {
		t.Errorf("provider = %v, want %q", mock.provider, "device")
	}
}

func TestAcceleratorConcurrentAccess(t *testing.T) {
	resetAccelerator()
	t.Cleanup(resetAccelerator)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = RegisterAccelerator(&mockAccelerator{name: "c"})
		}()
		go func() {
			defer wg.Done()
			if a := Accelerator(); a != nil && a.Name() != "c" {
				t.Errorf("iteration %d: unexpected accelerator %q", i, a.Name())
			}
		}()
	}
	wg.Wait()
}
