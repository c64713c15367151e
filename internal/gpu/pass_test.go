//go:build !nogpu

package gpu

import (
	"testing"

	"github.com/fortressfx/dither"
	"github.com/gogpu/gputypes"
)

func TestPassPipelineCreation(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	p, err := NewPassPipeline(device, queue, gputypes.TextureFormatBGRA8Unorm)
	if err != nil {
		t.Fatalf("NewPassPipeline() = %v", err)
	}
	defer p.Destroy()

	if p.Layout() == nil {
		t.Error("expected non-nil bind group layout")
	}
	if p.Sampler() == nil {
		t.Error("expected non-nil sampler")
	}
	if p.pipeline == nil || p.uniformBuf == nil {
		t.Error("expected pipeline and uniform buffer")
	}
	if p.Format() != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("Format() = %v", p.Format())
	}

	entry := p.UniformEntry()
	if entry.Binding != 0 {
		t.Errorf("uniform binding = %d, want 0", entry.Binding)
	}

	// Uploads must not panic on a live pipeline.
	p.SetSettings(dither.Settings{Intensity: 0.5, Oscillate: 0.1})
}

func TestPassPipelineDestroy(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	p, err := NewPassPipeline(device, queue, gputypes.TextureFormatRGBA8Unorm)
	if err != nil {
		t.Fatal(err)
	}
	p.Destroy()

	if p.pipeline != nil || p.sampler != nil || p.bindLayout != nil || p.shader != nil || p.uniformBuf != nil {
		t.Error("Destroy should release every resource")
	}

	// Second Destroy is a no-op.
	p.Destroy()
}
