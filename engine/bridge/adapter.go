package bridge

import (
	"fmt"
	"image"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/hubastard/grove-webview/engine/core"
	glbackend "github.com/hubastard/grove-webview/engine/gfx/gl"
	"github.com/hubastard/grove-webview/engine/webview"
)

// Adapter presents a host surface to the engine. One value serves as both
// the engine's rendering context and its window; the engine may hold it from
// several subsystems.
type Adapter struct {
	surface core.Surface
	gl      glbackend.Functions
	log     *slog.Logger

	// mu serialises context activation.
	mu        sync.Mutex
	destroyed atomic.Bool
	queued    atomic.Bool
}

var (
	_ webview.RenderingContext = (*Adapter)(nil)
	_ webview.WindowMethods    = (*Adapter)(nil)
)

// NewAdapter wraps surface. The adapter holds no ownership over it and must
// not outlive it.
func NewAdapter(surface core.Surface, fns glbackend.Functions, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{surface: surface, gl: fns, log: logger}
}

// Resize is a no-op: the host layout owns the surface size.
func (a *Adapter) Resize(image.Point) {}

// Present queues a host redraw. Calls made before the redraw is delivered
// collapse into one.
func (a *Adapter) Present() {
	if a.destroyed.Load() {
		return
	}
	if a.queued.CompareAndSwap(false, true) {
		a.surface.QueueRender()
	}
}

// rendered re-arms Present once the host delivered the queued redraw.
func (a *Adapter) rendered() { a.queued.Store(false) }

// MakeCurrent binds the surface's context to the calling thread. Any other
// context that was current is no longer.
func (a *Adapter) MakeCurrent() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.destroyed.Load() {
		return ErrSurfaceDestroyed
	}
	if !a.surface.Realized() {
		return ErrNotRealized
	}
	if err := a.surface.MakeCurrent(); err != nil {
		return fmt.Errorf("make current: %w", err)
	}
	return nil
}

// FramebufferObject reads the draw framebuffer binding of the current
// context. It returns 0, the default framebuffer, when there is no live context.
func (a *Adapter) FramebufferObject() uint32 {
	if a.destroyed.Load() || !a.surface.Realized() {
		return 0
	}
	var fbo int32
	a.gl.GetIntegerv(glbackend.FramebufferBinding, &fbo)
	if fbo < 0 {
		return 0
	}
	return uint32(fbo)
}

func (a *Adapter) GLAPI() glbackend.Functions { return a.gl }

// GLVersion reports the version the host negotiated, not the one requested.
func (a *Adapter) GLVersion() webview.GLVersion {
	if a.destroyed.Load() || !a.surface.Realized() {
		return webview.GLVersion{API: a.gl.API()}
	}
	major, minor := a.surface.ContextVersion()
	return webview.GLVersion{
		API:   a.surface.API(),
		Major: uint8(major),
		Minor: uint8(minor),
	}
}

func (a *Adapter) SetAnimationState(state webview.AnimationState) {
	a.log.Debug("Animation state ignored", slog.String("state", state.String()))
}

// Destroyed reports whether the surface has been torn down.
func (a *Adapter) Destroyed() bool { return a.destroyed.Load() }

func (a *Adapter) invalidate() {
	a.mu.Lock()
	a.destroyed.Store(true)
	a.mu.Unlock()
}
