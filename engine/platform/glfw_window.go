package platform

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/hubastard/grove-webview/engine/core"
)

var errWindowDestroyed = errors.New("platform: window destroyed")

// GLFWSurface implements core.Surface and core.EventSource on a GLFW window.
// The window stays hidden until Show so that nothing appears before the
// embedder is bound.
type GLFWSurface struct {
	w       *glfw.Window
	cfg     core.Config
	signals core.Signals

	realized  bool
	destroyed bool
	queued    bool
	closing   bool

	api          core.GLAPI
	major, minor int
}

var (
	_ core.Surface     = (*GLFWSurface)(nil)
	_ core.EventSource = (*GLFWSurface)(nil)
)

// Must be called on main thread before any GL calls.
func NewGLFWSurface(cfg core.Config) (*GLFWSurface, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("initialize glfw: %w", err)
	}

	if cfg.GLES {
		glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLESAPI)
		glfw.WindowHint(glfw.ContextCreationAPI, glfw.EGLContextAPI)
	} else {
		// GL 3.2+ core profile (Mac requires forward-compatible flag).
		glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLAPI)
		glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
		glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	}
	glfw.WindowHint(glfw.ContextVersionMajor, cfg.GLMajor)
	glfw.WindowHint(glfw.ContextVersionMinor, cfg.GLMinor)
	glfw.WindowHint(glfw.Samples, 0)
	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.ScaleToMonitor, glfw.True)

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}

	g := &GLFWSurface{w: win, cfg: cfg}

	// Callbacks -> translate to core.Event
	// Windows must not be destroyed from their own callbacks; the close is
	// finished once event processing returns.
	win.SetCloseCallback(func(*glfw.Window) {
		g.closing = true
		g.signals.Emit(core.EventCloseRequested{})
	})
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) {
		g.signals.Emit(core.EventResize{W: w, H: h})
		g.QueueRender()
	})
	win.SetRefreshCallback(func(*glfw.Window) { g.QueueRender() })

	return g, nil
}

// Realize makes the window's context current, reads back what the driver
// negotiated and emits EventRealize.
func (g *GLFWSurface) Realize() error {
	if g.destroyed {
		return errWindowDestroyed
	}
	if g.realized {
		return nil
	}
	g.w.MakeContextCurrent()
	if g.cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	g.api = core.APIGL
	if g.w.GetAttrib(glfw.ClientAPI) == glfw.OpenGLESAPI {
		g.api = core.APIGLES
	}
	g.major = g.w.GetAttrib(glfw.ContextVersionMajor)
	g.minor = g.w.GetAttrib(glfw.ContextVersionMinor)
	g.realized = true

	slog.Debug("Surface realized",
		slog.String("api", g.api.String()),
		slog.Int("major", g.major),
		slog.Int("minor", g.minor),
	)
	g.signals.Emit(core.EventRealize{})
	return nil
}

// Show maps the window and queues the first render.
func (g *GLFWSurface) Show() {
	if g.destroyed {
		return
	}
	g.w.Show()
	g.QueueRender()
}

// Destroy emits EventDestroy while the context still exists, then destroys
// the window.
func (g *GLFWSurface) Destroy() {
	if g.destroyed {
		return
	}
	g.signals.Emit(core.EventDestroy{})
	g.destroyed = true
	g.realized = false
	g.w.Destroy()
}

func (g *GLFWSurface) Destroyed() bool { return g.destroyed }

// Terminate releases GLFW. Call last, on the main thread.
func (g *GLFWSurface) Terminate() {
	g.Destroy()
	glfw.Terminate()
}

// core.Surface impl
func (g *GLFWSurface) Connect(kind core.EventKind, h core.Handler) { g.signals.Connect(kind, h) }
func (g *GLFWSurface) Realized() bool                              { return g.realized }
func (g *GLFWSurface) API() core.GLAPI                             { return g.api }
func (g *GLFWSurface) ContextVersion() (int, int)                  { return g.major, g.minor }

func (g *GLFWSurface) MakeCurrent() error {
	if g.destroyed {
		return errWindowDestroyed
	}
	g.w.MakeContextCurrent()
	return nil
}

func (g *GLFWSurface) QueueRender() {
	if g.destroyed {
		return
	}
	g.queued = true
}

func (g *GLFWSurface) Size() (int, int) {
	if g.destroyed {
		return 0, 0
	}
	return g.w.GetFramebufferSize()
}

func (g *GLFWSurface) LogicalSize() (int, int) {
	if g.destroyed {
		return 0, 0
	}
	return g.w.GetSize()
}

func (g *GLFWSurface) ScaleFactor() float32 {
	if g.destroyed {
		return 1
	}
	x, _ := g.w.GetContentScale()
	return x
}

// core.EventSource impl
func (g *GLFWSurface) PollEvents() {
	glfw.PollEvents()
	g.finishClose()
}

func (g *GLFWSurface) WaitEvents(timeout time.Duration) {
	if timeout <= 0 {
		glfw.WaitEvents()
	} else {
		glfw.WaitEventsTimeout(timeout.Seconds())
	}
	g.finishClose()
}

func (g *GLFWSurface) finishClose() {
	if g.closing {
		g.closing = false
		g.Destroy()
	}
}

// FlushRender delivers a queued render with the context current and swaps.
func (g *GLFWSurface) FlushRender() {
	if !g.queued || g.destroyed || !g.realized {
		return
	}
	g.queued = false
	g.w.MakeContextCurrent()
	g.signals.Emit(core.EventRender{})
	g.w.SwapBuffers()
}

// Nudge interrupts a blocked WaitEvents. Safe from any goroutine.
func Nudge() { glfw.PostEmptyEvent() }

// ProcAddress resolves GL symbols against the current context.
func ProcAddress(name string) unsafe.Pointer { return glfw.GetProcAddress(name) }
