package bridge

import (
	"fmt"
	"image"
	"io"
	"log/slog"
	"net/url"

	"github.com/hubastard/grove-webview/engine/core"
	glbackend "github.com/hubastard/grove-webview/engine/gfx/gl"
	"github.com/hubastard/grove-webview/engine/webview"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

// fakeSurface stands in for the host toolkit's GL area.
type fakeSurface struct {
	signals core.Signals

	realized       bool
	makeCurrentErr error
	makeCurrent    int

	renderPending bool
	queued        int
	renders       int

	w, h         int
	lw, lh       int
	scale        float32
	api          core.GLAPI
	major, minor int
}

func newFakeSurface(w, h int) *fakeSurface {
	return &fakeSurface{w: w, h: h, lw: w, lh: h, scale: 1, major: 3, minor: 3}
}

func (s *fakeSurface) Connect(kind core.EventKind, h core.Handler) { s.signals.Connect(kind, h) }

func (s *fakeSurface) MakeCurrent() error {
	s.makeCurrent++
	return s.makeCurrentErr
}

func (s *fakeSurface) QueueRender() {
	s.queued++
	s.renderPending = true
}

func (s *fakeSurface) Realized() bool             { return s.realized }
func (s *fakeSurface) API() core.GLAPI            { return s.api }
func (s *fakeSurface) ContextVersion() (int, int) { return s.major, s.minor }
func (s *fakeSurface) Size() (int, int)           { return s.w, s.h }
func (s *fakeSurface) LogicalSize() (int, int)    { return s.lw, s.lh }
func (s *fakeSurface) ScaleFactor() float32       { return s.scale }
func (s *fakeSurface) destroy()                   { s.signals.Emit(core.EventDestroy{}) }

func (s *fakeSurface) resize(w, h int) {
	s.w, s.h = w, h
	s.signals.Emit(core.EventResize{W: w, H: h})
}

func (s *fakeSurface) realize() {
	s.realized = true
	s.signals.Emit(core.EventRealize{})
}

// flush plays the host's paint step: at most one render per call.
func (s *fakeSurface) flush() {
	if !s.renderPending {
		return
	}
	s.renderPending = false
	s.renders++
	s.signals.Emit(core.EventRender{})
}

// recordingGL is a GL table that tracks the framebuffer binding.
type recordingGL struct {
	api   core.GLAPI
	bound int32
	calls []string
}

func (g *recordingGL) API() core.GLAPI { return g.api }

func (g *recordingGL) GetIntegerv(pname uint32, data *int32) {
	g.calls = append(g.calls, fmt.Sprintf("GetIntegerv(%#x)", pname))
	if pname == glbackend.FramebufferBinding {
		*data = g.bound
	}
}

func (g *recordingGL) GetString(name uint32) string {
	g.calls = append(g.calls, fmt.Sprintf("GetString(%#x)", name))
	return "fake"
}

func (g *recordingGL) BindFramebuffer(target, fb uint32) {
	g.calls = append(g.calls, fmt.Sprintf("BindFramebuffer(%#x, %d)", target, fb))
	g.bound = int32(fb)
}

func (g *recordingGL) Viewport(x, y, w, h int32)      { g.calls = append(g.calls, "Viewport") }
func (g *recordingGL) ClearColor(r, gr, b, a float32) { g.calls = append(g.calls, "ClearColor") }
func (g *recordingGL) Clear(mask uint32)              { g.calls = append(g.calls, "Clear") }

type fakeView struct {
	id    webview.ID
	url   *url.URL
	calls []string
}

func (v *fakeView) ID() webview.ID  { return v.id }
func (v *fakeView) URL() *url.URL   { return v.url }
func (v *fakeView) Focus()          { v.calls = append(v.calls, "focus") }
func (v *fakeView) RaiseToTop(bool) { v.calls = append(v.calls, "raise") }
func (v *fakeView) Composite()      { v.calls = append(v.calls, "composite") }
func (v *fakeView) MoveResize(r image.Rectangle) {
	v.calls = append(v.calls, "move-resize "+r.String())
}

func (v *fakeView) count(call string) int {
	n := 0
	for _, c := range v.calls {
		if c == call {
			n++
		}
	}
	return n
}

type fakeEngine struct {
	cfg      webview.EngineConfig
	delegate webview.WebViewDelegate
	views    []*fakeView
	seq      []string
	spins    int
	presents int
	deinit   int
	// deinitErr is what activating the context returned inside Deinit.
	deinitErr error
	shutdown  bool
	viewErr   error
}

func (e *fakeEngine) NewWebView(target *url.URL, d webview.WebViewDelegate) (webview.WebView, error) {
	if e.viewErr != nil {
		return nil, e.viewErr
	}
	e.delegate = d
	v := &fakeView{id: webview.ID(len(e.views) + 1), url: target}
	e.views = append(e.views, v)
	return v, nil
}

func (e *fakeEngine) SpinEventLoop() bool {
	e.spins++
	e.seq = append(e.seq, "spin")
	return !e.shutdown
}

func (e *fakeEngine) Present() {
	e.presents++
	e.seq = append(e.seq, "present")
}

func (e *fakeEngine) Deinit() {
	e.deinit++
	e.deinitErr = e.cfg.Rendering.MakeCurrent()
}

// harness wires a bridge to fakes.
type harness struct {
	surface *fakeSurface
	gl      *recordingGL
	loop    *core.Loop
	engines []*fakeEngine
	loads   int
	loadErr error
	bridge  *Bridge
}

func newHarness(w, h int) *harness {
	hs := &harness{surface: newFakeSurface(w, h), gl: &recordingGL{}, loop: core.NewLoop(0)}
	b, err := New(hs.surface, Options{
		URL: &url.URL{Scheme: "https", Host: "example.org"},
		NewEngine: func(cfg webview.EngineConfig) (webview.Engine, error) {
			e := &fakeEngine{cfg: cfg}
			hs.engines = append(hs.engines, e)
			return e, nil
		},
		LoadGL: func(api core.GLAPI, _ glbackend.ProcAddrFunc) (glbackend.Functions, error) {
			hs.loads++
			if hs.loadErr != nil {
				return nil, hs.loadErr
			}
			hs.gl.api = api
			return hs.gl, nil
		},
		Loop:   hs.loop,
		Logger: quiet,
	})
	if err != nil {
		panic(err)
	}
	hs.bridge = b
	return hs
}

func (hs *harness) engine() *fakeEngine { return hs.engines[0] }

func (hs *harness) view() *fakeView { return hs.engines[0].views[0] }

// tick runs one host-loop iteration followed by the paint step.
func (hs *harness) tick() {
	hs.loop.Iterate()
	hs.surface.flush()
}
