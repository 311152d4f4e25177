// Package demo is a minimal engine behind the webview contracts. It "loads"
// a target on a worker goroutine, reports ready-to-show through the delegate
// and paints a placeholder frame.
package demo

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/hubastard/grove-webview/engine/colors"
	glbackend "github.com/hubastard/grove-webview/engine/gfx/gl"
	"github.com/hubastard/grove-webview/engine/webview"
)

// Painter draws a frame into a framebuffer of the current context.
type Painter interface {
	Init(fns glbackend.Functions) error
	Paint(fbo uint32, viewport image.Rectangle, clear colors.Color)
	Release()
}

type Option func(*options)

type options struct {
	painter   Painter
	loadDelay time.Duration
	clear     colors.Color
}

// WithPainter sets the painter used to composite views. Without one, views
// composite nothing.
func WithPainter(p Painter) Option { return func(o *options) { o.painter = p } }

// WithLoadDelay sets how long a simulated page load takes.
func WithLoadDelay(d time.Duration) Option { return func(o *options) { o.loadDelay = d } }

func WithClearColor(c colors.Color) Option { return func(o *options) { o.clear = c } }

type msgKind int

const (
	msgHeadParsed msgKind = iota
	msgLoaded
)

type message struct {
	kind msgKind
	view webview.ID
}

// Engine implements webview.Engine. All methods except the worker side run
// on the host thread.
type Engine struct {
	cfg   webview.EngineConfig
	opts  options
	log   *slog.Logger
	waker webview.EventLoopWaker

	inbox chan message
	stop  chan struct{}
	wg    sync.WaitGroup

	views  map[webview.ID]*View
	nextID webview.ID
	dirty  bool
	closed bool
}

var _ webview.Engine = (*Engine)(nil)

// New returns a factory for demo engines.
func New(opts ...Option) webview.EngineFactory {
	o := options{loadDelay: 50 * time.Millisecond, clear: colors.DarkGray}
	for _, opt := range opts {
		opt(&o)
	}
	return func(cfg webview.EngineConfig) (webview.Engine, error) {
		return newEngine(cfg, o)
	}
}

func newEngine(cfg webview.EngineConfig, o options) (*Engine, error) {
	if cfg.Rendering == nil || cfg.Window == nil || cfg.Embedder == nil {
		return nil, errors.New("demo: incomplete engine config")
	}
	if cfg.Target != webview.CompositeTargetContextFBO {
		return nil, fmt.Errorf("demo: unsupported composite target %d", cfg.Target)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	e := &Engine{
		cfg:   cfg,
		opts:  o,
		log:   logger.With(slog.String("engine", "demo")),
		waker: cfg.Embedder.CreateEventLoopWaker(),
		inbox: make(chan message, 64),
		stop:  make(chan struct{}),
		views: map[webview.ID]*View{},
	}

	if o.painter != nil {
		if err := cfg.Rendering.MakeCurrent(); err != nil {
			return nil, fmt.Errorf("demo: activate context: %w", err)
		}
		if err := o.painter.Init(cfg.Rendering.GLAPI()); err != nil {
			return nil, fmt.Errorf("demo: init painter: %w", err)
		}
	}

	e.log.Info("Engine started", slog.String("gl", cfg.Rendering.GLVersion().String()))
	return e, nil
}

// NewWebView starts loading target on a worker.
func (e *Engine) NewWebView(target *url.URL, delegate webview.WebViewDelegate) (webview.WebView, error) {
	if e.closed {
		return nil, webview.ErrEngineShutdown
	}
	if target == nil {
		return nil, errors.New("demo: nil target")
	}

	e.nextID++
	v := &View{engine: e, id: e.nextID, url: target, delegate: delegate}
	e.views[v.id] = v
	delegate.NotifyLoadStatusChanged(v, webview.LoadStarted)
	e.cfg.Window.SetAnimationState(webview.AnimationAnimating)

	e.wg.Add(1)
	go e.load(v.id, e.waker.Clone())
	return v, nil
}

// load runs off the host thread and talks back only through the inbox and
// the waker.
func (e *Engine) load(id webview.ID, waker webview.EventLoopWaker) {
	defer e.wg.Done()

	for _, kind := range []msgKind{msgHeadParsed, msgLoaded} {
		select {
		case <-time.After(e.opts.loadDelay / 2):
		case <-e.stop:
			return
		}
		select {
		case e.inbox <- message{kind: kind, view: id}:
		case <-e.stop:
			return
		}
		waker.Wake()
	}
}

// SpinEventLoop handles every message queued so far without waiting for more.
func (e *Engine) SpinEventLoop() bool {
	if e.closed {
		return false
	}
	for {
		select {
		case msg := <-e.inbox:
			e.handle(msg)
		default:
			return true
		}
	}
}

func (e *Engine) handle(msg message) {
	v, ok := e.views[msg.view]
	if !ok {
		return
	}
	switch msg.kind {
	case msgHeadParsed:
		v.status = webview.LoadHeadParsed
		v.delegate.NotifyLoadStatusChanged(v, webview.LoadHeadParsed)
	case msgLoaded:
		v.status = webview.LoadComplete
		v.delegate.NotifyLoadStatusChanged(v, webview.LoadComplete)
		e.cfg.Window.SetAnimationState(webview.AnimationIdle)
		v.delegate.NotifyReadyToShow(v)
		e.dirty = true
	}
}

// Present asks the host for a redraw only when something changed.
func (e *Engine) Present() {
	if e.closed || !e.dirty {
		return
	}
	e.dirty = false
	e.cfg.Rendering.Present()
}

// Deinit stops the workers, then activates the rendering context one last
// time to release the painter's GPU objects. The embedder must call it while
// the context can still be made current; if activation fails the objects are
// left to the context's destruction.
func (e *Engine) Deinit() {
	if e.closed {
		return
	}
	e.closed = true
	close(e.stop)
	e.wg.Wait()

	if e.opts.painter != nil {
		if err := e.cfg.Rendering.MakeCurrent(); err == nil {
			e.opts.painter.Release()
		}
	}
	e.log.Info("Engine stopped", slog.Int("views", len(e.views)))
}

func (e *Engine) invalidate() { e.dirty = true }
