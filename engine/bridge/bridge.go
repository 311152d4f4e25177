// Package bridge embeds a browser engine in a host GL surface: it adapts the
// surface into the engine's rendering context and window, relays engine
// wake-ups into the host loop, and pumps the engine from that loop.
package bridge

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/hubastard/grove-webview/engine/core"
	glbackend "github.com/hubastard/grove-webview/engine/gfx/gl"
	"github.com/hubastard/grove-webview/engine/profiler"
	"github.com/hubastard/grove-webview/engine/webview"
)

var (
	ErrNotRealized      = errors.New("bridge: surface not realized")
	ErrSurfaceDestroyed = errors.New("bridge: surface destroyed")
	ErrAlreadyBound     = errors.New("bridge: already bound")
	ErrPumpInstalled    = errors.New("bridge: pump already installed")
)

// State of the bridge. Transitions only go forward.
type State int

const (
	StateUnrealized State = iota
	StateBound
	StateTornDown
)

func (s State) String() string {
	switch s {
	case StateUnrealized:
		return "unrealized"
	case StateBound:
		return "bound"
	case StateTornDown:
		return "torn-down"
	default:
		return "unknown"
	}
}

type Options struct {
	// URL is the target of the single view. Defaults to about:blank.
	URL       *url.URL
	NewEngine webview.EngineFactory
	LoadGL    glbackend.Loader
	Resolve   glbackend.ProcAddrFunc
	Loop      *core.Loop
	Logger    *slog.Logger
}

// Bridge is the composition root binding one surface to one engine and one
// view.
type Bridge struct {
	surface core.Surface
	opts    Options
	log     *slog.Logger

	state    State
	err      error
	adapter  *Adapter
	engine   webview.Engine
	view     webview.WebView
	delegate *ViewDelegate
	waker    Waker
	pump     *Pump
}

// New connects the bridge to the surface's signals. Binding happens on the
// realize signal, or immediately if the surface is already realized.
func New(surface core.Surface, opts Options) (*Bridge, error) {
	switch {
	case surface == nil:
		return nil, errors.New("bridge: nil surface")
	case opts.NewEngine == nil:
		return nil, errors.New("bridge: no engine factory")
	case opts.LoadGL == nil:
		return nil, errors.New("bridge: no GL loader")
	case opts.Loop == nil:
		return nil, errors.New("bridge: no host loop")
	}
	if opts.URL == nil {
		opts.URL = &url.URL{Scheme: "about", Opaque: "blank"}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	b := &Bridge{surface: surface, opts: opts, log: opts.Logger}
	surface.Connect(core.KindRealize, func(core.Event) { _ = b.bind() })
	surface.Connect(core.KindRender, func(core.Event) { b.render() })
	surface.Connect(core.KindResize, func(ev core.Event) {
		r := ev.(core.EventResize)
		b.log.Debug("Surface resized", slog.Int("width", r.W), slog.Int("height", r.H))
	})
	surface.Connect(core.KindDestroy, func(core.Event) { b.teardown() })

	if surface.Realized() {
		_ = b.bind()
	}
	return b, nil
}

func (b *Bridge) bind() error {
	switch b.state {
	case StateBound:
		b.log.Warn("Surface realized twice, ignoring")
		return ErrAlreadyBound
	case StateTornDown:
		return ErrSurfaceDestroyed
	}

	fns, err := b.opts.LoadGL(b.surface.API(), b.opts.Resolve)
	if err != nil {
		return b.fail(fmt.Errorf("load GL: %w", err))
	}

	adapter := NewAdapter(b.surface, fns, b.log)
	if err := adapter.MakeCurrent(); err != nil {
		b.log.Warn("Context activation failed at bind", slog.Any("err", err))
	}

	delegate := NewViewDelegate(b.surface, b.log)
	b.waker = NewWaker(b.opts.Loop.Post, b.wakeTick)

	engine, err := b.opts.NewEngine(webview.EngineConfig{
		Rendering: adapter,
		Window:    adapter,
		Embedder:  embedder{waker: b.waker},
		Target:    webview.CompositeTargetContextFBO,
		Logger:    b.log,
	})
	if err != nil {
		return b.fail(fmt.Errorf("create engine: %w", err))
	}

	view, err := engine.NewWebView(b.opts.URL, delegate)
	if err != nil {
		engine.Deinit()
		return b.fail(fmt.Errorf("create view: %w", err))
	}

	pump := NewPump(b.opts.Loop, engine, func() bool { return !adapter.Destroyed() }, b.log)
	if err := pump.Install(); err != nil {
		engine.Deinit()
		return b.fail(err)
	}

	b.adapter, b.delegate, b.engine, b.view, b.pump = adapter, delegate, engine, view, pump
	b.state = StateBound
	b.log.Info("Bridge bound",
		slog.String("gl", adapter.GLVersion().String()),
		slog.String("url", b.opts.URL.String()),
	)
	return nil
}

func (b *Bridge) fail(err error) error {
	b.err = err
	b.log.Error("Bridge bind failed", slog.Any("err", err))
	return err
}

func (b *Bridge) wakeTick() {
	if b.pump != nil {
		b.pump.Tick()
	}
}

// render composites the view on the host's render signal. A context that
// cannot be activated skips the frame; the next tick retries.
func (b *Bridge) render() {
	if b.state != StateBound {
		return
	}
	b.adapter.rendered()
	if err := b.adapter.MakeCurrent(); err != nil {
		b.log.Debug("Skipping frame", slog.Any("err", err))
		return
	}
	defer profiler.Start("view.composite")()
	b.view.Composite()
}

func (b *Bridge) teardown() {
	switch b.state {
	case StateTornDown:
		return
	case StateBound:
		// The context is still alive here; the engine gets its last chance
		// to release GPU objects before the adapter goes dead.
		b.engine.Deinit()
		b.adapter.invalidate()
	}
	b.log.Info("Bridge torn down", slog.String("from", b.state.String()))
	b.state = StateTornDown
}

func (b *Bridge) State() State { return b.state }

// Err is the error that prevented binding, if any.
func (b *Bridge) Err() error { return b.err }

func (b *Bridge) Adapter() *Adapter { return b.adapter }

func (b *Bridge) Engine() webview.Engine { return b.engine }

func (b *Bridge) View() webview.WebView { return b.view }

func (b *Bridge) Pump() *Pump { return b.pump }

func (b *Bridge) Delegate() *ViewDelegate { return b.delegate }
