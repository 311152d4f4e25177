package webview

import (
	"errors"
	"image"
	"log/slog"
	"net/url"
)

// ErrEngineShutdown is returned by engines after Deinit.
var ErrEngineShutdown = errors.New("webview: engine shut down")

// ID identifies a view within one engine.
type ID uint64

type LoadStatus int

const (
	LoadStarted LoadStatus = iota
	LoadHeadParsed
	LoadComplete
)

func (s LoadStatus) String() string {
	switch s {
	case LoadStarted:
		return "started"
	case LoadHeadParsed:
		return "head-parsed"
	case LoadComplete:
		return "complete"
	default:
		return "unknown"
	}
}

type Permission int

const (
	PermissionGeolocation Permission = iota
	PermissionNotifications
	PermissionCamera
	PermissionMicrophone
)

// WebView is one browsable content instance.
type WebView interface {
	ID() ID
	URL() *url.URL
	Focus()
	MoveResize(rect image.Rectangle)
	RaiseToTop(hideOthers bool)
	// Composite paints the view into the rendering context's current
	// framebuffer. The context must be current.
	Composite()
}

// WebViewDelegate receives lifecycle notifications for views.
type WebViewDelegate interface {
	NotifyReadyToShow(v WebView)
	NotifyLoadStatusChanged(v WebView, status LoadStatus)
	// RequestOpenAuxiliaryWebView returns the new view or nil to deny.
	RequestOpenAuxiliaryWebView(parent WebView) WebView
	RequestPermission(v WebView, p Permission) bool
}

// Engine is the browser engine's root object.
type Engine interface {
	NewWebView(target *url.URL, delegate WebViewDelegate) (WebView, error)
	// SpinEventLoop drains pending internal work without blocking. It
	// returns false once the engine wants to shut down.
	SpinEventLoop() bool
	// Present asks the compositor to present a frame if one is pending.
	Present()
	Deinit()
}

// EngineConfig binds an engine to its host.
type EngineConfig struct {
	Rendering RenderingContext
	Window    WindowMethods
	Embedder  EmbedderMethods
	Target    CompositeTarget
	Logger    *slog.Logger
}

// EngineFactory constructs an engine instance.
type EngineFactory func(cfg EngineConfig) (Engine, error)
