package demo

import (
	"image"
	"net/url"

	"github.com/hubastard/grove-webview/engine/webview"
)

// View is a demo webview. It paints only once raised.
type View struct {
	engine   *Engine
	id       webview.ID
	url      *url.URL
	delegate webview.WebViewDelegate

	status  webview.LoadStatus
	focused bool
	raised  bool
	rect    image.Rectangle
}

var _ webview.WebView = (*View)(nil)

func (v *View) ID() webview.ID        { return v.id }
func (v *View) URL() *url.URL         { return v.url }
func (v *View) Focused() bool         { return v.focused }
func (v *View) Raised() bool          { return v.raised }
func (v *View) Rect() image.Rectangle { return v.rect }

func (v *View) Status() webview.LoadStatus { return v.status }

func (v *View) Focus() {
	v.focused = true
	v.engine.invalidate()
}

func (v *View) MoveResize(rect image.Rectangle) {
	v.rect = rect
	v.engine.invalidate()
}

func (v *View) RaiseToTop(bool) {
	v.raised = true
	v.engine.invalidate()
}

// Composite paints into the rendering context's current framebuffer using
// the live window geometry.
func (v *View) Composite() {
	e := v.engine
	if e.closed || !v.raised || e.opts.painter == nil {
		return
	}
	coords := e.cfg.Window.Coordinates()
	if coords.Viewport.Empty() {
		return
	}
	e.opts.painter.Paint(e.cfg.Rendering.FramebufferObject(), coords.Viewport, e.opts.clear)
}
