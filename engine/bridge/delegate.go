package bridge

import (
	"image"
	"log/slog"

	"github.com/hubastard/grove-webview/engine/core"
	"github.com/hubastard/grove-webview/engine/webview"
)

// ViewDelegate applies view lifecycle notifications to the host surface.
// Anything besides ready-to-show gets a safe default.
type ViewDelegate struct {
	surface core.Surface
	log     *slog.Logger
	shown   map[webview.ID]bool
}

var _ webview.WebViewDelegate = (*ViewDelegate)(nil)

func NewViewDelegate(surface core.Surface, logger *slog.Logger) *ViewDelegate {
	if logger == nil {
		logger = slog.Default()
	}
	return &ViewDelegate{surface: surface, log: logger, shown: map[webview.ID]bool{}}
}

// NotifyReadyToShow focuses, sizes and raises v. Repeats for the same view
// are ignored.
func (d *ViewDelegate) NotifyReadyToShow(v webview.WebView) {
	if d.shown[v.ID()] {
		d.log.Debug("Ready-to-show repeated, ignoring", slog.Uint64("view", uint64(v.ID())))
		return
	}
	d.shown[v.ID()] = true

	w, h := d.surface.LogicalSize()
	rect := image.Rect(0, 0, max(w, 0), max(h, 0))

	v.Focus()
	v.MoveResize(rect)
	v.RaiseToTop(true)
	d.log.Info("View shown",
		slog.Uint64("view", uint64(v.ID())),
		slog.Int("width", rect.Dx()),
		slog.Int("height", rect.Dy()),
	)
}

// Shown reports whether ready-to-show was applied to the view.
func (d *ViewDelegate) Shown(id webview.ID) bool { return d.shown[id] }

func (d *ViewDelegate) NotifyLoadStatusChanged(v webview.WebView, status webview.LoadStatus) {
	d.log.Debug("Load status", slog.Uint64("view", uint64(v.ID())), slog.String("status", status.String()))
}

// RequestOpenAuxiliaryWebView denies new views; the bridge manages one.
func (d *ViewDelegate) RequestOpenAuxiliaryWebView(parent webview.WebView) webview.WebView {
	d.log.Debug("Auxiliary view denied", slog.Uint64("parent", uint64(parent.ID())))
	return nil
}

func (d *ViewDelegate) RequestPermission(v webview.WebView, p webview.Permission) bool {
	d.log.Debug("Permission denied", slog.Uint64("view", uint64(v.ID())), slog.Int("permission", int(p)))
	return false
}
