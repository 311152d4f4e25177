package bridge

import (
	"image"

	"github.com/hubastard/grove-webview/engine/webview"
)

// Coordinates describes the surface as it is right now. Nothing is cached:
// the host may resize the surface without telling the bridge.
func (a *Adapter) Coordinates() webview.EmbedderCoordinates {
	if a.destroyed.Load() || !a.surface.Realized() {
		return coordinatesFor(0, 0, 1)
	}
	w, h := a.surface.Size()
	return coordinatesFor(w, h, a.surface.ScaleFactor())
}

// coordinatesFor stands the surface in for the screen; there is no monitor
// model. A zero size yields a zero-area geometry.
func coordinatesFor(w, h int, scale float32) webview.EmbedderCoordinates {
	if !(scale >= 0) {
		scale = 0
	}
	size := image.Pt(max(w, 0), max(h, 0))
	rect := image.Rectangle{Max: size}
	return webview.EmbedderCoordinates{
		HiDPIFactor:         scale,
		ScreenSize:          size,
		AvailableScreenSize: size,
		WindowRect:          rect,
		Framebuffer:         size,
		Viewport:            rect,
	}
}
