// Package webview declares the contracts between an embedded browser engine
// and the host that displays it.
package webview

import (
	"fmt"
	"image"

	"github.com/hubastard/grove-webview/engine/core"
	glbackend "github.com/hubastard/grove-webview/engine/gfx/gl"
)

// GLVersion is the context flavour and version negotiated by the host.
type GLVersion struct {
	API          core.GLAPI
	Major, Minor uint8
}

func (v GLVersion) String() string {
	return fmt.Sprintf("%s %d.%d", v.API, v.Major, v.Minor)
}

// RenderingContext is the GL target the engine composites into.
type RenderingContext interface {
	Resize(size image.Point)
	// Present asks the host to show the composited frame.
	Present()
	MakeCurrent() error
	// FramebufferObject is the draw framebuffer currently bound. Zero means
	// the default framebuffer.
	FramebufferObject() uint32
	GLAPI() glbackend.Functions
	GLVersion() GLVersion
}

// EmbedderCoordinates describes the window to the engine in device pixels.
type EmbedderCoordinates struct {
	HiDPIFactor         float32
	ScreenSize          image.Point
	AvailableScreenSize image.Point
	WindowRect          image.Rectangle
	Framebuffer         image.Point
	Viewport            image.Rectangle
}

type AnimationState int

const (
	AnimationIdle AnimationState = iota
	AnimationAnimating
)

func (s AnimationState) String() string {
	if s == AnimationAnimating {
		return "animating"
	}
	return "idle"
}

// WindowMethods reports window geometry.
type WindowMethods interface {
	Coordinates() EmbedderCoordinates
	SetAnimationState(state AnimationState)
}

// EventLoopWaker asks the host loop to spin the engine soon. Wake may be
// called from any goroutine and must not block.
type EventLoopWaker interface {
	Clone() EventLoopWaker
	Wake()
}

// EmbedderMethods is the host-level delegate handed to the engine.
type EmbedderMethods interface {
	CreateEventLoopWaker() EventLoopWaker
}

// CompositeTarget selects where the compositor draws.
type CompositeTarget int

const (
	// CompositeTargetContextFBO draws into the framebuffer reported by the
	// rendering context.
	CompositeTargetContextFBO CompositeTarget = iota
	CompositeTargetOffscreen
)
