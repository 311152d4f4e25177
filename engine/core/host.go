package core

import "time"

// GLAPI is the GL flavour negotiated by the host context.
type GLAPI int

const (
	APIGL GLAPI = iota
	APIGLES
)

func (a GLAPI) String() string {
	if a == APIGLES {
		return "GLES"
	}
	return "GL"
}

// Surface is the host toolkit's GPU-backed drawing area. All methods must be
// called on the host loop thread.
type Surface interface {
	// Connect registers h for events of the given kind.
	Connect(kind EventKind, h Handler)

	// MakeCurrent binds the surface's GL context to the calling thread.
	MakeCurrent() error
	// QueueRender asks for a render signal at the next loop opportunity.
	QueueRender()

	Realized() bool
	API() GLAPI
	ContextVersion() (major, minor int)

	// Size is the drawable size in device pixels.
	Size() (w, h int)
	// LogicalSize is the size in toolkit (scale independent) units.
	LogicalSize() (w, h int)
	ScaleFactor() float32
}

// EventSource is the host side of the main loop: it blocks for toolkit
// events and repaints surfaces that queued a render.
type EventSource interface {
	PollEvents()
	// WaitEvents blocks until an event arrives, the loop is nudged, or the
	// timeout elapses. A timeout <= 0 waits without limit.
	WaitEvents(timeout time.Duration)
	// FlushRender emits a render signal if one was queued since the last call.
	FlushRender()
}
