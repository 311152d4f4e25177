package core

// EventKind identifies a host surface signal.
type EventKind int

const (
	KindRealize EventKind = iota
	KindRender
	KindResize
	KindCloseRequested
	KindDestroy
)

func (k EventKind) String() string {
	switch k {
	case KindRealize:
		return "realize"
	case KindRender:
		return "render"
	case KindResize:
		return "resize"
	case KindCloseRequested:
		return "close-requested"
	case KindDestroy:
		return "destroy"
	default:
		return "unknown"
	}
}

// Event is a signal emitted by the host surface.
type Event interface{ Kind() EventKind }

// EventRealize fires once the surface has a live GL context.
type EventRealize struct{}

func (EventRealize) Kind() EventKind { return KindRealize }

// EventRender fires when the host wants the surface repainted. The surface's
// context is current for the duration of the handlers.
type EventRender struct{}

func (EventRender) Kind() EventKind { return KindRender }

// EventResize carries the new framebuffer size in pixels.
type EventResize struct{ W, H int }

func (EventResize) Kind() EventKind { return KindResize }

type EventCloseRequested struct{}

func (EventCloseRequested) Kind() EventKind { return KindCloseRequested }

// EventDestroy fires right before the surface and its context go away.
type EventDestroy struct{}

func (EventDestroy) Kind() EventKind { return KindDestroy }

// Handler reacts to a surface event.
type Handler func(Event)

// Signals is a per-kind handler registry. Handlers run on the host thread in
// registration order.
type Signals struct {
	handlers map[EventKind][]Handler
}

func (s *Signals) Connect(kind EventKind, h Handler) {
	if h == nil {
		return
	}
	if s.handlers == nil {
		s.handlers = map[EventKind][]Handler{}
	}
	s.handlers[kind] = append(s.handlers[kind], h)
}

// Emit dispatches ev to every handler connected for its kind and reports how
// many ran.
func (s *Signals) Emit(ev Event) int {
	hs := s.handlers[ev.Kind()]
	for _, h := range hs {
		h(ev)
	}
	return len(hs)
}
