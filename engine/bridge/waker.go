package bridge

import (
	"sync/atomic"

	"github.com/hubastard/grove-webview/engine/webview"
)

type relay struct {
	pending atomic.Bool
	post    func(func())
	run     func()
}

func (r *relay) fire() {
	// Clear before running so a wake during run schedules another pass.
	r.pending.Store(false)
	r.run()
}

// Waker is the engine's handle for requesting host-loop re-entry. Copies
// share one relay, so wakes from any copy coalesce until the host runs.
type Waker struct {
	r *relay
}

var _ webview.EventLoopWaker = Waker{}

// NewWaker returns a waker that schedules run through post. post must be
// safe to call from any goroutine; run executes on the host thread.
func NewWaker(post func(func()), run func()) Waker {
	return Waker{r: &relay{post: post, run: run}}
}

func (w Waker) Clone() webview.EventLoopWaker { return w }

// Wake never blocks and performs no GL or widget calls.
func (w Waker) Wake() {
	if w.r == nil {
		return
	}
	if w.r.pending.CompareAndSwap(false, true) {
		w.r.post(w.r.fire)
	}
}

// embedder is the engine-level delegate: it hands out copies of the waker.
type embedder struct{ waker Waker }

func (e embedder) CreateEventLoopWaker() webview.EventLoopWaker { return e.waker.Clone() }
