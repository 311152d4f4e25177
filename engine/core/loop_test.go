package core

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestLoopRunsPostedInOrder(t *testing.T) {
	l := NewLoop(0)
	var got []int
	for i := 0; i < 3; i++ {
		i := i
		l.Post(func() { got = append(got, i) })
	}
	if l.Pending() != 3 {
		t.Fatalf("expected 3 pending, got %d", l.Pending())
	}
	if n := l.Iterate(); n != 3 {
		t.Errorf("expected 3 callbacks run, got %d", n)
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("expected FIFO order, got %v", got)
		}
	}
	if l.Pending() != 0 {
		t.Errorf("expected no pending callbacks, got %d", l.Pending())
	}
}

func TestLoopPostDuringIterateRunsNextTime(t *testing.T) {
	l := NewLoop(0)
	ran := 0
	l.Post(func() {
		l.Post(func() { ran++ })
	})
	l.Iterate()
	if ran != 0 {
		t.Fatalf("expected nested post to wait for next iteration")
	}
	l.Iterate()
	if ran != 1 {
		t.Errorf("expected nested post to run once, got %d", ran)
	}
}

func TestLoopRepeatingUntilFalse(t *testing.T) {
	l := NewLoop(time.Millisecond)
	calls := 0
	l.AddRepeating(func() bool {
		calls++
		return calls < 3
	})
	for i := 0; i < 5; i++ {
		l.Iterate()
	}
	if calls != 3 {
		t.Errorf("expected task to run 3 times, got %d", calls)
	}
	if l.Repeating() != 0 {
		t.Errorf("expected task removed, %d left", l.Repeating())
	}
}

func TestLoopRemove(t *testing.T) {
	l := NewLoop(0)
	a := l.AddRepeating(func() bool { return true })
	b := l.AddRepeating(func() bool { return true })
	if a == b {
		t.Fatal("expected distinct task ids")
	}
	if !l.Remove(a) {
		t.Error("expected Remove to find task")
	}
	if l.Remove(a) {
		t.Error("expected second Remove to report false")
	}
	if l.Repeating() != 1 {
		t.Errorf("expected 1 task left, got %d", l.Repeating())
	}
}

func TestLoopPostFromGoroutinesNudges(t *testing.T) {
	l := NewLoop(0)
	var nudges atomic.Int32
	l.SetNudge(func() { nudges.Add(1) })

	var ran atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Post(func() { ran.Add(1) })
		}()
	}
	wg.Wait()
	l.Iterate()

	if ran.Load() != 8 {
		t.Errorf("expected 8 callbacks, got %d", ran.Load())
	}
	if nudges.Load() != 8 {
		t.Errorf("expected 8 nudges, got %d", nudges.Load())
	}
}

type fakeSource struct {
	polls, waits, flushes int
	timeouts              []time.Duration
}

func (f *fakeSource) PollEvents() { f.polls++ }
func (f *fakeSource) WaitEvents(d time.Duration) {
	f.waits++
	f.timeouts = append(f.timeouts, d)
}
func (f *fakeSource) FlushRender() { f.flushes++ }

func TestRunWaitsWithIntervalWhileTasksInstalled(t *testing.T) {
	l := NewLoop(5 * time.Millisecond)
	ticks := 0
	l.AddRepeating(func() bool {
		ticks++
		return true
	})
	src := &fakeSource{}
	Run(l, src, func() bool { return ticks >= 3 })

	if src.waits != 3 || src.flushes != 3 {
		t.Errorf("expected 3 waits and flushes, got %d and %d", src.waits, src.flushes)
	}
	for _, d := range src.timeouts {
		if d != 5*time.Millisecond {
			t.Errorf("expected interval timeout, got %v", d)
		}
	}
}

func TestRunPollsWhenCallbacksPending(t *testing.T) {
	l := NewLoop(0)
	done := false
	l.Post(func() { done = true })
	src := &fakeSource{}
	Run(l, src, func() bool { return done })

	if src.polls != 1 || src.waits != 0 {
		t.Errorf("expected a single poll, got %d polls and %d waits", src.polls, src.waits)
	}
}
