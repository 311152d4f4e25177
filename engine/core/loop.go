package core

import (
	"sync"
	"time"
)

// TaskID names a repeating task installed on a Loop.
type TaskID uint64

type repeating struct {
	id TaskID
	fn func() bool
}

// Loop is the host-loop scheduler. One-shot callbacks may be posted from any
// goroutine; repeating tasks are installed and run on the host thread only.
type Loop struct {
	interval time.Duration

	mu     sync.Mutex
	posted []func()
	nudge  func()

	tasks  []repeating
	nextID TaskID
}

// NewLoop returns a loop whose repeating tasks run at most once per interval
// while the host is otherwise idle.
func NewLoop(interval time.Duration) *Loop {
	if interval <= 0 {
		interval = time.Second / 60
	}
	return &Loop{interval: interval}
}

// SetNudge installs the platform hook that interrupts a blocked EventSource.
// It must be safe to call from any goroutine.
func (l *Loop) SetNudge(fn func()) {
	l.mu.Lock()
	l.nudge = fn
	l.mu.Unlock()
}

// Post queues fn to run on the host thread during the next Iterate. It never
// blocks on the host thread.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.posted = append(l.posted, fn)
	nudge := l.nudge
	l.mu.Unlock()
	if nudge != nil {
		nudge()
	}
}

// AddRepeating installs fn to run on every Iterate until it returns false.
func (l *Loop) AddRepeating(fn func() bool) TaskID {
	l.nextID++
	l.tasks = append(l.tasks, repeating{id: l.nextID, fn: fn})
	return l.nextID
}

// Remove uninstalls a repeating task. It reports whether the task existed.
func (l *Loop) Remove(id TaskID) bool {
	for i, t := range l.tasks {
		if t.id == id {
			l.tasks = append(l.tasks[:i:i], l.tasks[i+1:]...)
			return true
		}
	}
	return false
}

func (l *Loop) Interval() time.Duration { return l.interval }

// Pending reports how many posted callbacks wait for the next Iterate.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.posted)
}

// Repeating reports how many repeating tasks are installed.
func (l *Loop) Repeating() int { return len(l.tasks) }

// Iterate runs posted callbacks in FIFO order, then every repeating task
// once. Callbacks posted while iterating run on the next call. It returns the
// number of callbacks and tasks run.
func (l *Loop) Iterate() int {
	l.mu.Lock()
	posted := l.posted
	l.posted = nil
	l.mu.Unlock()

	n := 0
	for _, fn := range posted {
		fn()
		n++
	}

	tasks := append([]repeating(nil), l.tasks...)
	for _, t := range tasks {
		n++
		if !t.fn() {
			l.Remove(t.id)
		}
	}
	return n
}
