//go:build profile

package profiler

import (
	"encoding/json"
	"errors"
	"os"
	"sync"
	"time"
)

// ErrEmpty is returned by Dump when no span was recorded.
var ErrEmpty = errors.New("profiler: no spans recorded")

type mark struct {
	at   int64 // unix ns
	name int
	end  bool
}

// recorder keeps the newest marks in a fixed ring.
type recorder struct {
	mu    sync.Mutex
	marks []mark
	next  int
	full  bool
	names []string
	ids   map[string]int
}

var rec recorder

// Init sizes the ring. Marks recorded before Init are dropped.
func Init(capacity int) {
	if capacity <= 0 {
		capacity = 1 << 16
	}
	rec.mu.Lock()
	rec.marks = make([]mark, capacity)
	rec.next, rec.full = 0, false
	rec.names, rec.ids = nil, map[string]int{}
	rec.mu.Unlock()
}

// Start opens a span named name; call the returned func to close it.
func Start(name string) func() {
	id, ok := rec.record(name, false)
	if !ok {
		return func() {}
	}
	return func() { rec.push(mark{at: time.Now().UnixNano(), name: id, end: true}) }
}

func (r *recorder) record(name string, end bool) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.marks == nil {
		return 0, false
	}
	id, ok := r.ids[name]
	if !ok {
		id = len(r.names)
		r.ids[name] = id
		r.names = append(r.names, name)
	}
	r.pushLocked(mark{at: time.Now().UnixNano(), name: id, end: end})
	return id, true
}

func (r *recorder) push(m mark) {
	r.mu.Lock()
	r.pushLocked(m)
	r.mu.Unlock()
}

func (r *recorder) pushLocked(m mark) {
	if r.marks == nil {
		return
	}
	r.marks[r.next] = m
	r.next++
	if r.next == len(r.marks) {
		r.next, r.full = 0, true
	}
}

// snapshot returns the retained marks oldest first, plus the name table.
func (r *recorder) snapshot() ([]mark, []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []mark
	if r.full {
		out = append(out, r.marks[r.next:]...)
	}
	out = append(out, r.marks[:r.next]...)
	return out, append([]string(nil), r.names...)
}

type speedscopeEvent struct {
	Type  string `json:"type"`
	At    int64  `json:"at"`
	Frame int    `json:"frame"`
}

type speedscopeProfile struct {
	Type       string            `json:"type"`
	Name       string            `json:"name"`
	Unit       string            `json:"unit"`
	StartValue int64             `json:"startValue"`
	EndValue   int64             `json:"endValue"`
	Events     []speedscopeEvent `json:"events"`
}

type speedscopeFrame struct {
	Name string `json:"name"`
}

type speedscopeFile struct {
	Schema string `json:"$schema"`
	Shared struct {
		Frames []speedscopeFrame `json:"frames"`
	} `json:"shared"`
	Profiles []speedscopeProfile `json:"profiles"`
}

// events converts marks into balanced speedscope events in microseconds.
// Closes without a matching open (their open fell out of the ring) are
// dropped; spans still open at the end are closed at the last timestamp.
func events(marks []mark) ([]speedscopeEvent, int64) {
	if len(marks) == 0 {
		return nil, 0
	}
	base := marks[0].at
	var (
		out   []speedscopeEvent
		stack []int
		last  int64
	)
	for _, m := range marks {
		at := max((m.at-base)/1000, last)
		if !m.end {
			stack = append(stack, m.name)
			out = append(out, speedscopeEvent{Type: "O", At: at, Frame: m.name})
		} else if n := len(stack); n > 0 && stack[n-1] == m.name {
			stack = stack[:n-1]
			out = append(out, speedscopeEvent{Type: "C", At: at, Frame: m.name})
		} else {
			continue
		}
		last = at
	}
	for i := len(stack) - 1; i >= 0; i-- {
		out = append(out, speedscopeEvent{Type: "C", At: last, Frame: stack[i]})
	}
	return out, last
}

// Dump writes the recorded spans to path in speedscope's evented format.
func Dump(path string) error {
	marks, names := rec.snapshot()
	evs, end := events(marks)
	if len(evs) == 0 {
		return ErrEmpty
	}

	var doc speedscopeFile
	doc.Schema = "https://www.speedscope.app/file-format-schema.json"
	for _, n := range names {
		doc.Shared.Frames = append(doc.Shared.Frames, speedscopeFrame{Name: n})
	}
	doc.Profiles = []speedscopeProfile{{
		Type:     "evented",
		Name:     "grove bridge",
		Unit:     "microseconds",
		EndValue: end,
		Events:   evs,
	}}

	b, err := json.Marshal(&doc)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
