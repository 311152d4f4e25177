package bridge

import (
	"log/slog"

	"github.com/hubastard/grove-webview/engine/core"
	"github.com/hubastard/grove-webview/engine/profiler"
	"github.com/hubastard/grove-webview/engine/webview"
)

// Pump is the repeating host-loop task that spins the engine.
type Pump struct {
	loop   *core.Loop
	engine webview.Engine
	alive  func() bool
	log    *slog.Logger

	task    core.TaskID
	running bool
	stopped bool
	ticks   uint64
}

func NewPump(loop *core.Loop, engine webview.Engine, alive func() bool, logger *slog.Logger) *Pump {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pump{loop: loop, engine: engine, alive: alive, log: logger}
}

// Install adds the pump to the loop. A pump is installed at most once.
func (p *Pump) Install() error {
	if p.running || p.stopped {
		return ErrPumpInstalled
	}
	p.task = p.loop.AddRepeating(p.Tick)
	p.running = true
	p.log.Debug("Pump installed", slog.Duration("interval", p.loop.Interval()))
	return nil
}

// Tick drains the engine's event queue, then asks it to present. Neither
// step waits for the work it triggers. Tick reports whether the pump should
// keep running.
func (p *Pump) Tick() bool {
	if p.stopped {
		return false
	}
	if !p.alive() {
		p.stop("surface destroyed")
		return false
	}

	defer profiler.Start("pump.tick")()
	p.ticks++
	if !p.engine.SpinEventLoop() {
		p.stop("engine shut down")
		return false
	}
	p.engine.Present()
	return true
}

func (p *Pump) stop(reason string) {
	p.stopped = true
	p.running = false
	p.log.Info("Pump stopped", slog.String("reason", reason), slog.Uint64("ticks", p.ticks))
}

func (p *Pump) Running() bool { return p.running }

// Ticks counts the ticks that reached the engine.
func (p *Pump) Ticks() uint64 { return p.ticks }
