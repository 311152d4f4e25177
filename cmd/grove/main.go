package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"runtime"

	"github.com/hubastard/grove-webview/engine/bridge"
	"github.com/hubastard/grove-webview/engine/core"
	glbackend "github.com/hubastard/grove-webview/engine/gfx/gl"
	"github.com/hubastard/grove-webview/engine/gfx/gl/gogl"
	"github.com/hubastard/grove-webview/engine/platform"
	"github.com/hubastard/grove-webview/engine/profiler"
	"github.com/hubastard/grove-webview/engine/webview/demo"
	"github.com/pkg/profile"
)

func init() {
	// GLFW and GL calls must stay on the main OS thread.
	runtime.LockOSThread()
}

type cliOpts struct {
	config     string
	url        string
	width      int
	height     int
	gles       bool
	logLevel   string
	cpuProfile string
	speedscope string
}

func parseCLIOpts() cliOpts {
	var opt cliOpts
	flag.StringVar(&opt.config, "config", "grove.toml", "Path to the TOML config file")
	flag.StringVar(&opt.url, "url", "", "Target URL of the view (overrides config)")
	flag.IntVar(&opt.width, "width", 0, "Window width (overrides config)")
	flag.IntVar(&opt.height, "height", 0, "Window height (overrides config)")
	flag.BoolVar(&opt.gles, "gles", false, "Request a GLES context")
	flag.StringVar(&opt.logLevel, "log", "", "Log level: debug, info, warn or error (overrides config)")
	flag.StringVar(&opt.cpuProfile, "cpuprofile", "", "Write a CPU profile into this directory")
	flag.StringVar(&opt.speedscope, "speedscope", "", "Write recorded spans to this speedscope file on exit (needs -tags profile)")
	flag.Parse()
	return opt
}

func loadConfig(opt cliOpts) (core.Config, error) {
	cfg, err := core.LoadConfig(opt.config)
	if err != nil {
		return cfg, err
	}
	if opt.url != "" {
		cfg.URL = opt.url
	}
	if opt.width > 0 {
		cfg.Width = opt.width
	}
	if opt.height > 0 {
		cfg.Height = opt.height
	}
	if opt.gles {
		cfg.GLES = true
		cfg.GLMajor, cfg.GLMinor = 3, 0
	}
	if opt.logLevel != "" {
		cfg.LogLevel = opt.logLevel
	}
	return cfg, cfg.Validate()
}

func main() {
	opt := parseCLIOpts()
	if err := run(opt); err != nil {
		fmt.Fprintf(os.Stderr, "grove: %v\n", err)
		os.Exit(1)
	}
}

func run(opt cliOpts) error {
	cfg, err := loadConfig(opt)
	if err != nil {
		return err
	}
	level, _ := core.ParseLevel(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if opt.cpuProfile != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(opt.cpuProfile), profile.Quiet).Stop()
	}
	profiler.Init(1 << 12)

	target, err := url.Parse(cfg.URL)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}

	surface, err := platform.NewGLFWSurface(cfg)
	if err != nil {
		return err
	}
	defer surface.Terminate()

	loop := core.NewLoop(cfg.PumpInterval())
	loop.SetNudge(platform.Nudge)

	b, err := bridge.New(surface, bridge.Options{
		URL:       target,
		NewEngine: demo.New(demo.WithPainter(gogl.NewPainter()), demo.WithClearColor(cfg.ClearColor)),
		LoadGL:    glbackend.Shared(gogl.Load),
		Resolve:   platform.ProcAddress,
		Loop:      loop,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	if err := surface.Realize(); err != nil {
		return err
	}
	// Without GL there is nothing to degrade to: stop before showing anything.
	if err := b.Err(); err != nil {
		return err
	}
	surface.Show()

	core.Run(loop, surface, func() bool { return b.State() == bridge.StateTornDown })

	if opt.speedscope != "" {
		if err := profiler.Dump(opt.speedscope); err != nil {
			slog.Warn("Speedscope export failed", slog.Any("err", err))
		} else {
			slog.Info("Speedscope profile written", slog.String("path", opt.speedscope))
		}
	}
	return nil
}
