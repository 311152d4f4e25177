package bridge

import (
	"errors"
	"image"
	"testing"

	"github.com/hubastard/grove-webview/engine/core"
	glbackend "github.com/hubastard/grove-webview/engine/gfx/gl"
	"github.com/hubastard/grove-webview/engine/webview"
)

func TestMakeCurrentBeforeRealize(t *testing.T) {
	s := newFakeSurface(800, 600)
	g := &recordingGL{}
	a := NewAdapter(s, g, quiet)

	if err := a.MakeCurrent(); !errors.Is(err, ErrNotRealized) {
		t.Fatalf("expected ErrNotRealized, got %v", err)
	}
	if s.makeCurrent != 0 {
		t.Errorf("expected no host activation, got %d", s.makeCurrent)
	}
	if fbo := a.FramebufferObject(); fbo != 0 {
		t.Errorf("expected default framebuffer, got %d", fbo)
	}
	if len(g.calls) != 0 {
		t.Errorf("expected no GL calls, got %v", g.calls)
	}
}

func TestMakeCurrentForwardsHostFailure(t *testing.T) {
	s := newFakeSurface(800, 600)
	s.realized = true
	hostErr := errors.New("context lost")
	s.makeCurrentErr = hostErr
	a := NewAdapter(s, &recordingGL{}, quiet)

	if err := a.MakeCurrent(); !errors.Is(err, hostErr) {
		t.Errorf("expected wrapped host error, got %v", err)
	}
	s.makeCurrentErr = nil
	if err := a.MakeCurrent(); err != nil {
		t.Errorf("expected retry to succeed, got %v", err)
	}
	if s.makeCurrent != 2 {
		t.Errorf("expected 2 activations, got %d", s.makeCurrent)
	}
}

func TestFramebufferObjectReadsBinding(t *testing.T) {
	s := newFakeSurface(800, 600)
	s.realized = true
	g := &recordingGL{}
	a := NewAdapter(s, g, quiet)

	if err := a.MakeCurrent(); err != nil {
		t.Fatal(err)
	}
	g.BindFramebuffer(glbackend.Framebuffer, 7)
	if fbo := a.FramebufferObject(); fbo != 7 {
		t.Errorf("expected framebuffer 7, got %d", fbo)
	}
	last := g.calls[len(g.calls)-1]
	if last != "GetIntegerv(0x8ca6)" {
		t.Errorf("expected a framebuffer binding query, got %q", last)
	}

	g.BindFramebuffer(glbackend.Framebuffer, 0)
	if fbo := a.FramebufferObject(); fbo != 0 {
		t.Errorf("expected default framebuffer, got %d", fbo)
	}
}

func TestGLVersionReflectsHost(t *testing.T) {
	s := newFakeSurface(1, 1)
	s.realized = true
	s.api = core.APIGLES
	s.major, s.minor = 3, 0
	a := NewAdapter(s, &recordingGL{api: core.APIGLES}, quiet)

	v := a.GLVersion()
	if v != (webview.GLVersion{API: core.APIGLES, Major: 3, Minor: 0}) {
		t.Errorf("unexpected version %+v", v)
	}
	if v.String() != "GLES 3.0" {
		t.Errorf("expected GLES 3.0, got %s", v)
	}

	s.api = core.APIGL
	s.major, s.minor = 4, 6
	if got := a.GLVersion().String(); got != "GL 4.6" {
		t.Errorf("expected GL 4.6, got %s", got)
	}
}

func TestPresentCoalesces(t *testing.T) {
	s := newFakeSurface(1, 1)
	s.realized = true
	a := NewAdapter(s, &recordingGL{}, quiet)

	for i := 0; i < 5; i++ {
		a.Present()
	}
	if s.queued != 1 {
		t.Errorf("expected one queued render, got %d", s.queued)
	}
	a.rendered()
	a.Present()
	if s.queued != 2 {
		t.Errorf("expected present to re-arm after render, got %d", s.queued)
	}
}

func TestResizeLeavesSurfaceAlone(t *testing.T) {
	s := newFakeSurface(640, 480)
	s.realized = true
	a := NewAdapter(s, &recordingGL{}, quiet)

	a.Resize(image.Pt(10, 10))
	if w, h := s.Size(); w != 640 || h != 480 {
		t.Errorf("expected surface untouched, got %dx%d", w, h)
	}
}

func TestAdapterAfterDestroy(t *testing.T) {
	s := newFakeSurface(640, 480)
	s.realized = true
	g := &recordingGL{bound: 3}
	a := NewAdapter(s, g, quiet)
	a.invalidate()

	if err := a.MakeCurrent(); !errors.Is(err, ErrSurfaceDestroyed) {
		t.Errorf("expected ErrSurfaceDestroyed, got %v", err)
	}
	if fbo := a.FramebufferObject(); fbo != 0 {
		t.Errorf("expected 0 after destroy, got %d", fbo)
	}
	a.Present()
	if s.queued != 0 {
		t.Errorf("expected no render queued, got %d", s.queued)
	}
	if c := a.Coordinates(); !c.Viewport.Empty() {
		t.Errorf("expected empty viewport, got %v", c.Viewport)
	}
	a.SetAnimationState(webview.AnimationAnimating)
	if len(g.calls) != 0 || s.makeCurrent != 0 {
		t.Errorf("expected no GL or host calls, got %v and %d", g.calls, s.makeCurrent)
	}
	if !a.Destroyed() {
		t.Error("expected Destroyed to report true")
	}
}
