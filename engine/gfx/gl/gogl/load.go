// Package gogl binds the glbackend function table to go-gl.
package gogl

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/gl/v3.1/gles2"
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/hubastard/grove-webview/engine/core"
	glbackend "github.com/hubastard/grove-webview/engine/gfx/gl"
)

// Load resolves GL entry points through resolve. The context the symbols are
// resolved against must be current.
func Load(api core.GLAPI, resolve glbackend.ProcAddrFunc) (glbackend.Functions, error) {
	if err := glbackend.CheckResolver(resolve); err != nil {
		return nil, err
	}

	var fns glbackend.Functions
	switch api {
	case core.APIGLES:
		if err := gles2.InitWithProcAddrFunc(resolve); err != nil {
			return nil, fmt.Errorf("load GLES functions: %w", err)
		}
		fns = esFunctions{}
	default:
		if err := gl.InitWithProcAddrFunc(resolve); err != nil {
			return nil, fmt.Errorf("load GL functions: %w", err)
		}
		fns = glFunctions{}
	}

	slog.Info("GL loaded",
		slog.String("api", api.String()),
		slog.String("version", fns.GetString(glbackend.Version)),
		slog.String("renderer", fns.GetString(glbackend.Renderer)),
	)
	return fns, nil
}

type glFunctions struct{}

func (glFunctions) API() core.GLAPI { return core.APIGL }

func (glFunctions) GetIntegerv(pname uint32, data *int32) { gl.GetIntegerv(pname, data) }

func (glFunctions) GetString(name uint32) string {
	s := gl.GetString(name)
	if s == nil {
		return ""
	}
	return gl.GoStr(s)
}

func (glFunctions) BindFramebuffer(target, fb uint32) { gl.BindFramebuffer(target, fb) }
func (glFunctions) Viewport(x, y, w, h int32)         { gl.Viewport(x, y, w, h) }
func (glFunctions) ClearColor(r, g, b, a float32)     { gl.ClearColor(r, g, b, a) }
func (glFunctions) Clear(mask uint32)                 { gl.Clear(mask) }

type esFunctions struct{}

func (esFunctions) API() core.GLAPI { return core.APIGLES }

func (esFunctions) GetIntegerv(pname uint32, data *int32) { gles2.GetIntegerv(pname, data) }

func (esFunctions) GetString(name uint32) string {
	s := gles2.GetString(name)
	if s == nil {
		return ""
	}
	return gles2.GoStr(s)
}

func (esFunctions) BindFramebuffer(target, fb uint32) { gles2.BindFramebuffer(target, fb) }
func (esFunctions) Viewport(x, y, w, h int32)         { gles2.Viewport(x, y, w, h) }
func (esFunctions) ClearColor(r, g, b, a float32)     { gles2.ClearColor(r, g, b, a) }
func (esFunctions) Clear(mask uint32)                 { gles2.Clear(mask) }
