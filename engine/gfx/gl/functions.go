// Package glbackend holds the GL function table shared between the bridge
// and the engine. The table is API neutral; cgo bindings live in gogl.
package glbackend

import (
	"errors"
	"sync"
	"unsafe"

	"github.com/hubastard/grove-webview/engine/core"
)

// GL enums shared by desktop GL and GLES.
const (
	DepthBufferBit     = 0x00000100
	ColorBufferBit     = 0x00004000
	Renderer           = 0x1F01
	Version            = 0x1F02
	Framebuffer        = 0x8D40
	FramebufferBinding = 0x8CA6
)

// ErrLoaderUnavailable is returned when no GL entry points can be resolved.
var ErrLoaderUnavailable = errors.New("gl: loader unavailable")

// ProcAddrFunc resolves a GL symbol against the currently bound context. It
// returns nil for unknown symbols.
type ProcAddrFunc func(name string) unsafe.Pointer

// Functions is a resolved table of GL entry points. It is immutable after
// load and may be shared freely; calls still need a current context.
type Functions interface {
	API() core.GLAPI
	GetIntegerv(pname uint32, data *int32)
	GetString(name uint32) string
	BindFramebuffer(target, framebuffer uint32)
	Viewport(x, y, width, height int32)
	ClearColor(r, g, b, a float32)
	Clear(mask uint32)
}

// Loader builds a function table for the given API.
type Loader func(api core.GLAPI, resolve ProcAddrFunc) (Functions, error)

// Shared wraps load so each API is loaded at most once per process. Failed
// loads are not cached.
func Shared(load Loader) Loader {
	var (
		mu     sync.Mutex
		tables = map[core.GLAPI]Functions{}
	)
	return func(api core.GLAPI, resolve ProcAddrFunc) (Functions, error) {
		mu.Lock()
		defer mu.Unlock()
		if fns, ok := tables[api]; ok {
			return fns, nil
		}
		fns, err := load(api, resolve)
		if err != nil {
			return nil, err
		}
		tables[api] = fns
		return fns, nil
	}
}

// CheckResolver checks that resolve can find a core entry point. Loaders call it
// before handing resolve to the bindings.
func CheckResolver(resolve ProcAddrFunc) error {
	if resolve == nil || resolve("glGetString") == nil {
		return ErrLoaderUnavailable
	}
	return nil
}
