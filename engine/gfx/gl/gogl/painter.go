package gogl

import (
	"fmt"
	"image"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/hubastard/grove-webview/engine/assets"
	"github.com/hubastard/grove-webview/engine/colors"
	"github.com/hubastard/grove-webview/engine/core"
	glbackend "github.com/hubastard/grove-webview/engine/gfx/gl"
)

// Painter draws a view's content into whatever framebuffer the host has
// bound. On GLES contexts it only clears.
type Painter struct {
	fns     glbackend.Functions
	program uint32
	vao     uint32
	vbo     uint32
}

func NewPainter() *Painter { return &Painter{} }

// Init creates the GPU objects. The context must be current.
func (p *Painter) Init(fns glbackend.Functions) error {
	p.fns = fns
	if fns.API() != core.APIGL {
		return nil
	}

	vs, err := assets.LoadShader("view.vert")
	if err != nil {
		return err
	}
	fs, err := assets.LoadShader("view.frag")
	if err != nil {
		return err
	}
	p.program, err = makeProgram(vs, fs)
	if err != nil {
		return err
	}

	// Triangle vertices: pos (x,y), color (r,g,b)
	verts := []float32{
		//  X,     Y,     R,   G,   B
		0.0, 0.6, 1.0, 0.2, 0.2,
		-0.6, -0.6, 0.2, 1.0, 0.2,
		0.6, -0.6, 0.2, 0.2, 1.0,
	}

	gl.GenVertexArrays(1, &p.vao)
	gl.BindVertexArray(p.vao)

	gl.GenBuffers(1, &p.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, p.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, gl.Ptr(verts), gl.STATIC_DRAW)

	const stride = 5 * 4 // bytes
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(0)))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(2*4)))

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return nil
}

// Paint composites into fbo. A zero fbo is the default framebuffer.
func (p *Painter) Paint(fbo uint32, viewport image.Rectangle, clear colors.Color) {
	if p.fns == nil || viewport.Empty() {
		return
	}
	p.fns.BindFramebuffer(glbackend.Framebuffer, fbo)
	p.fns.Viewport(int32(viewport.Min.X), int32(viewport.Min.Y), int32(viewport.Dx()), int32(viewport.Dy()))
	p.fns.ClearColor(clear[0], clear[1], clear[2], clear[3])
	p.fns.Clear(glbackend.ColorBufferBit | glbackend.DepthBufferBit)

	if p.program == 0 {
		return
	}
	gl.UseProgram(p.program)
	gl.BindVertexArray(p.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)
	gl.UseProgram(0)
}

// Release frees the GPU objects. The context must be current.
func (p *Painter) Release() {
	if p.vbo != 0 {
		gl.DeleteBuffers(1, &p.vbo)
		p.vbo = 0
	}
	if p.vao != 0 {
		gl.DeleteVertexArrays(1, &p.vao)
		p.vao = 0
	}
	if p.program != 0 {
		gl.DeleteProgram(p.program)
		p.program = 0
	}
	p.fns = nil
}

// --- Shader utilities ---

func makeShader(src string, shaderType uint32) (uint32, error) {
	sh := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	defer free()
	gl.ShaderSource(sh, 1, csrc, nil)
	gl.CompileShader(sh)

	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen))
		gl.GetShaderInfoLog(sh, logLen, nil, gl.Str(log))
		gl.DeleteShader(sh)
		return 0, fmt.Errorf("shader compile error: %s", log)
	}
	return sh, nil
}

func makeProgram(vsSrc, fsSrc string) (uint32, error) {
	vs, err := makeShader(vsSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := makeShader(fsSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, err
	}
	prog := gl.CreateProgram()
	gl.AttachShader(prog, vs)
	gl.AttachShader(prog, fs)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("program link error: %s", log)
	}
	return prog, nil
}
