package ui

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/veandco/go-sdl2/sdl"
)

type window struct {
	*sdl.Window
	context sdl.GLContext

	prog    uint32
	texture uint32
	vao     uint32

	texw, texh int32
}

type windowConfig struct {
	title      string
	texw, texh int
	scale      int
	monitor    int32
	vsync      bool
	shader     string
}

// newWindow creates an OpenGL window showing a full window texture of size
// (texw, texh). It must be called from the SDL thread.
func newWindow(cfg windowConfig) (*window, error) {
	frag, ok := fragmentShaders[cfg.shader]
	if !ok {
		return nil, fmt.Errorf("unknown shader %q", cfg.shader)
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_GAMECONTROLLER); err != nil {
		return nil, fmt.Errorf("failed to initialize SDL: %s", err)
	}

	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 3)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 3)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)

	winw := int32(cfg.texw * cfg.scale)
	winh := int32(cfg.texh * cfg.scale)

	// Center the window on the requested monitor.
	x, y := int32(sdl.WINDOWPOS_CENTERED), int32(sdl.WINDOWPOS_CENTERED)
	if bounds, err := sdl.GetDisplayBounds(int(cfg.monitor)); err == nil {
		x = bounds.X + (bounds.W-winw)/2
		y = bounds.Y + (bounds.H-winh)/2
	}

	w, err := sdl.CreateWindow(cfg.title, x, y, winw, winh,
		sdl.WINDOW_OPENGL|sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %s", err)
	}

	context, err := w.GLCreateContext()
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenGL context: %s", err)
	}

	interval := 0
	if cfg.vsync {
		interval = 1
	}
	if err := sdl.GLSetSwapInterval(interval); err != nil {
		return nil, fmt.Errorf("failed to set swap interval: %s", err)
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize opengl: %s", err)
	}

	// Create empty texture buffer.
	var texture uint32
	gl.GenTextures(1, &texture)
	gl.BindTexture(gl.TEXTURE_2D, texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(cfg.texw), int32(cfg.texh), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)

	vert, err := compileShader(vertexShaderSource, gl.VERTEX_SHADER)
	if err != nil {
		return nil, fmt.Errorf("vertex shader compilation: %s", err)
	}

	fragsh, err := compileShader(frag, gl.FRAGMENT_SHADER)
	if err != nil {
		return nil, fmt.Errorf("fragment shader compilation: %s", err)
	}

	prog, err := linkProgram(vert, fragsh)
	if err != nil {
		return nil, fmt.Errorf("shader program link: %s", err)
	}

	var VBO, VAO, EBO uint32
	gl.GenVertexArrays(1, &VAO)
	gl.GenBuffers(1, &VBO)
	gl.GenBuffers(1, &EBO)

	gl.BindVertexArray(VAO)

	gl.BindBuffer(gl.ARRAY_BUFFER, VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, EBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)

	// Position attributes
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 5*4, 0)
	gl.EnableVertexAttribArray(0)

	// Texture coordinate attributes.
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, 5*4, 3*4)
	gl.EnableVertexAttribArray(1)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	return &window{
		Window:  w,
		context: context,
		prog:    prog,
		texture: texture,
		vao:     VAO,
		texw:    int32(cfg.texw),
		texh:    int32(cfg.texh),
	}, nil
}

// draw uploads img into the texture and renders it, stretched to the
// window. It must be called from the SDL thread.
func (w *window) draw(img *image.RGBA) {
	dw, dh := w.GLGetDrawableSize()
	gl.Viewport(0, 0, dw, dh)
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	gl.BindTexture(gl.TEXTURE_2D, w.texture)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, w.texw, w.texh, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))

	gl.UseProgram(w.prog)
	gl.BindVertexArray(w.vao)
	gl.DrawElements(gl.TRIANGLES, int32(len(indices)), gl.UNSIGNED_INT, gl.PtrOffset(0))
	gl.BindVertexArray(0)

	w.GLSwap()
}

func (w *window) close() error {
	if w.context != nil {
		sdl.GLDeleteContext(w.context)
	}
	err := w.Destroy()
	sdl.Quit()
	return err
}

// Columns are position and texture coordinates.
// Rows are the quad vertices in clockwise order.
var vertices = []float32{
	// x, y, z, s, t
	1.0, 1.0, 0, 1, 0, // top right
	1.0, -1.0, 0, 1, 1, // bottom right
	-1.0, -1.0, 0, 0, 1, // bottom left
	-1.0, 1.0, 0, 0, 0, // top left
}

var indices = []uint32{
	0, 1, 3,
	1, 2, 3,
}

const vertexShaderSource = `
#version 330 core
layout (location = 0) in vec3 aPos;
layout (location = 1) in vec2 aTexCoord;

out vec2 TexCoord;

void main() {
    gl_Position = vec4(aPos, 1.0);
    TexCoord = aTexCoord;
}
` + "\x00"

// Fragment shaders, by name.
var fragmentShaders = map[string]string{
	"passthrough": `
#version 330 core
out vec4 FragColor;
in vec2 TexCoord;

uniform sampler2D ourTexture;

void main() {
    FragColor = texture(ourTexture, TexCoord);
}
` + "\x00",

	"crt": `
#version 330 core
out vec4 FragColor;
in vec2 TexCoord;

uniform sampler2D ourTexture;

void main() {
    vec3 color = texture(ourTexture, TexCoord).rgb;
    float scanline = sin(TexCoord.y * 1200.0) * 0.05;
    float vignette = 0.3 + 0.7 * pow(16.0 * TexCoord.x * TexCoord.y * (1.0 - TexCoord.x) * (1.0 - TexCoord.y), 0.5);
    color = color * vignette - scanline;
    FragColor = vec4(color, 1.0);
}
` + "\x00",
}

// ShaderNames returns the names of the available shaders.
func ShaderNames() []string {
	return []string{"passthrough", "crt"}
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	sh := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(source)
	gl.ShaderSource(sh, 1, csrc, nil)
	free()
	gl.CompileShader(sh)

	var status int32
	if gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status); status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &logLength)

		log := make([]byte, logLength+1)
		gl.GetShaderInfoLog(sh, logLength, nil, &log[0])

		return 0, fmt.Errorf("shader compile error: %v", string(log))
	}

	return sh, nil
}

func linkProgram(vertexShader, fragmentShader uint32) (uint32, error) {
	prg := gl.CreateProgram()
	gl.AttachShader(prg, vertexShader)
	gl.AttachShader(prg, fragmentShader)
	gl.LinkProgram(prg)

	var status int32
	if gl.GetProgramiv(prg, gl.LINK_STATUS, &status); status == gl.FALSE {
		var logLength int32
		var glLog [256]byte
		gl.GetProgramInfoLog(prg, int32(len(glLog)), &logLength, &glLog[0])
		return 0, fmt.Errorf("shader program link error: %v", string(glLog[:logLength]))
	}

	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	return prg, nil
}
