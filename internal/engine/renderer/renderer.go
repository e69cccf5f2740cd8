// Package renderer draws the sculpt scene and its overlays with OpenGL.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/terrain-sculpt/internal/engine/shader"
	"github.com/Faultbox/terrain-sculpt/internal/logger"
	"github.com/Faultbox/terrain-sculpt/internal/scene"
	"github.com/Faultbox/terrain-sculpt/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

// Color is a linear RGBA color.
type Color [4]float32

var (
	terrainColor  = Color{0.55, 0.6, 0.5, 1}
	selectedColor = Color{0.65, 0.7, 0.55, 1}
)

// gpuMesh mirrors one TriMesh in GPU buffers.
type gpuMesh struct {
	vao, vbo, ebo uint32
	indexCount    int32
	vertexCount   int
	version       uint64
	uploaded      bool
}

// Renderer owns every GL resource it draws with.
type Renderer struct {
	config Config
	log    *zap.Logger

	meshProgram *shader.Program
	lineProgram *shader.Program

	meshes map[*scene.TriMesh]*gpuMesh

	lineVAO, lineVBO uint32
	lineCapacity     int
	staging          []float32
}

// New creates a renderer. It must be called after the GL context exists.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
		log:    logger.Named("renderer"),
		meshes: make(map[*scene.TriMesh]*gpuMesh),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))))

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.MULTISAMPLE)
	gl.ClearColor(0.12, 0.13, 0.16, 1.0)

	var err error
	if r.meshProgram, err = shader.Compile(meshVertexShader, meshFragmentShader); err != nil {
		return nil, fmt.Errorf("mesh shader: %w", err)
	}
	if r.lineProgram, err = shader.Compile(lineVertexShader, lineFragmentShader); err != nil {
		r.meshProgram.Delete()
		return nil, fmt.Errorf("line shader: %w", err)
	}

	gl.GenVertexArrays(1, &r.lineVAO)
	gl.GenBuffers(1, &r.lineVBO)
	gl.BindVertexArray(r.lineVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.lineVBO)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, nil)
	gl.EnableVertexAttribArray(0)
	gl.BindVertexArray(0)

	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

// Close releases all GL resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	for m := range r.meshes {
		r.Forget(m)
	}
	if r.lineVAO != 0 {
		gl.DeleteVertexArrays(1, &r.lineVAO)
	}
	if r.lineVBO != 0 {
		gl.DeleteBuffers(1, &r.lineVBO)
	}
	r.meshProgram.Delete()
	r.lineProgram.Delete()
}

// Resize sets the framebuffer size in pixels.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized", zap.Int("width", width), zap.Int("height", height))
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// DrawScene draws every visible mesh object.
func (r *Renderer) DrawScene(objects []*scene.Object, viewProj math.Mat4, lightDir math.Vec3) {
	r.meshProgram.Use()
	r.meshProgram.SetMat4("uViewProj", viewProj)
	r.meshProgram.SetVec3("uLightDir", lightDir.Normalize())

	for _, o := range objects {
		if !o.Visible || o.Mesh == nil {
			continue
		}
		g := r.sync(o.Mesh)
		c := terrainColor
		if o.Selected {
			c = selectedColor
		}
		r.meshProgram.SetMat4("uModel", o.Transform)
		r.meshProgram.SetVec4("uColor", c[0], c[1], c[2], c[3])

		gl.BindVertexArray(g.vao)
		gl.DrawElements(gl.TRIANGLES, g.indexCount, gl.UNSIGNED_INT, nil)
	}
	gl.BindVertexArray(0)
}

// sync uploads a mesh the first time it is drawn and again whenever its
// Version changes.
func (r *Renderer) sync(m *scene.TriMesh) *gpuMesh {
	g, ok := r.meshes[m]
	if !ok {
		g = &gpuMesh{}
		gl.GenVertexArrays(1, &g.vao)
		gl.GenBuffers(1, &g.vbo)
		gl.GenBuffers(1, &g.ebo)

		gl.BindVertexArray(g.vao)
		gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
		gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 6*4, nil)
		gl.EnableVertexAttribArray(0)
		gl.VertexAttribPointer(1, 3, gl.FLOAT, false, 6*4, unsafe.Pointer(uintptr(3*4)))
		gl.EnableVertexAttribArray(1)

		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
		if len(m.Indices) > 0 {
			gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, unsafe.Pointer(&m.Indices[0]), gl.STATIC_DRAW)
		}
		g.indexCount = int32(len(m.Indices))
		gl.BindVertexArray(0)

		r.meshes[m] = g
		r.log.Debug("mesh buffers created",
			zap.Uint32("vao", g.vao),
			zap.Int("vertices", m.NumVertices()),
			zap.Int("triangles", m.NumTriangles()))
	}

	if g.uploaded && g.version == m.Version() {
		return g
	}

	r.staging = r.staging[:0]
	for _, v := range m.Vertices {
		r.staging = append(r.staging,
			v.Position.X, v.Position.Y, v.Position.Z,
			v.Normal.X, v.Normal.Y, v.Normal.Z)
	}
	if len(r.staging) > 0 {
		gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
		if g.vertexCount == len(m.Vertices) {
			gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(r.staging)*4, unsafe.Pointer(&r.staging[0]))
		} else {
			gl.BufferData(gl.ARRAY_BUFFER, len(r.staging)*4, unsafe.Pointer(&r.staging[0]), gl.DYNAMIC_DRAW)
		}
		gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	}
	g.vertexCount = len(m.Vertices)
	g.version = m.Version()
	g.uploaded = true
	return g
}

// Forget frees the GPU copy of a mesh that left the scene.
func (r *Renderer) Forget(m *scene.TriMesh) {
	g, ok := r.meshes[m]
	if !ok {
		return
	}
	gl.DeleteVertexArrays(1, &g.vao)
	gl.DeleteBuffers(1, &g.vbo)
	gl.DeleteBuffers(1, &g.ebo)
	delete(r.meshes, m)
}

// DrawLines draws line segments given as x,y,z pairs of endpoints.
// Overlays are drawn without depth testing so they stay visible on the surface.
func (r *Renderer) DrawLines(verts []float32, c Color, viewProj math.Mat4) {
	if len(verts) < 6 {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, r.lineVBO)
	if len(verts) > r.lineCapacity {
		gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, unsafe.Pointer(&verts[0]), gl.STREAM_DRAW)
		r.lineCapacity = len(verts)
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(verts)*4, unsafe.Pointer(&verts[0]))
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	gl.Disable(gl.DEPTH_TEST)
	r.lineProgram.Use()
	r.lineProgram.SetMat4("uViewProj", viewProj)
	r.lineProgram.SetVec4("uColor", c[0], c[1], c[2], c[3])
	gl.BindVertexArray(r.lineVAO)
	gl.DrawArrays(gl.LINES, 0, int32(len(verts)/3))
	gl.BindVertexArray(0)
	gl.Enable(gl.DEPTH_TEST)
}

// ReadPixels returns the back buffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() (pixels []byte, width, height int) {
	width, height = r.config.Width, r.config.Height
	pixels = make([]byte, width*height*4)
	if len(pixels) == 0 {
		return pixels, width, height
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	return pixels, width, height
}

const meshVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;

uniform mat4 uViewProj;
uniform mat4 uModel;

out vec3 vNormal;

void main() {
	vNormal = mat3(transpose(inverse(uModel))) * aNormal;
	gl_Position = uViewProj * uModel * vec4(aPos, 1.0);
}
`

const meshFragmentShader = `
#version 410 core

in vec3 vNormal;

uniform vec3 uLightDir;
uniform vec4 uColor;

out vec4 FragColor;

void main() {
	vec3 n = normalize(vNormal);
	float diffuse = abs(dot(n, -uLightDir));
	FragColor = vec4(uColor.rgb * (0.25 + 0.75 * diffuse), uColor.a);
}
`

const lineVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;

uniform mat4 uViewProj;

void main() {
	gl_Position = uViewProj * vec4(aPos, 1.0);
}
`

const lineFragmentShader = `
#version 410 core

uniform vec4 uColor;

out vec4 FragColor;

void main() {
	FragColor = uColor;
}
`
