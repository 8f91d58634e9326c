package opengl

import (
	"fmt"
	"log/slog"
	"strings"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"debris-sandbox/core"
	"debris-sandbox/math"
	"debris-sandbox/scene"
)

// GPUMesh holds the OpenGL buffer objects for an uploaded mesh.
type GPUMesh struct {
	VAO        uint32
	VBO        uint32
	EBO        uint32
	IndexCount int32
}

// Renderer draws triangle meshes in a single flat colour each. Meshes are
// uploaded once per *scene.TriangleMesh, so bodies sharing a mesh share
// its buffers.
type Renderer struct {
	program   uint32
	mvpLoc    int32
	modelLoc  int32
	colorLoc  int32
	gpuMeshes map[*scene.TriangleMesh]*GPUMesh
	logger    *slog.Logger
}

// vertex shader: MVP transform, world position for face normals
const vertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;

uniform mat4 mvp;
uniform mat4 model;

out vec3 worldPos;

void main() {
    gl_Position = mvp * vec4(inPosition, 1.0);
    worldPos    = (model * vec4(inPosition, 1.0)).xyz;
}
` + "\x00"

// fragment shader: flat colour, face normal from screen-space derivatives
const fragSrc = `
#version 410 core
in vec3 worldPos;

uniform vec4 color;

out vec4 outColor;

void main() {
    vec3  n        = normalize(cross(dFdx(worldPos), dFdy(worldPos)));
    vec3  lightDir = normalize(vec3(0.5, -1.0, -0.5));
    float diff     = max(dot(n, -lightDir), 0.0);
    outColor = vec4(color.rgb * (0.35 + 0.65 * diff), color.a);
}
` + "\x00"

// NewRenderer initialises OpenGL.
// Must be called after the GLFW window context is made current.
func NewRenderer(logger *slog.Logger) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("opengl ready", "version", gl.GoStr(gl.GetString(gl.VERSION)))

	prog, err := newProgram(vertSrc, fragSrc)
	if err != nil {
		return nil, fmt.Errorf("shader compile: %w", err)
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	r := &Renderer{
		program:   prog,
		mvpLoc:    gl.GetUniformLocation(prog, gl.Str("mvp\x00")),
		modelLoc:  gl.GetUniformLocation(prog, gl.Str("model\x00")),
		colorLoc:  gl.GetUniformLocation(prog, gl.Str("color\x00")),
		gpuMeshes: make(map[*scene.TriangleMesh]*GPUMesh),
		logger:    logger,
	}
	return r, nil
}

// SetViewport resizes the OpenGL viewport.
func (r *Renderer) SetViewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

// BeginFrame clears the framebuffer with the given colour.
func (r *Renderer) BeginFrame(sky core.Color) {
	gl.ClearColor(sky.R, sky.G, sky.B, sky.A)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// DrawBody uploads mesh on first use, then draws it with the given model
// and view-projection matrices. Translucent colours are alpha blended.
func (r *Renderer) DrawBody(mesh *scene.TriangleMesh, color core.Color, model, viewProj math.Mat4) {
	gpu := r.ensureUploaded(mesh)
	if gpu == nil {
		return
	}
	mvp := model.Mul(viewProj)

	gl.UseProgram(r.program)
	// Mat4 rows map to GL columns, so it is passed directly (transpose=false).
	gl.UniformMatrix4fv(r.mvpLoc, 1, false, (*float32)(unsafe.Pointer(&mvp[0][0])))
	gl.UniformMatrix4fv(r.modelLoc, 1, false, (*float32)(unsafe.Pointer(&model[0][0])))
	gl.Uniform4f(r.colorLoc, color.R, color.G, color.B, color.A)

	if color.A < 1 {
		gl.Enable(gl.BLEND)
		defer gl.Disable(gl.BLEND)
	}

	gl.BindVertexArray(gpu.VAO)
	gl.DrawElements(gl.TRIANGLES, gpu.IndexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// Uploaded returns how many distinct meshes live on the GPU.
func (r *Renderer) Uploaded() int {
	return len(r.gpuMeshes)
}

// ReleaseMesh frees GPU buffers for the given mesh.
func (r *Renderer) ReleaseMesh(mesh *scene.TriangleMesh) {
	if gpu, ok := r.gpuMeshes[mesh]; ok {
		gl.DeleteVertexArrays(1, &gpu.VAO)
		gl.DeleteBuffers(1, &gpu.VBO)
		gl.DeleteBuffers(1, &gpu.EBO)
		delete(r.gpuMeshes, mesh)
	}
}

// Destroy releases all GPU resources.
func (r *Renderer) Destroy() {
	for mesh := range r.gpuMeshes {
		r.ReleaseMesh(mesh)
	}
	gl.DeleteProgram(r.program)
}

// ensureUploaded uploads position/index data if not already done.
func (r *Renderer) ensureUploaded(mesh *scene.TriangleMesh) *GPUMesh {
	if gpu, ok := r.gpuMeshes[mesh]; ok {
		return gpu
	}
	if len(mesh.Positions) == 0 || len(mesh.Indices) == 0 {
		return nil
	}

	stride := int32(unsafe.Sizeof(math.Vec3{}))
	gpu := &GPUMesh{IndexCount: int32(len(mesh.Indices))}

	gl.GenVertexArrays(1, &gpu.VAO)
	gl.GenBuffers(1, &gpu.VBO)
	gl.BindVertexArray(gpu.VAO)

	gl.BindBuffer(gl.ARRAY_BUFFER, gpu.VBO)
	gl.BufferData(gl.ARRAY_BUFFER,
		len(mesh.Positions)*int(stride),
		gl.Ptr(mesh.Positions),
		gl.STATIC_DRAW)

	// location 0: Position (vec3)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))

	gl.GenBuffers(1, &gpu.EBO)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gpu.EBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER,
		len(mesh.Indices)*4,
		gl.Ptr(mesh.Indices),
		gl.STATIC_DRAW)

	gl.BindVertexArray(0)

	r.gpuMeshes[mesh] = gpu
	r.logger.Debug("mesh uploaded", "mesh", mesh.Name, "triangles", mesh.TriangleCount())
	return gpu
}

// ── shader helpers ────────────────────────────────────────────────────────────

func newProgram(vertSrc, fragSrc string) (uint32, error) {
	vert, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex: %w", err)
	}
	defer gl.DeleteShader(vert)
	frag, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("fragment: %w", err)
	}
	defer gl.DeleteShader(frag)

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var n int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &n)
		msg := infoLog(n, func(buf *uint8) { gl.GetProgramInfoLog(prog, n, nil, buf) })
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("link failed: %s", msg)
	}
	return prog, nil
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var n int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &n)
		msg := infoLog(n, func(buf *uint8) { gl.GetShaderInfoLog(shader, n, nil, buf) })
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile failed: %s", msg)
	}
	return shader, nil
}

// infoLog reads an n-byte driver log through fill and trims the terminator.
func infoLog(n int32, fill func(buf *uint8)) string {
	log := strings.Repeat("\x00", int(n+1))
	fill(gl.Str(log))
	return strings.TrimRight(log, "\x00")
}
