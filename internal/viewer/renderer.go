package viewer

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/wyrmrig/internal/logger"
	"github.com/Faultbox/wyrmrig/internal/rig"
	"github.com/Faultbox/wyrmrig/internal/scene"
)

const vertexShaderSource = `
	#version 410 core

	layout (location = 0) in vec3 aPos;
	layout (location = 1) in vec3 aNormal;

	uniform mat4 uViewProj;
	uniform mat4 uModel;

	out vec3 vWorldPos;
	out vec3 vNormal;
	out vec3 vLocalPos;

	void main() {
		vec4 world = uModel * vec4(aPos, 1.0);
		vWorldPos = world.xyz;
		vNormal = mat3(transpose(inverse(uModel))) * aNormal;
		vLocalPos = aPos;
		gl_Position = uViewProj * world;
	}
` + "\x00"

// Cuboids are coloured by local position (the RGB cube); cylinders use a
// flat tint. Two point lights: a key and a half-strength fill.
const fragmentShaderSource = `
	#version 410 core

	in vec3 vWorldPos;
	in vec3 vNormal;
	in vec3 vLocalPos;

	uniform int uRGB;
	uniform vec3 uTint;
	uniform vec3 uLights[2];
	uniform float uIntensity[2];

	out vec4 FragColor;

	void main() {
		vec3 base = uRGB == 1 ? vLocalPos + 0.5 : uTint;
		vec3 n = normalize(vNormal);
		float light = 0.2;
		for (int i = 0; i < 2; i++) {
			vec3 l = normalize(uLights[i] - vWorldPos);
			light += uIntensity[i] * max(dot(n, l), 0.0);
		}
		FragColor = vec4(base * light, 1.0);
	}
` + "\x00"

// Light positions and intensities.
var (
	keyLight  = mgl32.Vec3{-20, 20, -20}
	fillLight = mgl32.Vec3{20, 10, -20}
)

// meshBuffers is one uploaded primitive.
type meshBuffers struct {
	vao, vbo, ebo uint32
	count         int32
}

type renderer struct {
	program uint32
	meshes  map[rig.ShapeKind]*meshBuffers

	uViewProj, uModel, uRGB, uTint, uLights, uIntensity int32
}

// newRenderer must be called after the OpenGL context exists.
func newRenderer(background [3]float32) (*renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.Enable(gl.MULTISAMPLE)
	gl.ClearColor(background[0], background[1], background[2], 1.0)

	r := &renderer{meshes: make(map[rig.ShapeKind]*meshBuffers)}

	var err error
	r.program, err = createShaderProgram(vertexShaderSource, fragmentShaderSource)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}
	r.uViewProj = gl.GetUniformLocation(r.program, gl.Str("uViewProj\x00"))
	r.uModel = gl.GetUniformLocation(r.program, gl.Str("uModel\x00"))
	r.uRGB = gl.GetUniformLocation(r.program, gl.Str("uRGB\x00"))
	r.uTint = gl.GetUniformLocation(r.program, gl.Str("uTint\x00"))
	r.uLights = gl.GetUniformLocation(r.program, gl.Str("uLights\x00"))
	r.uIntensity = gl.GetUniformLocation(r.program, gl.Str("uIntensity\x00"))

	for _, kind := range []rig.ShapeKind{rig.ShapeCuboid, rig.ShapeCylinder} {
		r.meshes[kind] = uploadMesh(scene.MeshFor(kind))
	}
	return r, nil
}

func (r *renderer) close() {
	for _, m := range r.meshes {
		gl.DeleteVertexArrays(1, &m.vao)
		gl.DeleteBuffers(1, &m.vbo)
		gl.DeleteBuffers(1, &m.ebo)
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
	}
}

func (r *renderer) resize(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

// draw clears the frame and draws every instance.
func (r *renderer) draw(viewProj mgl32.Mat4, instances []instance) {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.uViewProj, 1, false, &viewProj[0])
	lights := [6]float32{keyLight[0], keyLight[1], keyLight[2], fillLight[0], fillLight[1], fillLight[2]}
	gl.Uniform3fv(r.uLights, 2, &lights[0])
	intensity := [2]float32{1.0, 0.5}
	gl.Uniform1fv(r.uIntensity, 2, &intensity[0])

	for _, in := range instances {
		m := r.meshes[in.kind]
		if m == nil {
			continue
		}
		rgb := int32(0)
		if in.kind == rig.ShapeCuboid {
			rgb = 1
		}
		gl.Uniform1i(r.uRGB, rgb)
		gl.Uniform3f(r.uTint, 0.6, 0.6, 0.65)
		gl.UniformMatrix4fv(r.uModel, 1, false, &in.model[0])

		gl.BindVertexArray(m.vao)
		gl.DrawElements(gl.TRIANGLES, m.count, gl.UNSIGNED_INT, nil)
	}
	gl.BindVertexArray(0)
}

// interleave packs positions and normals as x y z nx ny nz per vertex.
func interleave(m scene.Mesh) []float32 {
	out := make([]float32, 0, len(m.Positions)*6)
	for i, p := range m.Positions {
		n := m.Normals[i]
		out = append(out, p[0], p[1], p[2], n[0], n[1], n[2])
	}
	return out
}

func uploadMesh(m scene.Mesh) *meshBuffers {
	vertices := interleave(m)
	b := &meshBuffers{count: int32(len(m.Indices))}

	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)

	gl.GenBuffers(1, &b.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	gl.GenBuffers(1, &b.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, unsafe.Pointer(&m.Indices[0]), gl.STATIC_DRAW)

	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 6*4, nil)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, 6*4, unsafe.Pointer(uintptr(3*4)))
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	logger.Debug("mesh uploaded",
		zap.Uint32("vao", b.vao),
		zap.Int32("indices", b.count),
	)
	return b
}

func createShaderProgram(vertexSource, fragmentSource string) (uint32, error) {
	vertexShader, err := compileShader(vertexSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex shader: %w", err)
	}
	defer gl.DeleteShader(vertexShader)

	fragmentShader, err := compileShader(fragmentSource, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("fragment shader: %w", err)
	}
	defer gl.DeleteShader(fragmentShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		return 0, fmt.Errorf("link failed: %s", log)
	}

	logger.Debug("shader program created", zap.Uint32("program", program))
	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)

	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		return 0, fmt.Errorf("compile failed: %s", log)
	}
	return shader, nil
}
