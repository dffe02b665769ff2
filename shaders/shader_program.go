package shaders

import (
	"errors"
	"strings"

	"github.com/bloeys/gglm/gglm"
	"github.com/bloeys/nbatch/logging"
	"github.com/go-gl/gl/v4.1-core/gl"
)

type ShaderProgram struct {
	Id           uint32
	VertShaderId uint32
	FragShaderId uint32
	GeomShaderId uint32

	unifLocs map[string]int32
}

func (sp *ShaderProgram) AttachShader(shader Shader) {

	gl.AttachShader(sp.Id, shader.Id)
	switch shader.Type {
	case ShaderType_Vertex:
		sp.VertShaderId = shader.Id
	case ShaderType_Fragment:
		sp.FragShaderId = shader.Id
	case ShaderType_Geometry:
		sp.GeomShaderId = shader.Id
	default:
		logging.ErrLog.Fatalf("Unknown shader type '%d' for shader id '%d'\n", shader.Type, shader.Id)
	}
}

func (sp *ShaderProgram) Link() error {

	gl.LinkProgram(sp.Id)

	if sp.VertShaderId != 0 {
		gl.DeleteShader(sp.VertShaderId)
	}

	if sp.FragShaderId != 0 {
		gl.DeleteShader(sp.FragShaderId)
	}

	if sp.GeomShaderId != 0 {
		gl.DeleteShader(sp.GeomShaderId)
	}

	var linked int32
	gl.GetProgramiv(sp.Id, gl.LINK_STATUS, &linked)
	if linked == gl.TRUE {
		return nil
	}

	var logLength int32
	gl.GetProgramiv(sp.Id, gl.INFO_LOG_LENGTH, &logLength)

	log := gl.Str(strings.Repeat("\x00", int(logLength)))
	gl.GetProgramInfoLog(sp.Id, logLength, nil, log)

	errMsg := gl.GoStr(log)
	logging.ErrLog.Println("Linking of shader program with id ", sp.Id, " failed. Err: ", errMsg)
	return errors.New(errMsg)
}

func (sp *ShaderProgram) Bind() {
	gl.UseProgram(sp.Id)
}

func (sp *ShaderProgram) UnBind() {
	gl.UseProgram(0)
}

func (sp *ShaderProgram) Delete() {
	gl.DeleteProgram(sp.Id)
	sp.Id = 0
}

// GetUnifLoc returns the location of a uniform, or -1 if the program does not use it.
// Locations are cached per program.
func (sp *ShaderProgram) GetUnifLoc(uniformName string) int32 {

	loc, ok := sp.unifLocs[uniformName]
	if ok {
		return loc
	}

	name := gl.Str(uniformName + "\x00")
	loc = gl.GetUniformLocation(sp.Id, name)
	sp.unifLocs[uniformName] = loc
	return loc
}

func (sp *ShaderProgram) SetUnifInt32(uniformName string, val int32) {
	gl.ProgramUniform1i(sp.Id, sp.GetUnifLoc(uniformName), val)
}

func (sp *ShaderProgram) SetUnifFloat32(uniformName string, val float32) {
	gl.ProgramUniform1f(sp.Id, sp.GetUnifLoc(uniformName), val)
}

func (sp *ShaderProgram) SetUnifVec4(uniformName string, vec4 *gglm.Vec4) {
	gl.ProgramUniform4fv(sp.Id, sp.GetUnifLoc(uniformName), 1, &vec4.Data[0])
}

func (sp *ShaderProgram) SetUnifMat4(uniformName string, mat4 *gglm.Mat4) {
	gl.ProgramUniformMatrix4fv(sp.Id, sp.GetUnifLoc(uniformName), 1, false, &mat4.Data[0][0])
}

// SetUnifFloats sets a float, vecN or mat4 uniform from its flattened values.
// The uniform type is picked from len(vals).
func (sp *ShaderProgram) SetUnifFloats(uniformName string, vals []float32) {

	loc := sp.GetUnifLoc(uniformName)
	if loc == -1 || len(vals) == 0 {
		return
	}

	switch len(vals) {
	case 1:
		gl.ProgramUniform1fv(sp.Id, loc, 1, &vals[0])
	case 2:
		gl.ProgramUniform2fv(sp.Id, loc, 1, &vals[0])
	case 3:
		gl.ProgramUniform3fv(sp.Id, loc, 1, &vals[0])
	case 4:
		gl.ProgramUniform4fv(sp.Id, loc, 1, &vals[0])
	case 16:
		gl.ProgramUniformMatrix4fv(sp.Id, loc, 1, false, &vals[0])
	default:
		logging.WarnLog.Printf("Uniform '%s' has %d values which does not match any supported type\n", uniformName, len(vals))
	}
}
