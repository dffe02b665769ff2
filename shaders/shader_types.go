package shaders

import (
	"github.com/go-gl/gl/v4.1-core/gl"
)

// ShaderType is a program stage. It indexes the per-stage tables below.
type ShaderType uint8

const (
	ShaderType_Unknown ShaderType = iota
	ShaderType_Vertex
	ShaderType_Fragment
	ShaderType_Geometry

	shaderType_Count
)

var (
	shaderTypeGl = [shaderType_Count]uint32{
		ShaderType_Vertex:   gl.VERTEX_SHADER,
		ShaderType_Fragment: gl.FRAGMENT_SHADER,
		ShaderType_Geometry: gl.GEOMETRY_SHADER,
	}

	shaderTypeNames = [shaderType_Count]string{
		ShaderType_Unknown:  "unknown",
		ShaderType_Vertex:   "vertex",
		ShaderType_Fragment: "fragment",
		ShaderType_Geometry: "geometry",
	}
)

// ToGl returns the GL shader enum of the stage, or 0 for unknown stages
func (s ShaderType) ToGl() uint32 {

	if s >= shaderType_Count {
		return 0
	}

	return shaderTypeGl[s]
}

func (s ShaderType) String() string {

	if s >= shaderType_Count {
		return shaderTypeNames[ShaderType_Unknown]
	}

	return shaderTypeNames[s]
}
