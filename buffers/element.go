package buffers

import (
	"github.com/bloeys/nbatch/assert"
)

// Common attribute names used by the built-in vertex formats and assemblers
const (
	AttrPosition = "a_position"
	AttrUV0      = "a_uv0"
	AttrColor    = "a_color"
)

// Element represents an element that makes up a vertex (e.g. a Vec3 position at an offset of 12 bytes)
type Element struct {
	Name   string
	Offset int
	ElementType
}

// ElementType is the type of an element thats makes up a vertex (e.g. Vec3)
type ElementType uint8

const (
	DataTypeUnknown ElementType = iota

	DataTypeUint32
	DataTypeInt32
	DataTypeFloat32

	DataTypeVec2
	DataTypeVec3
	DataTypeVec4

	DataTypeMat2
	DataTypeMat3
	DataTypeMat4
)

// CompSize returns the size in bytes for one component of the type (e.g. for Vec2 its 4)
func (dt ElementType) CompSize() int32 {

	switch dt {
	case DataTypeUint32, DataTypeInt32, DataTypeFloat32,
		DataTypeVec2, DataTypeVec3, DataTypeVec4,
		DataTypeMat2, DataTypeMat3, DataTypeMat4:
		return 4

	default:
		assert.T(false, "Unknown data type passed. DataType '%d'", dt)
		return 0
	}
}

// CompCount returns the number of components in the element (e.g. for Vec2 its 2)
func (dt ElementType) CompCount() int32 {

	switch dt {
	case DataTypeUint32, DataTypeInt32, DataTypeFloat32:
		return 1

	case DataTypeVec2:
		return 2
	case DataTypeVec3:
		return 3
	case DataTypeVec4:
		return 4

	case DataTypeMat2:
		return 2 * 2
	case DataTypeMat3:
		return 3 * 3
	case DataTypeMat4:
		return 4 * 4

	default:
		assert.T(false, "Unknown data type passed. DataType '%d'", dt)
		return 0
	}
}

// Size returns the total size in bytes (e.g. for vec3 its 3*4=12 bytes)
func (dt ElementType) Size() int32 {
	return dt.CompSize() * dt.CompCount()
}

// IsFloat is true for the types that can live in a float32 vertex stream
func (dt ElementType) IsFloat() bool {
	return dt >= DataTypeFloat32 && dt <= DataTypeMat4
}

func (dt ElementType) String() string {

	switch dt {

	case DataTypeUint32:
		return "uint32"
	case DataTypeFloat32:
		return "float32"
	case DataTypeInt32:
		return "int32"

	case DataTypeVec2:
		return "Vec2"
	case DataTypeVec3:
		return "Vec3"
	case DataTypeVec4:
		return "Vec4"

	case DataTypeMat2:
		return "Mat2"
	case DataTypeMat3:
		return "Mat3"
	case DataTypeMat4:
		return "Mat4"

	default:
		return "Unknown"
	}
}
