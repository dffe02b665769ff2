package meshes

import (
	"github.com/bloeys/gglm/gglm"
	"github.com/bloeys/nbatch/assert"
	"github.com/bloeys/nbatch/buffers"
)

// RenderData is the CPU side geometry of one sub-mesh: interleaved vertices laid out
// according to Format, and uint16 indices relative to the first vertex.
type RenderData struct {
	Format   *buffers.VertexFormat
	Vertices []float32
	Indices  []uint16
}

func (rd *RenderData) VertexCount() int {
	return len(rd.Vertices) / rd.Format.FloatsPerVertex()
}

// Clone returns a deep copy, used by assemblers that need to keep an untouched source
func (rd *RenderData) Clone() RenderData {
	return RenderData{
		Format:   rd.Format,
		Vertices: append([]float32(nil), rd.Vertices...),
		Indices:  append([]uint16(nil), rd.Indices...),
	}
}

// Mesh is a named list of sub-meshes. Each sub-mesh becomes one input assembler when drawn.
type Mesh struct {
	Name      string
	SubMeshes []RenderData
}

// NewRenderData interleaves the given attribute arrays in the order of the format's elements
func NewRenderData(format *buffers.VertexFormat, indices []uint16, arrs ...ArrToInterleave) RenderData {

	layout := format.GetLayout()
	assert.T(len(layout) == len(arrs), "Vertex format '%s' has %d elements but %d arrays were given", format.Name, len(layout), len(arrs))

	for i := 0; i < len(layout); i++ {
		assert.T(layout[i].CompCount() == arrs[i].compCount(), "Element '%s' of format '%s' expects %d components but array %d has %d", layout[i].Name, format.Name, layout[i].CompCount(), i, arrs[i].compCount())
	}

	return RenderData{
		Format:   format,
		Vertices: interleave(arrs...),
		Indices:  indices,
	}
}

// QuadIndices are the indices of two triangles making up a quad whose vertices are ordered bl, br, tl, tr
var QuadIndices = []uint16{0, 1, 2, 1, 3, 2}

// NewQuad builds an axis aligned quad at (x, y) with size (w, h) for any format made of
// position, uv and color elements. Unknown attribute names are zero filled.
func NewQuad(format *buffers.VertexFormat, x, y, w, h float32, color gglm.Vec4) RenderData {

	layout := format.GetLayout()
	arrs := make([]ArrToInterleave, len(layout))

	for i := 0; i < len(layout); i++ {

		switch layout[i].Name {
		case buffers.AttrPosition:
			arrs[i].V3s = []gglm.Vec3{
				gglm.NewVec3(x, y, 0),
				gglm.NewVec3(x+w, y, 0),
				gglm.NewVec3(x, y+h, 0),
				gglm.NewVec3(x+w, y+h, 0),
			}

		case buffers.AttrUV0:
			arrs[i].V2s = []gglm.Vec2{
				gglm.NewVec2(0, 1),
				gglm.NewVec2(1, 1),
				gglm.NewVec2(0, 0),
				gglm.NewVec2(1, 0),
			}

		case buffers.AttrColor:
			arrs[i].V4s = []gglm.Vec4{color, color, color, color}

		default:
			arrs[i] = zeroArr(layout[i].CompCount(), 4)
		}
	}

	return NewRenderData(format, append([]uint16(nil), QuadIndices...), arrs...)
}

func zeroArr(compCount int32, n int) ArrToInterleave {

	switch compCount {
	case 2:
		return ArrToInterleave{V2s: make([]gglm.Vec2, n)}
	case 3:
		return ArrToInterleave{V3s: make([]gglm.Vec3, n)}
	case 4:
		return ArrToInterleave{V4s: make([]gglm.Vec4, n)}
	}

	assert.T(false, "Can not zero fill an element with %d components", compCount)
	return ArrToInterleave{}
}
