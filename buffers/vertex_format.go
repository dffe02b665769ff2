package buffers

import (
	"github.com/bloeys/nbatch/assert"
)

// VertexFormat describes the interleaved layout of one vertex. Formats are compared by pointer,
// so create each format once and share it.
type VertexFormat struct {
	Name string
	// Stride is the size of one vertex in bytes
	Stride int32
	layout []Element
}

func (f *VertexFormat) GetLayout() []Element {
	e := make([]Element, len(f.layout))
	copy(e, f.layout)
	return e
}

func (f *VertexFormat) SetLayout(layout ...Element) {

	f.Stride = 0
	f.layout = layout

	for i := 0; i < len(f.layout); i++ {

		assert.T(f.layout[i].IsFloat(), "Vertex format '%s' element '%s' has non-float type %s", f.Name, f.layout[i].Name, f.layout[i].ElementType)

		f.layout[i].Offset = int(f.Stride)
		f.Stride += f.layout[i].Size()
	}
}

// FloatsPerVertex is the number of float32 values one vertex takes in a vertex stream
func (f *VertexFormat) FloatsPerVertex() int {
	return int(f.Stride / 4)
}

// Element returns the element with the given attribute name
func (f *VertexFormat) Element(name string) (Element, bool) {

	for i := 0; i < len(f.layout); i++ {
		if f.layout[i].Name == name {
			return f.layout[i], true
		}
	}

	return Element{}, false
}

func NewVertexFormat(name string, layout ...Element) *VertexFormat {
	f := &VertexFormat{Name: name}
	f.SetLayout(layout...)
	return f
}

var (
	// VFmtPosUvColor is the default 2D format: position(xyz), uv, color(rgba)
	VFmtPosUvColor = NewVertexFormat("pos-uv-color",
		Element{Name: AttrPosition, ElementType: DataTypeVec3},
		Element{Name: AttrUV0, ElementType: DataTypeVec2},
		Element{Name: AttrColor, ElementType: DataTypeVec4},
	)

	// VFmtPosColor is used for untextured geometry like clip masks and debug shapes
	VFmtPosColor = NewVertexFormat("pos-color",
		Element{Name: AttrPosition, ElementType: DataTypeVec3},
		Element{Name: AttrColor, ElementType: DataTypeVec4},
	)
)
