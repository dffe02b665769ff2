package assemblers

import (
	"github.com/bloeys/gglm/gglm"
	"github.com/bloeys/nbatch/assert"
	"github.com/bloeys/nbatch/buffers"
	"github.com/bloeys/nbatch/materials"
	"github.com/bloeys/nbatch/meshes"
)

// Base implements the bookkeeping shared by the mesh and sprite assemblers.
// Datas holds the geometry that is copied into mesh buffers.
type Base struct {
	Format  *buffers.VertexFormat
	Effects []*materials.Effect
	Props   *materials.CustomProperties
	Datas   []meshes.RenderData

	useModel          bool
	ignoreWorldMatrix bool
	ignoreOpacity     bool
	dirty             DirtyFlag

	// baseAlphas are the color alphas before opacity is applied, one per sub-mesh
	baseAlphas []float32
}

func (b *Base) VertexFormat() *buffers.VertexFormat {
	return b.Format
}

func (b *Base) UseModel() bool {
	return b.useModel
}

func (b *Base) SetUseModel(useModel bool) {
	b.useModel = useModel
}

func (b *Base) IgnoreWorldMatrix() bool {
	return b.ignoreWorldMatrix
}

func (b *Base) SetIgnoreWorldMatrix(ignore bool) {
	b.ignoreWorldMatrix = ignore
}

func (b *Base) IgnoreOpacityFlag() bool {
	return b.ignoreOpacity
}

func (b *Base) SetIgnoreOpacityFlag(ignore bool) {
	b.ignoreOpacity = ignore
}

func (b *Base) IsDirty(flag DirtyFlag) bool {
	return b.dirty&flag != 0
}

func (b *Base) SetDirty(flag DirtyFlag) {
	b.dirty |= flag
}

func (b *Base) ClearDirty() {
	b.dirty = DirtyFlag_None
}

func (b *Base) IACount() int {
	return len(b.Datas)
}

func (b *Base) BeforeFillBuffers(i int) {}

// Effect returns the effect of sub-mesh i. Sub-meshes past the end of Effects use the last effect.
func (b *Base) Effect(i int) *materials.Effect {

	if len(b.Effects) == 0 {
		return nil
	}

	if i >= len(b.Effects) {
		return b.Effects[len(b.Effects)-1]
	}

	return b.Effects[i]
}

func (b *Base) CustomProperties() *materials.CustomProperties {
	return b.Props
}

func (b *Base) RenderData(i int) *meshes.RenderData {

	if i < 0 || i >= len(b.Datas) {
		return nil
	}

	return &b.Datas[i]
}

// SetColor sets the color of every vertex of sub-mesh i. The alpha is kept as the base for opacity.
func (b *Base) SetColor(i int, color gglm.Vec4) {

	el, ok := b.Format.Element(buffers.AttrColor)
	if !ok {
		return
	}

	b.baseAlpha(i)
	b.baseAlphas[i] = color.Data[3]

	rd := &b.Datas[i]
	stride := b.Format.FloatsPerVertex()
	for v := el.Offset / 4; v < len(rd.Vertices); v += stride {
		copy(rd.Vertices[v:v+4], color.Data[:])
	}

	b.SetDirty(DirtyFlag_VerticesOpacityChanged)
}

func (b *Base) baseAlpha(i int) float32 {

	for len(b.baseAlphas) <= i {
		b.baseAlphas = append(b.baseAlphas, 1)
	}

	return b.baseAlphas[i]
}

// UpdateOpacity writes baseAlpha*opacity into the alpha of every vertex of sub-mesh i
func (b *Base) UpdateOpacity(i int, opacity float32) {

	el, ok := b.Format.Element(buffers.AttrColor)
	if !ok {
		return
	}

	alpha := b.baseAlpha(i) * opacity
	rd := &b.Datas[i]
	stride := b.Format.FloatsPerVertex()
	for v := el.Offset/4 + 3; v < len(rd.Vertices); v += stride {
		rd.Vertices[v] = alpha
	}
}

// fill copies rd into buf, transforming positions by worldMat if it is not nil
func fill(buf *buffers.MeshBuffer, rd *meshes.RenderData, worldMat *gglm.Mat4) {

	assert.T(rd.Format == buf.Format, "Render data format '%s' does not match mesh buffer format '%s'", rd.Format.Name, buf.Format.Name)

	vertexCount := rd.VertexCount()
	off := buf.Request(vertexCount, len(rd.Indices))

	dst := buf.VData[off.Float : off.Float+len(rd.Vertices)]
	copy(dst, rd.Vertices)

	if worldMat != nil {
		transformPositions(dst, rd.Format, worldMat)
	}

	idx := buf.IData[off.Index : off.Index+len(rd.Indices)]
	for j := 0; j < len(rd.Indices); j++ {
		assert.T(int(rd.Indices[j]) < vertexCount, "Index %d is out of range of %d vertices", rd.Indices[j], vertexCount)
		idx[j] = rd.Indices[j] + uint16(off.Vertex)
	}
}

// transformPositions applies m to the position element of every vertex in place
func transformPositions(verts []float32, format *buffers.VertexFormat, m *gglm.Mat4) {

	el, ok := format.Element(buffers.AttrPosition)
	if !ok {
		return
	}

	is3D := el.CompCount() >= 3
	stride := format.FloatsPerVertex()
	for v := el.Offset / 4; v < len(verts); v += stride {

		x, y := verts[v], verts[v+1]
		var z float32
		if is3D {
			z = verts[v+2]
		}

		verts[v] = m.Data[0][0]*x + m.Data[1][0]*y + m.Data[2][0]*z + m.Data[3][0]
		verts[v+1] = m.Data[0][1]*x + m.Data[1][1]*y + m.Data[2][1]*z + m.Data[3][1]
		if is3D {
			verts[v+2] = m.Data[0][2]*x + m.Data[1][2]*y + m.Data[2][2]*z + m.Data[3][2]
		}
	}
}
