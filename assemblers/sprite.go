package assemblers

import (
	"github.com/bloeys/gglm/gglm"
	"github.com/bloeys/nbatch/buffers"
	"github.com/bloeys/nbatch/materials"
	"github.com/bloeys/nbatch/meshes"
	"github.com/bloeys/nbatch/scene"
)

var _ Assembler = &Sprite{}

// Sprite draws a single quad. Its render data always holds world space vertices:
// Update must be called after the node moves and before the frame is committed.
type Sprite struct {
	Base

	local meshes.RenderData
	// synced is false until the world vertices were computed at least once
	synced bool
}

func (s *Sprite) Kind() Kind {
	return Kind_Sprite
}

// SetRect changes the local quad. The world vertices are recomputed on the next Update.
func (s *Sprite) SetRect(x, y, w, h float32) {

	color := gglm.NewVec4(1, 1, 1, 1)
	if el, ok := s.Format.Element(buffers.AttrColor); ok && len(s.Datas[0].Vertices) > 0 {
		copy(color.Data[:], s.Datas[0].Vertices[el.Offset/4:el.Offset/4+4])
	}

	s.local = meshes.NewQuad(s.Format, x, y, w, h, color)
	s.Datas[0] = s.local.Clone()
	s.synced = false
	s.SetDirty(DirtyFlag_VerticesOpacityChanged)
}

// Update recomputes world vertices if the node's transform changed since the last update
func (s *Sprite) Update(node *scene.Node) {

	if s.synced && !node.IsDirty(scene.DirtyFlag_Transform) {
		return
	}

	// Positions are rebuilt from the local quad, colors are left as they are
	world := &s.Datas[0]
	el, _ := s.Format.Element(buffers.AttrPosition)
	stride := s.Format.FloatsPerVertex()
	for v := el.Offset / 4; v < len(world.Vertices); v += stride {
		copy(world.Vertices[v:v+int(el.CompCount())], s.local.Vertices[v:v+int(el.CompCount())])
	}

	transformPositions(world.Vertices, s.Format, node.WorldMatrix())
	s.synced = true
}

func (s *Sprite) FillBuffers(node *scene.Node, buf *buffers.MeshBuffer, i int) {
	fill(buf, &s.Datas[i], nil)
}

func NewSprite(format *buffers.VertexFormat, effect *materials.Effect, x, y, w, h float32) *Sprite {

	s := &Sprite{
		Base: Base{
			Format:  format,
			Effects: []*materials.Effect{effect},
			Datas:   make([]meshes.RenderData, 1),
		},
	}

	s.SetRect(x, y, w, h)
	return s
}
