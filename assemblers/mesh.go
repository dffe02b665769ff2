package assemblers

import (
	"github.com/bloeys/nbatch/assert"
	"github.com/bloeys/nbatch/buffers"
	"github.com/bloeys/nbatch/materials"
	"github.com/bloeys/nbatch/meshes"
	"github.com/bloeys/nbatch/scene"
)

var _ Assembler = &Mesh{}

// Mesh draws local space sub-meshes. Without UseModel the vertices are moved to world
// space while filling so they can share buffers with other draws. With UseModel they are
// copied as is and the node's world matrix travels with the model.
type Mesh struct {
	Base
}

func (m *Mesh) Kind() Kind {
	return Kind_Standard
}

func (m *Mesh) FillBuffers(node *scene.Node, buf *buffers.MeshBuffer, i int) {

	if m.UseModel() {
		fill(buf, &m.Datas[i], nil)
		return
	}

	fill(buf, &m.Datas[i], node.WorldMatrix())
}

func NewMesh(mesh *meshes.Mesh, effects ...*materials.Effect) *Mesh {

	assert.T(len(mesh.SubMeshes) > 0, "Mesh '%s' has no sub-meshes", mesh.Name)

	m := &Mesh{
		Base: Base{
			Format:  mesh.SubMeshes[0].Format,
			Effects: effects,
			Datas:   make([]meshes.RenderData, len(mesh.SubMeshes)),
		},
	}

	for i := 0; i < len(mesh.SubMeshes); i++ {
		assert.T(mesh.SubMeshes[i].Format == m.Format, "Sub-mesh %d of mesh '%s' does not use the format of the first sub-mesh", i, mesh.Name)
		m.Datas[i] = mesh.SubMeshes[i].Clone()
	}

	return m
}
