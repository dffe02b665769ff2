package scene

import (
	"github.com/bloeys/gglm/gglm"
	"github.com/bloeys/nbatch/buffers"
	"github.com/bloeys/nbatch/materials"
)

// Model is one draw call: an input assembler drawn with an effect and a world matrix.
// Models hold a reference on their effect and node until Reset.
type Model struct {
	worldMat    gglm.Mat4
	cullingMask uint32
	effect      *materials.Effect
	customProps *materials.CustomProperties
	node        *Node
	ia          buffers.InputAssembler
	// stencil is copied from the effect when the model is emitted, since one effect
	// can be drawn both inside and outside a mask in the same frame
	stencil materials.StencilState
}

func (m *Model) WorldMatrix() *gglm.Mat4 {
	return &m.worldMat
}

func (m *Model) SetWorldMatrix(mat *gglm.Mat4) {
	m.worldMat = *mat
}

func (m *Model) CullingMask() uint32 {
	return m.cullingMask
}

func (m *Model) SetCullingMask(mask uint32) {
	m.cullingMask = mask
}

func (m *Model) Effect() *materials.Effect {
	return m.effect
}

func (m *Model) CustomProperties() *materials.CustomProperties {
	return m.customProps
}

func (m *Model) SetEffect(effect *materials.Effect, customProps *materials.CustomProperties) {

	if m.effect != effect {
		if m.effect != nil {
			m.effect.Release()
		}
		if effect != nil {
			effect.Retain()
		}
		m.effect = effect
	}

	m.customProps = customProps
}

func (m *Model) Node() *Node {
	return m.node
}

func (m *Model) SetNode(node *Node) {

	if m.node == node {
		return
	}

	if m.node != nil {
		m.node.Release()
	}
	if node != nil {
		node.Retain()
	}
	m.node = node
}

func (m *Model) Stencil() *materials.StencilState {
	return &m.stencil
}

func (m *Model) SetStencil(st materials.StencilState) {
	m.stencil = st
}

func (m *Model) InputAssembler() *buffers.InputAssembler {
	return &m.ia
}

func (m *Model) SetInputAssembler(ia buffers.InputAssembler) {
	m.ia = ia
}

// Reset drops the references the model holds so it can be reused
func (m *Model) Reset() {
	m.SetEffect(nil, nil)
	m.SetNode(nil)
	m.ia.Clear()
	m.cullingMask = 0
	m.stencil = materials.StencilState{}
	m.worldMat = gglm.NewMat4Diag(1)
}

func NewModel() *Model {
	return &Model{
		worldMat: gglm.NewMat4Diag(1),
	}
}
