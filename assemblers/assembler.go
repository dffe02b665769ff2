// Package assemblers defines what the batcher needs from the objects that turn a node
// into geometry, and provides the mesh, sprite and custom implementations.
package assemblers

import (
	"github.com/bloeys/nbatch/buffers"
	"github.com/bloeys/nbatch/materials"
	"github.com/bloeys/nbatch/meshes"
	"github.com/bloeys/nbatch/scene"
)

// Kind tells the batcher how to treat an assembler without type assertions
type Kind uint8

const (
	// Kind_Standard assemblers hold local space geometry
	Kind_Standard Kind = iota
	// Kind_Sprite assemblers already hold world space vertices in their render data
	Kind_Sprite
	// Kind_Custom assemblers hand over prebuilt input assemblers
	Kind_Custom
)

func (k Kind) String() string {
	switch k {
	case Kind_Standard:
		return "standard"
	case Kind_Sprite:
		return "sprite"
	case Kind_Custom:
		return "custom"
	default:
		return "unknown"
	}
}

type DirtyFlag uint32

const (
	DirtyFlag_None                   DirtyFlag = 0
	DirtyFlag_VerticesOpacityChanged DirtyFlag = 1 << (iota - 1)
)

// Assembler writes a node's geometry into shared mesh buffers
type Assembler interface {
	Kind() Kind
	VertexFormat() *buffers.VertexFormat
	// UseModel means the vertices stay in model space and the node's world matrix is drawn with them
	UseModel() bool
	IgnoreWorldMatrix() bool
	IsDirty(flag DirtyFlag) bool
	IgnoreOpacityFlag() bool

	// IACount is the number of sub-meshes, each one is filled separately
	IACount() int
	BeforeFillBuffers(i int)
	Effect(i int) *materials.Effect
	CustomProperties() *materials.CustomProperties
	UpdateOpacity(i int, opacity float32)
	FillBuffers(node *scene.Node, buf *buffers.MeshBuffer, i int)

	// RenderData returns the source geometry of sub-mesh i, or nil
	RenderData(i int) *meshes.RenderData
}

// CustomAssembler provides input assemblers whose buffers it owns
type CustomAssembler interface {
	Kind() Kind
	Effect(i int) *materials.Effect
	IA(i int) *buffers.InputAssembler
	IACount() int
	UseModel() bool
}
