package scene

import (
	"github.com/bloeys/gglm/gglm"
	"github.com/bloeys/nbatch/refs"
)

type DirtyFlag uint32

const (
	DirtyFlag_None      DirtyFlag = 0
	DirtyFlag_Transform DirtyFlag = 1 << (iota - 1)
	DirtyFlag_Opacity
)

// Node is a minimal transform hierarchy node. It holds what the batcher reads while
// committing draws: a world matrix, an accumulated opacity, and dirty flags.
type Node struct {
	refs.Counter

	Name     string
	Parent   *Node
	Children []*Node

	localMat gglm.Mat4
	worldMat gglm.Mat4

	opacity     float32
	realOpacity float32

	dirty DirtyFlag
}

func (n *Node) AddChild(child *Node) {
	child.Parent = n
	child.dirty |= DirtyFlag_Transform | DirtyFlag_Opacity
	n.Children = append(n.Children, child)
}

func (n *Node) LocalMatrix() *gglm.Mat4 {
	return &n.localMat
}

func (n *Node) SetLocalMatrix(m *gglm.Mat4) {
	n.localMat = *m
	n.dirty |= DirtyFlag_Transform
}

// SetPosition replaces the translation part of the local matrix
func (n *Node) SetPosition(x, y, z float32) {
	n.localMat.Data[3][0] = x
	n.localMat.Data[3][1] = y
	n.localMat.Data[3][2] = z
	n.dirty |= DirtyFlag_Transform
}

func (n *Node) WorldMatrix() *gglm.Mat4 {
	return &n.worldMat
}

func (n *Node) Opacity() float32 {
	return n.opacity
}

func (n *Node) SetOpacity(opacity float32) {

	if opacity < 0 {
		opacity = 0
	} else if opacity > 1 {
		opacity = 1
	}

	n.opacity = opacity
	n.dirty |= DirtyFlag_Opacity
}

// RealOpacity is the opacity multiplied by all ancestor opacities, valid after UpdateWorld
func (n *Node) RealOpacity() float32 {
	return n.realOpacity
}

func (n *Node) IsDirty(flag DirtyFlag) bool {
	return n.dirty&flag != 0
}

// UpdateWorld recomputes world matrices and real opacities of this node and its
// descendants. Dirty flags propagate to children and are kept until ClearDirty.
func (n *Node) UpdateWorld() {

	var parentMat *gglm.Mat4
	parentOpacity := float32(1)
	if n.Parent != nil {
		parentMat = &n.Parent.worldMat
		parentOpacity = n.Parent.realOpacity
	}

	n.updateWorld(parentMat, parentOpacity, DirtyFlag_None)
}

func (n *Node) updateWorld(parentMat *gglm.Mat4, parentOpacity float32, inherited DirtyFlag) {

	n.dirty |= inherited

	if n.IsDirty(DirtyFlag_Transform) {
		if parentMat == nil {
			n.worldMat = n.localMat
		} else {
			n.worldMat = *parentMat.Clone().Mul(&n.localMat)
		}
	}

	if n.IsDirty(DirtyFlag_Opacity) {
		n.realOpacity = parentOpacity * n.opacity
	}

	for i := 0; i < len(n.Children); i++ {
		n.Children[i].updateWorld(&n.worldMat, n.realOpacity, n.dirty)
	}
}

// ClearDirty clears the flags of this node and its descendants, call it once a frame was submitted
func (n *Node) ClearDirty() {

	n.dirty = DirtyFlag_None
	for i := 0; i < len(n.Children); i++ {
		n.Children[i].ClearDirty()
	}
}

// Walk visits the node and its descendants in paint order (parents before children)
func (n *Node) Walk(visit func(*Node)) {

	visit(n)
	for i := 0; i < len(n.Children); i++ {
		n.Children[i].Walk(visit)
	}
}

func NewNode(name string) *Node {
	return &Node{
		Name:        name,
		localMat:    gglm.NewMat4Diag(1),
		worldMat:    gglm.NewMat4Diag(1),
		opacity:     1,
		realOpacity: 1,
		dirty:       DirtyFlag_Transform | DirtyFlag_Opacity,
	}
}
