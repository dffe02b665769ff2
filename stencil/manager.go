// Package stencil tracks nested clip masks and writes the matching stencil state into
// effects as the batcher emits models.
//
// A mask is drawn in two steps: Clear (draws the mask's bounds to zero its bit),
// then EnterLevel (draws the mask shape to set its bit). After EnableMask every
// effect handled tests against the bits of all pushed masks until ExitMask.
package stencil

import (
	"github.com/bloeys/nbatch/assert"
	"github.com/bloeys/nbatch/materials"
)

// MaxLevels is the deepest supported mask nesting with an 8 bit stencil buffer
const MaxLevels = 8

type Stage uint8

const (
	Stage_Disabled Stage = iota
	Stage_Clear
	Stage_EnterLevel
	Stage_Enabled
)

func (s Stage) String() string {
	switch s {
	case Stage_Disabled:
		return "disabled"
	case Stage_Clear:
		return "clear"
	case Stage_EnterLevel:
		return "enter-level"
	case Stage_Enabled:
		return "enabled"
	default:
		return "unknown"
	}
}

type Mask struct {
	// Inverted masks clip away what is inside the shape instead of outside
	Inverted bool
}

type Manager struct {
	stage     Stage
	maskStack []Mask
}

func (m *Manager) Stage() Stage {
	return m.stage
}

func (m *Manager) Depth() int {
	return len(m.maskStack)
}

func (m *Manager) PushMask(mask Mask) {
	assert.T(len(m.maskStack) < MaxLevels, "Stencil masks nested deeper than %d levels", MaxLevels)
	m.maskStack = append(m.maskStack, mask)
}

func (m *Manager) Clear() {
	assert.T(len(m.maskStack) > 0, "Stencil Clear called with no pushed mask")
	m.stage = Stage_Clear
}

func (m *Manager) EnterLevel() {
	assert.T(len(m.maskStack) > 0, "Stencil EnterLevel called with no pushed mask")
	m.stage = Stage_EnterLevel
}

func (m *Manager) EnableMask() {
	m.stage = Stage_Enabled
}

func (m *Manager) ExitMask() {

	assert.T(len(m.maskStack) > 0, "Stencil ExitMask called with no pushed mask")
	m.maskStack = m.maskStack[:len(m.maskStack)-1]

	if len(m.maskStack) == 0 {
		m.stage = Stage_Disabled
	} else {
		m.stage = Stage_Enabled
	}
}

// Reset drops all masks, it is called by the batcher at the start of every frame
func (m *Manager) Reset() {
	m.maskStack = m.maskStack[:0]
	m.stage = Stage_Disabled
}

func (m *Manager) writeMask() uint8 {
	return 1 << (len(m.maskStack) - 1)
}

func (m *Manager) stencilRef() uint8 {

	var ref uint8
	for i := 0; i < len(m.maskStack); i++ {
		ref |= 1 << i
	}

	return ref
}

// HandleEffect writes the stencil state for the current stage into the effect
func (m *Manager) HandleEffect(effect *materials.Effect) {

	if m.stage == Stage_Disabled {
		effect.Stencil = materials.StencilState{}
		return
	}

	st := materials.StencilState{
		Enabled:   true,
		ReadMask:  0xff,
		WriteMask: 0xff,
		FailOp:    materials.StencilOp_Keep,
		ZFailOp:   materials.StencilOp_Keep,
		ZPassOp:   materials.StencilOp_Keep,
	}

	top := m.maskStack[len(m.maskStack)-1]

	switch m.stage {
	case Stage_Enabled:
		st.Func = materials.StencilFunc_Equal
		st.Ref = m.stencilRef()
		st.ReadMask = st.Ref
		st.WriteMask = m.writeMask()

	case Stage_Clear:
		st.Func = materials.StencilFunc_Never
		st.FailOp = materials.StencilOp_Zero
		if top.Inverted {
			st.FailOp = materials.StencilOp_Replace
		}
		st.Ref = m.writeMask()
		st.ReadMask = st.Ref
		st.WriteMask = st.Ref

	case Stage_EnterLevel:
		st.Func = materials.StencilFunc_Never
		st.FailOp = materials.StencilOp_Replace
		if top.Inverted {
			st.FailOp = materials.StencilOp_Zero
		}
		st.Ref = m.writeMask()
		st.ReadMask = st.Ref
		st.WriteMask = st.Ref
	}

	effect.Stencil = st
}

func NewManager() *Manager {
	return &Manager{
		maskStack: make([]Mask, 0, MaxLevels),
	}
}
