package rend3dgl

import (
	"strings"

	"github.com/bloeys/gglm/gglm"
	"github.com/bloeys/nbatch/buffers"
	"github.com/bloeys/nbatch/logging"
	"github.com/bloeys/nbatch/materials"
	"github.com/bloeys/nbatch/renderer"
	"github.com/bloeys/nbatch/scene"
	"github.com/bloeys/nbatch/shaders"
	"github.com/go-gl/gl/v4.1-core/gl"
)

var _ renderer.Render = &Rend3DGL{}

type vaoKey struct {
	vb uint32
	ib uint32
}

type Rend3DGL struct {
	ProjViewMat gglm.Mat4

	BoundVaoId  uint32
	BoundProgId uint32

	vaos map[vaoKey]*VertexArray
	// programs is keyed by programKey
	programs map[string]*shaders.ShaderProgram
	// failed holds program keys that did not compile, so they are not retried every frame
	failed map[string]struct{}

	stencilEnabled bool
}

func (r *Rend3DGL) DrawModels(models []*scene.Model) {
	for _, m := range models {
		r.drawModel(m)
	}
}

func (r *Rend3DGL) drawModel(m *scene.Model) {

	effect := m.Effect()
	ia := m.InputAssembler()
	if effect == nil || ia.Count <= 0 || ia.VertexBuffer == nil || ia.IndexBuffer == nil {
		return
	}

	prog := r.program(effect)
	if prog == nil {
		return
	}

	vao := r.vertexArray(ia)
	if vao.Id != r.BoundVaoId {
		vao.Bind()
		r.BoundVaoId = vao.Id
	}

	if prog.Id != r.BoundProgId {
		prog.Bind()
		prog.SetUnifMat4("projViewMat", &r.ProjViewMat)
		r.BoundProgId = prog.Id
	}

	r.applyEffect(prog, effect)
	r.applyStencil(m.Stencil())

	if effect.Settings.Has(materials.EffectSettings_HasModelMtx) {
		prog.SetUnifMat4("modelMat", m.WorldMatrix())
	}

	if cp := m.CustomProperties(); cp != nil {
		for _, name := range cp.Names() {
			u, _ := cp.Get(name)
			prog.SetUnifFloats(name, u.Floats())
		}
	}

	gl.DrawElementsWithOffset(gl.TRIANGLES, int32(ia.Count), gl.UNSIGNED_SHORT, uintptr(ia.Start*2))
}

func (r *Rend3DGL) program(effect *materials.Effect) *shaders.ShaderProgram {

	defines := effect.DefineLines()
	key := programKey(effect.ShaderSrc, defines)
	if prog, ok := r.programs[key]; ok {
		effect.ShaderProgId = prog.Id
		return prog
	}

	if _, ok := r.failed[key]; ok {
		return nil
	}

	prog, err := shaders.CompileCombinedSource(effect.ShaderSrc, defines)
	if err != nil {
		logging.ErrLog.Printf("Failed to compile shader of effect '%s'. Err: %s\n", effect.Name, err)
		r.failed[key] = struct{}{}
		return nil
	}

	r.programs[key] = &prog
	effect.ShaderProgId = prog.Id
	return &prog
}

// programKey identifies a program variant: effects with the same source but different defines get different programs
func programKey(src []byte, defines []string) string {
	return strings.Join(defines, "\n") + "\x00" + string(src)
}

func (r *Rend3DGL) vertexArray(ia *buffers.InputAssembler) *VertexArray {

	key := vaoKey{vb: ia.VertexBuffer.Id, ib: ia.IndexBuffer.Id}
	if vao, ok := r.vaos[key]; ok {
		return vao
	}

	vao := NewVertexArray(ia.VertexBuffer, ia.IndexBuffer)
	r.vaos[key] = &vao

	// NewVertexArray leaves no VAO bound
	r.BoundVaoId = 0
	return &vao
}

func (r *Rend3DGL) applyEffect(prog *shaders.ShaderProgram, effect *materials.Effect) {

	for slot := materials.TextureSlot(0); slot < materials.TextureSlot_Count; slot++ {
		texId := effect.Texture(slot)
		if texId == 0 {
			continue
		}
		gl.ActiveTexture(uint32(gl.TEXTURE0 + slot))
		gl.BindTexture(gl.TEXTURE_2D, texId)
	}

	blend := effect.Blend()
	if blend.Enabled {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(blendFactorToGL(blend.Src), blendFactorToGL(blend.Dst))
	} else {
		gl.Disable(gl.BLEND)
	}

	if effect.DepthTest() {
		gl.Enable(gl.DEPTH_TEST)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
}

func (r *Rend3DGL) applyStencil(st *materials.StencilState) {

	if !st.Enabled {
		if r.stencilEnabled {
			gl.Disable(gl.STENCIL_TEST)
			r.stencilEnabled = false
		}
		return
	}

	if !r.stencilEnabled {
		gl.Enable(gl.STENCIL_TEST)
		r.stencilEnabled = true
	}

	gl.StencilFunc(stencilFuncToGL(st.Func), int32(st.Ref), uint32(st.ReadMask))
	gl.StencilMask(uint32(st.WriteMask))
	gl.StencilOp(stencilOpToGL(st.FailOp), stencilOpToGL(st.ZFailOp), stencilOpToGL(st.ZPassOp))
}

func (r *Rend3DGL) FrameEnd() {
	r.BoundVaoId = 0
	r.BoundProgId = 0
}

// Delete frees every GL object the renderer created
func (r *Rend3DGL) Delete() {

	for k, vao := range r.vaos {
		vao.Delete()
		delete(r.vaos, k)
	}

	for k, prog := range r.programs {
		prog.Delete()
		delete(r.programs, k)
	}
}

func blendFactorToGL(f materials.BlendFactor) uint32 {
	switch f {
	case materials.BlendFactor_One:
		return gl.ONE
	case materials.BlendFactor_Zero:
		return gl.ZERO
	case materials.BlendFactor_SrcAlpha:
		return gl.SRC_ALPHA
	case materials.BlendFactor_OneMinusSrcAlpha:
		return gl.ONE_MINUS_SRC_ALPHA
	case materials.BlendFactor_DstColor:
		return gl.DST_COLOR
	default:
		return gl.ONE
	}
}

func stencilFuncToGL(f materials.StencilFunc) uint32 {
	switch f {
	case materials.StencilFunc_Never:
		return gl.NEVER
	case materials.StencilFunc_Equal:
		return gl.EQUAL
	case materials.StencilFunc_NotEqual:
		return gl.NOTEQUAL
	case materials.StencilFunc_Less:
		return gl.LESS
	case materials.StencilFunc_LessEqual:
		return gl.LEQUAL
	case materials.StencilFunc_Greater:
		return gl.GREATER
	case materials.StencilFunc_GreaterEqual:
		return gl.GEQUAL
	default:
		return gl.ALWAYS
	}
}

func stencilOpToGL(op materials.StencilOp) uint32 {
	switch op {
	case materials.StencilOp_Zero:
		return gl.ZERO
	case materials.StencilOp_Replace:
		return gl.REPLACE
	case materials.StencilOp_Incr:
		return gl.INCR
	case materials.StencilOp_Decr:
		return gl.DECR
	case materials.StencilOp_Invert:
		return gl.INVERT
	default:
		return gl.KEEP
	}
}

func NewRend3DGL() *Rend3DGL {
	return &Rend3DGL{
		ProjViewMat: gglm.NewMat4Diag(1),
		vaos:        make(map[vaoKey]*VertexArray),
		programs:    make(map[string]*shaders.ShaderProgram),
		failed:      make(map[string]struct{}),
	}
}
