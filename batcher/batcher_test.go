package batcher

import (
	"testing"

	"github.com/bloeys/gglm/gglm"
	"github.com/bloeys/nbatch/assemblers"
	"github.com/bloeys/nbatch/buffers"
	"github.com/bloeys/nbatch/materials"
	"github.com/bloeys/nbatch/meshes"
	"github.com/bloeys/nbatch/scene"
	"github.com/bloeys/nbatch/stencil"
)

type testRig struct {
	b      *ModelBatcher
	scene  *scene.RenderScene
	device *buffers.MemDevice
}

func newRig(opts Options) *testRig {

	r := &testRig{
		scene:  scene.NewRenderScene(),
		device: buffers.NewMemDevice(),
	}

	r.b = NewModelBatcher(r.scene, stencil.NewManager(), r.device, opts)
	return r
}

type sprite struct {
	node *scene.Node
	asm  *assemblers.Sprite
}

func newSprite(effect *materials.Effect, x, y float32) sprite {

	n := scene.NewNode("sprite")
	n.UpdateWorld()

	s := assemblers.NewSprite(buffers.VFmtPosUvColor, effect, x, y, 10, 10)
	s.Update(n)

	return sprite{node: n, asm: s}
}

func (r *testRig) commitSprites(sprites ...sprite) {
	for _, s := range sprites {
		r.b.Commit(s.node, s.asm, 1)
	}
}

func TestFlushIsIdempotent(t *testing.T) {

	r := newRig(DefaultOptions())
	e := materials.NewEffect("e", nil)

	r.b.StartBatch()
	r.commitSprites(newSprite(e, 0, 0), newSprite(e, 50, 0))

	r.b.Flush()

	mb := r.b.buffers[buffers.VFmtPosUvColor]
	start, idx, vert := mb.IndexStart(), mb.IndexOffset(), mb.VertexOffset()

	r.b.Flush()
	r.b.FlushIA()

	if len(r.scene.Models()) != 1 {
		t.Fatalf("Expected 1 model but got %d", len(r.scene.Models()))
	}

	if mb.IndexStart() != start || mb.IndexOffset() != idx || mb.VertexOffset() != vert {
		t.Errorf("Idle flushes moved the buffer cursors: index start %d->%d; index offset %d->%d; vertex offset %d->%d",
			start, mb.IndexStart(), idx, mb.IndexOffset(), vert, mb.VertexOffset())
	}
}

func TestSameEffectMerges(t *testing.T) {

	r := newRig(DefaultOptions())
	e := materials.NewEffect("e", nil)

	r.b.StartBatch()
	r.commitSprites(newSprite(e, 0, 0), newSprite(e, 20, 0), newSprite(e, 40, 0))
	r.b.TerminateBatch()

	models := r.scene.Models()
	if len(models) != 1 {
		t.Fatalf("Expected 1 model but got %d", len(models))
	}

	ia := models[0].InputAssembler()
	if ia.Start != 0 || ia.Count != 18 {
		t.Errorf("Expected index range start=0 count=18 but got start=%d count=%d", ia.Start, ia.Count)
	}

	if models[0].Effect() != e {
		t.Error("Model does not use the committed effect")
	}

	if models[0].Node() != nil {
		t.Error("Batched models must not reference a node")
	}

	if models[0].CullingMask() != 1 {
		t.Errorf("Expected culling mask 1 but got %d", models[0].CullingMask())
	}

	st := r.b.Stats()
	if st.Commands != 3 || st.Models != 1 || st.BuffersUploaded != 1 {
		t.Errorf("Unexpected stats %+v", st)
	}

	// Indices of the third quad point past the first two quads
	idx := r.device.Indices[ia.IndexBuffer.Id]
	if len(idx) != 18 || idx[12] != meshes.QuadIndices[0]+8 {
		t.Errorf("Unexpected uploaded indices %v", idx)
	}
}

func TestReorderGroupsEffects(t *testing.T) {

	eA := materials.NewEffect("a", nil)
	eB := materials.NewEffect("b", nil)

	r := newRig(DefaultOptions())
	r.b.StartBatch()
	r.commitSprites(newSprite(eA, 0, 0), newSprite(eB, 100, 0), newSprite(eA, 200, 0))
	r.b.TerminateBatch()

	models := r.scene.Models()
	if len(models) != 2 {
		t.Fatalf("Expected 2 models but got %d", len(models))
	}

	if models[0].Effect() != eB || models[1].Effect() != eA {
		t.Errorf("Expected order [b, a] but got [%s, %s]", models[0].Effect().Name, models[1].Effect().Name)
	}

	if models[1].InputAssembler().Count != 12 {
		t.Errorf("Expected both 'a' quads in one draw but got %d indices", models[1].InputAssembler().Count)
	}
}

func TestReorderKeepsOverlappingOrder(t *testing.T) {

	eA := materials.NewEffect("a", nil)
	eB := materials.NewEffect("b", nil)

	r := newRig(DefaultOptions())
	r.b.StartBatch()
	r.commitSprites(newSprite(eA, 0, 0), newSprite(eB, 5, 5), newSprite(eA, 8, 8))
	r.b.TerminateBatch()

	models := r.scene.Models()
	if len(models) != 3 {
		t.Fatalf("Expected 3 models but got %d", len(models))
	}

	want := []*materials.Effect{eA, eB, eA}
	for i := range want {
		if models[i].Effect() != want[i] {
			t.Errorf("Model %d: expected effect '%s' but got '%s'", i, want[i].Name, models[i].Effect().Name)
		}
	}
}

func TestImmediateModeKeepsCommitOrder(t *testing.T) {

	eA := materials.NewEffect("a", nil)
	eB := materials.NewEffect("b", nil)

	opts := DefaultOptions()
	opts.Reorder = false

	r := newRig(opts)
	r.b.StartBatch()
	r.commitSprites(newSprite(eA, 0, 0), newSprite(eB, 100, 0), newSprite(eA, 200, 0))

	// Nothing is queued so the first two draws are already out
	if len(r.scene.Models()) != 2 {
		t.Errorf("Expected 2 models before terminating but got %d", len(r.scene.Models()))
	}

	r.b.TerminateBatch()
	if len(r.scene.Models()) != 3 {
		t.Fatalf("Expected 3 models but got %d", len(r.scene.Models()))
	}
}

func TestCullingMaskSplitsBatches(t *testing.T) {

	e := materials.NewEffect("e", nil)
	s1, s2 := newSprite(e, 0, 0), newSprite(e, 20, 0)

	r := newRig(DefaultOptions())
	r.b.StartBatch()
	r.b.Commit(s1.node, s1.asm, 1)
	r.b.Commit(s2.node, s2.asm, 2)
	r.b.TerminateBatch()

	if len(r.scene.Models()) != 2 {
		t.Fatalf("Expected 2 models but got %d", len(r.scene.Models()))
	}
}

func newUseModelMesh(e *materials.Effect, x float32) (*scene.Node, *assemblers.Mesh) {

	n := scene.NewNode("mesh")
	n.SetPosition(x, 0, 0)
	n.UpdateWorld()

	m := assemblers.NewMesh(&meshes.Mesh{
		Name:      "quad",
		SubMeshes: []meshes.RenderData{meshes.NewQuad(buffers.VFmtPosUvColor, 0, 0, 1, 1, gglm.NewVec4(1, 1, 1, 1))},
	}, e)
	m.SetUseModel(true)

	return n, m
}

func TestUseModelIsNeverMerged(t *testing.T) {

	e := materials.NewEffect("e", nil)
	n1, m1 := newUseModelMesh(e, 10)
	n2, m2 := newUseModelMesh(e, 30)

	r := newRig(DefaultOptions())
	r.b.StartBatch()
	r.b.Commit(n1, m1, 1)
	r.b.Commit(n2, m2, 1)
	r.b.TerminateBatch()

	models := r.scene.Models()
	if len(models) != 2 {
		t.Fatalf("Expected 2 models but got %d", len(models))
	}

	if models[0].Node() != n1 || models[1].Node() != n2 {
		t.Error("Use model draws must keep their own node")
	}

	if x := models[1].WorldMatrix().Data[3][0]; x != 30 {
		t.Errorf("Expected world matrix translation 30 but got %v", x)
	}

	// Vertices stay in local space
	vb := models[1].InputAssembler().VertexBuffer
	if v := r.device.Vertices[vb.Id][4*buffers.VFmtPosUvColor.FloatsPerVertex()]; v != 0 {
		t.Errorf("Expected local x 0 for the second mesh but got %v", v)
	}
}

func TestWorldDrawAfterUseModelStartsNewBatch(t *testing.T) {

	e := materials.NewEffect("e", nil)
	n, m := newUseModelMesh(e, 10)
	s := newSprite(e, 300, 0)

	opts := DefaultOptions()
	opts.Reorder = false

	r := newRig(opts)
	r.b.StartBatch()
	r.b.Commit(n, m, 1)
	r.b.Commit(s.node, s.asm, 1)
	r.b.TerminateBatch()

	models := r.scene.Models()
	if len(models) != 2 {
		t.Fatalf("Expected 2 models but got %d", len(models))
	}

	if models[1].Node() != nil {
		t.Error("World space draw must not keep the node of the previous use model draw")
	}

	if x := models[1].WorldMatrix().Data[3][0]; x != 0 {
		t.Errorf("Expected identity world matrix for the world space draw but got translation %v", x)
	}

	if models[0].InputAssembler().Count != 6 || models[1].InputAssembler().Count != 6 {
		t.Errorf("Expected 6 indices per model but got %d and %d", models[0].InputAssembler().Count, models[1].InputAssembler().Count)
	}
}

func TestPlainCustomAfterUseModelCustomStartsNewRange(t *testing.T) {

	dev := buffers.NewMemDevice()
	vb := dev.NewVertexBuffer(buffers.VFmtPosColor, buffers.BufUsage_Static_Draw)
	ib := dev.NewIndexBuffer(buffers.BufUsage_Static_Draw)

	e := materials.NewEffect("custom", nil)
	c1 := assemblers.NewCustom(e, &buffers.InputAssembler{VertexBuffer: vb, IndexBuffer: ib, Start: 0, Count: 6})
	c1.SetUseModel(true)
	c2 := assemblers.NewCustom(e, &buffers.InputAssembler{VertexBuffer: vb, IndexBuffer: ib, Start: 6, Count: 6})

	n1 := scene.NewNode("moving")
	n1.SetPosition(50, 0, 0)
	n1.UpdateWorld()
	n2 := scene.NewNode("static")
	n2.UpdateWorld()

	opts := DefaultOptions()
	opts.Reorder = false

	r := newRig(opts)
	r.b.StartBatch()
	r.b.CommitIA(n1, c1, 1)
	r.b.CommitIA(n2, c2, 1)
	r.b.TerminateBatch()

	models := r.scene.Models()
	if len(models) != 2 {
		t.Fatalf("Expected 2 models but got %d", len(models))
	}

	if models[0].Node() != n1 || models[1].Node() != nil {
		t.Error("Only the use model range should keep its node")
	}

	if ia := models[1].InputAssembler(); ia.Start != 6 || ia.Count != 6 {
		t.Errorf("Expected the plain range to start at 6 with count 6 but got %+v", *ia)
	}

	if x := models[1].WorldMatrix().Data[3][0]; x != 0 {
		t.Errorf("Expected identity world matrix for the plain range but got translation %v", x)
	}
}

func TestModelPoolGrowsAndResets(t *testing.T) {

	opts := DefaultOptions()
	opts.InitialModelPool = 1
	opts.Reorder = false

	effects := []*materials.Effect{materials.NewEffect("a", nil), materials.NewEffect("b", nil), materials.NewEffect("c", nil)}

	r := newRig(opts)
	r.b.StartBatch()
	for i, e := range effects {
		r.commitSprites(newSprite(e, float32(i)*20, 0))
	}
	r.b.TerminateBatch()

	pool := r.b.ModelPool()
	if pool.Offset() != 3 || pool.Cap() != 3 {
		t.Errorf("Expected offset 3 and capacity 3 but got %d and %d", pool.Offset(), pool.Cap())
	}

	r.b.StartBatch()
	if pool.Offset() != 0 || pool.Cap() != 3 {
		t.Errorf("Expected offset 0 and capacity 3 after reset but got %d and %d", pool.Offset(), pool.Cap())
	}

	if len(r.scene.Models()) != 0 {
		t.Error("Scene still has models after StartBatch")
	}
}

func TestEffectRefsAreReleased(t *testing.T) {

	e := materials.NewEffect("e", nil)
	r := newRig(DefaultOptions())

	r.b.StartBatch()
	r.commitSprites(newSprite(e, 0, 0))
	r.b.TerminateBatch()

	// One ref held by the model and one by the batcher as its current effect
	if e.Refs() != 2 {
		t.Errorf("Expected 2 refs but got %d", e.Refs())
	}

	r.b.Reset()
	if e.Refs() != 0 {
		t.Errorf("Expected 0 refs after reset but got %d", e.Refs())
	}
}

func TestTerminateTwice(t *testing.T) {

	e := materials.NewEffect("e", nil)
	r := newRig(DefaultOptions())

	r.b.StartBatch()
	r.commitSprites(newSprite(e, 0, 0))
	r.b.TerminateBatch()

	uploads := r.device.Uploads
	r.b.TerminateBatch()

	if len(r.scene.Models()) != 1 {
		t.Errorf("Expected 1 model but got %d", len(r.scene.Models()))
	}

	if r.device.Uploads != uploads {
		t.Errorf("Second terminate uploaded data. Uploads went from %d to %d", uploads, r.device.Uploads)
	}

	if r.b.Walking() {
		t.Error("Batcher still walking after terminate")
	}
}

func TestCommitWithoutBatchIsDropped(t *testing.T) {

	e := materials.NewEffect("e", nil)
	r := newRig(DefaultOptions())

	r.commitSprites(newSprite(e, 0, 0))
	r.b.StartBatch()
	r.b.TerminateBatch()

	if len(r.scene.Models()) != 0 {
		t.Errorf("Expected no models but got %d", len(r.scene.Models()))
	}
}

func TestBufferOverflowSwitchesBuffers(t *testing.T) {

	opts := DefaultOptions()
	opts.MaxVerticesPerBuffer = 8

	e := materials.NewEffect("e", nil)
	r := newRig(opts)

	r.b.StartBatch()
	r.commitSprites(newSprite(e, 0, 0), newSprite(e, 20, 0), newSprite(e, 40, 0))
	r.b.TerminateBatch()

	models := r.scene.Models()
	if len(models) != 2 {
		t.Fatalf("Expected 2 models but got %d", len(models))
	}

	ia0, ia1 := models[0].InputAssembler(), models[1].InputAssembler()
	if ia0.VertexBuffer == ia1.VertexBuffer {
		t.Error("Expected the models to draw from different vertex buffers")
	}

	if ia0.Count != 12 || ia1.Start != 0 || ia1.Count != 6 {
		t.Errorf("Unexpected ranges: first=%+v second=%+v", *ia0, *ia1)
	}

	// One upload when switching pairs and one at terminate
	if st := r.b.Stats(); st.BuffersUploaded != 2 {
		t.Errorf("Expected 2 buffer uploads but got %d", st.BuffersUploaded)
	}
}

func TestFormatChangeFlushes(t *testing.T) {

	e := materials.NewEffect("e", nil)
	s := newSprite(e, 0, 0)

	n := scene.NewNode("mesh")
	n.SetPosition(100, 0, 0)
	n.UpdateWorld()
	m := assemblers.NewMesh(&meshes.Mesh{
		Name:      "quad",
		SubMeshes: []meshes.RenderData{meshes.NewQuad(buffers.VFmtPosColor, 0, 0, 1, 1, gglm.NewVec4(1, 1, 1, 1))},
	}, e)

	opts := DefaultOptions()
	opts.Reorder = false

	r := newRig(opts)
	r.b.StartBatch()
	r.b.Commit(s.node, s.asm, 1)
	r.b.Commit(n, m, 1)
	r.b.TerminateBatch()

	models := r.scene.Models()
	if len(models) != 2 {
		t.Fatalf("Expected 2 models but got %d", len(models))
	}

	if models[0].InputAssembler().VertexBuffer.Format != buffers.VFmtPosUvColor || models[1].InputAssembler().VertexBuffer.Format != buffers.VFmtPosColor {
		t.Error("Models do not draw from the buffer of their vertex format")
	}
}

func TestCustomRangesMerge(t *testing.T) {

	dev := buffers.NewMemDevice()
	vb := dev.NewVertexBuffer(buffers.VFmtPosColor, buffers.BufUsage_Static_Draw)
	ib := dev.NewIndexBuffer(buffers.BufUsage_Static_Draw)
	otherVb := dev.NewVertexBuffer(buffers.VFmtPosColor, buffers.BufUsage_Static_Draw)

	e := materials.NewEffect("custom", nil)
	c1 := assemblers.NewCustom(e, &buffers.InputAssembler{VertexBuffer: vb, IndexBuffer: ib, Start: 0, Count: 6})
	c2 := assemblers.NewCustom(e, &buffers.InputAssembler{VertexBuffer: vb, IndexBuffer: ib, Start: 6, Count: 3})
	c3 := assemblers.NewCustom(e, &buffers.InputAssembler{VertexBuffer: otherVb, IndexBuffer: ib, Start: 0, Count: 6})

	n := scene.NewNode("custom")
	n.UpdateWorld()

	r := newRig(DefaultOptions())
	r.b.StartBatch()
	r.b.CommitIA(n, c1, 1)
	r.b.CommitIA(n, c2, 1)
	r.b.CommitIA(n, c3, 1)
	r.b.TerminateBatch()

	models := r.scene.Models()
	if len(models) != 2 {
		t.Fatalf("Expected 2 models but got %d", len(models))
	}

	if ia := models[0].InputAssembler(); ia.VertexBuffer != vb || ia.Start != 0 || ia.Count != 9 {
		t.Errorf("Expected merged range on the first buffer with count 9 but got %+v", *ia)
	}

	if ia := models[1].InputAssembler(); ia.VertexBuffer != otherVb || ia.Count != 6 {
		t.Errorf("Expected range on the second buffer with count 6 but got %+v", *ia)
	}
}

func TestCustomSubRangesAreSeparate(t *testing.T) {

	dev := buffers.NewMemDevice()
	vb := dev.NewVertexBuffer(buffers.VFmtPosColor, buffers.BufUsage_Static_Draw)
	ib := dev.NewIndexBuffer(buffers.BufUsage_Static_Draw)

	e := materials.NewEffect("custom", nil)
	c := assemblers.NewCustom(e,
		&buffers.InputAssembler{VertexBuffer: vb, IndexBuffer: ib, Start: 0, Count: 6},
		&buffers.InputAssembler{VertexBuffer: vb, IndexBuffer: ib, Start: 6, Count: 6},
	)

	n := scene.NewNode("custom")
	n.UpdateWorld()

	r := newRig(DefaultOptions())
	r.b.StartBatch()
	r.b.CommitIA(n, c, 1)
	r.b.TerminateBatch()

	models := r.scene.Models()
	if len(models) != 2 {
		t.Fatalf("Expected 2 models but got %d", len(models))
	}

	if models[1].InputAssembler().Start != 6 {
		t.Errorf("Expected second range to start at 6 but got %d", models[1].InputAssembler().Start)
	}
}

func TestCommonThenCustomThenCommon(t *testing.T) {

	e := materials.NewEffect("e", nil)

	dev := buffers.NewMemDevice()
	c := assemblers.NewCustom(e, &buffers.InputAssembler{
		VertexBuffer: dev.NewVertexBuffer(buffers.VFmtPosUvColor, buffers.BufUsage_Static_Draw),
		IndexBuffer:  dev.NewIndexBuffer(buffers.BufUsage_Static_Draw),
		Count:        6,
	})

	cn := scene.NewNode("custom")
	cn.UpdateWorld()

	opts := DefaultOptions()
	opts.Reorder = false

	r := newRig(opts)
	r.b.StartBatch()
	s1, s2 := newSprite(e, 0, 0), newSprite(e, 20, 0)
	r.b.Commit(s1.node, s1.asm, 1)
	r.b.CommitIA(cn, c, 1)
	r.b.Commit(s2.node, s2.asm, 1)
	r.b.TerminateBatch()

	models := r.scene.Models()
	if len(models) != 3 {
		t.Fatalf("Expected 3 models but got %d", len(models))
	}

	// The second sprite starts a new range after the first one
	if ia := models[2].InputAssembler(); ia.Start != 6 || ia.Count != 6 {
		t.Errorf("Expected range start=6 count=6 but got %+v", *ia)
	}

	if r.b.CommitState() != CommitState_Common {
		t.Errorf("Expected commit state common but got %s", r.b.CommitState())
	}
}

func TestStencilStateWrittenOnEmit(t *testing.T) {

	e := materials.NewEffect("e", nil)
	st := stencil.NewManager()

	r := &testRig{scene: scene.NewRenderScene(), device: buffers.NewMemDevice()}
	r.b = NewModelBatcher(r.scene, st, r.device, DefaultOptions())

	r.b.StartBatch()
	st.PushMask(stencil.Mask{})
	st.EnableMask()
	r.commitSprites(newSprite(e, 0, 0))
	r.b.TerminateBatch()

	if !e.Stencil.Enabled || e.Stencil.Func != materials.StencilFunc_Equal {
		t.Errorf("Expected enabled equal stencil but got %+v", e.Stencil)
	}

	if st := r.scene.Models()[0].Stencil(); *st != e.Stencil {
		t.Errorf("Expected the model to carry the effect's stencil state but got %+v", *st)
	}
}

func TestSharedEffectKeepsStencilPerModel(t *testing.T) {

	e := materials.NewEffect("e", nil)
	st := stencil.NewManager()

	r := &testRig{scene: scene.NewRenderScene(), device: buffers.NewMemDevice()}
	r.b = NewModelBatcher(r.scene, st, r.device, DefaultOptions())

	r.b.StartBatch()
	r.commitSprites(newSprite(e, 0, 0))
	r.b.Flush()

	st.PushMask(stencil.Mask{})
	st.EnableMask()
	r.commitSprites(newSprite(e, 50, 0))
	r.b.Flush()
	st.ExitMask()

	r.b.TerminateBatch()

	models := r.scene.Models()
	if len(models) != 2 {
		t.Fatalf("Expected 2 models but got %d", len(models))
	}

	if models[0].Stencil().Enabled {
		t.Errorf("Unmasked model should not use the stencil but got %+v", *models[0].Stencil())
	}

	if s := models[1].Stencil(); !s.Enabled || s.Func != materials.StencilFunc_Equal || s.Ref != 1 {
		t.Errorf("Expected masked model to test against level 1 but got %+v", *s)
	}
}

func TestOverlappingSameEffectMergesAndKeepsLaterDrawOnTop(t *testing.T) {

	e1 := materials.NewEffect("1", nil)
	e2 := materials.NewEffect("2", nil)

	r := newRig(DefaultOptions())
	r.b.StartBatch()
	r.commitSprites(newSprite(e1, 0, 0), newSprite(e1, 0, 0), newSprite(e2, 5, 5))
	r.b.TerminateBatch()

	models := r.scene.Models()
	if len(models) != 2 {
		t.Fatalf("Expected 2 models but got %d", len(models))
	}

	if models[0].Effect() != e1 || models[0].InputAssembler().Count != 12 {
		t.Errorf("Expected the first two quads merged under effect '1' but got effect '%s' with %d indices", models[0].Effect().Name, models[0].InputAssembler().Count)
	}

	if models[1].Effect() != e2 {
		t.Errorf("Expected the overlapping quad drawn last but got effect '%s'", models[1].Effect().Name)
	}
}
