package batcher

import (
	"github.com/bloeys/gglm/gglm"
	"github.com/bloeys/nbatch/assemblers"
	"github.com/bloeys/nbatch/logging"
	"github.com/bloeys/nbatch/scene"
)

// Commit queues the geometry of node for this frame. With reordering disabled the
// geometry is batched right away.
func (b *ModelBatcher) Commit(node *scene.Node, asm assemblers.Assembler, cullingMask uint32) {

	if !b.walking {
		b.warnIdle(node)
		return
	}

	if node == nil || asm == nil {
		return
	}

	b.stats.Commands++
	if !b.opts.Reorder {
		b.commit(node, asm, cullingMask)
		return
	}

	b.drawCmds = append(b.drawCmds, drawCmd{
		node:        node,
		assembler:   asm,
		cullingMask: cullingMask,
	})
}

// CommitIA queues the prebuilt input assemblers of a custom assembler for this frame
func (b *ModelBatcher) CommitIA(node *scene.Node, asm assemblers.CustomAssembler, cullingMask uint32) {

	if !b.walking {
		b.warnIdle(node)
		return
	}

	if node == nil || asm == nil {
		return
	}

	b.stats.Commands++
	if !b.opts.Reorder {
		b.commitIA(node, asm, cullingMask)
		return
	}

	b.drawCmds = append(b.drawCmds, drawCmd{
		node:        node,
		custom:      asm,
		cullingMask: cullingMask,
	})
}

func (b *ModelBatcher) commit(node *scene.Node, asm assemblers.Assembler, cullingMask uint32) {

	b.changeCommitState(CommitState_Common)

	format := asm.VertexFormat()
	if format == nil {
		return
	}

	useModel := asm.UseModel()
	worldMat := gglm.NewMat4Diag(1)
	if useModel && !asm.IgnoreWorldMatrix() {
		worldMat = *node.WorldMatrix()
	}

	needUpdateOpacity := (asm.IsDirty(assemblers.DirtyFlag_VerticesOpacityChanged) || node.IsDirty(scene.DirtyFlag_Opacity)) &&
		!asm.IgnoreOpacityFlag()

	for i := 0; i < asm.IACount(); i++ {

		asm.BeforeFillBuffers(i)

		effect := asm.Effect(i)
		if effect == nil {
			continue
		}

		if b.currEffect == nil || b.currEffect.Hash() != effect.Hash() || b.cullingMask != cullingMask || b.useModel != useModel || useModel {

			b.flush()

			if useModel {
				b.setNode(node)
			} else {
				b.setNode(nil)
			}
			b.setCurrentEffect(effect)
			b.customProps = asm.CustomProperties()
			b.modelMat = worldMat
			b.useModel = useModel
			b.cullingMask = cullingMask
		}

		if needUpdateOpacity {
			asm.UpdateOpacity(i, node.RealOpacity())
		}

		b.bindBuffer(b.getBuffer(format))
		asm.FillBuffers(node, b.buffer, i)
	}
}

func (b *ModelBatcher) commitIA(node *scene.Node, asm assemblers.CustomAssembler, cullingMask uint32) {

	b.changeCommitState(CommitState_Custom)

	effect := asm.Effect(0)
	ia := asm.IA(0)
	if effect == nil || ia == nil {
		return
	}

	useModel := asm.UseModel()
	worldMat := gglm.NewMat4Diag(1)
	if useModel {
		worldMat = *node.WorldMatrix()
	}

	latch := func() {
		if useModel {
			b.setNode(node)
		} else {
			b.setNode(nil)
		}
		b.setCurrentEffect(effect)
		b.modelMat = worldMat
		b.useModel = useModel
		b.cullingMask = cullingMask

		b.ia = *ia
		b.ia.Count = 0
	}

	if b.currEffect == nil || b.currEffect.Hash() != effect.Hash() || b.cullingMask != cullingMask || b.useModel != useModel || useModel || !b.ia.IsMergeable(ia) {
		b.flushIA()
		latch()
	}

	for i := 0; i < asm.IACount(); i++ {

		ia = asm.IA(i)
		effect = asm.Effect(i)
		if ia == nil || effect == nil {
			continue
		}

		// Every input assembler after the first is drawn on its own
		if i > 0 {
			b.flushIA()
			latch()
		}

		b.ia.Count += ia.Count
	}
}

func (b *ModelBatcher) warnIdle(node *scene.Node) {

	name := "<nil>"
	if node != nil {
		name = node.Name
	}

	logging.WarnLog.Printf("Commit of node '%s' dropped because no batch is running. Call StartBatch first\n", name)
}
