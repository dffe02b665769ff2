package batcher

import (
	"github.com/bloeys/nbatch/buffers"
)

// Flush replays the queued commands and closes the open common batch
func (b *ModelBatcher) Flush() {
	b.flushCommands()
	b.flush()
}

// FlushIA replays the queued commands and closes the open custom range
func (b *ModelBatcher) FlushIA() {
	b.flushCommands()
	b.flushIA()
}

// flush emits the geometry written to the current buffer since its last flush as one model
func (b *ModelBatcher) flush() {

	if b.commitState != CommitState_Common || !b.walking || b.currEffect == nil || b.buffer == nil {
		return
	}

	start := b.buffer.IndexStart()
	count := b.buffer.IndexOffset() - start
	if count <= 0 {
		return
	}

	b.emitModel(buffers.InputAssembler{
		VertexBuffer: b.buffer.VertexBuffer(),
		IndexBuffer:  b.buffer.IndexBuffer(),
		Start:        start,
		Count:        count,
	})

	b.buffer.UpdateOffset()
}

// flushIA emits the open custom range as one model
func (b *ModelBatcher) flushIA() {

	if b.commitState != CommitState_Custom {
		return
	}

	if b.walking && b.currEffect != nil && b.ia.Count > 0 {
		b.emitModel(b.ia)
	}

	b.ia.Clear()
}

func (b *ModelBatcher) emitModel(ia buffers.InputAssembler) {

	b.stencil.HandleEffect(b.currEffect)

	m := b.pool.Acquire()
	m.SetWorldMatrix(&b.modelMat)
	m.SetCullingMask(b.cullingMask)
	m.SetEffect(b.currEffect, b.customProps)
	m.SetNode(b.node)
	m.SetStencil(b.currEffect.Stencil)
	m.SetInputAssembler(ia)

	b.scene.AddModel(m)
	b.stats.Models++
}
