// Package batcher merges the geometry of consecutive draws that share an effect into
// shared mesh buffers, and emits the result as models into a render scene.
package batcher

import (
	"github.com/bloeys/gglm/gglm"
	"github.com/bloeys/nbatch/assert"
	"github.com/bloeys/nbatch/buffers"
	"github.com/bloeys/nbatch/logging"
	"github.com/bloeys/nbatch/materials"
	"github.com/bloeys/nbatch/scene"
)

// Scene receives the models produced by the batcher
type Scene interface {
	AddModel(m *scene.Model)
	RemoveModels()
}

// StencilCoordinator writes the current stencil state into an effect. The batcher copies it
// into each model it emits.
type StencilCoordinator interface {
	HandleEffect(effect *materials.Effect)
	Reset()
}

type CommitState uint8

const (
	CommitState_None CommitState = iota
	// CommitState_Common means geometry is being copied into mesh buffers
	CommitState_Common
	// CommitState_Custom means prebuilt input assemblers are being merged
	CommitState_Custom
)

func (s CommitState) String() string {
	switch s {
	case CommitState_None:
		return "none"
	case CommitState_Common:
		return "common"
	case CommitState_Custom:
		return "custom"
	default:
		return "unknown"
	}
}

// Stats counts the work done since the last StartBatch
type Stats struct {
	Commands        int
	Models          int
	// BuffersUploaded counts mesh buffer uploads, both on overflow and in TerminateBatch
	BuffersUploaded int
}

type ModelBatcher struct {
	scene   Scene
	stencil StencilCoordinator
	device  buffers.Device
	opts    Options

	pool        ModelPool
	buffers     map[*buffers.VertexFormat]*buffers.MeshBuffer
	bufferOrder []*buffers.MeshBuffer
	buffer      *buffers.MeshBuffer

	commitState CommitState
	walking     bool

	// Batch key of the open batch
	currEffect  *materials.Effect
	customProps *materials.CustomProperties
	node        *scene.Node
	modelMat    gglm.Mat4
	useModel    bool
	cullingMask uint32

	// ia is the open custom range
	ia buffers.InputAssembler

	drawCmds     []drawCmd
	drawCmdsTemp []drawCmd

	stats Stats
}

// StartBatch resets all per frame state and starts accepting commits
func (b *ModelBatcher) StartBatch() {
	b.Reset()
	b.walking = true
}

// TerminateBatch flushes everything that is pending, uploads the mesh buffers and stops accepting commits.
// Calling it again without a StartBatch does nothing.
func (b *ModelBatcher) TerminateBatch() {

	b.Flush()
	b.FlushIA()

	b.stats.BuffersUploaded = 0
	for _, mb := range b.bufferOrder {
		mb.UploadData()
		b.stats.BuffersUploaded += mb.Uploads()
	}

	b.walking = false
}

// Reset returns every model to the pool, clears the scene and rewinds all mesh buffers
func (b *ModelBatcher) Reset() {

	b.pool.Reset()
	b.scene.RemoveModels()

	for _, mb := range b.bufferOrder {
		mb.Reset()
	}
	b.buffer = nil

	b.commitState = CommitState_None
	b.walking = false
	b.setCurrentEffect(nil)
	b.customProps = nil
	b.setNode(nil)
	b.modelMat = gglm.NewMat4Diag(1)
	b.useModel = false
	b.cullingMask = 0
	b.ia.Clear()

	b.stencil.Reset()

	clear(b.drawCmds)
	b.drawCmds = b.drawCmds[:0]

	b.stats = Stats{}
}

func (b *ModelBatcher) Stats() Stats {
	return b.stats
}

func (b *ModelBatcher) Walking() bool {
	return b.walking
}

func (b *ModelBatcher) CommitState() CommitState {
	return b.commitState
}

func (b *ModelBatcher) Options() Options {
	return b.opts
}

// ModelPool exposes the pool for inspection. Models must not be acquired from it directly.
func (b *ModelBatcher) ModelPool() *ModelPool {
	return &b.pool
}

// changeCommitState closes whatever the previous state had open and clears the batch key
func (b *ModelBatcher) changeCommitState(state CommitState) {

	if b.commitState == state {
		return
	}

	switch b.commitState {
	case CommitState_Common:
		b.flush()
	case CommitState_Custom:
		b.flushIA()
	}

	b.setCurrentEffect(nil)
	b.customProps = nil
	b.commitState = state
}

func (b *ModelBatcher) setCurrentEffect(effect *materials.Effect) {

	if b.currEffect == effect {
		return
	}

	if b.currEffect != nil {
		b.currEffect.Release()
	}
	if effect != nil {
		effect.Retain()
	}
	b.currEffect = effect
}

func (b *ModelBatcher) setNode(node *scene.Node) {

	if b.node == node {
		return
	}

	if b.node != nil {
		b.node.Release()
	}
	if node != nil {
		node.Retain()
	}
	b.node = node
}

// getBuffer returns the mesh buffer of a vertex format, creating it on first use
func (b *ModelBatcher) getBuffer(format *buffers.VertexFormat) *buffers.MeshBuffer {

	if mb, ok := b.buffers[format]; ok {
		return mb
	}

	mb := buffers.NewMeshBuffer(format, b.device, b.opts.BufferUsage, b.opts.MaxVerticesPerBuffer)
	mb.BeforeSwitch = b.flush

	b.buffers[format] = mb
	b.bufferOrder = append(b.bufferOrder, mb)

	logging.DbgLog.Printf("Created mesh buffer for vertex format '%s'\n", format.Name)
	return mb
}

// bindBuffer makes mb the buffer new geometry goes into. Geometry pending in the previous buffer is flushed first.
func (b *ModelBatcher) bindBuffer(mb *buffers.MeshBuffer) {

	if b.buffer == mb {
		return
	}

	b.flush()
	b.buffer = mb
}

func NewModelBatcher(sc Scene, stencil StencilCoordinator, device buffers.Device, opts Options) *ModelBatcher {

	assert.T(sc != nil, "Model batcher needs a scene")
	assert.T(stencil != nil, "Model batcher needs a stencil coordinator")
	assert.T(device != nil, "Model batcher needs a device")

	if opts.MaxVerticesPerBuffer <= 0 || opts.MaxVerticesPerBuffer > buffers.MaxVerticesPerBuffer {
		opts.MaxVerticesPerBuffer = buffers.MaxVerticesPerBuffer
	}

	return &ModelBatcher{
		scene:    sc,
		stencil:  stencil,
		device:   device,
		opts:     opts,
		pool:     NewModelPool(opts.InitialModelPool),
		buffers:  map[*buffers.VertexFormat]*buffers.MeshBuffer{},
		modelMat: gglm.NewMat4Diag(1),
	}
}
