package buffers

import (
	"github.com/bloeys/nbatch/assert"
	"github.com/bloeys/nbatch/logging"
)

// MaxVerticesPerBuffer is the most vertices a single vertex buffer can hold while
// still being addressable with uint16 indices
const MaxVerticesPerBuffer = 65535

// Offsets tells an assembler where a Request'ed region starts
type Offsets struct {
	// Vertex is the index of the first requested vertex. Indices written by
	// the assembler must be shifted by this value.
	Vertex int
	// Float is the position of the first requested vertex in VData
	Float int
	// Index is the position of the first requested index in IData
	Index int
}

type gpuPair struct {
	vb *VertexBuffer
	ib *IndexBuffer
}

// MeshBuffer is an append-only vertex/index buffer for a single vertex format.
// Geometry is written on the CPU during a frame and uploaded once by UploadData.
//
// When a request does not fit in the current GPU buffer pair the mesh buffer
// uploads what it has, calls BeforeSwitch (so pending draws get emitted), and
// continues writing into the next pair.
type MeshBuffer struct {
	Format *VertexFormat

	// VData and IData hold the geometry written this frame for the active pair.
	// Their lengths are the write cursors.
	VData []float32
	IData []uint16

	// BeforeSwitch is called right before moving to a new vertex/index buffer pair
	BeforeSwitch func()

	device      Device
	usage       BufUsage
	maxVertices int

	pairs   []gpuPair
	pairIdx int

	vertexOffset int
	indexStart   int
	indexOffset  int

	dirty bool
	// uploads counts UploadData calls that sent data since the last Reset
	uploads int
}

// Request reserves space for vertexCount vertices and indexCount indices and returns where they start.
// The reserved region is zero filled and must be written by the caller.
func (mb *MeshBuffer) Request(vertexCount, indexCount int) Offsets {

	assert.T(vertexCount <= mb.maxVertices, "Requested %d vertices but a buffer can hold at most %d", vertexCount, mb.maxVertices)

	if mb.vertexOffset+vertexCount > mb.maxVertices {
		mb.switchPair()
	}

	off := Offsets{
		Vertex: mb.vertexOffset,
		Float:  len(mb.VData),
		Index:  len(mb.IData),
	}

	mb.VData = grow(mb.VData, vertexCount*mb.Format.FloatsPerVertex())
	mb.IData = grow(mb.IData, indexCount)

	mb.vertexOffset += vertexCount
	mb.indexOffset += indexCount
	mb.dirty = true

	return off
}

func (mb *MeshBuffer) switchPair() {

	if mb.BeforeSwitch != nil {
		mb.BeforeSwitch()
	}

	mb.UploadData()

	mb.pairIdx++
	if mb.pairIdx >= len(mb.pairs) {
		mb.pairs = append(mb.pairs, mb.newPair())
		logging.DbgLog.Printf("Mesh buffer '%s' grew to %d GPU buffer pairs\n", mb.Format.Name, len(mb.pairs))
	}

	mb.rewind()
}

func (mb *MeshBuffer) newPair() gpuPair {
	return gpuPair{
		vb: mb.device.NewVertexBuffer(mb.Format, mb.usage),
		ib: mb.device.NewIndexBuffer(mb.usage),
	}
}

func (mb *MeshBuffer) rewind() {
	mb.VData = mb.VData[:0]
	mb.IData = mb.IData[:0]
	mb.vertexOffset = 0
	mb.indexStart = 0
	mb.indexOffset = 0
}

func (mb *MeshBuffer) VertexBuffer() *VertexBuffer {
	return mb.pairs[mb.pairIdx].vb
}

func (mb *MeshBuffer) IndexBuffer() *IndexBuffer {
	return mb.pairs[mb.pairIdx].ib
}

// IndexStart is the first index not yet handed out to a draw
func (mb *MeshBuffer) IndexStart() int {
	return mb.indexStart
}

// IndexOffset is the index write cursor
func (mb *MeshBuffer) IndexOffset() int {
	return mb.indexOffset
}

// VertexOffset is the vertex write cursor
func (mb *MeshBuffer) VertexOffset() int {
	return mb.vertexOffset
}

// UpdateOffset marks everything written so far as handed out to a draw
func (mb *MeshBuffer) UpdateOffset() {
	mb.indexStart = mb.indexOffset
}

// IsDirty is true if the buffer received writes since the last upload
func (mb *MeshBuffer) IsDirty() bool {
	return mb.dirty
}

// UploadData sends the active pair's data to the device if anything was written since the last upload.
// It returns true if an upload happened.
func (mb *MeshBuffer) UploadData() bool {

	if !mb.dirty {
		return false
	}

	p := mb.pairs[mb.pairIdx]
	mb.device.UploadVertices(p.vb, mb.VData)
	mb.device.UploadIndices(p.ib, mb.IData)
	mb.dirty = false
	mb.uploads++
	return true
}

// Uploads returns how many times data was sent to the device since the last Reset,
// including uploads made when switching pairs
func (mb *MeshBuffer) Uploads() int {
	return mb.uploads
}

// Reset rewinds to the first GPU pair and zeroes all cursors. GPU buffers are kept.
func (mb *MeshBuffer) Reset() {
	mb.pairIdx = 0
	mb.rewind()
	mb.dirty = false
	mb.uploads = 0
}

func grow[T float32 | uint16](s []T, n int) []T {

	newLen := len(s) + n
	if newLen <= cap(s) {
		s = s[:newLen]
		clear(s[newLen-n:])
		return s
	}

	return append(s, make([]T, n)...)
}

func NewMeshBuffer(format *VertexFormat, device Device, usage BufUsage, maxVertices int) *MeshBuffer {

	assert.T(format != nil, "NewMeshBuffer requires a vertex format")

	if maxVertices <= 0 || maxVertices > MaxVerticesPerBuffer {
		maxVertices = MaxVerticesPerBuffer
	}

	mb := &MeshBuffer{
		Format:      format,
		device:      device,
		usage:       usage,
		maxVertices: maxVertices,
		VData:       make([]float32, 0, 256*format.FloatsPerVertex()),
		IData:       make([]uint16, 0, 256*6/4),
	}

	mb.pairs = append(mb.pairs, mb.newPair())
	return mb
}
