package buffers

// Device creates GPU buffers and uploads data into them.
// The GL implementation lives in renderer/rend3dgl, MemDevice keeps everything in memory.
type Device interface {
	NewVertexBuffer(format *VertexFormat, usage BufUsage) *VertexBuffer
	NewIndexBuffer(usage BufUsage) *IndexBuffer
	UploadVertices(vb *VertexBuffer, data []float32)
	UploadIndices(ib *IndexBuffer, data []uint16)
}

var _ Device = &MemDevice{}

// MemDevice is a Device that stores uploads in memory. It is used for headless runs and tests.
type MemDevice struct {
	lastId uint32

	// Uploads counts upload calls (vertex and index uploads are counted separately)
	Uploads  int
	Vertices map[uint32][]float32
	Indices  map[uint32][]uint16
}

func (d *MemDevice) NewVertexBuffer(format *VertexFormat, usage BufUsage) *VertexBuffer {
	d.lastId++
	return &VertexBuffer{Id: d.lastId, Format: format, Usage: usage}
}

func (d *MemDevice) NewIndexBuffer(usage BufUsage) *IndexBuffer {
	d.lastId++
	return &IndexBuffer{Id: d.lastId, Usage: usage}
}

func (d *MemDevice) UploadVertices(vb *VertexBuffer, data []float32) {

	if d.Vertices == nil {
		d.Vertices = make(map[uint32][]float32)
	}

	d.Uploads++
	d.Vertices[vb.Id] = append(d.Vertices[vb.Id][:0], data...)
	vb.VertexCount = int32(len(data) / vb.Format.FloatsPerVertex())
}

func (d *MemDevice) UploadIndices(ib *IndexBuffer, data []uint16) {

	if d.Indices == nil {
		d.Indices = make(map[uint32][]uint16)
	}

	d.Uploads++
	d.Indices[ib.Id] = append(d.Indices[ib.Id][:0], data...)
	ib.IndexBufCount = int32(len(data))
}

func NewMemDevice() *MemDevice {
	return &MemDevice{
		Vertices: make(map[uint32][]float32),
		Indices:  make(map[uint32][]uint16),
	}
}
