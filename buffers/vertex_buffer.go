package buffers

// VertexBuffer is a handle to a GPU vertex buffer created by a Device
type VertexBuffer struct {
	Id     uint32
	Format *VertexFormat
	Usage  BufUsage
	// VertexCount is the number of vertices last uploaded
	VertexCount int32
}
