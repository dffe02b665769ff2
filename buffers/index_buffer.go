package buffers

// IndexBuffer is a handle to a GPU buffer of uint16 indices created by a Device
type IndexBuffer struct {
	Id    uint32
	Usage BufUsage
	// IndexBufCount is the number of elements in the index buffer. Updated on upload
	IndexBufCount int32
}
