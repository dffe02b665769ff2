package buffers

// InputAssembler describes a range of indices to draw from a vertex/index buffer pair
type InputAssembler struct {
	VertexBuffer *VertexBuffer
	IndexBuffer  *IndexBuffer
	Start        int
	Count        int
}

// IsMergeable reports whether both descriptors draw from the same buffers.
// Start and Count are not considered.
func (ia *InputAssembler) IsMergeable(other *InputAssembler) bool {
	return ia.VertexBuffer == other.VertexBuffer && ia.IndexBuffer == other.IndexBuffer
}

func (ia *InputAssembler) Clear() {
	*ia = InputAssembler{}
}
