package rend3dgl

import (
	"github.com/bloeys/nbatch/buffers"
	"github.com/bloeys/nbatch/logging"
	"github.com/go-gl/gl/v4.1-core/gl"
)

var _ buffers.Device = &GLDevice{}

// GLDevice creates and fills OpenGL buffers. It must only be used on the thread owning the GL context.
type GLDevice struct{}

func (d *GLDevice) NewVertexBuffer(format *buffers.VertexFormat, usage buffers.BufUsage) *buffers.VertexBuffer {

	vb := &buffers.VertexBuffer{Format: format, Usage: usage}

	gl.GenBuffers(1, &vb.Id)
	if vb.Id == 0 {
		logging.ErrLog.Panicln("Failed to create OpenGL buffer")
	}

	return vb
}

func (d *GLDevice) NewIndexBuffer(usage buffers.BufUsage) *buffers.IndexBuffer {

	ib := &buffers.IndexBuffer{Usage: usage}

	gl.GenBuffers(1, &ib.Id)
	if ib.Id == 0 {
		logging.ErrLog.Panicln("Failed to create OpenGL buffer")
	}

	return ib
}

func (d *GLDevice) UploadVertices(vb *buffers.VertexBuffer, values []float32) {

	gl.BindBuffer(gl.ARRAY_BUFFER, vb.Id)

	sizeInBytes := len(values) * 4
	if sizeInBytes == 0 {
		gl.BufferData(gl.ARRAY_BUFFER, 0, gl.Ptr(nil), usageToGL(vb.Usage))
	} else {
		gl.BufferData(gl.ARRAY_BUFFER, sizeInBytes, gl.Ptr(&values[0]), usageToGL(vb.Usage))
	}

	vb.VertexCount = int32(len(values) / vb.Format.FloatsPerVertex())
}

func (d *GLDevice) UploadIndices(ib *buffers.IndexBuffer, values []uint16) {

	// Element buffer bindings are VAO state, so make sure no VAO gets changed
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ib.Id)

	sizeInBytes := len(values) * 2
	ib.IndexBufCount = int32(len(values))

	if sizeInBytes == 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, 0, gl.Ptr(nil), usageToGL(ib.Usage))
	} else {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, sizeInBytes, gl.Ptr(&values[0]), usageToGL(ib.Usage))
	}
}

func usageToGL(b buffers.BufUsage) uint32 {
	switch b {
	case buffers.BufUsage_Static_Draw:
		return gl.STATIC_DRAW
	case buffers.BufUsage_Dynamic_Draw:
		return gl.DYNAMIC_DRAW
	case buffers.BufUsage_Stream_Draw:
		return gl.STREAM_DRAW
	default:
		logging.ErrLog.Printf("Unknown buffer usage '%d', using dynamic draw\n", b)
		return gl.DYNAMIC_DRAW
	}
}

func elementTypeToGL(dt buffers.ElementType) uint32 {
	switch dt {
	case buffers.DataTypeUint32:
		return gl.UNSIGNED_INT
	case buffers.DataTypeInt32:
		return gl.INT
	default:
		return gl.FLOAT
	}
}

func NewGLDevice() *GLDevice {
	return &GLDevice{}
}
