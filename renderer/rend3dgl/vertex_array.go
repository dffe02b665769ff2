package rend3dgl

import (
	"github.com/bloeys/nbatch/buffers"
	"github.com/bloeys/nbatch/logging"
	"github.com/go-gl/gl/v4.1-core/gl"
)

// VertexArray binds one vertex buffer and one index buffer together.
// Attribute locations follow the order of the vertex format's elements.
type VertexArray struct {
	Id          uint32
	VertexBuf   *buffers.VertexBuffer
	IndexBuffer *buffers.IndexBuffer
}

func (va *VertexArray) Bind() {
	gl.BindVertexArray(va.Id)
}

func (va *VertexArray) UnBind() {
	gl.BindVertexArray(0)
}

func (va *VertexArray) Delete() {
	gl.DeleteVertexArrays(1, &va.Id)
	va.Id = 0
}

func (va *VertexArray) setVertexBuffer(vb *buffers.VertexBuffer) {

	// NOTE: VBOs are only bound at 'VertexAttribPointer' (and related) calls

	va.Bind()
	gl.BindBuffer(gl.ARRAY_BUFFER, vb.Id)

	layout := vb.Format.GetLayout()
	for i := 0; i < len(layout); i++ {

		l := &layout[i]

		gl.EnableVertexAttribArray(uint32(i))
		gl.VertexAttribPointerWithOffset(uint32(i), l.ElementType.CompCount(), elementTypeToGL(l.ElementType), false, vb.Format.Stride, uintptr(l.Offset))
	}

	va.VertexBuf = vb
}

func (va *VertexArray) setIndexBuffer(ib *buffers.IndexBuffer) {
	va.Bind()
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ib.Id)
	va.IndexBuffer = ib
}

func NewVertexArray(vb *buffers.VertexBuffer, ib *buffers.IndexBuffer) VertexArray {

	vao := VertexArray{}

	gl.GenVertexArrays(1, &vao.Id)
	if vao.Id == 0 {
		logging.ErrLog.Println("Failed to create OpenGL vertex array object")
	}

	vao.setVertexBuffer(vb)
	vao.setIndexBuffer(ib)
	vao.UnBind()

	return vao
}
