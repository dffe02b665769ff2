package meshes

import (
	"testing"

	"github.com/bloeys/gglm/gglm"
	"github.com/bloeys/nbatch/buffers"
)

func TestInterleave(t *testing.T) {

	out := interleave(
		ArrToInterleave{V3s: []gglm.Vec3{gglm.NewVec3(1, 2, 3), gglm.NewVec3(4, 5, 6)}},
		ArrToInterleave{V2s: []gglm.Vec2{gglm.NewVec2(7, 8), gglm.NewVec2(9, 10)}},
	)

	want := []float32{1, 2, 3, 7, 8, 4, 5, 6, 9, 10}
	if len(out) != len(want) {
		t.Fatalf("Expected %d floats but got %d", len(want), len(out))
	}

	for i := range want {
		if out[i] != want[i] {
			t.Errorf("Index %d: expected %v but got %v", i, want[i], out[i])
		}
	}
}

func TestNewQuad(t *testing.T) {

	rd := NewQuad(buffers.VFmtPosUvColor, 10, 20, 30, 40, gglm.NewVec4(1, 1, 1, 0.5))

	if rd.VertexCount() != 4 {
		t.Fatalf("Expected 4 vertices but got %d", rd.VertexCount())
	}

	if len(rd.Indices) != 6 {
		t.Fatalf("Expected 6 indices but got %d", len(rd.Indices))
	}

	stride := buffers.VFmtPosUvColor.FloatsPerVertex()

	// Top right vertex
	tr := rd.Vertices[3*stride : 4*stride]
	if tr[0] != 40 || tr[1] != 60 {
		t.Errorf("Expected top right at (40, 60) but got (%v, %v)", tr[0], tr[1])
	}

	col, _ := buffers.VFmtPosUvColor.Element(buffers.AttrColor)
	if alpha := tr[col.Offset/4+3]; alpha != 0.5 {
		t.Errorf("Expected alpha 0.5 but got %v", alpha)
	}

	// Indices are copied, editing one quad must not affect another
	rd.Indices[0] = 99
	if QuadIndices[0] != 0 {
		t.Error("NewQuad shares the QuadIndices backing array")
	}
}

func TestRenderDataClone(t *testing.T) {

	rd := NewQuad(buffers.VFmtPosColor, 0, 0, 1, 1, gglm.NewVec4(1, 1, 1, 1))
	c := rd.Clone()
	c.Vertices[0] = 100

	if rd.Vertices[0] == 100 {
		t.Error("Clone shares vertex memory with the source")
	}
}
