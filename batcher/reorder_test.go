package batcher

import (
	"testing"

	"github.com/bloeys/gglm/gglm"
	"github.com/bloeys/nbatch/assemblers"
	"github.com/bloeys/nbatch/buffers"
	"github.com/bloeys/nbatch/materials"
	"github.com/bloeys/nbatch/meshes"
	"github.com/bloeys/nbatch/scene"
)

func TestRectIntersects(t *testing.T) {

	tests := []struct {
		name string
		a, b Rect
		want bool
	}{
		{"overlap", Rect{0, 0, 10, 10}, Rect{5, 5, 10, 10}, true},
		{"touching edges", Rect{0, 0, 10, 10}, Rect{10, 0, 10, 10}, true},
		{"apart on x", Rect{0, 0, 10, 10}, Rect{11, 0, 10, 10}, false},
		{"apart on y", Rect{0, 0, 10, 10}, Rect{0, 20, 10, 10}, false},
		{"contained", Rect{0, 0, 10, 10}, Rect{2, 2, 1, 1}, true},
		{"zero rects", Rect{}, Rect{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Intersects(tt.b); got != tt.want {
				t.Errorf("Expected %v but got %v", tt.want, got)
			}
			if got := tt.b.Intersects(tt.a); got != tt.want {
				t.Errorf("Intersects is not symmetric. Expected %v but got %v", tt.want, got)
			}
		})
	}
}

func cmd(id int, hash uint64, x float32) drawCmd {
	// cullingMask carries an id so the order can be checked
	return drawCmd{cullingMask: uint32(id), effectHash: hash, aabb: Rect{X: x, W: 10, H: 10}}
}

func order(cmds []drawCmd) []int {
	ids := make([]int, len(cmds))
	for i := range cmds {
		ids[i] = int(cmds[i].cullingMask)
	}
	return ids
}

func equalOrder(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestReorder(t *testing.T) {

	tests := []struct {
		name      string
		cmds      []drawCmd
		placement Placement
		want      []int
	}{
		{
			name:      "unrelated go to the front",
			cmds:      []drawCmd{cmd(1, 1, 0), cmd(2, 2, 100), cmd(3, 3, 200)},
			placement: Placement_Front,
			want:      []int{3, 2, 1},
		},
		{
			name:      "unrelated go to the back",
			cmds:      []drawCmd{cmd(1, 1, 0), cmd(2, 2, 100), cmd(3, 3, 200)},
			placement: Placement_Back,
			want:      []int{1, 2, 3},
		},
		{
			name:      "same hash is grouped",
			cmds:      []drawCmd{cmd(1, 1, 0), cmd(2, 2, 100), cmd(3, 1, 200)},
			placement: Placement_Front,
			want:      []int{2, 1, 3},
		},
		{
			name:      "same hash is grouped with back placement",
			cmds:      []drawCmd{cmd(1, 1, 0), cmd(2, 2, 100), cmd(3, 1, 200), cmd(4, 2, 300)},
			placement: Placement_Back,
			want:      []int{1, 3, 2, 4},
		},
		{
			name:      "overlap stops the scan",
			cmds:      []drawCmd{cmd(1, 1, 0), cmd(2, 2, 5), cmd(3, 1, 8)},
			placement: Placement_Front,
			want:      []int{1, 2, 3},
		},
		{
			name:      "overlap is found before an earlier hash match",
			cmds:      []drawCmd{cmd(1, 1, 0), cmd(2, 2, 100), cmd(3, 3, 500), cmd(4, 3, 105)},
			placement: Placement_Front,
			want:      []int{3, 2, 4, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := order(reorder(tt.cmds, nil, tt.placement))
			if !equalOrder(got, tt.want) {
				t.Errorf("Expected order %v but got %v", tt.want, got)
			}
		})
	}
}

func TestAnnotateMeshUsesWorldBounds(t *testing.T) {

	n := scene.NewNode("n")
	n.SetPosition(100, 200, 0)
	n.UpdateWorld()

	e := materials.NewEffect("e", nil)
	m := assemblers.NewMesh(&meshes.Mesh{
		Name:      "quad",
		SubMeshes: []meshes.RenderData{meshes.NewQuad(buffers.VFmtPosColor, 1, 2, 3, 4, gglm.NewVec4(1, 1, 1, 1))},
	}, e)

	c := drawCmd{node: n, assembler: m}
	annotate(&c)

	want := Rect{X: 101, Y: 202, W: 3, H: 4}
	if c.aabb != want {
		t.Errorf("Expected bounds %+v but got %+v", want, c.aabb)
	}

	if c.effectHash != e.Hash() {
		t.Error("Command hash does not match its effect")
	}
}

func TestAnnotateSpriteIsAlreadyWorld(t *testing.T) {

	n := scene.NewNode("n")
	n.SetPosition(100, 0, 0)
	n.UpdateWorld()

	s := assemblers.NewSprite(buffers.VFmtPosUvColor, materials.NewEffect("e", nil), 0, 0, 10, 10)
	s.Update(n)

	c := drawCmd{node: n, assembler: s}
	annotate(&c)

	// Transforming again would give x=200
	if c.aabb.X != 100 {
		t.Errorf("Expected sprite bounds at x=100 but got %v", c.aabb.X)
	}
}

func TestAnnotateCustomIsZero(t *testing.T) {

	c := drawCmd{node: scene.NewNode("n"), custom: assemblers.NewCustom(materials.NewEffect("e", nil))}
	annotate(&c)

	if c.aabb != (Rect{}) || c.effectHash != 0 {
		t.Errorf("Expected zero bounds and hash but got %+v and %d", c.aabb, c.effectHash)
	}
}
