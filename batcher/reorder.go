package batcher

import (
	"math"
	"slices"

	"github.com/bloeys/nbatch/assemblers"
	"github.com/bloeys/nbatch/buffers"
	"github.com/bloeys/nbatch/scene"
)

// Rect is an axis aligned rectangle in world space
type Rect struct {
	X, Y, W, H float32
}

// Intersects reports whether the rectangles overlap. Touching edges count as overlapping.
func (r Rect) Intersects(o Rect) bool {
	return !(r.X+r.W < o.X || o.X+o.W < r.X || r.Y+r.H < o.Y || o.Y+o.H < r.Y)
}

type drawCmd struct {
	node        *scene.Node
	assembler   assemblers.Assembler
	custom      assemblers.CustomAssembler
	cullingMask uint32

	aabb       Rect
	effectHash uint64
}

// flushCommands reorders the queued commands and commits them.
// Commands queued while replaying wait for the next flush.
func (b *ModelBatcher) flushCommands() {

	if len(b.drawCmds) == 0 {
		return
	}

	for i := 0; i < len(b.drawCmds); i++ {
		annotate(&b.drawCmds[i])
	}

	cmds := reorder(b.drawCmds, b.drawCmdsTemp[:0], b.opts.FallbackPlacement)
	b.drawCmdsTemp = cmds

	clear(b.drawCmds)
	b.drawCmds = b.drawCmds[:0]

	for i := 0; i < len(cmds); i++ {
		cmd := &cmds[i]
		if cmd.assembler != nil {
			b.commit(cmd.node, cmd.assembler, cmd.cullingMask)
		} else if cmd.custom != nil {
			b.commitIA(cmd.node, cmd.custom, cmd.cullingMask)
		}
	}

	clear(b.drawCmdsTemp)
	b.drawCmdsTemp = b.drawCmdsTemp[:0]
}

// annotate computes the world bounds and effect hash of a command.
// Custom commands and commands without geometry get a zero rect and hash.
func annotate(cmd *drawCmd) {

	cmd.aabb = Rect{}
	cmd.effectHash = 0

	asm := cmd.assembler
	if asm == nil || asm.IACount() == 0 {
		return
	}

	if e := asm.Effect(0); e != nil {
		cmd.effectHash = e.Hash()
	}

	rd := asm.RenderData(0)
	if rd == nil || rd.Format == nil || len(rd.Vertices) == 0 {
		return
	}

	el, ok := rd.Format.Element(buffers.AttrPosition)
	if !ok {
		return
	}

	minX, minY := float32(math.MaxFloat32), float32(math.MaxFloat32)
	maxX, maxY := float32(-math.MaxFloat32), float32(-math.MaxFloat32)

	stride := rd.Format.FloatsPerVertex()
	for v := el.Offset / 4; v+1 < len(rd.Vertices); v += stride {
		x, y := rd.Vertices[v], rd.Vertices[v+1]
		minX = min(minX, x)
		minY = min(minY, y)
		maxX = max(maxX, x)
		maxY = max(maxY, y)
	}

	// Sprite render data is already in world space
	if asm.Kind() != assemblers.Kind_Sprite && cmd.node != nil {
		minX, minY, maxX, maxY = transformBounds(minX, minY, maxX, maxY, cmd)
	}

	cmd.aabb = Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// transformBounds moves all four corners of a local rect into world space and returns their bounds
func transformBounds(minX, minY, maxX, maxY float32, cmd *drawCmd) (float32, float32, float32, float32) {

	m := cmd.node.WorldMatrix()
	corners := [4][2]float32{{minX, minY}, {maxX, minY}, {minX, maxY}, {maxX, maxY}}

	outMinX, outMinY := float32(math.MaxFloat32), float32(math.MaxFloat32)
	outMaxX, outMaxY := float32(-math.MaxFloat32), float32(-math.MaxFloat32)
	for _, c := range corners {
		x := m.Data[0][0]*c[0] + m.Data[1][0]*c[1] + m.Data[3][0]
		y := m.Data[0][1]*c[0] + m.Data[1][1]*c[1] + m.Data[3][1]
		outMinX = min(outMinX, x)
		outMinY = min(outMinY, y)
		outMaxX = max(outMaxX, x)
		outMaxY = max(outMaxY, y)
	}

	return outMinX, outMinY, outMaxX, outMaxY
}

// reorder builds a new draw order into out. Each command is scanned against the already placed
// commands from the last one back. It goes right after the first one it overlaps, so draw order
// between overlapping commands is kept, or right after the first one sharing its effect.
// If neither is found it goes to the position picked by placement.
func reorder(cmds []drawCmd, out []drawCmd, placement Placement) []drawCmd {

	for i := 0; i < len(cmds); i++ {

		cmd := cmds[i]

		index := 0
		if placement == Placement_Back {
			index = len(out)
		}

		for j := len(out); j > 0; j-- {

			placed := &out[j-1]
			if placed.aabb.Intersects(cmd.aabb) {
				index = j
				if placement == Placement_Back {
					index = len(out)
				}
				break
			}

			if placed.effectHash == cmd.effectHash {
				index = j
				break
			}
		}

		out = slices.Insert(out, index, cmd)
	}

	return out
}
