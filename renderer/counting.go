package renderer

import (
	"github.com/bloeys/nbatch/scene"
)

var _ Render = &CountingRender{}

// FrameStats describes one drawn frame
type FrameStats struct {
	DrawCalls int
	Indices   int
	// EffectSwitches counts draws whose effect differs from the draw before them
	EffectSwitches int
}

// CountingRender draws nothing and only records what would have been drawn. It backs headless runs.
type CountingRender struct {
	Frames    int
	LastFrame FrameStats

	curr       FrameStats
	lastEffect uint64
	hasEffect  bool
}

func (r *CountingRender) DrawModels(models []*scene.Model) {

	for _, m := range models {

		e := m.Effect()
		ia := m.InputAssembler()
		if e == nil || ia.Count <= 0 {
			continue
		}

		r.curr.DrawCalls++
		r.curr.Indices += ia.Count

		if !r.hasEffect || e.Hash() != r.lastEffect {
			r.curr.EffectSwitches++
			r.lastEffect = e.Hash()
			r.hasEffect = true
		}
	}
}

func (r *CountingRender) FrameEnd() {
	r.LastFrame = r.curr
	r.curr = FrameStats{}
	r.hasEffect = false
	r.Frames++
}

func NewCountingRender() *CountingRender {
	return &CountingRender{}
}
