package renderer

import (
	"github.com/bloeys/nbatch/scene"
)

// Render draws the models produced by the batcher for one frame, in order
type Render interface {
	DrawModels(models []*scene.Model)
	FrameEnd()
}
