package assemblers

import (
	"github.com/bloeys/nbatch/buffers"
	"github.com/bloeys/nbatch/materials"
)

var _ CustomAssembler = &Custom{}

// Custom hands prebuilt input assemblers to the batcher. No geometry is copied,
// consecutive ranges on the same buffers are merged into one draw.
type Custom struct {
	Effects []*materials.Effect
	IAs     []*buffers.InputAssembler

	useModel bool
}

func (c *Custom) Kind() Kind {
	return Kind_Custom
}

func (c *Custom) UseModel() bool {
	return c.useModel
}

func (c *Custom) SetUseModel(useModel bool) {
	c.useModel = useModel
}

func (c *Custom) IACount() int {
	return len(c.IAs)
}

func (c *Custom) IA(i int) *buffers.InputAssembler {

	if i < 0 || i >= len(c.IAs) {
		return nil
	}

	return c.IAs[i]
}

// Effect returns the effect of range i. Ranges past the end of Effects use the last effect.
func (c *Custom) Effect(i int) *materials.Effect {

	if len(c.Effects) == 0 {
		return nil
	}

	if i >= len(c.Effects) {
		return c.Effects[len(c.Effects)-1]
	}

	return c.Effects[i]
}

func NewCustom(effect *materials.Effect, ias ...*buffers.InputAssembler) *Custom {
	return &Custom{
		Effects: []*materials.Effect{effect},
		IAs:     ias,
	}
}
