package batcher

import (
	"github.com/bloeys/nbatch/assert"
	"github.com/bloeys/nbatch/logging"
	"github.com/bloeys/nbatch/scene"
)

// ModelPool hands out models by index. Models are reused every frame and never freed,
// the pool only grows.
type ModelPool struct {
	models []*scene.Model
	offset int
}

// Acquire returns the next unused model, growing the pool by one if it is exhausted
func (p *ModelPool) Acquire() *scene.Model {

	if p.offset >= len(p.models) {
		p.models = append(p.models, scene.NewModel())
		logging.DbgLog.Printf("Model pool grew to %d models\n", len(p.models))
	}

	m := p.models[p.offset]
	p.offset++

	assert.T(p.offset <= len(p.models), "Model pool offset %d is past its capacity %d", p.offset, len(p.models))
	return m
}

// Reset resets every model handed out since the last reset and rewinds the offset
func (p *ModelPool) Reset() {

	for i := 0; i < p.offset; i++ {
		p.models[i].Reset()
	}

	p.offset = 0
}

// Offset is the number of models handed out since the last reset
func (p *ModelPool) Offset() int {
	return p.offset
}

// Cap is the number of models the pool owns
func (p *ModelPool) Cap() int {
	return len(p.models)
}

func NewModelPool(initialSize int) ModelPool {

	p := ModelPool{
		models: make([]*scene.Model, initialSize),
	}

	for i := 0; i < initialSize; i++ {
		p.models[i] = scene.NewModel()
	}

	return p
}
