// Package refs provides the reference counter shared by objects that the
// batcher borrows for the lifetime of a batch (effects and nodes).
package refs

import "github.com/bloeys/nbatch/assert"

// Counter is embedded by types whose borrow count must balance out.
// It is not safe for concurrent use, the batcher is single threaded.
type Counter struct {
	n int32
}

func (c *Counter) Retain() {
	c.n++
}

func (c *Counter) Release() {
	assert.T(c.n > 0, "Release called on a counter with no references")
	c.n--
}

// Refs returns the number of outstanding borrows
func (c *Counter) Refs() int32 {
	return c.n
}
