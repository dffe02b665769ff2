package meshes

import (
	"github.com/bloeys/gglm/gglm"
	"github.com/bloeys/nbatch/assert"
)

// ArrToInterleave is one attribute array. Exactly one of the slices should be set.
type ArrToInterleave struct {
	V2s []gglm.Vec2
	V3s []gglm.Vec3
	V4s []gglm.Vec4
}

func (a *ArrToInterleave) get(i int) []float32 {

	assert.T(len(a.V2s) == 0 || len(a.V3s) == 0, "One array should be set in ArrToInterleave, but multiple arrays are set")
	assert.T(len(a.V2s) == 0 || len(a.V4s) == 0, "One array should be set in ArrToInterleave, but multiple arrays are set")
	assert.T(len(a.V3s) == 0 || len(a.V4s) == 0, "One array should be set in ArrToInterleave, but multiple arrays are set")

	if len(a.V2s) > 0 {
		return a.V2s[i].Data[:]
	} else if len(a.V3s) > 0 {
		return a.V3s[i].Data[:]
	} else {
		return a.V4s[i].Data[:]
	}
}

func (a *ArrToInterleave) len() int {

	if len(a.V2s) > 0 {
		return len(a.V2s)
	} else if len(a.V3s) > 0 {
		return len(a.V3s)
	}

	return len(a.V4s)
}

func (a *ArrToInterleave) compCount() int32 {

	if len(a.V2s) > 0 {
		return 2
	} else if len(a.V3s) > 0 {
		return 3
	}

	return 4
}

func interleave(arrs ...ArrToInterleave) []float32 {

	assert.T(len(arrs) > 0, "No input sent to interleave")
	assert.T(arrs[0].len() > 0, "Interleave arrays are empty")

	elementCount := arrs[0].len()

	//Calculate final size of the float buffer
	totalSize := 0
	for i := 0; i < len(arrs); i++ {

		assert.T(arrs[i].len() == elementCount, "Mesh vertex data given to interleave is not the same length")
		totalSize += arrs[i].len() * int(arrs[i].compCount())
	}

	out := make([]float32, 0, totalSize)
	for i := 0; i < elementCount; i++ {
		for arrToUse := 0; arrToUse < len(arrs); arrToUse++ {
			out = append(out, arrs[arrToUse].get(i)...)
		}
	}

	return out
}
